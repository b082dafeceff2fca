// Package store provides per-entity persistence. Each entity is a
// single row and every save is a whole-row write with last-write-wins
// semantics; the store offers no cross-entity transaction.
package store

import (
	"errors"

	"github.com/nwaizer/projecthub/internal/models"
)

// ErrNotFound is returned when the requested entity does not exist.
// During propagation the services treat it as a consistency-gap signal
// rather than a fatal error.
var ErrNotFound = errors.New("entity not found")

// UserStore defines data access for users. FindAll applies pagination
// when page and pageSize are positive and returns the total row count.
type UserStore interface {
	Load(id uint64) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	Save(user *models.User) error
	Delete(id uint64) error
	FindAll(page, pageSize int) ([]models.User, int64, error)
}

// ProjectStore defines data access for projects.
type ProjectStore interface {
	Load(id uint64) (*models.Project, error)
	Save(project *models.Project) error
	Delete(id uint64) error
	FindAll(page, pageSize int) ([]models.Project, int64, error)
}

// WorkItemStore defines data access for tasks and bugs.
type WorkItemStore interface {
	Load(id uint64) (*models.WorkItem, error)
	Save(item *models.WorkItem) error
	Delete(id uint64) error
	FindAll(kind models.WorkItemKind, page, pageSize int) ([]models.WorkItem, int64, error)
	FindByProject(projectID uint64, kind models.WorkItemKind) ([]models.WorkItem, error)
}

// Stores bundles the three entity stores the services depend on.
type Stores struct {
	Users     UserStore
	Projects  ProjectStore
	WorkItems WorkItemStore
}
