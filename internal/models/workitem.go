package models

import "time"

type WorkItemKind string

const (
	KindTask WorkItemKind = "task"
	KindBug  WorkItemKind = "bug"
)

type WorkItemStatus string

const (
	StatusCreated  WorkItemStatus = "Created"
	StatusProgress WorkItemStatus = "Progress"
	StatusDone     WorkItemStatus = "Done"
)

// Valid reports whether s is one of the recognized statuses.
func (s WorkItemStatus) Valid() bool {
	return s == StatusCreated || s == StatusProgress || s == StatusDone
}

// WorkItem is a task or a bug. The two kinds are structurally identical
// and share one table; Kind discriminates them. Every item belongs to
// exactly one project and mirrors its assignee set against each
// assignee's own task/bug list.
type WorkItem struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Kind        WorkItemKind   `gorm:"type:varchar(10);not null;index" json:"kind"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Status      WorkItemStatus `gorm:"type:varchar(20);not null;default:'Created'" json:"status"`
	CreatedDate time.Time      `gorm:"not null" json:"created_date"`
	EndDate     *time.Time     `json:"end_date"`
	ProjectID   uint64         `gorm:"not null;index" json:"project"`

	Assigned IDSet `gorm:"serializer:json" json:"assigned"`
}
