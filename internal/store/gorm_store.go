package store

import (
	"errors"

	"github.com/nwaizer/projecthub/internal/models"
	"gorm.io/gorm"
)

// NewStores creates GORM-backed stores for all entity kinds.
func NewStores(db *gorm.DB) Stores {
	return Stores{
		Users:     &GormUserStore{db: db},
		Projects:  &GormProjectStore{db: db},
		WorkItems: &GormWorkItemStore{db: db},
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if page > 0 && pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	return query
}

// GormUserStore is a GORM implementation of UserStore.
type GormUserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) UserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) Load(id uint64) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (s *GormUserStore) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (s *GormUserStore) Save(user *models.User) error {
	return s.db.Save(user).Error
}

func (s *GormUserStore) Delete(id uint64) error {
	return s.db.Delete(&models.User{}, id).Error
}

func (s *GormUserStore) FindAll(page, pageSize int) ([]models.User, int64, error) {
	var total int64
	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := paginate(s.db, page, pageSize).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// GormProjectStore is a GORM implementation of ProjectStore.
type GormProjectStore struct {
	db *gorm.DB
}

func NewProjectStore(db *gorm.DB) ProjectStore {
	return &GormProjectStore{db: db}
}

func (s *GormProjectStore) Load(id uint64) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &project, nil
}

func (s *GormProjectStore) Save(project *models.Project) error {
	return s.db.Save(project).Error
}

func (s *GormProjectStore) Delete(id uint64) error {
	return s.db.Delete(&models.Project{}, id).Error
}

func (s *GormProjectStore) FindAll(page, pageSize int) ([]models.Project, int64, error) {
	var total int64
	if err := s.db.Model(&models.Project{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := paginate(s.db, page, pageSize).Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// GormWorkItemStore is a GORM implementation of WorkItemStore.
type GormWorkItemStore struct {
	db *gorm.DB
}

func NewWorkItemStore(db *gorm.DB) WorkItemStore {
	return &GormWorkItemStore{db: db}
}

func (s *GormWorkItemStore) Load(id uint64) (*models.WorkItem, error) {
	var item models.WorkItem
	if err := s.db.First(&item, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &item, nil
}

func (s *GormWorkItemStore) Save(item *models.WorkItem) error {
	return s.db.Save(item).Error
}

func (s *GormWorkItemStore) Delete(id uint64) error {
	return s.db.Delete(&models.WorkItem{}, id).Error
}

func (s *GormWorkItemStore) FindAll(kind models.WorkItemKind, page, pageSize int) ([]models.WorkItem, int64, error) {
	var total int64
	if err := s.db.Model(&models.WorkItem{}).Where("kind = ?", kind).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.WorkItem
	if err := paginate(s.db.Where("kind = ?", kind), page, pageSize).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *GormWorkItemStore) FindByProject(projectID uint64, kind models.WorkItemKind) ([]models.WorkItem, error) {
	var items []models.WorkItem
	if err := s.db.Where("project_id = ? AND kind = ?", projectID, kind).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
