package services

import (
	"time"

	"github.com/nwaizer/projecthub/internal/models"
	"github.com/nwaizer/projecthub/internal/store"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// serviceTestSuite provides an in-memory SQLite database and GORM
// stores for the service suites, plus fixture helpers.
type serviceTestSuite struct {
	suite.Suite
	db     *gorm.DB
	stores store.Stores
}

func (s *serviceTestSuite) SetupTest() {
	var err error
	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)

	err = s.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.WorkItem{},
	)
	s.Require().NoError(err)

	s.stores = store.NewStores(s.db)
}

func (s *serviceTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *serviceTestSuite) createUser(username string) *models.User {
	user := &models.User{
		Name:         username,
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	s.Require().NoError(s.stores.Users.Save(user))
	return user
}

func (s *serviceTestSuite) createProject(creatorID uint64, name string) *models.Project {
	project := &models.Project{
		Name:        name,
		Description: "Test Description",
		CreatedDate: time.Now(),
		CreatorID:   creatorID,
	}
	s.Require().NoError(s.stores.Projects.Save(project))

	creator, err := s.stores.Users.Load(creatorID)
	s.Require().NoError(err)
	creator.Projects = creator.Projects.Add(project.ID)
	s.Require().NoError(s.stores.Users.Save(creator))

	return project
}

// addMember places the user in the named role set and mirrors the
// project onto the user, the same state AcceptInvite or ChangeRole
// would produce.
func (s *serviceTestSuite) addMember(project *models.Project, userID uint64, role models.Role) {
	set := project.MemberSet(role)
	s.Require().NotNil(set)
	*set = set.Add(userID)
	s.Require().NoError(s.stores.Projects.Save(project))

	user, err := s.stores.Users.Load(userID)
	s.Require().NoError(err)
	if role == models.RoleInvitee {
		user.ProjectInvites = user.ProjectInvites.Add(project.ID)
	} else {
		user.Projects = user.Projects.Add(project.ID)
	}
	s.Require().NoError(s.stores.Users.Save(user))
}

func (s *serviceTestSuite) loadUser(id uint64) *models.User {
	user, err := s.stores.Users.Load(id)
	s.Require().NoError(err)
	return user
}

func (s *serviceTestSuite) loadProject(id uint64) *models.Project {
	project, err := s.stores.Projects.Load(id)
	s.Require().NoError(err)
	return project
}

func (s *serviceTestSuite) loadItem(id uint64) *models.WorkItem {
	item, err := s.stores.WorkItems.Load(id)
	s.Require().NoError(err)
	return item
}
