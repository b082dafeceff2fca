package services

import (
	"testing"

	"github.com/nwaizer/projecthub/internal/authz"
	"github.com/nwaizer/projecthub/internal/models"
	"github.com/stretchr/testify/suite"
)

type WorkItemServiceTestSuite struct {
	serviceTestSuite
	svc *WorkItemService
}

func (s *WorkItemServiceTestSuite) SetupTest() {
	s.serviceTestSuite.SetupTest()
	s.svc = NewWorkItemService(s.stores, nil)
}

func (s *WorkItemServiceTestSuite) TestCreateMirrorsProjectAndAssignees() {
	creator := s.createUser("creator")
	admin := s.createUser("admin")
	dev1 := s.createUser("dev1")
	dev2 := s.createUser("dev2")
	project := s.createProject(creator.ID, "Project")
	s.addMember(project, admin.ID, models.RoleAdmin)
	s.addMember(project, dev1.ID, models.RoleDeveloper)
	s.addMember(project, dev2.ID, models.RoleDeveloper)

	item, gaps, err := s.svc.Create(CreateWorkItemInput{
		Kind:        models.KindTask,
		ProjectID:   project.ID,
		ActorID:     admin.ID,
		Name:        "Build login page",
		Description: "HTML and wiring",
		Assigned:    []uint64{dev1.ID, dev2.ID},
	})
	s.Require().NoError(err)
	s.Empty(gaps)
	s.Equal(models.StatusCreated, item.Status)

	s.Equal(models.IDSet{item.ID}, s.loadProject(project.ID).Tasks)
	s.Equal(models.IDSet{item.ID}, s.loadUser(dev1.ID).Tasks)
	s.Equal(models.IDSet{item.ID}, s.loadUser(dev2.ID).Tasks)
	s.Equal(models.IDSet{dev1.ID, dev2.ID}, s.loadItem(item.ID).Assigned)
}

func (s *WorkItemServiceTestSuite) TestCreateBugUsesBugLists() {
	creator := s.createUser("creator")
	dev := s.createUser("dev")
	project := s.createProject(creator.ID, "Project")
	s.addMember(project, dev.ID, models.RoleDeveloper)

	item, _, err := s.svc.Create(CreateWorkItemInput{
		Kind:        models.KindBug,
		ProjectID:   project.ID,
		ActorID:     creator.ID,
		Name:        "Crash on save",
		Description: "Nil map write",
		Assigned:    []uint64{dev.ID},
	})
	s.Require().NoError(err)

	s.Equal(models.IDSet{item.ID}, s.loadProject(project.ID).Bugs)
	s.Empty(s.loadProject(project.ID).Tasks)
	s.Equal(models.IDSet{item.ID}, s.loadUser(dev.ID).Bugs)
	s.Empty(s.loadUser(dev.ID).Tasks)
}

func (s *WorkItemServiceTestSuite) TestCreateDeniedForDeveloper() {
	creator := s.createUser("creator")
	dev := s.createUser("dev")
	project := s.createProject(creator.ID, "Project")
	s.addMember(project, dev.ID, models.RoleDeveloper)

	_, _, err := s.svc.Create(CreateWorkItemInput{
		Kind:        models.KindTask,
		ProjectID:   project.ID,
		ActorID:     dev.ID,
		Name:        "Task",
		Description: "Desc",
	})

	var denied *authz.DeniedError
	s.Require().ErrorAs(err, &denied)
	s.Empty(s.loadProject(project.ID).Tasks)
}

func (s *WorkItemServiceTestSuite) TestCreateRequiresNameAndDescription() {
	creator := s.createUser("creator")
	project := s.createProject(creator.ID, "Project")

	_, _, err := s.svc.Create(CreateWorkItemInput{
		Kind: models.KindTask, ProjectID: project.ID, ActorID: creator.ID,
		Name: "", Description: "Desc",
	})
	s.Require().ErrorIs(err, ErrWorkItemNameRequired)

	_, _, err = s.svc.Create(CreateWorkItemInput{
		Kind: models.KindTask, ProjectID: project.ID, ActorID: creator.ID,
		Name: "Task", Description: "  ",
	})
	s.Require().ErrorIs(err, ErrDescriptionRequired)
}

func (s *WorkItemServiceTestSuite) TestUpdateAssignedSymmetricDifference() {
	creator := s.createUser("creator")
	u2 := s.createUser("u2")
	u3 := s.createUser("u3")
	u4 := s.createUser("u4")
	project := s.createProject(creator.ID, "Project")
	for _, u := range []uint64{u2.ID, u3.ID, u4.ID} {
		s.addMember(project, u, models.RoleDeveloper)
	}

	item, _, err := s.svc.Create(CreateWorkItemInput{
		Kind:        models.KindTask,
		ProjectID:   project.ID,
		ActorID:     creator.ID,
		Name:        "Task",
		Description: "Desc",
		Assigned:    []uint64{u2.ID, u3.ID},
	})
	s.Require().NoError(err)

	next := []uint64{u3.ID, u4.ID}
	_, gaps, err := s.svc.UpdateContent(item.ID, creator.ID, UpdateWorkItemInput{Assigned: &next})
	s.Require().NoError(err)
	s.Empty(gaps)

	s.NotContains(s.loadUser(u2.ID).Tasks, item.ID)
	s.Contains(s.loadUser(u3.ID).Tasks, item.ID)
	s.Contains(s.loadUser(u4.ID).Tasks, item.ID)
	s.ElementsMatch(models.IDSet{u3.ID, u4.ID}, s.loadItem(item.ID).Assigned)
}

// Applying the same assigned-set update twice must land in the same
// state as applying it once.
func (s *WorkItemServiceTestSuite) TestUpdateAssignedIsIdempotent() {
	creator := s.createUser("creator")
	u2 := s.createUser("u2")
	u3 := s.createUser("u3")
	project := s.createProject(creator.ID, "Project")
	s.addMember(project, u2.ID, models.RoleDeveloper)
	s.addMember(project, u3.ID, models.RoleDeveloper)

	item, _, err := s.svc.Create(CreateWorkItemInput{
		Kind:        models.KindTask,
		ProjectID:   project.ID,
		ActorID:     creator.ID,
		Name:        "Task",
		Description: "Desc",
		Assigned:    []uint64{u2.ID},
	})
	s.Require().NoError(err)

	next := []uint64{u3.ID}
	for i := 0; i < 2; i++ {
		_, _, err = s.svc.UpdateContent(item.ID, creator.ID, UpdateWorkItemInput{Assigned: &next})
		s.Require().NoError(err)
	}

	s.Equal(models.IDSet{u3.ID}, s.loadItem(item.ID).Assigned)
	s.Equal(models.IDSet{item.ID}, s.loadUser(u3.ID).Tasks)
	s.Empty(s.loadUser(u2.ID).Tasks)
}

func (s *WorkItemServiceTestSuite) TestUpdateContentDeniedForClient() {
	creator := s.createUser("creator")
	client := s.createUser("client")
	project := s.createProject(creator.ID, "Project")
	s.addMember(project, client.ID, models.RoleClient)

	item, _, err := s.svc.Create(CreateWorkItemInput{
		Kind: models.KindTask, ProjectID: project.ID, ActorID: creator.ID,
		Name: "Task", Description: "Desc",
	})
	s.Require().NoError(err)

	name := "Renamed"
	_, _, err = s.svc.UpdateContent(item.ID, client.ID, UpdateWorkItemInput{Name: &name})

	var denied *authz.DeniedError
	s.Require().ErrorAs(err, &denied)
	s.Equal("Task", s.loadItem(item.ID).Name)
}

func (s *WorkItemServiceTestSuite) TestUpdateStatusOpenToAnyAuthenticated() {
	creator := s.createUser("creator")
	outsider := s.createUser("outsider")
	project := s.createProject(creator.ID, "Project")

	item, _, err := s.svc.Create(CreateWorkItemInput{
		Kind: models.KindTask, ProjectID: project.ID, ActorID: creator.ID,
		Name: "Task", Description: "Desc",
	})
	s.Require().NoError(err)

	updated, err := s.svc.UpdateStatus(item.ID, outsider.ID, models.StatusDone)
	s.Require().NoError(err)
	s.Equal(models.StatusDone, updated.Status)
}

func (s *WorkItemServiceTestSuite) TestUpdateStatusRejectsUnknownValue() {
	creator := s.createUser("creator")
	project := s.createProject(creator.ID, "Project")

	item, _, err := s.svc.Create(CreateWorkItemInput{
		Kind: models.KindTask, ProjectID: project.ID, ActorID: creator.ID,
		Name: "Task", Description: "Desc",
	})
	s.Require().NoError(err)

	_, err = s.svc.UpdateStatus(item.ID, creator.ID, "Shipped")
	s.Require().ErrorIs(err, ErrInvalidStatus)
}

func (s *WorkItemServiceTestSuite) TestDeleteStripsAllReferences() {
	creator := s.createUser("creator")
	dev := s.createUser("dev")
	project := s.createProject(creator.ID, "Project")
	s.addMember(project, dev.ID, models.RoleDeveloper)

	item, _, err := s.svc.Create(CreateWorkItemInput{
		Kind: models.KindTask, ProjectID: project.ID, ActorID: creator.ID,
		Name: "Task", Description: "Desc", Assigned: []uint64{dev.ID},
	})
	s.Require().NoError(err)

	gaps, err := s.svc.Delete(item.ID, creator.ID)
	s.Require().NoError(err)
	s.Empty(gaps)

	s.Empty(s.loadProject(project.ID).Tasks)
	s.Empty(s.loadUser(dev.ID).Tasks)

	_, err = s.svc.Get(item.ID)
	s.Require().ErrorIs(err, ErrWorkItemNotFound)
}

func (s *WorkItemServiceTestSuite) TestCreateRecordsGapForMissingAssignee() {
	creator := s.createUser("creator")
	project := s.createProject(creator.ID, "Project")

	item, gaps, err := s.svc.Create(CreateWorkItemInput{
		Kind: models.KindTask, ProjectID: project.ID, ActorID: creator.ID,
		Name: "Task", Description: "Desc", Assigned: []uint64{12345},
	})
	s.Require().NoError(err)

	// The primary write succeeded; the missing user is a gap, not a
	// failure.
	s.Require().Len(gaps, 1)
	s.Equal("user", gaps[0].Kind)
	s.Equal(uint64(12345), gaps[0].ID)
	s.Equal(models.IDSet{item.ID}, s.loadProject(project.ID).Tasks)
}

func TestWorkItemServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkItemServiceTestSuite))
}
