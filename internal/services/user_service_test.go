package services

import (
	"testing"

	"github.com/nwaizer/projecthub/internal/models"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	serviceTestSuite
	svc     *UserService
	itemSvc *WorkItemService
}

func (s *UserServiceTestSuite) SetupTest() {
	s.serviceTestSuite.SetupTest()
	s.svc = NewUserService(s.stores)
	s.itemSvc = NewWorkItemService(s.stores, nil)
}

func (s *UserServiceTestSuite) TestUpdateProfile() {
	user := s.createUser("alice")

	name := "Alice B"
	bio := "Backend engineer"
	updated, err := s.svc.UpdateProfile(user.ID, UpdateUserInput{Name: &name, Bio: &bio})
	s.Require().NoError(err)
	s.Equal("Alice B", updated.Name)
	s.Equal("Backend engineer", updated.Bio)
}

func (s *UserServiceTestSuite) TestUpdateProfileUsernameTaken() {
	s.createUser("alice")
	bob := s.createUser("bob")

	taken := "alice"
	_, err := s.svc.UpdateProfile(bob.ID, UpdateUserInput{Username: &taken})
	s.Require().ErrorIs(err, ErrUsernameTakenUpdate)
	s.Equal("bob", s.loadUser(bob.ID).Username)
}

func (s *UserServiceTestSuite) TestAcceptInviteBecomesDeveloper() {
	creator := s.createUser("creator")
	invitee := s.createUser("invitee")
	project := s.createProject(creator.ID, "Project")
	s.addMember(project, invitee.ID, models.RoleInvitee)

	updated, err := s.svc.AcceptInvite(invitee.ID, project.ID)
	s.Require().NoError(err)

	s.Contains(updated.Projects, project.ID)
	s.NotContains(updated.ProjectInvites, project.ID)

	reloaded := s.loadProject(project.ID)
	s.Contains(reloaded.Developers, invitee.ID)
	s.NotContains(reloaded.Invites, invitee.ID)
}

func (s *UserServiceTestSuite) TestAcceptInviteWithoutInvite() {
	creator := s.createUser("creator")
	outsider := s.createUser("outsider")
	project := s.createProject(creator.ID, "Project")

	_, err := s.svc.AcceptInvite(outsider.ID, project.ID)
	s.Require().ErrorIs(err, ErrNotInvited)
	s.Empty(s.loadProject(project.ID).Developers)
}

func (s *UserServiceTestSuite) TestRejectInviteClearsBothSides() {
	creator := s.createUser("creator")
	invitee := s.createUser("invitee")
	project := s.createProject(creator.ID, "Project")
	s.addMember(project, invitee.ID, models.RoleInvitee)

	updated, err := s.svc.RejectInvite(invitee.ID, project.ID)
	s.Require().NoError(err)

	s.Empty(updated.ProjectInvites)
	s.Empty(updated.Projects)
	s.Empty(s.loadProject(project.ID).Invites)
}

func (s *UserServiceTestSuite) TestLeaveProjectStripsAssignments() {
	creator := s.createUser("creator")
	dev := s.createUser("dev")
	project := s.createProject(creator.ID, "Project")
	s.addMember(project, dev.ID, models.RoleDeveloper)

	item, _, err := s.itemSvc.Create(CreateWorkItemInput{
		Kind: models.KindTask, ProjectID: project.ID, ActorID: creator.ID,
		Name: "Task", Description: "Desc", Assigned: []uint64{dev.ID},
	})
	s.Require().NoError(err)

	updated, gaps, err := s.svc.LeaveProject(dev.ID, project.ID)
	s.Require().NoError(err)
	s.Empty(gaps)

	s.Empty(updated.Projects)
	s.Empty(updated.Tasks)
	s.Empty(s.loadProject(project.ID).Developers)
	s.Empty(s.loadItem(item.ID).Assigned)
}

func (s *UserServiceTestSuite) TestLeaveProjectCreatorRefused() {
	creator := s.createUser("creator")
	project := s.createProject(creator.ID, "Project")

	_, _, err := s.svc.LeaveProject(creator.ID, project.ID)
	s.Require().ErrorIs(err, ErrCreatorCannotLeave)
	s.Contains(s.loadUser(creator.ID).Projects, project.ID)
}

func (s *UserServiceTestSuite) TestLeaveWorkItem() {
	creator := s.createUser("creator")
	dev := s.createUser("dev")
	project := s.createProject(creator.ID, "Project")
	s.addMember(project, dev.ID, models.RoleDeveloper)

	item, _, err := s.itemSvc.Create(CreateWorkItemInput{
		Kind: models.KindBug, ProjectID: project.ID, ActorID: creator.ID,
		Name: "Bug", Description: "Desc", Assigned: []uint64{dev.ID},
	})
	s.Require().NoError(err)

	updated, err := s.svc.LeaveWorkItem(dev.ID, item.ID)
	s.Require().NoError(err)

	s.Empty(updated.Bugs)
	s.Empty(s.loadItem(item.ID).Assigned)
}

func (s *UserServiceTestSuite) TestDeleteSeversAllReferences() {
	creator := s.createUser("creator")
	dev := s.createUser("dev")
	other := s.createUser("other")
	project := s.createProject(creator.ID, "Project")
	otherProject := s.createProject(other.ID, "Other")
	s.addMember(project, dev.ID, models.RoleDeveloper)
	s.addMember(otherProject, dev.ID, models.RoleInvitee)

	item, _, err := s.itemSvc.Create(CreateWorkItemInput{
		Kind: models.KindTask, ProjectID: project.ID, ActorID: creator.ID,
		Name: "Task", Description: "Desc", Assigned: []uint64{dev.ID},
	})
	s.Require().NoError(err)

	gaps, err := s.svc.Delete(dev.ID)
	s.Require().NoError(err)
	s.Empty(gaps)

	_, err = s.svc.Get(dev.ID)
	s.Require().ErrorIs(err, ErrUserNotFound)

	s.Empty(s.loadProject(project.ID).Developers)
	s.Empty(s.loadProject(otherProject.ID).Invites)
	s.Empty(s.loadItem(item.ID).Assigned)
}

func (s *UserServiceTestSuite) TestDeleteRefusedWhileOwningProjects() {
	creator := s.createUser("creator")
	s.createProject(creator.ID, "Project")

	_, err := s.svc.Delete(creator.ID)
	s.Require().ErrorIs(err, ErrUserOwnsProjects)

	_, err = s.svc.Get(creator.ID)
	s.Require().NoError(err)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
