package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nwaizer/projecthub/internal/authz"
	"github.com/nwaizer/projecthub/internal/models"
	"github.com/nwaizer/projecthub/internal/store"
)

var (
	ErrProjectNotFound         = errors.New("project not found")
	ErrProjectNameRequired     = errors.New("project name is required")
	ErrInvalidRole             = errors.New("invalid role")
	ErrCreatorRoleImmutable    = errors.New("the creator's role cannot be changed")
	ErrCreatorCannotBeRemoved  = errors.New("the creator cannot be removed from the project")
	ErrMemberRemovalNotAllowed = errors.New("actor may not remove this member")
	ErrTargetUserNotFound      = errors.New("target user not found")
)

// ProjectService handles project mutations and the membership and
// work-item fan-out they trigger across users and work items.
type ProjectService struct {
	stores store.Stores
}

// NewProjectService creates a new ProjectService.
func NewProjectService(stores store.Stores) *ProjectService {
	return &ProjectService{stores: stores}
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	ActorID     uint64
	Name        string
	Description string
	Invites     []uint64
}

// UpdateProjectInput is an optional-field patch plus an invite delta.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	EndDate     *time.Time
	AddInvites  []uint64
}

// Create persists a project with the actor as its immutable creator,
// then mirrors the project onto the creator's project list and each
// invitee's pending-invite list. Invitees enter the invite set only;
// they become members when they accept.
func (s *ProjectService) Create(input CreateProjectInput) (*models.Project, []Gap, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil, ErrProjectNameRequired
	}

	creator, err := s.stores.Users.Load(input.ActorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to load creator: %w", err)
	}

	// The creator can never appear in a membership set.
	invites := models.IDSet(input.Invites).Dedup().Remove(creator.ID)

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		CreatedDate: time.Now(),
		CreatorID:   creator.ID,
		Invites:     invites,
	}

	if err := s.stores.Projects.Save(project); err != nil {
		return nil, nil, fmt.Errorf("failed to create project: %w", err)
	}

	var gaps gapList

	creator.Projects = creator.Projects.Add(project.ID)
	if err := s.stores.Users.Save(creator); err != nil {
		gaps.add("user", creator.ID, "append project reference", err)
	}

	for _, userID := range invites {
		user, err := s.stores.Users.Load(userID)
		if err != nil {
			gaps.add("user", userID, "load invitee", err)
			continue
		}
		user.ProjectInvites = user.ProjectInvites.Add(project.ID)
		if err := s.stores.Users.Save(user); err != nil {
			gaps.add("user", userID, "append invite reference", err)
		}
	}

	return project, gaps.list(), nil
}

// Get returns a project by ID.
func (s *ProjectService) Get(projectID uint64) (*models.Project, error) {
	project, err := s.stores.Projects.Load(projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}

// List returns one page of projects plus the total count.
func (s *ProjectService) List(page, pageSize int) ([]models.Project, int64, error) {
	projects, total, err := s.stores.Projects.FindAll(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// Update applies a basic-field patch and an invite delta. New invitees
// are mirrored onto both the project's invite set and each user's
// pending-invite list.
func (s *ProjectService) Update(projectID, actorID uint64, input UpdateProjectInput) (*models.Project, []Gap, error) {
	project, err := s.Get(projectID)
	if err != nil {
		return nil, nil, err
	}

	if err := authz.Authorize(authz.OpUpdateProject, project.RoleOf(actorID)); err != nil {
		return nil, nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, nil, ErrProjectNameRequired
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.EndDate != nil {
		project.EndDate = input.EndDate
	}

	addInvites := models.IDSet(input.AddInvites).Dedup().Remove(project.CreatorID)
	for _, userID := range addInvites {
		project.Invites = project.Invites.Add(userID)
	}

	if err := s.stores.Projects.Save(project); err != nil {
		return nil, nil, fmt.Errorf("failed to update project: %w", err)
	}

	var gaps gapList
	for _, userID := range addInvites {
		user, err := s.stores.Users.Load(userID)
		if err != nil {
			gaps.add("user", userID, "load invitee", err)
			continue
		}
		user.ProjectInvites = user.ProjectInvites.Add(project.ID)
		if err := s.stores.Users.Save(user); err != nil {
			gaps.add("user", userID, "append invite reference", err)
		}
	}

	return project, gaps.list(), nil
}

// RemoveMembers removes users from the project. Every target is
// validated against the actor's authority before anything is written:
// the creator can remove anyone but themselves, admins only
// developers, clients and invitees. Removal strips the project-side
// membership, the user's assignment cross-links on the project's work
// items, and the user-side project references.
func (s *ProjectService) RemoveMembers(projectID, actorID uint64, userIDs []uint64) (*models.Project, []Gap, error) {
	project, err := s.Get(projectID)
	if err != nil {
		return nil, nil, err
	}

	actorRole := project.RoleOf(actorID)
	if err := authz.Authorize(authz.OpUpdateProject, actorRole); err != nil {
		return nil, nil, err
	}

	targets := models.IDSet(userIDs).Dedup()
	for _, userID := range targets {
		if userID == project.CreatorID {
			return nil, nil, ErrCreatorCannotBeRemoved
		}
		if !authz.CanRemoveMember(actorRole, project.RoleOf(userID)) {
			return nil, nil, ErrMemberRemovalNotAllowed
		}
	}

	for _, userID := range targets {
		project.StripMember(userID)
	}
	if err := s.stores.Projects.Save(project); err != nil {
		return nil, nil, fmt.Errorf("failed to update project membership: %w", err)
	}

	var gaps gapList
	for _, userID := range targets {
		s.detachUser(project, userID, &gaps)
	}

	return project, gaps.list(), nil
}

// detachUser removes the user-side references to the project and clears
// the user's assignments on the project's work items. Used by member
// removal; the self-service leave path in UserService propagates the
// same way.
func (s *ProjectService) detachUser(project *models.Project, userID uint64, gaps *gapList) {
	user, err := s.stores.Users.Load(userID)
	if err != nil {
		gaps.add("user", userID, "load member", err)
		return
	}

	for _, kind := range []models.WorkItemKind{models.KindTask, models.KindBug} {
		projectItems := *project.WorkItemRefs(kind)
		userRefs := user.WorkItemRefs(kind)
		for _, itemID := range projectItems {
			if !userRefs.Contains(itemID) {
				continue
			}
			item, err := s.stores.WorkItems.Load(itemID)
			if err != nil {
				gaps.add(string(kind), itemID, "load work item", err)
				continue
			}
			item.Assigned = item.Assigned.Remove(userID)
			if err := s.stores.WorkItems.Save(item); err != nil {
				gaps.add(string(kind), itemID, "remove assignee", err)
				continue
			}
			*userRefs = userRefs.Remove(itemID)
		}
	}

	user.Projects = user.Projects.Remove(project.ID)
	user.ProjectInvites = user.ProjectInvites.Remove(project.ID)
	if err := s.stores.Users.Save(user); err != nil {
		gaps.add("user", userID, "remove project reference", err)
	}
}

// ChangeRole moves a member into exactly one of the assignable role
// sets. An unrecognized role name is rejected before anything is
// stripped, so a bad request cannot leave a user with no membership.
func (s *ProjectService) ChangeRole(projectID, actorID, targetID uint64, roleName string) (*models.Project, []Gap, error) {
	project, err := s.Get(projectID)
	if err != nil {
		return nil, nil, err
	}

	if err := authz.Authorize(authz.OpChangeMemberRole, project.RoleOf(actorID)); err != nil {
		return nil, nil, err
	}

	role, ok := models.ParseMemberRole(roleName)
	if !ok {
		return nil, nil, ErrInvalidRole
	}
	if targetID == project.CreatorID {
		return nil, nil, ErrCreatorRoleImmutable
	}

	target, err := s.stores.Users.Load(targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrTargetUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to load target user: %w", err)
	}

	project.Admins = project.Admins.Remove(targetID)
	project.Developers = project.Developers.Remove(targetID)
	project.Clients = project.Clients.Remove(targetID)
	set := project.MemberSet(role)
	*set = set.Add(targetID)

	if err := s.stores.Projects.Save(project); err != nil {
		return nil, nil, fmt.Errorf("failed to update project roles: %w", err)
	}

	var gaps gapList
	target.Projects = target.Projects.Add(project.ID)
	if err := s.stores.Users.Save(target); err != nil {
		gaps.add("user", targetID, "append project reference", err)
	}

	return project, gaps.list(), nil
}

// ChangeStatus marks the project active or closed. Clients and
// invitees are not part of the development team and may not do this.
func (s *ProjectService) ChangeStatus(projectID, actorID uint64, status bool) (*models.Project, error) {
	project, err := s.Get(projectID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(authz.OpChangeProjectStatus, project.RoleOf(actorID)); err != nil {
		return nil, err
	}

	project.Status = status
	if err := s.stores.Projects.Save(project); err != nil {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}

	return project, nil
}

// Delete removes a project. Every owned work item is deleted with its
// full assignee cascade, then the project is stripped from every
// member's and invitee's reference lists, then the record itself is
// deleted. Missing references along the way are recorded as gaps and
// the cascade continues.
func (s *ProjectService) Delete(projectID, actorID uint64) ([]Gap, error) {
	project, err := s.Get(projectID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(authz.OpDeleteProject, project.RoleOf(actorID)); err != nil {
		return nil, err
	}

	var gaps gapList

	for _, kind := range []models.WorkItemKind{models.KindTask, models.KindBug} {
		for _, itemID := range *project.WorkItemRefs(kind) {
			item, err := s.stores.WorkItems.Load(itemID)
			if err != nil {
				gaps.add(string(kind), itemID, "load work item", err)
				continue
			}
			deleteWorkItemCascade(s.stores, item, &gaps)
			if err := s.stores.WorkItems.Delete(item.ID); err != nil {
				gaps.add(string(kind), itemID, "delete work item", err)
			}
		}
	}

	members := models.IDSet{project.CreatorID}
	for _, id := range project.Admins {
		members = members.Add(id)
	}
	for _, id := range project.Developers {
		members = members.Add(id)
	}
	for _, id := range project.Clients {
		members = members.Add(id)
	}
	for _, userID := range members {
		user, err := s.stores.Users.Load(userID)
		if err != nil {
			gaps.add("user", userID, "load member", err)
			continue
		}
		user.Projects = user.Projects.Remove(project.ID)
		if err := s.stores.Users.Save(user); err != nil {
			gaps.add("user", userID, "remove project reference", err)
		}
	}

	for _, userID := range project.Invites {
		user, err := s.stores.Users.Load(userID)
		if err != nil {
			gaps.add("user", userID, "load invitee", err)
			continue
		}
		user.ProjectInvites = user.ProjectInvites.Remove(project.ID)
		if err := s.stores.Users.Save(user); err != nil {
			gaps.add("user", userID, "remove invite reference", err)
		}
	}

	if err := s.stores.Projects.Delete(project.ID); err != nil {
		return gaps.list(), fmt.Errorf("failed to delete project: %w", err)
	}

	return gaps.list(), nil
}
