package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nwaizer/projecthub/internal/models"
	"github.com/nwaizer/projecthub/internal/store"
)

var (
	ErrNotInvited          = errors.New("user has no invite for this project")
	ErrCreatorCannotLeave  = errors.New("the creator cannot leave the project")
	ErrUserOwnsProjects    = errors.New("user still owns projects; delete or transfer them first")
	ErrUsernameTakenUpdate = errors.New("username already exists")
)

// UserService handles user profile updates, invite responses, and the
// self-service and deletion paths that fan out across projects and
// work items.
type UserService struct {
	stores store.Stores
}

// NewUserService creates a new UserService.
func NewUserService(stores store.Stores) *UserService {
	return &UserService{stores: stores}
}

// UpdateUserInput is an optional-field patch for profile data.
type UpdateUserInput struct {
	Name     *string
	Username *string
	Bio      *string
}

// Get returns a user by ID.
func (s *UserService) Get(userID uint64) (*models.User, error) {
	user, err := s.stores.Users.Load(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// List returns one page of users plus the total count.
func (s *UserService) List(page, pageSize int) ([]models.User, int64, error) {
	users, total, err := s.stores.Users.FindAll(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// UpdateProfile applies a profile patch.
func (s *UserService) UpdateProfile(userID uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username != "" && username != user.Username {
			if _, err := s.stores.Users.FindByUsername(username); err == nil {
				return nil, ErrUsernameTakenUpdate
			} else if !errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			user.Username = username
		}
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		user.Name = *input.Name
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	if err := s.stores.Users.Save(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// AcceptInvite turns a pending invite into membership. New members
// always enter as developers.
func (s *UserService) AcceptInvite(userID, projectID uint64) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	project, err := s.stores.Projects.Load(projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	if !project.Invites.Contains(userID) && !user.ProjectInvites.Contains(projectID) {
		return nil, ErrNotInvited
	}

	project.Invites = project.Invites.Remove(userID)
	project.Developers = project.Developers.Add(userID)
	if err := s.stores.Projects.Save(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	user.ProjectInvites = user.ProjectInvites.Remove(projectID)
	user.Projects = user.Projects.Add(projectID)
	if err := s.stores.Users.Save(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// RejectInvite drops a pending invite from both sides.
func (s *UserService) RejectInvite(userID, projectID uint64) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	project, err := s.stores.Projects.Load(projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	project.Invites = project.Invites.Remove(userID)
	if err := s.stores.Projects.Save(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	user.ProjectInvites = user.ProjectInvites.Remove(projectID)
	if err := s.stores.Users.Save(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// LeaveProject removes the acting user from a project. Propagation is
// the same as member removal but without the authority checks, since
// a user may always remove themselves. The creator is never a plain
// member and cannot leave.
func (s *UserService) LeaveProject(userID, projectID uint64) (*models.User, []Gap, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, nil, err
	}

	project, err := s.stores.Projects.Load(projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to load project: %w", err)
	}

	if project.CreatorID == userID {
		return nil, nil, ErrCreatorCannotLeave
	}

	project.StripMember(userID)
	if err := s.stores.Projects.Save(project); err != nil {
		return nil, nil, fmt.Errorf("failed to update project membership: %w", err)
	}

	var gaps gapList

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

	user.Projects = user.Projects.Remove(projectID)
	user.ProjectInvites = user.ProjectInvites.Remove(projectID)
	if err := s.stores.Users.Save(user); err != nil {
		gaps.add("user", userID, "remove project reference", err)
	}

	return user, gaps.list(), nil
}

// LeaveWorkItem removes the acting user from a single task or bug.
func (s *UserService) LeaveWorkItem(userID, itemID uint64) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.stores.WorkItems.Load(itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkItemNotFound
		}
		return nil, fmt.Errorf("failed to load work item: %w", err)
	}

	item.Assigned = item.Assigned.Remove(userID)
	if err := s.stores.WorkItems.Save(item); err != nil {
		return nil, fmt.Errorf("failed to update work item: %w", err)
	}

	refs := user.WorkItemRefs(item.Kind)
	*refs = refs.Remove(itemID)
	if err := s.stores.Users.Save(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete removes a user after severing every reference pointing at
// them: membership in projects, pending invites, and assignments on
// work items. A user who still owns projects cannot be deleted; the
// projects would be left with a dangling creator.
func (s *UserService) Delete(userID uint64) ([]Gap, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	for _, projectID := range user.Projects {
		project, err := s.stores.Projects.Load(projectID)
		if err != nil {
			continue
		}
		if project.CreatorID == userID {
			return nil, ErrUserOwnsProjects
		}
	}

	var gaps gapList

	for _, projectID := range user.Projects {
		project, err := s.stores.Projects.Load(projectID)
		if err != nil {
			gaps.add("project", projectID, "load project", err)
			continue
		}
		project.StripMember(userID)
		if err := s.stores.Projects.Save(project); err != nil {
			gaps.add("project", projectID, "remove member", err)
		}
	}

	for _, projectID := range user.ProjectInvites {
		project, err := s.stores.Projects.Load(projectID)
		if err != nil {
			gaps.add("project", projectID, "load project", err)
			continue
		}
		project.Invites = project.Invites.Remove(userID)
		if err := s.stores.Projects.Save(project); err != nil {
			gaps.add("project", projectID, "remove invite", err)
		}
	}

	for _, refs := range []models.IDSet{user.Tasks, user.Bugs} {
		for _, itemID := range refs {
			item, err := s.stores.WorkItems.Load(itemID)
			if err != nil {
				gaps.add("work item", itemID, "load work item", err)
				continue
			}
			item.Assigned = item.Assigned.Remove(userID)
			if err := s.stores.WorkItems.Save(item); err != nil {
				gaps.add(string(item.Kind), itemID, "remove assignee", err)
			}
		}
	}

	if err := s.stores.Users.Delete(userID); err != nil {
		return gaps.list(), fmt.Errorf("failed to delete user: %w", err)
	}

	return gaps.list(), nil
}
