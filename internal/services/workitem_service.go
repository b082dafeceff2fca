package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nwaizer/projecthub/internal/authz"
	"github.com/nwaizer/projecthub/internal/constants"
	"github.com/nwaizer/projecthub/internal/models"
	"github.com/nwaizer/projecthub/internal/store"
)

var (
	ErrWorkItemNotFound       = errors.New("work item not found")
	ErrWorkItemNameRequired   = errors.New("name is required")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoItemsGenerated     = errors.New("AI did not generate any work items")
	ErrAINoValidItems         = errors.New("no valid work items could be drafted from AI output")
)

// WorkItemService handles task and bug mutations and the mirrored
// updates they require on projects and users.
type WorkItemService struct {
	stores    store.Stores
	aiService *AIService
}

// NewWorkItemService creates a new WorkItemService.
func NewWorkItemService(stores store.Stores, aiService *AIService) *WorkItemService {
	return &WorkItemService{
		stores:    stores,
		aiService: aiService,
	}
}

// CreateWorkItemInput represents input for creating a task or bug.
type CreateWorkItemInput struct {
	Kind        models.WorkItemKind
	ProjectID   uint64
	ActorID     uint64
	Name        string
	Description string
	EndDate     *time.Time
	Assigned    []uint64
}

// UpdateWorkItemInput is an optional-field patch for content updates.
// Nil fields are left untouched.
type UpdateWorkItemInput struct {
	Name        *string
	Description *string
	EndDate     *time.Time
	Assigned    *[]uint64
}

// Create builds a work item under a project, then mirrors its ID onto
// the project and every assigned user. The item itself is the primary
// write; later steps that fail are reported as gaps, not rolled back.
func (s *WorkItemService) Create(input CreateWorkItemInput) (*models.WorkItem, []Gap, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil, ErrWorkItemNameRequired
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, nil, ErrDescriptionRequired
	}

	project, err := s.stores.Projects.Load(input.ProjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to load project: %w", err)
	}

	if err := authz.Authorize(authz.OpCreateWorkItem, project.RoleOf(input.ActorID)); err != nil {
		return nil, nil, err
	}

	item := &models.WorkItem{
		Kind:        input.Kind,
		Name:        input.Name,
		Description: input.Description,
		Status:      models.StatusCreated,
		CreatedDate: time.Now(),
		EndDate:     input.EndDate,
		ProjectID:   project.ID,
		Assigned:    models.IDSet(input.Assigned).Dedup(),
	}

	if err := s.stores.WorkItems.Save(item); err != nil {
		return nil, nil, fmt.Errorf("failed to create work item: %w", err)
	}

	var gaps gapList

	refs := project.WorkItemRefs(input.Kind)
	*refs = refs.Add(item.ID)
	if err := s.stores.Projects.Save(project); err != nil {
		gaps.add("project", project.ID, "append work item reference", err)
	}

	for _, userID := range item.Assigned {
		user, err := s.stores.Users.Load(userID)
		if err != nil {
			gaps.add("user", userID, "load assignee", err)
			continue
		}
		userRefs := user.WorkItemRefs(input.Kind)
		*userRefs = userRefs.Add(item.ID)
		if err := s.stores.Users.Save(user); err != nil {
			gaps.add("user", userID, "append work item reference", err)
		}
	}

	return item, gaps.list(), nil
}

// Get returns a work item by ID.
func (s *WorkItemService) Get(itemID uint64) (*models.WorkItem, error) {
	item, err := s.stores.WorkItems.Load(itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkItemNotFound
		}
		return nil, fmt.Errorf("failed to load work item: %w", err)
	}
	return item, nil
}

// List returns one page of work items of one kind plus the total count.
func (s *WorkItemService) List(kind models.WorkItemKind, page, pageSize int) ([]models.WorkItem, int64, error) {
	items, total, err := s.stores.WorkItems.FindAll(kind, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work items: %w", err)
	}
	return items, total, nil
}

// ListByProject returns every work item of one kind under a project.
func (s *WorkItemService) ListByProject(kind models.WorkItemKind, projectID uint64) ([]models.WorkItem, error) {
	if _, err := s.stores.Projects.Load(projectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	items, err := s.stores.WorkItems.FindByProject(projectID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list work items: %w", err)
	}
	return items, nil
}

// UpdateContent applies a content patch to a work item. Content edits
// require creator or admin standing in the owning project. A change to
// the assigned set is applied as a symmetric difference: each added or
// removed user is handled as one user-side/item-side pair persisted
// together before the next user is touched.
func (s *WorkItemService) UpdateContent(itemID, actorID uint64, input UpdateWorkItemInput) (*models.WorkItem, []Gap, error) {
	item, err := s.Get(itemID)
	if err != nil {
		return nil, nil, err
	}

	project, err := s.stores.Projects.Load(item.ProjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to load project: %w", err)
	}

	if err := authz.Authorize(authz.OpUpdateWorkItemContent, project.RoleOf(actorID)); err != nil {
		return nil, nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, nil, ErrWorkItemNameRequired
		}
		item.Name = *input.Name
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, nil, ErrDescriptionRequired
		}
		item.Description = *input.Description
	}
	if input.EndDate != nil {
		item.EndDate = input.EndDate
	}

	if err := s.stores.WorkItems.Save(item); err != nil {
		return nil, nil, fmt.Errorf("failed to update work item: %w", err)
	}

	var gaps gapList

	if input.Assigned != nil {
		next := models.IDSet(*input.Assigned).Dedup()
		toAdd := next.Diff(item.Assigned)
		toRemove := item.Assigned.Diff(next)

		for _, userID := range toAdd {
			s.linkAssignee(item, userID, &gaps)
		}
		for _, userID := range toRemove {
			s.unlinkAssignee(item, userID, &gaps)
		}
	}

	return item, gaps.list(), nil
}

// UpdateStatus sets a work item's status. Any authenticated actor may
// do this, regardless of project role.
func (s *WorkItemService) UpdateStatus(itemID, actorID uint64, status models.WorkItemStatus) (*models.WorkItem, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	item, err := s.Get(itemID)
	if err != nil {
		return nil, err
	}

	role := models.RoleOutsider
	if project, err := s.stores.Projects.Load(item.ProjectID); err == nil {
		role = project.RoleOf(actorID)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if err := authz.Authorize(authz.OpUpdateWorkItemStatus, role); err != nil {
		return nil, err
	}

	item.Status = status
	if err := s.stores.WorkItems.Save(item); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return item, nil
}

// Delete removes a work item, stripping its reference from the owning
// project and from every assigned user before deleting the record.
func (s *WorkItemService) Delete(itemID, actorID uint64) ([]Gap, error) {
	item, err := s.Get(itemID)
	if err != nil {
		return nil, err
	}

	project, err := s.stores.Projects.Load(item.ProjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	if err := authz.Authorize(authz.OpDeleteWorkItem, project.RoleOf(actorID)); err != nil {
		return nil, err
	}

	var gaps gapList

	refs := project.WorkItemRefs(item.Kind)
	*refs = refs.Remove(item.ID)
	if err := s.stores.Projects.Save(project); err != nil {
		gaps.add("project", project.ID, "remove work item reference", err)
	}

	deleteWorkItemCascade(s.stores, item, &gaps)

	if err := s.stores.WorkItems.Delete(item.ID); err != nil {
		return gaps.list(), fmt.Errorf("failed to delete work item: %w", err)
	}

	return gaps.list(), nil
}

// linkAssignee adds the user↔item cross-links for one user. The user
// row is saved first; the item row is only saved once the user side
// committed, so a crash leaves at most this one pair incomplete.
func (s *WorkItemService) linkAssignee(item *models.WorkItem, userID uint64, gaps *gapList) {
	user, err := s.stores.Users.Load(userID)
	if err != nil {
		gaps.add("user", userID, "load assignee", err)
		return
	}
	refs := user.WorkItemRefs(item.Kind)
	*refs = refs.Add(item.ID)
	if err := s.stores.Users.Save(user); err != nil {
		gaps.add("user", userID, "append work item reference", err)
		return
	}
	item.Assigned = item.Assigned.Add(userID)
	if err := s.stores.WorkItems.Save(item); err != nil {
		gaps.add(string(item.Kind), item.ID, "append assignee", err)
	}
}

func (s *WorkItemService) unlinkAssignee(item *models.WorkItem, userID uint64, gaps *gapList) {
	user, err := s.stores.Users.Load(userID)
	if err != nil {
		gaps.add("user", userID, "load assignee", err)
		return
	}
	refs := user.WorkItemRefs(item.Kind)
	*refs = refs.Remove(item.ID)
	if err := s.stores.Users.Save(user); err != nil {
		gaps.add("user", userID, "remove work item reference", err)
		return
	}
	item.Assigned = item.Assigned.Remove(userID)
	if err := s.stores.WorkItems.Save(item); err != nil {
		gaps.add(string(item.Kind), item.ID, "remove assignee", err)
	}
}

// deleteWorkItemCascade strips the item from every assigned user's
// reference set. Shared with project deletion, which cascades over all
// owned items.
func deleteWorkItemCascade(stores store.Stores, item *models.WorkItem, gaps *gapList) {
	for _, userID := range item.Assigned {
		user, err := stores.Users.Load(userID)
		if err != nil {
			gaps.add("user", userID, "load assignee", err)
			continue
		}
		refs := user.WorkItemRefs(item.Kind)
		*refs = refs.Remove(item.ID)
		if err := stores.Users.Save(user); err != nil {
			gaps.add("user", userID, "remove work item reference", err)
		}
	}
}

// GenerateDraftsInput represents input for AI work-item drafting.
type GenerateDraftsInput struct {
	Text string
	Kind models.WorkItemKind
}

// GenerateDrafts uses the AI service to draft work items from free
// text. Drafts are not persisted; the caller creates them explicitly.
func (s *WorkItemService) GenerateDrafts(ctx context.Context, input GenerateDraftsInput) ([]GeneratedWorkItem, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	drafts, err := s.aiService.GenerateWorkItemsFromText(ctx, input.Text, input.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to generate work items: %w", err)
	}

	if len(drafts) == 0 {
		return nil, ErrAINoItemsGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedItems {
		return nil, fmt.Errorf("AI generated too many work items (max %d)", constants.MaxAIGeneratedItems)
	}

	valid := make([]GeneratedWorkItem, 0, len(drafts))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, draft := range drafts {
		if strings.TrimSpace(draft.Name) == "" {
			continue
		}
		if draft.EndDate != nil && draft.EndDate.Before(cutoff) {
			draft.EndDate = nil
		}
		valid = append(valid, draft)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidItems
	}

	return valid, nil
}
