package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	dom "Tracker/internal/domain"
	"Tracker/internal/repo"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/singleflight"

	"Tracker/internal/cache"
)

// ErrNotFound covers both a nonexistent task id and a task owned by another
// user. The two cases are deliberately indistinguishable so that existence
// of foreign tasks is never leaked.
var ErrNotFound = errors.New("task not found")

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level failures for a single request.
type ValidationError []FieldError

func (v ValidationError) Error() string {
	msgs := make([]string, len(v))
	for i, f := range v {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// CreateTaskInput carries the caller-settable fields of a new task. Owner,
// status and archived are not here: they are forced by the service.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string
	Subtasks    []dom.Subtask
}

// UpdateTaskInput is a field-level overwrite: nil leaves a field untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *string
	Status      *string
	Archived    *bool
	Subtasks    *[]dom.Subtask
}

type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, cache: c}
}

// List returns the requester's tasks matching the given filter, sorted by
// due date ascending and creation time descending within a due date.
func (s *TaskService) List(ctx context.Context, ownerID primitive.ObjectID, f dom.TaskFilter) ([]dom.Task, error) {
	if s.cache != nil {
		key := ownerID.Hex() + ":" + cache.FilterKey(f)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, ownerID, f); err == nil && list != nil {
				return list, nil
			}
			list, err := s.listFromRepo(ctx, ownerID, f)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, ownerID, f, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Task), nil
	}
	return s.listFromRepo(ctx, ownerID, f)
}

// listFromRepo normalizes an empty result to a non-nil slice. A nil slice
// would marshal to null in the cache and read back as a permanent miss.
func (s *TaskService) listFromRepo(ctx context.Context, ownerID primitive.ObjectID, f dom.TaskFilter) ([]dom.Task, error) {
	list, err := s.repo.List(ctx, ownerID, f)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []dom.Task{}
	}
	return list, nil
}

// Create persists a new task for ownerID. Status is forced to Active,
// archived to false, and ownership to the requester; a client-supplied owner
// never reaches this layer.
func (s *TaskService) Create(ctx context.Context, ownerID primitive.ObjectID, in CreateTaskInput) (dom.Task, error) {
	t := dom.Task{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Priority:    dom.Priority(in.Priority),
		Status:      dom.StatusActive,
		Archived:    false,
		Subtasks:    in.Subtasks,
	}
	if in.DueDate != nil {
		t.DueDate = *in.DueDate
	}
	if verr := validateTask(t); verr != nil {
		return dom.Task{}, verr
	}
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return created, nil
}

// Update applies a field-level overwrite to the task, re-validates the
// merged result and persists it.
func (s *TaskService) Update(ctx context.Context, ownerID, id primitive.ObjectID, in UpdateTaskInput) (dom.Task, error) {
	existing, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	patch := existing
	if in.Title != nil {
		patch.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		patch.Description = strings.TrimSpace(*in.Description)
	}
	if in.DueDate != nil {
		patch.DueDate = *in.DueDate
	}
	if in.Priority != nil {
		patch.Priority = dom.Priority(*in.Priority)
	}
	if in.Status != nil {
		patch.Status = dom.Status(*in.Status)
	}
	if in.Archived != nil {
		patch.Archived = *in.Archived
	}
	if in.Subtasks != nil {
		patch.Subtasks = *in.Subtasks
	}
	if verr := validateTask(patch); verr != nil {
		return dom.Task{}, verr
	}
	t, err := s.repo.Replace(ctx, ownerID, id, patch)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return t, nil
}

// SetArchived writes exactly the given boolean to the archived flag.
// Setting the current value again is a no-op success.
func (s *TaskService) SetArchived(ctx context.Context, ownerID, id primitive.ObjectID, archived bool) (dom.Task, error) {
	t, err := s.repo.SetArchived(ctx, ownerID, id, archived)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return t, nil
}

// ReplaceSubtasks swaps the whole subtask array of the task. There is no
// per-subtask merge.
func (s *TaskService) ReplaceSubtasks(ctx context.Context, ownerID, id primitive.ObjectID, subtasks []dom.Subtask) (dom.Task, error) {
	if verr := validateSubtasks(subtasks); verr != nil {
		return dom.Task{}, verr
	}
	t, err := s.repo.ReplaceSubtasks(ctx, ownerID, id, subtasks)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return t, nil
}

// Delete removes the task iff owned by the requester.
func (s *TaskService) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, ownerID)
	return nil
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

func validateTask(t dom.Task) ValidationError {
	var verr ValidationError
	if t.Title == "" {
		verr = append(verr, FieldError{Field: "title", Message: "title is required"})
	} else if utf8.RuneCountInString(t.Title) > maxTitleLen {
		verr = append(verr, FieldError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", maxTitleLen)})
	}
	if utf8.RuneCountInString(t.Description) > maxDescriptionLen {
		verr = append(verr, FieldError{Field: "description", Message: fmt.Sprintf("description must be at most %d characters", maxDescriptionLen)})
	}
	if t.DueDate.IsZero() {
		verr = append(verr, FieldError{Field: "dueDate", Message: "dueDate is required"})
	}
	if _, err := dom.ParsePriority(string(t.Priority)); err != nil {
		verr = append(verr, FieldError{Field: "priority", Message: err.Error()})
	}
	if _, err := dom.ParseStatus(string(t.Status)); err != nil {
		verr = append(verr, FieldError{Field: "status", Message: err.Error()})
	}
	if sverr := validateSubtasks(t.Subtasks); sverr != nil {
		verr = append(verr, sverr...)
	}
	return verr
}

func validateSubtasks(subtasks []dom.Subtask) ValidationError {
	var verr ValidationError
	for i, st := range subtasks {
		if strings.TrimSpace(st.ID) == "" {
			verr = append(verr, FieldError{Field: fmt.Sprintf("subtasks[%d].id", i), Message: "id is required"})
		}
		if strings.TrimSpace(st.Title) == "" {
			verr = append(verr, FieldError{Field: fmt.Sprintf("subtasks[%d].title", i), Message: "title is required"})
		}
	}
	return verr
}

func (s *TaskService) invalidateCache(ctx context.Context, ownerID primitive.ObjectID) {
	if s.cache != nil {
		_ = s.cache.InvalidateOwner(ctx, ownerID)
	}
}
