package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/njprem/Todo_APP_BackEnd/internal/domain"
	"github.com/njprem/Todo_APP_BackEnd/internal/repository/ports"
)

type TaskInput struct {
	Title       string
	Description *string
	Date        *string
	Time        *string
}

// TaskService manages the shared task list. Tasks are not scoped to a caller;
// every task is stamped with the configured placeholder owner.
type TaskService struct {
	tasks   ports.TaskRepository
	ownerID int64
}

func NewTaskService(tasks ports.TaskRepository, defaultOwnerID int64) *TaskService {
	if defaultOwnerID <= 0 {
		defaultOwnerID = 1
	}
	return &TaskService{tasks: tasks, ownerID: defaultOwnerID}
}

func (s *TaskService) Create(ctx context.Context, in TaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	task, err := s.tasks.Create(ctx, &domain.Task{
		Title:       title,
		Description: in.Description,
		OwnerID:     s.ownerID,
		Date:        in.Date,
		Time:        in.Time,
		Completed:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// Update applies a partial patch. A missing task leaves the store untouched
// and is reported before any problem with the patch itself.
func (s *TaskService) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		patch.Title = &title
	}
	if patch.Empty() {
		return task, nil
	}

	patch.Apply(task)
	updated, err := s.tasks.Update(ctx, task)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

// UpdateJSON decodes body with ParseTaskPatch and applies it. An unknown id
// wins over a malformed body.
func (s *TaskService) UpdateJSON(ctx context.Context, id int64, body []byte) (*domain.Task, error) {
	patch, parseErr := ParseTaskPatch(body)
	if parseErr != nil {
		if _, err := s.find(ctx, id); err != nil {
			return nil, err
		}
		return nil, parseErr
	}
	return s.Update(ctx, id, patch)
}

func (s *TaskService) find(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ParseTaskPatch decodes a JSON update body. Keys that are not mutable task
// fields (id, owner_id, anything unknown) are ignored, as are null values.
// A known key holding the wrong JSON type is a validation error.
func ParseTaskPatch(body []byte) (domain.TaskPatch, error) {
	var patch domain.TaskPatch
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return patch, fmt.Errorf("%w: body must be a JSON object", ErrValidation)
	}

	stringField := func(key string) (*string, error) {
		raw, ok := fields[key]
		if !ok || isJSONNull(raw) {
			return nil, nil
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %s must be a string", ErrValidation, key)
		}
		return &v, nil
	}

	var err error
	if patch.Title, err = stringField("title"); err != nil {
		return patch, err
	}
	if patch.Description, err = stringField("description"); err != nil {
		return patch, err
	}
	if patch.Date, err = stringField("date"); err != nil {
		return patch, err
	}
	if patch.Time, err = stringField("time"); err != nil {
		return patch, err
	}
	if raw, ok := fields["completed"]; ok && !isJSONNull(raw) {
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return patch, fmt.Errorf("%w: completed must be a boolean", ErrValidation)
		}
		patch.Completed = &v
	}
	return patch, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
