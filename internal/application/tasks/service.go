// Package tasks contains the task application service: owner-scoped
// discovery queries plus the CRUD operations the discovery surface
// depends on.
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tasklens/server/internal/domain"
)

// Service coordinates task operations against a Repository.
// It is stateless; every invocation carries its own owner identifier
// and criteria, so concurrent requests share nothing.
type Service struct {
	repo Repository
	now  func() time.Time
}

// Option is a functional option for configuring Service.
type Option func(*Service)

// WithClock overrides the time source, used by tests for deterministic
// create/update timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a task service backed by the given repository.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Discover returns the owner's tasks matching the criteria, ordered per
// the criteria's sort field and direction. An empty slice is a valid,
// non-error result; a missing or malformed owner identifier is an
// authorization failure and is never converted into an empty result.
func (s *Service) Discover(ctx context.Context, ownerID string, criteria domain.Criteria) ([]domain.Task, error) {
	if err := validateOwnerID(ownerID); err != nil {
		return nil, err
	}

	result, err := s.repo.FindTasks(ctx, ownerID, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}

	slog.DebugContext(ctx, "discovery query evaluated",
		"owner_id", ownerID,
		"active_filters", criteria.HasActiveFilters(),
		"sort_by", string(criteria.SortField),
		"results", len(result))

	return result, nil
}

// CreateParams carries the caller-supplied fields for a new task.
type CreateParams struct {
	Title       string
	Description *string
	Priority    *domain.TaskPriority
	DueDate     *time.Time
	Category    *string
}

// Create validates and stores a new task for the owner. Priority
// defaults to medium when omitted.
func (s *Service) Create(ctx context.Context, ownerID string, params CreateParams) (*domain.Task, error) {
	if err := validateOwnerID(ownerID); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task ID: %w", err)
	}

	priority := domain.DefaultTaskPriority
	if params.Priority != nil {
		priority = *params.Priority
	}

	now := s.now()
	task := &domain.Task{
		ID:          id.String(),
		OwnerID:     ownerID,
		Title:       params.Title,
		Description: params.Description,
		Priority:    &priority,
		DueDate:     params.DueDate,
		Category:    params.Category,
		CreateTime:  now,
		UpdateTime:  now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// Get returns a single task, verifying ownership. A task owned by a
// different principal surfaces as ErrPermissionDenied, never as the
// other owner's data.
func (s *Service) Get(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	if err := validateOwnerID(ownerID); err != nil {
		return nil, err
	}

	task, err := s.findOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	return task, nil
}

// Update applies a partial update to an owned task and bumps its update
// time. Nil params fields are left untouched.
func (s *Service) Update(ctx context.Context, ownerID, taskID string, params domain.UpdateTaskParams) (*domain.Task, error) {
	if err := validateOwnerID(ownerID); err != nil {
		return nil, err
	}

	task, err := s.findOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = params.Description
	}
	if params.Completed != nil {
		task.Completed = *params.Completed
	}
	if params.Priority != nil {
		task.Priority = params.Priority
	}
	if params.ClearDueDate {
		task.DueDate = nil
	} else if params.DueDate != nil {
		task.DueDate = params.DueDate
	}
	if params.ClearCategory {
		task.Category = nil
	} else if params.Category != nil {
		task.Category = params.Category
	}
	task.UpdateTime = s.now()

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete removes an owned task.
func (s *Service) Delete(ctx context.Context, ownerID, taskID string) error {
	if err := validateOwnerID(ownerID); err != nil {
		return err
	}

	if _, err := s.findOwned(ctx, ownerID, taskID); err != nil {
		return err
	}

	if err := s.repo.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// findOwned fetches a task and checks ownership. Absent tasks are
// ErrTaskNotFound; foreign tasks are ErrPermissionDenied.
func (s *Service) findOwned(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	task, err := s.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: task %s", domain.ErrPermissionDenied, taskID)
	}

	return task, nil
}

// validateOwnerID rejects a missing or malformed owner identifier as an
// authorization failure.
func validateOwnerID(ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: missing owner identifier", domain.ErrUnauthorized)
	}
	if _, err := uuid.Parse(ownerID); err != nil {
		return fmt.Errorf("%w: invalid owner identifier", domain.ErrUnauthorized)
	}
	return nil
}
