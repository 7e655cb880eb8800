// Package memory provides an in-memory task store. It implements the
// full discovery contract (owner scoping, AND-combined predicates,
// null-last ordering) and doubles as the reference implementation the
// compliance suite is written against.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tasklens/server/internal/domain"
)

// Store keeps tasks in a map guarded by a RWMutex. Queries copy the
// matching tasks out, so returned slices never alias store state.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		tasks: make(map[string]domain.Task),
	}
}

// CreateTask stores a new task.
func (s *Store) CreateTask(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("task %s already exists", task.ID)
	}

	s.tasks[task.ID] = *task
	return nil
}

// FindTaskByID retrieves a task by its ID.
func (s *Store) FindTaskByID(_ context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, id)
	}

	return &task, nil
}

// FindTasks evaluates the criteria over the owner's tasks and returns
// the ordered result. The evaluation is pure: nothing is cached between
// invocations and identical inputs over an unchanged store produce an
// identical sequence.
func (s *Store) FindTasks(_ context.Context, ownerID string, criteria domain.Criteria) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Task, 0)
	for _, task := range s.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if !matchesCriteria(task, criteria) {
			continue
		}
		matched = append(matched, task)
	}

	sortTasks(matched, criteria)
	return matched, nil
}

// UpdateTask replaces a stored task.
func (s *Store) UpdateTask(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, task.ID)
	}

	s.tasks[task.ID] = *task
	return nil
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, id)
	}

	delete(s.tasks, id)
	return nil
}

// matchesCriteria AND-combines the criteria's predicates. The only OR
// lives inside the search predicate: the text may match either title or
// description.
func matchesCriteria(task domain.Task, c domain.Criteria) bool {
	if c.SearchText != "" {
		needle := strings.ToLower(c.SearchText)
		title := strings.ToLower(task.Title)
		description := ""
		if task.Description != nil {
			description = strings.ToLower(*task.Description)
		}
		if !strings.Contains(title, needle) && !strings.Contains(description, needle) {
			return false
		}
	}

	if c.Priority != nil {
		if task.Priority == nil || *task.Priority != *c.Priority {
			return false
		}
	}

	if c.Category != nil {
		// Exact and case-sensitive: "work" and "Work" are distinct.
		if task.Category == nil || *task.Category != *c.Category {
			return false
		}
	}

	return true
}

// sortTasks orders the slice per the criteria. Tasks missing the sort
// value (nil due date, nil or unrecognized priority) go last in both
// directions; equal keys are tie-broken by ID ascending.
func sortTasks(tasks []domain.Task, c domain.Criteria) {
	asc := c.SortDirection == domain.SortAsc

	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]

		switch c.SortField {
		case domain.SortFieldPriority:
			ra, rb := domain.PriorityRank(a.Priority), domain.PriorityRank(b.Priority)
			if (ra == 0) != (rb == 0) {
				return rb == 0 // missing value sorts last regardless of direction
			}
			if ra != rb {
				if asc {
					return ra < rb
				}
				return ra > rb
			}

		case domain.SortFieldDueDate:
			if (a.DueDate == nil) != (b.DueDate == nil) {
				return b.DueDate == nil // missing value sorts last regardless of direction
			}
			if a.DueDate != nil && !a.DueDate.Equal(*b.DueDate) {
				if asc {
					return a.DueDate.Before(*b.DueDate)
				}
				return a.DueDate.After(*b.DueDate)
			}

		default: // created_at, never null
			if !a.CreateTime.Equal(b.CreateTime) {
				if asc {
					return a.CreateTime.Before(b.CreateTime)
				}
				return a.CreateTime.After(b.CreateTime)
			}
		}

		return a.ID < b.ID
	})
}
