package domain

import (
	"fmt"
	"strings"
	"time"
)

// Field length bounds, matching the persisted column widths.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 2000
	MaxCategoryLength    = 100
)

// TaskPriority is the fixed, ordered priority set: low < medium < high.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// DefaultTaskPriority is assigned when a task is created without one.
const DefaultTaskPriority = TaskPriorityMedium

// NewTaskPriority validates and creates a TaskPriority.
// An empty string yields the default priority.
func NewTaskPriority(s string) (TaskPriority, error) {
	if s == "" {
		return DefaultTaskPriority, nil
	}

	priority := TaskPriority(strings.ToLower(s))

	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return priority, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidTaskPriority, s)
	}
}

// Rank maps a priority to its sort ordinal: high=3, medium=2, low=1.
// Unrecognized values rank 0 and therefore sort after every real priority.
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityHigh:
		return 3
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 1
	default:
		return 0
	}
}

// PriorityRank maps an optional priority to its sort ordinal.
// A nil priority ranks 0, same as an unrecognized one.
func PriorityRank(p *TaskPriority) int {
	if p == nil {
		return 0
	}
	return p.Rank()
}

// NewTitle validates a task title (1 to MaxTitleLength characters).
func NewTitle(s string) (string, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return "", ErrTitleRequired
	}
	if len([]rune(s)) > MaxTitleLength {
		return "", ErrTitleTooLong
	}

	return s, nil
}

// Task is a single task record. Every task belongs to exactly one owner;
// queries are always scoped to the calling principal's owner ID.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description *string
	Completed   bool
	Priority    *TaskPriority
	DueDate     *time.Time
	Category    *string
	CreateTime  time.Time
	UpdateTime  time.Time
}

// Validate checks field constraints on a fully populated task.
func (t *Task) Validate() error {
	if _, err := NewTitle(t.Title); err != nil {
		return err
	}
	if t.Description != nil && len([]rune(*t.Description)) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if t.Category != nil && len([]rune(*t.Category)) > MaxCategoryLength {
		return ErrCategoryTooLong
	}
	if t.Priority != nil {
		if _, err := NewTaskPriority(string(*t.Priority)); err != nil {
			return err
		}
	}
	return nil
}

// UpdateTaskParams carries a partial task update. Nil fields are left
// untouched; the Clear flags reset the corresponding optional field.
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *TaskPriority
	DueDate     *time.Time
	Category    *string

	ClearDueDate  bool
	ClearCategory bool
}
