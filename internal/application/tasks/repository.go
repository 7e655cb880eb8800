package tasks

import (
	"context"

	"github.com/tasklens/server/internal/domain"
)

// Repository is the storage contract the task service depends on.
// Implementations must honor the discovery semantics exactly:
//
//   - FindTasks scopes every query to ownerID and AND-combines the
//     criteria's predicates (search is a case-insensitive substring
//     match on title or description; priority and category are exact
//     matches, category case-sensitive).
//   - Sorting follows the criteria's field and direction, with tasks
//     missing a due date (or carrying an unrecognized priority) always
//     ordered after tasks with a real value, in both directions.
//   - Equal sort keys are tie-broken by task ID ascending, so repeated
//     calls over an unchanged collection return identical sequences.
//
// The compliance suite in internal/storage/compliance verifies these
// properties against any implementation.
type Repository interface {
	CreateTask(ctx context.Context, task *domain.Task) error
	FindTaskByID(ctx context.Context, id string) (*domain.Task, error)
	FindTasks(ctx context.Context, ownerID string, criteria domain.Criteria) ([]domain.Task, error)
	UpdateTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, id string) error
}
