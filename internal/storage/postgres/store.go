// Package postgres implements the task repository on PostgreSQL via
// pgx. Filtering and ordering are pushed down to SQL; the priority
// rank mapping and null-last policy live in the ORDER BY clause so the
// database returns results in their final order.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasklens/server/internal/domain"
)

// Store is a PostgreSQL-backed task repository.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store on an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

const taskColumns = "id, owner_id, title, description, completed, priority, due_date, category, created_at, updated_at"

// CreateTask inserts a new task.
func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		task.ID, task.OwnerID, task.Title, task.Description, task.Completed,
		priorityToDB(task.Priority), task.DueDate, task.Category,
		task.CreateTime, task.UpdateTime,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindTaskByID retrieves a task by its ID.
func (s *Store) FindTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1`, id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, id)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// FindTasks evaluates the discovery criteria for one owner.
//
// All predicates are AND-combined in the WHERE clause; the search
// predicate alone matches either title or description. Sorting is
// composed per criteria with the null-last override baked into the
// ORDER BY, and id is the final key so equal sort keys come back in a
// stable order across calls.
func (s *Store) FindTasks(ctx context.Context, ownerID string, criteria domain.Criteria) ([]domain.Task, error) {
	var (
		conditions = []string{"owner_id = $1"}
		args       = []any{ownerID}
	)

	if criteria.SearchText != "" {
		args = append(args, escapeLikePattern(criteria.SearchText))
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')", n, n))
	}
	if criteria.Priority != nil {
		args = append(args, string(*criteria.Priority))
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if criteria.Category != nil {
		args = append(args, *criteria.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY ` + orderByClause(criteria)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		result = append(result, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	return result, nil
}

// UpdateTask replaces a stored task's mutable fields.
func (s *Store) UpdateTask(ctx context.Context, task *domain.Task) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, completed = $4, priority = $5,
		    due_date = $6, category = $7, updated_at = $8
		WHERE id = $1`,
		task.ID, task.Title, task.Description, task.Completed,
		priorityToDB(task.Priority), task.DueDate, task.Category, task.UpdateTime,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, task.ID)
	}
	return nil
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, id)
	}
	return nil
}

// orderByClause builds the ORDER BY for a criteria. Safe to build by
// string concatenation: criteria fields are closed enums validated at
// parse time, never raw caller input.
func orderByClause(criteria domain.Criteria) string {
	dir := "DESC"
	if criteria.SortDirection == domain.SortAsc {
		dir = "ASC"
	}

	switch criteria.SortField {
	case domain.SortFieldPriority:
		// Rank real priorities semantically (not alphabetically) and
		// push NULL or unrecognized values last in both directions.
		return "CASE WHEN priority IN ('low', 'medium', 'high') THEN 0 ELSE 1 END, " +
			"CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END " + dir + ", id"
	case domain.SortFieldDueDate:
		return "(due_date IS NULL), due_date " + dir + ", id"
	default:
		return "created_at " + dir + ", id"
	}
}

// escapeLikePattern escapes LIKE metacharacters so search text is
// matched literally inside the surrounding wildcards.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// priorityToDB converts an optional priority to its stored form.
func priorityToDB(p *domain.TaskPriority) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

// scanTask reads one task row.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		task     domain.Task
		priority *string
	)

	err := row.Scan(
		&task.ID, &task.OwnerID, &task.Title, &task.Description, &task.Completed,
		&priority, &task.DueDate, &task.Category, &task.CreateTime, &task.UpdateTime,
	)
	if err != nil {
		return nil, err
	}

	if priority != nil {
		p := domain.TaskPriority(*priority)
		task.Priority = &p
	}
	task.CreateTime = task.CreateTime.UTC()
	task.UpdateTime = task.UpdateTime.UTC()
	if task.DueDate != nil {
		utc := task.DueDate.UTC()
		task.DueDate = &utc
	}

	return &task, nil
}
