// Package compliance defines a storage-agnostic test suite for the
// discovery contract. Every Repository implementation must pass it;
// the in-memory store runs it in unit tests and the postgres store
// runs it behind an integration flag.
package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklens/server/internal/application/tasks"
	"github.com/tasklens/server/internal/domain"
	"github.com/tasklens/server/internal/ptr"
)

// taskSpec describes one seeded task in a compact form.
type taskSpec struct {
	title    string
	desc     string
	priority string // empty = nil
	category string // empty = nil
	due      *time.Time
	created  time.Time
}

func seedTask(t *testing.T, ctx context.Context, repo tasks.Repository, ownerID string, spec taskSpec) domain.Task {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err)

	task := domain.Task{
		ID:         id.String(),
		OwnerID:    ownerID,
		Title:      spec.title,
		DueDate:    spec.due,
		CreateTime: spec.created,
		UpdateTime: spec.created,
	}
	if spec.desc != "" {
		task.Description = ptr.To(spec.desc)
	}
	if spec.priority != "" {
		task.Priority = ptr.To(domain.TaskPriority(spec.priority))
	}
	if spec.category != "" {
		task.Category = ptr.To(spec.category)
	}

	require.NoError(t, repo.CreateTask(ctx, &task))
	return task
}

func titles(result []domain.Task) []string {
	out := make([]string, len(result))
	for i, task := range result {
		out[i] = task.Title
	}
	return out
}

func newOwner(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

// RunRepositoryComplianceTest runs the discovery contract tests against
// a Repository implementation. setup returns a fresh store and a
// teardown function.
func RunRepositoryComplianceTest(t *testing.T, setup func() (tasks.Repository, func())) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	t.Run("OwnerScoping", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner, stranger := newOwner(t), newOwner(t)
		seedTask(t, ctx, repo, owner, taskSpec{title: "Mine", created: now})
		seedTask(t, ctx, repo, stranger, taskSpec{title: "Theirs", created: now})

		result, err := repo.FindTasks(ctx, owner, domain.DefaultCriteria())
		require.NoError(t, err)
		assert.Equal(t, []string{"Mine"}, titles(result))
	})

	t.Run("SearchMatchesTitleOrDescription", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := newOwner(t)
		seedTask(t, ctx, repo, owner, taskSpec{title: "Buy milk", created: now})
		seedTask(t, ctx, repo, owner, taskSpec{title: "Buy groceries", created: now.Add(time.Second)})
		seedTask(t, ctx, repo, owner, taskSpec{title: "Call plumber", desc: "about the MILK frother", created: now.Add(2 * time.Second)})

		criteria := domain.DefaultCriteria()
		criteria.SearchText = "milk"
		criteria.SortDirection = domain.SortAsc

		result, err := repo.FindTasks(ctx, owner, criteria)
		require.NoError(t, err)
		assert.Equal(t, []string{"Buy milk", "Call plumber"}, titles(result))
	})

	t.Run("FiltersAndCombine", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := newOwner(t)
		seedTask(t, ctx, repo, owner, taskSpec{title: "Report", priority: "high", category: "Work", created: now})
		seedTask(t, ctx, repo, owner, taskSpec{title: "Laundry", priority: "high", category: "Home", created: now})
		seedTask(t, ctx, repo, owner, taskSpec{title: "Standup", priority: "low", category: "Work", created: now})

		criteria := domain.DefaultCriteria()
		criteria.Priority = ptr.To(domain.TaskPriorityHigh)
		criteria.Category = ptr.To("Work")

		// Both filters must hold: a record matching only one is excluded.
		result, err := repo.FindTasks(ctx, owner, criteria)
		require.NoError(t, err)
		assert.Equal(t, []string{"Report"}, titles(result))

		// The combined result is the intersection of the per-filter results.
		byPriority, err := repo.FindTasks(ctx, owner, domain.Criteria{
			SortField: domain.SortFieldCreatedAt, SortDirection: domain.SortDesc,
			Priority: criteria.Priority,
		})
		require.NoError(t, err)
		byCategory, err := repo.FindTasks(ctx, owner, domain.Criteria{
			SortField: domain.SortFieldCreatedAt, SortDirection: domain.SortDesc,
			Category: criteria.Category,
		})
		require.NoError(t, err)

		inBoth := make(map[string]bool)
		for _, task := range byPriority {
			inBoth[task.ID] = true
		}
		var intersection []string
		for _, task := range byCategory {
			if inBoth[task.ID] {
				intersection = append(intersection, task.Title)
			}
		}
		assert.Equal(t, intersection, titles(result))
	})

	t.Run("CategoryMatchIsCaseSensitive", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := newOwner(t)
		seedTask(t, ctx, repo, owner, taskSpec{title: "Capitalized", category: "Work", created: now})
		seedTask(t, ctx, repo, owner, taskSpec{title: "Lowercase", category: "work", created: now})

		criteria := domain.DefaultCriteria()
		criteria.Category = ptr.To("work")

		result, err := repo.FindTasks(ctx, owner, criteria)
		require.NoError(t, err)
		assert.Equal(t, []string{"Lowercase"}, titles(result))
	})

	t.Run("PrioritySortSemanticOrderNullsLast", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := newOwner(t)
		// Seed in non-semantic order so ordering is meaningful.
		seedTask(t, ctx, repo, owner, taskSpec{title: "high", priority: "high", created: now})
		seedTask(t, ctx, repo, owner, taskSpec{title: "none", created: now.Add(time.Second)})
		seedTask(t, ctx, repo, owner, taskSpec{title: "low", priority: "low", created: now.Add(2 * time.Second)})
		seedTask(t, ctx, repo, owner, taskSpec{title: "medium", priority: "medium", created: now.Add(3 * time.Second)})

		criteria := domain.DefaultCriteria()
		criteria.SortField = domain.SortFieldPriority

		criteria.SortDirection = domain.SortDesc
		result, err := repo.FindTasks(ctx, owner, criteria)
		require.NoError(t, err)
		assert.Equal(t, []string{"high", "medium", "low", "none"}, titles(result))

		criteria.SortDirection = domain.SortAsc
		result, err = repo.FindTasks(ctx, owner, criteria)
		require.NoError(t, err)
		// Ascending inverts real priorities but never the null placement.
		assert.Equal(t, []string{"low", "medium", "high", "none"}, titles(result))
	})

	t.Run("DueDateSortNullsLast", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := newOwner(t)
		early := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		late := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
		seedTask(t, ctx, repo, owner, taskSpec{title: "late", due: &late, created: now})
		seedTask(t, ctx, repo, owner, taskSpec{title: "undated", created: now.Add(time.Second)})
		seedTask(t, ctx, repo, owner, taskSpec{title: "early", due: &early, created: now.Add(2 * time.Second)})

		criteria := domain.DefaultCriteria()
		criteria.SortField = domain.SortFieldDueDate

		criteria.SortDirection = domain.SortAsc
		result, err := repo.FindTasks(ctx, owner, criteria)
		require.NoError(t, err)
		assert.Equal(t, []string{"early", "late", "undated"}, titles(result))

		criteria.SortDirection = domain.SortDesc
		result, err = repo.FindTasks(ctx, owner, criteria)
		require.NoError(t, err)
		assert.Equal(t, []string{"late", "early", "undated"}, titles(result))
	})

	t.Run("CreatedAtSort", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := newOwner(t)
		seedTask(t, ctx, repo, owner, taskSpec{title: "oldest", created: now})
		seedTask(t, ctx, repo, owner, taskSpec{title: "newest", created: now.Add(time.Hour)})
		seedTask(t, ctx, repo, owner, taskSpec{title: "middle", created: now.Add(time.Minute)})

		result, err := repo.FindTasks(ctx, owner, domain.DefaultCriteria())
		require.NoError(t, err)
		assert.Equal(t, []string{"newest", "middle", "oldest"}, titles(result))

		criteria := domain.DefaultCriteria()
		criteria.SortDirection = domain.SortAsc
		result, err = repo.FindTasks(ctx, owner, criteria)
		require.NoError(t, err)
		assert.Equal(t, []string{"oldest", "middle", "newest"}, titles(result))
	})

	t.Run("Determinism", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := newOwner(t)
		// Identical sort keys force the ID tie-break to carry the order.
		for i := 0; i < 8; i++ {
			seedTask(t, ctx, repo, owner, taskSpec{title: "same", priority: "medium", created: now})
		}

		criteria := domain.DefaultCriteria()
		criteria.SortField = domain.SortFieldPriority

		first, err := repo.FindTasks(ctx, owner, criteria)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			again, err := repo.FindTasks(ctx, owner, criteria)
			require.NoError(t, err)
			require.Len(t, again, len(first))
			for j := range first {
				assert.Equal(t, first[j].ID, again[j].ID, "run %d position %d differs", i, j)
			}
		}
	})

	t.Run("EmptyResultIsNotAnError", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		criteria := domain.DefaultCriteria()
		criteria.SearchText = "no such task"

		result, err := repo.FindTasks(ctx, newOwner(t), criteria)
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("CreateGetUpdateDelete", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := newOwner(t)
		task := seedTask(t, ctx, repo, owner, taskSpec{title: "Original", priority: "medium", created: now})

		fetched, err := repo.FindTaskByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", fetched.Title)
		assert.Equal(t, owner, fetched.OwnerID)

		fetched.Title = "Renamed"
		fetched.Completed = true
		fetched.UpdateTime = now.Add(time.Minute)
		require.NoError(t, repo.UpdateTask(ctx, fetched))

		updated, err := repo.FindTaskByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.True(t, updated.Completed)

		require.NoError(t, repo.DeleteTask(ctx, task.ID))
		_, err = repo.FindTaskByID(ctx, task.ID)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}
