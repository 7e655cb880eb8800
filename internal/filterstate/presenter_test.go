package filterstate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tasklens/server/internal/domain"
	"github.com/tasklens/server/internal/ptr"
)

func TestClassifyEmpty(t *testing.T) {
	filtered := domain.DefaultCriteria()
	filtered.SearchText = "milk"

	sortOnly := domain.DefaultCriteria()
	sortOnly.SortField = domain.SortFieldPriority
	sortOnly.SortDirection = domain.SortAsc

	categoryOnly := domain.DefaultCriteria()
	categoryOnly.Category = ptr.To("Work")

	tests := []struct {
		name      string
		criteria  domain.Criteria
		resultLen int
		want      EmptyState
	}{
		{"empty without filters means no records", domain.DefaultCriteria(), 0, EmptyStateNoRecords},
		{"empty with search means no matches", filtered, 0, EmptyStateNoMatches},
		{"empty with category filter means no matches", categoryOnly, 0, EmptyStateNoMatches},
		{"sort alone still means no records", sortOnly, 0, EmptyStateNoRecords},
		{"non-empty results are never classified", filtered, 3, EmptyStateNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyEmpty(tt.criteria, tt.resultLen))
		})
	}
}
