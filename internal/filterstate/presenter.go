package filterstate

import "github.com/tasklens/server/internal/domain"

// EmptyState classifies a zero-length result set for display purposes.
type EmptyState string

const (
	// EmptyStateNone means the result set is not empty; no
	// classification applies.
	EmptyStateNone EmptyState = ""

	// EmptyStateNoMatches means records exist scope-wide but none match
	// the active filters; the remedial action is clearing them.
	EmptyStateNoMatches EmptyState = "no_matches"

	// EmptyStateNoRecords means no records exist at all; the remedial
	// action is creating one.
	EmptyStateNoRecords EmptyState = "no_records"
)

// ClassifyEmpty decides how an empty result should be presented. It is
// a pure function of the criteria and the result length: an empty
// result under active filters is "no matches", without any active
// filter it is "no records". Sort settings alone never make a result
// count as filtered. Non-empty results are never classified.
func ClassifyEmpty(criteria domain.Criteria, resultLen int) EmptyState {
	if resultLen > 0 {
		return EmptyStateNone
	}
	if criteria.HasActiveFilters() {
		return EmptyStateNoMatches
	}
	return EmptyStateNoRecords
}
