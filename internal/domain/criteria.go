package domain

import "strings"

// SortField names the task attribute a discovery query orders by.
type SortField string

const (
	SortFieldCreatedAt SortField = "created_at"
	SortFieldDueDate   SortField = "due_date"
	SortFieldPriority  SortField = "priority"
)

// SortDirection is the ordering direction for a discovery query.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// MaxSearchTextLength bounds the free-text search input.
const MaxSearchTextLength = 255

// Query parameter keys for the URL-encoded form of a Criteria.
const (
	paramSearch   = "q"
	paramSortBy   = "sort_by"
	paramOrder    = "order"
	paramPriority = "priority"
	paramCategory = "category"
)

// Criteria is the canonical, fully defaulted representation of one
// discovery request: free-text search, sort key and direction, and
// equality filters. A zero Criteria is not valid; use DefaultCriteria
// or ParseCriteria so every field carries a concrete value.
type Criteria struct {
	// SearchText filters by case-insensitive substring match on title or
	// description. Empty means no search filter.
	SearchText string

	SortField     SortField
	SortDirection SortDirection

	// Priority, when set, is an exact-match filter.
	Priority *TaskPriority

	// Category, when set, is an exact, case-sensitive match filter.
	// "work" and "Work" are distinct categories.
	Category *string
}

// DefaultCriteria returns the criteria used on first view: no filters,
// newest tasks first.
func DefaultCriteria() Criteria {
	return Criteria{
		SortField:     SortFieldCreatedAt,
		SortDirection: SortDesc,
	}
}

// ParseCriteria builds a Criteria from a flat string map, typically URL
// query parameters. It is total: unknown keys are ignored and malformed
// values fall back to the field's default rather than erroring, so a
// stale or hand-edited shared URL degrades instead of breaking the view.
// For any map produced by Serialize, ParseCriteria returns the original
// criteria.
func ParseCriteria(params map[string]string) Criteria {
	c := DefaultCriteria()

	if q, ok := params[paramSearch]; ok {
		c.SearchText = truncateRunes(q, MaxSearchTextLength)
	}

	switch SortField(strings.ToLower(params[paramSortBy])) {
	case SortFieldCreatedAt, SortFieldDueDate, SortFieldPriority:
		c.SortField = SortField(strings.ToLower(params[paramSortBy]))
	}

	switch SortDirection(strings.ToLower(params[paramOrder])) {
	case SortAsc, SortDesc:
		c.SortDirection = SortDirection(strings.ToLower(params[paramOrder]))
	}

	switch p := TaskPriority(strings.ToLower(params[paramPriority])); p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		c.Priority = &p
	}

	if cat, ok := params[paramCategory]; ok && cat != "" {
		cat = truncateRunes(cat, MaxCategoryLength)
		c.Category = &cat
	}

	return c
}

// Serialize emits the minimal, canonical flat map for the criteria:
// only non-default fields are present, so the default criteria encodes
// to an empty map and absent keys always mean "default".
func (c Criteria) Serialize() map[string]string {
	params := make(map[string]string)

	if c.SearchText != "" {
		params[paramSearch] = c.SearchText
	}
	if c.SortField != SortFieldCreatedAt {
		params[paramSortBy] = string(c.SortField)
	}
	if c.SortDirection != SortDesc {
		params[paramOrder] = string(c.SortDirection)
	}
	if c.Priority != nil {
		params[paramPriority] = string(*c.Priority)
	}
	if c.Category != nil {
		params[paramCategory] = *c.Category
	}

	return params
}

// HasActiveFilters reports whether any result-narrowing filter is set.
// Sort field and direction never count: they reorder, they don't narrow,
// and empty-state classification depends on that distinction.
func (c Criteria) HasActiveFilters() bool {
	return c.SearchText != "" || c.Priority != nil || c.Category != nil
}

// Equal reports whether two criteria describe the same request.
func (c Criteria) Equal(other Criteria) bool {
	if c.SearchText != other.SearchText ||
		c.SortField != other.SortField ||
		c.SortDirection != other.SortDirection {
		return false
	}
	if (c.Priority == nil) != (other.Priority == nil) {
		return false
	}
	if c.Priority != nil && *c.Priority != *other.Priority {
		return false
	}
	if (c.Category == nil) != (other.Category == nil) {
		return false
	}
	if c.Category != nil && *c.Category != *other.Category {
		return false
	}
	return true
}

// CriteriaPatch is a partial criteria update. Nil fields are left
// untouched; the Clear flags reset the corresponding optional filter.
type CriteriaPatch struct {
	SearchText    *string
	SortField     *SortField
	SortDirection *SortDirection
	Priority      *TaskPriority
	Category      *string

	ClearPriority bool
	ClearCategory bool
}

// Apply merges the patch into a copy of the criteria and returns the
// result. The receiver is never mutated and the result is always fully
// defaulted: invalid patch values degrade the same way ParseCriteria
// degrades malformed input.
func (c Criteria) Apply(p CriteriaPatch) Criteria {
	next := c

	if p.SearchText != nil {
		next.SearchText = truncateRunes(*p.SearchText, MaxSearchTextLength)
	}
	if p.SortField != nil {
		switch *p.SortField {
		case SortFieldCreatedAt, SortFieldDueDate, SortFieldPriority:
			next.SortField = *p.SortField
		}
	}
	if p.SortDirection != nil {
		switch *p.SortDirection {
		case SortAsc, SortDesc:
			next.SortDirection = *p.SortDirection
		}
	}
	if p.ClearPriority {
		next.Priority = nil
	} else if p.Priority != nil {
		switch *p.Priority {
		case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
			v := *p.Priority
			next.Priority = &v
		}
	}
	if p.ClearCategory {
		next.Category = nil
	} else if p.Category != nil {
		if *p.Category == "" {
			next.Category = nil
		} else {
			v := truncateRunes(*p.Category, MaxCategoryLength)
			next.Category = &v
		}
	}

	return next
}

// truncateRunes trims s to at most n runes. Truncation, not rejection:
// over-long search or category input still produces a usable filter.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
