package filterstate

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklens/server/internal/domain"
	"github.com/tasklens/server/internal/ptr"
)

// recorder captures listener invocations for assertions.
type recorder struct {
	mu      sync.Mutex
	applied []domain.Criteria
	encoded []map[string]string
}

func (r *recorder) listen(c domain.Criteria, encoded map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, c)
	r.encoded = append(r.encoded, encoded)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.applied)
}

func (r *recorder) last() domain.Criteria {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applied[len(r.applied)-1]
}

const testWindow = 20 * time.Millisecond

// settle waits long enough for any pending debounce timer to fire.
func settle() {
	time.Sleep(10 * testWindow)
}

func TestStore_NonSearchFieldsApplyImmediately(t *testing.T) {
	rec := &recorder{}
	store := NewStore(rec.listen, WithDebounceWindow(testWindow))
	defer store.Close()

	store.Update(domain.CriteriaPatch{SortField: ptr.To(domain.SortFieldDueDate)})

	require.Equal(t, 1, rec.count(), "sort change must not be debounced")
	assert.Equal(t, domain.SortFieldDueDate, store.Criteria().SortField)

	store.Update(domain.CriteriaPatch{Priority: ptr.To(domain.TaskPriorityHigh)})
	require.Equal(t, 2, rec.count())
	assert.Equal(t, map[string]string{"sort_by": "due_date", "priority": "high"}, rec.encoded[1])
}

func TestStore_DebounceCollapsesRapidSearchPatches(t *testing.T) {
	rec := &recorder{}
	store := NewStore(rec.listen, WithDebounceWindow(testWindow))
	defer store.Close()

	for _, value := range []string{"p", "pr", "pro", "proj"} {
		store.Update(domain.CriteriaPatch{SearchText: ptr.To(value)})
	}

	// Nothing committed while the window is still open for "proj".
	assert.Equal(t, "", store.Criteria().SearchText)

	settle()

	require.Equal(t, 1, rec.count(), "rapid patches must collapse to one update")
	assert.Equal(t, "proj", rec.last().SearchText)
	assert.Equal(t, "proj", store.Criteria().SearchText)
	assert.Equal(t, map[string]string{"q": "proj"}, rec.encoded[0])
}

func TestStore_SearchCommitsAfterQuietWindow(t *testing.T) {
	rec := &recorder{}
	store := NewStore(rec.listen, WithDebounceWindow(testWindow))
	defer store.Close()

	store.Update(domain.CriteriaPatch{SearchText: ptr.To("milk")})
	settle()
	store.Update(domain.CriteriaPatch{SearchText: ptr.To("milk and eggs")})
	settle()

	require.Equal(t, 2, rec.count(), "each quiet window commits once")
	assert.Equal(t, "milk and eggs", rec.last().SearchText)
}

func TestStore_MixedPatchDefersOnlySearch(t *testing.T) {
	rec := &recorder{}
	store := NewStore(rec.listen, WithDebounceWindow(testWindow))
	defer store.Close()

	store.Update(domain.CriteriaPatch{
		SearchText: ptr.To("proj"),
		SortField:  ptr.To(domain.SortFieldPriority),
	})

	// Sort applied immediately, search still pending.
	require.Equal(t, 1, rec.count())
	assert.Equal(t, domain.SortFieldPriority, store.Criteria().SortField)
	assert.Equal(t, "", store.Criteria().SearchText)

	settle()

	require.Equal(t, 2, rec.count())
	assert.Equal(t, "proj", store.Criteria().SearchText)
}

func TestStore_ClearResetsAtomicallyAndDropsPendingSearch(t *testing.T) {
	rec := &recorder{}
	store := NewStore(rec.listen, WithDebounceWindow(testWindow))
	defer store.Close()

	store.Update(domain.CriteriaPatch{Priority: ptr.To(domain.TaskPriorityLow)})
	store.Update(domain.CriteriaPatch{SearchText: ptr.To("pending value")})
	store.Clear()
	settle()

	// The pending search must never resurface after Clear.
	assert.True(t, store.Criteria().Equal(domain.DefaultCriteria()))
	assert.Equal(t, "", store.Criteria().SearchText)
	assert.Empty(t, rec.last().Serialize())
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	rec := &recorder{}
	store := NewStore(rec.listen, WithDebounceWindow(testWindow))
	defer store.Close()

	store.Update(domain.CriteriaPatch{Category: ptr.To("Work")})

	store.Clear()
	once := store.Criteria()
	store.Clear()
	twice := store.Criteria()

	assert.True(t, once.Equal(domain.DefaultCriteria()))
	assert.True(t, once.Equal(twice))
}

func TestStore_InitialCriteriaFromPersistedState(t *testing.T) {
	parsed := domain.ParseCriteria(map[string]string{"q": "milk", "order": "asc"})

	store := NewStore(nil, WithInitialCriteria(parsed))
	defer store.Close()

	assert.True(t, store.Criteria().Equal(parsed))
}

func TestStore_CloseDropsPendingSearch(t *testing.T) {
	rec := &recorder{}
	store := NewStore(rec.listen, WithDebounceWindow(testWindow))

	store.Update(domain.CriteriaPatch{SearchText: ptr.To("never applied")})
	store.Close()
	settle()

	assert.Equal(t, 0, rec.count())
	assert.Equal(t, "", store.Criteria().SearchText)
}

func TestStore_NoOpPatchDoesNotNotify(t *testing.T) {
	rec := &recorder{}
	store := NewStore(rec.listen, WithDebounceWindow(testWindow))
	defer store.Close()

	store.Update(domain.CriteriaPatch{SortDirection: ptr.To(domain.SortDesc)}) // already the default
	assert.Equal(t, 0, rec.count())
}
