// Package filterstate owns the live discovery criteria for one view.
// It is the single mutation path for the criteria: patches flow through
// Update, search-text changes are debounced, and every applied change is
// pushed to a listener together with its URL-encodable form so the view
// can re-sync its location and re-run the query.
package filterstate

import (
	"sync"
	"time"

	"github.com/tasklens/server/internal/domain"
)

// DefaultDebounceWindow is the delay after the last search keystroke
// before the value is committed to the canonical criteria.
const DefaultDebounceWindow = 300 * time.Millisecond

// Listener receives every applied criteria change along with its
// serialized form. Implementations typically replace the current URL
// state and re-invoke the query for the new criteria.
type Listener func(criteria domain.Criteria, encoded map[string]string)

// Store is the canonical criteria holder for a session/view.
//
// Search-text patches pass through a cancellable debounce timer: a new
// qualifying patch cancels and restarts the timer, so of N rapid values
// only the last is ever committed; intermediates are discarded, never
// queued. All other fields apply immediately.
type Store struct {
	mu       sync.Mutex
	criteria domain.Criteria
	listener Listener
	window   time.Duration

	pendingSearch *string
	timer         *time.Timer
	generation    uint64
	closed        bool
}

// Option is a functional option for configuring Store.
type Option func(*Store)

// WithDebounceWindow overrides the search-text debounce window.
func WithDebounceWindow(d time.Duration) Option {
	return func(s *Store) {
		s.window = d
	}
}

// WithInitialCriteria seeds the store from previously persisted state,
// typically ParseCriteria over the current URL parameters.
func WithInitialCriteria(c domain.Criteria) Option {
	return func(s *Store) {
		s.criteria = c
	}
}

// NewStore creates a store with default criteria and the given listener.
// The listener is not invoked for the initial state.
func NewStore(listener Listener, opts ...Option) *Store {
	s := &Store{
		criteria: domain.DefaultCriteria(),
		listener: listener,
		window:   DefaultDebounceWindow,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Criteria returns a snapshot of the canonical criteria. A pending
// debounced search value is not visible until it commits.
func (s *Store) Criteria() domain.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Update merges the patch into the canonical criteria.
//
// A patch touching SearchText has its search value deferred by the
// debounce window; the patch's other fields, like every non-search
// patch, apply immediately. Immediate changes notify the listener at
// once, deferred ones when the window elapses without a further
// search patch.
func (s *Store) Update(patch domain.CriteriaPatch) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return
	}

	search := patch.SearchText
	patch.SearchText = nil

	applied := false
	next := s.criteria.Apply(patch)
	if !next.Equal(s.criteria) {
		s.criteria = next
		applied = true
	}

	if search != nil {
		s.scheduleSearchLocked(*search)
	}

	criteria := s.criteria
	listener := s.listener
	s.mu.Unlock()

	if applied && listener != nil {
		listener(criteria, criteria.Serialize())
	}
}

// Clear resets the criteria to defaults atomically, dropping any
// pending debounced search value. Never debounced.
func (s *Store) Clear() {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return
	}

	s.cancelPendingLocked()
	s.criteria = domain.DefaultCriteria()

	criteria := s.criteria
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(criteria, criteria.Serialize())
	}
}

// Close stops any pending debounce timer without committing it. The
// store ignores updates afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelPendingLocked()
	s.closed = true
}

// scheduleSearchLocked (re)starts the debounce timer for a search value,
// replacing any pending one. Caller holds s.mu.
func (s *Store) scheduleSearchLocked(value string) {
	s.cancelPendingLocked()

	s.generation++
	generation := s.generation
	s.pendingSearch = &value
	s.timer = time.AfterFunc(s.window, func() {
		s.commitSearch(generation)
	})
}

// cancelPendingLocked stops the debounce timer and discards the pending
// search value. Caller holds s.mu.
func (s *Store) cancelPendingLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pendingSearch = nil
	s.generation++
}

// commitSearch applies a debounced search value once its window has
// elapsed. The generation check discards timers that lost a race with a
// newer patch, Clear, or Close.
func (s *Store) commitSearch(generation uint64) {
	s.mu.Lock()

	if s.closed || generation != s.generation || s.pendingSearch == nil {
		s.mu.Unlock()
		return
	}

	value := *s.pendingSearch
	s.pendingSearch = nil
	s.timer = nil

	next := s.criteria.Apply(domain.CriteriaPatch{SearchText: &value})
	if next.Equal(s.criteria) {
		s.mu.Unlock()
		return
	}
	s.criteria = next

	criteria := s.criteria
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(criteria, criteria.Serialize())
	}
}
