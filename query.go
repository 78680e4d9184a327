package bloglet

import (
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// FilterAll matches every category.
	FilterAll = "all"

	// DefaultPageSize is the number of posts per page.
	DefaultPageSize = 5

	// SearchDebounce is the quiet period after the last keystroke before
	// a search recomputation fires.
	SearchDebounce = 300 * time.Millisecond
)

// QueryView is an immutable copy of the query parameters handed to the
// engine.
type QueryView struct {
	Filter   string
	Search   string
	Page     int
	PageSize int
}

// Result is the engine output: one page of matching posts plus the counts
// the projector needs for the pagination descriptor.
type Result struct {
	Posts      []Post
	TotalItems int
	Page       int
	PageSize   int
	TotalPages int
}

// RunQuery derives the filtered, searched, sorted, paginated view of the
// snapshot. It is a pure function: every recomputation starts from the
// full post list, never from a previously narrowed result, so repeated
// searches cannot irreversibly narrow the set.
//
// A page past the end yields an empty slice, not an error: deleting posts
// or shrinking the page size can legitimately leave the current page
// dangling until the caller resets it.
func RunQuery(snap Snapshot, qv QueryView) Result {
	if qv.Page < 1 {
		qv.Page = 1
	}
	if qv.PageSize < 1 {
		qv.PageSize = DefaultPageSize
	}

	var matched []Post
	term := strings.ToLower(qv.Search)
	for _, p := range snap.Posts {
		if qv.Filter != FilterAll && qv.Filter != "" && p.Category != qv.Filter {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Content), term) &&
			!strings.Contains(strings.ToLower(p.Author), term) {
			continue
		}
		matched = append(matched, p)
	}

	// ISO dates order lexicographically; ties keep their original
	// relative order.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date > matched[j].Date
	})

	total := len(matched)
	totalPages := (total + qv.PageSize - 1) / qv.PageSize

	start := (qv.Page - 1) * qv.PageSize
	end := start + qv.PageSize
	var page []Post
	if start < total {
		if end > total {
			end = total
		}
		page = matched[start:end]
	}

	return Result{
		Posts:      page,
		TotalItems: total,
		Page:       qv.Page,
		PageSize:   qv.PageSize,
		TotalPages: totalPages,
	}
}

// Debouncer coalesces a burst of triggers into a single deferred callback.
// Each new trigger cancels the pending one and restarts the delay.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer creates a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the quiet period, replacing any
// pending callback.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// QueryState owns the current filter, search term and page. Filter and
// search changes reset the page to 1. Change notification fires
// immediately for filter and page changes; search changes store the term
// at once but defer notification through the debouncer, so a typing burst
// recomputes at most once per quiet period.
type QueryState struct {
	mu       sync.Mutex
	filter   string
	search   string
	page     int
	pageSize int

	deb    *Debouncer
	notify func()
}

// NewQueryState returns a QueryState at its initial position: all
// categories, no search, page 1.
func NewQueryState() *QueryState {
	return &QueryState{
		filter:   FilterAll,
		page:     1,
		pageSize: DefaultPageSize,
		deb:      NewDebouncer(SearchDebounce),
	}
}

// Notify registers fn to run when the state changes.
func (q *QueryState) Notify(fn func()) {
	q.mu.Lock()
	q.notify = fn
	q.mu.Unlock()
}

// SetFilter selects a category (or FilterAll) and resets to page 1.
func (q *QueryState) SetFilter(category string) {
	q.mu.Lock()
	q.filter = category
	q.page = 1
	fn := q.notify
	q.mu.Unlock()

	q.deb.Cancel()
	if fn != nil {
		fn()
	}
}

// SetSearch stores the term immediately and resets to page 1; the change
// notification is debounced.
func (q *QueryState) SetSearch(term string) {
	q.mu.Lock()
	q.search = term
	q.page = 1
	fn := q.notify
	q.mu.Unlock()

	if fn != nil {
		q.deb.Trigger(fn)
	}
}

// SetPage moves to the given page without touching filter or search.
func (q *QueryState) SetPage(page int) {
	q.mu.Lock()
	if page >= 1 {
		q.page = page
	}
	fn := q.notify
	q.mu.Unlock()

	q.deb.Cancel()
	if fn != nil {
		fn()
	}
}

// SetPageSize changes the page size. The current page is deliberately not
// clamped; it may point past the end until the caller resets it.
func (q *QueryState) SetPageSize(size int) {
	q.mu.Lock()
	if size >= 1 {
		q.pageSize = size
	}
	fn := q.notify
	q.mu.Unlock()

	q.deb.Cancel()
	if fn != nil {
		fn()
	}
}

// Reset returns the state to its initial position. Used after import.
func (q *QueryState) Reset() {
	q.mu.Lock()
	q.filter = FilterAll
	q.search = ""
	q.page = 1
	fn := q.notify
	q.mu.Unlock()

	q.deb.Cancel()
	if fn != nil {
		fn()
	}
}

// View returns an immutable copy of the current parameters.
func (q *QueryState) View() QueryView {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueryView{Filter: q.filter, Search: q.search, Page: q.page, PageSize: q.pageSize}
}
