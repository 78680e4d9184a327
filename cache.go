package bloglet

import "sync"

// ViewCache memoizes the engine result for the current query state, so
// repeated renders of an unchanged state reuse the computed view. Store
// mutations and query changes invalidate it; a changed query view also
// forces a recompute directly, so a read never returns a result for stale
// parameters.
type ViewCache struct {
	mu    sync.Mutex
	store *Store
	query *QueryState

	have bool
	view QueryView
	res  Result
}

// NewViewCache creates a cache over the given store and query state.
func NewViewCache(store *Store, query *QueryState) *ViewCache {
	return &ViewCache{store: store, query: query}
}

// Invalidate clears the cached result so the next read recomputes.
func (c *ViewCache) Invalidate() {
	c.mu.Lock()
	c.have = false
	c.mu.Unlock()
}

// Result returns the engine output for the current query state,
// recomputing only when the state or store has changed since the last
// read.
func (c *ViewCache) Result() Result {
	qv := c.query.View()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.have && c.view == qv {
		return c.res
	}
	c.res = RunQuery(c.store.Snapshot(), qv)
	c.view = qv
	c.have = true
	return c.res
}
