package normalizer

import "sync"

// Normalizer memoizes normalization keyed on raw input. The same listing
// text and the same dictionary rows come through repeatedly during a run,
// so caching pays for itself; correctness never depends on it.
type Normalizer struct {
	mu         sync.RWMutex
	maxEntries int
	search     map[string]string
	storage    map[string]string
}

// New returns a Normalizer whose caches hold at most maxEntries inputs each.
func New(maxEntries int) *Normalizer {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &Normalizer{
		maxEntries: maxEntries,
		search:     make(map[string]string),
		storage:    make(map[string]string),
	}
}

// ForSearch is the memoized form of the package-level ForSearch.
func (n *Normalizer) ForSearch(text string) string {
	return n.cached(n.search, text, ForSearch)
}

// ForStorage is the memoized form of the package-level ForStorage.
func (n *Normalizer) ForStorage(text string) string {
	return n.cached(n.storage, text, ForStorage)
}

func (n *Normalizer) cached(cache map[string]string, text string, fn func(string) string) string {
	n.mu.RLock()
	normalized, ok := cache[text]
	n.mu.RUnlock()
	if ok {
		return normalized
	}

	normalized = fn(text)

	n.mu.Lock()
	// Full flush on overflow keeps the bound without tracking recency;
	// the working set refills within one batch.
	if len(cache) >= n.maxEntries {
		for k := range cache {
			delete(cache, k)
		}
	}
	cache[text] = normalized
	n.mu.Unlock()

	return normalized
}

// Clear drops both caches. The map fields are never reassigned after New, so
// callers may hold them across a concurrent Clear; entries are deleted in
// place under the lock.
func (n *Normalizer) Clear() {
	n.mu.Lock()
	for k := range n.search {
		delete(n.search, k)
	}
	for k := range n.storage {
		delete(n.storage, k)
	}
	n.mu.Unlock()
}

// Len reports the number of cached search-form entries. Exposed for tests.
func (n *Normalizer) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.search)
}
