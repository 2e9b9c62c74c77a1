package source

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jamesainslie/go-regioneval/region"
)

// Memo caches the results of another Source, including ErrNoData results.
// Other errors are not cached. Memo is safe for concurrent use; the cached
// Regions are shared and must not be modified by callers.
type Memo struct {
	src Source

	mu      sync.Mutex
	entries map[string]memoEntry
}

type memoEntry struct {
	regions region.Regions
	err     error
}

// NewMemo wraps src with an in-memory cache.
func NewMemo(src Source) *Memo {
	return &Memo{src: src, entries: make(map[string]memoEntry)}
}

// Regions implements Source.
func (m *Memo) Regions(ctx context.Context, req Request) (region.Regions, error) {
	key := memoKey(req)

	m.mu.Lock()
	e, ok := m.entries[key]
	m.mu.Unlock()
	if ok {
		return e.regions, e.err
	}

	regions, err := m.src.Regions(ctx, req)
	if err != nil && !isNoData(err) {
		return nil, err
	}

	m.mu.Lock()
	m.entries[key] = memoEntry{regions: regions, err: err}
	m.mu.Unlock()

	return regions, err
}

func memoKey(req Request) string {
	return fmt.Sprintf("%s|%s", req, strings.Join(req.Types, ","))
}
