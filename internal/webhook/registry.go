// Package webhook holds the subscriber registry and the best-effort
// fan-out dispatcher that notifies each subscriber of every accepted
// gate event.
package webhook

import (
	"net/url"
	"sort"
	"sync"
)

// Registry is the concurrency-safe membership set of subscriber URLs.
// Membership is the only state; there is no metadata beyond the URL and
// nothing survives a process restart.
type Registry struct {
	mu   sync.RWMutex
	urls map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{urls: make(map[string]struct{})}
}

// Register adds a subscriber URL. It fails closed on anything that does
// not parse as an absolute http(s) URI, and reports false when the URL
// is already present (idempotent add, signalled as "not newly added").
func (r *Registry) Register(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.urls[rawURL]; exists {
		return false
	}
	r.urls[rawURL] = struct{}{}
	return true
}

// Unregister removes a subscriber URL, reporting whether it existed.
func (r *Registry) Unregister(rawURL string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.urls[rawURL]; !exists {
		return false
	}
	delete(r.urls, rawURL)
	return true
}

// List returns all registered URLs in lexicographic order.
func (r *Registry) List() []string {
	return r.Snapshot()
}

// Snapshot returns a point-in-time copy of the URL set, sorted. A
// subscriber registered after the snapshot is taken does not receive the
// event being dispatched; that race is accepted.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	urls := make([]string, 0, len(r.urls))
	for u := range r.urls {
		urls = append(urls, u)
	}
	r.mu.RUnlock()

	sort.Strings(urls)
	return urls
}
