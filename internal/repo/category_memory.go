package repo

import (
	"context"
	"sort"
	"sync"
)

// InMemoryCategoryRegistry keeps category labels per account in process memory.
type InMemoryCategoryRegistry struct {
	mu     sync.Mutex
	labels map[string]map[string]struct{}
}

func NewInMemoryCategoryRegistry() *InMemoryCategoryRegistry {
	return &InMemoryCategoryRegistry{labels: map[string]map[string]struct{}{}}
}

// Add inserts label if absent and reports whether it was new.
func (r *InMemoryCategoryRegistry) Add(_ context.Context, accountID, label string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.labels[accountID]
	if !ok {
		set = map[string]struct{}{}
		r.labels[accountID] = set
	}
	if _, exists := set[label]; exists {
		return false, nil
	}
	set[label] = struct{}{}
	return true, nil
}

func (r *InMemoryCategoryRegistry) List(_ context.Context, accountID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	labels := make([]string, 0, len(r.labels[accountID]))
	for l := range r.labels[accountID] {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels, nil
}

func (r *InMemoryCategoryRegistry) Clear() {
	r.mu.Lock()
	r.labels = map[string]map[string]struct{}{}
	r.mu.Unlock()
}
