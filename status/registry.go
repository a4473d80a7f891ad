package status

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/tidwall/match"
)

// Registry holds collectors by name. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	collectors map[string]*Collector
	order      []string // registration order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		collectors: make(map[string]*Collector),
		order:      make([]string, 0),
	}
}

// Register stores action under name. Registering an existing name replaces
// its collector and keeps its position in registration order.
func (r *Registry) Register(name string, action Action, opts ...CollectorOption) (*Collector, error) {
	c, err := NewCollector(name, action, opts...)
	if err != nil {
		return nil, fmt.Errorf("register %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.collectors[name]; !exists {
		r.order = append(r.order, name)
	}
	r.collectors[name] = c
	return c, nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, action Action, opts ...CollectorOption) *Collector {
	c, err := r.Register(name, action, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Unregister removes the named collector and reports whether it existed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.collectors[name]; !ok {
		return false
	}
	delete(r.collectors, name)
	if i := slices.Index(r.order, name); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return true
}

// Lookup returns the named collector.
func (r *Registry) Lookup(name string) (*Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collectors[name]
	return c, ok
}

// Names returns the registered names in lexicographic order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := slices.Clone(r.order)
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Select returns the collectors whose names match the glob pattern, in
// registration order. The empty pattern selects every collector.
func (r *Registry) Select(pattern string) []*Collector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	selected := make([]*Collector, 0, len(r.order))
	for _, name := range r.order {
		if pattern == "" || match.Match(name, pattern) {
			selected = append(selected, r.collectors[name])
		}
	}
	return selected
}

// Len returns the number of registered collectors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Reset removes every collector.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.collectors = make(map[string]*Collector)
	r.order = make([]string, 0)
}

// String returns a short description listing the sorted names.
func (r *Registry) String() string {
	return "<Registry collectors=[" + strings.Join(r.Names(), ", ") + "]>"
}

// Info writes a human readable listing of the sorted names to w.
func (r *Registry) Info(w io.Writer) error {
	names := r.Names()
	_, err := fmt.Fprintf(w, "Registered status collectors (%d):\n%s\n", len(names), strings.Join(names, "\n"))
	return err
}
