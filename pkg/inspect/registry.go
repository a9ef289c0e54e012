package inspect

import (
	"slices"
	"sync"

	"github.com/go-drift/gadget/pkg/view"
)

// Registry is the set of views the inspector can see. Views are not safe
// for concurrent use, so every handler reads them inside Do; code that
// drives the views from another goroutine should do the same.
type Registry struct {
	mu      sync.Mutex
	entries []Entry

	run sync.Mutex
}

// Entry is one registered view.
type Entry struct {
	ID   string
	Name string
	View *view.View
}

func NewRegistry() *Registry { return &Registry{} }

// Add registers v under name and returns its id. Adding a view twice
// renames it.
func (r *Registry) Add(name string, v *view.View) string {
	id := v.ID().String()
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].View == v {
			r.entries[i].Name = name
			return id
		}
	}
	r.entries = append(r.entries, Entry{ID: id, Name: name, View: v})
	return id
}

// Remove unregisters v.
func (r *Registry) Remove(v *view.View) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.entries)
	r.entries = slices.DeleteFunc(r.entries, func(e Entry) bool { return e.View == v })
	return len(r.entries) != n
}

// Entries returns the registered views in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.entries)
}

// Lookup finds a view by id.
func (r *Registry) Lookup(id string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Do runs fn while holding the lock shared by every inspector request.
func (r *Registry) Do(fn func()) {
	r.run.Lock()
	defer r.run.Unlock()
	fn()
}
