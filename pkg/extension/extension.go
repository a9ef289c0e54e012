// Package extension holds the process-wide table of runtime extensions.
//
// An extension contributes element kinds to a factory (and anything else
// it needs to set up) in Init, and releases process resources in
// Teardown. The entry point registers extensions once, calls Init for
// every factory it creates and Teardown before exiting:
//
//	extension.Register(widgets.Extension())
//	f := element.NewFactory()
//	if err := extension.Init(f); err != nil {
//		return err
//	}
//	defer extension.Teardown()
package extension

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-drift/gadget/pkg/element"
	gadgeterrors "github.com/go-drift/gadget/pkg/errors"
)

var (
	// ErrNoName is returned when registering an extension without a name.
	ErrNoName = errors.New("extension: missing name")
	// ErrDuplicate is returned when a name is registered twice.
	ErrDuplicate = errors.New("extension: already registered")
)

// Extension is one runtime extension. Init and Teardown may be nil.
type Extension struct {
	Name     string
	Init     func(f *element.Factory) error
	Teardown func()
}

// Table is an ordered set of extensions. The package-level functions use
// a default table.
type Table struct {
	mu   sync.Mutex
	exts []Extension
	// done counts, per factory, how many leading extensions have run Init.
	done map[*element.Factory]int
	// used is set once any extension has been initialized.
	used bool
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{done: make(map[*element.Factory]int)}
}

// Register appends ext. Names must be unique.
func (t *Table) Register(ext Extension) error {
	if ext.Name == "" {
		return ErrNoName
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.exts {
		if e.Name == ext.Name {
			return fmt.Errorf("%w: %s", ErrDuplicate, ext.Name)
		}
	}
	t.exts = append(t.exts, ext)
	return nil
}

// Init runs every extension's Init on f in registration order. Extensions
// that already initialized f are skipped, so calling Init again only runs
// extensions registered since. The first error stops the run; a later
// call resumes at the failed extension.
func (t *Table) Init(f *element.Factory) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := t.done[f]; i < len(t.exts); i++ {
		ext := t.exts[i]
		if ext.Init != nil {
			if err := ext.Init(f); err != nil {
				return fmt.Errorf("extension %s: %w", ext.Name, err)
			}
		}
		t.done[f] = i + 1
		t.used = true
	}
	return nil
}

// Teardown runs every extension's Teardown in reverse registration order
// and forgets which factories were initialized. It does nothing if no
// extension was ever initialized. A panicking Teardown is reported and the
// rest still run.
func (t *Table) Teardown() {
	t.mu.Lock()
	exts := slices.Clone(t.exts)
	used := t.used
	t.used = false
	clear(t.done)
	t.mu.Unlock()

	if !used {
		return
	}
	for _, ext := range slices.Backward(exts) {
		if ext.Teardown != nil {
			teardown(ext)
		}
	}
}

func teardown(ext Extension) {
	defer gadgeterrors.Recover("extension.Teardown " + ext.Name)
	ext.Teardown()
}

// Names returns the registered names in registration order.
func (t *Table) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, len(t.exts))
	for i, e := range t.exts {
		names[i] = e.Name
	}
	return names
}

var defaultTable = NewTable()

// Register adds ext to the default table.
func Register(ext Extension) error { return defaultTable.Register(ext) }

// Init initializes f with the default table's extensions.
func Init(f *element.Factory) error { return defaultTable.Init(f) }

// Teardown tears down the default table's extensions.
func Teardown() { defaultTable.Teardown() }

// Names lists the default table's extensions.
func Names() []string { return defaultTable.Names() }
