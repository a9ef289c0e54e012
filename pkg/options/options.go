// Package options persists per-gadget option values in a bbolt database.
//
// Each gadget gets its own bucket under a shared root bucket, keyed by the
// gadget id. Values are variants stored as small JSON envelopes that keep
// the variant type, so an int written by a script reads back as an int.
package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/go-drift/gadget/pkg/signal"
	"github.com/go-drift/gadget/pkg/variant"
)

// ErrNoValue is returned by Get when neither a stored value nor a default
// exists.
var ErrNoValue = errors.New("options: no such value")

// ErrUnsupported is returned by Put for values that have no stored form,
// such as scriptable objects and slots.
var ErrUnsupported = errors.New("options: unsupported value type")

const bucketRoot = "options"

// Store is an open options database.
type Store struct {
	db *bolt.DB

	mu   sync.Mutex
	sets map[string]*Options
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("options: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRoot))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("options: initialize %s: %w", path, err)
	}
	return &Store{db: db, sets: make(map[string]*Options)}, nil
}

// Close closes the database. Options obtained from the store must not be
// used afterwards.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.db.Path() }

// For returns the options of a gadget. Repeated calls with the same id
// return the same value.
func (s *Store) For(gadgetID string) *Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.sets[gadgetID]; ok {
		return o
	}
	o := &Options{
		store:     s,
		id:        gadgetID,
		defaults:  make(map[string]variant.Variant),
		OnChanged: signal.New(variant.TypeVoid, variant.TypeString),
	}
	s.sets[gadgetID] = o
	return o
}

// Options is the option set of one gadget.
type Options struct {
	store *Store
	id    string

	mu       sync.Mutex
	defaults map[string]variant.Variant
	facade   *Scriptable

	// OnChanged is emitted with the option name after a stored value
	// changes or is removed.
	OnChanged *signal.Signal
}

// ID returns the gadget id.
func (o *Options) ID() string { return o.id }

// Defaults merges values used by Get for names without a stored value.
// Values are classified with variant.FromValue.
func (o *Options) Defaults(values map[string]any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for k, v := range values {
		o.defaults[k] = variant.FromValue(v)
	}
}

// Get returns the stored value, else the default, else ErrNoValue.
func (o *Options) Get(name string) (variant.Variant, error) {
	raw, err := o.raw(name)
	if err != nil {
		return variant.Void(), err
	}
	if raw != nil {
		return decode(raw)
	}
	o.mu.Lock()
	def, ok := o.defaults[name]
	o.mu.Unlock()
	if !ok {
		return variant.Void(), ErrNoValue
	}
	return def, nil
}

// Put stores v under name. OnChanged fires only when the stored bytes
// change.
func (o *Options) Put(name string, v variant.Variant) error {
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("options: put %s: %w", name, err)
	}
	changed := false
	err = o.store.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket([]byte(bucketRoot)).CreateBucketIfNotExists([]byte(o.id))
		if err != nil {
			return err
		}
		if old := b.Get([]byte(name)); old != nil && string(old) == string(data) {
			return nil
		}
		changed = true
		return b.Put([]byte(name), data)
	})
	if err != nil {
		return fmt.Errorf("options: put %s: %w", name, err)
	}
	if changed {
		o.OnChanged.Emit(variant.String(name))
	}
	return nil
}

// Remove deletes the stored value of name. Defaults are kept. Removing a
// name with no stored value is not an error.
func (o *Options) Remove(name string) error {
	removed := false
	err := o.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRoot)).Bucket([]byte(o.id))
		if b == nil || b.Get([]byte(name)) == nil {
			return nil
		}
		removed = true
		return b.Delete([]byte(name))
	})
	if err != nil {
		return fmt.Errorf("options: remove %s: %w", name, err)
	}
	if removed {
		o.OnChanged.Emit(variant.String(name))
	}
	return nil
}

// Exists reports whether name has a stored value or a default.
func (o *Options) Exists(name string) bool {
	raw, err := o.raw(name)
	if err == nil && raw != nil {
		return true
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.defaults[name]
	return ok
}

// Keys returns the names with a stored value or a default, sorted.
func (o *Options) Keys() ([]string, error) {
	names := make(map[string]struct{})
	err := o.store.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRoot)).Bucket([]byte(o.id))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			names[string(k)] = struct{}{}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("options: keys: %w", err)
	}
	o.mu.Lock()
	for k := range o.defaults {
		names[k] = struct{}{}
	}
	o.mu.Unlock()
	return slices.Sorted(maps.Keys(names)), nil
}

func (o *Options) raw(name string) ([]byte, error) {
	var out []byte
	err := o.store.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRoot)).Bucket([]byte(o.id))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(name)); v != nil {
			out = slices.Clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("options: get %s: %w", name, err)
	}
	return out, nil
}

// envelope is the stored form of a value.
type envelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

func encode(v variant.Variant) ([]byte, error) {
	env := envelope{Type: v.Type().String()}
	switch v.Type() {
	case variant.TypeVoid:
	case variant.TypeBool, variant.TypeInt64, variant.TypeDouble, variant.TypeString:
		raw, err := json.Marshal(v.Value())
		if err != nil {
			return nil, err
		}
		env.Value = raw
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, v.Type())
	}
	return json.Marshal(env)
}

func decode(data []byte) (variant.Variant, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return variant.Void(), fmt.Errorf("options: corrupt value: %w", err)
	}
	var (
		out variant.Variant
		err error
	)
	switch env.Type {
	case variant.TypeVoid.String():
		out = variant.Void()
	case variant.TypeBool.String():
		var b bool
		err = json.Unmarshal(env.Value, &b)
		out = variant.Bool(b)
	case variant.TypeInt64.String():
		var i int64
		err = json.Unmarshal(env.Value, &i)
		out = variant.Int(i)
	case variant.TypeDouble.String():
		var f float64
		err = json.Unmarshal(env.Value, &f)
		out = variant.Double(f)
	case variant.TypeString.String():
		var s string
		err = json.Unmarshal(env.Value, &s)
		out = variant.String(s)
	default:
		return variant.Void(), fmt.Errorf("options: unknown stored type %q", env.Type)
	}
	if err != nil {
		return variant.Void(), fmt.Errorf("options: corrupt %s value: %w", env.Type, err)
	}
	return out, nil
}
