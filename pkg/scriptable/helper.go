package scriptable

import (
	"github.com/go-drift/gadget/pkg/signal"
	"github.com/go-drift/gadget/pkg/variant"
)

// dynamicBase is the first id handed to dynamically resolved names. It sits
// below any realistic number of registered members.
const dynamicBase = -(1 << 24)

type member struct {
	name     string
	kind     PropertyKind
	getter   func() variant.Variant
	setter   func(variant.Variant) bool
	method   signal.Slot
	sig      *signal.Signal
	conn     *signal.Connection
	constant variant.Variant
}

// Helper is an embeddable member registry implementing everything in
// Interface except ClassID, which the embedding type provides through
// SetClass.
//
//	type Clock struct{ scriptable.Helper }
//
//	func NewClock() *Clock {
//		c := &Clock{}
//		c.SetClass(0x6b3c1a2e)
//		c.RegisterReadonly("now", func() variant.Variant { ... })
//		return c
//	}
type Helper struct {
	classes  []uint64
	members  []*member
	byName   map[string]int
	dynamic  []string
	dynIDs   map[string]int
	onDelete *signal.Signal

	indexGet func(int) (variant.Variant, bool)
	indexSet func(int, variant.Variant) bool
	dynGet   func(string) (variant.Variant, bool)
	dynSet   func(string, variant.Variant) bool

	destroyed bool
}

// SetClass records the class id and the ids of its base classes.
func (h *Helper) SetClass(id uint64, bases ...uint64) {
	h.classes = append([]uint64{id}, bases...)
}

// ClassID returns the id given to SetClass, or 0.
func (h *Helper) ClassID() uint64 {
	if len(h.classes) == 0 {
		return 0
	}
	return h.classes[0]
}

// IsInstanceOf reports whether classID is this class or one of its bases.
func (h *Helper) IsInstanceOf(classID uint64) bool {
	for _, c := range h.classes {
		if c == classID {
			return true
		}
	}
	return false
}

func (h *Helper) add(m *member) {
	if h.byName == nil {
		h.byName = make(map[string]int)
	}
	if i, ok := h.byName[m.name]; ok {
		h.members[i] = m
		return
	}
	h.byName[m.name] = len(h.members)
	h.members = append(h.members, m)
}

// RegisterProperty registers a readable member. A nil setter makes it
// read-only.
func (h *Helper) RegisterProperty(name string, getter func() variant.Variant, setter func(variant.Variant) bool) {
	h.add(&member{name: name, kind: KindProperty, getter: getter, setter: setter})
}

// RegisterReadonly is RegisterProperty with no setter.
func (h *Helper) RegisterReadonly(name string, getter func() variant.Variant) {
	h.RegisterProperty(name, getter, nil)
}

// RegisterMethod registers a callable member. fn is passed to
// signal.NewSlot; a value that is not a func is ignored.
func (h *Helper) RegisterMethod(name string, fn any) {
	slot := signal.NewSlot(fn)
	if slot == nil {
		return
	}
	h.add(&member{name: name, kind: KindMethod, method: slot})
}

// RegisterSignal exposes sig as a property whose value is the connected
// script slot. Setting a slot replaces the previous script connection;
// setting void or null disconnects it.
func (h *Helper) RegisterSignal(name string, sig *signal.Signal) {
	h.add(&member{name: name, kind: KindSignal, sig: sig})
}

// RegisterConstant registers an immutable value.
func (h *Helper) RegisterConstant(name string, v variant.Variant) {
	h.add(&member{name: name, kind: KindConstant, constant: v})
}

// SetIndexedHandler installs array-style access for non-negative ids.
func (h *Helper) SetIndexedHandler(get func(int) (variant.Variant, bool), set func(int, variant.Variant) bool) {
	h.indexGet, h.indexSet = get, set
}

// SetDynamicHandler installs a fallback for names that were never
// registered. get reports whether the name exists.
func (h *Helper) SetDynamicHandler(get func(string) (variant.Variant, bool), set func(string, variant.Variant) bool) {
	h.dynGet, h.dynSet = get, set
}

func (h *Helper) memberByID(id int) *member {
	if id >= 0 {
		return nil
	}
	i := -id - 1
	if i >= len(h.members) {
		return nil
	}
	return h.members[i]
}

func (h *Helper) dynamicName(id int) (string, bool) {
	i := dynamicBase - id
	if i < 0 || i >= len(h.dynamic) {
		return "", false
	}
	return h.dynamic[i], true
}

func (h *Helper) info(id int, m *member) PropertyInfo {
	info := PropertyInfo{ID: id, Kind: m.kind}
	switch m.kind {
	case KindConstant:
		info.ID = 0
		info.Prototype = m.constant
	case KindMethod:
		info.Prototype = variant.SlotValue(m.method)
	case KindSignal:
		info.Prototype = variant.SlotValue(nil)
	case KindProperty:
		if m.getter != nil {
			info.Prototype = variant.Zero(m.getter().Type())
		}
	}
	return info
}

// GetPropertyInfoByName resolves name to an id.
func (h *Helper) GetPropertyInfoByName(name string) (PropertyInfo, bool) {
	if i, ok := h.byName[name]; ok {
		return h.info(-(i + 1), h.members[i]), true
	}
	if h.dynGet == nil {
		return PropertyInfo{}, false
	}
	v, ok := h.dynGet(name)
	if !ok {
		return PropertyInfo{}, false
	}
	id, seen := h.dynIDs[name]
	if !seen {
		if h.dynIDs == nil {
			h.dynIDs = make(map[string]int)
		}
		id = dynamicBase - len(h.dynamic)
		h.dynIDs[name] = id
		h.dynamic = append(h.dynamic, name)
	}
	return PropertyInfo{ID: id, Kind: KindDynamic, Prototype: variant.Zero(v.Type())}, true
}

// GetPropertyInfoByID describes the member with the given id.
func (h *Helper) GetPropertyInfoByID(id int) (PropertyInfo, bool) {
	if id >= 0 {
		if h.indexGet == nil {
			return PropertyInfo{}, false
		}
		v, ok := h.indexGet(id)
		if !ok {
			return PropertyInfo{}, false
		}
		return PropertyInfo{ID: id, Kind: KindProperty, Prototype: variant.Zero(v.Type())}, true
	}
	if m := h.memberByID(id); m != nil {
		return h.info(id, m), true
	}
	if _, ok := h.dynamicName(id); ok {
		return PropertyInfo{ID: id, Kind: KindDynamic}, true
	}
	return PropertyInfo{}, false
}

// NameOf returns the name registered for a negative id.
func (h *Helper) NameOf(id int) (string, bool) {
	if m := h.memberByID(id); m != nil {
		return m.name, true
	}
	return h.dynamicName(id)
}

// GetProperty reads by id. Unknown ids read as void.
func (h *Helper) GetProperty(id int) variant.Variant {
	if id >= 0 {
		if h.indexGet != nil {
			if v, ok := h.indexGet(id); ok {
				return v
			}
		}
		return variant.Void()
	}
	if m := h.memberByID(id); m != nil {
		switch m.kind {
		case KindProperty:
			if m.getter != nil {
				return m.getter()
			}
		case KindConstant:
			return m.constant
		case KindMethod:
			return variant.SlotValue(m.method)
		case KindSignal:
			if m.conn != nil && m.conn.Slot() != nil {
				return variant.SlotValue(m.conn.Slot())
			}
			return variant.SlotValue(nil)
		}
		return variant.Void()
	}
	if name, ok := h.dynamicName(id); ok && h.dynGet != nil {
		if v, ok := h.dynGet(name); ok {
			return v
		}
	}
	return variant.Void()
}

// SetProperty writes by id. It fails for read-only members, methods,
// constants and unknown ids.
func (h *Helper) SetProperty(id int, v variant.Variant) bool {
	if id >= 0 {
		return h.indexSet != nil && h.indexSet(id, v)
	}
	if m := h.memberByID(id); m != nil {
		switch m.kind {
		case KindProperty:
			return m.setter != nil && m.setter(v)
		case KindSignal:
			return h.setSignal(m, v)
		}
		return false
	}
	if name, ok := h.dynamicName(id); ok && h.dynSet != nil {
		return h.dynSet(name, v)
	}
	return false
}

func (h *Helper) setSignal(m *member, v variant.Variant) bool {
	if v.IsNil() {
		if m.conn != nil {
			m.conn.Disconnect()
		}
		return true
	}
	slot := signal.SlotOf(v)
	if slot == nil {
		return false
	}
	if m.conn == nil {
		m.conn = m.sig.Connect(slot)
		return m.conn != nil
	}
	return m.conn.Reconnect(slot)
}

// ConnectOnDelete subscribes slot to the object's destruction.
func (h *Helper) ConnectOnDelete(slot signal.Slot) *signal.Connection {
	if h.onDelete == nil {
		h.onDelete = signal.Void()
	}
	return h.onDelete.Connect(slot)
}

// Destroy fires ondelete once and releases every script connection.
func (h *Helper) Destroy() {
	if h.destroyed {
		return
	}
	h.destroyed = true
	if h.onDelete != nil {
		h.onDelete.Emit()
		h.onDelete.DisconnectAll()
	}
	for _, m := range h.members {
		if m.conn != nil {
			m.conn.Disconnect()
			m.conn = nil
		}
	}
}

// Destroyed reports whether Destroy has run.
func (h *Helper) Destroyed() bool { return h.destroyed }
