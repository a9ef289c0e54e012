// Package signal implements the native observer primitive: a Signal fans out
// to an ordered list of Connections, each holding exactly one Slot.
//
// Signals are used both for native-to-native notifications (a ViewElement
// observing its child view's size) and for script callback registration
// (an element's onclick handler).
package signal

import (
	"slices"

	"github.com/go-drift/gadget/pkg/errors"
	"github.com/go-drift/gadget/pkg/variant"
)

// Signal is an event source with a fixed signature.
type Signal struct {
	ret         variant.Type
	args        []variant.Type
	connections []*Connection
}

// New creates a signal returning ret and taking args.
func New(ret variant.Type, args ...variant.Type) *Signal {
	return &Signal{ret: ret, args: append([]variant.Type(nil), args...)}
}

// Void creates a signal with no arguments and no result.
func Void() *Signal {
	return New(variant.TypeVoid)
}

// ReturnType returns the declared return type.
func (s *Signal) ReturnType() variant.Type { return s.ret }

// ArgTypes returns the declared argument types.
func (s *Signal) ArgTypes() []variant.Type { return s.args }

// CheckCompatibility reports whether slot may be connected. Arity and
// argument types must match exactly; the return type must match unless this
// signal returns void.
func (s *Signal) CheckCompatibility(slot Slot) bool {
	if slot == nil {
		return false
	}
	if !slices.Equal(slot.ArgTypes(), s.args) {
		return false
	}
	if s.ret != variant.TypeVoid && slot.ReturnType() != s.ret {
		return false
	}
	return true
}

// Connect appends a connection for slot. It returns nil if the slot's
// signature is incompatible. A nil slot yields a blocked connection that
// can be activated later with Reconnect.
func (s *Signal) Connect(slot Slot) *Connection {
	if slot != nil && !s.CheckCompatibility(slot) {
		return nil
	}
	c := &Connection{signal: s, slot: slot, blocked: slot == nil}
	s.connections = append(s.connections, c)
	return c
}

// ConnectFunc is Connect(NewSlot(fn)).
func (s *Signal) ConnectFunc(fn any) *Connection {
	slot := NewSlot(fn)
	if slot == nil {
		return nil
	}
	return s.Connect(slot)
}

// HasActiveConnections reports whether any connection is unblocked.
func (s *Signal) HasActiveConnections() bool {
	for _, c := range s.connections {
		if !c.blocked {
			return true
		}
	}
	return false
}

// Emit calls every unblocked connection in connection order and returns the
// result of the last slot invoked. With no active connection the zero value
// of the return type is returned.
//
// The connection list is snapshotted first: connections added during
// emission are not called, connections blocked during emission are skipped.
// A panicking slot is reported and emission continues.
func (s *Signal) Emit(args ...variant.Variant) variant.Variant {
	result := variant.Zero(s.ret)
	if len(s.connections) == 0 {
		return result
	}
	snapshot := slices.Clone(s.connections)
	for _, c := range snapshot {
		if c.blocked || c.slot == nil {
			continue
		}
		if r, ok := c.call(args); ok {
			result = r
		}
	}
	return result
}

// DisconnectAll releases every held slot and drops all connections. Owners
// call it when they are destroyed.
func (s *Signal) DisconnectAll() {
	for _, c := range s.connections {
		c.slot = nil
		c.blocked = true
		c.signal = nil
	}
	s.connections = nil
}

// Len returns the number of connections, blocked or not.
func (s *Signal) Len() int { return len(s.connections) }

// Connection is the handle to one subscription.
type Connection struct {
	signal  *Signal
	slot    Slot
	blocked bool
}

func (c *Connection) call(args []variant.Variant) (result variant.Variant, ok bool) {
	defer errors.RecoverWithCallback("signal.Emit", func(any) { ok = false })
	return c.slot.Call(args...), true
}

// Disconnect releases the held slot and blocks the connection.
func (c *Connection) Disconnect() {
	if c == nil {
		return
	}
	c.slot = nil
	c.blocked = true
}

// Reconnect replaces the slot and unblocks the connection. It fails if the
// slot is incompatible with the signal or the signal has been torn down;
// the connection then stays disconnected.
func (c *Connection) Reconnect(slot Slot) bool {
	if c == nil {
		return false
	}
	c.slot = nil
	if c.signal == nil {
		c.blocked = true
		return false
	}
	if slot != nil && !c.signal.CheckCompatibility(slot) {
		c.blocked = true
		return false
	}
	c.slot = slot
	c.blocked = slot == nil
	return true
}

// Block temporarily suppresses the connection.
func (c *Connection) Block() { c.blocked = true }

// Unblock re-enables a blocked connection that still holds a slot.
func (c *Connection) Unblock() {
	if c.slot != nil {
		c.blocked = false
	}
}

// Blocked reports whether Emit skips this connection.
func (c *Connection) Blocked() bool { return c.blocked }

// Slot returns the held slot, or nil after Disconnect.
func (c *Connection) Slot() Slot { return c.slot }
