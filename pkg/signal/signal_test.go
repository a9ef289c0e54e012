package signal

import (
	"testing"

	"github.com/go-drift/gadget/pkg/errors"
	"github.com/go-drift/gadget/pkg/variant"
)

func TestConnectCompatibility(t *testing.T) {
	tests := []struct {
		name   string
		signal *Signal
		slot   Slot
		want   bool
	}{
		{
			name:   "exact match",
			signal: New(variant.TypeVoid, variant.TypeInt64),
			slot:   NewSlot(func(int) {}),
			want:   true,
		},
		{
			name:   "arity mismatch",
			signal: New(variant.TypeVoid, variant.TypeInt64),
			slot:   NewSlot(func(int, int) {}),
			want:   false,
		},
		{
			name:   "argument type mismatch",
			signal: New(variant.TypeVoid, variant.TypeInt64),
			slot:   NewSlot(func(string) {}),
			want:   false,
		},
		{
			name:   "void signal accepts any return",
			signal: New(variant.TypeVoid),
			slot:   NewSlot(func() bool { return true }),
			want:   true,
		},
		{
			name:   "typed return must match",
			signal: New(variant.TypeBool),
			slot:   NewSlot(func() int { return 1 }),
			want:   false,
		},
		{
			name:   "typed return matches",
			signal: New(variant.TypeBool, variant.TypeString),
			slot:   NewSlot(func(string) bool { return true }),
			want:   true,
		},
		{
			name:   "func slot signature",
			signal: New(variant.TypeDouble, variant.TypeDouble, variant.TypeDouble),
			slot: NewFuncSlot(variant.TypeDouble, []variant.Type{variant.TypeDouble, variant.TypeDouble},
				func(args []variant.Variant) variant.Variant { return variant.Double(0) }),
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.signal.Connect(tt.slot)
			if got := c != nil; got != tt.want {
				t.Errorf("Connect() connected = %v, want %v", got, tt.want)
			}
			if got := tt.signal.HasActiveConnections(); got != tt.want {
				t.Errorf("HasActiveConnections() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConnectTwoArgSlotToOneArgSignal(t *testing.T) {
	sig := New(variant.TypeVoid, variant.TypeInt64)
	if c := sig.Connect(NewSlot(func(a, b int) {})); c != nil {
		t.Fatal("expected nil connection for two-argument slot")
	}
	if sig.HasActiveConnections() {
		t.Error("HasActiveConnections() = true after rejected connect")
	}
}

func TestEmitCallsEachSlotOnce(t *testing.T) {
	sig := New(variant.TypeVoid, variant.TypeInt64)
	var got []int64
	sig.ConnectFunc(func(n int64) { got = append(got, n) })
	sig.ConnectFunc(func(n int64) { got = append(got, n*10) })

	sig.Emit(variant.Int(2))
	sig.Emit(variant.Int(3))

	want := []int64{2, 20, 3, 30}
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestEmitLastSlotWins(t *testing.T) {
	sig := New(variant.TypeInt64)
	sig.ConnectFunc(func() int { return 1 })
	sig.ConnectFunc(func() int { return 2 })
	blocked := sig.ConnectFunc(func() int { return 3 })
	blocked.Block()

	v, _ := sig.Emit().ToInt()
	if v != 2 {
		t.Errorf("Emit() = %d, want 2 (last non-blocked slot)", v)
	}
}

func TestEmitWithoutConnectionsReturnsZero(t *testing.T) {
	sig := New(variant.TypeBool)
	if got := sig.Emit(); got.Type() != variant.TypeBool {
		t.Errorf("Emit().Type() = %v, want bool", got.Type())
	}
}

func TestDisconnectAndReconnect(t *testing.T) {
	sig := New(variant.TypeVoid)
	calls := 0
	c := sig.ConnectFunc(func() { calls++ })

	c.Disconnect()
	sig.Emit()
	if calls != 0 {
		t.Errorf("calls after Disconnect = %d, want 0", calls)
	}
	if c.Slot() != nil {
		t.Error("Disconnect should release the slot")
	}
	if sig.HasActiveConnections() {
		t.Error("HasActiveConnections() = true after Disconnect")
	}

	if c.Reconnect(NewSlot(func(int) {})) {
		t.Error("Reconnect with incompatible slot should fail")
	}
	if !c.Blocked() {
		t.Error("connection should stay blocked after failed Reconnect")
	}

	if !c.Reconnect(NewSlot(func() { calls += 10 })) {
		t.Fatal("Reconnect with compatible slot failed")
	}
	sig.Emit()
	if calls != 10 {
		t.Errorf("calls after Reconnect = %d, want 10", calls)
	}
}

func TestNilSlotConnectionIsBlocked(t *testing.T) {
	sig := New(variant.TypeVoid)
	c := sig.Connect(nil)
	if c == nil {
		t.Fatal("Connect(nil) should return a blocked connection")
	}
	if !c.Blocked() {
		t.Error("connection with nil slot should be blocked")
	}
	if sig.HasActiveConnections() {
		t.Error("blocked connection should not count as active")
	}
}

func TestConnectDuringEmit(t *testing.T) {
	sig := New(variant.TypeVoid)
	calls := 0
	sig.ConnectFunc(func() {
		calls++
		sig.ConnectFunc(func() { calls += 100 })
	})
	sig.Emit()
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (new connections wait for next emit)", calls)
	}
}

func TestPanickingSlotDoesNotStopEmission(t *testing.T) {
	errors.SetHandler(&quietHandler{})
	defer errors.SetHandler(nil)

	sig := New(variant.TypeInt64)
	sig.ConnectFunc(func() int { return 7 })
	sig.ConnectFunc(func() int { panic("script error") })
	reached := false
	sig.ConnectFunc(func() int { reached = true; return 9 })

	v, _ := sig.Emit().ToInt()
	if !reached {
		t.Error("slot after panicking slot was not called")
	}
	if v != 9 {
		t.Errorf("Emit() = %d, want 9", v)
	}
}

func TestDisconnectAll(t *testing.T) {
	sig := New(variant.TypeVoid)
	c := sig.ConnectFunc(func() {})
	sig.DisconnectAll()
	if sig.Len() != 0 {
		t.Errorf("Len() = %d, want 0", sig.Len())
	}
	if c.Reconnect(NewSlot(func() {})) {
		t.Error("Reconnect after DisconnectAll should fail")
	}
}

func TestNewSlotRejectsNonFunc(t *testing.T) {
	if NewSlot(42) != nil {
		t.Error("NewSlot(42) should be nil")
	}
	if NewSlot(func() (int, error) { return 0, nil }) != nil {
		t.Error("NewSlot with two results should be nil")
	}
}

func TestSlotArgumentConversion(t *testing.T) {
	var got string
	s := NewSlot(func(name string, n int, ratio float64) { got = name })
	s.Call(variant.String("pie"), variant.Int(1), variant.Double(0.5))
	if got != "pie" {
		t.Errorf("got = %q, want %q", got, "pie")
	}
}

type quietHandler struct{}

func (quietHandler) HandleError(*errors.GadgetError) {}
func (quietHandler) HandlePanic(*errors.PanicError)  {}
