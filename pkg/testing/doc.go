// Package testing drives gadget views without a native window.
//
// # Quick Start
//
// Create a tester, add elements, and make assertions:
//
//	func TestMyGadget(t *testing.T) {
//	    tester := gadgettest.NewViewTesterWithT(t)
//	    b := tester.Append("button", "ok").(*widgets.Button)
//	    b.SetCaption("OK")
//
//	    // Simulate input through the binder
//	    tester.Tap(gadgettest.ByText("OK"))
//
//	    // Assert on the host
//	    if tester.Host().Cursor != element.CursorHand {
//	        t.Error("expected hand cursor over the button")
//	    }
//	}
//
// # Snapshot Testing
//
// Capture and compare the element tree and its canvas calls:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/my_gadget.snapshot.json")
//
// Update snapshots with:
//
//	GADGET_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Timers
//
// Views schedule timeouts, intervals and animations on a loop whose clock
// only moves when told:
//
//	tester.Advance(100 * time.Millisecond)
//	err := tester.PumpAndSettle(time.Second)
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import gadgettest "github.com/go-drift/gadget/pkg/testing"
package testing
