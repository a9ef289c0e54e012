// Package testbed provides element kinds used by the testing package's
// own tests.
package testbed

import (
	"strconv"
	"time"

	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/graphics"
	"github.com/go-drift/gadget/pkg/variant"
)

// Register adds the "counter" and "ticker" kinds to f.
func Register(f *element.Factory) {
	f.Register("counter", NewCounter)
	f.Register("ticker", NewTicker)
}

// Counter shows a number that goes up by one per click.
type Counter struct {
	element.BasicElement
	count int
}

func NewCounter(parent element.Element, view element.ViewContext, name string) element.Element {
	c := &Counter{}
	c.Init(c, "counter", parent, view, name, false)
	c.SetCursor(element.CursorHand)
	c.RegisterReadonly("text", func() variant.Variant { return variant.String(c.Text()) })
	c.RegisterReadonly("count", func() variant.Variant { return variant.Int(int64(c.count)) })
	return c
}

func (c *Counter) Count() int   { return c.count }
func (c *Counter) Text() string { return strconv.Itoa(c.count) }

func (c *Counter) DefaultSize() (float64, float64) { return 40, 20 }

func (c *Counter) HandleMouseEvent(ev event.MouseEvent) event.Result {
	if ev.Kind != event.MouseClick {
		return event.Unhandled
	}
	c.count++
	if v := c.View(); v != nil {
		v.QueueDraw()
	}
	return event.Handled
}

func (c *Counter) DoDraw(cv canvas.Canvas) {
	cv.DrawText(0, 0, c.Text(), graphics.ColorBlack)
}

// Ticker counts interval ticks once started.
type Ticker struct {
	element.BasicElement
	ticks, limit int
	timer        int
}

func NewTicker(parent element.Element, view element.ViewContext, name string) element.Element {
	t := &Ticker{}
	t.Init(t, "ticker", parent, view, name, false)
	t.RegisterReadonly("ticks", func() variant.Variant { return variant.Int(int64(t.ticks)) })
	return t
}

func (t *Ticker) Ticks() int    { return t.ticks }
func (t *Ticker) Running() bool { return t.timer != 0 }

// Start ticks every period. A positive limit stops the ticker after that
// many ticks.
func (t *Ticker) Start(period time.Duration, limit int) {
	t.Stop()
	t.limit = limit
	t.timer = t.View().SetInterval(period, t.tick)
}

func (t *Ticker) Stop() {
	if t.timer != 0 {
		t.View().ClearInterval(t.timer)
		t.timer = 0
	}
}

func (t *Ticker) tick() {
	t.ticks++
	if t.limit > 0 && t.ticks >= t.limit {
		t.Stop()
	}
}
