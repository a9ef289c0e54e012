// Package termhost runs a view inside a terminal.
//
// The Model is a bubbletea program model that doubles as the view's host.
// Every terminal cell shows two device pixels stacked vertically, drawn as
// an upper half block whose foreground is the top pixel and whose
// background is the bottom one. The last terminal row is a status line
// carrying the caption, tooltips and alerts.
package termhost

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/go-drift/gadget/pkg/binder"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
	gadgeterrors "github.com/go-drift/gadget/pkg/errors"
	"github.com/go-drift/gadget/pkg/mainloop"
	"github.com/go-drift/gadget/pkg/view"
)

// FrameInterval is how often timers are serviced.
const FrameInterval = 16 * time.Millisecond

// DoubleClickInterval bounds two presses that form a double press.
const DoubleClickInterval = 400 * time.Millisecond

type tickMsg time.Time

// Option configures a Model.
type Option func(*Model)

// WithRenderer sets the lipgloss renderer used for colours.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(m *Model) { m.renderer = r }
}

// WithFrameInterval overrides FrameInterval.
func WithFrameInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.interval = d
		}
	}
}

// Model hosts one view. It must only be used from the bubbletea goroutine.
type Model struct {
	view     *view.View
	binder   *binder.Binder
	loop     *mainloop.Loop
	renderer *lipgloss.Renderer
	interval time.Duration

	cols, rows int
	caption    string
	tooltip    string
	alert      string
	cursor     element.CursorType

	buttons   event.Button
	lastPress time.Time
	lastBtn   event.Button
	lastX     int
	lastY     int

	dirty  bool
	frame  string
	closed bool
}

// New makes m the host of v. Timers run on loop.
func New(v *view.View, loop *mainloop.Loop, opts ...Option) *Model {
	m := &Model{
		view:     v,
		loop:     loop,
		renderer: lipgloss.DefaultRenderer(),
		interval: FrameInterval,
		caption:  v.Caption(),
		dirty:    true,
		lastX:    -1,
		lastY:    -1,
	}
	for _, o := range opts {
		o(m)
	}
	v.SetHost(m)
	m.binder = binder.New(v, m)
	return m
}

// Run starts a full-screen program for m and blocks until the view closes
// or the user presses ctrl+c.
func Run(m *Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	m.binder.Close()
	return err
}

func (m *Model) View() string {
	if m.dirty || m.frame == "" {
		m.frame = m.render()
		m.dirty = false
	}
	return m.frame
}

// Binder returns the input binder.
func (m *Model) Binder() *binder.Binder { return m.binder }

// Closed reports whether the view asked to close.
func (m *Model) Closed() bool { return m.closed }

// Cursor returns the last requested pointer shape.
func (m *Model) Cursor() element.CursorType { return m.cursor }

// Status returns the text of the status line before truncation.
func (m *Model) Status() string {
	var parts []string
	if m.caption != "" {
		parts = append(parts, m.caption)
	}
	switch {
	case m.alert != "":
		parts = append(parts, m.alert)
	case m.tooltip != "":
		parts = append(parts, m.tooltip)
	}
	return strings.Join(parts, " | ")
}

func (m *Model) Init() tea.Cmd { return m.tick() }

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tickMsg:
		m.runDue()
		cmd = m.tick()
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.key(msg)
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.FocusMsg:
		m.binder.FocusChange(true)
	case tea.BlurMsg:
		m.binder.FocusChange(false)
	}
	if m.closed {
		return m, tea.Quit
	}
	return m, cmd
}

func (m *Model) runDue() {
	defer gadgeterrors.Recover("termhost.tick")
	m.loop.RunDue()
}

// resize maps the terminal size to device pixels, reserving the status
// line.
func (m *Model) resize(cols, rows int) {
	m.cols, m.rows = cols, rows
	m.dirty = true
	if cols <= 0 || rows <= 1 {
		return
	}
	m.binder.SizeAllocate(cols, (rows-1)*2)
}

// Host

func (m *Model) QueueDraw()   { m.dirty = true }
func (m *Model) QueueResize() { m.dirty = true }

func (m *Model) SetCursor(c element.CursorType) { m.cursor = c }

func (m *Model) SetTooltip(tip string) {
	if tip != m.tooltip {
		m.tooltip = tip
		m.dirty = true
	}
}

// BeginMoveDrag and BeginResizeDrag are ignored: the terminal owns the
// window.
func (m *Model) BeginMoveDrag(event.Button)                    {}
func (m *Model) BeginResizeDrag(event.Button, element.HitTest) {}

func (m *Model) ShowContextMenu(event.Button) bool { return false }

func (m *Model) CloseView() { m.closed = true }

func (m *Model) SetCaption(caption string) {
	m.caption = caption
	m.dirty = true
}

// Alert shows msg on the status line until the next key or button press.
func (m *Model) Alert(msg string) {
	m.alert = msg
	m.dirty = true
}

// Confirm cannot block the program loop, so the question is shown and
// declined.
func (m *Model) Confirm(msg string) bool {
	m.Alert(msg)
	return false
}

// Prompt shows msg and reports a cancelled prompt.
func (m *Model) Prompt(msg, def string) (string, bool) {
	m.Alert(msg)
	return "", false
}

func (m *Model) ViewCoordToNativeWidgetCoord(x, y float64) (float64, float64) {
	z := m.binder.Zoom()
	return x * z, y * z / 2
}

func (m *Model) NativeWidgetCoordToViewCoord(x, y float64) (float64, float64) {
	z := m.binder.Zoom()
	return x / z, y * 2 / z
}

func (m *Model) clearAlert() {
	if m.alert != "" {
		m.alert = ""
		m.dirty = true
	}
}

func (m *Model) statusLine() string {
	if m.cols <= 0 {
		return ""
	}
	s := runewidth.Truncate(m.Status(), m.cols, "…")
	s = runewidth.FillRight(s, m.cols)
	return m.renderer.NewStyle().Reverse(true).Render(s)
}
