package widgets_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/graphics"
	"github.com/go-drift/gadget/pkg/scriptable"
	"github.com/go-drift/gadget/pkg/variant"
	"github.com/go-drift/gadget/pkg/view"
	"github.com/go-drift/gadget/pkg/widgets"
)

func newView(t *testing.T) *view.View {
	t.Helper()
	f := element.NewFactory()
	if !widgets.Register(f) {
		t.Fatal("Register = false")
	}
	return view.New(nil, f, nil, view.WithSize(200, 100))
}

func add[T element.Element](t *testing.T, v *view.View, tag string) T {
	t.Helper()
	e, ok := v.Children().AppendElement(tag, tag).(T)
	if !ok {
		t.Fatalf("AppendElement(%q) = %T", tag, e)
	}
	return e
}

func TestRegister(t *testing.T) {
	f := element.NewFactory()
	if !widgets.Register(f) {
		t.Fatal("Register = false")
	}
	want := []string{"button", "div", "edit", "img", "label"}
	if diff := cmp.Diff(want, f.Tags()); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if widgets.Register(f) {
		t.Error("second Register = true")
	}
	if err := widgets.Extension().Init(f); err == nil {
		t.Error("Extension.Init on a populated factory succeeded")
	}
	if err := widgets.Extension().Init(element.NewFactory()); err != nil {
		t.Errorf("Extension.Init = %v", err)
	}
}

func TestDivBackground(t *testing.T) {
	v := newView(t)
	d := add[*widgets.Div](t, v, "div")
	d.SetWidth(40)
	d.SetHeight(20)

	rec := canvas.NewRecorder(200, 100)
	d.DoDraw(rec)
	if len(rec.Ops) != 0 {
		t.Errorf("transparent div drew %v", rec.Names())
	}

	if !scriptable.Set(d, "background", variant.String("#ff0000")) {
		t.Fatal("Set(background) = false")
	}
	d.DoDraw(rec)
	want := []canvas.Op{{Name: "FillRect", Args: []float64{0, 0, 40, 20}, Color: graphics.RGB(255, 0, 0)}}
	if diff := cmp.Diff(want, rec.Ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	if scriptable.Set(d, "background", variant.String("nope")) {
		t.Error("Set(background, nope) = true")
	}
	if d.Background() != graphics.RGB(255, 0, 0) {
		t.Errorf("Background = %v after rejected set", d.Background())
	}
	if d.Children() == nil {
		t.Error("div has no children collection")
	}
}

func TestButtonStates(t *testing.T) {
	v := newView(t)
	b := add[*widgets.Button](t, v, "button")
	b.SetWidth(60)
	b.SetHeight(20)
	clicks := 0
	b.ConnectEvent(event.MouseClick, func() { clicks++ })

	steps := []struct {
		name string
		ev   event.MouseEvent
		want graphics.Color
	}{
		{"over", event.MouseEvent{Kind: event.MouseMove, X: 10, Y: 10}, widgets.DefaultButtonOverColor},
		{"down", event.MouseEvent{Kind: event.MouseDown, X: 10, Y: 10, Button: event.ButtonLeft}, widgets.DefaultButtonDownColor},
		{"up", event.MouseEvent{Kind: event.MouseUp, X: 10, Y: 10, Button: event.ButtonLeft}, widgets.DefaultButtonOverColor},
		{"click", event.MouseEvent{Kind: event.MouseClick, X: 10, Y: 10, Button: event.ButtonLeft}, widgets.DefaultButtonOverColor},
		{"out", event.MouseEvent{Kind: event.MouseMove, X: 150, Y: 80}, widgets.DefaultButtonColor},
	}
	for _, s := range steps {
		v.OnMouseEvent(s.ev)
		if got := b.FaceColor(); got != s.want {
			t.Errorf("%s: FaceColor = %v, want %v", s.name, got, s.want)
		}
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}

	b.SetEnabled(false)
	if b.FaceColor() != widgets.DefaultDisabledColor {
		t.Errorf("disabled FaceColor = %v", b.FaceColor())
	}
}

func TestButtonCaption(t *testing.T) {
	v := newView(t)
	b := add[*widgets.Button](t, v, "button")
	scriptable.Set(b, "caption", variant.String("OK"))
	if w, h := b.DefaultSize(); w != 30 || h != 21 {
		t.Errorf("DefaultSize = %v, %v, want 30, 21", w, h)
	}
	if !scriptable.Set(b, "overColor", variant.String("red")) {
		t.Fatal("Set(overColor) = false")
	}
	got, _ := scriptable.Get(b, "overColor")
	if s, _ := got.ToString(); s != graphics.RGB(255, 0, 0).String() {
		t.Errorf("overColor = %q", s)
	}

	rec := canvas.NewRecorder(200, 100)
	b.DoDraw(rec)
	if diff := cmp.Diff([]string{"FillRect", "Text"}, rec.Names()); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	if text := rec.Ops[1].Text; text != "OK" {
		t.Errorf("caption drawn as %q", text)
	}
}

func TestLabel(t *testing.T) {
	v := newView(t)
	l := add[*widgets.Label](t, v, "label")
	scriptable.Set(l, "text", variant.String("ab\ncd"))
	if w, h := l.DefaultSize(); w != 14 || h != 26 {
		t.Errorf("DefaultSize = %v, %v, want 14, 26", w, h)
	}

	l.SetWidth(20)
	if !scriptable.Set(l, "align", variant.String("right")) {
		t.Fatal("Set(align) = false")
	}
	rec := canvas.NewRecorder(200, 100)
	l.DoDraw(rec)
	want := []canvas.Op{
		{Name: "Text", Args: []float64{6, 0}, Text: "ab", Color: widgets.DefaultTextColor},
		{Name: "Text", Args: []float64{6, 13}, Text: "cd", Color: widgets.DefaultTextColor},
	}
	if diff := cmp.Diff(want, rec.Ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	if scriptable.Set(l, "align", variant.String("justify")) {
		t.Error("Set(align, justify) = true")
	}
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "pic.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImgFile(t *testing.T) {
	v := newView(t)
	m := add[*widgets.Img](t, v, "img")
	if err := m.SetSrc(writePNG(t, 3, 2)); err != nil {
		t.Fatalf("SetSrc = %v", err)
	}
	if w, h := m.DefaultSize(); w != 3 || h != 2 {
		t.Errorf("DefaultSize = %v, %v, want 3, 2", w, h)
	}
	sw, _ := scriptable.Get(m, "srcWidth")
	if f, _ := sw.ToDouble(); f != 3 {
		t.Errorf("srcWidth = %v", sw)
	}

	m.SetWidth(6)
	m.SetHeight(4)
	rec := canvas.NewRecorder(200, 100)
	m.DoDraw(rec)
	want := []canvas.Op{
		{Name: "PushState"},
		{Name: "Scale", Args: []float64{2, 2}},
		{Name: "DrawCanvas", Args: []float64{0, 0, 3, 2}},
		{Name: "PopState"},
	}
	if diff := cmp.Diff(want, rec.Ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestImgColorAndErrors(t *testing.T) {
	v := newView(t)
	m := add[*widgets.Img](t, v, "img")
	m.SetWidth(5)
	m.SetHeight(5)
	if err := m.SetSrc("#00ff00"); err != nil {
		t.Fatalf("SetSrc(colour) = %v", err)
	}
	rec := canvas.NewRecorder(200, 100)
	m.DoDraw(rec)
	if diff := cmp.Diff([]string{"FillRect"}, rec.Names()); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}

	if err := m.SetSrc(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("SetSrc(missing) succeeded")
	}
	if w, h := m.SrcSize(); w != 0 || h != 0 {
		t.Errorf("SrcSize after failure = %v, %v", w, h)
	}
}
