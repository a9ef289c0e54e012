// Package widgets provides the element kinds gadgets are built from.
//
// Each kind embeds [element.BasicElement] and overrides the drawing and
// default event hooks it needs:
//
//   - div: a container with an optional background colour
//   - button: a captioned button with normal, over, down and disabled colours
//   - img: a picture loaded from a file or filled with a colour
//   - label: one or more lines of static text
//   - edit: a text field backed by [textedit.Model]
//
// # Registration
//
// Kinds are created through an [element.Factory]. Register adds all of them
// to a factory:
//
//	f := element.NewFactory()
//	widgets.Register(f)
//	v := view.New(host, f, loop)
//	v.Children().AppendElement("button", "ok")
//
// Extension returns the same registration packaged for the extension table,
// so a runtime that initialises extensions picks the kinds up by name.
//
// # Script Surface
//
// Every kind inherits the element properties (x, y, width, height,
// visible, enabled, ...) and adds its own, such as a button's caption or an
// edit's value. Values are set with [scriptable.Set] and read with
// [scriptable.Get]:
//
//	scriptable.Set(btn, "caption", variant.String("OK"))
//
// Click handlers connect to the element's onclick signal; an edit also
// fires onchange whenever its text changes.
package widgets
