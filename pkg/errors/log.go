package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiDim    = "\x1b[2m"
	ansiReset  = "\x1b[0m"
)

// LogHandler is an ErrorHandler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Out overrides the destination. Nil means os.Stderr.
	Out io.Writer
}

func (h *LogHandler) out() io.Writer {
	if h.Out != nil {
		return h.Out
	}
	return os.Stderr
}

// colored reports whether output goes to a terminal.
func (h *LogHandler) colored() bool {
	if h.Out != nil {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (h *LogHandler) prefix(tag, color string) string {
	if h.colored() {
		return color + "[" + tag + "]" + ansiReset
	}
	return "[" + tag + "]"
}

// HandleError logs a GadgetError.
func (h *LogHandler) HandleError(err *GadgetError) {
	if err == nil {
		return
	}
	w := h.out()
	p := h.prefix("gadget error", ansiRed)
	if h.Verbose {
		fmt.Fprintf(w, "%s %s [%s]", p, err.Op, err.Kind)
		if err.Element != "" {
			fmt.Fprintf(w, " element=%s", err.Element)
		}
		fmt.Fprintf(w, ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(w, "%s %s: %v\n", p, err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	w := h.out()
	p := h.prefix("gadget panic", ansiRed)
	if err.Op != "" {
		fmt.Fprintf(w, "%s %s: %v\n", p, err.Op, err.Value)
	} else {
		fmt.Fprintf(w, "%s %v\n", p, err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
	}
}

// Logf writes an informational line through the current handler's sink.
// Handlers that are not a *LogHandler fall back to stderr.
func Logf(format string, args ...any) {
	var w io.Writer = os.Stderr
	p := "[gadget]"
	if lh, ok := Handler().(*LogHandler); ok {
		w = lh.out()
		p = lh.prefix("gadget", ansiDim)
	}
	fmt.Fprintf(w, "%s %s\n", p, fmt.Sprintf(format, args...))
}

// Warnf is Logf with a warning prefix.
func Warnf(format string, args ...any) {
	var w io.Writer = os.Stderr
	p := "[gadget warning]"
	if lh, ok := Handler().(*LogHandler); ok {
		w = lh.out()
		p = lh.prefix("gadget warning", ansiYellow)
	}
	fmt.Fprintf(w, "%s %s\n", p, fmt.Sprintf(format, args...))
}
