package textedit

import "sync"

// Clipboard is the text clipboard used by Copy, Cut and Paste.
type Clipboard interface {
	SetText(s string)
	Text() (string, bool)
}

// MemoryClipboard is an in-process clipboard. The zero value is empty and
// ready to use.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
	set  bool
}

func (c *MemoryClipboard) SetText(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text, c.set = s, true
}

func (c *MemoryClipboard) Text() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, c.set
}
