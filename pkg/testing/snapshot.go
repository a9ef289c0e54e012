package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/gadget/pkg/element"
)

// UpdateSnapshotsEnv names the environment variable that makes
// MatchesFile rewrite golden files instead of comparing.
const UpdateSnapshotsEnv = "GADGET_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the element tree and the canvas calls that draw it.
type Snapshot struct {
	Size     [2]float64  `json:"size"`
	Elements []*Node     `json:"elements,omitempty"`
	Ops      []DisplayOp `json:"ops,omitempty"`
}

// Node is one element in a snapshot.
type Node struct {
	ID       string     `json:"id"`
	Name     string     `json:"name,omitempty"`
	Text     string     `json:"text,omitempty"`
	Offset   [2]float64 `json:"offset"`
	Size     [2]float64 `json:"size"`
	Hidden   bool       `json:"hidden,omitempty"`
	Disabled bool       `json:"disabled,omitempty"`
	Children []*Node    `json:"children,omitempty"`
}

// CaptureSnapshot lays out and draws the view and captures the result.
func (t *ViewTester) CaptureSnapshot() *Snapshot {
	rec := t.Render()
	snap := &Snapshot{Size: [2]float64{round2(t.view.Width()), round2(t.view.Height())}}
	counter := &tagCounter{}
	t.view.Children().Each(func(e element.Element) bool {
		snap.Elements = append(snap.Elements, captureNode(e, counter))
		return true
	})
	snap.Ops = serializeOps(rec.Ops)
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch
// it reports a diff and instructions for updating. When
// GADGET_UPDATE_SNAPSHOTS=1 is set, the file is rewritten instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to path, creating directories as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between other (expected) and s (actual), or
// "" if they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

// tagCounter assigns stable ids like "button#0", "button#1".
type tagCounter struct {
	counts map[string]int
}

func (c *tagCounter) next(tag string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[tag]
	c.counts[tag] = n + 1
	return fmt.Sprintf("%s#%d", tag, n)
}

func captureNode(e element.Element, counter *tagCounter) *Node {
	b := e.Base()
	n := &Node{
		ID:       counter.next(e.Tag()),
		Name:     b.Name(),
		Offset:   [2]float64{round2(b.X()), round2(b.Y())},
		Size:     [2]float64{round2(b.Width()), round2(b.Height())},
		Hidden:   !b.Visible(),
		Disabled: !b.Enabled(),
	}
	n.Text, _ = TextOf(e)
	if children := b.Children(); children != nil {
		children.Each(func(c element.Element) bool {
			n.Children = append(n.Children, captureNode(c, counter))
			return true
		})
	}
	return n
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")
	for i := 0; i < max(len(expectedLines), len(actualLines)); i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e == a {
			continue
		}
		if i < len(expectedLines) {
			fmt.Fprintf(&buf, "-%s\n", e)
		}
		if i < len(actualLines) {
			fmt.Fprintf(&buf, "+%s\n", a)
		}
	}
	return buf.String()
}
