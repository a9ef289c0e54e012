package cmd

import (
	"flag"
	"fmt"
	"sync"

	gadgeterrors "github.com/go-drift/gadget/pkg/errors"
)

func init() {
	RegisterCommand(&Command{
		Name:  "validate",
		Short: "Check a gadget directory",
		Long: `Check a gadget directory.

Parses gadget.yaml, validates its identity and runtime requirement, then
builds every view without showing it. Unknown element tags and rejected
properties are listed; any problem makes the command fail.`,
		Usage: "gadget validate <dir>",
		Run:   runValidate,
	})
}

// collector records reports instead of logging them.
type collector struct {
	mu     sync.Mutex
	errors []*gadgeterrors.GadgetError
	panics []*gadgeterrors.PanicError
}

func (c *collector) HandleError(err *gadgeterrors.GadgetError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, err)
}

func (c *collector) HandlePanic(err *gadgeterrors.PanicError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panics = append(c.panics, err)
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors) + len(c.panics)
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	dir, err := parseDirArgs(fs, args)
	if err != nil {
		return err
	}

	c := &collector{}
	gadgeterrors.SetHandler(c)
	defer gadgeterrors.SetHandler(nil)

	s, err := load(dir, nil, false)
	if err != nil {
		return err
	}
	defer s.close()
	if s.gadget.Manifest().Details != nil {
		if _, err := s.gadget.ShowDetails(); err != nil {
			return err
		}
	}

	info := s.gadget.Manifest().Gadget
	for _, e := range c.errors {
		fmt.Fprintf(stdout, "  %v\n", e)
	}
	for _, p := range c.panics {
		fmt.Fprintf(stdout, "  %v\n", p)
	}
	if n := c.count(); n > 0 {
		return fmt.Errorf("%s: %d problem(s)", info.ID, n)
	}
	fmt.Fprintf(stdout, "ok: %s %s (%s)\n", info.ID, info.Version, info.Name)
	return nil
}
