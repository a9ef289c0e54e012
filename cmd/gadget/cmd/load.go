package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-drift/gadget/pkg/config"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/extension"
	"github.com/go-drift/gadget/pkg/gadget"
	"github.com/go-drift/gadget/pkg/mainloop"
	"github.com/go-drift/gadget/pkg/options"
	"github.com/go-drift/gadget/pkg/widgets"
)

var registerOnce sync.Once

// newFactory returns a factory with every registered extension's kinds.
func newFactory() (*element.Factory, error) {
	var err error
	registerOnce.Do(func() { err = extension.Register(widgets.Extension()) })
	if err != nil {
		return nil, err
	}
	f := element.NewFactory()
	if err := extension.Init(f); err != nil {
		return nil, err
	}
	return f, nil
}

// defaultOptionsPath is <user config dir>/gadget/options.db.
func defaultOptionsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "gadget", "options.db"), nil
}

// openStore opens the options database, or returns nil when disabled.
func openStore() (*options.Store, error) {
	path := optionsPath
	if path == "none" {
		return nil, nil
	}
	if path == "" {
		var err error
		if path, err = defaultOptionsPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	return options.Open(path)
}

// session is one loaded gadget and the services it runs on.
type session struct {
	gadget *gadget.Gadget
	loop   *mainloop.Loop
	store  *options.Store
}

// load reads the gadget in dir and opens its main view. With persist
// unset no options database is opened.
func load(dir string, hosts gadget.HostFactory, persist bool) (*session, error) {
	m, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	f, err := newFactory()
	if err != nil {
		return nil, err
	}
	s := &session{loop: mainloop.New()}
	if persist {
		if s.store, err = openStore(); err != nil {
			return nil, err
		}
	}
	s.gadget, err = gadget.New(m, gadget.Deps{Factory: f, Loop: s.loop, Hosts: hosts, Options: s.store})
	if err == nil {
		err = s.gadget.Open()
	}
	if err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) close() {
	if s.gadget != nil {
		s.gadget.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
}

// parseDirArgs parses fs against args, accepting flags before or after
// the gadget directory, and returns the directory.
func parseDirArgs(fs *flag.FlagSet, args []string) (string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return "", errors.New("gadget directory is required")
	}
	dir := rest[0]
	if err := fs.Parse(rest[1:]); err != nil {
		return "", err
	}
	if fs.NArg() > 0 {
		return "", fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return dir, nil
}
