package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	gadgeterrors "github.com/go-drift/gadget/pkg/errors"
	"github.com/go-drift/gadget/pkg/termhost"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Run a gadget in the terminal",
		Long: `Run a gadget's main view full screen in the terminal.

Each character cell shows two pixels, so a 120x60 view needs 120 columns
and 30 rows plus a status line. Zooming views scale to the terminal. The
mouse and keyboard drive the view; Ctrl+C quits.

Options changed by the gadget are saved to the options database.

Flags:
  -log FILE   Append runtime errors to FILE (default: discarded)
  -details    Run the details view instead`,
		Usage: "gadget run <dir> [-log FILE] [-details]",
		Run:   runRun,
	})
}

func runRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	logPath := fs.String("log", "", "error log file")
	details := fs.Bool("details", false, "run the details view")
	dir, err := parseDirArgs(fs, args)
	if err != nil {
		return err
	}

	// The terminal belongs to the view; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	gadgeterrors.SetHandler(&gadgeterrors.LogHandler{Out: logOut})
	defer gadgeterrors.SetHandler(nil)

	s, err := load(dir, nil, true)
	if err != nil {
		return err
	}
	defer s.close()

	v := s.gadget.MainView()
	if *details {
		if v, err = s.gadget.ShowDetails(); err != nil {
			return err
		}
	}
	return termhost.Run(termhost.New(v, s.loop))
}
