package cmd

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	gadgeterrors "github.com/go-drift/gadget/pkg/errors"
	"github.com/go-drift/gadget/pkg/inspect"
)

// tickInterval is how often the serve command runs due timers.
const tickInterval = 16 * time.Millisecond

func init() {
	RegisterCommand(&Command{
		Name:  "serve",
		Short: "Run a gadget headless behind the HTTP inspector",
		Long: `Run a gadget without a window and serve its views over HTTP.

Routes:
  GET /health
  GET /views
  GET /views/:id
  GET /views/:id/tree
  GET /views/:id/hittest?x=&y=
  GET /views/:id/render.png?zoom=

Timers keep running while the server is up. Stop with Ctrl+C.

Flags:
  -addr ADDR    Listen address (default: :8089)
  -access-log   Log every request`,
		Usage: "gadget serve <dir> [-addr ADDR] [-access-log]",
		Run:   runServe,
	})
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", ":8089", "listen address")
	accessLog := fs.Bool("access-log", false, "log requests")
	dir, err := parseDirArgs(fs, args)
	if err != nil {
		return err
	}

	s, err := load(dir, nil, true)
	if err != nil {
		return err
	}
	defer s.close()

	reg := inspect.NewRegistry()
	reg.Add("main", s.gadget.MainView())
	if s.gadget.Manifest().Details != nil {
		details, err := s.gadget.ShowDetails()
		if err != nil {
			return err
		}
		reg.Add("details", details)
	}

	opts := []inspect.Option{inspect.WithAppName(s.gadget.Manifest().Gadget.Name)}
	if *accessLog {
		opts = append(opts, inspect.WithAccessLog())
	}
	srv := inspect.New(reg, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	done := make(chan struct{})
	go func() {
		defer close(done)
		runTimers(ctx, reg, s)
	}()

	gadgeterrors.Logf("inspecting %s on %s", s.gadget.ID(), *addr)
	err = srv.Serve(ctx, *addr)
	stop()
	<-done
	return err
}

// runTimers services the gadget's timers until ctx is done.
func runTimers(ctx context.Context, reg *inspect.Registry, s *session) {
	t := time.NewTicker(tickInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			reg.Do(func() {
				defer gadgeterrors.Recover("serve.tick")
				s.loop.RunDue()
			})
		}
	}
}
