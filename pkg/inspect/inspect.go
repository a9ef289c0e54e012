// Package inspect serves a read-only JSON view of running gadget views
// over HTTP: the registered views, their element trees, hit testing at a
// point and PNG renders.
package inspect

import (
	"bytes"
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/go-drift/gadget/pkg/canvas"
	gadgeterrors "github.com/go-drift/gadget/pkg/errors"
)

// Server is an inspector bound to a registry.
type Server struct {
	app      *fiber.App
	registry *Registry
}

// Option configures a Server.
type Option func(*config)

type config struct {
	accessLog bool
	appName   string
}

// WithAccessLog logs every request to stdout.
func WithAccessLog() Option { return func(c *config) { c.accessLog = true } }

// WithAppName sets the server name reported in errors and headers.
func WithAppName(name string) Option { return func(c *config) { c.appName = name } }

// New builds the inspector routes for r.
func New(r *Registry, opts ...Option) *Server {
	cfg := config{appName: "gadget inspector"}
	for _, opt := range opts {
		opt(&cfg)
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.appName,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	if cfg.accessLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}

	s := &Server{app: app, registry: r}
	app.Get("/health", s.health)
	app.Get("/views", s.views)
	app.Get("/views/:id", s.viewInfo)
	app.Get("/views/:id/tree", s.tree)
	app.Get("/views/:id/hittest", s.hitTest)
	app.Get("/views/:id/render.png", s.render)
	return s
}

// App exposes the fiber app, for tests and for mounting under another
// router.
func (s *Server) App() *fiber.App { return s.app }

// Serve listens on addr until ctx is done, then shuts down.
func (s *Server) Serve(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	if err := s.app.ShutdownWithContext(context.Background()); err != nil {
		return err
	}
	return <-errc
}

func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	} else {
		gadgeterrors.ReportKind("inspect."+c.Path(), gadgeterrors.KindHost, err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"views":  len(s.registry.Entries()),
	})
}

func (s *Server) views(c fiber.Ctx) error {
	out := []ViewInfo{}
	s.registry.Do(func() {
		for _, e := range s.registry.Entries() {
			out = append(out, infoOf(e))
		}
	})
	return c.JSON(out)
}

func (s *Server) lookup(c fiber.Ctx) (Entry, error) {
	id := c.Params("id")
	e, ok := s.registry.Lookup(id)
	if !ok {
		return Entry{}, fiber.NewError(fiber.StatusNotFound, "no view "+id)
	}
	return e, nil
}

func (s *Server) viewInfo(c fiber.Ctx) error {
	e, err := s.lookup(c)
	if err != nil {
		return err
	}
	var info ViewInfo
	s.registry.Do(func() { info = infoOf(e) })
	return c.JSON(info)
}

func (s *Server) tree(c fiber.Ctx) error {
	e, err := s.lookup(c)
	if err != nil {
		return err
	}
	var nodes []Node
	s.registry.Do(func() { nodes = Tree(e.View.Children()) })
	if nodes == nil {
		nodes = []Node{}
	}
	return c.JSON(nodes)
}

func (s *Server) hitTest(c fiber.Ctx) error {
	e, err := s.lookup(c)
	if err != nil {
		return err
	}
	x, err := floatQuery(c, "x", 0)
	if err != nil {
		return err
	}
	y, err := floatQuery(c, "y", 0)
	if err != nil {
		return err
	}
	var res HitResult
	s.registry.Do(func() { res = HitTestAt(e.View, x, y) })
	return c.JSON(res)
}

func (s *Server) render(c fiber.Ctx) error {
	e, err := s.lookup(c)
	if err != nil {
		return err
	}
	zoom, err := floatQuery(c, "zoom", 0)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	s.registry.Do(func() {
		if zoom <= 0 {
			zoom = e.View.Graphics().Zoom()
		}
		img := canvas.NewImage(e.View.Width(), e.View.Height(), zoom)
		e.View.Draw(img)
		err = img.EncodePNG(&buf)
	})
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

func floatQuery(c fiber.Ctx, key string, def float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+key+": "+raw)
	}
	return f, nil
}
