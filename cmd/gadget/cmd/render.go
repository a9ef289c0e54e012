package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-drift/gadget/pkg/canvas"
)

func init() {
	RegisterCommand(&Command{
		Name:  "render",
		Short: "Render a gadget view to PNG",
		Long: `Render a gadget's main view to a PNG file.

Flags:
  -o FILE     Output file (default: <gadget id>.png)
  -zoom Z     Device pixels per view pixel (default: 1)
  -details    Render the details view instead`,
		Usage: "gadget render <dir> [-o FILE] [-zoom Z] [-details]",
		Run:   runRender,
	})
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	out := fs.String("o", "", "output file")
	zoom := fs.Float64("zoom", 1, "zoom")
	details := fs.Bool("details", false, "render the details view")
	dir, err := parseDirArgs(fs, args)
	if err != nil {
		return err
	}
	if *zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %g", *zoom)
	}

	s, err := load(dir, nil, false)
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
	v.Graphics().SetZoom(*zoom)
	img := canvas.NewImage(v.Width(), v.Height(), *zoom)
	v.Draw(img)

	path := *out
	if path == "" {
		path = s.gadget.ID() + ".png"
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := img.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	b := img.RGBA().Bounds()
	fmt.Fprintf(stdout, "Wrote %s (%dx%d)\n", path, b.Dx(), b.Dy())
	return nil
}
