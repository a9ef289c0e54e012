package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/go-drift/gadget/pkg/inspect"
	"github.com/go-drift/gadget/pkg/view"
)

func init() {
	RegisterCommand(&Command{
		Name:  "tree",
		Short: "Print a gadget's element tree",
		Long: `Print the element tree of a gadget's main view.

Each line shows tag#name, position and size in view pixels. Hidden and
disabled elements are marked.

Flags:
  -details   Print the details view instead
  -json      Print the tree as JSON, in the inspector's format`,
		Usage: "gadget tree <dir> [-details] [-json]",
		Run:   runTree,
	})
}

func runTree(args []string) error {
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	details := fs.Bool("details", false, "print the details view")
	asJSON := fs.Bool("json", false, "print JSON")
	dir, err := parseDirArgs(fs, args)
	if err != nil {
		return err
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
	nodes := inspect.Tree(v.Children())

	if *asJSON {
		data, err := json.MarshalIndent(nodes, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode tree: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}
	printTree(v, nodes)
	return nil
}

func printTree(v *view.View, nodes []inspect.Node) {
	fmt.Fprintf(stdout, "view %gx%g resizable=%s", v.Width(), v.Height(), v.Resizable())
	if c := v.Caption(); c != "" {
		fmt.Fprintf(stdout, " caption=%q", c)
	}
	fmt.Fprintln(stdout)
	for _, n := range nodes {
		printNode(n, 1)
	}
}

func printNode(n inspect.Node, depth int) {
	label := n.Tag
	if n.Name != "" {
		label += "#" + n.Name
	}
	var marks []string
	if !n.Visible {
		marks = append(marks, "hidden")
	}
	if !n.Enabled {
		marks = append(marks, "disabled")
	}
	line := fmt.Sprintf("%s%s %g,%g %gx%g", strings.Repeat("  ", depth), label, n.X, n.Y, n.Width, n.Height)
	if len(marks) > 0 {
		line += " [" + strings.Join(marks, ",") + "]"
	}
	fmt.Fprintln(stdout, line)
	for _, c := range n.Children {
		printNode(c, depth+1)
	}
}
