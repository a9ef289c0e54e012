package cmd

import (
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-drift/gadget/cmd/gadget/internal/templates"
	"github.com/go-drift/gadget/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "init",
		Short: "Create a new gadget",
		Long: `Create a new gadget in a new directory.

This command creates the directory and a gadget.yaml with a starter main
view, a details view and one option. The gadget name is derived from the
directory basename; the id defaults to com.example.<name>.

Flags:
  -id ID       Gadget id (default: com.example.<name>)
  -name NAME   Display name (default: the directory basename)

Examples:
  gadget init clock
  gadget init ./gadgets/clock -id org.example.clock`,
		Usage: "gadget init <directory> [-id ID] [-name NAME]",
		Run:   runInit,
	})
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	id := fs.String("id", "", "gadget id")
	name := fs.String("name", "", "display name")
	raw, err := parseDirArgs(fs, args)
	if err != nil {
		return fmt.Errorf("%w\n\nUsage: gadget init <directory> [-id ID]", err)
	}
	if strings.HasPrefix(raw, "~") {
		return fmt.Errorf("tilde (~) is not expanded by gadget; use an absolute path or $HOME instead")
	}

	dir := filepath.Clean(raw)

	// Validate directory path before deriving anything from it
	if err := validateDirectory(dir); err != nil {
		return err
	}

	base := filepath.Base(dir)
	if err := validateGadgetName(base); err != nil {
		return fmt.Errorf("invalid gadget name %q (derived from directory basename): %w", base, err)
	}
	if *name == "" {
		*name = base
	}
	if *id == "" {
		*id = config.DefaultID(base)
	}
	if err := config.ValidateID(*id); err != nil {
		return err
	}

	data := &templates.TemplateData{ID: *id, Name: *name, MinRuntime: config.RuntimeVersion}
	if err := scaffoldGadget(dir, data); err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Gadget created successfully!\n\n")
	fmt.Fprintf(stdout, "Next steps:\n")
	fmt.Fprintf(stdout, "  gadget validate %s\n", dir)
	fmt.Fprintf(stdout, "  gadget run %s\n", dir)
	return nil
}

// scaffoldGadget creates the gadget directory and writes the template
// files. The result is loaded back so a broken template never leaves a
// gadget behind.
func scaffoldGadget(dir string, data *templates.TemplateData) error {
	// Check if directory already exists
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}

	fmt.Fprintf(stdout, "Creating new gadget: %s\n", data.Name)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	initFiles, err := templates.ListFiles("init")
	if err != nil {
		safeRemoveAll(dir)
		return fmt.Errorf("failed to list templates: %w", err)
	}

	// Each init/<name>.tmpl becomes <dir>/<name>.
	for _, templatePath := range initFiles {
		destName := strings.TrimSuffix(path.Base(templatePath), ".tmpl")
		if err := writeInitTemplate(dir, templatePath, destName, data); err != nil {
			safeRemoveAll(dir)
			return err
		}
		fmt.Fprintf(stdout, "  Created %s\n", destName)
	}

	if _, err := config.Load(dir); err != nil {
		safeRemoveAll(dir)
		return fmt.Errorf("generated manifest is invalid: %w", err)
	}
	return nil
}

func writeInitTemplate(dir, templatePath, destName string, data *templates.TemplateData) error {
	content, err := templates.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	out, err := templates.ProcessTemplate(destName, string(content), data)
	if err != nil {
		return fmt.Errorf("failed to process template %s: %w", templatePath, err)
	}

	destPath := filepath.Join(dir, destName)
	if err := os.WriteFile(destPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", destName, err)
	}

	return nil
}

// validateDirectory rejects directory paths that would be dangerous to create or
// clean up. This includes filesystem roots (/, C:\), the current/parent directory,
// and root-level absolute paths (e.g. /etc, C:\Users).
func validateDirectory(dir string) error {
	switch dir {
	case "", "/", ".", "..":
		return fmt.Errorf("directory %q is not a valid gadget location", dir)
	}
	if isVolumeRoot(dir) {
		return fmt.Errorf("directory %q is not a valid gadget location", dir)
	}
	if filepath.IsAbs(dir) && isVolumeRoot(filepath.Dir(dir)) {
		return fmt.Errorf("refusing to create gadget at root-level path %q", dir)
	}
	return nil
}

// isVolumeRoot reports whether dir is a filesystem root. On Unix this is "/",
// on Windows this covers drive roots like "C:\" and the bare root "\".
func isVolumeRoot(dir string) bool {
	return dir == filepath.VolumeName(dir)+string(filepath.Separator)
}

// safeRemoveAll removes a directory only if the path passes validateDirectory.
func safeRemoveAll(dir string) {
	if validateDirectory(dir) != nil {
		return
	}
	os.RemoveAll(dir)
}

var validGadgetName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// validateGadgetName checks that a directory basename is a usable gadget
// name: starts with a letter, contains only letters, digits, underscores,
// and hyphens.
func validateGadgetName(name string) error {
	if name == "" {
		return fmt.Errorf("gadget name cannot be empty")
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("gadget name cannot start with a dot")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("gadget name cannot start with a hyphen")
	}
	if !validGadgetName.MatchString(name) {
		return fmt.Errorf("gadget name must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}
	return nil
}
