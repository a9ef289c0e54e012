// Package templates provides embedded template files for gadget creation.
package templates

import (
	"embed"
	"io/fs"
	"strconv"
	"strings"
	"text/template"
)

//go:embed init/*
var FS embed.FS

// TemplateData contains the data for template substitution.
type TemplateData struct {
	ID         string // e.g., "com.example.clock"
	Name       string // e.g., "Clock"
	MinRuntime string // e.g., "0.3.0"
}

var funcs = template.FuncMap{
	// quote renders s as a YAML double-quoted scalar.
	"quote": func(s string) string { return strconv.Quote(s) },
}

// ProcessTemplate processes a template string with the given data.
func ProcessTemplate(name, content string, data *TemplateData) (string, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// ListFiles returns all files in the embedded filesystem under the given path.
func ListFiles(path string) ([]string, error) {
	var files []string

	err := fs.WalkDir(FS, path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})

	return files, err
}

// ReadFile reads a file from the embedded filesystem.
func ReadFile(path string) ([]byte, error) {
	return FS.ReadFile(path)
}
