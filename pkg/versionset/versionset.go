package versionset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modstack/modprep/pkg/conventions"
	"github.com/modstack/modprep/pkg/registry"
)

// Entry is one KEY=VALUE descriptor line.
type Entry struct {
	Key   string
	Value string
}

// Writer renders and writes version-descriptor files.
type Writer struct {
	dir       string
	repoOwner string
	overrides *conventions.Overrides
}

// NewWriter creates a writer that stores descriptor files under dir.
// repoOwner is the default repository owner for derived URLs.
func NewWriter(dir, repoOwner string, overrides *conventions.Overrides) *Writer {
	if overrides == nil {
		overrides = conventions.DefaultOverrides()
	}
	return &Writer{dir: dir, repoOwner: repoOwner, overrides: overrides}
}

// Entries expands one identity under its descriptor prefix. The suffix
// family and its order are fixed; consumers depend on both.
func (w *Writer) Entries(variable string, id conventions.ModuleIdentity) []Entry {
	prefix := w.overrides.SetNameFor(variable)
	tag := id.Tag
	if tag == "" {
		tag = "master"
	}
	repoName := w.overrides.RepoNameFor(id.Name)
	repoOwner := w.overrides.RepoOwnerFor(w.repoOwner)

	return []Entry{
		{prefix, tag},
		{prefix + "_DIRNAME", id.Name},
		{prefix + "_REPONAME", repoName},
		{prefix + "_REPOOWNER", repoOwner},
		{prefix + "_VARNAME", variable},
		{prefix + "_RECURSIVE", "YES"},
		{prefix + "_DEPTH", "-1"},
		{prefix + "_REPOURL", fmt.Sprintf("https://github.com/%s/%s.git", repoOwner, repoName)},
	}
}

// Render produces the descriptor file contents for the registered
// identities, platform first, then the given build order.
func (w *Writer) Render(reg *registry.Registry, platformVariable string, order []string) (string, error) {
	var lines []string
	for _, variable := range append([]string{platformVariable}, order...) {
		id, ok := reg.Identity(variable)
		if !ok {
			return "", fmt.Errorf("no identity registered for %s", variable)
		}
		for _, e := range w.Entries(variable, id) {
			lines = append(lines, e.Key+"="+e.Value)
		}
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// WriteFile renders the descriptor and writes it as <name>.set under the
// writer's directory, creating the directory if needed. The written path is
// returned.
func (w *Writer) WriteFile(name string, reg *registry.Registry, platformVariable string, order []string) (string, error) {
	content, err := w.Render(reg, platformVariable, order)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create set directory: %w", err)
	}
	path := filepath.Join(w.dir, name+".set")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
