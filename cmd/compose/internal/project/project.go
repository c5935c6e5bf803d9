// Package project locates the Go module a compose.yaml belongs to.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"

	"github.com/go-drift/compose/pkg/config"
)

// ErrNoModule is returned when no go.mod is found above the start directory.
var ErrNoModule = errors.New("not in a Go module (no go.mod found)")

// Project describes a module root.
type Project struct {
	Root       string
	ModulePath string
	GoVersion  string
	// HasConfig reports whether Root contains a compose.yaml.
	HasConfig bool
}

// ConfigPath returns the compose.yaml path under Root.
func (p *Project) ConfigPath() string {
	return filepath.Join(p.Root, config.FileName)
}

// FindRoot walks up from dir to the nearest directory holding go.mod.
func FindRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoModule
		}
		dir = parent
	}
}

// Load finds the module root above dir and reads its go.mod.
func Load(dir string) (*Project, error) {
	root, err := FindRoot(dir)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read go.mod: %w", err)
	}
	f, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.mod: %w", err)
	}
	if f.Module == nil || f.Module.Mod.Path == "" {
		return nil, fmt.Errorf("could not determine module path from go.mod")
	}
	if err := module.CheckImportPath(f.Module.Mod.Path); err != nil {
		return nil, fmt.Errorf("invalid module path: %w", err)
	}
	p := &Project{Root: root, ModulePath: f.Module.Mod.Path}
	if f.Go != nil {
		p.GoVersion = f.Go.Version
	}
	if _, err := os.Stat(p.ConfigPath()); err == nil {
		p.HasConfig = true
	}
	return p, nil
}
