package cmd

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/compose/cmd/compose/internal/project"
	"github.com/go-drift/compose/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "init",
		Short: "Write a default compose.yaml",
		Long: `Write compose.yaml with the default settings at the module root.

An existing file is left alone unless --force is given.`,
		Usage: "compose init [--force]",
		Run:   runInit,
	})
}

func runInit(args []string) error {
	force := false
	for _, arg := range args {
		if arg != "--force" {
			return fmt.Errorf("unknown argument %q\n\nUsage: compose init [--force]", arg)
		}
		force = true
	}
	p, err := project.Load(workDir)
	if err != nil {
		return err
	}
	if p.HasConfig && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", p.ConfigPath())
	}
	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return err
	}
	if err := os.WriteFile(p.ConfigPath(), data, 0o644); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("cannot write %s: permission denied", p.ConfigPath())
		}
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", p.ConfigPath())
	return nil
}
