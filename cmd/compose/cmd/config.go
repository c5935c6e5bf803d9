package cmd

import (
	"fmt"

	"github.com/go-drift/compose/cmd/compose/internal/project"
	"github.com/go-drift/compose/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "config",
		Short: "Print the effective settings",
		Long: `Print the settings the engine would run with in this project: the
defaults, overlaid by compose.yaml, overlaid by COMPOSE_* variables.`,
		Usage: "compose config",
		Run:   runConfig,
	})
}

func runConfig(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("config takes no arguments (use --dir to pick the project)")
	}
	p, err := project.Load(workDir)
	if err != nil {
		return err
	}
	s, err := config.Load(p.Root)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "# module %s\n", p.ModulePath)
	return writeYAML(s)
}
