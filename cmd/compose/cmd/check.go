package cmd

import (
	"fmt"

	"github.com/go-drift/compose/cmd/compose/internal/project"
	"github.com/go-drift/compose/pkg/compose"
	"github.com/go-drift/compose/pkg/config"
	"github.com/go-drift/compose/pkg/layout"
)

func init() {
	RegisterCommand(&Command{
		Name:  "check",
		Short: "Validate compose.yaml and compile its binds",
		Long: `Load compose.yaml from the project root, apply COMPOSE_* overrides,
validate the settings and compile every entry of its binds list.

A bind entry names the expression and, optionally, the widget type it
targets and an explicit property:

  binds:
    - expr: "{upper(name)} ({age})"
      target: Label
    - expr: address?.city
      target: LineEdit

The command fails when any entry does not compile.`,
		Usage: "compose check",
		Run:   runCheck,
	})
}

func runCheck(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("check takes no arguments (use --dir to pick the project)")
	}
	p, err := project.Load(workDir)
	if err != nil {
		return err
	}
	log.WithField("root", p.Root).Debug("project found")
	if !p.HasConfig {
		fmt.Fprintf(stdout, "%s: no %s, using defaults\n", p.ModulePath, config.FileName)
	}
	s, err := config.Load(p.Root)
	if err != nil {
		return err
	}
	if _, err := layout.ParseMode(s.Layout); err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	reg := compose.DefaultRegistry()
	failed := 0
	for _, b := range s.Binds {
		rep, err := describe(reg, b.Expr, b.Target, b.Prop)
		if err != nil {
			failed++
			fmt.Fprintf(stdout, "FAIL %q: %v\n", b.Expr, err)
			continue
		}
		target := rep.Kind
		if rep.Target != "" {
			target = fmt.Sprintf("%s -> %s.%s", rep.Kind, rep.Target, rep.Property)
		}
		fmt.Fprintf(stdout, "ok   %q (%s)\n", b.Expr, target)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d binds failed", failed, len(s.Binds))
	}
	fmt.Fprintf(stdout, "%d binds ok\n", len(s.Binds))
	return nil
}
