package cmd

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/compose/pkg/bindexpr"
	"github.com/go-drift/compose/pkg/compose"
	"github.com/go-drift/compose/pkg/toolkit"
)

func init() {
	RegisterCommand(&Command{
		Name:  "parse",
		Short: "Show how a bind expression compiles",
		Long: `Parse a bind expression and print its descriptor as YAML.

With --target the expression is compiled for that widget type and the
resolved target property is shown. Each --set name=value adds a scope
value; format expressions are then rendered against that scope. Values
are read as YAML scalars, so 42 is a number and true a boolean.

Examples:
  compose parse name
  compose parse 'address?.city'
  compose parse --target Label '{upper(name)} ({age})'
  compose parse --set total=1234.5 '{total:,.2f} EUR'`,
		Usage: "compose parse [--target TYPE] [--prop PROP] [--set NAME=VALUE]... <expr>",
		Run:   runParse,
	})
}

// exprReport is the YAML shape printed by parse and check.
type exprReport struct {
	Raw      string        `yaml:"raw"`
	Kind     string        `yaml:"kind"`
	Path     []string      `yaml:"path,omitempty"`
	Optional []string      `yaml:"optional,omitempty"`
	Groups   []groupReport `yaml:"groups,omitempty"`
	FreeVars []string      `yaml:"free_vars,omitempty"`
	Target   string        `yaml:"target,omitempty"`
	Property string        `yaml:"property,omitempty"`
	Rendered *string       `yaml:"rendered,omitempty"`
}

type groupReport struct {
	Source string   `yaml:"source"`
	Spec   string   `yaml:"spec,omitempty"`
	Deps   []string `yaml:"deps,omitempty"`
}

type parseArgs struct {
	expr   string
	target string
	prop   string
	scope  bindexpr.MapScope
}

func parseParseArgs(args []string) (parseArgs, error) {
	var pa parseArgs
	var rest []string
	next := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		return args[i+1], nil
	}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--target", "--prop", "--set":
			v, err := next(i, arg)
			if err != nil {
				return pa, err
			}
			i++
			switch arg {
			case "--target":
				pa.target = v
			case "--prop":
				pa.prop = v
			case "--set":
				name, raw, ok := strings.Cut(v, "=")
				if !ok || name == "" {
					return pa, fmt.Errorf("--set expects NAME=VALUE, got %q", v)
				}
				var value any
				if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
					return pa, fmt.Errorf("--set %s: %w", name, err)
				}
				if pa.scope == nil {
					pa.scope = bindexpr.MapScope{}
				}
				pa.scope[name] = value
			}
		default:
			rest = append(rest, arg)
		}
	}
	if len(rest) != 1 {
		return pa, fmt.Errorf("exactly one expression is required\n\nUsage: compose parse [flags] <expr>")
	}
	pa.expr = rest[0]
	return pa, nil
}

func runParse(args []string) error {
	pa, err := parseParseArgs(args)
	if err != nil {
		return err
	}
	rep, err := describe(compose.DefaultRegistry(), pa.expr, pa.target, pa.prop)
	if err != nil {
		return err
	}
	if pa.scope != nil {
		if err := rep.render(pa.expr, pa.scope); err != nil {
			return err
		}
	}
	return writeYAML(rep)
}

// describe compiles expr, against target's type when one is named.
func describe(reg *toolkit.Registry, expr, target, prop string) (*exprReport, error) {
	var (
		d   *bindexpr.Descriptor
		err error
	)
	if target == "" {
		d, err = bindexpr.Parse(expr)
		if err == nil && prop != "" {
			d.TargetProperty = prop
		}
	} else {
		var typ reflect.Type
		typ, err = lookupTarget(reg, target)
		if err != nil {
			return nil, err
		}
		d, err = bindexpr.Compile(expr, typ, prop, reg)
	}
	if err != nil {
		return nil, err
	}
	rep := &exprReport{
		Raw:      d.Raw,
		Kind:     d.Kind.String(),
		FreeVars: d.FreeVars,
		Target:   target,
		Property: d.TargetProperty,
	}
	if d.IsPath() {
		rep.Path = d.Path()
		for _, s := range d.Segments {
			if s.Optional {
				rep.Optional = append(rep.Optional, s.Name)
			}
		}
		rep.FreeVars = nil
	}
	for _, p := range d.Parts {
		if p.Group != nil {
			rep.Groups = append(rep.Groups, groupReport{Source: p.Group.Source, Spec: p.Group.Spec, Deps: p.Group.Deps})
		}
	}
	return rep, nil
}

func (r *exprReport) render(expr string, scope bindexpr.MapScope) error {
	d, err := bindexpr.Parse(expr)
	if err != nil {
		return err
	}
	var out string
	if d.Kind == bindexpr.FormatExpression {
		out, err = d.Render(scope)
		if err != nil {
			return err
		}
	} else {
		v, _ := scope.Lookup(d.Root())
		for _, seg := range d.Segments[1:] {
			m, ok := v.(map[string]any)
			if !ok {
				v = nil
				break
			}
			v = m[seg.Name]
		}
		out = bindexpr.Display(v)
	}
	r.Rendered = &out
	return nil
}

func lookupTarget(reg *toolkit.Registry, name string) (reflect.Type, error) {
	typ, ok := reg.TypeByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown target %q (known: %s)", name, strings.Join(reg.Names(), ", "))
	}
	return typ, nil
}

func writeYAML(v any) error {
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
