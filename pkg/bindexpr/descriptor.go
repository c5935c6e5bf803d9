// Package bindexpr compiles bind strings into Binding Descriptors.
//
// Two forms are supported:
//
//	name                     simple path
//	address.city             nested path
//	user?.address?.city      optional segments short-circuit when absent
//	Count: {count}           format expression
//	{price * qty:,.2f} EUR   format expression with a format spec
//
// Format groups are expressions in HCL native syntax, compiled once with
// hclsyntax. Arithmetic, comparison, logic, the conditional operator,
// member access, indexing, optional chaining and an allow-listed set of
// functions are available; nothing else is. The root identifiers referenced
// by every group form the descriptor's dependency set.
package bindexpr

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/toolkit"
)

// Kind classifies a compiled bind expression.
type Kind int

const (
	// SimplePath is a single identifier.
	SimplePath Kind = iota
	// NestedPath is a dotted path of identifiers.
	NestedPath
	// FormatExpression is a template with {expr} groups.
	FormatExpression
)

func (k Kind) String() string {
	switch k {
	case SimplePath:
		return "simple"
	case NestedPath:
		return "nested"
	case FormatExpression:
		return "format"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Segment is one element of a path. Optional segments resolve to a neutral
// value instead of failing when absent.
type Segment struct {
	Name     string
	Optional bool
}

// Descriptor is the compiled form of a bind string. It is immutable and
// shared by every instance of the class that declared it.
type Descriptor struct {
	// Raw is the bind string as written.
	Raw string
	// Kind classifies the expression.
	Kind Kind
	// Segments holds the path for SimplePath and NestedPath.
	Segments []Segment
	// Parts holds the template for FormatExpression.
	Parts []Part
	// FreeVars lists the root identifiers of every group, deduplicated in
	// first-seen order.
	FreeVars []string
	// TargetProperty is the property the binding writes to. It is empty when
	// the target's static type is an interface and must be resolved per
	// instance.
	TargetProperty string
}

// Path returns the segment names.
func (d *Descriptor) Path() []string {
	out := make([]string, len(d.Segments))
	for i, s := range d.Segments {
		out[i] = s.Name
	}
	return out
}

// Root returns the first segment name, or "" for format expressions.
func (d *Descriptor) Root() string {
	if len(d.Segments) == 0 {
		return ""
	}
	return d.Segments[0].Name
}

// IsPath reports whether d is a SimplePath or NestedPath.
func (d *Descriptor) IsPath() bool {
	return d.Kind == SimplePath || d.Kind == NestedPath
}

// Parse compiles raw without resolving a target property.
func Parse(raw string) (*Descriptor, error) {
	if strings.ContainsAny(raw, "{}") {
		parts, deps, err := parseTemplate(raw)
		if err != nil {
			return nil, fmt.Errorf("bind %q: %w", raw, err)
		}
		return &Descriptor{Raw: raw, Kind: FormatExpression, Parts: parts, FreeVars: deps}, nil
	}
	segs, err := ParsePath(raw)
	if err != nil {
		return nil, fmt.Errorf("bind %q: %w", raw, err)
	}
	kind := SimplePath
	if len(segs) > 1 {
		kind = NestedPath
	}
	return &Descriptor{Raw: raw, Kind: kind, Segments: segs, FreeVars: []string{segs[0].Name}}, nil
}

// Compile parses raw and resolves its target property for a field of static
// type target: explicit wins, otherwise the registry default. A concrete
// target type without a registered default is an error wrapping
// errors.ErrNoDefaultProperty.
func Compile(raw string, target reflect.Type, explicit string, reg *toolkit.Registry) (*Descriptor, error) {
	d, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if explicit != "" {
		d.TargetProperty = explicit
		return d, nil
	}
	if spec, ok := reg.Lookup(target); ok && spec.Default != "" {
		d.TargetProperty = spec.Default
		return d, nil
	}
	if target != nil && target.Kind() == reflect.Interface {
		return d, nil
	}
	return nil, fmt.Errorf("bind %q on %v: %w", raw, target, errors.ErrNoDefaultProperty)
}

// ParsePath parses `segment ("." segment)*` where a segment is an
// identifier (or a list index) optionally followed by "?".
func ParsePath(raw string) ([]Segment, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty path")
	}
	var segs []Segment
	for _, part := range strings.Split(raw, ".") {
		part = strings.TrimSpace(part)
		seg := Segment{Name: part}
		if name, ok := strings.CutSuffix(part, "?"); ok {
			seg = Segment{Name: strings.TrimSpace(name), Optional: true}
		}
		if !isIdentifier(seg.Name) && !(len(segs) > 0 && isIndex(seg.Name)) {
			return nil, fmt.Errorf("invalid path segment %q", part)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
