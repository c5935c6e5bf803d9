package field

import (
	"fmt"

	"github.com/go-drift/compose/pkg/errors"
)

// Reserved keyword names consumed by the engine and never forwarded to a
// component.
const (
	KeyBind      = "bind"
	KeyBindProp  = "bind_prop"
	KeyFormLabel = "form_label"
	KeyGrid      = "grid"
)

// GridPos is a cell range in a positional layout.
type GridPos struct {
	Row, Col         int
	RowSpan, ColSpan int
}

// Metadata is the engine-consumed part of a field registration.
type Metadata struct {
	FormLabel    string
	HasFormLabel bool
	Grid         *GridPos
	Bind         string
	BindProp     string
}

// Arg is a non-reserved keyword argument. Its Value is a property value, a
// handler func, or a string naming a method on the owner.
type Arg struct {
	Name  string
	Value any
}

// Option configures a Descriptor at registration.
type Option func(*Descriptor)

// Bind sets the bind expression.
func Bind(expr string) Option {
	return func(d *Descriptor) { d.Meta.Bind = expr }
}

// BindProp overrides the target property of the binding.
func BindProp(prop string) Option {
	return func(d *Descriptor) { d.Meta.BindProp = prop }
}

// FormLabel places the field in a labeled form row.
func FormLabel(label string) Option {
	return func(d *Descriptor) {
		d.Meta.FormLabel = label
		d.Meta.HasFormLabel = true
	}
}

// Grid places the field at (row, col) with optional spans:
// Grid(row, col) or Grid(row, col, rowSpan, colSpan).
func Grid(pos ...int) Option {
	return func(d *Descriptor) {
		g, err := ParseGrid(pos)
		if err != nil {
			d.Err = err
			return
		}
		d.Meta.Grid = g
	}
}

// ParseGrid validates a 2- or 4-integer grid tuple.
func ParseGrid(pos []int) (*GridPos, error) {
	switch len(pos) {
	case 2:
		pos = append(pos[:2:2], 1, 1)
	case 4:
	default:
		return nil, fmt.Errorf("%w, got %d", errors.ErrMalformedGrid, len(pos))
	}
	g := &GridPos{Row: pos[0], Col: pos[1], RowSpan: pos[2], ColSpan: pos[3]}
	if g.Row < 0 || g.Col < 0 || g.RowSpan < 1 || g.ColSpan < 1 {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedGrid, pos)
	}
	return g, nil
}

// Kw adds a keyword argument. Reserved names are folded into metadata
// instead of being forwarded.
func Kw(name string, value any) Option {
	return func(d *Descriptor) {
		switch name {
		case KeyBind, KeyBindProp, KeyFormLabel:
			s, ok := value.(string)
			if !ok {
				d.Err = fmt.Errorf("keyword %q expects a string, got %T", name, value)
				return
			}
			switch name {
			case KeyBind:
				d.Meta.Bind = s
			case KeyBindProp:
				d.Meta.BindProp = s
			default:
				FormLabel(s)(d)
			}
		case KeyGrid:
			pos, ok := value.([]int)
			if !ok {
				d.Err = fmt.Errorf("%w: got %T", errors.ErrMalformedGrid, value)
				return
			}
			Grid(pos...)(d)
		default:
			d.Args = append(d.Args, Arg{Name: name, Value: value})
		}
	}
}
