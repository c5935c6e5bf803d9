// Package layout places a class's child fields into a container.
//
// The composer works on [Entry] values in registration order and supports
// four strategies:
//
//   - Sequential ([Vertical], [Horizontal]): children in order, spacers become
//     gaps.
//   - Paired ([Form]): one row per child, labeled when the field declares a
//     form label.
//   - Positional ([Grid]): only children with a grid position are placed.
//   - [None]: nothing is placed.
//
// Fields whose names are bracketed by the exclusion marker are never placed.
package layout

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-drift/compose/pkg/field"
	"github.com/go-drift/compose/pkg/toolkit"
)

// Mode selects a placement strategy.
type Mode int

const (
	// None places nothing.
	None Mode = iota
	// Vertical stacks children top to bottom.
	Vertical
	// Horizontal lines children up left to right.
	Horizontal
	// Form pairs children with labels.
	Form
	// Grid places children at explicit cells.
	Grid
)

var modeNames = map[Mode]string{
	None:       "none",
	Vertical:   "vertical",
	Horizontal: "horizontal",
	Form:       "form",
	Grid:       "grid",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses a mode name as written in configuration.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return None, fmt.Errorf("layout: unknown mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Entry is a field offered to the composer. Component is nil for spacers and
// separators.
type Entry struct {
	Field     *field.Descriptor
	Component toolkit.Component
}

// SlotKind says what a Slot holds.
type SlotKind int

const (
	// ChildSlot holds a component.
	ChildSlot SlotKind = iota
	// SpacerSlot is a gap in a sequential layout.
	SpacerSlot
	// SeparatorSlot is a separator row in a paired layout.
	SeparatorSlot
)

// Slot records one placement.
type Slot struct {
	Kind      SlotKind
	Name      string
	Component toolkit.Component
	// Label is the form label of a labeled row.
	Label string
	// Cell is the grid range of a positional placement.
	Cell *field.GridPos
}

// Result is the outcome of Compose.
type Result struct {
	// Container is nil in None mode.
	Container toolkit.Layout
	Slots     []Slot
}

// Compose creates a container with f and places entries in it. Entries are
// placed in registration order regardless of the order given.
func Compose(mode Mode, f toolkit.Factory, entries []Entry) (Result, error) {
	if mode == None {
		return Result{}, nil
	}
	if f == nil {
		return Result{}, fmt.Errorf("layout: %s mode needs a container factory", mode)
	}
	ordered := slices.Clone(entries)
	slices.SortStableFunc(ordered, func(a, b Entry) int { return a.Field.Order - b.Field.Order })

	switch mode {
	case Vertical, Horizontal:
		dir := toolkit.Vertical
		if mode == Horizontal {
			dir = toolkit.Horizontal
		}
		return sequential(f.NewBox(dir), ordered), nil
	case Form:
		return paired(f.NewForm(), ordered), nil
	case Grid:
		return positional(f.NewGrid(), ordered), nil
	}
	return Result{}, fmt.Errorf("layout: unknown mode %v", mode)
}

func placeable(e Entry) bool {
	return e.Component != nil && e.Field.Placeable()
}

func sequential(box toolkit.BoxLayout, entries []Entry) Result {
	res := Result{Container: box}
	for _, e := range entries {
		switch {
		case e.Field.Kind == field.Spacer:
			s := e.Field.Spacer
			box.AddSpacer(s.Stretch, s.Min, s.Max)
			res.Slots = append(res.Slots, Slot{Kind: SpacerSlot})
		case placeable(e):
			box.AddChild(e.Component)
			res.Slots = append(res.Slots, Slot{Kind: ChildSlot, Name: e.Field.Name, Component: e.Component})
		}
	}
	return res
}

func paired(form toolkit.FormLayout, entries []Entry) Result {
	res := Result{Container: form}
	sep, canSeparate := form.(toolkit.SeparatorLayout)
	for _, e := range entries {
		switch {
		case e.Field.Kind == field.Separator:
			if canSeparate {
				sep.AddSeparator()
				res.Slots = append(res.Slots, Slot{Kind: SeparatorSlot})
			}
		case placeable(e):
			slot := Slot{Kind: ChildSlot, Name: e.Field.Name, Component: e.Component}
			if e.Field.Meta.HasFormLabel {
				form.AddRow(e.Field.Meta.FormLabel, e.Component)
				slot.Label = e.Field.Meta.FormLabel
			} else {
				form.AddUnlabeledRow(e.Component)
			}
			res.Slots = append(res.Slots, slot)
		}
	}
	return res
}

func positional(grid toolkit.GridLayout, entries []Entry) Result {
	res := Result{Container: grid}
	for _, e := range entries {
		g := e.Field.Meta.Grid
		if g == nil || !placeable(e) {
			continue
		}
		grid.AddChildAt(e.Component, g.Row, g.Col, g.RowSpan, g.ColSpan)
		res.Slots = append(res.Slots, Slot{Kind: ChildSlot, Name: e.Field.Name, Component: e.Component, Cell: g})
	}
	return res
}
