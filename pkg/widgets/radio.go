package widgets

import (
	"fmt"
	"slices"
)

// RadioGroup is a set of mutually exclusive options. Unlike ComboBox it may
// have no selection, which reads as "".
//
// Properties: selected, options.
// Events: selected_changed(option string).
type RadioGroup struct {
	Widget
	options  []string
	selected string
}

// NewRadioGroup creates a group over options with nothing selected.
func NewRadioGroup(options ...string) *RadioGroup {
	g := &RadioGroup{options: slices.Clone(options)}
	g.signal("selected_changed")
	return g
}

// Options returns the choices in display order.
func (g *RadioGroup) Options() []string { return g.options }

// Selected returns the chosen option, or "".
func (g *RadioGroup) Selected() string { return g.selected }

// SetSelected selects option. "" clears the selection; unknown options are
// rejected.
func (g *RadioGroup) SetSelected(option string) error {
	if option != "" && !slices.Contains(g.options, option) {
		return fmt.Errorf("widgets: %q is not an option", option)
	}
	if option == g.selected {
		return nil
	}
	g.selected = option
	g.signal("selected_changed").Emit(option)
	return nil
}

// Select simulates the user clicking option.
func (g *RadioGroup) Select(option string) error {
	if g.disabled {
		return nil
	}
	return g.SetSelected(option)
}

// SetProperty implements toolkit.PropertySetter.
func (g *RadioGroup) SetProperty(name string, value any) error {
	switch name {
	case "selected":
		s, err := asString(value)
		if err != nil {
			return err
		}
		return g.SetSelected(s)
	case "options":
		opts, ok := value.([]string)
		if !ok {
			return fmt.Errorf("widgets: options expects []string, got %T", value)
		}
		g.options = slices.Clone(opts)
		if !slices.Contains(g.options, g.selected) {
			return g.SetSelected("")
		}
		return nil
	}
	return g.setCommon(name, value)
}

// Property implements toolkit.PropertyGetter.
func (g *RadioGroup) Property(name string) (any, bool) {
	switch name {
	case "selected":
		return g.selected, true
	case "options":
		return slices.Clone(g.options), true
	}
	return g.getCommon(name)
}
