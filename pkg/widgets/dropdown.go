package widgets

import (
	"fmt"
	"slices"
)

// ComboBox selects one entry from a list of strings.
//
// Properties: current_text, items.
// Events: current_text_changed(text string).
type ComboBox struct {
	Widget
	items   []string
	current string
}

// NewComboBox creates a combo box listing items, with the first one selected.
func NewComboBox(items ...string) *ComboBox {
	c := &ComboBox{items: slices.Clone(items)}
	if len(items) > 0 {
		c.current = items[0]
	}
	c.signal("current_text_changed")
	return c
}

// CurrentText returns the selected entry.
func (c *ComboBox) CurrentText() string { return c.current }

// Items returns the entries.
func (c *ComboBox) Items() []string { return c.items }

// SetCurrentText selects text. Entries not in the list are rejected.
func (c *ComboBox) SetCurrentText(text string) error {
	if text != "" && !slices.Contains(c.items, text) {
		return fmt.Errorf("widgets: %q is not an item", text)
	}
	if text == c.current {
		return nil
	}
	c.current = text
	c.signal("current_text_changed").Emit(text)
	return nil
}

// Select simulates the user choosing text.
func (c *ComboBox) Select(text string) error {
	if c.disabled {
		return nil
	}
	return c.SetCurrentText(text)
}

// SetProperty implements toolkit.PropertySetter.
func (c *ComboBox) SetProperty(name string, value any) error {
	switch name {
	case "current_text":
		s, err := asString(value)
		if err != nil {
			return err
		}
		return c.SetCurrentText(s)
	case "items":
		items, ok := value.([]string)
		if !ok {
			return fmt.Errorf("widgets: items must be []string, got %T", value)
		}
		c.items = slices.Clone(items)
		if !slices.Contains(c.items, c.current) {
			first := ""
			if len(c.items) > 0 {
				first = c.items[0]
			}
			return c.SetCurrentText(first)
		}
		return nil
	}
	return c.setCommon(name, value)
}

// Property implements toolkit.PropertyGetter.
func (c *ComboBox) Property(name string) (any, bool) {
	switch name {
	case "current_text":
		return c.current, true
	case "items":
		return slices.Clone(c.items), true
	}
	return c.getCommon(name)
}
