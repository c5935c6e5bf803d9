package widgets

// CheckBox is a two-state toggle with a caption.
//
// Properties: checked, text.
// Events: toggled(checked bool).
type CheckBox struct {
	Widget
	checked bool
	text    string
}

// NewCheckBox creates an unchecked box with the given caption.
func NewCheckBox(text string) *CheckBox {
	c := &CheckBox{text: text}
	c.signal("toggled")
	return c
}

// Checked reports the current state.
func (c *CheckBox) Checked() bool { return c.checked }

// Text returns the caption.
func (c *CheckBox) Text() string { return c.text }

// SetChecked stores v and emits toggled when it differs.
func (c *CheckBox) SetChecked(v bool) {
	if v == c.checked {
		return
	}
	c.checked = v
	c.signal("toggled").Emit(v)
}

// Toggle simulates the user clicking the box.
func (c *CheckBox) Toggle() {
	if c.disabled {
		return
	}
	c.SetChecked(!c.checked)
}

// SetProperty implements toolkit.PropertySetter.
func (c *CheckBox) SetProperty(name string, value any) error {
	switch name {
	case "checked":
		b, err := asBool(value)
		if err != nil {
			return err
		}
		c.SetChecked(b)
		return nil
	case "text":
		s, err := asString(value)
		if err != nil {
			return err
		}
		c.text = s
		return nil
	}
	return c.setCommon(name, value)
}

// Property implements toolkit.PropertyGetter.
func (c *CheckBox) Property(name string) (any, bool) {
	switch name {
	case "checked":
		return c.checked, true
	case "text":
		return c.text, true
	}
	return c.getCommon(name)
}
