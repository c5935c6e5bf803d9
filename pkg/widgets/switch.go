package widgets

// Switch is an on/off control. It behaves like a CheckBox without a caption.
//
// Properties: checked.
// Events: toggled(checked bool).
type Switch struct {
	Widget
	on bool
}

// NewSwitch creates a switch in the off state.
func NewSwitch() *Switch {
	s := &Switch{}
	s.signal("toggled")
	return s
}

// Checked reports whether the switch is on.
func (s *Switch) Checked() bool { return s.on }

// SetChecked stores v and emits toggled when it differs.
func (s *Switch) SetChecked(v bool) {
	if v == s.on {
		return
	}
	s.on = v
	s.signal("toggled").Emit(v)
}

// Toggle simulates the user flipping the switch.
func (s *Switch) Toggle() {
	if s.disabled {
		return
	}
	s.SetChecked(!s.on)
}

// SetProperty implements toolkit.PropertySetter.
func (s *Switch) SetProperty(name string, value any) error {
	if name == "checked" {
		b, err := asBool(value)
		if err != nil {
			return err
		}
		s.SetChecked(b)
		return nil
	}
	return s.setCommon(name, value)
}

// Property implements toolkit.PropertyGetter.
func (s *Switch) Property(name string) (any, bool) {
	if name == "checked" {
		return s.on, true
	}
	return s.getCommon(name)
}
