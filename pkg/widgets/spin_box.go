package widgets

// SpinBox is an integer input clamped to [minimum, maximum].
//
// Properties: value, minimum, maximum.
// Events: value_changed(value int).
type SpinBox struct {
	Widget
	value   int
	minimum int
	maximum int
}

// NewSpinBox creates a spin box with the range [0, 99].
func NewSpinBox() *SpinBox {
	s := &SpinBox{maximum: 99}
	s.signal("value_changed")
	return s
}

// Value returns the current value.
func (s *SpinBox) Value() int { return s.value }

// SetValue clamps v into range, stores it and emits value_changed when it differs.
func (s *SpinBox) SetValue(v int) {
	v = max(s.minimum, min(v, s.maximum))
	if v == s.value {
		return
	}
	s.value = v
	s.signal("value_changed").Emit(v)
}

// SetRange updates the bounds and re-clamps the value.
func (s *SpinBox) SetRange(lo, hi int) {
	if hi < lo {
		lo, hi = hi, lo
	}
	s.minimum, s.maximum = lo, hi
	s.SetValue(s.value)
}

// Edit simulates the user entering v.
func (s *SpinBox) Edit(v int) {
	if s.disabled {
		return
	}
	s.SetValue(v)
}

// StepBy simulates the user pressing the arrows n times.
func (s *SpinBox) StepBy(n int) {
	s.Edit(s.value + n)
}

// SetProperty implements toolkit.PropertySetter.
func (s *SpinBox) SetProperty(name string, value any) error {
	switch name {
	case "value":
		n, err := asInt(value)
		if err != nil {
			return err
		}
		s.SetValue(n)
		return nil
	case "minimum":
		n, err := asInt(value)
		if err != nil {
			return err
		}
		s.SetRange(n, max(n, s.maximum))
		return nil
	case "maximum":
		n, err := asInt(value)
		if err != nil {
			return err
		}
		s.SetRange(min(n, s.minimum), n)
		return nil
	}
	return s.setCommon(name, value)
}

// Property implements toolkit.PropertyGetter.
func (s *SpinBox) Property(name string) (any, bool) {
	switch name {
	case "value":
		return s.value, true
	case "minimum":
		return s.minimum, true
	case "maximum":
		return s.maximum, true
	}
	return s.getCommon(name)
}
