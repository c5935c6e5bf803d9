package widgets

// LineEdit is a single-line text input.
//
// Properties: text, placeholder, read_only.
// Events: text_changed(text string), editing_finished().
type LineEdit struct {
	Widget
	text        string
	placeholder string
	readOnly    bool
}

// NewLineEdit creates an empty line edit.
func NewLineEdit() *LineEdit {
	e := &LineEdit{}
	e.signal("text_changed")
	e.signal("editing_finished")
	return e
}

// Text returns the current text.
func (e *LineEdit) Text() string { return e.text }

// Placeholder returns the placeholder text.
func (e *LineEdit) Placeholder() string { return e.placeholder }

// SetText replaces the text and emits text_changed when it differs.
func (e *LineEdit) SetText(text string) {
	if text == e.text {
		return
	}
	e.text = text
	e.signal("text_changed").Emit(text)
}

// Edit simulates the user typing text and leaving the field.
func (e *LineEdit) Edit(text string) {
	if e.readOnly || e.disabled {
		return
	}
	e.SetText(text)
	e.signal("editing_finished").Emit()
}

// SetProperty implements toolkit.PropertySetter.
func (e *LineEdit) SetProperty(name string, value any) error {
	switch name {
	case "text":
		s, err := asString(value)
		if err != nil {
			return err
		}
		e.SetText(s)
		return nil
	case "placeholder":
		s, err := asString(value)
		if err != nil {
			return err
		}
		e.placeholder = s
		return nil
	case "read_only":
		b, err := asBool(value)
		if err != nil {
			return err
		}
		e.readOnly = b
		return nil
	}
	return e.setCommon(name, value)
}

// Property implements toolkit.PropertyGetter.
func (e *LineEdit) Property(name string) (any, bool) {
	switch name {
	case "text":
		return e.text, true
	case "placeholder":
		return e.placeholder, true
	case "read_only":
		return e.readOnly, true
	}
	return e.getCommon(name)
}
