package widgets

// Button is a clickable push button.
//
// Properties: text.
// Events: clicked(), pressed(), released().
//
// Example:
//
//	btn := widgets.NewButton("Submit")
//	ev, _ := btn.Event("clicked")
//	ev.Connect(func(...any) { submit() })
//	btn.Click()
type Button struct {
	Widget
	text string
}

// NewButton creates a button with the given caption.
func NewButton(text string) *Button {
	b := &Button{text: text}
	b.signal("clicked")
	b.signal("pressed")
	b.signal("released")
	return b
}

// Text returns the caption.
func (b *Button) Text() string { return b.text }

// Click simulates a full press and release. Disabled buttons ignore it.
func (b *Button) Click() {
	if b.disabled {
		return
	}
	b.signal("pressed").Emit()
	b.signal("released").Emit()
	b.signal("clicked").Emit()
}

// SetProperty implements toolkit.PropertySetter.
func (b *Button) SetProperty(name string, value any) error {
	if name == "text" {
		s, err := asString(value)
		if err != nil {
			return err
		}
		b.text = s
		return nil
	}
	return b.setCommon(name, value)
}

// Property implements toolkit.PropertyGetter.
func (b *Button) Property(name string) (any, bool) {
	if name == "text" {
		return b.text, true
	}
	return b.getCommon(name)
}
