package widgets

// Label displays read-only text.
//
// Properties: text, word_wrap, plus the common tooltip/enabled/visible.
type Label struct {
	Widget
	text     string
	wordWrap bool
}

// NewLabel creates a label showing text.
func NewLabel(text string) *Label {
	return &Label{text: text}
}

// Text returns the displayed text.
func (l *Label) Text() string { return l.text }

// SetText replaces the displayed text.
func (l *Label) SetText(text string) { l.text = text }

// SetProperty implements toolkit.PropertySetter.
func (l *Label) SetProperty(name string, value any) error {
	switch name {
	case "text":
		s, err := asString(value)
		if err != nil {
			return err
		}
		l.SetText(s)
		return nil
	case "word_wrap":
		b, err := asBool(value)
		if err != nil {
			return err
		}
		l.wordWrap = b
		return nil
	}
	return l.setCommon(name, value)
}

// Property implements toolkit.PropertyGetter.
func (l *Label) Property(name string) (any, bool) {
	switch name {
	case "text":
		return l.text, true
	case "word_wrap":
		return l.wordWrap, true
	}
	return l.getCommon(name)
}
