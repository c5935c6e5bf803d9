package widgets

import "github.com/go-drift/compose/pkg/toolkit"

// Factory creates headless layouts. It implements toolkit.Factory.
type Factory struct{}

// NewBox implements toolkit.Factory.
func (Factory) NewBox(dir toolkit.Direction) toolkit.BoxLayout {
	if dir == toolkit.Horizontal {
		return NewHBox()
	}
	return NewVBox()
}

// NewForm implements toolkit.Factory.
func (Factory) NewForm() toolkit.FormLayout { return NewForm() }

// NewGrid implements toolkit.Factory.
func (Factory) NewGrid() toolkit.GridLayout { return NewGrid() }

// Register adds the bind specs of every widget in this package to r.
func Register(r *toolkit.Registry) error {
	specs := []struct {
		sample toolkit.Component
		spec   toolkit.PropertySpec
	}{
		{&Label{}, toolkit.PropertySpec{Default: "text"}},
		{&Button{}, toolkit.PropertySpec{Default: "text"}},
		{&LineEdit{}, toolkit.PropertySpec{Default: "text", Notify: map[string]string{"text": "text_changed"}}},
		{&SpinBox{}, toolkit.PropertySpec{Default: "value", Notify: map[string]string{"value": "value_changed"}}},
		{&CheckBox{}, toolkit.PropertySpec{Default: "checked", Notify: map[string]string{"checked": "toggled"}}},
		{&ComboBox{}, toolkit.PropertySpec{Default: "current_text", Notify: map[string]string{"current_text": "current_text_changed"}}},
		{&Switch{}, toolkit.PropertySpec{Default: "checked", Notify: map[string]string{"checked": "toggled"}}},
		{&RadioGroup{}, toolkit.PropertySpec{Default: "selected", Notify: map[string]string{"selected": "selected_changed"}}},
	}
	for _, s := range specs {
		if err := r.Register(s.sample, s.spec); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRegistry returns a frozen registry covering this package's widgets.
func DefaultRegistry() *toolkit.Registry {
	r := toolkit.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	r.Freeze()
	return r
}
