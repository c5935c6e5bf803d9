package widgets

import "github.com/go-drift/compose/pkg/toolkit"

// FormRow is one row of a Form. Separator rows have no child.
type FormRow struct {
	Label     string
	Labeled   bool
	Child     toolkit.Component
	Separator bool
}

// Form lays children out as label/field rows.
type Form struct {
	rows []FormRow
}

// NewForm creates an empty form layout.
func NewForm() *Form { return &Form{} }

// AddRow implements toolkit.FormLayout.
func (f *Form) AddRow(label string, c toolkit.Component) {
	f.rows = append(f.rows, FormRow{Label: label, Labeled: true, Child: c})
}

// AddUnlabeledRow implements toolkit.FormLayout.
func (f *Form) AddUnlabeledRow(c toolkit.Component) {
	f.rows = append(f.rows, FormRow{Child: c})
}

// AddSeparator implements toolkit.SeparatorLayout.
func (f *Form) AddSeparator() {
	f.rows = append(f.rows, FormRow{Separator: true})
}

// Rows returns the rows in order.
func (f *Form) Rows() []FormRow { return f.rows }

// Children implements toolkit.Layout.
func (f *Form) Children() []toolkit.Component {
	var out []toolkit.Component
	for _, r := range f.rows {
		if r.Child != nil {
			out = append(out, r.Child)
		}
	}
	return out
}
