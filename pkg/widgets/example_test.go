package widgets_test

import (
	"fmt"

	"github.com/go-drift/compose/pkg/widgets"
)

// This example shows a line edit driving a label through its change event.
func ExampleLineEdit() {
	edit := widgets.NewLineEdit()
	label := widgets.NewLabel("")

	ev, _ := edit.Event("text_changed")
	ev.Connect(func(args ...any) {
		label.SetText(fmt.Sprintf("Hello, %s!", args[0]))
	})

	edit.Edit("Ada")
	fmt.Println(label.Text())
	// Output: Hello, Ada!
}

// This example shows a form with a separator row.
func ExampleForm() {
	form := widgets.NewForm()
	form.AddRow("Name", widgets.NewLineEdit())
	form.AddSeparator()
	form.AddUnlabeledRow(widgets.NewCheckBox("Subscribe"))

	for _, row := range form.Rows() {
		switch {
		case row.Separator:
			fmt.Println("---")
		case row.Labeled:
			fmt.Printf("%s: %T\n", row.Label, row.Child)
		default:
			fmt.Printf("%T\n", row.Child)
		}
	}
	// Output:
	// Name: *widgets.LineEdit
	// ---
	// *widgets.CheckBox
}
