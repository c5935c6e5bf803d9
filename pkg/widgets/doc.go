// Package widgets provides a headless toolkit implementing the capability
// interfaces of package toolkit.
//
// The widgets keep their properties in memory and emit events synchronously,
// which makes them suitable for tests, tooling and as a reference for
// adapting a real toolkit to the compose engine.
//
// # Widgets
//
// Display and input widgets: [Label], [LineEdit], [SpinBox], [CheckBox],
// [Switch], [ComboBox], [RadioGroup] and [Button]. Each exposes its
// properties through SetProperty/Property and its events through Event:
//
//	edit := widgets.NewLineEdit()
//	ev, _ := edit.Event("text_changed")
//	ev.Connect(func(args ...any) { fmt.Println(args[0]) })
//	edit.Edit("hello") // simulates the user typing
//
// # Layouts
//
// [Box], [Form] and [Grid] implement the layout interfaces; [Factory]
// creates them for the engine.
//
// # Registry
//
// [DefaultRegistry] returns a frozen toolkit.Registry describing the default
// bind property and change event of every widget in this package.
package widgets
