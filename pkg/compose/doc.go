// Package compose builds component instances from explicit class
// definitions.
//
// A class registers its fields in order with typed builder functions. Each
// registration yields a field.Descriptor; the registration order is the
// layout order.
//
//	type Profile struct {
//		compose.Bound[Person]
//		Name  *widgets.LineEdit
//		Age   *widgets.SpinBox
//		Title *widgets.Label
//	}
//
//	var profileClass = compose.Define[Profile]("Profile", compose.WithLayout(layout.Form))
//
//	func init() {
//		compose.Field(profileClass, "name", func(p *Profile) **widgets.LineEdit { return &p.Name },
//			widgets.NewLineEdit, field.FormLabel("Name"))
//		compose.Field(profileClass, "age", func(p *Profile) **widgets.SpinBox { return &p.Age },
//			widgets.NewSpinBox, field.FormLabel("Age"))
//		compose.Field(profileClass, "title", func(p *Profile) **widgets.Label { return &p.Title },
//			func() *widgets.Label { return widgets.NewLabel("") }, field.Bind("{upper(name)} ({age})"))
//	}
//
// New runs the construction phases in a fixed order:
//
//	FieldsRealized, PreSetup (Setup), ValuesSetup (SetupValues),
//	BindingsSetup (SetupBindings), RecordAttached, AutoBindingsApplied,
//	ExplicitBindingsApplied, LayoutComposed (SetupLayout),
//	StylesSetup (SetupStyles), EventsSetup (SetupEvents),
//	SignalsSetup (SetupSignals), Ready.
//
// Hooks are optional methods of the instance pointer with signature
// func() error. Any error or panic aborts construction: subscriptions made so
// far are canceled and no instance is returned.
//
// Construction is single-threaded and never suspends. Async keyword handlers
// run on the class's dispatch.Loop; an optional Teardown(ctx) hook is awaited
// on the same loop by Destroy.
package compose
