// Package toolkit defines the narrow capability interfaces the compose engine
// needs from a widget toolkit.
//
// The engine never depends on a concrete toolkit. A component is anything
// implementing [Component]; everything else is discovered through explicit
// interface queries:
//
//   - [EventSource] exposes named events as [Emitter] values.
//   - [PropertySetter] and [PropertyGetter] give keyed access to properties.
//   - [Styled] receives display names and style classes.
//   - [BoxLayout], [FormLayout] and [GridLayout] place children.
//
// Package widgets provides a headless implementation used by tests and tools.
package toolkit

// Component is a placeable, composable unit.
type Component interface {
	// ObjectName returns the identifier the component was registered under.
	ObjectName() string
	// SetObjectName assigns that identifier.
	SetObjectName(name string)
}

// Emitter is a connectable event.
type Emitter interface {
	// Connect attaches handler and returns a function that detaches it.
	Connect(handler func(args ...any)) (disconnect func())
}

// EventSource is implemented by components that expose named events.
type EventSource interface {
	// Event returns the emitter for name, or false when the component has no
	// such event.
	Event(name string) (Emitter, bool)
}

// PropertySetter is implemented by components with settable properties.
type PropertySetter interface {
	// SetProperty assigns value to the named property. Unknown names return
	// an error.
	SetProperty(name string, value any) error
}

// PropertyGetter is implemented by components with readable properties.
type PropertyGetter interface {
	// Property returns the named property's value, or false when unknown.
	Property(name string) (any, bool)
}

// Styled is implemented by components that accept styling metadata.
type Styled interface {
	SetDisplayName(name string)
	SetStyleClasses(classes []string)
}

// Layout is a container that children are placed into.
type Layout interface {
	// Children returns the placed components in placement order.
	Children() []Component
}

// BoxLayout places children sequentially.
type BoxLayout interface {
	Layout
	AddChild(c Component)
	// AddSpacer inserts a gap. A zero max means unbounded.
	AddSpacer(stretch, min, max int)
}

// FormLayout places children as labeled rows.
type FormLayout interface {
	Layout
	AddRow(label string, c Component)
	AddUnlabeledRow(c Component)
}

// SeparatorLayout is an optional capability of layouts that can draw a
// separator between rows.
type SeparatorLayout interface {
	AddSeparator()
}

// GridLayout places children at explicit cells.
type GridLayout interface {
	Layout
	AddChildAt(c Component, row, col, rowSpan, colSpan int)
}

// Direction is the axis of a BoxLayout.
type Direction int

const (
	// Vertical stacks children top to bottom.
	Vertical Direction = iota
	// Horizontal lines children up left to right.
	Horizontal
)

// Factory creates layout containers.
type Factory interface {
	NewBox(dir Direction) BoxLayout
	NewForm() FormLayout
	NewGrid() GridLayout
}

// LayoutHolder is implemented by components that own a layout container.
type LayoutHolder interface {
	SetLayout(l Layout)
	Layout() Layout
}
