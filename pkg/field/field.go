// Package field describes the fields a component class declares.
//
// A class registers its fields one by one; each registration produces an
// immutable [Descriptor] holding the field's name, static type, [Kind],
// registration order and metadata. Classification happens once, when the
// field is registered, following a fixed priority:
//
//  1. Spacer and Separator placeholders.
//  2. Deferred fields, assigned by the class's Setup hook.
//  3. Types implementing reactive.Value become State fields.
//  4. Types implementing toolkit.Component become Child fields.
//  5. Anything else is Plain.
package field

import (
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/go-drift/compose/pkg/reactive"
	"github.com/go-drift/compose/pkg/toolkit"
)

// Kind classifies a declared field.
type Kind int

const (
	// Plain fields do not take part in layout or binding.
	Plain Kind = iota
	// Child fields hold a component and are placed in the layout.
	Child
	// State fields hold a reactive value usable in bind expressions.
	State
	// Deferred fields are assigned in the Setup hook.
	Deferred
	// Spacer fields insert a gap in sequential layouts.
	Spacer
	// Separator fields insert a separator row in paired layouts.
	Separator
)

func (k Kind) String() string {
	switch k {
	case Child:
		return "child"
	case State:
		return "state"
	case Deferred:
		return "deferred"
	case Spacer:
		return "spacer"
	case Separator:
		return "separator"
	default:
		return "plain"
	}
}

// ExclusionMarker brackets field names that must never be placed in a layout.
const ExclusionMarker = "_"

// Excluded reports whether name is both prefixed and suffixed by
// ExclusionMarker, e.g. "_debug_".
func Excluded(name string) bool {
	m := len(ExclusionMarker)
	return len(name) > 2*m && strings.HasPrefix(name, ExclusionMarker) && strings.HasSuffix(name, ExclusionMarker)
}

var (
	componentType = reflect.TypeOf((*toolkit.Component)(nil)).Elem()
	valueType     = reflect.TypeOf((*reactive.Value)(nil)).Elem()
)

// Classify returns the kind of a produced field of static type t.
func Classify(t reflect.Type) Kind {
	if t == nil {
		return Plain
	}
	switch {
	case t.Implements(valueType):
		return State
	case t.Implements(componentType):
		return Child
	}
	return Plain
}

// IsComponentType reports whether t implements toolkit.Component.
func IsComponentType(t reflect.Type) bool {
	return t != nil && t.Implements(componentType)
}

// order is the global registration counter. It only has to be monotonic.
var order atomic.Int64

func nextOrder() int {
	return int(order.Add(1))
}

// SpacerSpec sizes a Spacer.
type SpacerSpec struct {
	Stretch int
	Min     int
	Max     int
}

// Descriptor is the immutable description of one declared field.
type Descriptor struct {
	// Name is the field's identifier in bind expressions and layouts.
	Name string
	// Type is the static type of the produced value.
	Type reflect.Type
	// Kind is the classification.
	Kind Kind
	// Order is the registration counter value; lower registers first.
	Order int
	// Meta holds the engine-consumed metadata.
	Meta Metadata
	// Args holds the non-reserved keyword arguments in the order given.
	Args []Arg
	// Spacer sizes a Spacer field.
	Spacer SpacerSpec
	// Err is a metadata error (such as a malformed grid) raised when an
	// instance of the class is constructed.
	Err error
}

// New builds a Descriptor for a produced field, classifying t and applying opts.
func New(name string, t reflect.Type, opts ...Option) *Descriptor {
	d := &Descriptor{Name: name, Type: t, Kind: Classify(t), Order: nextOrder()}
	d.apply(opts)
	return d
}

// NewDeferred builds a Deferred Descriptor. The value is assigned in Setup;
// metadata still applies once it is.
func NewDeferred(name string, t reflect.Type, opts ...Option) *Descriptor {
	d := &Descriptor{Name: name, Type: t, Kind: Deferred, Order: nextOrder()}
	d.apply(opts)
	return d
}

// NewSpacer builds a Spacer Descriptor.
func NewSpacer(stretch, min, max int) *Descriptor {
	return &Descriptor{Kind: Spacer, Order: nextOrder(), Spacer: SpacerSpec{Stretch: stretch, Min: min, Max: max}}
}

// NewSeparator builds a Separator Descriptor.
func NewSeparator() *Descriptor {
	return &Descriptor{Kind: Separator, Order: nextOrder()}
}

func (d *Descriptor) apply(opts []Option) {
	for _, opt := range opts {
		opt(d)
	}
}

// Placeable reports whether the layout composer may place the field.
func (d *Descriptor) Placeable() bool {
	return !Excluded(d.Name)
}

// Bindable reports whether the field can carry a binding.
func (d *Descriptor) Bindable() bool {
	return d.Kind != Spacer && d.Kind != Separator
}
