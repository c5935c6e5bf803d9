package toolkit

import (
	"fmt"
	"reflect"
	"sort"
)

// PropertySpec describes how a component type participates in bindings.
type PropertySpec struct {
	// Default is the property a bind expression targets when no explicit
	// property is given.
	Default string
	// Notify maps a property to the event emitted when the user changes it.
	// Targets whose bound property has a notify event are input-capable and
	// get two-way bindings.
	Notify map[string]string
}

// Registry maps component types to their PropertySpec. It is populated at
// bootstrap, frozen, and read-only afterwards.
type Registry struct {
	specs  map[reflect.Type]PropertySpec
	frozen bool
}

// NewRegistry returns an empty, unfrozen Registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[reflect.Type]PropertySpec)}
}

// Register records spec for the dynamic type of sample. Registering after
// Freeze is an error.
func (r *Registry) Register(sample Component, spec PropertySpec) error {
	if r.frozen {
		return fmt.Errorf("toolkit: registry is frozen")
	}
	if sample == nil {
		return fmt.Errorf("toolkit: nil sample")
	}
	r.specs[reflect.TypeOf(sample)] = spec
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// bootstrap code.
func (r *Registry) MustRegister(sample Component, spec PropertySpec) {
	if err := r.Register(sample, spec); err != nil {
		panic(err)
	}
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Lookup returns the PropertySpec registered for t.
func (r *Registry) Lookup(t reflect.Type) (PropertySpec, bool) {
	if r == nil {
		return PropertySpec{}, false
	}
	spec, ok := r.specs[t]
	return spec, ok
}

// LookupFor returns the PropertySpec registered for the dynamic type of c.
func (r *Registry) LookupFor(c Component) (PropertySpec, bool) {
	return r.Lookup(reflect.TypeOf(c))
}

// DefaultProperty resolves the bind target property for c: explicit wins,
// otherwise the registered default. ok is false when neither exists.
func (r *Registry) DefaultProperty(c Component, explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	spec, ok := r.LookupFor(c)
	if !ok || spec.Default == "" {
		return "", false
	}
	return spec.Default, true
}

// NotifyEvent returns the change event for prop on c, if any.
func (r *Registry) NotifyEvent(c Component, prop string) (string, bool) {
	spec, ok := r.LookupFor(c)
	if !ok {
		return "", false
	}
	ev, ok := spec.Notify[prop]
	return ev, ok && ev != ""
}

// TypeByName finds a registered type by its bare type name, such as
// "LineEdit" for *widgets.LineEdit.
func (r *Registry) TypeByName(name string) (reflect.Type, bool) {
	if r == nil {
		return nil, false
	}
	for t := range r.specs {
		base := t
		for base.Kind() == reflect.Pointer {
			base = base.Elem()
		}
		if base.Name() == name || t.String() == name {
			return t, true
		}
	}
	return nil, false
}

// Names returns the bare names of the registered types, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.specs))
	for t := range r.specs {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		names = append(names, t.Name())
	}
	sort.Strings(names)
	return names
}
