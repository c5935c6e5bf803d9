// Package binding keeps component properties in sync with a record store and
// an instance's State fields.
//
// A [Subscription] links one compiled bind expression to one target
// component. Path bindings on input-capable targets are two-way: store
// changes overwrite the display and user edits write back. Everything else
// is one-way. Format expressions re-render the whole template whenever any
// reactive dependency changes.
//
// Every Subscription carries an applying flag that is set while it writes in
// either direction, so a write never echoes back through the same link.
package binding

import (
	"reflect"

	"github.com/go-drift/compose/pkg/bindexpr"
	"github.com/go-drift/compose/pkg/reactive"
	"github.com/go-drift/compose/pkg/record"
	"github.com/go-drift/compose/pkg/toolkit"
)

// Store is the record store contract. reactive.Proxy implements it.
type Store interface {
	// Get resolves path; the int is record.Absent or the index of the first
	// absent segment.
	Get(path []string) (any, int)
	// Set writes value at path.
	Set(path []string, value any) error
	// Subscribe calls fn after every change touching path.
	Subscribe(path []string, fn func()) func()
	// Record returns the wrapped record.
	Record() any
}

var _ Store = (*reactive.Proxy)(nil)

// RootKind says where a root identifier resolves.
type RootKind int

const (
	// Unresolved roots read as absent.
	Unresolved RootKind = iota
	// RecordRoot is a top-level record field.
	RecordRoot
	// StateRoot is a State field of the instance.
	StateRoot
	// PlainRoot is a plain attribute of the instance.
	PlainRoot
	// ChildRoot is a child component; it reads as a snapshot of its bound
	// property.
	ChildRoot
)

func (k RootKind) String() string {
	switch k {
	case RecordRoot:
		return "record"
	case StateRoot:
		return "state"
	case PlainRoot:
		return "plain"
	case ChildRoot:
		return "child"
	}
	return "unresolved"
}

// Reactive reports whether changes to roots of this kind are observable.
func (k RootKind) Reactive() bool {
	return k == RecordRoot || k == StateRoot
}

// Env is the resolution scope of one instance. Lookup precedence is record
// field, State field, plain attribute, child. Any other name resolves to a
// map record, if there is one.
type Env struct {
	// Store is the record store, or nil when the instance has no record.
	Store Store
	// States holds the instance's State fields by name.
	States map[string]reactive.Value
	// Plain returns a plain attribute by name.
	Plain func(name string) (any, bool)
	// Children holds the realized child components by field name.
	Children map[string]toolkit.Component
	// Registry resolves default properties and notify events.
	Registry *toolkit.Registry
}

// Classify returns where name resolves.
func (e *Env) Classify(name string) RootKind {
	if e.Store != nil && record.HasField(e.Store.Record(), name) {
		return RecordRoot
	}
	if _, ok := e.States[name]; ok {
		return StateRoot
	}
	if e.Plain != nil {
		if _, ok := e.Plain(name); ok {
			return PlainRoot
		}
	}
	if _, ok := e.Children[name]; ok {
		return ChildRoot
	}
	if e.Store != nil && isMap(e.Store.Record()) {
		return RecordRoot
	}
	return Unresolved
}

// isMap reports whether rec is a map record, whose keys may appear later.
func isMap(rec any) bool {
	v := reflect.ValueOf(rec)
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	return v.Kind() == reflect.Map
}

// Lookup implements bindexpr.Scope.
func (e *Env) Lookup(name string) (any, bool) {
	switch e.Classify(name) {
	case RecordRoot:
		v, _ := e.Store.Get([]string{name})
		return v, true
	case StateRoot:
		return e.States[name].Get(), true
	case PlainRoot:
		return e.Plain(name)
	case ChildRoot:
		return e.snapshot(e.Children[name]), true
	}
	return nil, false
}

var _ bindexpr.Scope = (*Env)(nil)

func (e *Env) snapshot(c toolkit.Component) any {
	prop, ok := e.Registry.DefaultProperty(c, "")
	if !ok {
		return nil
	}
	getter, ok := c.(toolkit.PropertyGetter)
	if !ok {
		return nil
	}
	v, _ := getter.Property(prop)
	return v
}

// Resolve reads the value at path. It returns record.Absent as the index
// when every segment resolved, otherwise the index of the first absent one.
func (e *Env) Resolve(path []string) (any, int) {
	if len(path) == 0 {
		return nil, 0
	}
	switch e.Classify(path[0]) {
	case RecordRoot:
		return e.Store.Get(path)
	case Unresolved:
		return nil, 0
	}
	root, _ := e.Lookup(path[0])
	if len(path) == 1 {
		return root, record.Absent
	}
	if isNil(root) {
		return nil, 0
	}
	v, idx := record.Get(root, path[1:])
	if idx != record.Absent {
		idx++
	}
	return v, idx
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// Write stores value at path. Record roots write through the store; State
// roots replace the State value, copying it first for nested paths.
func (e *Env) Write(path []string, value any) error {
	switch e.Classify(path[0]) {
	case RecordRoot:
		return e.Store.Set(path, value)
	case StateRoot:
		st := e.States[path[0]]
		if len(path) == 1 {
			return st.SetValue(value)
		}
		cur := st.Get()
		if isNil(cur) {
			return &record.AbsentError{Index: 0, Segment: path[0]}
		}
		rv := reflect.ValueOf(record.Clone(cur))
		holder := reflect.New(rv.Type())
		holder.Elem().Set(rv)
		if err := record.Set(holder.Interface(), path[1:], value); err != nil {
			if ae, ok := err.(*record.AbsentError); ok {
				return &record.AbsentError{Index: ae.Index + 1, Segment: ae.Segment}
			}
			return err
		}
		return st.SetValue(holder.Elem().Interface())
	}
	return errReadOnly
}
