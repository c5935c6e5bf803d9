package compose

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-drift/compose/pkg/bindexpr"
	"github.com/go-drift/compose/pkg/field"
)

// member is one registered field of a class.
type member[T any] struct {
	desc *field.Descriptor
	// produce creates the value and stores it in the instance. Nil for
	// deferred, spacer and separator fields.
	produce func(*T) any
	// get reads the current value from the instance.
	get func(*T) any

	bind    *bindexpr.Descriptor
	bindErr error
}

type recordSpec struct {
	typ      reflect.Type
	produce  func() any
	deferred bool
}

// Class is a component class: the ordered field registrations of T plus the
// options every instance is built with. Register fields once, at package
// initialization, then call New for each instance.
type Class[T any] struct {
	name    string
	opts    Options
	members []*member[T]
	record  *recordSpec

	compileOnce sync.Once
}

// Define starts a class for T. T must embed Base or Bound. An empty name
// defaults to T's type name.
func Define[T any](name string, opts ...Option) *Class[T] {
	if name == "" {
		name = reflect.TypeFor[T]().Name()
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Class[T]{name: name, opts: o}
}

// Name returns the class name.
func (c *Class[T]) Name() string { return c.name }

// Options returns a copy of the class options.
func (c *Class[T]) Options() Options { return c.opts }

// Fields returns the field descriptors in registration order.
func (c *Class[T]) Fields() []*field.Descriptor {
	out := make([]*field.Descriptor, len(c.members))
	for i, m := range c.members {
		out[i] = m.desc
	}
	return out
}

// With returns a copy of the class with opts applied over its options. The
// copy keeps the fields registered so far and compiles its bindings against
// its own registry.
func (c *Class[T]) With(opts ...Option) *Class[T] {
	d := &Class[T]{name: c.name, opts: c.opts, record: c.record}
	for _, opt := range opts {
		opt(&d.opts)
	}
	d.members = make([]*member[T], len(c.members))
	for i, m := range c.members {
		d.members[i] = &member[T]{desc: m.desc, produce: m.produce, get: m.get}
	}
	return d
}

func (c *Class[T]) add(m *member[T]) {
	c.members = append(c.members, m)
}

// Field registers a produced field. ref locates the field in an instance and
// produce creates its value for each new instance:
//
//	compose.Field(cls, "name", func(f *Form) **widgets.LineEdit { return &f.Name },
//		widgets.NewLineEdit, field.Bind("name"))
func Field[T, V any](c *Class[T], name string, ref func(*T) *V, produce func() V, opts ...field.Option) *field.Descriptor {
	d := field.New(name, reflect.TypeFor[V](), opts...)
	c.add(&member[T]{
		desc: d,
		produce: func(inst *T) any {
			v := produce()
			*ref(inst) = v
			return v
		},
		get: func(inst *T) any { return *ref(inst) },
	})
	return d
}

// Deferred registers a field that the Setup hook must assign. Its kind is
// decided from the assigned value.
func Deferred[T, V any](c *Class[T], name string, ref func(*T) *V, opts ...field.Option) *field.Descriptor {
	d := field.NewDeferred(name, reflect.TypeFor[V](), opts...)
	c.add(&member[T]{
		desc: d,
		get:  func(inst *T) any { return *ref(inst) },
	})
	return d
}

// Spacer registers a gap for sequential layouts. A zero max is unbounded.
func Spacer[T any](c *Class[T], stretch, min, max int) *field.Descriptor {
	d := field.NewSpacer(stretch, min, max)
	c.add(&member[T]{desc: d})
	return d
}

// Separator registers a separator row for form layouts.
func Separator[T any](c *Class[T]) *field.Descriptor {
	d := field.NewSeparator()
	c.add(&member[T]{desc: d})
	return d
}

// RecordField sets the producer of the record attached to each instance. T
// must embed Bound[R].
func RecordField[T, R any](c *Class[T], produce func() *R) {
	c.record = &recordSpec{
		typ:     reflect.TypeFor[*R](),
		produce: func() any { return produce() },
	}
}

// DeferredRecord declares that Setup assigns the record with SetRecord.
func DeferredRecord[T any](c *Class[T]) {
	c.record = &recordSpec{deferred: true}
}

// compile builds the bind descriptors of every field once per class.
func (c *Class[T]) compile() {
	c.compileOnce.Do(func() {
		for _, m := range c.members {
			d := m.desc
			if d.Meta.Bind == "" {
				continue
			}
			if !d.Bindable() {
				m.bindErr = fmt.Errorf("%s fields cannot be bound", d.Kind)
				continue
			}
			m.bind, m.bindErr = bindexpr.Compile(d.Meta.Bind, d.Type, d.Meta.BindProp, c.opts.Registry)
		}
	})
}

// MustNew is like New but panics on error.
func (c *Class[T]) MustNew() *T {
	inst, err := c.New()
	if err != nil {
		panic(err)
	}
	return inst
}
