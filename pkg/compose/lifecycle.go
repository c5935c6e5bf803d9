package compose

import (
	"context"
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/go-drift/compose/pkg/bindexpr"
	"github.com/go-drift/compose/pkg/binding"
	"github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/field"
	"github.com/go-drift/compose/pkg/layout"
	"github.com/go-drift/compose/pkg/reactive"
	"github.com/go-drift/compose/pkg/record"
	"github.com/go-drift/compose/pkg/signals"
	"github.com/go-drift/compose/pkg/toolkit"
)

// Phase is a construction step. Phases run in declaration order, once.
type Phase int

const (
	// Unbuilt is the phase of an instance that New has not started.
	Unbuilt Phase = iota
	// FieldsRealized: produced fields are created and keywords connected.
	FieldsRealized
	// PreSetup runs the Setup hook, then adopts Deferred fields.
	PreSetup
	// ValuesSetup runs the SetupValues hook.
	ValuesSetup
	// BindingsSetup runs the SetupBindings hook.
	BindingsSetup
	// RecordAttached wraps the record of a Bound instance in a Proxy.
	RecordAttached
	// AutoBindingsApplied binds children to same-named record fields.
	AutoBindingsApplied
	// ExplicitBindingsApplied applies declared and manual bindings.
	ExplicitBindingsApplied
	// LayoutComposed places children, then runs the SetupLayout hook.
	LayoutComposed
	// StylesSetup applies class styling, then runs the SetupStyles hook.
	StylesSetup
	// EventsSetup runs the SetupEvents hook.
	EventsSetup
	// SignalsSetup runs the SetupSignals hook.
	SignalsSetup
	// Ready: construction completed.
	Ready
)

var phaseNames = [...]string{
	Unbuilt:                 "unbuilt",
	FieldsRealized:          "fields_realized",
	PreSetup:                "pre_setup",
	ValuesSetup:             "values_setup",
	BindingsSetup:           "bindings_setup",
	RecordAttached:          "record_attached",
	AutoBindingsApplied:     "auto_bindings_applied",
	ExplicitBindingsApplied: "explicit_bindings_applied",
	LayoutComposed:          "layout_composed",
	StylesSetup:             "styles_setup",
	EventsSetup:             "events_setup",
	SignalsSetup:            "signals_setup",
	Ready:                   "ready",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Optional hooks, implemented on the instance pointer.
type (
	setupHook         interface{ Setup() error }
	setupValuesHook   interface{ SetupValues() error }
	setupBindingsHook interface{ SetupBindings() error }
	setupLayoutHook   interface{ SetupLayout() error }
	setupStylesHook   interface{ SetupStyles() error }
	setupEventsHook   interface{ SetupEvents() error }
	setupSignalsHook  interface{ SetupSignals() error }
	teardownHook      interface {
		Teardown(ctx context.Context) error
	}
)

// hook returns the hook of inst run in phase p.
func hook(inst any, p Phase) (string, func() error) {
	switch p {
	case PreSetup:
		if h, ok := inst.(setupHook); ok {
			return "Setup", h.Setup
		}
	case ValuesSetup:
		if h, ok := inst.(setupValuesHook); ok {
			return "SetupValues", h.SetupValues
		}
	case BindingsSetup:
		if h, ok := inst.(setupBindingsHook); ok {
			return "SetupBindings", h.SetupBindings
		}
	case LayoutComposed:
		if h, ok := inst.(setupLayoutHook); ok {
			return "SetupLayout", h.SetupLayout
		}
	case StylesSetup:
		if h, ok := inst.(setupStylesHook); ok {
			return "SetupStyles", h.SetupStyles
		}
	case EventsSetup:
		if h, ok := inst.(setupEventsHook); ok {
			return "SetupEvents", h.SetupEvents
		}
	case SignalsSetup:
		if h, ok := inst.(setupSignalsHook); ok {
			return "SetupSignals", h.SetupSignals
		}
	}
	return "", nil
}

// New constructs an instance. It runs every phase to completion or, on the
// first error or panic, cancels what was set up and returns no instance.
func (c *Class[T]) New() (*T, error) {
	inst := new(T)
	comp, ok := any(inst).(composable)
	if !ok {
		return nil, &errors.ConfigurationError{Class: c.name, Err: fmt.Errorf("%T does not embed compose.Base", inst)}
	}
	c.compile()

	opts := c.opts
	b := comp.base()
	*b = Base{self: inst, class: c.name, opts: &opts, plain: make(map[string]func() any)}
	b.env = binding.Env{
		States:   make(map[string]reactive.Value),
		Children: make(map[string]toolkit.Component),
		Registry: opts.Registry,
		Plain:    b.lookupPlain,
	}

	if err := c.build(inst, b); err != nil {
		b.release()
		logger.WithFields(logrus.Fields{"class": c.name, "phase": b.phase.String()}).
			WithError(err).Debug("construction aborted")
		return nil, err
	}
	return inst, nil
}

type step struct {
	phase Phase
	work  func() error
	// hookFirst runs the phase hook before work.
	hookFirst bool
}

func (c *Class[T]) build(inst *T, b *Base) (err error) {
	defer errors.RecoverInto(c.name+".New", &err)

	steps := []step{
		{phase: FieldsRealized, work: func() error { return c.realize(inst, b) }},
		{phase: PreSetup, work: func() error { return c.adoptDeferred(inst, b) }, hookFirst: true},
		{phase: ValuesSetup},
		{phase: BindingsSetup},
		{phase: RecordAttached, work: func() error { return c.attachRecord(inst, b) }},
		{phase: AutoBindingsApplied, work: func() error { return c.autoBind(b) }},
		{phase: ExplicitBindingsApplied, work: func() error { return c.explicitBind(b) }},
		{phase: LayoutComposed, work: func() error { return c.composeLayout(b) }},
		{phase: StylesSetup, work: func() error { c.applyStyles(b); return nil }},
		{phase: EventsSetup},
		{phase: SignalsSetup},
		{phase: Ready},
	}
	for _, s := range steps {
		b.enter(s.phase)
		if s.hookFirst {
			if err := b.runHook(s.phase); err != nil {
				return err
			}
		}
		if s.work != nil {
			if err := s.work(); err != nil {
				return err
			}
		}
		if !s.hookFirst {
			if err := b.runHook(s.phase); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Base) enter(p Phase) {
	b.phase = p
	logger.WithFields(logrus.Fields{"class": b.class, "phase": p.String()}).Debug("phase")
	if b.opts.Trace != nil {
		b.opts.Trace(b.class, p)
	}
}

func (b *Base) runHook(p Phase) (err error) {
	name, fn := hook(b.self, p)
	if fn == nil {
		return nil
	}
	defer errors.RecoverInto(b.class+"."+name, &err)
	if err := fn(); err != nil {
		return fmt.Errorf("%s.%s: %w", b.class, name, err)
	}
	return nil
}

func (b *Base) lookupPlain(name string) (any, bool) {
	get, ok := b.plain[name]
	if !ok {
		return nil, false
	}
	return get(), true
}

func (c *Class[T]) configErr(fieldName string, err error) error {
	return &errors.ConfigurationError{Class: c.name, Field: fieldName, Err: err}
}

// realize produces every non-deferred field in registration order.
func (c *Class[T]) realize(inst *T, b *Base) error {
	for _, m := range c.members {
		d := m.desc
		if d.Err != nil {
			return c.configErr(d.Name, d.Err)
		}
		if m.produce == nil {
			continue
		}
		v := m.produce(inst)
		get := m.get
		if err := c.adopt(b, d, d.Kind, v, func() any { return get(inst) }); err != nil {
			return err
		}
	}
	return nil
}

// adoptDeferred classifies and adopts the values Setup assigned.
func (c *Class[T]) adoptDeferred(inst *T, b *Base) error {
	for _, m := range c.members {
		d := m.desc
		if d.Kind != field.Deferred {
			continue
		}
		v := m.get(inst)
		if isNil(v) {
			return c.configErr(d.Name, errors.ErrDeferredUnset)
		}
		get := m.get
		if err := c.adopt(b, d, field.Classify(reflect.TypeOf(v)), v, func() any { return get(inst) }); err != nil {
			return err
		}
	}
	return nil
}

// adopt registers a realized value of kind with the instance.
func (c *Class[T]) adopt(b *Base, d *field.Descriptor, kind field.Kind, v any, get func() any) error {
	switch kind {
	case field.Child:
		comp, _ := v.(toolkit.Component)
		if isNil(comp) {
			return c.configErr(d.Name, fmt.Errorf("producer returned a nil %v", d.Type))
		}
		comp.SetObjectName(d.Name)
		b.env.Children[d.Name] = comp
		b.children = append(b.children, d.Name)
		k := &signals.Connector{Owner: b.self, Loop: b.Loop(), Context: b.Context()}
		disconnects, err := k.Connect(comp, d.Args)
		if err != nil {
			return c.configErr(d.Name, err)
		}
		b.disconnects = append(b.disconnects, disconnects...)
	case field.State:
		st, _ := v.(reactive.Value)
		if isNil(st) {
			return c.configErr(d.Name, fmt.Errorf("producer returned a nil %v", d.Type))
		}
		b.env.States[d.Name] = st
	default:
		if len(d.Args) > 0 {
			return c.configErr(d.Name, fmt.Errorf("%w %q: %s fields take no keywords", errors.ErrUnknownKeyword, d.Args[0].Name, kind))
		}
		b.plain[d.Name] = get
	}
	return nil
}

func (c *Class[T]) attachRecord(inst *T, b *Base) error {
	holder, ok := any(inst).(recordHolder)
	if !ok {
		if c.record != nil {
			return c.configErr("record", fmt.Errorf("%T declares a record but does not embed compose.Bound", inst))
		}
		return nil
	}
	rec := holder.pendingRecord()
	switch {
	case c.record == nil:
		if rec == nil {
			rec = holder.newRecord()
		}
	case c.record.deferred:
		if rec == nil {
			return c.configErr("record", errors.ErrDeferredUnset)
		}
	default:
		rec = c.record.produce()
		if isNil(rec) {
			return c.configErr("record", fmt.Errorf("producer returned a nil %v", c.record.typ))
		}
	}
	proxy, err := reactive.NewProxy(rec, reactive.WithUndo(b.opts.Undo))
	if err != nil {
		return c.configErr("record", err)
	}
	if err := holder.attach(proxy); err != nil {
		return c.configErr("record", err)
	}
	b.env.Store = proxy
	return nil
}

// autoBind binds each child without an explicit bind to the record field of
// the same name, when its type has a default property. Children targeted by
// Base.Bind during SetupBindings count as explicitly bound.
func (c *Class[T]) autoBind(b *Base) error {
	if !b.opts.AutoBind || b.env.Store == nil {
		return nil
	}
	manual := make(map[toolkit.Component]bool, len(b.pending))
	for _, p := range b.pending {
		manual[p.target] = true
	}
	for _, m := range c.members {
		d := m.desc
		if d.Meta.Bind != "" {
			continue
		}
		comp, ok := b.env.Children[d.Name]
		if !ok || manual[comp] || !record.HasField(b.env.Store.Record(), d.Name) {
			continue
		}
		if _, ok := b.opts.Registry.DefaultProperty(comp, d.Meta.BindProp); !ok {
			continue
		}
		desc, err := bindexpr.Compile(d.Name, reflect.TypeOf(comp), d.Meta.BindProp, b.opts.Registry)
		if err != nil {
			continue
		}
		sub, err := binding.Bind(&b.env, comp, desc)
		if err != nil {
			return c.configErr(d.Name, err)
		}
		b.subs.Add(sub)
	}
	return nil
}

// explicitBind applies declared binds, then the ones queued by Base.Bind.
func (c *Class[T]) explicitBind(b *Base) error {
	for _, m := range c.members {
		d := m.desc
		if d.Meta.Bind == "" {
			continue
		}
		if m.bindErr != nil {
			return c.configErr(d.Name, m.bindErr)
		}
		comp, ok := b.env.Children[d.Name]
		if !ok {
			return c.configErr(d.Name, fmt.Errorf("bind %q: only child fields can be bound", d.Meta.Bind))
		}
		sub, err := binding.Bind(&b.env, comp, m.bind)
		if err != nil {
			return c.configErr(d.Name, err)
		}
		b.subs.Add(sub)
	}
	pending := b.pending
	b.pending = nil
	for _, p := range pending {
		sub, err := binding.Bind(&b.env, p.target, p.desc)
		if err != nil {
			return c.configErr(p.target.ObjectName(), err)
		}
		b.subs.Add(sub)
	}
	return nil
}

func (c *Class[T]) composeLayout(b *Base) error {
	entries := make([]layout.Entry, 0, len(c.members))
	for _, m := range c.members {
		e := layout.Entry{Field: m.desc}
		if m.desc.Name != "" {
			e.Component = b.env.Children[m.desc.Name]
		}
		entries = append(entries, e)
	}
	res, err := layout.Compose(b.opts.Layout, b.opts.Toolkit, entries)
	if err != nil {
		return c.configErr("", err)
	}
	b.slots = res.Slots
	if h, ok := b.self.(toolkit.LayoutHolder); ok {
		h.SetLayout(res.Container)
	} else {
		b.container = res.Container
	}
	return nil
}

func (c *Class[T]) applyStyles(b *Base) {
	s, ok := b.self.(toolkit.Styled)
	if !ok {
		return
	}
	if b.opts.DisplayName != "" {
		s.SetDisplayName(b.opts.DisplayName)
	}
	if len(b.opts.StyleClasses) > 0 {
		s.SetStyleClasses(b.opts.StyleClasses)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
