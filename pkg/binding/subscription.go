package binding

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-drift/compose/pkg/bindexpr"
	"github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/record"
	"github.com/go-drift/compose/pkg/toolkit"
)

var errReadOnly = fmt.Errorf("binding: root is not writable")

// Subscription is one live link between a bind expression and a target.
type Subscription struct {
	desc     *bindexpr.Descriptor
	env      *Env
	target   toolkit.Component
	prop     string
	twoWay   bool
	applying bool
	cancels  []func()
	canceled bool
}

// Bind links target to desc within env, performs the initial sync and
// returns the live Subscription.
func Bind(env *Env, target toolkit.Component, desc *bindexpr.Descriptor) (*Subscription, error) {
	prop, ok := env.Registry.DefaultProperty(target, desc.TargetProperty)
	if !ok {
		return nil, fmt.Errorf("bind %q on %T: %w", desc.Raw, target, errors.ErrNoDefaultProperty)
	}
	if _, ok := target.(toolkit.PropertySetter); !ok {
		return nil, fmt.Errorf("bind %q: %T has no settable properties", desc.Raw, target)
	}
	s := &Subscription{desc: desc, env: env, target: target, prop: prop}

	if desc.IsPath() {
		root := env.Classify(desc.Root())
		if root == Unresolved && !desc.Segments[0].Optional {
			return nil, fmt.Errorf("bind %q: %q is not a record field, state field, attribute or child", desc.Raw, desc.Root())
		}
		if root.Reactive() {
			s.link(desc.Root(), desc.Path())
			if err := s.connectInput(); err != nil {
				s.Cancel()
				return nil, err
			}
		}
	} else {
		for _, dep := range desc.FreeVars {
			if env.Classify(dep).Reactive() {
				s.link(dep, []string{dep})
			}
		}
	}
	s.Apply()
	return s, nil
}

// link subscribes Apply to changes of a reactive root.
func (s *Subscription) link(root string, path []string) {
	switch s.env.Classify(root) {
	case RecordRoot:
		s.cancels = append(s.cancels, s.env.Store.Subscribe(path, s.Apply))
	case StateRoot:
		s.cancels = append(s.cancels, s.env.States[root].Subscribe(s.Apply))
	}
}

// connectInput makes the link two-way when the target reports user edits of
// the bound property.
func (s *Subscription) connectInput() error {
	event, ok := s.env.Registry.NotifyEvent(s.target, s.prop)
	if !ok {
		return nil
	}
	src, ok := s.target.(toolkit.EventSource)
	if !ok {
		return nil
	}
	ev, ok := src.Event(event)
	if !ok {
		return nil
	}
	s.twoWay = true
	s.cancels = append(s.cancels, ev.Connect(s.onEdit))
	return nil
}

// Descriptor returns the compiled expression.
func (s *Subscription) Descriptor() *bindexpr.Descriptor { return s.desc }

// Target returns the bound component.
func (s *Subscription) Target() toolkit.Component { return s.target }

// Property returns the bound property name.
func (s *Subscription) Property() string { return s.prop }

// TwoWay reports whether user edits write back into the store.
func (s *Subscription) TwoWay() bool { return s.twoWay }

// Apply pushes the current source value to the target when it differs from
// what the target shows.
func (s *Subscription) Apply() {
	if s.applying || s.canceled {
		return
	}
	var value any
	if s.desc.IsPath() {
		v, idx := s.env.Resolve(s.desc.Path())
		if idx == record.Absent {
			value = v
		}
	} else {
		text, err := s.desc.Render(s.env)
		if err != nil {
			s.report(errors.KindBinding, err)
			return
		}
		value = text
	}
	s.applying = true
	defer func() { s.applying = false }()
	if err := s.write(value); err != nil {
		s.report(errors.KindBinding, err)
	}
}

// write sets the target property unless it already shows value.
func (s *Subscription) write(value any) error {
	var current any
	if getter, ok := s.target.(toolkit.PropertyGetter); ok {
		current, _ = getter.Property(s.prop)
	}
	if current != nil {
		if _, isText := current.(string); isText {
			value = bindexpr.Display(value)
		} else if cv, err := record.Convert(value, reflect.TypeOf(current)); err == nil {
			value = cv.Interface()
		}
		if reflect.DeepEqual(current, value) {
			return nil
		}
	}
	return s.target.(toolkit.PropertySetter).SetProperty(s.prop, value)
}

// onEdit writes a user edit back at the bound path.
func (s *Subscription) onEdit(args ...any) {
	if s.applying || s.canceled {
		return
	}
	defer errors.Recover("binding.edit")
	var value any
	if len(args) > 0 {
		value = args[0]
	} else if getter, ok := s.target.(toolkit.PropertyGetter); ok {
		value, _ = getter.Property(s.prop)
	}
	path := s.desc.Path()
	if v, idx := s.env.Resolve(path[:len(path)-1]); len(path) > 1 && (idx != record.Absent || isNil(v)) {
		if idx == record.Absent {
			idx = len(path) - 2
		}
		s.absent(idx)
		return
	}
	s.applying = true
	err := s.env.Write(path, value)
	s.applying = false
	if err == nil {
		return
	}
	var ae *record.AbsentError
	if errors.As(err, &ae) {
		s.absent(ae.Index)
		return
	}
	s.report(errors.KindValidation, err)
}

// absent handles an edit whose ancestor at idx is missing: optional segments
// skip silently, others are reported.
func (s *Subscription) absent(idx int) {
	if idx >= 0 && idx < len(s.desc.Segments) && s.desc.Segments[idx].Optional {
		return
	}
	seg := ""
	if idx >= 0 && idx < len(s.desc.Segments) {
		seg = s.desc.Segments[idx].Name
	}
	errors.Report(&errors.ComposeError{
		Op:    "binding.write",
		Kind:  errors.KindBinding,
		Field: s.target.ObjectName(),
		Err:   &errors.BindingResolutionError{Path: strings.Join(s.desc.Path(), "."), Segment: seg},
	})
}

func (s *Subscription) report(kind errors.ErrorKind, err error) {
	errors.Report(&errors.ComposeError{Op: "binding.apply", Kind: kind, Field: s.target.ObjectName(), Err: err})
}

// Cancel detaches the subscription. It is idempotent.
func (s *Subscription) Cancel() {
	if s.canceled {
		return
	}
	s.canceled = true
	for i := len(s.cancels) - 1; i >= 0; i-- {
		s.cancels[i]()
	}
	s.cancels = nil
}

// Canceled reports whether Cancel was called.
func (s *Subscription) Canceled() bool { return s.canceled }

// Set owns the subscriptions of one instance.
type Set struct {
	subs []*Subscription
}

// Add appends sub.
func (set *Set) Add(sub *Subscription) {
	set.subs = append(set.subs, sub)
}

// Len returns the number of subscriptions.
func (set *Set) Len() int { return len(set.subs) }

// All returns the subscriptions in creation order.
func (set *Set) All() []*Subscription { return slices.Clone(set.subs) }

// For returns the subscriptions targeting c.
func (set *Set) For(c toolkit.Component) []*Subscription {
	var out []*Subscription
	for _, s := range set.subs {
		if s.target == c {
			out = append(out, s)
		}
	}
	return out
}

// Cancel cancels every subscription, newest first.
func (set *Set) Cancel() {
	for i := len(set.subs) - 1; i >= 0; i-- {
		set.subs[i].Cancel()
	}
	set.subs = nil
}
