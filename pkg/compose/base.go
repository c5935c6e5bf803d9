package compose

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/go-drift/compose/pkg/bindexpr"
	"github.com/go-drift/compose/pkg/binding"
	"github.com/go-drift/compose/pkg/dispatch"
	"github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/layout"
	"github.com/go-drift/compose/pkg/toolkit"
)

// Base is embedded by every composed component. It owns the realized
// children, the subscriptions and the layout container of one instance.
//
// A composed component is itself a toolkit.Component, so it can be the child
// of another class.
type Base struct {
	self  any
	class string
	opts  *Options
	phase Phase

	name         string
	displayName  string
	styleClasses []string

	env         binding.Env
	children    []string
	plain       map[string]func() any
	subs        binding.Set
	pending     []pendingBind
	disconnects []func()

	container toolkit.Layout
	slots     []layout.Slot
	destroyed bool
}

type pendingBind struct {
	target toolkit.Component
	desc   *bindexpr.Descriptor
}

// base gives the engine access to the embedded Base.
func (b *Base) base() *Base { return b }

type composable interface {
	base() *Base
}

// ObjectName implements toolkit.Component.
func (b *Base) ObjectName() string { return b.name }

// SetObjectName implements toolkit.Component.
func (b *Base) SetObjectName(name string) { b.name = name }

// SetDisplayName implements toolkit.Styled.
func (b *Base) SetDisplayName(name string) { b.displayName = name }

// DisplayName returns the applied display name.
func (b *Base) DisplayName() string { return b.displayName }

// SetStyleClasses implements toolkit.Styled.
func (b *Base) SetStyleClasses(classes []string) { b.styleClasses = slices.Clone(classes) }

// StyleClasses returns the applied style classes.
func (b *Base) StyleClasses() []string { return b.styleClasses }

// Layout implements toolkit.LayoutHolder. It is nil until LayoutComposed and
// in None mode.
func (b *Base) Layout() toolkit.Layout { return b.container }

// SetLayout implements toolkit.LayoutHolder.
func (b *Base) SetLayout(l toolkit.Layout) { b.container = l }

// Slots returns the placements made while composing the layout.
func (b *Base) Slots() []layout.Slot { return slices.Clone(b.slots) }

// Class returns the name of the instance's class.
func (b *Base) Class() string { return b.class }

// Phase returns the last phase entered.
func (b *Base) Phase() Phase { return b.phase }

// Ready reports whether construction completed.
func (b *Base) Ready() bool { return b.phase == Ready && !b.destroyed }

// Child returns the realized child registered under name.
func (b *Base) Child(name string) (toolkit.Component, bool) {
	c, ok := b.env.Children[name]
	return c, ok
}

// Children returns the realized children in registration order.
func (b *Base) Children() []toolkit.Component {
	out := make([]toolkit.Component, 0, len(b.children))
	for _, name := range b.children {
		out = append(out, b.env.Children[name])
	}
	return out
}

// Subscriptions returns the live subscriptions in creation order.
func (b *Base) Subscriptions() []*binding.Subscription { return b.subs.All() }

// Loop returns the dispatch loop of the instance.
func (b *Base) Loop() *dispatch.Loop {
	if b.opts == nil || b.opts.Loop == nil {
		return dispatch.Default()
	}
	return b.opts.Loop
}

// Context returns the context handed to async handlers.
func (b *Base) Context() context.Context {
	if b.opts == nil || b.opts.Context == nil {
		return context.Background()
	}
	return b.opts.Context
}

// Bind binds target's property prop to expr. An empty prop uses the
// registered default. Called from SetupBindings the binding is applied
// together with the declared ones; later it is applied at once.
func (b *Base) Bind(target toolkit.Component, expr, prop string) error {
	if b.opts == nil {
		return fmt.Errorf("compose: Bind on an instance that was not built by a class")
	}
	if b.destroyed {
		return fmt.Errorf("compose: Bind on a destroyed %s", b.class)
	}
	desc, err := bindexpr.Compile(expr, reflect.TypeOf(target), prop, b.opts.Registry)
	if err != nil {
		return err
	}
	if b.phase < ExplicitBindingsApplied {
		b.pending = append(b.pending, pendingBind{target: target, desc: desc})
		return nil
	}
	sub, err := binding.Bind(&b.env, target, desc)
	if err != nil {
		return err
	}
	b.subs.Add(sub)
	return nil
}

// Destroy runs the Teardown hook to completion on the dispatch loop, then
// cancels every subscription, detaches keyword handlers and destroys composed
// children. It is idempotent.
func (b *Base) Destroy() error {
	if b.destroyed {
		return nil
	}
	b.destroyed = true
	var err error
	if td, ok := b.self.(teardownHook); ok {
		err = b.Loop().Await(b.Context(), b.class+".Teardown", td.Teardown)
	}
	b.release()
	for i := len(b.children) - 1; i >= 0; i-- {
		c := b.env.Children[b.children[i]]
		if d, ok := c.(interface{ Destroy() error }); ok {
			if cerr := d.Destroy(); cerr != nil {
				errors.ReportErr(b.class+".Destroy", errors.KindUnknown, cerr)
			}
		}
	}
	logger.WithField("class", b.class).Debug("destroyed")
	return err
}

// Destroyed reports whether Destroy was called.
func (b *Base) Destroyed() bool { return b.destroyed }

// release cancels subscriptions and keyword handlers, newest first.
func (b *Base) release() {
	b.subs.Cancel()
	for i := len(b.disconnects) - 1; i >= 0; i-- {
		b.disconnects[i]()
	}
	b.disconnects = nil
	b.pending = nil
}
