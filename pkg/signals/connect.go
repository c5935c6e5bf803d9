// Package signals attaches keyword arguments of a child field to the child.
//
// Each keyword is first probed as an event of the child. When the child
// exposes the event the value becomes a handler:
//
//   - a string names an exported method of the owner;
//   - a func is used as is;
//   - an [Async] func, or an owner method of type func(context.Context) error,
//     is started without blocking the event and posts its writes back with
//     dispatch.Post.
//
// A keyword that is not an event is assigned as a property instead. Anything
// else is a configuration error.
package signals

import (
	"context"
	"fmt"
	"reflect"

	"github.com/go-drift/compose/pkg/dispatch"
	"github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/field"
	"github.com/go-drift/compose/pkg/record"
	"github.com/go-drift/compose/pkg/toolkit"
)

// Async marks a handler that runs fire-and-forget off the dispatch loop
// goroutine. It must not write the store or touch components directly:
// those writes go through dispatch.Post(ctx, ...), which runs them on the
// loop that owns the instance.
type Async func(ctx context.Context) error

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	asyncType   = reflect.TypeOf(Async(nil))
)

// Connector resolves and attaches keyword arguments.
type Connector struct {
	// Owner is the instance whose methods string handlers name.
	Owner any
	// Loop runs async handlers. Nil means dispatch.Default().
	Loop *dispatch.Loop
	// Context is passed to async handlers. Nil means context.Background().
	Context context.Context
}

// Connect applies args to c and returns the disconnect functions of the
// handlers it attached. On error nothing stays attached.
func (k *Connector) Connect(c toolkit.Component, args []field.Arg) ([]func(), error) {
	var disconnects []func()
	for _, arg := range args {
		disconnect, err := k.connectOne(c, arg)
		if err != nil {
			for i := len(disconnects) - 1; i >= 0; i-- {
				disconnects[i]()
			}
			return nil, err
		}
		if disconnect != nil {
			disconnects = append(disconnects, disconnect)
		}
	}
	return disconnects, nil
}

func (k *Connector) connectOne(c toolkit.Component, arg field.Arg) (func(), error) {
	if src, ok := c.(toolkit.EventSource); ok {
		if ev, ok := src.Event(arg.Name); ok {
			handler, err := k.Handler(arg.Name, arg.Value)
			if err != nil {
				return nil, err
			}
			return ev.Connect(handler), nil
		}
	}
	if isHandler(arg.Value) {
		return nil, fmt.Errorf("%w %q: %T has no such event", errors.ErrUnknownKeyword, arg.Name, c)
	}
	setter, ok := c.(toolkit.PropertySetter)
	if !ok {
		return nil, fmt.Errorf("%w %q: %T has no events or properties", errors.ErrUnknownKeyword, arg.Name, c)
	}
	if err := setter.SetProperty(arg.Name, arg.Value); err != nil {
		return nil, fmt.Errorf("%w %q: %v", errors.ErrUnknownKeyword, arg.Name, err)
	}
	return nil, nil
}

func isHandler(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

// Handler turns a keyword value into an event handler. name is used in
// error reports.
func (k *Connector) Handler(name string, value any) (func(args ...any), error) {
	var fn reflect.Value
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("handler for %q is nil", name)
	case string:
		if k.Owner == nil {
			return nil, fmt.Errorf("handler %q for %q: no owner", v, name)
		}
		fn = reflect.ValueOf(k.Owner).MethodByName(v)
		if !fn.IsValid() {
			return nil, fmt.Errorf("handler %q for %q: %T has no exported method %s", v, name, k.Owner, v)
		}
	case Async:
		return k.async(name, v), nil
	default:
		fn = reflect.ValueOf(value)
		if fn.Kind() != reflect.Func {
			return nil, fmt.Errorf("handler for %q: %T is not callable", name, value)
		}
		if fn.IsNil() {
			return nil, fmt.Errorf("handler for %q is nil", name)
		}
	}
	if isAsync(fn.Type()) {
		f := fn.Convert(asyncType).Interface().(Async)
		return k.async(name, f), nil
	}
	return adapt(name, fn), nil
}

func isAsync(t reflect.Type) bool {
	return t.NumIn() == 1 && t.In(0) == contextType && t.NumOut() == 1 && t.Out(0) == errorType && !t.IsVariadic()
}

func (k *Connector) async(name string, fn Async) func(args ...any) {
	loop := k.Loop
	if loop == nil {
		loop = dispatch.Default()
	}
	ctx := k.Context
	if ctx == nil {
		ctx = context.Background()
	}
	op := "signals." + name
	return func(...any) {
		loop.Go(ctx, op, fn)
	}
}

// adapt wraps fn so it accepts any emitted arguments. fn receives the prefix
// matching its arity, converted where possible; missing arguments are zero.
// A non-nil trailing error result is reported.
func adapt(name string, fn reflect.Value) func(args ...any) {
	t := fn.Type()
	op := "signals." + name
	return func(args ...any) {
		defer errors.Recover(op)
		var in []reflect.Value
		if t.IsVariadic() {
			fixed := t.NumIn() - 1
			in = convertArgs(t, args, fixed)
			elem := t.In(fixed).Elem()
			for i := fixed; i < len(args); i++ {
				in = append(in, convertArg(args[i], elem))
			}
		} else {
			in = convertArgs(t, args, t.NumIn())
		}
		out := fn.Call(in)
		if n := len(out); n > 0 && t.Out(n-1) == errorType && !out[n-1].IsNil() {
			errors.ReportErr(op, errors.KindUnknown, out[n-1].Interface().(error))
		}
	}
}

func convertArgs(t reflect.Type, args []any, n int) []reflect.Value {
	in := make([]reflect.Value, n)
	for i := 0; i < n; i++ {
		if i < len(args) {
			in[i] = convertArg(args[i], t.In(i))
		} else {
			in[i] = reflect.Zero(t.In(i))
		}
	}
	return in
}

func convertArg(arg any, t reflect.Type) reflect.Value {
	if arg == nil {
		return reflect.Zero(t)
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(t) {
		return v
	}
	if cv, err := record.Convert(arg, t); err == nil {
		return cv
	}
	return reflect.Zero(t)
}
