package widgets

import (
	"fmt"
	"slices"

	"github.com/go-drift/compose/pkg/toolkit"
)

// Signal is an emitter with an ordered handler list.
type Signal struct {
	handlers []*signalHandler
}

type signalHandler struct {
	fn func(args ...any)
}

// Connect implements toolkit.Emitter.
func (s *Signal) Connect(handler func(args ...any)) func() {
	h := &signalHandler{fn: handler}
	s.handlers = append(s.handlers, h)
	return func() {
		if i := slices.Index(s.handlers, h); i >= 0 {
			s.handlers = slices.Delete(s.handlers, i, i+1)
		}
	}
}

// Emit calls every connected handler with args.
func (s *Signal) Emit(args ...any) {
	for _, h := range slices.Clone(s.handlers) {
		h.fn(args...)
	}
}

// HandlerCount returns the number of connected handlers.
func (s *Signal) HandlerCount() int {
	return len(s.handlers)
}

// Widget is the embeddable base of every headless widget. It stores the
// object name, styling metadata, generic properties (tooltip, enabled,
// visible) and the event table.
type Widget struct {
	name         string
	displayName  string
	styleClasses []string
	tooltip      string
	disabled     bool
	hidden       bool
	events       map[string]*Signal
}

// ObjectName implements toolkit.Component.
func (w *Widget) ObjectName() string { return w.name }

// SetObjectName implements toolkit.Component.
func (w *Widget) SetObjectName(name string) { w.name = name }

// SetDisplayName implements toolkit.Styled.
func (w *Widget) SetDisplayName(name string) { w.displayName = name }

// DisplayName returns the display name set through styling.
func (w *Widget) DisplayName() string { return w.displayName }

// SetStyleClasses implements toolkit.Styled.
func (w *Widget) SetStyleClasses(classes []string) { w.styleClasses = slices.Clone(classes) }

// StyleClasses returns the applied style classes.
func (w *Widget) StyleClasses() []string { return w.styleClasses }

// Enabled reports whether the widget accepts interaction.
func (w *Widget) Enabled() bool { return !w.disabled }

// Visible reports whether the widget is shown.
func (w *Widget) Visible() bool { return !w.hidden }

// Tooltip returns the tooltip text.
func (w *Widget) Tooltip() string { return w.tooltip }

// signal returns the named signal, creating it on first use.
func (w *Widget) signal(name string) *Signal {
	if w.events == nil {
		w.events = make(map[string]*Signal)
	}
	s, ok := w.events[name]
	if !ok {
		s = &Signal{}
		w.events[name] = s
	}
	return s
}

// Event implements toolkit.EventSource for the events a widget declared
// through signal.
func (w *Widget) Event(name string) (toolkit.Emitter, bool) {
	s, ok := w.events[name]
	if !ok {
		return nil, false
	}
	return s, true
}

// setCommon handles properties shared by every widget.
func (w *Widget) setCommon(name string, value any) error {
	switch name {
	case "tooltip":
		s, err := asString(value)
		if err != nil {
			return err
		}
		w.tooltip = s
	case "enabled":
		b, err := asBool(value)
		if err != nil {
			return err
		}
		w.disabled = !b
	case "visible":
		b, err := asBool(value)
		if err != nil {
			return err
		}
		w.hidden = !b
	case "object_name":
		s, err := asString(value)
		if err != nil {
			return err
		}
		w.name = s
	default:
		return fmt.Errorf("widgets: unknown property %q", name)
	}
	return nil
}

func (w *Widget) getCommon(name string) (any, bool) {
	switch name {
	case "tooltip":
		return w.tooltip, true
	case "enabled":
		return !w.disabled, true
	case "visible":
		return !w.hidden, true
	case "object_name":
		return w.name, true
	}
	return nil, false
}

func asString(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return fmt.Sprint(v), nil
}

func asBool(v any) (bool, error) {
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	}
	return false, fmt.Errorf("widgets: expected bool, got %T", v)
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float32:
		return int(n), nil
	case float64:
		return int(n), nil
	}
	return 0, fmt.Errorf("widgets: expected integer, got %T", v)
}
