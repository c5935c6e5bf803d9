package reactive

import (
	"reflect"

	"github.com/go-drift/compose/pkg/record"
)

// Value is the capability of a reactive single-value wrapper. Fields whose
// type implements Value are classified as State fields.
type Value interface {
	// Get returns the current value.
	Get() any
	// SetValue replaces the current value, converting it when needed.
	SetValue(v any) error
	// Subscribe registers fn to run after every change.
	Subscribe(fn func()) (cancel func())
}

// State holds a value and notifies subscribers when it changes.
//
//	count := reactive.NewState(0)
//	count.Set(count.Value() + 1)
type State[T any] struct {
	value    T
	notifier Notifier
	equal    func(a, b T) bool
}

// NewState creates a State with an initial value. Changes are detected with
// reflect.DeepEqual; use NewStateWithEquality for a custom comparison.
func NewState[T any](initial T) *State[T] {
	return &State[T]{value: initial}
}

// NewStateWithEquality creates a State that uses equal to decide whether a
// Set is a change.
func NewStateWithEquality[T any](initial T, equal func(a, b T) bool) *State[T] {
	return &State[T]{value: initial, equal: equal}
}

// Value returns the current value.
func (s *State[T]) Value() T {
	return s.value
}

// Set updates the value and notifies subscribers if it changed.
func (s *State[T]) Set(v T) {
	if s.same(s.value, v) {
		return
	}
	s.value = v
	s.notifier.Notify()
}

// Update applies transform to the current value.
func (s *State[T]) Update(transform func(T) T) {
	s.Set(transform(s.value))
}

func (s *State[T]) same(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return reflect.DeepEqual(a, b)
}

// Get implements Value.
func (s *State[T]) Get() any {
	return s.value
}

// SetValue implements Value.
func (s *State[T]) SetValue(v any) error {
	var zero T
	rv, err := record.Convert(v, reflect.TypeOf(&zero).Elem())
	if err != nil {
		return err
	}
	out, _ := rv.Interface().(T)
	s.Set(out)
	return nil
}

// Subscribe implements Value.
func (s *State[T]) Subscribe(fn func()) func() {
	return s.notifier.AddListener(fn)
}

// ListenerCount returns the number of subscribers.
func (s *State[T]) ListenerCount() int {
	return s.notifier.ListenerCount()
}
