package toolkit

import (
	"reflect"
	"slices"
	"testing"
)

type fakeComponent struct{ name string }

func (f *fakeComponent) ObjectName() string        { return f.name }
func (f *fakeComponent) SetObjectName(name string) { f.name = name }

type otherComponent struct{ fakeComponent }

func TestRegistryDefaultProperty(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&fakeComponent{}, PropertySpec{Default: "text", Notify: map[string]string{"text": "text_changed"}})
	r.Freeze()

	c := &fakeComponent{}
	if prop, ok := r.DefaultProperty(c, ""); !ok || prop != "text" {
		t.Errorf("DefaultProperty = %q, %v", prop, ok)
	}
	if prop, _ := r.DefaultProperty(c, "tooltip"); prop != "tooltip" {
		t.Errorf("explicit property should win, got %q", prop)
	}
	if _, ok := r.DefaultProperty(&otherComponent{}, ""); ok {
		t.Error("unregistered type should have no default")
	}
	if ev, ok := r.NotifyEvent(c, "text"); !ok || ev != "text_changed" {
		t.Errorf("NotifyEvent = %q, %v", ev, ok)
	}
	if _, ok := r.NotifyEvent(c, "tooltip"); ok {
		t.Error("tooltip has no notify event")
	}
}

func TestRegistryFreeze(t *testing.T) {
	r := NewRegistry()
	r.Freeze()
	if err := r.Register(&fakeComponent{}, PropertySpec{Default: "x"}); err == nil {
		t.Error("Register after Freeze should fail")
	}
	if !r.Frozen() {
		t.Error("Frozen() = false")
	}
}

func TestNilRegistryLookup(t *testing.T) {
	var r *Registry
	if _, ok := r.Lookup(nil); ok {
		t.Error("nil registry has no entries")
	}
}

func TestRegistryTypeByName(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&fakeComponent{}, PropertySpec{Default: "text"})
	r.MustRegister(&otherComponent{}, PropertySpec{Default: "value"})

	typ, ok := r.TypeByName("fakeComponent")
	if !ok || typ != reflect.TypeOf(&fakeComponent{}) {
		t.Errorf("TypeByName = %v, %v", typ, ok)
	}
	if _, ok := r.TypeByName("*toolkit.otherComponent"); !ok {
		t.Error("qualified names should resolve too")
	}
	if _, ok := r.TypeByName("Missing"); ok {
		t.Error("unknown name resolved")
	}
	if got := r.Names(); !slices.Equal(got, []string{"fakeComponent", "otherComponent"}) {
		t.Errorf("Names = %v", got)
	}
}
