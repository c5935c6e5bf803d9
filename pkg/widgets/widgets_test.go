package widgets

import (
	"reflect"
	"slices"
	"testing"

	"github.com/go-drift/compose/pkg/toolkit"
)

// collect connects to c's named event and records every emission.
func collect(t *testing.T, c toolkit.EventSource, event string) *[][]any {
	t.Helper()
	ev, ok := c.Event(event)
	if !ok {
		t.Fatalf("%T has no %s event", c, event)
	}
	var got [][]any
	ev.Connect(func(args ...any) { got = append(got, args) })
	return &got
}

func TestLineEditEmitsOnlyOnChange(t *testing.T) {
	e := NewLineEdit()
	changes := collect(t, e, "text_changed")
	finished := collect(t, e, "editing_finished")

	e.SetText("a")
	e.SetText("a")
	e.Edit("ab")
	if len(*changes) != 2 || (*changes)[1][0] != "ab" {
		t.Errorf("text_changed = %v", *changes)
	}
	if len(*finished) != 1 {
		t.Errorf("editing_finished fired %d times", len(*finished))
	}

	e.SetProperty("read_only", true)
	e.Edit("ignored")
	if e.Text() != "ab" {
		t.Errorf("read-only edit changed text to %q", e.Text())
	}
}

func TestSpinBoxClamps(t *testing.T) {
	s := NewSpinBox()
	changes := collect(t, s, "value_changed")
	s.SetRange(0, 10)
	s.Edit(42)
	if s.Value() != 10 {
		t.Errorf("value = %d, want 10", s.Value())
	}
	s.StepBy(-3)
	if s.Value() != 7 || len(*changes) != 2 {
		t.Errorf("value = %d after %v", s.Value(), *changes)
	}
	if err := s.SetProperty("value", "x"); err == nil {
		t.Error("expected a type error for a string value")
	}
}

func TestToggles(t *testing.T) {
	cb := NewCheckBox("Paid")
	sw := NewSwitch()
	for _, c := range []interface {
		toolkit.EventSource
		Toggle()
		Checked() bool
	}{cb, sw} {
		events := collect(t, c, "toggled")
		c.Toggle()
		c.Toggle()
		if c.Checked() || len(*events) != 2 || (*events)[0][0] != true {
			t.Errorf("%T: checked=%v events=%v", c, c.Checked(), *events)
		}
	}

	sw.SetProperty("enabled", false)
	sw.Toggle()
	if sw.Checked() {
		t.Error("disabled switch toggled")
	}
}

func TestChoiceWidgets(t *testing.T) {
	cb := NewComboBox("red", "green")
	if cb.CurrentText() != "red" {
		t.Errorf("combo starts at %q", cb.CurrentText())
	}
	if err := cb.Select("blue"); err == nil {
		t.Error("combo accepted an unknown item")
	}

	g := NewRadioGroup("s", "m", "l")
	changes := collect(t, g, "selected_changed")
	if g.Selected() != "" {
		t.Errorf("radio starts at %q", g.Selected())
	}
	if err := g.Select("m"); err != nil {
		t.Fatal(err)
	}
	if err := g.SetProperty("options", []string{"s", "l"}); err != nil {
		t.Fatal(err)
	}
	if g.Selected() != "" {
		t.Errorf("selection %q survived removal of its option", g.Selected())
	}
	if len(*changes) != 2 {
		t.Errorf("selected_changed = %v", *changes)
	}
	if err := g.SetProperty("options", "s,l"); err == nil {
		t.Error("options accepted a string")
	}
}

func TestButtonClick(t *testing.T) {
	b := NewButton("Go")
	pressed := collect(t, b, "pressed")
	clicked := collect(t, b, "clicked")
	b.Click()
	b.SetProperty("enabled", false)
	b.Click()
	if len(*pressed) != 1 || len(*clicked) != 1 {
		t.Errorf("pressed=%d clicked=%d", len(*pressed), len(*clicked))
	}
}

func TestCommonProperties(t *testing.T) {
	l := NewLabel("hi")
	for name, v := range map[string]any{"tooltip": "tip", "visible": false, "object_name": "greeting"} {
		if err := l.SetProperty(name, v); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got, ok := l.Property(name); !ok || got != v {
			t.Errorf("%s = %v, %v", name, got, ok)
		}
	}
	if l.ObjectName() != "greeting" || l.Visible() {
		t.Error("common setters not reflected by accessors")
	}
	if err := l.SetProperty("colour", "red"); err == nil {
		t.Error("unknown property accepted")
	}
	if _, ok := l.Property("colour"); ok {
		t.Error("unknown property readable")
	}
	if _, ok := l.Event("clicked"); ok {
		t.Error("label should not expose clicked")
	}
}

func TestSignalDisconnect(t *testing.T) {
	var s Signal
	n := 0
	off := s.Connect(func(...any) { n++ })
	s.Connect(func(...any) { n += 10 })
	s.Emit()
	off()
	s.Emit()
	if n != 21 || s.HandlerCount() != 1 {
		t.Errorf("n=%d handlers=%d", n, s.HandlerCount())
	}
}

func TestLayouts(t *testing.T) {
	a, b := NewLabel("a"), NewLabel("b")

	box := Factory{}.NewBox(toolkit.Horizontal).(*Box)
	box.AddChild(a)
	box.AddSpacer(1, 0, 0)
	box.AddChild(b)
	if box.Direction() != toolkit.Horizontal || len(box.Items()) != 3 || len(box.Children()) != 2 {
		t.Errorf("box = %+v", box.Items())
	}

	form := NewForm()
	form.AddRow("A", a)
	form.AddSeparator()
	form.AddUnlabeledRow(b)
	if rows := form.Rows(); len(rows) != 3 || !rows[1].Separator || rows[2].Labeled {
		t.Errorf("rows = %+v", rows)
	}

	grid := NewGrid()
	grid.AddChildAt(a, 0, 0, 1, 2)
	grid.AddChildAt(b, 1, 0, 1, 1)
	if c, ok := grid.At(0, 1); !ok || c != toolkit.Component(a) {
		t.Error("span not covered")
	}
	if _, ok := grid.At(1, 1); ok {
		t.Error("empty cell reported as filled")
	}
	if !slices.Equal(grid.Children(), []toolkit.Component{a, b}) {
		t.Errorf("children = %v", grid.Children())
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	if !r.Frozen() {
		t.Error("default registry should be frozen")
	}
	tests := []struct {
		sample toolkit.Component
		prop   string
		event  string
	}{
		{NewLabel(""), "text", ""},
		{NewLineEdit(), "text", "text_changed"},
		{NewSpinBox(), "value", "value_changed"},
		{NewCheckBox(""), "checked", "toggled"},
		{NewSwitch(), "checked", "toggled"},
		{NewComboBox(), "current_text", "current_text_changed"},
		{NewRadioGroup(), "selected", "selected_changed"},
		{NewButton(""), "text", ""},
	}
	for _, tt := range tests {
		name := reflect.TypeOf(tt.sample).Elem().Name()
		t.Run(name, func(t *testing.T) {
			prop, ok := r.DefaultProperty(tt.sample, "")
			if !ok || prop != tt.prop {
				t.Errorf("default = %q, %v", prop, ok)
			}
			ev, ok := r.NotifyEvent(tt.sample, prop)
			if ev != tt.event || ok != (tt.event != "") {
				t.Errorf("notify = %q, %v", ev, ok)
			}
			if typ, ok := r.TypeByName(name); !ok || typ != reflect.TypeOf(tt.sample) {
				t.Errorf("TypeByName(%s) = %v", name, typ)
			}
			// Every notify event must exist on the widget.
			if tt.event != "" {
				if _, ok := tt.sample.(toolkit.EventSource).Event(tt.event); !ok {
					t.Errorf("%s has no %s event", name, tt.event)
				}
			}
		})
	}
}
