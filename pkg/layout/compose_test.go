package layout

import (
	"reflect"
	"testing"

	"github.com/go-drift/compose/pkg/field"
	"github.com/go-drift/compose/pkg/toolkit"
	"github.com/go-drift/compose/pkg/widgets"
)

func child(name string, opts ...field.Option) Entry {
	l := widgets.NewLabel(name)
	l.SetObjectName(name)
	return Entry{Field: field.New(name, reflect.TypeOf(l), opts...), Component: l}
}

func names(cs []toolkit.Component) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ObjectName()
	}
	return out
}

func TestSequentialKeepsRegistrationOrder(t *testing.T) {
	a := child("a")
	gap := Entry{Field: field.NewSpacer(1, 4, 0)}
	b := child("b")
	sep := Entry{Field: field.NewSeparator()}
	hidden := child("_debug_")
	c := child("c")

	res, err := Compose(Vertical, widgets.Factory{}, []Entry{c, hidden, sep, b, gap, a})
	if err != nil {
		t.Fatal(err)
	}
	box := res.Container.(*widgets.Box)
	if got := names(box.Children()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("children = %v", got)
	}
	items := box.Items()
	if len(items) != 4 || items[1].Gap == nil || *items[1].Gap != (widgets.Gap{Stretch: 1, Min: 4}) {
		t.Errorf("items = %+v", items)
	}
	if len(res.Slots) != 4 || res.Slots[1].Kind != SpacerSlot {
		t.Errorf("slots = %+v", res.Slots)
	}
	if box.Direction() != toolkit.Vertical {
		t.Error("vertical mode produced a horizontal box")
	}
}

func TestHorizontal(t *testing.T) {
	res, err := Compose(Horizontal, widgets.Factory{}, []Entry{child("x")})
	if err != nil {
		t.Fatal(err)
	}
	if res.Container.(*widgets.Box).Direction() != toolkit.Horizontal {
		t.Error("expected horizontal box")
	}
}

func TestFormRows(t *testing.T) {
	name := child("name", field.FormLabel("Name"))
	sep := Entry{Field: field.NewSeparator()}
	gap := Entry{Field: field.NewSpacer(1, 0, 0)}
	note := child("note")

	res, err := Compose(Form, widgets.Factory{}, []Entry{name, sep, gap, note})
	if err != nil {
		t.Fatal(err)
	}
	rows := res.Container.(*widgets.Form).Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %+v", rows)
	}
	if !rows[0].Labeled || rows[0].Label != "Name" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if !rows[1].Separator {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[2].Labeled || rows[2].Child.ObjectName() != "note" {
		t.Errorf("row 2 = %+v", rows[2])
	}
	if res.Slots[0].Label != "Name" {
		t.Errorf("slot label = %q", res.Slots[0].Label)
	}
}

func TestGridSkipsUnpositioned(t *testing.T) {
	title := child("title", field.Grid(0, 0, 1, 4))
	left := child("left", field.Grid(1, 0))
	free := child("free")
	right := child("right", field.Grid(1, 1))

	res, err := Compose(Grid, widgets.Factory{}, []Entry{title, left, free, right})
	if err != nil {
		t.Fatal(err)
	}
	grid := res.Container.(*widgets.Grid)
	if got := names(grid.Children()); !reflect.DeepEqual(got, []string{"title", "left", "right"}) {
		t.Errorf("children = %v", got)
	}
	if c, ok := grid.At(0, 3); !ok || c.ObjectName() != "title" {
		t.Errorf("At(0,3) = %v, %v", c, ok)
	}
	if c, ok := grid.At(1, 1); !ok || c.ObjectName() != "right" {
		t.Errorf("At(1,1) = %v, %v", c, ok)
	}
	if *res.Slots[0].Cell != (field.GridPos{Row: 0, Col: 0, RowSpan: 1, ColSpan: 4}) {
		t.Errorf("cell = %+v", res.Slots[0].Cell)
	}
}

func TestNonePlacesNothing(t *testing.T) {
	res, err := Compose(None, nil, []Entry{child("a")})
	if err != nil {
		t.Fatal(err)
	}
	if res.Container != nil || len(res.Slots) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestMissingFactory(t *testing.T) {
	if _, err := Compose(Form, nil, nil); err == nil {
		t.Error("expected error without a factory")
	}
}

func TestParseMode(t *testing.T) {
	for m, name := range modeNames {
		got, err := ParseMode(name)
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", name, got, err)
		}
	}
	var m Mode
	if err := m.UnmarshalText([]byte(" Grid ")); err != nil || m != Grid {
		t.Errorf("UnmarshalText = %v, %v", m, err)
	}
	if _, err := ParseMode("table"); err == nil {
		t.Error("expected unknown mode error")
	}
}
