package record

import (
	"reflect"
	"testing"
)

type address struct {
	City string
	Zip  string `yaml:"postal_code"`
}

type person struct {
	Name    string
	Age     int
	Address *address
	Tags    map[string]string
	secret  string
}

func TestFields(t *testing.T) {
	got := Fields(reflect.TypeOf(&person{}))
	want := []string{"name", "age", "address", "tags"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Fields() = %v, want %v", got, want)
	}
	if got := Fields(reflect.TypeOf(map[string]any{})); got != nil {
		t.Errorf("Fields(map) = %v, want nil", got)
	}
}

func TestHasField(t *testing.T) {
	p := &person{}
	if !HasField(p, "age") {
		t.Error("expected age field")
	}
	if HasField(p, "secret") {
		t.Error("unexported fields are not addressable")
	}
	m := map[string]any{"name": "x"}
	if !HasField(m, "name") || HasField(m, "age") {
		t.Error("map record fields follow present keys")
	}
}

func TestGet(t *testing.T) {
	p := &person{Name: "Ada", Address: &address{City: "London", Zip: "N1"}}

	tests := []struct {
		path   []string
		want   any
		absent int
	}{
		{[]string{"name"}, "Ada", Absent},
		{[]string{"address", "city"}, "London", Absent},
		{[]string{"address", "postal_code"}, "N1", Absent},
		{[]string{"nope"}, nil, 0},
		{[]string{"address", "nope"}, nil, 1},
	}
	for _, tt := range tests {
		got, absent := Get(p, tt.path)
		if absent != tt.absent {
			t.Errorf("Get(%v) absent = %d, want %d", tt.path, absent, tt.absent)
			continue
		}
		if tt.absent == Absent && got != tt.want {
			t.Errorf("Get(%v) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestGetThroughNilPointer(t *testing.T) {
	p := &person{}
	_, absent := Get(p, []string{"address", "city"})
	if absent != 0 {
		t.Errorf("absent = %d, want 0 (address is nil)", absent)
	}
}

func TestSet(t *testing.T) {
	p := &person{Address: &address{}}
	if err := Set(p, []string{"address", "city"}, "Paris"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if p.Address.City != "Paris" {
		t.Errorf("city = %q", p.Address.City)
	}
	if err := Set(p, []string{"age"}, "42"); err != nil {
		t.Fatalf("Set age from string: %v", err)
	}
	if p.Age != 42 {
		t.Errorf("age = %d, want 42", p.Age)
	}
	if err := Set(p, []string{"age"}, 7.0); err != nil {
		t.Fatalf("Set age from float: %v", err)
	}
	if p.Age != 7 {
		t.Errorf("age = %d, want 7", p.Age)
	}
}

func TestSetAbsentAncestor(t *testing.T) {
	p := &person{}
	err := Set(p, []string{"address", "city"}, "Paris")
	ae, ok := err.(*AbsentError)
	if !ok {
		t.Fatalf("expected *AbsentError, got %v", err)
	}
	if ae.Segment != "address" || ae.Index != 0 {
		t.Errorf("AbsentError = %+v", ae)
	}
}

func TestSetMapRecord(t *testing.T) {
	m := map[string]any{"user": map[string]any{"name": "a"}}
	if err := Set(m, []string{"user", "name"}, "b"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ := Get(m, []string{"user", "name"})
	if got != "b" {
		t.Errorf("user.name = %v, want b", got)
	}
}

func TestConvertRejects(t *testing.T) {
	if _, err := Convert("abc", reflect.TypeOf(0)); err == nil {
		t.Error("expected parse error")
	}
}

func TestClone(t *testing.T) {
	p := &person{Name: "A", Address: &address{City: "X"}, Tags: map[string]string{"k": "v"}}
	c := Clone(p).(*person)
	c.Address.City = "Y"
	c.Tags["k"] = "w"
	if p.Address.City != "X" || p.Tags["k"] != "v" {
		t.Error("Clone must not share nested data")
	}
}
