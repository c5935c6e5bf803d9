package testing

import (
	"strings"
	"testing"

	"github.com/go-drift/compose/pkg/compose"
	"github.com/go-drift/compose/pkg/toolkit"
	"github.com/go-drift/compose/pkg/widgets"
)

type deck struct {
	compose.Base
	Front *profile
	Back  *profile
}

var deckClass = compose.Define[deck]("deck")

func init() {
	compose.Field(deckClass, "front", func(d *deck) **profile { return &d.Front }, profileClass.MustNew)
	compose.Field(deckClass, "back", func(d *deck) **profile { return &d.Back }, profileClass.MustNew)
}

func TestFinders(t *testing.T) {
	tester := NewTesterWithT(t)
	p := MustMount(t, tester, profileClass)

	tests := []struct {
		name  string
		find  Finder
		count int
	}{
		{"by name", ByName("age"), 1},
		{"by type", ByType[*widgets.LineEdit](), 1},
		{"root is included", ByType[*profile](), 1},
		{"by text", ByText("Member"), 1},
		{"by text containing", ByTextContaining("ave"), 1},
		{"by predicate", ByPredicate(func(c toolkit.Component) bool {
			_, ok := c.(toolkit.EventSource)
			return ok
		}), 6},
		{"no match", ByName("missing"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tester.Find(p, tt.find)
			if r.Count() != tt.count {
				t.Errorf("%s matched %d, want %d", tt.find.Description(), r.Count(), tt.count)
			}
			if r.Exists() != (tt.count > 0) {
				t.Errorf("Exists = %v", r.Exists())
			}
		})
	}
}

func TestFinderResultAccessors(t *testing.T) {
	tester := NewTesterWithT(t)
	p := MustMount(t, tester, profileClass)

	r := tester.Find(p, ByType[*widgets.Label]())
	if r.First() != toolkit.Component(p.Title) || r.At(0) != r.First() {
		t.Error("First/At do not return the title label")
	}
	if v, ok := r.Property("text"); !ok || v != " (0)" {
		t.Errorf("text property = %v, %v", v, ok)
	}
	if len(r.All()) != 1 {
		t.Errorf("All = %v", r.All())
	}

	none := tester.Find(p, ByName("missing"))
	if none.FirstOrNil() != nil {
		t.Error("FirstOrNil should be nil without matches")
	}
	assertPanics(t, "ByName(\"missing\")", func() { none.First() })
	assertPanics(t, "out of range", func() { r.At(3) })
}

func TestDescendantFinder(t *testing.T) {
	tester := NewTesterWithT(t)
	d := MustMount(t, tester, deckClass)

	all := tester.Find(d, ByName("name"))
	if all.Count() != 2 {
		t.Fatalf("expected one name field per card, got %d", all.Count())
	}

	front := tester.Find(d, Descendant(ByName("front"), ByName("name")))
	if front.Count() != 1 || front.First() != toolkit.Component(d.Front.Name) {
		t.Errorf("descendant of front = %v", front.All())
	}

	// The root itself is not its own descendant.
	self := tester.Find(d, Descendant(ByType[*deck](), ByType[*deck]()))
	if self.Exists() {
		t.Error("Descendant matched the ancestor itself")
	}
}

func assertPanics(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Errorf("expected a panic mentioning %q", want)
			return
		}
		if msg, _ := r.(string); !strings.Contains(msg, want) {
			t.Errorf("panic %v does not mention %q", r, want)
		}
	}()
	fn()
}
