package testing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-drift/compose/pkg/compose"
	cerrors "github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/field"
	"github.com/go-drift/compose/pkg/layout"
	"github.com/go-drift/compose/pkg/widgets"
)

type person struct {
	Name   string `yaml:"name"`
	Age    int    `yaml:"age"`
	Role   string `yaml:"role"`
	Member bool   `yaml:"member"`
}

type profile struct {
	compose.Bound[person]
	Name   *widgets.LineEdit
	Age    *widgets.SpinBox
	Role   *widgets.ComboBox
	Member *widgets.CheckBox
	Title  *widgets.Label
	Save   *widgets.Button

	saved chan struct{}
	fail  bool
}

func (p *profile) Setup() error {
	p.saved = make(chan struct{}, 4)
	return nil
}

func (p *profile) Submit(ctx context.Context) error {
	p.saved <- struct{}{}
	if p.fail {
		return errors.New("offline")
	}
	return nil
}

var profileClass = compose.Define[profile]("profile", compose.WithLayout(layout.Form))

func init() {
	compose.RecordField(profileClass, func() *person { return &person{Role: "dev"} })
	compose.Field(profileClass, "name", func(p *profile) **widgets.LineEdit { return &p.Name },
		widgets.NewLineEdit, field.FormLabel("Name"))
	compose.Field(profileClass, "age", func(p *profile) **widgets.SpinBox { return &p.Age },
		widgets.NewSpinBox, field.FormLabel("Age"))
	compose.Field(profileClass, "role", func(p *profile) **widgets.ComboBox { return &p.Role },
		func() *widgets.ComboBox { return widgets.NewComboBox("dev", "ops") })
	compose.Field(profileClass, "member", func(p *profile) **widgets.CheckBox { return &p.Member },
		func() *widgets.CheckBox { return widgets.NewCheckBox("Member") })
	compose.Field(profileClass, "title", func(p *profile) **widgets.Label { return &p.Title },
		func() *widgets.Label { return widgets.NewLabel("") }, field.Bind("{upper(name)} ({age})"))
	compose.Field(profileClass, "save", func(p *profile) **widgets.Button { return &p.Save },
		func() *widgets.Button { return widgets.NewButton("Save") }, field.Kw("clicked", "Submit"))
}

func TestMountAndEnterText(t *testing.T) {
	tester := NewTesterWithT(t)
	p := MustMount(t, tester, profileClass)

	if p.Loop() != tester.Loop() {
		t.Fatal("expected the instance to run on the tester loop")
	}
	if err := tester.EnterText(p, ByName("name"), "ada"); err != nil {
		t.Fatal(err)
	}
	if got := p.Record().Name; got != "ada" {
		t.Errorf("record name = %q, want ada", got)
	}
	if !tester.Find(p, ByText("ADA (0)")).Exists() {
		t.Errorf("title = %q, want ADA (0)", p.Title.Text())
	}
}

func TestStepToggleSelect(t *testing.T) {
	tester := NewTesterWithT(t)
	p := MustMount(t, tester, profileClass)

	if err := tester.Step(p, ByName("age"), 3); err != nil {
		t.Fatal(err)
	}
	if err := tester.Toggle(p, ByName("member")); err != nil {
		t.Fatal(err)
	}
	if err := tester.Select(p, ByName("role"), "ops"); err != nil {
		t.Fatal(err)
	}

	rec := p.Record()
	if rec.Age != 3 || !rec.Member || rec.Role != "ops" {
		t.Errorf("record = %+v", *rec)
	}
	if p.Title.Text() != " (3)" {
		t.Errorf("title = %q", p.Title.Text())
	}
	if err := tester.Select(p, ByName("role"), "qa"); err == nil {
		t.Error("expected an error for an unknown item")
	}
}

func TestInteractionErrors(t *testing.T) {
	tester := NewTesterWithT(t)
	p := MustMount(t, tester, profileClass)

	tests := []struct {
		name string
		run  func() error
		want string
	}{
		{"no match", func() error { return tester.Tap(p, ByName("missing")) }, "matched no components"},
		{"label is read only", func() error { return tester.EnterText(p, ByName("title"), "x") }, "does not accept text input"},
		{"line edit is not clickable", func() error { return tester.Tap(p, ByName("name")) }, "is not clickable"},
		{"button is not checkable", func() error { return tester.Toggle(p, ByName("save")) }, "is not checkable"},
		{"spin box has no items", func() error { return tester.Select(p, ByName("age"), "1") }, "has no items"},
		{"label is not steppable", func() error { return tester.Step(p, ByName("title"), 1) }, "is not steppable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestTapRunsAsyncHandler(t *testing.T) {
	tester := NewTesterWithT(t)
	p := MustMount(t, tester, profileClass)

	if err := tester.Tap(p, ByText("Save")); err != nil {
		t.Fatal(err)
	}
	if err := tester.Settle(time.Second); err != nil {
		t.Fatal(err)
	}
	if len(p.saved) != 1 {
		t.Errorf("Submit ran %d times, want 1", len(p.saved))
	}
	if errs := tester.Errors(); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestAsyncHandlerErrorIsCollected(t *testing.T) {
	tester := NewTesterWithT(t)
	p := MustMount(t, tester, profileClass)
	p.fail = true

	if err := tester.Tap(p, ByName("save")); err != nil {
		t.Fatal(err)
	}
	if err := tester.Settle(time.Second); err != nil {
		t.Fatal(err)
	}
	errs := tester.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if !strings.Contains(errs[0].Error(), "offline") {
		t.Errorf("error = %v", errs[0])
	}

	tester.Reset()
	if len(tester.Errors()) != 0 {
		t.Error("Reset did not clear errors")
	}
}

func TestSettleTimeout(t *testing.T) {
	tester := NewTesterWithT(t)
	release := make(chan struct{})
	tester.Loop().Go(context.Background(), "slow", func(context.Context) error {
		<-release
		return nil
	})

	if err := tester.Settle(10 * time.Millisecond); !errors.Is(err, ErrSettleTimeout) {
		t.Fatalf("got %v, want ErrSettleTimeout", err)
	}
	close(release)
	if err := tester.Settle(0); err != nil {
		t.Fatalf("settle after release: %v", err)
	}
}

func TestMountFailure(t *testing.T) {
	type broken struct {
		compose.Base
		Name *widgets.LineEdit
	}
	cls := compose.Define[broken]("broken")
	compose.Field(cls, "name", func(b *broken) **widgets.LineEdit { return &b.Name },
		widgets.NewLineEdit, field.Kw("no_such_property", 1))

	tester := NewTesterWithT(t)
	inst, err := Mount(tester, cls)
	if err == nil || inst != nil {
		t.Fatalf("Mount = %v, %v; want an error", inst, err)
	}
	if !cerrors.IsConfiguration(err) {
		t.Errorf("expected a configuration error, got %v", err)
	}
}

func TestCleanupRestoresHandlerAndDestroys(t *testing.T) {
	prev := cerrors.DefaultHandler
	tester := NewTester()
	if cerrors.DefaultHandler != cerrors.ErrorHandler(tester) {
		t.Fatal("tester is not the active handler")
	}
	p, err := Mount(tester, profileClass)
	if err != nil {
		t.Fatal(err)
	}

	tester.Cleanup()
	if cerrors.DefaultHandler != prev {
		t.Error("previous handler not restored")
	}
	if !p.Destroyed() {
		t.Error("mounted instance not destroyed")
	}
}

type stubborn struct {
	compose.Base
}

func (s *stubborn) Teardown(ctx context.Context) error {
	return errors.New("still saving")
}

var stubbornClass = compose.Define[stubborn]("stubborn")

type handlerLog struct {
	errs []*cerrors.ComposeError
}

func (h *handlerLog) HandleError(err *cerrors.ComposeError) { h.errs = append(h.errs, err) }
func (h *handlerLog) HandlePanic(*cerrors.PanicError)       {}

// failT records Errorf calls and keeps cleanups for the test to run.
type failT struct {
	testing.TB
	msgs     []string
	cleanups []func()
}

func (f *failT) Errorf(format string, args ...any) {
	f.msgs = append(f.msgs, fmt.Sprintf(format, args...))
}
func (f *failT) Cleanup(fn func()) { f.cleanups = append(f.cleanups, fn) }

func TestCleanupFailsTestOnTeardownError(t *testing.T) {
	ft := &failT{TB: t}
	tester := NewTesterWithT(ft)
	if _, err := Mount(tester, stubbornClass); err != nil {
		t.Fatal(err)
	}
	for _, fn := range ft.cleanups {
		fn()
	}
	if len(ft.msgs) != 1 || !strings.Contains(ft.msgs[0], "still saving") {
		t.Errorf("Errorf calls = %v", ft.msgs)
	}
}

func TestCleanupReportsTeardownError(t *testing.T) {
	orig := cerrors.DefaultHandler
	defer cerrors.SetHandler(orig)
	log := &handlerLog{}
	cerrors.SetHandler(log)

	tester := NewTester()
	if _, err := Mount(tester, stubbornClass); err != nil {
		t.Fatal(err)
	}
	tester.Cleanup()
	if len(log.errs) != 1 || !strings.Contains(log.errs[0].Error(), "still saving") {
		t.Errorf("reported = %v", log.errs)
	}
}

func TestUndoGroupingFollowsClock(t *testing.T) {
	tester := NewTesterWithT(t)
	cls := profileClass.With(compose.WithUndo(10, 500*time.Millisecond))
	p := MustMount(t, tester, cls)

	tester.EnterText(p, ByName("name"), "a")
	tester.Clock().Advance(100 * time.Millisecond)
	tester.EnterText(p, ByName("name"), "ab")
	tester.Clock().Advance(time.Second)
	tester.EnterText(p, ByName("name"), "abc")

	if !p.Undo() {
		t.Fatal("expected an undo step")
	}
	if got := p.Name.Text(); got != "ab" {
		t.Errorf("after first undo name = %q, want ab", got)
	}
	if !p.Undo() {
		t.Fatal("expected a second undo step")
	}
	if got := p.Record().Name; got != "" {
		t.Errorf("after second undo name = %q, want empty", got)
	}
	if p.CanUndo() {
		t.Error("edits within the debounce window should form one step")
	}
}

func TestFakeClock(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()
	clk.Advance(250 * time.Millisecond)
	if elapsed := clk.Now().Sub(start); elapsed != 250*time.Millisecond {
		t.Errorf("elapsed = %v", elapsed)
	}

	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	clk.Set(target)
	if !clk.Now().Equal(target) {
		t.Errorf("got %v, want %v", clk.Now(), target)
	}
}
