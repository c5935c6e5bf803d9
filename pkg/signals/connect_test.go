package signals

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-drift/compose/pkg/dispatch"
	"github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/field"
	"github.com/go-drift/compose/pkg/widgets"
)

type owner struct {
	clicks int
	texts  []string
	saved  chan struct{}
}

func (o *owner) OnClick()              { o.clicks++ }
func (o *owner) OnText(s string)       { o.texts = append(o.texts, s) }
func (o *owner) OnValue(v int64) error { return fmt.Errorf("value %d rejected", v) }
func (o *owner) Save(ctx context.Context) error {
	close(o.saved)
	return nil
}

type recorder struct {
	errs []*errors.ComposeError
}

func (r *recorder) HandleError(err *errors.ComposeError) { r.errs = append(r.errs, err) }
func (r *recorder) HandlePanic(*errors.PanicError)       {}

func TestMethodNameHandler(t *testing.T) {
	o := &owner{}
	btn := widgets.NewButton("Go")
	k := &Connector{Owner: o}
	disconnects, err := k.Connect(btn, []field.Arg{{Name: "clicked", Value: "OnClick"}})
	if err != nil {
		t.Fatal(err)
	}
	btn.Click()
	btn.Click()
	if o.clicks != 2 {
		t.Errorf("clicks = %d, want 2", o.clicks)
	}
	for _, d := range disconnects {
		d()
	}
	btn.Click()
	if o.clicks != 2 {
		t.Error("handler still attached after disconnect")
	}
}

func TestHandlerReceivesArgumentPrefix(t *testing.T) {
	o := &owner{}
	edit := widgets.NewLineEdit()
	var calls int
	k := &Connector{Owner: o}
	_, err := k.Connect(edit, []field.Arg{
		{Name: "text_changed", Value: "OnText"},
		{Name: "text_changed", Value: func() { calls++ }},
	})
	if err != nil {
		t.Fatal(err)
	}
	edit.Edit("hello")
	if len(o.texts) != 1 || o.texts[0] != "hello" {
		t.Errorf("texts = %v", o.texts)
	}
	if calls != 1 {
		t.Errorf("zero-arity handler calls = %d", calls)
	}
}

func TestHandlerConvertsArguments(t *testing.T) {
	rec := &recorder{}
	errors.SetHandler(rec)
	defer errors.SetHandler(nil)

	spin := widgets.NewSpinBox()
	k := &Connector{Owner: &owner{}}
	if _, err := k.Connect(spin, []field.Arg{{Name: "value_changed", Value: "OnValue"}}); err != nil {
		t.Fatal(err)
	}
	spin.SetValue(7)
	if len(rec.errs) != 1 || rec.errs[0].Err.Error() != "value 7 rejected" {
		t.Errorf("reported = %+v", rec.errs)
	}
}

func TestPropertyFallback(t *testing.T) {
	edit := widgets.NewLineEdit()
	k := &Connector{Owner: &owner{}}
	_, err := k.Connect(edit, []field.Arg{
		{Name: "placeholder", Value: "OnText"},
		{Name: "tooltip", Value: "Your name"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if edit.Placeholder() != "OnText" {
		t.Errorf("placeholder = %q; string values for properties are literal", edit.Placeholder())
	}
	if edit.Tooltip() != "Your name" {
		t.Errorf("tooltip = %q", edit.Tooltip())
	}
}

func TestUnknownKeyword(t *testing.T) {
	k := &Connector{Owner: &owner{}}
	for _, arg := range []field.Arg{
		{Name: "colour", Value: "red"},
		{Name: "hovered", Value: func() {}},
	} {
		_, err := k.Connect(widgets.NewLabel("x"), []field.Arg{arg})
		if !errors.Is(err, errors.ErrUnknownKeyword) {
			t.Errorf("Connect(%s) err = %v", arg.Name, err)
		}
	}
}

func TestMissingMethodDetachesEarlierHandlers(t *testing.T) {
	btn := widgets.NewButton("x")
	k := &Connector{Owner: &owner{}}
	_, err := k.Connect(btn, []field.Arg{
		{Name: "clicked", Value: "OnClick"},
		{Name: "pressed", Value: "NoSuchMethod"},
	})
	if err == nil {
		t.Fatal("expected error for missing method")
	}
	ev, _ := btn.Event("clicked")
	if ev.(*widgets.Signal).HandlerCount() != 0 {
		t.Error("handler left attached after failed connect")
	}
}

func TestAsyncMethodRunsOnLoop(t *testing.T) {
	o := &owner{saved: make(chan struct{})}
	loop := dispatch.New()
	btn := widgets.NewButton("Save")
	k := &Connector{Owner: o, Loop: loop}
	if _, err := k.Connect(btn, []field.Arg{{Name: "clicked", Value: "Save"}}); err != nil {
		t.Fatal(err)
	}
	btn.Click()
	select {
	case <-o.saved:
	case <-time.After(5 * time.Second):
		t.Fatal("async handler did not run")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loop.Idle(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestAsyncValue(t *testing.T) {
	loop := dispatch.New()
	done := make(chan struct{})
	btn := widgets.NewButton("x")
	k := &Connector{Loop: loop}
	_, err := k.Connect(btn, []field.Arg{{Name: "clicked", Value: Async(func(context.Context) error {
		close(done)
		return nil
	})}})
	if err != nil {
		t.Fatal(err)
	}
	btn.Click()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("async handler did not run")
	}
}

func TestAsyncPostsWritesToLoop(t *testing.T) {
	loop := dispatch.New()
	label := widgets.NewLabel("")
	btn := widgets.NewButton("Load")
	k := &Connector{Loop: loop}
	_, err := k.Connect(btn, []field.Arg{{Name: "clicked", Value: Async(func(ctx context.Context) error {
		if !dispatch.Post(ctx, func() { label.SetText("loaded") }) {
			return fmt.Errorf("handler context carries no loop")
		}
		return nil
	})}})
	if err != nil {
		t.Fatal(err)
	}
	btn.Click()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loop.Idle(ctx); err != nil {
		t.Fatal(err)
	}
	if label.Text() != "loaded" {
		t.Errorf("label = %q, want loaded", label.Text())
	}
}
