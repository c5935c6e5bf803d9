package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestComposeErrorString(t *testing.T) {
	err := &ComposeError{
		Op:   "binding.Apply",
		Kind: KindBinding,
		Err:  &BindingResolutionError{Path: "address.city", Segment: "address"},
	}
	got := err.Error()
	if got == "" {
		t.Error("expected non-empty error string")
	}
	if !strings.Contains(got, "[binding]") {
		t.Errorf("error string %q should contain kind", got)
	}
}

func TestComposeErrorWithField(t *testing.T) {
	err := &ComposeError{
		Op:    "compose.New",
		Kind:  KindConfiguration,
		Field: "label",
		Err:   ErrNoDefaultProperty,
	}
	want := "field=label"
	if got := err.Error(); !strings.Contains(got, want) {
		t.Errorf("error string %q should contain %q", got, want)
	}
	if !Is(err, ErrNoDefaultProperty) {
		t.Error("ComposeError should unwrap to its cause")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindConfiguration, "configuration"},
		{KindBinding, "binding"},
		{KindValidation, "validation"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestConfigurationError(t *testing.T) {
	err := &ConfigurationError{Class: "Profile", Field: "avatar", Err: ErrDeferredUnset}
	want := "configuration error in Profile.avatar: deferred field was not assigned in Setup"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	wrapped := fmt.Errorf("construct: %w", err)
	if !IsConfiguration(wrapped) {
		t.Error("IsConfiguration should see through wrapping")
	}
	if !Is(wrapped, ErrDeferredUnset) {
		t.Error("ConfigurationError should unwrap to its sentinel")
	}
}

func TestBindingResolutionErrorUnwrap(t *testing.T) {
	err := &BindingResolutionError{Path: "a.b", Segment: "a"}
	if !Is(err, ErrAbsentSegment) {
		t.Error("BindingResolutionError should unwrap to ErrAbsentSegment")
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestPanicErrorStringWithOp(t *testing.T) {
	err := &PanicError{
		Op:    "compose.Setup",
		Value: "test panic",
	}
	want := "panic in compose.Setup: test panic"
	if got := err.Error(); got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

type recordingHandler struct {
	errors []*ComposeError
	panics []*PanicError
}

func (h *recordingHandler) HandleError(err *ComposeError) { h.errors = append(h.errors, err) }
func (h *recordingHandler) HandlePanic(err *PanicError)   { h.panics = append(h.panics, err) }

func TestReportSetsTimestamp(t *testing.T) {
	h := &recordingHandler{}
	SetHandler(h)
	defer SetHandler(nil)

	Report(&ComposeError{Op: "test", Err: New("boom")})
	Report(nil)

	if len(h.errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(h.errors))
	}
	if h.errors[0].Timestamp.IsZero() {
		t.Error("Report should stamp the error")
	}
}

func TestRecoverInto(t *testing.T) {
	h := &recordingHandler{}
	SetHandler(h)
	defer SetHandler(nil)

	var err error
	func() {
		defer RecoverInto("test.op", &err)
		panic("kaboom")
	}()

	if err == nil {
		t.Fatal("expected recovered error")
	}
	var pe *PanicError
	if !As(err, &pe) || pe.Op != "test.op" {
		t.Errorf("expected PanicError for test.op, got %v", err)
	}
	if len(h.panics) != 1 {
		t.Errorf("expected panic to be reported once, got %d", len(h.panics))
	}
}

func TestLogHandlerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	h := NewLogHandler(logger)
	h.HandleError(&ComposeError{
		Op:    "binding.WriteBack",
		Kind:  KindBinding,
		Field: "city",
		Err:   &BindingResolutionError{Path: "address.city", Segment: "address"},
	})

	out := buf.String()
	for _, want := range []string{"op=binding.WriteBack", "kind=binding", "field=city", "path=address.city"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q should contain %q", out, want)
		}
	}
}
