package testing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-drift/compose/pkg/compose"
	"github.com/go-drift/compose/pkg/dispatch"
	cerrors "github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/toolkit"
)

// DefaultSettleTimeout bounds Settle when no timeout is given.
const DefaultSettleTimeout = 5 * time.Second

// ErrSettleTimeout is returned when Settle exceeds its timeout.
var ErrSettleTimeout = errors.New("Settle timed out: loop did not go idle")

// Tester builds components on a private dispatch loop with a fake clock and
// collects everything reported to the global error handler.
type Tester struct {
	loop  *dispatch.Loop
	clock *FakeClock
	prev  cerrors.ErrorHandler

	mu     sync.Mutex
	errs   []*cerrors.ComposeError
	panics []*cerrors.PanicError

	mounted []destroyer
	tb      testing.TB
}

type destroyer interface {
	Destroy() error
}

var _ cerrors.ErrorHandler = (*Tester)(nil)

// NewTester creates a tester and installs it as the global error handler.
// Call Cleanup when done, or use NewTesterWithT instead.
func NewTester() *Tester {
	t := &Tester{
		loop:  dispatch.New(),
		clock: NewFakeClock(),
		prev:  cerrors.DefaultHandler,
	}
	cerrors.SetHandler(t)
	return t
}

// NewTesterWithT creates a tester that cleans up via t.Cleanup.
// This is the recommended constructor for tests.
func NewTesterWithT(t testing.TB) *Tester {
	tester := NewTester()
	tester.tb = t
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup destroys mounted instances newest first and restores the previous
// error handler. A failed Destroy fails the test when the tester came from
// NewTesterWithT; otherwise it is reported to the restored handler.
func (t *Tester) Cleanup() {
	var errs []error
	for i := len(t.mounted) - 1; i >= 0; i-- {
		if err := t.mounted[i].Destroy(); err != nil {
			errs = append(errs, err)
		}
	}
	t.mounted = nil
	cerrors.SetHandler(t.prev)
	for _, err := range errs {
		if t.tb != nil {
			t.tb.Errorf("cleanup: destroy: %v", err)
			continue
		}
		cerrors.ReportErr("testing.Cleanup", cerrors.KindUnknown, err)
	}
}

// Clock returns the fake clock used for undo debouncing.
func (t *Tester) Clock() *FakeClock { return t.clock }

// Loop returns the tester's dispatch loop.
func (t *Tester) Loop() *dispatch.Loop { return t.loop }

// Options returns the options that route a class through this tester.
func (t *Tester) Options() []compose.Option {
	return []compose.Option{compose.WithLoop(t.loop), compose.WithClock(t.clock)}
}

// Mount builds an instance of cls on the tester's loop and clock. The
// instance is destroyed by Cleanup.
func Mount[T any](t *Tester, cls *compose.Class[T]) (*T, error) {
	inst, err := cls.With(t.Options()...).New()
	if err != nil {
		return nil, err
	}
	if d, ok := any(inst).(destroyer); ok {
		t.mounted = append(t.mounted, d)
	}
	t.Pump()
	return inst, nil
}

// MustMount is like Mount but fails the test on error.
func MustMount[T any](tb testing.TB, t *Tester, cls *compose.Class[T]) *T {
	tb.Helper()
	inst, err := Mount(t, cls)
	if err != nil {
		tb.Fatalf("mount %s: %v", cls.Name(), err)
	}
	return inst
}

// Find evaluates f under root.
func (t *Tester) Find(root toolkit.Component, f Finder) FinderResult {
	return Find(root, f)
}

// Pump runs the callbacks queued on the loop and returns how many ran.
func (t *Tester) Pump() int {
	return t.loop.Drain()
}

// Settle pumps until no callback is queued and no async handler is in
// flight. A zero timeout uses DefaultSettleTimeout.
func (t *Tester) Settle(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultSettleTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := t.loop.Idle(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrSettleTimeout
		}
		return err
	}
	return nil
}

// HandleError implements errors.ErrorHandler.
func (t *Tester) HandleError(err *cerrors.ComposeError) {
	t.mu.Lock()
	t.errs = append(t.errs, err)
	t.mu.Unlock()
}

// HandlePanic implements errors.ErrorHandler.
func (t *Tester) HandlePanic(err *cerrors.PanicError) {
	t.mu.Lock()
	t.panics = append(t.panics, err)
	t.mu.Unlock()
}

// Errors returns the errors reported since the tester was created.
func (t *Tester) Errors() []*cerrors.ComposeError {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*cerrors.ComposeError(nil), t.errs...)
}

// Panics returns the recovered panics reported since the tester was created.
func (t *Tester) Panics() []*cerrors.PanicError {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*cerrors.PanicError(nil), t.panics...)
}

// Reset forgets collected errors and panics.
func (t *Tester) Reset() {
	t.mu.Lock()
	t.errs, t.panics = nil, nil
	t.mu.Unlock()
}
