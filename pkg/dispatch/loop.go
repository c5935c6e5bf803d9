// Package dispatch provides the cooperative event loop that binding
// callbacks, async handlers and teardown run on.
//
// Store notifications and UI edits are delivered synchronously on the loop's
// goroutine. Work started with [Loop.Go] runs on its own goroutine and must
// post any store writes back with [Post] on the context it receives.
package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-drift/compose/pkg/errors"
)

// Loop is a queue of callbacks drained on one goroutine.
type Loop struct {
	mu       sync.Mutex
	queue    []func()
	wake     chan struct{}
	inflight atomic.Int64
}

// New creates an empty Loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

var (
	defaultLoop     *Loop
	defaultLoopOnce sync.Once
)

// Default returns the process-wide loop.
func Default() *Loop {
	defaultLoopOnce.Do(func() { defaultLoop = New() })
	return defaultLoop
}

// Post schedules fn to run on the next Drain. Safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.signal()
}

type loopKey struct{}

// WithLoop returns a context that carries l for Post.
func WithLoop(ctx context.Context, l *Loop) context.Context {
	return context.WithValue(ctx, loopKey{}, l)
}

// FromContext returns the loop carried by ctx, or nil.
func FromContext(ctx context.Context) *Loop {
	l, _ := ctx.Value(loopKey{}).(*Loop)
	return l
}

// Post schedules fn on the loop carried by ctx. Functions started with
// [Loop.Go] or [Loop.Await] receive such a context, so they can hand store
// writes back to the loop goroutine. It reports false when ctx carries no
// loop; fn is not run in that case.
func Post(ctx context.Context, fn func()) bool {
	l := FromContext(ctx)
	if l == nil {
		return false
	}
	l.Post(fn)
	return true
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// InFlight returns the number of async tasks started with Go that have not
// finished.
func (l *Loop) InFlight() int {
	return int(l.inflight.Load())
}

// Drain runs every queued callback, including callbacks posted while
// draining, and returns how many ran. A panicking callback is reported and
// does not stop the drain.
func (l *Loop) Drain() int {
	n := 0
	for {
		l.mu.Lock()
		callbacks := l.queue
		l.queue = nil
		l.mu.Unlock()
		if len(callbacks) == 0 {
			return n
		}
		for _, cb := range callbacks {
			run(cb)
			n++
		}
	}
}

func run(cb func()) {
	defer errors.Recover("dispatch.callback")
	cb()
}

// Go runs fn on a new goroutine without waiting for it. fn must not touch
// loop-owned state directly; its context carries l for [Post]. A returned
// error is reported through the global error handler from the loop goroutine.
func (l *Loop) Go(ctx context.Context, op string, fn func(context.Context) error) {
	ctx = WithLoop(ctx, l)
	l.inflight.Add(1)
	go func() {
		defer func() {
			l.inflight.Add(-1)
			l.signal()
		}()
		err := call(ctx, op, fn)
		if err == nil {
			return
		}
		var pe *errors.PanicError
		if errors.As(err, &pe) {
			return
		}
		l.Post(func() { errors.ReportErr(op, errors.KindUnknown, err) })
	}()
}

func call(ctx context.Context, op string, fn func(context.Context) error) (err error) {
	defer errors.RecoverInto(op, &err)
	return fn(ctx)
}

// Await runs fn on a new goroutine and drains the loop on the calling
// goroutine until fn returns, so fn may Post work and wait for it.
func (l *Loop) Await(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx = WithLoop(ctx, l)
	done := make(chan error, 1)
	go func() {
		done <- call(ctx, op, fn)
		l.signal()
	}()
	for {
		l.Drain()
		select {
		case err := <-done:
			l.Drain()
			return err
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Idle drains the loop until no callbacks are queued and no async task is in
// flight.
func (l *Loop) Idle(ctx context.Context) error {
	for {
		l.Drain()
		if l.InFlight() == 0 && l.Pending() == 0 {
			return nil
		}
		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Run drains the loop as callbacks arrive until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
