// Package reactive is the change-notification store the binding engine
// consumes. It provides State, a reactive wrapper for single values, and
// Proxy, which wraps a data record with path subscriptions, validation,
// dirty tracking, undo and persistence.
//
// Everything here is single-threaded: it must only be used from the UI
// thread (see package dispatch for posting work from goroutines).
package reactive

// Notifier keeps an ordered set of listeners.
type Notifier struct {
	listeners []*listener
}

type listener struct {
	fn func()
}

// AddListener registers fn and returns a function that removes it.
// Calling the returned function more than once is a no-op.
func (n *Notifier) AddListener(fn func()) func() {
	l := &listener{fn: fn}
	n.listeners = append(n.listeners, l)
	return func() {
		for i, cur := range n.listeners {
			if cur == l {
				n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
				return
			}
		}
	}
}

// Notify calls every listener registered at the time of the call.
// Listeners added or removed during notification take effect next time.
func (n *Notifier) Notify() {
	snapshot := append([]*listener(nil), n.listeners...)
	for _, l := range snapshot {
		l.fn()
	}
}

// ListenerCount returns the number of registered listeners.
func (n *Notifier) ListenerCount() int {
	return len(n.listeners)
}
