package reactive

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"time"

	"github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/record"
)

// Validator checks a top-level record field value. A non-nil error marks the
// field invalid; it is kept as data on the Proxy and never returned from Set.
type Validator func(value any) error

// Clock supplies the current time for undo debouncing.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// UndoOptions configures the undo history of a Proxy.
type UndoOptions struct {
	// Enabled turns history recording on.
	Enabled bool
	// Depth caps the number of undo steps kept. Zero means 100.
	Depth int
	// Debounce merges successive writes to the same path that arrive within
	// this window into one undo step.
	Debounce time.Duration
	// Clock overrides the time source (tests use a fake clock).
	Clock Clock
}

// Option configures a Proxy.
type Option func(*Proxy)

// WithUndo enables undo history.
func WithUndo(opts UndoOptions) Option {
	return func(p *Proxy) {
		if opts.Depth <= 0 {
			opts.Depth = 100
		}
		if opts.Clock == nil {
			opts.Clock = systemClock{}
		}
		p.undoOpts = opts
	}
}

type change struct {
	path     []string
	old, new any
	at       time.Time
}

type pathSub struct {
	path []string
	fn   func()
}

// Proxy wraps a data record and notifies subscribers about changes at a path,
// its ancestors and its descendants.
type Proxy struct {
	rec        any
	subs       []*pathSub
	validators map[string][]Validator
	failures   map[string]*errors.ValidationFailure
	validation Notifier
	baseline   map[string]any
	undo, redo []change
	undoOpts   UndoOptions
}

// NewProxy wraps rec, which must be a non-nil pointer to a struct or a
// map[string]T.
func NewProxy(rec any, opts ...Option) (*Proxy, error) {
	v := reflect.ValueOf(rec)
	switch {
	case v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Kind() == reflect.Struct:
	case v.Kind() == reflect.Map && !v.IsNil() && v.Type().Key().Kind() == reflect.String:
	default:
		return nil, fmt.Errorf("reactive: record must be a non-nil struct pointer or string-keyed map, got %T", rec)
	}
	p := &Proxy{
		rec:        rec,
		validators: make(map[string][]Validator),
		failures:   make(map[string]*errors.ValidationFailure),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.ResetDirty()
	return p, nil
}

// Record returns the wrapped record.
func (p *Proxy) Record() any {
	return p.rec
}

// Get resolves path. See record.Get for the meaning of the returned index.
func (p *Proxy) Get(path []string) (any, int) {
	return record.Get(p.rec, path)
}

// Set writes value at path, records undo history, runs validators for the
// top-level field and notifies subscribers. Writing an equal value is a no-op.
func (p *Proxy) Set(path []string, value any) error {
	return p.set(path, value, true)
}

func (p *Proxy) set(path []string, value any, history bool) error {
	old, absent := record.Get(p.rec, path)
	if absent != record.Absent && absent < len(path)-1 {
		return &record.AbsentError{Index: absent, Segment: path[absent]}
	}
	old = record.Clone(old)
	if err := record.Set(p.rec, path, value); err != nil {
		return err
	}
	cur, _ := record.Get(p.rec, path)
	if absent == record.Absent && reflect.DeepEqual(old, cur) {
		return nil
	}
	if history {
		p.pushHistory(path, old, record.Clone(cur))
	}
	p.validate(path[0])
	p.notify(path)
	return nil
}

// Subscribe registers fn for changes touching path. An empty path receives
// every change.
func (p *Proxy) Subscribe(path []string, fn func()) func() {
	s := &pathSub{path: slices.Clone(path), fn: fn}
	p.subs = append(p.subs, s)
	return func() {
		if i := slices.Index(p.subs, s); i >= 0 {
			p.subs = slices.Delete(p.subs, i, i+1)
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (p *Proxy) SubscriberCount() int {
	return len(p.subs)
}

func (p *Proxy) notify(changed []string) {
	snapshot := slices.Clone(p.subs)
	for _, s := range snapshot {
		if related(s.path, changed) {
			s.fn()
		}
	}
}

func related(a, b []string) bool {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// AddValidator registers a validator for a top-level field and runs it
// immediately against the current value.
func (p *Proxy) AddValidator(field string, v Validator) {
	p.validators[field] = append(p.validators[field], v)
	p.validate(field)
}

func (p *Proxy) validate(field string) {
	vs := p.validators[field]
	if len(vs) == 0 {
		return
	}
	value, _ := record.Get(p.rec, []string{field})
	prev := p.failures[field]
	var failure *errors.ValidationFailure
	for _, v := range vs {
		if err := v(value); err != nil {
			failure = &errors.ValidationFailure{Field: field, Value: value, Err: err}
			break
		}
	}
	if failure == nil {
		delete(p.failures, field)
	} else {
		p.failures[field] = failure
	}
	if (prev == nil) != (failure == nil) || (prev != nil && failure != nil && prev.Err.Error() != failure.Err.Error()) {
		p.validation.Notify()
	}
}

// IsValid re-runs every validator and reports whether all pass.
func (p *Proxy) IsValid() bool {
	for field := range p.validators {
		p.validate(field)
	}
	return len(p.failures) == 0
}

// Failures returns the current validation failures keyed by field.
func (p *Proxy) Failures() map[string]error {
	out := make(map[string]error, len(p.failures))
	for k, v := range p.failures {
		out[k] = v
	}
	return out
}

// OnValidationChanged registers fn to run whenever the set of failures changes.
func (p *Proxy) OnValidationChanged(fn func()) func() {
	return p.validation.AddListener(fn)
}

func (p *Proxy) topLevel() []string {
	if names := record.Fields(reflect.TypeOf(p.rec)); names != nil {
		return names
	}
	keys := make(map[string]struct{})
	iter := reflect.ValueOf(p.rec).MapRange()
	for iter.Next() {
		keys[iter.Key().String()] = struct{}{}
	}
	for k := range p.baseline {
		keys[k] = struct{}{}
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ResetDirty makes the current record state the clean baseline.
func (p *Proxy) ResetDirty() {
	p.baseline = make(map[string]any)
	for _, name := range p.topLevel() {
		v, absent := record.Get(p.rec, []string{name})
		if absent == record.Absent {
			p.baseline[name] = record.Clone(v)
		}
	}
}

// DirtyFields lists top-level fields that differ from the baseline.
func (p *Proxy) DirtyFields() []string {
	var dirty []string
	for _, name := range p.topLevel() {
		cur, absent := record.Get(p.rec, []string{name})
		base, had := p.baseline[name]
		if (absent == record.Absent) != had || !reflect.DeepEqual(cur, base) {
			dirty = append(dirty, name)
		}
	}
	return dirty
}

// IsDirty reports whether any field differs from the baseline.
func (p *Proxy) IsDirty() bool {
	return len(p.DirtyFields()) > 0
}
