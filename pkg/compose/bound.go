package compose

import (
	"fmt"

	"github.com/go-drift/compose/pkg/reactive"
)

// Bound is Base plus a record of type R wrapped in a reactive.Proxy. The
// record is attached after the SetupBindings hook; until then Record returns
// nil unless SetRecord was called.
//
// The validation, dirty tracking, undo and persistence methods delegate to
// the Proxy.
type Bound[R any] struct {
	Base
	rec   *R
	proxy *reactive.Proxy
}

// recordHolder is implemented by every Bound[R].
type recordHolder interface {
	newRecord() any
	pendingRecord() any
	attach(p *reactive.Proxy) error
}

func (b *Bound[R]) newRecord() any { return new(R) }

func (b *Bound[R]) pendingRecord() any {
	if b.rec == nil {
		return nil
	}
	return b.rec
}

func (b *Bound[R]) attach(p *reactive.Proxy) error {
	rec, ok := p.Record().(*R)
	if !ok {
		return fmt.Errorf("record is %T, want %T", p.Record(), (*R)(nil))
	}
	b.rec = rec
	b.proxy = p
	return nil
}

// SetRecord assigns the record. Use it in Setup for a DeferredRecord class.
func (b *Bound[R]) SetRecord(rec *R) { b.rec = rec }

// Record returns the attached record.
func (b *Bound[R]) Record() *R { return b.rec }

// Proxy returns the record store.
func (b *Bound[R]) Proxy() *reactive.Proxy { return b.proxy }

// Set writes value at a dotted path through the store, notifying bindings.
func (b *Bound[R]) Set(path []string, value any) error { return b.proxy.Set(path, value) }

// AddValidator registers a validator for a top-level record field.
func (b *Bound[R]) AddValidator(field string, v reactive.Validator) { b.proxy.AddValidator(field, v) }

// IsValid reports whether every validator passes.
func (b *Bound[R]) IsValid() bool { return b.proxy.IsValid() }

// Failures returns the current validation failures by field.
func (b *Bound[R]) Failures() map[string]error { return b.proxy.Failures() }

// IsDirty reports whether the record differs from its baseline.
func (b *Bound[R]) IsDirty() bool { return b.proxy.IsDirty() }

// DirtyFields lists the top-level fields that differ from the baseline.
func (b *Bound[R]) DirtyFields() []string { return b.proxy.DirtyFields() }

// ResetDirty makes the current record the baseline.
func (b *Bound[R]) ResetDirty() { b.proxy.ResetDirty() }

// Undo reverts the last change.
func (b *Bound[R]) Undo() bool { return b.proxy.Undo() }

// Redo reapplies the last undone change.
func (b *Bound[R]) Redo() bool { return b.proxy.Redo() }

// CanUndo reports whether Undo has a step.
func (b *Bound[R]) CanUndo() bool { return b.proxy.CanUndo() }

// CanRedo reports whether Redo has a step.
func (b *Bound[R]) CanRedo() bool { return b.proxy.CanRedo() }

// SaveTo writes the record to path as YAML or JSON by extension.
func (b *Bound[R]) SaveTo(path string) error { return b.proxy.SaveTo(path) }

// LoadFrom replaces the record with the contents of path.
func (b *Bound[R]) LoadFrom(path string) error { return b.proxy.LoadFrom(path) }
