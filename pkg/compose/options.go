package compose

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/go-drift/compose/pkg/config"
	"github.com/go-drift/compose/pkg/dispatch"
	"github.com/go-drift/compose/pkg/layout"
	"github.com/go-drift/compose/pkg/reactive"
	"github.com/go-drift/compose/pkg/toolkit"
	"github.com/go-drift/compose/pkg/widgets"
)

// Options configure a class.
type Options struct {
	// Layout selects how children are placed.
	Layout layout.Mode
	// AutoBind binds children without an explicit bind to the record field
	// of the same name.
	AutoBind bool
	// Undo configures the record's undo history.
	Undo reactive.UndoOptions
	// DisplayName is applied to instances that accept styling.
	DisplayName string
	// StyleClasses are applied to instances that accept styling.
	StyleClasses []string
	// Registry resolves default bind properties.
	Registry *toolkit.Registry
	// Loop runs async handlers and teardown.
	Loop *dispatch.Loop
	// Toolkit creates layout containers.
	Toolkit toolkit.Factory
	// Context is handed to async handlers and Teardown.
	Context context.Context
	// Trace, when set, is called as each phase is entered.
	Trace func(class string, p Phase)
}

var (
	defaultRegistry     *toolkit.Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared registry of the headless widgets.
func DefaultRegistry() *toolkit.Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = widgets.DefaultRegistry()
	})
	return defaultRegistry
}

// DefaultOptions returns the options derived from the active settings.
func DefaultOptions() Options {
	s := config.Active()
	mode, err := layout.ParseMode(s.Layout)
	if err != nil {
		mode = layout.Vertical
	}
	return Options{
		Layout:   mode,
		AutoBind: s.AutoBind,
		Undo: reactive.UndoOptions{
			Enabled:  s.Undo,
			Depth:    s.UndoDepth,
			Debounce: s.UndoDebounce,
		},
		Registry: DefaultRegistry(),
		Loop:     dispatch.Default(),
		Toolkit:  widgets.Factory{},
		Context:  context.Background(),
	}
}

// Option configures a class at definition.
type Option func(*Options)

// WithLayout sets the layout mode.
func WithLayout(mode layout.Mode) Option {
	return func(o *Options) { o.Layout = mode }
}

// WithAutoBind toggles auto-binding.
func WithAutoBind(on bool) Option {
	return func(o *Options) { o.AutoBind = on }
}

// WithUndo enables record undo history. Zero depth keeps the store default.
func WithUndo(depth int, debounce time.Duration) Option {
	return func(o *Options) {
		o.Undo.Enabled = true
		o.Undo.Depth = depth
		o.Undo.Debounce = debounce
	}
}

// WithClock sets the undo clock.
func WithClock(c reactive.Clock) Option {
	return func(o *Options) { o.Undo.Clock = c }
}

// WithDisplayName sets the display name.
func WithDisplayName(name string) Option {
	return func(o *Options) { o.DisplayName = name }
}

// WithStyleClasses sets the style classes.
func WithStyleClasses(classes ...string) Option {
	return func(o *Options) { o.StyleClasses = slices.Clone(classes) }
}

// WithRegistry sets the property registry.
func WithRegistry(r *toolkit.Registry) Option {
	return func(o *Options) { o.Registry = r }
}

// WithLoop sets the dispatch loop.
func WithLoop(l *dispatch.Loop) Option {
	return func(o *Options) { o.Loop = l }
}

// WithToolkit sets the layout factory.
func WithToolkit(f toolkit.Factory) Option {
	return func(o *Options) { o.Toolkit = f }
}

// WithContext sets the context passed to async handlers and Teardown.
func WithContext(ctx context.Context) Option {
	return func(o *Options) { o.Context = ctx }
}

// WithTrace installs a phase observer.
func WithTrace(fn func(class string, p Phase)) Option {
	return func(o *Options) { o.Trace = fn }
}

var logger = logrus.StandardLogger()

// SetLogger replaces the logger used for lifecycle tracing. Nil restores the
// logrus standard logger.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger = l
}
