// Package config holds the runtime settings of the compose engine.
//
// Settings start from [Default], are overlaid by an optional compose.yaml and
// finally by COMPOSE_* environment variables:
//
//	COMPOSE_LOG_LEVEL=debug COMPOSE_UNDO=true ./app
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// FileName is the optional settings file looked up by Load.
const FileName = "compose.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "COMPOSE_"

// Settings are the engine-wide defaults.
type Settings struct {
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	// VerboseErrors adds stack traces to logged panics.
	VerboseErrors bool `yaml:"verbose_errors" env:"VERBOSE_ERRORS"`
	// AutoBind binds children to same-named record fields.
	AutoBind bool `yaml:"auto_bind" env:"AUTO_BIND"`
	// Layout is the default layout mode name.
	Layout string `yaml:"layout" env:"LAYOUT"`
	// Undo enables record undo history.
	Undo bool `yaml:"undo" env:"UNDO"`
	// UndoDepth caps the undo history.
	UndoDepth int `yaml:"undo_depth" env:"UNDO_DEPTH"`
	// UndoDebounce merges rapid writes to one path into one undo step.
	UndoDebounce time.Duration `yaml:"undo_debounce" env:"UNDO_DEBOUNCE"`
	// Binds lists bind expressions checked by `compose check`.
	Binds []BindCheck `yaml:"binds,omitempty" env:"-"`
}

// BindCheck is one expression entry of compose.yaml.
type BindCheck struct {
	Expr   string `yaml:"expr"`
	Target string `yaml:"target,omitempty"`
	Prop   string `yaml:"prop,omitempty"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		LogLevel:  "info",
		AutoBind:  true,
		Layout:    "vertical",
		UndoDepth: 100,
	}
}

// Load reads dir/compose.yaml over the defaults when it exists, then applies
// environment overrides.
func Load(dir string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse %s: %w", FileName, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Settings{}, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ParseEnv applies COMPOSE_* overrides to target. Unset variables leave the
// fields untouched.
func ParseEnv(target *Settings) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks field ranges.
func (s Settings) Validate() error {
	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if s.UndoDepth < 0 {
		return fmt.Errorf("undo_depth must not be negative, got %d", s.UndoDepth)
	}
	if s.UndoDebounce < 0 {
		return fmt.Errorf("undo_debounce must not be negative, got %s", s.UndoDebounce)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (s Settings) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

var (
	activeMu sync.RWMutex
	active   = Default()
)

// Active returns the process-wide settings.
func Active() Settings {
	activeMu.RLock()
	defer activeMu.RUnlock()
	return active
}

// SetActive replaces the process-wide settings.
func SetActive(s Settings) {
	activeMu.Lock()
	active = s
	activeMu.Unlock()
}
