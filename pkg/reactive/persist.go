package reactive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the encoding used by Encode and Decode.
type Format int

const (
	// FormatYAML encodes with gopkg.in/yaml.v3.
	FormatYAML Format = iota
	// FormatJSON encodes with encoding/json.
	FormatJSON
)

// FormatFor picks a format from a file extension; anything but .json is YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Encode writes the record to w.
func (p *Proxy) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p.rec)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p.rec); err != nil {
			return err
		}
		return enc.Close()
	}
}

// Decode replaces the record contents with data read from r. The loaded
// state becomes the clean baseline, history is cleared and every subscriber
// is notified.
func (p *Proxy) Decode(r io.Reader, format Format) error {
	rv := reflect.ValueOf(p.rec)
	var fresh reflect.Value
	if rv.Kind() == reflect.Pointer {
		fresh = reflect.New(rv.Elem().Type())
	} else {
		fresh = reflect.New(rv.Type())
		fresh.Elem().Set(reflect.MakeMap(rv.Type()))
	}

	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(fresh.Interface())
	default:
		err = yaml.NewDecoder(r).Decode(fresh.Interface())
		if err == io.EOF {
			err = nil
		}
	}
	if err != nil {
		return fmt.Errorf("reactive: decode record: %w", err)
	}

	if rv.Kind() == reflect.Pointer {
		rv.Elem().Set(fresh.Elem())
	} else {
		rv.Clear()
		iter := fresh.Elem().MapRange()
		for iter.Next() {
			rv.SetMapIndex(iter.Key(), iter.Value())
		}
	}

	p.ClearHistory()
	p.ResetDirty()
	for field := range p.validators {
		p.validate(field)
	}
	p.notify(nil)
	return nil
}

// SaveTo writes the record to a file, choosing the format by extension.
func (p *Proxy) SaveTo(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("reactive: save record: %w", err)
	}
	if err := p.Encode(f, FormatFor(path)); err != nil {
		f.Close()
		return fmt.Errorf("reactive: save record: %w", err)
	}
	return f.Close()
}

// LoadFrom reads the record from a file written by SaveTo.
func (p *Proxy) LoadFrom(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reactive: load record: %w", err)
	}
	defer f.Close()
	return p.Decode(f, FormatFor(path))
}
