// Package record navigates plain Go data records by bind path.
//
// A record is a struct, a pointer to a struct, or a map keyed by string.
// Struct fields are addressed by their yaml tag name when one is present,
// otherwise by the Go field name with its first letter lower-cased:
//
//	type Person struct {
//	    Name    string            // "name"
//	    Address *Address `yaml:"address"`
//	    Tags    map[string]string // "tags"
//	}
//
// Nil pointers, nil maps, missing map keys and nil interfaces are absent.
package record

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Absent is returned as the index from Get when every segment resolved.
const Absent = -1

var fieldCache sync.Map // reflect.Type -> map[string]int

// FieldName returns the bind name of a struct field, or "" if it is not
// addressable (unexported or tagged "-").
func FieldName(sf reflect.StructField) string {
	if !sf.IsExported() {
		return ""
	}
	if tag, ok := sf.Tag.Lookup("yaml"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	r, size := utf8.DecodeRuneInString(sf.Name)
	return string(unicode.ToLower(r)) + sf.Name[size:]
}

func fieldIndex(t reflect.Type) map[string]int {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string]int)
	}
	idx := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := FieldName(t.Field(i)); name != "" {
			idx[name] = i
		}
	}
	fieldCache.Store(t, idx)
	return idx
}

// Fields lists the top-level bind names of a record type in declaration order.
// Maps have no static fields and return nil.
func Fields(t reflect.Type) []string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var names []string
	for i := 0; i < t.NumField(); i++ {
		if name := FieldName(t.Field(i)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// HasField reports whether rec has a top-level field called name.
// For map records the key must currently be present.
func HasField(rec any, name string) bool {
	v := indirect(reflect.ValueOf(rec))
	switch v.Kind() {
	case reflect.Struct:
		_, ok := fieldIndex(v.Type())[name]
		return ok
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String || v.IsNil() {
			return false
		}
		return v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key())).IsValid()
	}
	return false
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// child returns the named member of v, or an invalid value when absent.
func child(v reflect.Value, name string) reflect.Value {
	v = indirect(v)
	if !v.IsValid() {
		return reflect.Value{}
	}
	switch v.Kind() {
	case reflect.Struct:
		i, ok := fieldIndex(v.Type())[name]
		if !ok {
			return reflect.Value{}
		}
		return v.Field(i)
	case reflect.Map:
		if v.IsNil() || v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}
		}
		return v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(name)
		if err != nil || i < 0 || i >= v.Len() {
			return reflect.Value{}
		}
		return v.Index(i)
	}
	return reflect.Value{}
}

func isAbsent(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map:
		return v.IsNil()
	}
	return false
}

// Get resolves path inside rec. It returns the value and Absent, or nil and
// the index of the first segment that did not resolve. A nil pointer or map
// at the leaf is returned as is (the leaf itself is present).
func Get(rec any, path []string) (any, int) {
	v := reflect.ValueOf(rec)
	for i, seg := range path {
		if i > 0 && isAbsent(v) {
			return nil, i - 1
		}
		v = child(v, seg)
		if !v.IsValid() {
			return nil, i
		}
	}
	if !v.IsValid() {
		return nil, Absent
	}
	return v.Interface(), Absent
}

// Set assigns value at path inside rec, which must be a pointer (or a map).
// Intermediate nil pointers and maps are not created: an absent ancestor
// returns an *AbsentError naming it.
func Set(rec any, path []string, value any) error {
	if len(path) == 0 {
		return fmt.Errorf("record: empty path")
	}
	root := reflect.ValueOf(rec)
	if root.Kind() != reflect.Pointer && root.Kind() != reflect.Map {
		return fmt.Errorf("record: cannot set through non-pointer %T", rec)
	}
	return setIn(root, path, 0, value)
}

// AbsentError reports the first absent segment encountered by Set.
type AbsentError struct {
	Index   int
	Segment string
}

func (e *AbsentError) Error() string {
	return fmt.Sprintf("record: segment %q is absent", e.Segment)
}

func setIn(v reflect.Value, path []string, i int, value any) error {
	parent := indirect(v)
	if !parent.IsValid() {
		return &AbsentError{Index: i - 1, Segment: path[i-1]}
	}
	seg := path[i]
	last := i == len(path)-1

	switch parent.Kind() {
	case reflect.Map:
		if parent.IsNil() {
			return &AbsentError{Index: i - 1, Segment: path[max(i-1, 0)]}
		}
		key := reflect.ValueOf(seg).Convert(parent.Type().Key())
		if last {
			nv, err := Convert(value, parent.Type().Elem())
			if err != nil {
				return fmt.Errorf("record: %s: %w", strings.Join(path, "."), err)
			}
			parent.SetMapIndex(key, nv)
			return nil
		}
		elem := parent.MapIndex(key)
		if !elem.IsValid() {
			return &AbsentError{Index: i, Segment: seg}
		}
		// Map elements are not addressable: copy, mutate, store back.
		cp := reflect.New(elem.Type()).Elem()
		cp.Set(elem)
		if err := setIn(cp, path, i+1, value); err != nil {
			return err
		}
		parent.SetMapIndex(key, cp)
		return nil
	case reflect.Struct, reflect.Slice, reflect.Array:
		f := child(parent, seg)
		if !f.IsValid() {
			return &AbsentError{Index: i, Segment: seg}
		}
		if last {
			if !f.CanSet() {
				return fmt.Errorf("record: field %q is not settable", seg)
			}
			nv, err := Convert(value, f.Type())
			if err != nil {
				return fmt.Errorf("record: %s: %w", strings.Join(path, "."), err)
			}
			f.Set(nv)
			return nil
		}
		if isAbsent(f) {
			return &AbsentError{Index: i, Segment: seg}
		}
		return setIn(f, path, i+1, value)
	}
	return fmt.Errorf("record: cannot descend into %s at %q", parent.Kind(), seg)
}

// Convert adapts value to type t: assignable values pass through, numeric
// kinds convert, strings parse into numbers and bools, and anything formats
// into a string. nil becomes the zero value.
func Convert(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	switch {
	case isNumber(v.Kind()) && isNumber(t.Kind()):
		return v.Convert(t), nil
	case v.Kind() == reflect.String && t.Kind() != reflect.String:
		return parseString(v.String(), t)
	case t.Kind() == reflect.String:
		return reflect.ValueOf(fmt.Sprint(value)).Convert(t), nil
	case v.Type().ConvertibleTo(t):
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %T to %s", value, t)
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func parseString(s string, t reflect.Type) (reflect.Value, error) {
	s = strings.TrimSpace(s)
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s == "" {
			return out, nil
		}
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if s == "" {
			return out, nil
		}
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if s == "" {
			return out, nil
		}
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(b)
	case reflect.Interface:
		if reflect.TypeOf(s).AssignableTo(t) {
			out.Set(reflect.ValueOf(s))
			return out, nil
		}
		return reflect.Value{}, fmt.Errorf("cannot convert string to %s", t)
	default:
		return reflect.Value{}, fmt.Errorf("cannot convert string to %s", t)
	}
	return out, nil
}
