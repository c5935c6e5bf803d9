package bindexpr

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/go-drift/compose/pkg/record"
)

// Scope resolves root identifiers during evaluation.
type Scope interface {
	Lookup(name string) (any, bool)
}

// ScopeFunc adapts a function to Scope.
type ScopeFunc func(name string) (any, bool)

// Lookup implements Scope.
func (f ScopeFunc) Lookup(name string) (any, bool) { return f(name) }

// MapScope is a Scope backed by a map.
type MapScope map[string]any

// Lookup implements Scope.
func (m MapScope) Lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Render evaluates every group of a FormatExpression descriptor against
// scope and concatenates the result. An identifier missing from scope
// evaluates to null and renders as "".
func (d *Descriptor) Render(scope Scope) (string, error) {
	if d.Kind != FormatExpression {
		return "", fmt.Errorf("bind %q: not a format expression", d.Raw)
	}
	ctx := &hcl.EvalContext{
		Variables: make(map[string]cty.Value, len(d.FreeVars)),
		Functions: functions,
	}
	for _, name := range d.FreeVars {
		v, _ := scope.Lookup(name)
		ctx.Variables[name] = toCty(v)
	}
	var out strings.Builder
	for _, p := range d.Parts {
		if p.Group == nil {
			out.WriteString(p.Literal)
			continue
		}
		s, err := p.Group.eval(ctx)
		if err != nil {
			return "", fmt.Errorf("bind %q: %w", d.Raw, err)
		}
		out.WriteString(s)
	}
	return out.String(), nil
}

// Eval evaluates the group against scope and returns the Go value before
// formatting.
func (g *Group) Eval(scope Scope) (any, error) {
	ctx := &hcl.EvalContext{Variables: make(map[string]cty.Value, len(g.Deps)), Functions: functions}
	for _, name := range g.Deps {
		v, _ := scope.Lookup(name)
		ctx.Variables[name] = toCty(v)
	}
	val, diags := g.expr.Value(ctx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("{%s}: %s", g.Source, diags.Error())
	}
	return fromCty(val), nil
}

func (g *Group) eval(ctx *hcl.EvalContext) (string, error) {
	val, diags := g.expr.Value(ctx)
	if diags.HasErrors() {
		return "", fmt.Errorf("{%s}: %s", g.Source, diags.Error())
	}
	v := fromCty(val)
	if g.Spec == "" {
		return display(v), nil
	}
	s, err := Format(v, g.Spec)
	if err != nil {
		return "", fmt.Errorf("{%s:%s}: %w", g.Source, g.Spec, err)
	}
	return s, nil
}

// display renders a value with no format spec. nil renders as "".
func display(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []any:
		items := make([]string, len(x))
		for i, e := range x {
			items[i] = display(e)
		}
		return "[" + strings.Join(items, ", ") + "]"
	}
	return fmt.Sprint(v)
}

// Display renders a resolved value for a text property. nil and absent
// values render as "".
func Display(v any) string {
	if v == nil {
		return ""
	}
	return display(fromCty(toCty(v)))
}

// toCty converts a resolved Go value into a cty value. Structs become
// objects keyed by record field name.
func toCty(v any) cty.Value {
	if v == nil {
		return cty.NullVal(cty.DynamicPseudoType)
	}
	if cv, ok := v.(cty.Value); ok {
		return cv
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return cty.NullVal(cty.DynamicPseudoType)
		}
		return toCty(rv.Elem().Interface())
	case reflect.Bool:
		return cty.BoolVal(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if val, err := gocty.ToCtyValue(v, cty.Number); err == nil {
			return val
		}
		return cty.StringVal(fmt.Sprint(v))
	case reflect.String:
		return cty.StringVal(rv.String())
	case reflect.Struct:
		if s, ok := v.(fmt.Stringer); ok {
			return cty.StringVal(s.String())
		}
		attrs := make(map[string]cty.Value)
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			name := record.FieldName(t.Field(i))
			if name == "" {
				continue
			}
			attrs[name] = toCty(rv.Field(i).Interface())
		}
		if len(attrs) == 0 {
			return cty.EmptyObjectVal
		}
		return cty.ObjectVal(attrs)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return cty.StringVal(fmt.Sprint(v))
		}
		if rv.Len() == 0 {
			return cty.EmptyObjectVal
		}
		attrs := make(map[string]cty.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			attrs[iter.Key().String()] = toCty(iter.Value().Interface())
		}
		return cty.ObjectVal(attrs)
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return cty.EmptyTupleVal
		}
		elems := make([]cty.Value, rv.Len())
		for i := range elems {
			elems[i] = toCty(rv.Index(i).Interface())
		}
		return cty.TupleVal(elems)
	}
	return cty.StringVal(fmt.Sprint(v))
}

// fromCty converts an evaluation result back to Go. Numbers become int64
// when integral and float64 otherwise.
func fromCty(v cty.Value) any {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return v.AsString()
	case ty.Equals(cty.Bool):
		return v.True()
	case ty.Equals(cty.Number):
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i
			}
		}
		f, _ := bf.Float64()
		return f
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, e := it.Element()
			out[k.AsString()] = fromCty(e)
		}
		return out
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, e := it.Element()
			out = append(out, fromCty(e))
		}
		return out
	}
	return nil
}
