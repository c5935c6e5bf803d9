package bindexpr

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/ext/tryfunc"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// functions is the allow-list of callables available inside groups. try and
// can back optional chaining.
var functions = map[string]function.Function{
	"upper":  stdlib.UpperFunc,
	"lower":  stdlib.LowerFunc,
	"title":  titleFunc,
	"len":    lenFunc,
	"abs":    stdlib.AbsoluteFunc,
	"min":    stdlib.MinFunc,
	"max":    stdlib.MaxFunc,
	"floor":  stdlib.FloorFunc,
	"ceil":   stdlib.CeilFunc,
	"round":  roundFunc,
	"str":    strFunc,
	"int":    intFunc,
	"join":   stdlib.JoinFunc,
	"format": stdlib.FormatFunc,
	"try":    tryfunc.TryFunc,
	"can":    tryfunc.CanFunc,
}

// Functions returns the names callable inside format groups, sorted.
func Functions() []string {
	out := make([]string, 0, len(functions))
	for name := range functions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var titleFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "str", Type: cty.String}},
	Type:   function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(cases.Title(language.English).String(args[0].AsString())), nil
	},
})

var lenFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "value", Type: cty.DynamicPseudoType, AllowDynamicType: true}},
	Type:   function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		v := args[0]
		switch ty := v.Type(); {
		case ty.Equals(cty.String):
			return stdlib.Strlen(v)
		case ty.IsObjectType() || ty.IsMapType() || ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
			return cty.NumberIntVal(int64(v.LengthInt())), nil
		default:
			return cty.NilVal, fmt.Errorf("len() of %s", ty.FriendlyName())
		}
	},
})

var roundFunc = function.New(&function.Spec{
	Params:   []function.Parameter{{Name: "num", Type: cty.Number}},
	VarParam: &function.Parameter{Name: "digits", Type: cty.Number},
	Type:     function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		f, _ := args[0].AsBigFloat().Float64()
		digits := 0
		if len(args) > 1 {
			d, _ := args[1].AsBigFloat().Int64()
			digits = int(d)
		}
		scale := math.Pow10(digits)
		return cty.NumberFloatVal(math.Round(f*scale) / scale), nil
	},
})

var strFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "value", Type: cty.DynamicPseudoType, AllowNull: true, AllowDynamicType: true}},
	Type:   function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(display(fromCty(args[0]))), nil
	},
})

var intFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "value", Type: cty.DynamicPseudoType, AllowDynamicType: true}},
	Type:   function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		v := args[0]
		switch ty := v.Type(); {
		case ty.Equals(cty.Number):
			i, _ := v.AsBigFloat().Int(nil)
			return cty.NumberVal(new(big.Float).SetInt(i)), nil
		case ty.Equals(cty.Bool):
			if v.True() {
				return cty.NumberIntVal(1), nil
			}
			return cty.NumberIntVal(0), nil
		case ty.Equals(cty.String):
			s := strings.TrimSpace(v.AsString())
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return cty.NilVal, fmt.Errorf("int(%q): invalid literal", s)
			}
			return cty.NumberIntVal(i), nil
		default:
			return cty.NilVal, fmt.Errorf("int() of %s", ty.FriendlyName())
		}
	},
})
