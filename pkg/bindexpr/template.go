package bindexpr

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Part is one piece of a format template: a literal run or a group.
type Part struct {
	Literal string
	Group   *Group
}

// Group is a compiled {expr:spec} placeholder.
type Group struct {
	// Source is the expression text as written.
	Source string
	// Spec is the format spec after the top-level ':', if any.
	Spec string
	// Deps lists the group's root identifiers in first-seen order.
	Deps []string

	expr hclsyntax.Expression
}

// parseTemplate splits raw into parts. "{{" and "}}" escape literal braces.
func parseTemplate(raw string) ([]Part, []string, error) {
	var (
		parts []Part
		lit   strings.Builder
		deps  []string
		seen  = make(map[string]bool)
	)
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, Part{Literal: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(raw); {
		c := raw[i]
		switch {
		case c == '{' && i+1 < len(raw) && raw[i+1] == '{':
			lit.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(raw) && raw[i+1] == '}':
			lit.WriteByte('}')
			i += 2
		case c == '}':
			return nil, nil, fmt.Errorf("single '}' at offset %d", i)
		case c == '{':
			end, err := groupEnd(raw, i+1)
			if err != nil {
				return nil, nil, err
			}
			g, err := compileGroup(raw[i+1 : end])
			if err != nil {
				return nil, nil, err
			}
			flush()
			parts = append(parts, Part{Group: g})
			for _, d := range g.Deps {
				if !seen[d] {
					seen[d] = true
					deps = append(deps, d)
				}
			}
			i = end + 1
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return parts, deps, nil
}

// groupEnd returns the index of the '}' closing a group opened just before
// start. Nested brackets and quoted strings are skipped.
func groupEnd(raw string, start int) (int, error) {
	depth := 0
	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case '"':
			j, err := skipString(raw, i)
			if err != nil {
				return 0, err
			}
			i = j
		case '(', '[', '{':
			depth++
		case ')', ']':
			depth--
		case '}':
			if depth == 0 {
				return i, nil
			}
			depth--
		}
	}
	return 0, fmt.Errorf("unclosed '{' at offset %d", start-1)
}

// skipString returns the index of the quote closing the string at raw[open].
func skipString(raw string, open int) (int, error) {
	for i := open + 1; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case '"':
			return i, nil
		}
	}
	return 0, fmt.Errorf("unterminated string at offset %d", open)
}

// splitSpec splits a group at the top-level ':' that is not the else-branch
// of a conditional. "?." does not open a conditional.
func splitSpec(src string) (expr, spec string) {
	depth, pending := 0, 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '"':
			if j, err := skipString(src, i); err == nil {
				i = j
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '?':
			if depth == 0 && (i+1 >= len(src) || src[i+1] != '.') {
				pending++
			}
		case ':':
			if depth != 0 {
				continue
			}
			if pending > 0 {
				pending--
				continue
			}
			return src[:i], src[i+1:]
		}
	}
	return src, ""
}

func compileGroup(src string) (*Group, error) {
	exprSrc, spec := splitSpec(src)
	if strings.TrimSpace(exprSrc) == "" {
		return nil, fmt.Errorf("empty group {%s}", src)
	}
	rewritten, err := rewriteOptional(exprSrc)
	if err != nil {
		return nil, err
	}
	expr, diags := hclsyntax.ParseExpression([]byte(rewritten), "bind", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("group {%s}: %s", src, diags.Error())
	}
	if err := checkFunctions(expr); err != nil {
		return nil, fmt.Errorf("group {%s}: %w", src, err)
	}
	g := &Group{Source: strings.TrimSpace(exprSrc), Spec: spec, expr: expr}
	seen := make(map[string]bool)
	for _, tr := range expr.Variables() {
		name := tr.RootName()
		if strings.Contains(name, "-") {
			return nil, fmt.Errorf("group {%s}: identifier %q contains '-'; write subtraction with spaces, e.g. %q",
				src, name, strings.ReplaceAll(name, "-", " - "))
		}
		if !seen[name] {
			seen[name] = true
			g.Deps = append(g.Deps, name)
		}
	}
	return g, nil
}

// rewriteOptional turns each traversal that contains "?." into
// try(<traversal with plain dots>, null), so an absent link yields null
// instead of an evaluation error.
func rewriteOptional(src string) (string, error) {
	if !strings.Contains(src, "?.") {
		return src, nil
	}
	tokens, diags := hclsyntax.LexExpression([]byte(src), "bind", hcl.InitialPos)
	if diags.HasErrors() {
		return "", fmt.Errorf("%s", diags.Error())
	}
	var out strings.Builder
	last := 0
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type != hclsyntax.TokenIdent || (i > 0 && tokens[i-1].Type == hclsyntax.TokenDot) {
			continue
		}
		if i+1 < len(tokens) && tokens[i+1].Type == hclsyntax.TokenOParen {
			continue
		}
		end, optional := traversalEnd(tokens, i)
		if !optional {
			i = end - 1
			continue
		}
		start := tok.Range.Start.Byte
		stop := tokens[end-1].Range.End.Byte
		out.WriteString(src[last:start])
		out.WriteString("try(")
		out.WriteString(strings.ReplaceAll(src[start:stop], "?.", "."))
		out.WriteString(", null)")
		last = stop
		i = end - 1
	}
	out.WriteString(src[last:])
	return out.String(), nil
}

// traversalEnd scans the traversal rooted at tokens[i] and returns the index
// just past it and whether any step was "?.".
func traversalEnd(tokens hclsyntax.Tokens, i int) (int, bool) {
	optional := false
	j := i + 1
	for j < len(tokens) {
		switch {
		case tokens[j].Type == hclsyntax.TokenDot && j+1 < len(tokens) && tokens[j+1].Type == hclsyntax.TokenIdent:
			j += 2
		case tokens[j].Type == hclsyntax.TokenQuestion && j+2 < len(tokens) &&
			tokens[j+1].Type == hclsyntax.TokenDot && tokens[j+2].Type == hclsyntax.TokenIdent:
			optional = true
			j += 3
		case tokens[j].Type == hclsyntax.TokenOBrack:
			depth := 0
			for ; j < len(tokens); j++ {
				if tokens[j].Type == hclsyntax.TokenOBrack {
					depth++
				} else if tokens[j].Type == hclsyntax.TokenCBrack {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			j++
		default:
			return j, optional
		}
	}
	return j, optional
}

// checkFunctions rejects calls outside the allow-list.
func checkFunctions(expr hclsyntax.Expression) error {
	calls := make(map[string]struct{})
	walkForFunctions(expr, calls)
	for name := range calls {
		if _, ok := functions[name]; !ok {
			return fmt.Errorf("function %q is not available", name)
		}
	}
	return nil
}

func walkForFunctions(expr hclsyntax.Expression, calls map[string]struct{}) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		calls[e.Name] = struct{}{}
		for _, arg := range e.Args {
			walkForFunctions(arg, calls)
		}
	case *hclsyntax.BinaryOpExpr:
		walkForFunctions(e.LHS, calls)
		walkForFunctions(e.RHS, calls)
	case *hclsyntax.ConditionalExpr:
		walkForFunctions(e.Condition, calls)
		walkForFunctions(e.TrueResult, calls)
		walkForFunctions(e.FalseResult, calls)
	case *hclsyntax.UnaryOpExpr:
		walkForFunctions(e.Val, calls)
	case *hclsyntax.TemplateExpr:
		for _, part := range e.Parts {
			walkForFunctions(part, calls)
		}
	case *hclsyntax.TemplateWrapExpr:
		walkForFunctions(e.Wrapped, calls)
	case *hclsyntax.TupleConsExpr:
		for _, item := range e.Exprs {
			walkForFunctions(item, calls)
		}
	case *hclsyntax.ObjectConsExpr:
		for _, item := range e.Items {
			walkForFunctions(item.KeyExpr, calls)
			walkForFunctions(item.ValueExpr, calls)
		}
	case *hclsyntax.ForExpr:
		walkForFunctions(e.CollExpr, calls)
		walkForFunctions(e.KeyExpr, calls)
		walkForFunctions(e.ValExpr, calls)
		walkForFunctions(e.CondExpr, calls)
	case *hclsyntax.IndexExpr:
		walkForFunctions(e.Collection, calls)
		walkForFunctions(e.Key, calls)
	case *hclsyntax.RelativeTraversalExpr:
		walkForFunctions(e.Source, calls)
	case *hclsyntax.SplatExpr:
		walkForFunctions(e.Source, calls)
		walkForFunctions(e.Each, calls)
	case *hclsyntax.ParenthesesExpr:
		walkForFunctions(e.Expression, calls)
	}
}
