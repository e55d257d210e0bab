// Package formula evaluates the quantity formulas attached to assembly nodes.
//
// Formulas are ordinary arithmetic expressions over named symbols, or the
// conditional form "if <condition> (<expression>)". Evaluation never fails
// from the caller's point of view: symbols missing from the scope read as
// zero, and any parse or runtime failure yields zero. Check exposes the
// underlying failure for diagnostics.
package formula

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// Scope maps symbol names to their numeric values.
type Scope map[string]float64

// Clone returns an independent copy of the scope.
func (s Scope) Clone() Scope {
	out := make(Scope, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

var (
	// ErrNonNumeric is returned when a formula produces a value that is not
	// a number or boolean.
	ErrNonNumeric = errors.New("formula result is not numeric")
	// ErrNonFinite is returned for NaN or infinite results, e.g. a division
	// by an unbound symbol.
	ErrNonFinite = errors.New("formula result is not finite")
)

// constants are available to every formula unless shadowed by the scope.
var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

var functions = []expr.Option{
	expr.Function("sqrt", func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("sqrt expects 1 argument, got %d", len(params))
		}
		x, err := toNumber(params[0])
		if err != nil {
			return nil, err
		}
		return math.Sqrt(x), nil
	}),
	expr.Function("pow", func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("pow expects 2 arguments, got %d", len(params))
		}
		base, err := toNumber(params[0])
		if err != nil {
			return nil, err
		}
		exp, err := toNumber(params[1])
		if err != nil {
			return nil, err
		}
		return math.Pow(base, exp), nil
	}),
	expr.Function("mod", func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("mod expects 2 arguments, got %d", len(params))
		}
		x, err := toNumber(params[0])
		if err != nil {
			return nil, err
		}
		y, err := toNumber(params[1])
		if err != nil {
			return nil, err
		}
		return math.Mod(x, y), nil
	}),
	expr.Patch(modulo{}),
}

// functionNames shadow scope symbols of the same name.
var functionNames = map[string]struct{}{"sqrt": {}, "pow": {}, "mod": {}}

// modulo rewrites a % b into mod(a, b). Scope values are float64 and the
// % operator only accepts integers.
type modulo struct{}

func (modulo) Visit(node *ast.Node) {
	if n, ok := (*node).(*ast.BinaryNode); ok && n.Operator == "%" {
		ast.Patch(node, &ast.CallNode{
			Callee:    &ast.IdentifierNode{Value: "mod"},
			Arguments: []ast.Node{n.Left, n.Right},
		})
	}
}

// Evaluate computes the formula against the scope, returning 0 on any
// failure.
func Evaluate(formula string, scope Scope) float64 {
	v, _ := Check(formula, scope)
	return v
}

// Check computes the formula against the scope. On failure it returns 0 and
// the reason. A blank formula evaluates to 0 without error.
func Check(formula string, scope Scope) (result float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = 0, fmt.Errorf("formula %q: panic: %v", formula, r)
		}
	}()

	if strings.TrimSpace(formula) == "" {
		return 0, nil
	}

	if cond, body, ok := splitConditional(formula); ok {
		c, err := eval(cond, scope)
		if err != nil {
			return 0, err
		}
		if c == 0 {
			return 0, nil
		}
		return eval(body, scope)
	}
	return eval(formula, scope)
}

// splitConditional recognises "if <cond> (<body>)". The body is the final
// balanced parenthesised group; everything between the keyword and that
// group is the condition.
func splitConditional(s string) (cond, body string, ok bool) {
	t := strings.TrimSpace(s)
	if len(t) < 3 || !strings.EqualFold(t[:2], "if") {
		return "", "", false
	}
	switch t[2] {
	case ' ', '\t', '\n', '\r', '(':
	default:
		return "", "", false
	}
	rest := strings.TrimSpace(t[2:])
	if !strings.HasSuffix(rest, ")") {
		return "", "", false
	}

	depth := 0
	for i := len(rest) - 1; i >= 0; i-- {
		switch rest[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				cond = strings.TrimSpace(rest[:i])
				if cond == "" {
					return "", "", false
				}
				return cond, rest[i+1 : len(rest)-1], true
			}
		}
	}
	return "", "", false
}

// symbols collects identifiers referenced by an expression, separating
// called names from plain symbol reads.
type symbols struct {
	reads   map[string]struct{}
	callees map[string]struct{}
}

func (s *symbols) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		s.reads[n.Value] = struct{}{}
	case *ast.CallNode:
		if id, ok := n.Callee.(*ast.IdentifierNode); ok {
			s.callees[id.Value] = struct{}{}
		}
	}
}

func eval(src string, scope Scope) (float64, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", src, err)
	}

	syms := &symbols{reads: map[string]struct{}{}, callees: map[string]struct{}{}}
	ast.Walk(&tree.Node, syms)

	env := make(map[string]any, len(scope)+len(constants)+len(syms.reads))
	for k, v := range constants {
		env[k] = v
	}
	for k, v := range scope {
		if _, fn := functionNames[k]; fn {
			continue
		}
		env[k] = v
	}
	for name := range syms.reads {
		if _, called := syms.callees[name]; called {
			continue
		}
		if _, fn := functionNames[name]; fn {
			continue
		}
		if _, bound := env[name]; !bound {
			env[name] = 0.0
		}
	}

	opts := append([]expr.Option{expr.Env(env)}, functions...)
	program, err := expr.Compile(src, opts...)
	if err != nil {
		return 0, fmt.Errorf("compile %q: %w", src, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return 0, fmt.Errorf("run %q: %w", src, err)
	}
	v, err := toNumber(out)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", src, err)
	}
	return v, nil
}

func toNumber(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint64:
		f = float64(n)
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNonNumeric, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNonFinite
	}
	return f, nil
}
