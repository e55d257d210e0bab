package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Arithmetic(t *testing.T) {
	scope := Scope{"Length": 24, "Width": 10}

	assert.InDelta(t, 5.0, Evaluate("5", nil), 1e-9)
	assert.InDelta(t, 240.0, Evaluate("Length * Width", scope), 1e-9)
	assert.InDelta(t, 2.4, Evaluate("Length / Width", scope), 1e-9)
	assert.InDelta(t, 44.0, Evaluate("(Length + 20) * 1", scope), 1e-9)
	assert.InDelta(t, 8.0, Evaluate("2 ^ 3", nil), 1e-9)
}

func TestEvaluate_Functions(t *testing.T) {
	assert.InDelta(t, 4.0, Evaluate("sqrt(16)", nil), 1e-9)
	assert.InDelta(t, 9.0, Evaluate("pow(Side, 2)", Scope{"Side": 3}), 1e-9)
	assert.InDelta(t, 3.5, Evaluate("max(Width, 3.5)", Scope{"Width": 2}), 1e-9)
}

func TestEvaluate_ModuloOnScopeValues(t *testing.T) {
	got, err := Check("Length % 16", Scope{"Length": 24})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, got, 1e-9)

	assert.InDelta(t, 2.0, Evaluate("7 % 5", nil), 1e-9)
	assert.InDelta(t, 2.5, Evaluate("Run % 3.5", Scope{"Run": 9.5}), 1e-9)
	assert.InDelta(t, 5.0, Evaluate("(Length % 10) + 1 % 5 * 2 - 1 * 2 + 1", Scope{"Length": 24}), 1e-9)
	assert.InDelta(t, 1.0, Evaluate("mod(Length, 23)", Scope{"Length": 24}), 1e-9)

	_, err = Check("Length % Gap", Scope{"Length": 24})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestEvaluate_FunctionNamesShadowScope(t *testing.T) {
	assert.InDelta(t, 4.0, Evaluate("sqrt(16)", Scope{"sqrt": 99}), 1e-9)
	assert.InDelta(t, 1.0, Evaluate("5 % 2", Scope{"mod": 7}), 1e-9)
}

func TestEvaluate_UnboundSymbolIsZero(t *testing.T) {
	assert.InDelta(t, 3.0, Evaluate("Missing + 3", nil), 1e-9)
	assert.InDelta(t, 0.0, Evaluate("Missing * 100", Scope{"Other": 1}), 1e-9)
}

func TestEvaluate_DivisionByUnboundSymbolIsZero(t *testing.T) {
	got, err := Check("Area / coverage", Scope{"Area": 100})
	assert.Equal(t, 0.0, got)
	assert.ErrorIs(t, err, ErrNonFinite)

	assert.Equal(t, 0.0, Evaluate("Area / coverage", Scope{"Area": 100}))
}

func TestEvaluate_Conditional(t *testing.T) {
	const f = "if Area > 0 (Area / 32)"
	assert.InDelta(t, 20.0, Evaluate(f, Scope{"Area": 640}), 1e-9)
	assert.InDelta(t, 0.0, Evaluate(f, Scope{"Area": 0}), 1e-9)
	assert.InDelta(t, 0.0, Evaluate(f, nil), 1e-9)
}

func TestEvaluate_ConditionalCaseAndSpacing(t *testing.T) {
	scope := Scope{"Count": 3}
	assert.InDelta(t, 6.0, Evaluate("IF Count >= 2 (Count * 2)", scope), 1e-9)
	assert.InDelta(t, 6.0, Evaluate("  if\tCount>=2(Count*2)  ", scope), 1e-9)
	assert.InDelta(t, 4.0, Evaluate("if (Count > 1) (max(Count, 4))", scope), 1e-9)
}

func TestEvaluate_IdentifierStartingWithIf(t *testing.T) {
	assert.InDelta(t, 7.0, Evaluate("iffy + 1", Scope{"iffy": 6}), 1e-9)
}

func TestEvaluate_BooleanResult(t *testing.T) {
	assert.Equal(t, 1.0, Evaluate("Area > 10", Scope{"Area": 11}))
	assert.Equal(t, 0.0, Evaluate("Area > 10", Scope{"Area": 9}))
}

func TestEvaluate_Malformed(t *testing.T) {
	for _, f := range []string{"Area +", "((", "1 +* 2", "'text'", "unknownFn(3)"} {
		got, err := Check(f, Scope{"Area": 1})
		assert.Equal(t, 0.0, got, f)
		assert.Error(t, err, f)
	}
}

func TestEvaluate_Blank(t *testing.T) {
	got, err := Check("   ", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestEvaluate_DoesNotMutateScope(t *testing.T) {
	scope := Scope{"Area": 100}
	Evaluate("Area / coverage + Other", scope)
	assert.Equal(t, Scope{"Area": 100}, scope)
}

func TestScopeClone(t *testing.T) {
	s := Scope{"A": 1}
	c := s.Clone()
	c["A"] = 2
	assert.Equal(t, 1.0, s["A"])
}
