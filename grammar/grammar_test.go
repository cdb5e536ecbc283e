package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efmt/grammar"
)

func TestParseStringShape(t *testing.T) {
	program, err := grammar.ParseString("test.erl", `foo(X, Y) -> {ok, [X | Y]}.`)
	require.NoError(t, err)
	require.NotNil(t, program)
	assert.NotEmpty(t, program.Nodes)
}

func TestEqualIgnoresWhitespaceAndLineBreaks(t *testing.T) {
	a, err := grammar.ParseString("a.erl", `foo(X,Y) -> {ok,[X|Y]}.`)
	require.NoError(t, err)
	b, err := grammar.ParseString("b.erl", "foo(X, Y) ->\n    {ok, [X | Y]}.\n")
	require.NoError(t, err)

	assert.True(t, grammar.Equal(a, b))
}

func TestEqualDetectsDroppedToken(t *testing.T) {
	a, err := grammar.ParseString("a.erl", `foo(X, Y) -> {ok, X, Y}.`)
	require.NoError(t, err)
	b, err := grammar.ParseString("b.erl", `foo(X, Y) -> {ok, X}.`)
	require.NoError(t, err)

	assert.False(t, grammar.Equal(a, b))
}

func TestEqualDetectsBracketKindMismatch(t *testing.T) {
	a, err := grammar.ParseString("a.erl", `foo() -> {a, b}.`)
	require.NoError(t, err)
	b, err := grammar.ParseString("b.erl", `foo() -> [a, b].`)
	require.NoError(t, err)

	assert.False(t, grammar.Equal(a, b))
}

func TestEqualDetectsReorderedArguments(t *testing.T) {
	a, err := grammar.ParseString("a.erl", `foo(X, Y) -> ok.`)
	require.NoError(t, err)
	b, err := grammar.ParseString("b.erl", `foo(Y, X) -> ok.`)
	require.NoError(t, err)

	assert.False(t, grammar.Equal(a, b))
}

func TestEqualNilPrograms(t *testing.T) {
	assert.True(t, grammar.Equal(nil, nil))
	p, err := grammar.ParseString("a.erl", `ok.`)
	require.NoError(t, err)
	assert.False(t, grammar.Equal(p, nil))
	assert.False(t, grammar.Equal(nil, p))
}

func TestParseStringBitstringAndComment(t *testing.T) {
	src := "% a leading comment\nbits(X) -> <<X:8, 0:4>>.\n"
	program, err := grammar.ParseString("bits.erl", src)
	require.NoError(t, err)
	assert.NotEmpty(t, program.Nodes)
}

func TestParseStringRejectsMismatchedBrackets(t *testing.T) {
	_, err := grammar.ParseString("bad.erl", `foo(X, Y] -> ok.`)
	assert.Error(t, err)
}
