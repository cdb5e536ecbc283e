package tscan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efmt/internal/lexer"
	"efmt/internal/tscan"
	"efmt/token"
)

func scan(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, errs := lexer.Scan(src)
	require.Empty(t, errs)
	return toks
}

func TestUntilSkipsNestedBrackets(t *testing.T) {
	toks := scan(t, "(foo(X)) end rest")
	slice, rest, ok := tscan.Until(toks, token.END)
	require.True(t, ok)
	assert.Equal(t, "( foo ( X ) ) end", joinKinds(slice))
	assert.Equal(t, token.Token{Kind: token.ATOM, Line: 1, Value: "rest"}, rest[0])
}

func TestUntilSkipsNestedEndTerminatedKeyword(t *testing.T) {
	toks := scan(t, "case X of Y -> Y end end rest")
	slice, rest, ok := tscan.Until(toks, token.END)
	require.True(t, ok)
	// The inner `case ... end` is consumed as one nested frame; the
	// outer `end` is the one that actually terminates the slice.
	assert.Equal(t, token.END, slice[len(slice)-1].Kind)
	assert.Equal(t, token.ATOM, rest[0].Kind)
	assert.Equal(t, "rest", rest[0].Value)
}

func TestUntilReportsNotFound(t *testing.T) {
	toks := scan(t, "foo(X)")
	_, rest, ok := tscan.Until(toks, token.END)
	assert.False(t, ok)
	assert.Nil(t, rest)
}

func TestUntilOfDoesNotMistakeTryClauseForCaseOf(t *testing.T) {
	// try's own catch/end must not be mistaken for a top-level match
	// before the `of` that actually follows the whole try expression.
	toks := scan(t, "try foo() catch _:_ -> bar() end of Y -> Y end")
	slice, rest, ok := tscan.UntilOf(toks)
	require.True(t, ok)
	assert.Equal(t, token.OF, slice[len(slice)-1].Kind)
	assert.Equal(t, []token.Kind{token.VAR, token.ARROW, token.VAR, token.END}, kindsOf(rest[:4]))
}

func TestUntilOfPopsTryFrameOnAfter(t *testing.T) {
	toks := scan(t, "try foo() after bar() end of Y -> Y end")
	slice, _, ok := tscan.UntilOf(toks)
	require.True(t, ok)
	assert.Equal(t, token.OF, slice[len(slice)-1].Kind)
}

func TestUntilAnyFindsFirstTopLevelMatch(t *testing.T) {
	toks := scan(t, "foo(X, Y); bar(Z)")
	slice, matched, rest, ok := tscan.UntilAny(toks, token.SEMI, token.DOT)
	require.True(t, ok)
	assert.Equal(t, token.SEMI, matched)
	assert.Equal(t, "foo ( X , Y )", joinKinds(slice))
	assert.Equal(t, token.SEMI, rest[0].Kind)
}

func TestUntilAnyIgnoresMatchInsideBrackets(t *testing.T) {
	toks := scan(t, "foo(X; Y) rest")
	_, _, _, ok := tscan.UntilAny(toks, token.SEMI)
	assert.False(t, ok, "the semicolon is nested inside foo(...) and must not count as top-level")
}

func TestRemoveMatchingStripsOuterParens(t *testing.T) {
	// RemoveMatching expects an already-isolated span with no trailing
	// EOF, the way callers slice a body before handing it off.
	toks := trimEOF(scan(t, "(foo(X))"))
	stripped, ok := tscan.RemoveMatching(toks, token.LPAREN, token.RPAREN)
	require.True(t, ok)
	assert.Equal(t, "foo ( X )", joinKinds(stripped))
}

func TestRemoveMatchingRefusesWhenOuterPairIsNotTheWholeSpan(t *testing.T) {
	toks := trimEOF(scan(t, "(foo(X)) + 1"))
	_, ok := tscan.RemoveMatching(toks, token.LPAREN, token.RPAREN)
	assert.False(t, ok)
}

func TestRemoveMatchingRefusesWrongOpener(t *testing.T) {
	toks := trimEOF(scan(t, "[foo(X)]"))
	_, ok := tscan.RemoveMatching(toks, token.LPAREN, token.RPAREN)
	assert.False(t, ok)
}

func TestEndOfExprSplitsOnTopLevelComma(t *testing.T) {
	toks := scan(t, "foo(X), bar(Y)")
	expr, term, rest := tscan.EndOfExpr(toks, tscan.NoGuard)
	assert.Equal(t, "foo ( X )", joinKinds(expr))
	assert.Equal(t, token.COMMA, term)
	assert.Equal(t, token.COMMA, rest[0].Kind, "rest starts at the terminator itself")
	assert.Equal(t, "bar", rest[1].Value)
}

func TestEndOfExprIgnoresCommaAndSemiInsideGuard(t *testing.T) {
	toks := scan(t, "X > 0, Y > 0 -> ok")
	expr, term, rest := tscan.EndOfExpr(toks, tscan.InGuard)
	assert.Equal(t, "X > 0 , Y > 0", joinKinds(expr))
	assert.Equal(t, token.ARROW, term)
	assert.Equal(t, token.ARROW, rest[0].Kind, "rest starts at the terminator itself")
	assert.Equal(t, "ok", rest[1].Value)
}

func TestEndOfExprEndsTypedGuardAtColonColonThenSemi(t *testing.T) {
	toks := scan(t, "integer() :: foo; bar() :: baz")
	expr, term, rest := tscan.EndOfExpr(toks, tscan.InGuard)
	assert.Equal(t, "integer ( ) :: foo", joinKinds(expr))
	assert.Equal(t, token.SEMI, term)
	assert.Equal(t, "bar", rest[1].Value)
}

func TestEndOfExprIncludesSameLineTrailingCommentInExpr(t *testing.T) {
	toks := scan(t, "ok % trailing\n, next")
	expr, term, rest := tscan.EndOfExpr(toks, tscan.NoGuard)
	require.Len(t, expr, 2)
	assert.Equal(t, token.ATOM, expr[0].Kind)
	assert.Equal(t, token.COMMENT, expr[1].Kind)
	assert.Equal(t, token.COMMA, term)
	assert.Equal(t, "next", rest[1].Value)
}

func TestEndOfExprReportsEOFWhenNoTerminatorFound(t *testing.T) {
	toks := scan(t, "foo(X")
	expr, term, rest := tscan.EndOfExpr(toks, tscan.NoGuard)
	assert.Equal(t, token.EOF, term)
	assert.Nil(t, rest)
	assert.NotEmpty(t, expr)
}

func joinKinds(toks []token.Token) string {
	s := ""
	for i, t := range toks {
		if t.Kind == token.EOF {
			continue
		}
		if i > 0 && s != "" {
			s += " "
		}
		s += t.String()
	}
	return s
}

func kindsOf(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

// trimEOF drops the trailing EOF sentinel lexer.Scan always appends, the
// way an already-isolated body slice (cut before its terminator) never
// carries one.
func trimEOF(toks []token.Token) []token.Token {
	if len(toks) > 0 && toks[len(toks)-1].Kind == token.EOF {
		return toks[:len(toks)-1]
	}
	return toks
}
