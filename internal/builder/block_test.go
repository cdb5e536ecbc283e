package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efmt/internal/builder"
	"efmt/internal/layout"
)

func buildBlockFlat(t *testing.T, src string) string {
	t.Helper()
	doc, _, rest := builder.BuildBlock(exprToks(t, src))
	require.Empty(t, rest)
	return layout.Pretty(doc, 100)
}

func TestBuildCaseBlock(t *testing.T) {
	got := buildBlockFlat(t, "case X of 0 -> zero; _ -> other end")
	assert.Equal(t, "case X of\n    0 -> zero;\n    _ -> other\nend", got)
}

func TestBuildCaseBlockSingleClauseStillBreaks(t *testing.T) {
	// indentedClauses only sets the force flag for more than one clause,
	// but a single case clause still goes on its own line: the clause
	// list is introduced with a HardBreak, which is a newline even flat.
	got := buildBlockFlat(t, "case X of 0 -> zero end")
	assert.Equal(t, "case X of\n    0 -> zero\nend", got)
}

func TestBuildIfBlock(t *testing.T) {
	got := buildBlockFlat(t, "if X > 0 -> positive; true -> other end")
	assert.Equal(t, "if\n    X > 0 -> positive;\n    true -> other\nend", got)
}

func TestBuildBeginBlock(t *testing.T) {
	got := buildBlockFlat(t, "begin foo(), bar() end")
	assert.Equal(t, "begin\n    foo(),\n    bar()\nend", got)
}

func TestBuildReceiveBlockWithAfter(t *testing.T) {
	got := buildBlockFlat(t, "receive {ok, X} -> X after 1000 -> timeout end")
	assert.Equal(t, "receive\n    {ok, X} -> X\nafter\n    1000 -> timeout\nend", got)
}

func TestBuildTryBlockWithCatch(t *testing.T) {
	got := buildBlockFlat(t, "try foo() catch _:Reason -> Reason end")
	assert.Equal(t, "try\n    foo()\ncatch\n    _:Reason -> Reason\nend", got)
}

func TestBuildTryBlockWithOfAndCatch(t *testing.T) {
	got := buildBlockFlat(t, "try foo() of ok -> done catch _:_ -> failed end")
	assert.Equal(t, "try foo() of\n    ok -> done\ncatch\n    _:_ -> failed\nend", got)
}

func TestBuildFunBlockMultiClause(t *testing.T) {
	got := buildBlockFlat(t, "fun(0) -> zero; (X) -> nonzero end")
	assert.Equal(t, "fun\n    (0) -> zero;\n    (X) -> nonzero\nend", got)
}

func TestBuildBlockPanicsOnNonBlockKeyword(t *testing.T) {
	// BuildBlock is only ever reached via build()'s CASE/IF/RECEIVE/TRY/
	// BEGIN/FUN dispatch, so calling it directly on anything else is a
	// caller bug and panics rather than returning an error — only
	// Build(), the package's one recover() boundary, converts that into
	// an *Error.
	assert.Panics(t, func() {
		builder.BuildBlock(exprToks(t, "ok"))
	})
}

// TestBuildCaseBlockCommentBetweenClauses covers §4.4's comment-
// attachment requirement inside a block body: a comment between two
// `;`-separated case clauses becomes its own leading line.
func TestBuildCaseBlockCommentBetweenClauses(t *testing.T) {
	got := buildBlockFlat(t, "case X of 0 -> zero; % note\n_ -> other end")
	assert.Equal(t, "case X of\n    0 -> zero;\n    % note\n    _ -> other\nend", got)
}

// TestBuildCaseBlockTrailingCommentBeforeEnd covers the other half of
// §4.4: a comment left after the last clause, before the block's own
// `end`, is appended as its own line rather than being swallowed or
// tripping the parser.
func TestBuildCaseBlockTrailingCommentBeforeEnd(t *testing.T) {
	got := buildBlockFlat(t, "case X of 0 -> zero;\n% trailing\nend")
	assert.Equal(t, "case X of\n    0 -> zero;\n    % trailing\nend", got)
}

func TestBuildCaseMissingOfFails(t *testing.T) {
	_, _, err := builder.Build(exprToks(t, "case X end"))
	require.Error(t, err)
	var berr *builder.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, builder.KindMalformedStream, berr.Kind)
}
