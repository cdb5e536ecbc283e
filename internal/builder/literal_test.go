package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"efmt/token"
)

func TestQuoteAtomLeavesBareAtomsUnchanged(t *testing.T) {
	assert.Equal(t, "foo_bar", quoteAtom("foo_bar"))
	assert.Equal(t, "foo42", quoteAtom("foo42"))
}

func TestQuoteAtomLeavesAlreadyQuotedAtomsUnchanged(t *testing.T) {
	assert.Equal(t, "'Already Quoted'", quoteAtom("'Already Quoted'"))
}

func TestQuoteAtomQuotesAndEscapesWhatNeedsIt(t *testing.T) {
	assert.Equal(t, "'has space'", quoteAtom("has space"))
	assert.Equal(t, `'it\'s'`, quoteAtom("it's"))
	assert.Equal(t, "''", quoteAtom(""))
}

func TestIsBareAtomRejectsReservedWords(t *testing.T) {
	assert.False(t, isBareAtom("case"))
	assert.False(t, isBareAtom("end"))
	assert.True(t, isBareAtom("foo"))
	assert.False(t, isBareAtom("Foo"))
}

func TestRequoteStringNormalizesControlCharacters(t *testing.T) {
	assert.Equal(t, `"a\nb"`, requoteString("\"a\nb\""))
	assert.Equal(t, `"plain"`, requoteString(`"plain"`))
	// an existing backslash escape passes its following character
	// through untouched rather than being re-escaped.
	assert.Equal(t, `"esc\aped"`, requoteString(`"esc\aped"`))
}

func TestLiteralTextDispatchesByKind(t *testing.T) {
	assert.Equal(t, "'has space'", literalText(token.Token{Kind: token.ATOM, Value: "has space"}))
	assert.Equal(t, "X", literalText(token.Token{Kind: token.VAR, Value: "X"}))
	assert.Equal(t, "42", literalText(token.Token{Kind: token.INT, Value: "42"}))
}
