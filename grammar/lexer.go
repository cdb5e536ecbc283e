package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// SourceLexer tokenizes source text for the AST-equivalence checker. It
// is deliberately coarser than the core's own internal/lexer: it only
// needs to recover the tree shape of brackets, atoms, variables,
// literals and operators, not every kind distinction the formatter's
// token stream makes.
var SourceLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `%[^\n]*`, nil},
		{"Char", `\$(\\.|[^\\])`, nil},
		{"String", `"(\\.|[^"\\])*"`, nil},
		{"QuotedAtom", `'(\\.|[^'\\])*'`, nil},
		{"Float", `[0-9]+\.[0-9]+([eE][-+]?[0-9]+)?`, nil},
		{"BasedInteger", `[0-9]+#[0-9a-zA-Z]+`, nil},
		{"Integer", `[0-9]+`, nil},
		{"Var", `(_|[A-Z])[a-zA-Z0-9_]*`, nil},
		{"Atom", `[a-z][a-zA-Z0-9_]*`, nil},
		{"BinOpen", `<<`, nil},
		{"BinClose", `>>`, nil},
		{"Arrow", `->`, nil},
		{"DoubleColon", `::`, nil},
		{"Operator", `(=:=|=/=|==|/=|=<|>=|<-|<=|\+\+|--|[-+*/=<>!?])`, nil},
		{"Bracket", `[()\[\]{}]`, nil},
		{"Punctuation", `[#.,;:|]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
