package format

import (
	"efmt/internal/tscan"
	"efmt/token"
)

// sliceToTopLevelDot slices toks up to (excluding) and past (in rest) a
// top-level '.', bracket/keyword aware.
func sliceToTopLevelDot(toks []token.Token) (body, rest []token.Token, ok bool) {
	spanned, rest, ok := tscan.Until(toks, token.DOT)
	if !ok {
		return nil, nil, false
	}
	return spanned[:len(spanned)-1], rest, true
}

// stripOuterParens drops a single outer (...) pair so `-spec f(a) -> b.`
// and `-spec (f(a) -> b).` format identically (§4.5).
func stripOuterParens(toks []token.Token) []token.Token {
	if inner, ok := tscan.RemoveMatching(toks, token.LPAREN, token.RPAREN); ok {
		return inner
	}
	return toks
}

// condCompilationAttrs are treated as "same kind" as one another so no
// blank line opens up around a conditional-compilation block (§4.5).
var condCompilationAttrs = map[string]bool{
	"ifdef": true, "else": true, "endif": true, "if": true, "define": true,
}

const (
	sepNone    = ""
	sepNewline = "\n"
	sepBlank   = "\n\n"
)

// blankPolicy implements the §4.5 table.
func blankPolicy(prev, curr item) string {
	sameAttr := prev.kind == "attribute" && curr.kind == "attribute" &&
		(prev.name == curr.name || (condCompilationAttrs[prev.name] && condCompilationAttrs[curr.name]))

	switch prev.kind {
	case "new_file":
		return sepNone

	case "module_comment":
		switch curr.kind {
		case "module_comment":
			return sepNewline
		case "function_comment":
			return sepBlank
		case "expr":
			return sepNewline
		case "list":
			return sepBlank
		default:
			return sepBlank
		}

	case "function_comment":
		if curr.kind == "module_comment" {
			return sepBlank
		}
		return sepNewline

	case "attribute":
		if sameAttr {
			return sepNewline
		}
		return sepBlank

	case "spec":
		if curr.kind == "function" {
			return sepNewline
		}
		return sepBlank

	case "type":
		if curr.kind == "type" {
			return sepNewline
		}
		return sepBlank
	}

	// function, list, expr: always blank.
	return sepBlank
}
