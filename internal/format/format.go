// Package format implements the core's two entry points (§6.1):
// FormatTokens, which sequences top-level items with the blank-line
// policy of §4.5, and Pretty (re-exported from internal/layout), the
// low-level path used directly by tests.
package format

import (
	"fmt"
	"strings"

	"efmt/internal/builder"
	"efmt/internal/layout"
	"efmt/internal/tscan"
	"efmt/token"
)

// item is one top-level unit plus the previous-term tag it leaves
// behind for the next item's blank-line decision (§3.4, §4.5).
type item struct {
	kind string // attribute | spec | type | function | module_comment | function_comment | list | expr
	name string // attribute name, for same-attribute and conditional-pair detection
	text string
}

// FormatTokens is the core's primary entry point: it builds every
// top-level item, lays each one out at width, and joins them according
// to the blank-line policy table.
func FormatTokens(tokens []token.Token, width int) (_ string, err error) {
	if width < 1 {
		return "", fmt.Errorf("width must be >= 1, got %d", width)
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*builder.Error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	var items []item
	rest := tokens
	for len(rest) > 0 && rest[0].Kind != token.EOF {
		it, tail := consumeItem(rest, width)
		items = append(items, it)
		rest = tail
	}

	var b strings.Builder
	var prevItem item
	prevItem.kind = "new_file"
	for i, it := range items {
		if i > 0 {
			b.WriteString(blankPolicy(prevItem, it))
		}
		b.WriteString(it.text)
		prevItem = it
	}
	out := b.String()
	out = strings.TrimRight(out, "\n") + "\n"
	return out, nil
}

// Pretty is the low-level path used directly by tests (§6.1): it wraps
// doc's root in a fresh group and renders it at width.
func Pretty(doc layout.Doc, width int) string {
	return layout.Pretty(doc, width)
}

// Item is one top-level unit's formatted text plus the source line
// span it consumed, for callers (the LSP's range-formatting handler)
// that need to map a line range onto whole top-level items rather
// than formatting the entire file.
type Item struct {
	Text            string
	StartLine       int
	EndLineInclusive int
}

// Items builds every top-level item exactly as FormatTokens does, but
// returns each one's own text and line span instead of joining them
// into one document.
func Items(tokens []token.Token, width int) (_ []Item, err error) {
	if width < 1 {
		return nil, fmt.Errorf("width must be >= 1, got %d", width)
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*builder.Error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	var out []Item
	rest := tokens
	for len(rest) > 0 && rest[0].Kind != token.EOF {
		startLine := rest[0].Line
		it, tail := consumeItem(rest, width)
		consumed := len(rest) - len(tail)
		endLine := startLine
		if consumed > 0 {
			endLine = rest[consumed-1].Line
		}
		out = append(out, Item{Text: it.text, StartLine: startLine, EndLineInclusive: endLine})
		rest = tail
	}
	return out, nil
}

func consumeItem(toks []token.Token, width int) (item, []token.Token) {
	t0 := toks[0]

	switch {
	case t0.Kind == token.COMMENT:
		kind := "function_comment"
		if strings.HasPrefix(t0.Value, "%%") {
			kind = "module_comment"
		}
		return item{kind: kind, text: t0.Value}, toks[1:]

	case t0.Kind == token.OP && t0.Value == "-":
		return consumeAttribute(toks[1:], width)

	case t0.Kind == token.ATOM && len(toks) > 1 && toks[1].Kind == token.LPAREN:
		// A function clause reaches its `->` before the item's `.`; a bare
		// call such as `foo(Arg1, Arg2).` falls through to the expr path.
		if _, sep, _, ok := tscan.UntilAny(toks, token.ARROW, token.DOT); ok && sep == token.ARROW {
			return consumeFunction(toks, width)
		}

	case t0.IsAny(token.LBRACKET, token.LBRACE, token.BIN_OPEN):
		return consumeListItem(toks, width)
	}

	return consumeExprItem(toks, width)
}

func consumeAttribute(toks []token.Token, width int) (item, []token.Token) {
	nameTok := toks[0]
	name := literalWord(nameTok)
	rest := toks[1:]

	switch name {
	case "spec", "callback":
		return consumeSpecLike(name, rest, "->", width)
	case "type", "opaque":
		return consumeSpecLike(name, rest, "::", width)
	}

	body, rest2, ok := sliceToTopLevelDot(rest)
	if !ok {
		fail(nameTok, "attribute -%s is missing its terminating '.'", name)
	}
	var doc layout.Doc
	if len(body) == 0 {
		doc = layout.Text("-" + name + ".")
	} else {
		prefixSpace := ""
		if body[0].Kind != token.LPAREN {
			prefixSpace = " "
		}
		bodyDoc, _, err := builder.Build(body)
		if err != nil {
			panic(err)
		}
		doc = layout.Seq(layout.Text("-"+name+prefixSpace), bodyDoc, layout.Text("."))
	}
	return item{kind: "attribute", name: name, text: Pretty(doc, width)}, rest2
}

// consumeSpecLike handles -spec/-callback (arrow-separated, possibly
// multi-clause overloads) and -type/-opaque (::-separated type
// alternatives), aligning continuation clauses under the name (§4.4).
func consumeSpecLike(attrName string, toks []token.Token, sep string, width int) (item, []token.Token) {
	body, rest, ok := sliceToTopLevelDot(toks)
	if !ok {
		fail(toks[0], "attribute -%s is missing its terminating '.'", attrName)
	}
	body = stripOuterParens(body)

	var clauses []builder.Clause
	var tail []token.Token
	if sep == "->" {
		clauses, tail = builder.BuildFunctionClauses(body)
	} else {
		clauses, tail = builder.BuildTypeClauses(body)
	}
	if len(tail) != 0 {
		fail(tail[0], "unexpected tokens after -%s clauses", attrName)
	}

	docs := make([]layout.Doc, len(clauses))
	force := false
	for i, c := range clauses {
		docs[i] = c.Doc
		force = force || c.Force
	}
	joined := layout.Join(layout.Cons(layout.Text(""), layout.HardBreak), docs...)
	kind := "spec"
	if sep == "::" {
		kind = "type"
	}
	aligned := layout.Underneath(0, layout.GroupInherit(joined))
	doc := layout.Seq(layout.Text("-"+attrName+" "), aligned, layout.Text("."))
	return item{kind: kind, name: attrName, text: Pretty(layout.IfForce(force, doc), width)}, rest
}

func consumeFunction(toks []token.Token, width int) (item, []token.Token) {
	clauses, rest := builder.BuildFunctionClauses(toks)
	docs := make([]layout.Doc, len(clauses))
	force := len(clauses) > 1
	for i, c := range clauses {
		docs[i] = c.Doc
		force = force || c.Force
	}
	doc := layout.Join(layout.HardBreak, docs...)
	return item{kind: "function", text: Pretty(layout.IfForce(force, doc), width)}, rest
}

func consumeExprItem(toks []token.Token, width int) (item, []token.Token) {
	return consumeExprLikeItem("expr", toks, width)
}

// consumeListItem handles a top-level list/tuple/map/bitstring literal
// standing on its own (e.g. a `.config`-style term), tagged "list"
// rather than "expr" so blankPolicy can give it its own §4.5 row.
func consumeListItem(toks []token.Token, width int) (item, []token.Token) {
	return consumeExprLikeItem("list", toks, width)
}

func consumeExprLikeItem(kind string, toks []token.Token, width int) (item, []token.Token) {
	body, rest, ok := sliceToTopLevelDot(toks)
	if !ok {
		body, rest = toks, nil
	}
	doc, force, err := builder.Build(body)
	if err != nil {
		panic(err)
	}
	text := Pretty(doc, width)
	if force {
		text = Pretty(layout.ForceBreak(doc), width)
	}
	return item{kind: kind, text: text + "."}, rest
}

func literalWord(t token.Token) string {
	return t.Value
}

func fail(t token.Token, format string, args ...interface{}) {
	panic(&builder.Error{Kind: builder.KindMalformedStream, Token: t, Msg: fmt.Sprintf(format, args...)})
}
