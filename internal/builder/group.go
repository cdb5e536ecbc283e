package builder

import (
	"efmt/internal/layout"
	"efmt/internal/tscan"
	"efmt/token"
)

// buildBracketGroup handles §4.3 item 9 (and the brace half of item 5):
// toks must start with the bracket matching close. openText/closeText
// are the literal characters emitted (openText may carry a fused prefix
// such as "#name{"). A top-level "||" inside switches to the
// list-comprehension rendering of item 15.
func buildBracketGroup(openText, closeText string, close token.Kind, toks []token.Token) (layout.Doc, bool, []token.Token) {
	spanned, rest, ok := tscan.Until(toks[1:], close)
	if !ok {
		fail(KindMalformedStream, toks[0], "unterminated %s ... %s", openText, closeText)
	}
	inner := spanned[:len(spanned)-1]

	var body layout.Doc
	var force bool
	if resultToks, _, genToks, ok := tscan.UntilAny(inner, token.PIPEPIPE); ok {
		body, force = buildComprehension(resultToks, genToks[1:])
	} else {
		items, f := buildCommaItems(inner)
		force = f
		body = joinItems(items)
	}

	whole := layout.Seq(
		layout.Text(openText),
		layout.Nest(4, layout.Cons(layout.SoftBreak, body)),
		layout.SoftBreak,
		layout.Text(closeText),
	)
	if len(inner) == 0 {
		whole = layout.Text(openText + closeText)
	}
	return layout.IfForce(force, whole), force, rest
}

// buildComprehension handles §4.3 item 15.
func buildComprehension(resultToks, genToks []token.Token) (layout.Doc, bool) {
	result, rforce := build(resultToks)
	generators, gforce := buildCommaItems(genToks)
	body := layout.Seq(result, layout.Text(" ||"), layout.SpaceBreak, joinItems(generators))
	return body, rforce || gforce
}

// buildCommaItems splits toks on top-level commas and builds each item.
func buildCommaItems(toks []token.Token) ([]layout.Doc, bool) {
	var items []layout.Doc
	force := false
	remaining := toks
	for len(remaining) > 0 {
		item, _, rest, ok := tscan.UntilAny(remaining, token.COMMA)
		if !ok {
			d, f := build(remaining)
			items = append(items, d)
			force = force || f
			break
		}
		d, f := build(item)
		items = append(items, d)
		force = force || f
		remaining = rest[1:]
	}
	return items, force
}

func joinItems(items []layout.Doc) layout.Doc {
	sep := layout.Cons(layout.Text(","), layout.SpaceBreak)
	return layout.Join(sep, items...)
}
