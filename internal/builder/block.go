package builder

import (
	"efmt/internal/layout"
	"efmt/internal/tscan"
	"efmt/token"
)

// BuildBlock handles §4.4's five block keywords plus the `fun` block
// form, all sharing the same "keyword, body, peer tails, end" template.
func BuildBlock(toks []token.Token) (layout.Doc, bool, []token.Token) {
	kw := toks[0]
	switch kw.Kind {
	case token.CASE:
		return buildCase(toks)
	case token.IF:
		return buildIf(toks)
	case token.RECEIVE:
		return buildReceive(toks)
	case token.TRY:
		return buildTry(toks)
	case token.BEGIN:
		return buildBegin(toks)
	case token.FUN:
		return buildFunBlock(toks)
	}
	fail(KindUnknownToken, kw, "not a block keyword")
	return nil, false, nil
}

// indentedClauses renders a `;`-joined, force-broken run of clauses
// indented +4 under kw, e.g. the body of case/if/receive/begin.
func indentedClauses(clauses []Clause) (layout.Doc, bool) {
	force := len(clauses) > 1
	docs := make([]layout.Doc, len(clauses))
	for i, c := range clauses {
		docs[i] = c.Doc
		force = force || c.Force
	}
	body := layout.Join(layout.HardBreak, docs...)
	return layout.Nest(4, layout.Cons(layout.HardBreak, body)), force
}

// patternClauses splits a case/receive/try body into `;`-separated
// `Pattern [when Guard] -> Body` clauses, ending at the matching `end`
// (which is left in rest, unconsumed, since callers may need to look
// for catch/after first). A comment between two clauses, or trailing
// the last one before the block's closing keyword, is attached as its
// own line rather than reaching buildOneClause's head scan (§4.4).
func patternClauses(toks []token.Token, stop func([]token.Token) bool) ([]Clause, []token.Token) {
	var clauses []Clause
	rest := toks
	for {
		var leading []Clause
		leading, rest = peelLeadingComments(rest)
		clauses = append(clauses, leading...)
		if stop(rest) {
			return clauses, rest
		}
		c, term, tail := buildOneClause(rest, token.ARROW)
		clauses = append(clauses, c)
		rest = tail
		if term != token.SEMI {
			return clauses, rest
		}
	}
}

func atEnd(toks []token.Token) bool {
	return len(toks) > 0 && toks[0].Kind == token.END
}
func atCatchOrAfter(toks []token.Token) bool {
	return len(toks) > 0 && toks[0].IsAny(token.CATCH, token.AFTER, token.END)
}

func buildCase(toks []token.Token) (layout.Doc, bool, []token.Token) {
	argToks, afterOf, ok := tscan.UntilOf(toks[1:])
	if !ok {
		fail(KindMalformedStream, toks[0], "case is missing its 'of'")
	}
	argDoc, aforce := build(argToks[:len(argToks)-1])
	clauses, afterClauses := patternClauses(afterOf, atEnd)
	if len(afterClauses) == 0 || afterClauses[0].Kind != token.END {
		fail(KindUnexpectedEOI, expect(afterClauses, "case"), "case is missing its 'end'")
	}
	body, bforce := indentedClauses(clauses)
	doc := layout.Seq(layout.Text("case "), argDoc, layout.Text(" of"), body, layout.HardBreak, layout.Text("end"))
	force := aforce || bforce
	return layout.IfForce(force, doc), force, afterClauses[1:]
}

func buildIf(toks []token.Token) (layout.Doc, bool, []token.Token) {
	clauses, after := patternClauses(toks[1:], atEnd)
	if len(after) == 0 || after[0].Kind != token.END {
		fail(KindUnexpectedEOI, expect(after, "if"), "if is missing its 'end'")
	}
	body, force := indentedClauses(clauses)
	doc := layout.Seq(layout.Text("if"), body, layout.HardBreak, layout.Text("end"))
	return layout.IfForce(force, doc), force, after[1:]
}

func buildReceive(toks []token.Token) (layout.Doc, bool, []token.Token) {
	clauses, after := patternClauses(toks[1:], atCatchOrAfter)
	body, force := indentedClauses(clauses)
	doc := layout.Seq(layout.Text("receive"), body)

	if len(after) > 0 && after[0].Kind == token.AFTER {
		afterClauses, rest := patternClauses(after[1:], atEnd)
		afterBody, afterForce := indentedClauses(afterClauses)
		doc = layout.Seq(doc, layout.HardBreak, layout.Text("after"), afterBody)
		force = force || afterForce
		after = rest
	}
	if len(after) == 0 || after[0].Kind != token.END {
		fail(KindUnexpectedEOI, expect(after, "receive"), "receive is missing its 'end'")
	}
	doc = layout.Seq(doc, layout.HardBreak, layout.Text("end"))
	return layout.IfForce(force, doc), force, after[1:]
}

func buildTry(toks []token.Token) (layout.Doc, bool, []token.Token) {
	bodyToks, after, ok := tscan.UntilOf(toks[1:])
	var tryDoc layout.Doc
	var force bool
	var rest []token.Token

	if ok {
		argDoc, aforce := build(bodyToks[:len(bodyToks)-1])
		clauses, afterClauses := patternClauses(after, atCatchOrAfter)
		body, bforce := indentedClauses(clauses)
		tryDoc = layout.Seq(layout.Text("try "), argDoc, layout.Text(" of"), body)
		force, rest = aforce || bforce, afterClauses
	} else {
		exprToks, _, afterExprs, found := tscan.UntilAny(toks[1:], token.CATCH, token.AFTER, token.END)
		if !found {
			fail(KindUnexpectedEOI, expect(toks, "try"), "try is missing its 'end'")
		}
		body, bforce := buildClauseBody(exprToks, token.ARROW)
		if !bforce {
			body = layout.Nest(4, layout.Cons(layout.HardBreak, body))
		}
		tryDoc = layout.Seq(layout.Text("try"), body)
		force, rest = bforce, afterExprs
	}

	if len(rest) > 0 && rest[0].Kind == token.CATCH {
		handlers, tail := patternClauses(rest[1:], atCatchOrAfter)
		hbody, hforce := indentedClauses(handlers)
		tryDoc = layout.Seq(tryDoc, layout.HardBreak, layout.Text("catch"), hbody)
		force = force || hforce
		rest = tail
	}
	if len(rest) > 0 && rest[0].Kind == token.AFTER {
		afterClauses, tail := patternClauses(rest[1:], atEnd)
		abody, aforce := indentedClauses(afterClauses)
		tryDoc = layout.Seq(tryDoc, layout.HardBreak, layout.Text("after"), abody)
		force = force || aforce
		rest = tail
	}
	if len(rest) == 0 || rest[0].Kind != token.END {
		fail(KindUnexpectedEOI, expect(rest, "try"), "try is missing its 'end'")
	}
	tryDoc = layout.Seq(tryDoc, layout.HardBreak, layout.Text("end"))
	return layout.IfForce(force, tryDoc), force, rest[1:]
}

// trimTrailer drops the terminator token tscan.Until includes at the end
// of its returned slice (CATCH/AFTER/END), since that keyword is handled
// by the caller, not rendered as part of the body.
func trimTrailer(toks []token.Token) []token.Token {
	if len(toks) == 0 {
		return toks
	}
	return toks[:len(toks)-1]
}

func buildBegin(toks []token.Token) (layout.Doc, bool, []token.Token) {
	inner, rest, ok := tscan.Until(toks[1:], token.END)
	if !ok {
		fail(KindMalformedStream, toks[0], "begin is missing its 'end'")
	}
	body, force := buildClauseBody(trimTrailer(inner), token.ARROW)
	if !force {
		// a forced body already carries its own +4 nest and leading break
		body = layout.Nest(4, layout.Cons(layout.HardBreak, body))
	}
	doc := layout.Seq(layout.Text("begin"), body, layout.HardBreak, layout.Text("end"))
	return layout.IfForce(force, doc), force, rest
}

func buildFunBlock(toks []token.Token) (layout.Doc, bool, []token.Token) {
	inner, rest, ok := tscan.Until(toks[1:], token.END)
	if !ok {
		fail(KindMalformedStream, toks[0], "fun is missing its 'end'")
	}
	clauses, trailing := BuildFunctionClauses(trimTrailer(inner))
	if len(trailing) != 0 {
		fail(KindMalformedStream, trailing[0], "unexpected tokens after fun clauses")
	}
	body, force := indentedClauses(clauses)
	doc := layout.Seq(layout.Text("fun"), body, layout.HardBreak, layout.Text("end"))
	return layout.IfForce(force, doc), force, rest
}
