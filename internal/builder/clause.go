package builder

import (
	"efmt/internal/layout"
	"efmt/internal/tscan"
	"efmt/token"
)

// Clause is one built `head -> body` (or `head :: body`) unit, carrying
// its own force-break flag so a caller joining several clauses can OR
// them together (§3.4).
type Clause struct {
	Doc   layout.Doc
	Force bool
}

// BuildFunctionClauses builds every clause of a function definition
// (head parsing per §4.4: an atom/macro name, one argument list group,
// an optional when guard, terminated by `->`), stopping at the clause
// terminated by `.`. It returns the clauses and whatever trails the
// final `.`.
func BuildFunctionClauses(toks []token.Token) ([]Clause, []token.Token) {
	return buildClauseList(toks, token.ARROW)
}

// BuildTypeClauses is BuildFunctionClauses for a `::`-separated type
// alternative list (used by multi-clause specs, §4.4).
func BuildTypeClauses(toks []token.Token) ([]Clause, []token.Token) {
	return buildClauseList(toks, token.COLONCOLON)
}

// buildClauseList is BuildFunctionClauses/BuildTypeClauses's shared
// loop: a comment sitting between two clauses (or trailing the last
// one) is attached as its own leading/trailing line rather than
// reaching buildOneClause's head scan, where it would be mistaken for
// pattern content (§4.4).
func buildClauseList(toks []token.Token, sep token.Kind) ([]Clause, []token.Token) {
	var clauses []Clause
	rest := toks
	for {
		var leading []Clause
		leading, rest = peelLeadingComments(rest)
		clauses = append(clauses, leading...)
		if len(rest) == 0 || rest[0].Kind == token.EOF {
			return clauses, rest
		}
		c, term, tail := buildOneClause(rest, sep)
		clauses = append(clauses, c)
		rest = tail
		if term == token.DOT || term == token.EOF || term == token.END {
			return clauses, rest
		}
	}
}

// peelLeadingComments strips any run of comment tokens off the front of
// toks, turning each into its own force-broken pseudo-clause so callers
// that join a clause list with hard breaks render it as an extra line
// rather than feeding it to a parser that has no shape for a bare
// comment (§4.4).
func peelLeadingComments(toks []token.Token) ([]Clause, []token.Token) {
	var out []Clause
	for len(toks) > 0 && toks[0].Kind == token.COMMENT {
		out = append(out, Clause{Doc: layout.Text(toks[0].Value), Force: true})
		toks = toks[1:]
	}
	return out, toks
}

func buildOneClause(toks []token.Token, sep token.Kind) (Clause, token.Kind, []token.Token) {
	head, hforce, bodyToks, ok := buildClauseHead(toks, sep)
	if !ok {
		fail(KindUnexpectedEOI, expect(toks, "clause"), "clause is missing its %q", sep)
	}
	// END/CATCH/AFTER are included so a clause body inside a
	// case/if/receive/try/begin block stops at its enclosing block's
	// terminator (or the next peer section of a receive/try) instead of
	// scanning past it; a nested block's own end/catch/after is already
	// absorbed by the bracket/keyword stack and never reaches here
	// unmatched.
	bodySlice, term, rest, ok := tscan.UntilAny(bodyToks, token.DOT, token.SEMI, token.END, token.CATCH, token.AFTER)
	switch {
	case !ok:
		bodySlice, rest, term = bodyToks, nil, token.EOF
	case term == token.END, term == token.CATCH, term == token.AFTER:
		// leave the block's own terminator/peer keyword unconsumed
	default:
		rest = rest[1:]
	}
	var bodyDoc layout.Doc
	var bforce bool
	var doc layout.Doc
	if sep == token.COLONCOLON {
		// A type alternative's body is a single expression, never a
		// comma list, so the only comment-attachment case here is one
		// sitting directly after the `::` (§4.4's "between the head and
		// the body").
		var leadingComments []layout.Doc
		for len(bodySlice) > 0 && bodySlice[0].Kind == token.COMMENT {
			leadingComments = append(leadingComments, layout.Text(bodySlice[0].Value))
			bodySlice = bodySlice[1:]
		}
		raw, f := build(bodySlice)
		if len(leadingComments) > 0 {
			lines := append(leadingComments, raw)
			bodyDoc = layout.Nest(4, layout.Cons(layout.HardBreak, layout.Join(layout.HardBreak, lines...)))
			bforce = true
			doc = layout.Seq(head, layout.Text(" ::"), bodyDoc)
		} else {
			bodyDoc, bforce = layout.Underneath(-2, layout.GroupInherit(raw)), f
			doc = layout.Seq(head, layout.Text(" :: "), bodyDoc)
		}
	} else {
		bodyDoc, bforce = buildClauseBody(bodySlice, sep)
		if bforce {
			doc = layout.Seq(head, layout.Text(" ->"), bodyDoc)
		} else {
			doc = layout.Seq(head, layout.Text(" ->"), layout.Nest(4, layout.Cons(layout.SpaceBreak, bodyDoc)))
		}
	}
	force := hforce || bforce
	if term == token.SEMI {
		doc = layout.Cons(doc, layout.Text(";"))
	} else if term == token.DOT {
		doc = layout.Cons(doc, layout.Text("."))
	}
	return Clause{Doc: layout.IfForce(force, doc), Force: force}, term, rest
}

// buildClauseHead recognises a clause head: name, optional one argument
// group, optional `when` guard, then sep (`->` or `::`).
func buildClauseHead(toks []token.Token, sep token.Kind) (layout.Doc, bool, []token.Token, bool) {
	patToks, matched, rest, ok := tscan.UntilAny(toks, token.WHEN, sep)
	if !ok {
		return nil, false, nil, false
	}
	patDoc, pforce := build(patToks)
	if matched == token.WHEN {
		whenDoc, wforce, afterGuard := buildWhen(rest)
		if len(afterGuard) == 0 || afterGuard[0].Kind != sep {
			fail(KindUnexpectedEOI, expect(afterGuard, "guard"), "guard is missing its %q", sep)
		}
		return layout.Seq(patDoc, layout.Text(" "), whenDoc), pforce || wforce, afterGuard[1:], true
	}
	return patDoc, pforce, rest[1:], true
}

// buildClauseBody renders a clause's body expressions (§4.4): a single
// expression may stay flat; more than one forces a break with each on
// its own line at indent +4. A type alternative (sep == ::) never has a
// multi-expression body and never reaches here: buildOneClause's `::`
// branch renders it Underneath(-2,...) itself.
func buildClauseBody(toks []token.Token, sep token.Kind) (layout.Doc, bool) {
	segs, force := buildClauseBodySegments(toks)
	if len(segs) == 0 {
		return layout.Nil, false
	}
	if len(segs) == 1 && !segs[0].comment && !force {
		return segs[0].doc, false
	}

	// Commas separate real expressions, never comments: count how many
	// expression segments still follow each position so only the right
	// ones get a trailing comma.
	exprsAfter := make([]int, len(segs)+1)
	for i := len(segs) - 1; i >= 0; i-- {
		exprsAfter[i] = exprsAfter[i+1]
		if !segs[i].comment {
			exprsAfter[i]++
		}
	}
	lines := make([]layout.Doc, len(segs))
	for i, s := range segs {
		d := s.doc
		if !s.comment && exprsAfter[i+1] > 0 {
			d = layout.Cons(d, layout.Text(","))
		}
		lines[i] = d
	}
	joined := layout.Join(layout.HardBreak, lines...)
	return layout.Nest(4, layout.Cons(layout.HardBreak, joined)), true
}

// bodySegment is one line of a built clause body: either a built
// expression, or a comment that was attached as its own leading line
// rather than fed to the expression builder (§4.4).
type bodySegment struct {
	doc     layout.Doc
	comment bool
}

// buildClauseBodySegments splits a clause body on top-level commas with
// end_of_expr (§4.2), the same terminator-aware cursor buildWhen uses
// for guard content, peeling off any comment that precedes an
// expression — whether right after the clause's `->`/`::` (between the
// head and the body) or right after a comma (between two body
// expressions) — as its own segment instead of letting it reach
// end_of_expr as ordinary expression content.
func buildClauseBodySegments(toks []token.Token) ([]bodySegment, bool) {
	var segs []bodySegment
	force := false
	remaining := toks
	for len(remaining) > 0 {
		for len(remaining) > 0 && remaining[0].Kind == token.COMMENT {
			segs = append(segs, bodySegment{doc: layout.Text(remaining[0].Value), comment: true})
			force = true
			remaining = remaining[1:]
		}
		if len(remaining) == 0 {
			break
		}
		exprToks, term, rest := tscan.EndOfExpr(remaining, tscan.NoGuard)
		d, f := build(exprToks)
		segs = append(segs, bodySegment{doc: d})
		force = force || f
		if term != token.COMMA {
			break
		}
		remaining = rest[1:]
	}
	return segs, force
}
