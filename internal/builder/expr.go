// Package builder turns an expression, clause, or block token run into a
// layout.Doc, recognising shape patterns in priority order and bubbling a
// force-break flag up from anything that must not stay flat: an inline
// comment, a multi-expression clause body, a multi-clause construct, or
// any nested group that itself forced.
package builder

import (
	"strings"

	"efmt/internal/layout"
	"efmt/internal/tscan"
	"efmt/token"
)

// Build turns toks (one already-isolated expression, with no trailing
// terminator token) into a document, recovering any internal *Error
// panic into a returned error so callers never see the panic escape the
// package.
func Build(toks []token.Token) (doc layout.Doc, force bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	doc, force = build(toks)
	return doc, force, nil
}

// build is the recursive entry point used internally once we're inside a
// recover()-guarded call: a primary shape, followed by whatever infix
// tail (assignment, boolean chain, bare operator, trailing comment)
// follows it.
func build(toks []token.Token) (layout.Doc, bool) {
	if len(toks) == 0 {
		return layout.Nil, false
	}

	// 16. Inline comment as the last element forces a break.
	if last := toks[len(toks)-1]; last.Kind == token.COMMENT && len(toks) > 1 {
		d, _ := build(toks[:len(toks)-1])
		return layout.ForceBreak(layout.Seq(d, layout.Text(" "+last.Value))), true
	}

	head, hforce, rest := buildPrimary(toks)
	if len(rest) == 0 {
		return head, hforce
	}
	return buildTail(head, hforce, rest)
}

// buildTail applies whichever infix continuation rule matches what
// follows a built primary: assignment (10), boolean chain / alternative
// (14), list-comprehension separator (15), or a generic operator join
// (17).
func buildTail(lhs layout.Doc, lforce bool, rest []token.Token) (layout.Doc, bool) {
	t := rest[0]

	switch {
	case t.IsAny(token.EQ, token.EQEQ, token.EXACT_EQ, token.EXACT_NEQ):
		return buildAssignment(lhs, lforce, t, rest[1:])

	case t.IsAny(token.ANDALSO, token.ORELSE, token.PIPE):
		rhs, rforce := build(rest[1:])
		sep := " " + string(t.Kind)
		d := layout.Seq(layout.Group(lhs), layout.Text(sep), layout.SpaceBreak, layout.Group(rhs))
		force := lforce || rforce
		return d, force

	case t.Kind == token.OP || t.Kind == token.SLASH || t.Kind == token.PIPEPIPE:
		rhs, rforce := build(rest[1:])
		d := layout.Seq(lhs, layout.Text(" "+t.String()+" "), rhs)
		return d, lforce || rforce

	default:
		// Unrecognised continuation: surface it as a bug rather than
		// silently dropping tokens.
		fail(KindUnknownToken, t, "unexpected token after expression")
		return nil, false
	}
}

// buildAssignment implements §4.3 item 10.
func buildAssignment(lhs layout.Doc, lforce bool, op token.Token, rhsToks []token.Token) (layout.Doc, bool) {
	if _, _, _, ok := tscan.UntilAny(rhsToks, token.ANDALSO, token.ORELSE); ok {
		rhs, rforce := build(rhsToks)
		d := layout.Seq(layout.Group(lhs), layout.Text(" "+op.String()), layout.SpaceBreak, rhs)
		return d, lforce || rforce
	}
	rhs, rforce := build(rhsToks)
	eq := layout.Seq(layout.Group(lhs), layout.Text(" "+op.String()), layout.SpaceBreak, layout.Group(rhs))
	body := layout.Nest(4, eq)
	return layout.IfForce(rforce, body), rforce
}

// buildPrimary recognises shape patterns 1-9, 12, 13 (everything that
// can start an expression) and returns however much of toks it consumed.
func buildPrimary(toks []token.Token) (layout.Doc, bool, []token.Token) {
	t0 := expect(toks, "expression")

	switch {
	// 1. Macro reference ?X (with optional call args, e.g. ?MACRO(Args)).
	case t0.Kind == token.QUESTION:
		return buildMacro(toks)

	// 3. Block keywords delegate to the block builder.
	case t0.IsAny(token.CASE, token.IF, token.RECEIVE, token.TRY, token.BEGIN):
		return BuildBlock(toks)

	// 4. when guard/type.
	case t0.Kind == token.WHEN:
		return buildWhen(toks)

	// 5. Record/map syntax starting with '#'.
	case t0.Kind == token.HASH:
		return buildRecordOrMap(toks)

	// 6. fun variants.
	case t0.Kind == token.FUN:
		return buildFun(toks)

	// 5. X#name{...} / X#name.key / X#{...} (prefixed record/map forms).
	case t0.IsAny(token.VAR, token.ATOM) && len(toks) > 1 && toks[1].Kind == token.HASH:
		return buildRecordOrMapPrefixed(toks)

	// 2/7/8. Var(args) macro-style call, M:F(args)/M:F, F(args).
	case t0.IsAny(token.VAR, token.ATOM):
		if d, f, r, ok := tryCall(toks); ok {
			return d, f, r
		}

	// 9. List/tuple/map/bitstring group, or a parenthesised sub-expression.
	case t0.Kind == token.LBRACKET:
		return buildBracketGroup("[", "]", token.RBRACKET, toks)
	case t0.Kind == token.LBRACE:
		return buildBracketGroup("{", "}", token.RBRACE, toks)
	case t0.Kind == token.BIN_OPEN:
		return buildBracketGroup("<<", ">>", token.BIN_CLOSE, toks)
	case t0.Kind == token.LPAREN:
		d, f, rest := buildBracketGroup("(", ")", token.RPAREN, toks)
		return d, f, rest
	}

	// 14. Leading andalso/orelse/| is malformed; everything else below is
	// a leaf shape consuming exactly one (possibly fused) token.

	// 12/13. Arity literal / binary type specifier fusion, else a plain literal.
	if d, f, rest, ok := tryFusedLiteral(toks); ok {
		return d, f, rest
	}

	return layout.Text(literalText(t0)), false, toks[1:]
}

// tryCall recognises shapes 2, 7, and 8: Var(args), M:F(args), bare
// M:F, and F(args).
func tryCall(toks []token.Token) (layout.Doc, bool, []token.Token, bool) {
	name := toks[0]
	rest := toks[1:]

	qualifier := ""
	if len(rest) > 0 && rest[0].Kind == token.COLON {
		rest2 := rest[1:]
		if len(rest2) > 0 && rest2[0].Kind == token.QUESTION {
			rest2 = rest2[1:]
			if len(rest2) == 0 {
				return nil, false, nil, false
			}
			qualifier = literalText(name) + ":?" + literalText(rest2[0])
			rest = rest2[1:]
		} else if len(rest2) > 0 && rest2[0].IsAny(token.ATOM, token.VAR) {
			qualifier = literalText(name) + ":" + literalText(rest2[0])
			rest = rest2[1:]
		} else {
			return nil, false, nil, false
		}
	}

	if len(rest) > 0 && rest[0].Kind == token.LPAREN {
		args, force, tail := buildBracketGroup("(", ")", token.RPAREN, rest)
		callee := qualifier
		if callee == "" {
			callee = literalText(name)
		}
		return layout.Cons(layout.Text(callee), args), force, tail, true
	}

	if qualifier != "" {
		return layout.Text(qualifier), false, rest, true
	}

	return nil, false, nil, false
}

// buildMacro handles §4.3 item 1: ?X, optionally immediately called.
func buildMacro(toks []token.Token) (layout.Doc, bool, []token.Token) {
	rest := toks[1:]
	name := expect(rest, "macro reference")
	rest = rest[1:]
	text := "?" + literalText(name)
	if len(rest) > 0 && rest[0].Kind == token.LPAREN {
		args, force, tail := buildBracketGroup("(", ")", token.RPAREN, rest)
		return layout.Cons(layout.Text(text), args), force, tail
	}
	return layout.Text(text), false, rest
}

// buildWhen handles §4.3 item 4: `when <guard>` aligned under the `w`.
// EndOfExpr's InGuard mode finds the guard's end: `->` for a function
// clause's guard, or, once a `::` turns up first, the typed-alternative
// `;`/`.` that ends the whole clause (§4.2) — buildClauseHead only ever
// reaches here with sep == token.ARROW in practice, since this
// language's type alternatives don't carry guards.
func buildWhen(toks []token.Token) (layout.Doc, bool, []token.Token) {
	guardToks, _, rest := tscan.EndOfExpr(toks[1:], tscan.InGuard)
	guard, force := buildGuard(guardToks)
	d := layout.Seq(layout.Text("when "), layout.Underneath(0, layout.GroupInherit(guard)))
	return d, force, rest
}

// buildGuard renders a guard's top-level `,`/`;`-separated conditions,
// putting the same separator back after each condition and laying them
// out the way an andalso/orelse chain is laid out: each condition is its
// own group, with a break point after its separator.
func buildGuard(toks []token.Token) (layout.Doc, bool) {
	if len(toks) == 0 {
		return layout.Nil, false
	}
	if slice, sep, rest, ok := tscan.UntilAny(toks, token.COMMA, token.SEMI); ok {
		lhs, lforce := build(slice)
		rhs, rforce := buildGuard(rest[1:])
		word := ","
		if sep == token.SEMI {
			word = ";"
		}
		d := layout.Seq(layout.Group(lhs), layout.Text(word), layout.SpaceBreak, rhs)
		return d, lforce || rforce
	}
	return build(toks)
}

// buildFun handles §4.3 item 6.
func buildFun(toks []token.Token) (layout.Doc, bool, []token.Token) {
	rest := toks[1:]
	t0 := expect(rest, "fun")

	// fun() and fun((...) -> T) are types; fun(Args) -> ... end is the
	// block form, matching tscan's fun-block detection.
	if t0.Kind == token.LPAREN && len(rest) > 1 && rest[1].IsAny(token.RPAREN, token.LPAREN) {
		inner, tail, ok := sliceBalanced(rest, token.LPAREN, token.RPAREN)
		if !ok {
			fail(KindMalformedStream, t0, "unterminated fun(...) type")
		}
		body, force := buildFunType(inner)
		return layout.Seq(layout.Text("fun("), body, layout.Text(")")), force, tail
	}

	if fused, consumed, ok := fuseFunArity(rest); ok {
		return layout.Text("fun " + fused), false, rest[consumed:]
	}

	// Block form: fun Clauses end.
	return BuildBlock(toks)
}

// buildFunType renders the body of a fun(...) type specifier: either
// empty (the bare `fun()` any-arity type) or an argument-type group
// followed by `-> ReturnType`, which build's generic infix handling
// doesn't cover since `->` is a clause separator, not an expression
// operator.
func buildFunType(inner []token.Token) (layout.Doc, bool) {
	if len(inner) == 0 {
		return layout.Nil, false
	}
	argToks, _, retToks, ok := tscan.UntilAny(inner, token.ARROW)
	if !ok {
		return build(inner)
	}
	argDoc, aforce := build(argToks)
	retDoc, rforce := build(retToks[1:])
	return layout.Seq(argDoc, layout.Text(" -> "), retDoc), aforce || rforce
}

// fuseFunArity recognises the arity-reference shapes that make `fun`
// self-terminating: F/A, M:F/A, ?M/A, ?M:F/A, Var/A, Var:F/A.
func fuseFunArity(toks []token.Token) (string, int, bool) {
	i := 0
	get := func() token.Token {
		if i >= len(toks) {
			return token.Token{Kind: token.EOF}
		}
		return toks[i]
	}
	var b strings.Builder
	t := get()
	if t.Kind == token.QUESTION {
		b.WriteString("?")
		i++
		t = get()
	}
	if !t.IsAny(token.ATOM, token.VAR) {
		return "", 0, false
	}
	b.WriteString(literalText(t))
	i++
	if get().Kind == token.COLON {
		b.WriteString(":")
		i++
		f := get()
		if !f.IsAny(token.ATOM, token.VAR) {
			return "", 0, false
		}
		b.WriteString(literalText(f))
		i++
	}
	if get().Kind != token.SLASH {
		return "", 0, false
	}
	b.WriteString("/")
	i++
	n := get()
	if n.Kind != token.INT {
		return "", 0, false
	}
	b.WriteString(n.Value)
	i++
	return b.String(), i, true
}

// buildRecordOrMap handles §4.3 item 5: #name{...}, X#name{...},
// X#name.key, #name.key, #{...}, X#{...}.
func buildRecordOrMap(toks []token.Token) (layout.Doc, bool, []token.Token) {
	prefix, rest := "", toks[1:]
	t0 := expect(rest, "record/map")
	if t0.Kind == token.ATOM {
		prefix = literalText(t0)
		rest = rest[1:]
	}
	prefix = "#" + prefix

	next := expect(rest, "record/map body")
	switch {
	case next.Kind == token.LBRACE:
		return buildBracketGroup(prefix+"{", "}", token.RBRACE, rest)
	case next.Kind == token.FIELDDOT:
		field := expect(rest[1:], "record field name")
		return layout.Text(prefix + "." + literalText(field)), false, rest[2:]
	}
	fail(KindUnknownToken, next, "expected '{' or field access after %q", prefix)
	return nil, false, nil
}

// buildRecordOrMapPrefixed handles the X#name{...} / X#name.key /
// X#{...} forms, where toks[0] is the leading Var/atom and toks[1] is
// the '#'.
func buildRecordOrMapPrefixed(toks []token.Token) (layout.Doc, bool, []token.Token) {
	base := literalText(toks[0])
	rest := toks[1:] // at '#'
	body, force, tail := buildRecordOrMap(rest)
	return layout.Cons(layout.Text(base), body), force, tail
}

// tryFusedLiteral handles §4.3 item 12: atom/int arity literals and
// binary type specifiers fused into one text atom.
func tryFusedLiteral(toks []token.Token) (layout.Doc, bool, []token.Token, bool) {
	if len(toks) >= 3 && toks[0].IsAny(token.ATOM, token.VAR, token.STRING) && toks[1].Kind == token.SLASH && toks[2].IsAny(token.ATOM, token.INT) {
		text := literalText(toks[0]) + "/" + literalText(toks[2])
		return layout.Text(text), false, toks[3:], true
	}
	if len(toks) >= 5 && toks[0].Kind == token.VAR && toks[1].Kind == token.COLON && toks[2].Kind == token.INT && toks[3].Kind == token.SLASH && toks[4].IsAny(token.ATOM, token.INT) {
		text := literalText(toks[0]) + ":" + toks[2].Value + "/" + literalText(toks[4])
		return layout.Text(text), false, toks[5:], true
	}
	return nil, false, nil, false
}

// sliceBalanced returns the tokens inside a single balanced (open,
// close) pair starting at toks[0], plus whatever follows the close.
func sliceBalanced(toks []token.Token, open, close token.Kind) (inner, rest []token.Token, ok bool) {
	if len(toks) == 0 || toks[0].Kind != open {
		return nil, toks, false
	}
	spanned, tail, found := tscan.Until(toks[1:], close)
	if !found {
		return nil, toks, false
	}
	return spanned[:len(spanned)-1], tail, true
}

