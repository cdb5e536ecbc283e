// Package tscan provides the bracket- and keyword-aware token scanning
// primitives the builders use to slice a token stream without losing
// track of nested brackets or …end keyword pairs. All scanning here is
// over a slice-based cursor rather than a linked list, per the "every
// peek needs a consume-and-recurse path" guidance: these functions never
// mutate their input, they only report where to cut it.
package tscan

import "efmt/token"

// frame is one entry of the implicit bracket/keyword stack: the token
// kind that will pop it.
type frame struct {
	closer token.Kind
}

// isFunBlockOpener reports whether a `fun` token at the front of rest
// opens a clause block (and therefore needs a matching `end`), as
// opposed to one of the inline arity/type reference shapes from §3.1
// (`fun()`, `fun((...) -> T)`, `fun F/A`, `fun M:F/A`, `fun ?M/A`,
// `fun ?M:F/A`, `fun Var/A`, `fun Var:F/A`) which are self-terminating.
func isFunBlockOpener(rest []token.Token) bool {
	get := func(i int) token.Token {
		if i < 0 || i >= len(rest) {
			return token.Token{Kind: token.EOF}
		}
		return rest[i]
	}
	t0 := get(0)

	if t0.Kind == token.LPAREN {
		t1 := get(1)
		// fun() or fun((...) -> ...): neither needs `end`.
		if t1.Kind == token.RPAREN || t1.Kind == token.LPAREN {
			return false
		}
		return true
	}
	if t0.Kind == token.QUESTION {
		// ?Macro/A or ?Macro:F/A
		return false
	}
	if t0.IsAny(token.ATOM, token.VAR) {
		t1 := get(1)
		if t1.Kind == token.SLASH {
			return false
		}
		if t1.Kind == token.COLON {
			return false
		}
	}
	return true
}

// pushable reports whether the token at position i (given the rest of
// the stream starting there) should push a new frame, and if so, which
// token kind pops it.
func pushable(toks []token.Token, i int) (token.Kind, bool) {
	t := toks[i]
	if closer, ok := token.OpenClose[t.Kind]; ok {
		return closer, true
	}
	if t.Kind == token.FUN {
		if isFunBlockOpener(toks[i+1:]) {
			return token.END, true
		}
		return "", false
	}
	if token.EndTerminated[t.Kind] {
		return token.END, true
	}
	return "", false
}

// poppable reports whether the token at position i pops the top of
// stack, given its closer kind.
func poppable(t token.Token, top token.Kind) bool {
	if t.Kind == top {
		return true
	}
	return false
}

// Until slices toks up to and including the first top-level occurrence
// of end, respecting nested brackets and end-terminated keywords. It
// returns the slice (including the terminator), the remaining tokens
// after it, and whether a top-level occurrence was actually found.
func Until(toks []token.Token, end token.Kind) (slice, rest []token.Token, ok bool) {
	var stack []frame
	for i, t := range toks {
		if len(stack) == 0 && t.Kind == end {
			return toks[:i+1], toks[i+1:], true
		}
		if len(stack) > 0 && poppable(t, stack[len(stack)-1].closer) {
			stack = stack[:len(stack)-1]
			continue
		}
		if closer, push := pushable(toks, i); push {
			stack = append(stack, frame{closer})
		}
		if t.Kind == token.EOF {
			break
		}
	}
	return toks, nil, false
}

// UntilOf is like Until(token.OF) but is stack-aware of nested case/try:
// a `try` frame pops not only on `end` but also on a peer `catch` or
// `after` at the same nesting level, so that try's own `of` clause (or
// an `of` inside one of its handlers) is never mistaken for the outer
// case's `of`.
func UntilOf(toks []token.Token) (slice, rest []token.Token, ok bool) {
	type tframe struct {
		closer   token.Kind
		tryFrame bool
	}
	var st []tframe
	for i, t := range toks {
		if len(st) == 0 && t.Kind == token.OF {
			return toks[:i+1], toks[i+1:], true
		}
		if len(st) > 0 {
			top := st[len(st)-1]
			if top.tryFrame && t.IsAny(token.CATCH, token.AFTER) {
				st = st[:len(st)-1]
				continue
			}
			if t.Kind == top.closer {
				st = st[:len(st)-1]
				continue
			}
		}
		if t.Kind == token.TRY {
			st = append(st, tframe{token.END, true})
			continue
		}
		if closer, push := pushable(toks, i); push {
			st = append(st, tframe{closer, false})
		}
		if t.Kind == token.EOF {
			break
		}
	}
	return toks, nil, false
}

// UntilAny finds the first top-level token whose kind is in kinds,
// respecting nested brackets and keywords. It does not consume the
// match; slice excludes it, rest starts at it.
func UntilAny(toks []token.Token, kinds ...token.Kind) (slice []token.Token, matched token.Kind, rest []token.Token, ok bool) {
	var stack []frame
	want := func(k token.Kind) bool {
		for _, w := range kinds {
			if k == w {
				return true
			}
		}
		return false
	}
	for i, t := range toks {
		if len(stack) == 0 && want(t.Kind) {
			return toks[:i], t.Kind, toks[i:], true
		}
		if len(stack) > 0 && poppable(t, stack[len(stack)-1].closer) {
			stack = stack[:len(stack)-1]
			continue
		}
		if closer, push := pushable(toks, i); push {
			stack = append(stack, frame{closer})
		}
		if t.Kind == token.EOF {
			break
		}
	}
	return toks, "", nil, false
}

// RemoveMatching drops an outer matched (open, close) bracket pair
// without touching inner brackets: toks must start with open and the
// balanced close for that open must be the last token.
func RemoveMatching(toks []token.Token, open, close token.Kind) ([]token.Token, bool) {
	if len(toks) < 2 || toks[0].Kind != open {
		return toks, false
	}
	depth := 0
	for i, t := range toks {
		switch {
		case t.Kind == open:
			depth++
		case t.Kind == close:
			depth--
			if depth == 0 {
				if i == len(toks)-1 {
					return toks[1 : len(toks)-1], true
				}
				return toks, false
			}
		}
	}
	return toks, false
}

// GuardState tracks whether EndOfExpr is scanning inside a `when` guard,
// where `,`/`;` no longer terminate an expression.
type GuardState int

const (
	NoGuard GuardState = iota
	InGuard
)

// EndOfExpr slices one expression off the front of toks. Terminators are
// `,`, `;`, and `.` at top level, unless guard is InGuard: then `,`/`;`
// are ignored until `->` ends the guard, or — if a `::` is seen first —
// the guard is a typed attribute alternative and ends at the next
// `;`/`.`. A comment immediately preceding the terminator on the same
// line as the rest of the expression is included in expr, not split
// out: build's own last-token-is-comment rule (§4.3 item 16) already
// forces a break for it, so callers never need it reported separately.
func EndOfExpr(toks []token.Token, guard GuardState) (expr []token.Token, term token.Kind, rest []token.Token) {
	var stack []frame
	sawColonColon := false
	for i, t := range toks {
		if len(stack) == 0 {
			switch {
			case guard == InGuard && !sawColonColon && t.Kind == token.ARROW:
				return toks[:i], t.Kind, toks[i:]
			case guard == InGuard && t.Kind == token.COLONCOLON:
				sawColonColon = true
			case (guard == NoGuard || sawColonColon) && t.IsAny(token.COMMA, token.SEMI, token.DOT):
				return toks[:i], t.Kind, toks[i:]
			case guard == InGuard && !sawColonColon && t.Kind == token.DOT:
				return toks[:i], t.Kind, toks[i:]
			}
		}
		if len(stack) > 0 && poppable(t, stack[len(stack)-1].closer) {
			stack = stack[:len(stack)-1]
			continue
		}
		if closer, push := pushable(toks, i); push {
			stack = append(stack, frame{closer})
		}
		if t.Kind == token.EOF {
			break
		}
	}
	return toks, token.EOF, nil
}
