package grammar

// Program is the root of a parsed source file: a flat sequence of
// atoms and bracketed groups. It captures exactly enough structure to
// detect whether two parses are shaped the same way — dropped tokens,
// reordered arguments, a swapped bracket kind — without committing to
// any semantic grammar for the language being formatted.
type Program struct {
	Nodes []*Node `@@*`
}

// Node is either a single leaf token (an atom, variable, number,
// string, operator, or piece of punctuation that isn't a bracket) or
// one of the four group shapes. Only one field is ever set.
type Node struct {
	Paren   *ParenGroup   `  @@`
	Brace   *BraceGroup   `| @@`
	Bracket *BracketGroup `| @@`
	Binary  *BinaryGroup  `| @@`
	Leaf    string        `| @(Comment|Char|String|QuotedAtom|Float|BasedInteger|Integer|Var|Atom|Arrow|DoubleColon|Operator|Punctuation)`
}

// ParenGroup is a `( ... )` span; its Items hold whatever nodes
// appear between the matched parens.
type ParenGroup struct {
	Items []*Node `"(" @@* ")"`
}

// BraceGroup is a `{ ... }` span — Erlang tuples and record literals.
type BraceGroup struct {
	Items []*Node `"{" @@* "}"`
}

// BracketGroup is a `[ ... ]` span — lists and list comprehensions.
type BracketGroup struct {
	Items []*Node `"[" @@* "]"`
}

// BinaryGroup is a `<< ... >>` bitstring span.
type BinaryGroup struct {
	Items []*Node `BinOpen @@* BinClose`
}

// Equal reports whether two programs have the same shape: the same
// sequence of leaves with the same text, and groups of the same kind
// nested the same way. Source positions are never compared, so
// reformatting that only moves line/column is transparent to it.
func Equal(a, b *Program) bool {
	if a == nil || b == nil {
		return a == b
	}
	return nodesEqual(a.Nodes, b.Nodes)
}

func nodesEqual(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !nodeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func nodeEqual(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch {
	case a.Paren != nil:
		return b.Paren != nil && nodesEqual(a.Paren.Items, b.Paren.Items)
	case a.Brace != nil:
		return b.Brace != nil && nodesEqual(a.Brace.Items, b.Brace.Items)
	case a.Bracket != nil:
		return b.Bracket != nil && nodesEqual(a.Bracket.Items, b.Bracket.Items)
	case a.Binary != nil:
		return b.Binary != nil && nodesEqual(a.Binary.Items, b.Binary.Items)
	default:
		return b.Paren == nil && b.Brace == nil && b.Bracket == nil && b.Binary == nil && a.Leaf == b.Leaf
	}
}
