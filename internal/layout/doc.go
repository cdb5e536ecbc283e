// Package layout implements the lazy document algebra the core renders
// through: a small sum-type tree (Nil, Cons, Text, Break, Nest,
// Underneath, Group, ForceBreak) based on Lindig's "Strictly Pretty"
// (2000), plus the fits/format walk that turns a Doc into flat text.
//
// Builders (internal/builder) never touch a rendered column or decide a
// line break themselves; they only assemble a Doc. All break/no-break
// decisions happen once, here, during Format.
package layout

import "strings"

// Doc is the abstract document tree. There are exactly eight shapes.
type Doc interface {
	isDoc()
}

type nilDoc struct{}

func (nilDoc) isDoc() {}

// Nil is the empty document.
var Nil Doc = nilDoc{}

type consDoc struct{ a, b Doc }

func (*consDoc) isDoc() {}

// Cons concatenates two documents. A Nil operand is elided.
func Cons(a, b Doc) Doc {
	if a == Nil {
		return b
	}
	if b == Nil {
		return a
	}
	return &consDoc{a, b}
}

// Seq concatenates any number of documents left to right.
func Seq(docs ...Doc) Doc {
	out := Nil
	for _, d := range docs {
		out = Cons(out, d)
	}
	return out
}

// Join concatenates docs with sep placed between (not before or after) them.
func Join(sep Doc, docs ...Doc) Doc {
	out := Nil
	for i, d := range docs {
		if i > 0 {
			out = Cons(out, sep)
		}
		out = Cons(out, d)
	}
	return out
}

type textDoc string

func (textDoc) isDoc() {}

// Text is an inline literal string; its width is its byte length.
func Text(s string) Doc { return textDoc(s) }

type breakDoc string

func (breakDoc) isDoc() {}

// Break is a break point: in flat mode it renders as its literal (unless
// the literal itself contains a newline, in which case it always renders
// that newline); in break mode it renders as a newline plus the current
// indent (doubling up for a "\n\n" literal to produce a blank line).
func Break(s string) Doc { return breakDoc(s) }

// Common break literals used throughout the builder.
var (
	SoftBreak  = Break("")     // nothing when flat, newline when broken
	SpaceBreak = Break(" ")    // a space when flat, newline when broken
	HardBreak  = Break("\n")   // always a literal newline, flat or broken
	BlankBreak = Break("\n\n") // always a blank line, flat or broken
)

type nestDoc struct {
	n int
	d Doc
}

func (*nestDoc) isDoc() {}

// Nest adds n to the current indent for d.
func Nest(n int, d Doc) Doc {
	if n == 0 {
		return d
	}
	return &nestDoc{n, d}
}

type underneathDoc struct {
	k int
	d Doc
}

func (*underneathDoc) isDoc() {}

// Underneath sets the indent of d to the current column (at the point
// Underneath is reached during rendering) plus k. This is the
// column-anchored indent used to align multi-clause specs beneath a
// function name and continuation lines after "when" or "::".
func Underneath(k int, d Doc) Doc { return &underneathDoc{k, d} }

// Inherit controls whether a Group makes its own break/flat decision or
// adopts its enclosing mode.
type Inherit int

const (
	// Self starts a fresh fit decision for the group.
	Self Inherit = iota
	// InheritMode forces the group to render in whatever mode its
	// enclosing context is already in, propagating a forced break
	// downward without a separate fits probe.
	InheritMode
)

type groupDoc struct {
	d       Doc
	inherit Inherit
}

func (*groupDoc) isDoc() {}

// Group wraps d as a fresh layout unit: the renderer decides once,
// independently, whether the whole group fits flat.
func Group(d Doc) Doc { return &groupDoc{d, Self} }

// GroupInherit wraps d as a layout unit that adopts its enclosing
// break/flat mode instead of deciding for itself.
func GroupInherit(d Doc) Doc { return &groupDoc{d, InheritMode} }

type forceBreakDoc struct{ d Doc }

func (*forceBreakDoc) isDoc() {}

// ForceBreak renders d in break mode regardless of whether it would fit.
func ForceBreak(d Doc) Doc { return &forceBreakDoc{d} }

// IfForce wraps d in ForceBreak when force is true, otherwise in Group.
// This is the common pattern at the top of a builder: render flat if
// everything fits and nothing forced a break, broken otherwise.
func IfForce(force bool, d Doc) Doc {
	if force {
		return ForceBreak(d)
	}
	return Group(d)
}

func containsNewline(s string) bool {
	return strings.IndexByte(s, '\n') >= 0
}
