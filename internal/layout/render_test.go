package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"efmt/internal/layout"
)

// binop builds `l op r`, breaking after the operator and indenting the
// right operand two deeper, exactly as Lindig's paper example does for
// `a == b`, `a << 2`, and `a + b`.
func binop(l, op, r string) layout.Doc {
	return layout.Group(layout.Nest(2, layout.Seq(
		layout.Text(l), layout.Text(" "+op), layout.SpaceBreak, layout.Text(r),
	)))
}

// ifThenElse reproduces the `if c then e1 else e2` shape from Lindig's
// "Strictly Pretty" paper: an outer group deciding once whether the
// whole thing fits on a line, with if/then/else each re-decided
// independently once the outer group breaks.
func ifThenElse(c, e1, e2 layout.Doc) layout.Doc {
	chunk := func(kw string, d layout.Doc) layout.Doc {
		return layout.Group(layout.Nest(2, layout.Seq(layout.Text(kw), layout.SpaceBreak, d)))
	}
	return layout.Group(layout.Seq(
		chunk("if", c), layout.SpaceBreak,
		chunk("then", e1), layout.SpaceBreak,
		chunk("else", e2),
	))
}

func TestPaperCorrespondence(t *testing.T) {
	doc := ifThenElse(binop("a", "==", "b"), binop("a", "<<", "2"), binop("a", "+", "b"))

	cases := []struct {
		width int
		want  string
	}{
		{100, "if a == b then a << 2 else a + b"},
		{32, "if a == b then a << 2 else a + b"},
		{15, "if a == b\nthen a << 2\nelse a + b"},
		{10, "if a == b\nthen\n  a << 2\nelse a + b"},
		{8, "if\n  a == b\nthen\n  a << 2\nelse\n  a + b"},
		{7, "if\n  a ==\n    b\nthen\n  a <<\n    2\nelse\n  a + b"},
		{6, "if\n  a ==\n    b\nthen\n  a <<\n    2\nelse\n  a +\n    b"},
	}
	for _, c := range cases {
		got := layout.Pretty(doc, c.width)
		assert.Equal(t, c.want, got, "width %d", c.width)
	}
}

func TestGroupInheritPropagatesForcedBreak(t *testing.T) {
	forced := layout.ForceBreak(layout.Seq(layout.Text("a"), layout.HardBreak, layout.Text("b")))
	doc := layout.Seq(layout.Text("x"), layout.GroupInherit(forced))
	assert.Equal(t, "xa\nb", layout.Pretty(doc, 100))
}

func TestUnderneathAnchorsToCurrentColumn(t *testing.T) {
	doc := layout.Seq(
		layout.Text("-spec "),
		layout.Underneath(0, layout.ForceBreak(layout.Seq(layout.Text("foo() -> ok"), layout.HardBreak, layout.Text("bar() -> ok")))),
	)
	assert.Equal(t, "-spec foo() -> ok\n      bar() -> ok", layout.Pretty(doc, 100))
}

func TestBlankBreakAlwaysProducesTwoNewlines(t *testing.T) {
	doc := layout.Seq(layout.Text("a"), layout.BlankBreak, layout.Text("b"))
	assert.Equal(t, "a\n\nb", layout.Pretty(doc, 100))
}

func TestTrailingLiteralLongerThanWidthIsNeverTruncated(t *testing.T) {
	long := "this_atom_is_much_longer_than_the_configured_width"
	assert.Equal(t, long, layout.Pretty(layout.Text(long), 10))
}
