package layout

import "strings"

type mode int

const (
	flatMode mode = iota
	breakMode
)

// entry is one (indent, mode, doc) triple on the explicit rendering
// stack. Both Format and fits are written as explicit stacks rather than
// native recursion so that deep source nesting can't blow the Go call
// stack and so the lazy fits probe can share the exact representation
// Format uses.
type entry struct {
	indent int
	mode   mode
	doc    Doc
}

// ItemKind distinguishes the two members of the laid-out document stream.
type ItemKind int

const (
	ItemText ItemKind = iota
	ItemLine
)

// Item is one element of an SDoc: either literal text appended to the
// current line, or a line break followed by Indent spaces.
type Item struct {
	Kind   ItemKind
	Text   string
	Indent int
}

// SDoc is the sequential stream produced by Format: a flat slice standing
// in for the SText/SLine/SNil cons-chain described in the layout model.
// Two consecutive ItemLine entries represent a blank line (the first
// carries indent 0, the second the real indent of what follows).
type SDoc []Item

// Format lays out doc at the given width, producing the SDoc stream that
// Emit turns into text.
func Format(width int, doc Doc) SDoc {
	var out SDoc
	col := 0
	stack := []entry{{0, breakMode, doc}}

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch d := e.doc.(type) {
		case nilDoc:
			// skip

		case *consDoc:
			stack = append(stack, entry{e.indent, e.mode, d.b}, entry{e.indent, e.mode, d.a})

		case textDoc:
			s := string(d)
			out = append(out, Item{Kind: ItemText, Text: s})
			col += len(s)

		case breakDoc:
			s := string(d)
			switch {
			case e.mode == flatMode && !containsNewline(s):
				out = append(out, Item{Kind: ItemText, Text: s})
				col += len(s)
			case s == "\n\n":
				out = append(out, Item{Kind: ItemLine, Indent: 0}, Item{Kind: ItemLine, Indent: e.indent})
				col = e.indent
			default:
				out = append(out, Item{Kind: ItemLine, Indent: e.indent})
				col = e.indent
			}

		case *nestDoc:
			stack = append(stack, entry{e.indent + d.n, e.mode, d.d})

		case *underneathDoc:
			stack = append(stack, entry{col + d.k, e.mode, d.d})

		case *forceBreakDoc:
			stack = append(stack, entry{e.indent, breakMode, d.d})

		case *groupDoc:
			if d.inherit == InheritMode {
				stack = append(stack, entry{e.indent, e.mode, d.d})
				continue
			}
			trial := make([]entry, len(stack)+1)
			copy(trial, stack)
			trial[len(stack)] = entry{e.indent, flatMode, d.d}
			if fits(width-col, trial) {
				stack = append(stack, entry{e.indent, flatMode, d.d})
			} else {
				stack = append(stack, entry{e.indent, breakMode, d.d})
			}
		}
	}

	return out
}

// fits reports whether the document stack can be rendered without
// exceeding w more columns before the next guaranteed line break. It is
// the lazy probe behind every group's flat/break decision: bounded by w
// (it gives up the moment the budget goes negative) and by the first
// break already committed to break mode or a ForceBreak (both end the
// current line unconditionally, so anything beyond them is irrelevant to
// whether the *current* line fits).
func fits(w int, stack []entry) bool {
	for {
		if w < 0 {
			return false
		}
		if len(stack) == 0 {
			return true
		}

		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch d := e.doc.(type) {
		case nilDoc:
			// continue

		case *consDoc:
			stack = append(stack, entry{e.indent, e.mode, d.b}, entry{e.indent, e.mode, d.a})

		case textDoc:
			w -= len(string(d))

		case breakDoc:
			s := string(d)
			if e.mode == flatMode {
				if containsNewline(s) {
					return true
				}
				w -= len(s)
			} else {
				return true
			}

		case *nestDoc:
			stack = append(stack, entry{e.indent + d.n, e.mode, d.d})

		case *underneathDoc:
			stack = append(stack, entry{e.indent, e.mode, d.d})

		case *forceBreakDoc:
			return true

		case *groupDoc:
			stack = append(stack, entry{e.indent, flatMode, d.d})
		}
	}
}

// Emit renders an SDoc to text.
func Emit(sd SDoc) string {
	var b strings.Builder
	for _, it := range sd {
		switch it.Kind {
		case ItemText:
			b.WriteString(it.Text)
		case ItemLine:
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(" ", it.Indent))
		}
	}
	return b.String()
}

// Pretty renders doc at the given width, wrapping the root in a fresh
// Group so a bare, non-Group document still gets a flat/break decision.
func Pretty(doc Doc, width int) string {
	return Emit(Format(width, Group(doc)))
}
