// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"efmt/internal/format"
	"efmt/internal/lexer"
)

const PROMPT = ">> "

// Start runs an interactive "format this snippet" loop: read lines
// until a trailing top-level '.' closes the clause, tokenize, run it
// through format.FormatTokens at width, and print the result.
func Start(in io.Reader, out io.Writer, width int) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		var buf strings.Builder
		for {
			if !scanner.Scan() {
				return
			}
			line := scanner.Text()
			buf.WriteString(line)
			buf.WriteByte('\n')
			if strings.HasSuffix(strings.TrimRight(line, " \t"), ".") {
				break
			}
		}

		toks, errs := lexer.Scan(buf.String())
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(out, "scan error: %s\n", e.Error())
			}
			continue
		}

		formatted, err := format.FormatTokens(toks, width)
		if err != nil {
			fmt.Fprintf(out, "format error: %s\n", err)
			continue
		}
		fmt.Fprint(out, formatted)
	}
}
