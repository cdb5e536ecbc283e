package repl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"efmt/repl"
)

func TestStartFormatsEachSnippet(t *testing.T) {
	in := strings.NewReader("foo(X)->X.\nbar(Y)->Y.\n")
	var out bytes.Buffer

	repl.Start(in, &out, 100)

	got := out.String()
	assert.Contains(t, got, "foo(X) -> X.\n")
	assert.Contains(t, got, "bar(Y) -> Y.\n")
}

func TestStartReportsScanErrors(t *testing.T) {
	in := strings.NewReader("'unterminated atom.\n")
	var out bytes.Buffer

	repl.Start(in, &out, 100)

	assert.Contains(t, out.String(), "scan error")
}
