// Package driver implements §6.2's file-level contract around the
// core: read a file, tokenize it, run it through format.FormatTokens,
// and decide whether to write the result back, report it as needing
// formatting, or bail out with a structured error. It owns every
// blocking I/O call and every AST-equivalence check the core itself
// never performs.
package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"efmt/grammar"
	"efmt/internal/format"
	"efmt/internal/lexer"
)

// Config is the driver's recognized option set (§6.2).
type Config struct {
	Check      bool
	LineLength int
}

func (c Config) width() int {
	if c.LineLength <= 0 {
		return 100
	}
	return c.LineLength
}

// sourceExtensions is the set of extensions that get an AST-equivalence
// check; anything else is formatted unconditionally (§6.2).
var sourceExtensions = map[string]bool{
	".erl": true,
	".hrl": true,
}

// CrashDumpPath is where a formatted-but-AST-mismatched rewrite is
// diverted to, so a human can diff it against the original instead of
// it silently overwriting a working file.
var CrashDumpPath = filepath.Join(os.TempDir(), "efmt-crash-dump.erl")

// Status is the outcome of formatting a single file.
type Status int

const (
	// Unchanged means the file was already correctly formatted.
	Unchanged Status = iota
	// NeedsFormatting means check mode found a diff but did not write it.
	NeedsFormatting
	// Formatted means the file was reformatted and overwritten.
	Formatted
)

// Result reports what happened to one file.
type Result struct {
	Path   string
	Status Status
}

// Format implements the full §6.2 branch table for a single path.
func Format(path string, cfg Config) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, &Error{Kind: KindFileMissing, Path: path, cause: err}
		}
		return Result{}, &Error{Kind: KindIOError, Path: path, cause: err}
	}
	if info.IsDir() {
		return Result{}, &Error{Kind: KindIsDirectory, Path: path}
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return Result{}, &Error{Kind: KindIOError, Path: path, cause: err}
	}

	isSource := sourceExtensions[filepath.Ext(path)]

	var preAST *grammar.Program
	if isSource {
		preAST, err = grammar.ParseString(path, string(source))
		if err != nil {
			return Result{}, &Error{Kind: KindIOError, Path: path, cause: fmt.Errorf("pre-format parse failed: %w", err)}
		}
	}

	toks, scanErrs := lexer.Scan(string(source))
	if len(scanErrs) > 0 {
		return Result{}, &Error{Kind: KindIOError, Path: path, cause: fmt.Errorf("scan failed: %s", scanErrs[0].Error())}
	}

	formatted, err := format.FormatTokens(toks, cfg.width())
	if err != nil {
		return Result{}, &Error{Kind: KindIOError, Path: path, cause: err}
	}

	if isSource {
		postAST, perr := grammar.ParseString(path, formatted)
		if perr != nil || !grammar.Equal(preAST, postAST) {
			if werr := os.WriteFile(CrashDumpPath, []byte(formatted), 0o644); werr != nil {
				return Result{}, &Error{Kind: KindIOError, Path: path, cause: werr}
			}
			return Result{}, &Error{Kind: KindFormatterBrokeTheCode, Path: path, CrashDumpPath: CrashDumpPath}
		}
	}

	if formatted == string(source) {
		return Result{Path: path, Status: Unchanged}, nil
	}
	if cfg.Check {
		return Result{Path: path, Status: NeedsFormatting}, nil
	}
	if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
		return Result{}, &Error{Kind: KindIOError, Path: path, cause: err}
	}
	return Result{Path: path, Status: Formatted}, nil
}
