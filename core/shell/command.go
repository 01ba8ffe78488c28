package shell

import (
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Command is a single stage of a pipeline.
type Command struct {
	// Program is the executable name or path. An empty program means the stage
	// is skipped by the executor.
	Program string
	Args    []string

	// InputRedirect is the file read as stdin, only used on the first stage.
	InputRedirect string
	// OutputRedirect is the file written as stdout, only used on the last stage.
	OutputRedirect string
	// Append opens OutputRedirect for appending rather than truncating it.
	Append bool
	// Background is only set on the final stage of a line ending in &.
	Background bool
}

// Argv returns the program followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Program}, c.Args...)
}

// String renders the command back into shell syntax.
func (c Command) String() string {
	var parts []string
	for _, word := range c.Argv() {
		parts = append(parts, quote(word))
	}
	if c.InputRedirect != "" {
		parts = append(parts, "<", quote(c.InputRedirect))
	}
	if c.OutputRedirect != "" {
		op := ">"
		if c.Append {
			op = ">>"
		}
		parts = append(parts, op, quote(c.OutputRedirect))
	}
	if c.Background {
		parts = append(parts, "&")
	}
	return strings.Join(parts, " ")
}

// Pipeline renders a sequence of commands joined by pipes.
func Pipeline(cmds []Command) string {
	var out []string
	for _, c := range cmds {
		out = append(out, c.String())
	}
	return strings.Join(out, " | ")
}

func quote(word string) string {
	if word == "" {
		return "''"
	}
	quoted, err := syntax.Quote(word, syntax.LangPOSIX)
	if err != nil {
		// Words with bytes POSIX shells can't represent.
		return strconv.Quote(word)
	}
	return quoted
}
