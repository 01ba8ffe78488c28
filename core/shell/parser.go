package shell

// The parser handles a small subset of
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
//
// 1. The line is split into pipeline segments on unquoted '|'.
//
// 2. Each segment is broken into words on unquoted blanks. Single and double
// quotes group characters into one word and are removed; there are no escape
// sequences and no expansions of any kind.
//
// 3. Redirection operators ('<', '>', '>>') take the following word as their
// operand and are removed from the argument list. A trailing '&' on the final
// segment runs the pipeline in the background.
//
// Operators are only recognized as standalone words: "a>b" is a single word.

import (
	"strings"
	"unicode"

	"github.com/josephlewis42/gatesh/core/shellerr"
)

const (
	opPipe       = "|"
	opInput      = "<"
	opOutput     = ">"
	opAppend     = ">>"
	opBackground = "&"
)

// ErrEmptyCommand is returned when the line contains nothing to run.
var ErrEmptyCommand = shellerr.New(shellerr.KindParse, shellerr.EmptyCommand, "")

// word is a token along with whether any part of it was quoted, quoted words
// are never treated as operators.
type word struct {
	text   string
	quoted bool
}

// Parse converts a line of input into the stages of a pipeline.
func Parse(line string) ([]Command, error) {
	if strings.TrimSpace(line) == "" {
		return nil, ErrEmptyCommand
	}

	segments := splitPipeline(line)
	for _, seg := range segments {
		if len(seg) == 0 && len(segments) > 1 {
			return nil, missingOperand(opPipe)
		}
	}

	var commands []Command
	for i, seg := range segments {
		if len(seg) == 0 {
			continue
		}

		cmd, err := parseSegment(seg, i == len(segments)-1)
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}

	if len(commands) == 0 {
		return nil, ErrEmptyCommand
	}
	return commands, nil
}

// splitPipeline tokenizes the line and groups the words into pipe separated
// segments. An unterminated quote runs to the end of the line and the partial
// word is kept.
func splitPipeline(line string) [][]word {
	var (
		segments [][]word
		current  []word
		buf      strings.Builder
		inWord   bool
		quoted   bool
		quote    rune
	)

	flush := func() {
		if inWord {
			current = append(current, word{text: buf.String(), quoted: quoted})
		}
		buf.Reset()
		inWord = false
		quoted = false
	}

	for _, ch := range line {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
				continue
			}
			buf.WriteRune(ch)

		case ch == '"' || ch == '\'':
			quote = ch
			inWord = true
			quoted = true

		case ch == '|':
			flush()
			segments = append(segments, current)
			current = nil

		case unicode.IsSpace(ch):
			flush()

		default:
			buf.WriteRune(ch)
			inWord = true
		}
	}
	flush()

	return append(segments, current)
}

func parseSegment(words []word, final bool) (Command, error) {
	var cmd Command
	var argv []string

	for i := 0; i < len(words); i++ {
		w := words[i]
		if w.quoted {
			argv = append(argv, w.text)
			continue
		}

		switch w.text {
		case opInput, opOutput, opAppend:
			if i+1 >= len(words) || words[i+1].isOperator() {
				return Command{}, missingOperand(w.text)
			}
			operand := words[i+1].text
			i++

			switch w.text {
			case opInput:
				cmd.InputRedirect = operand
			case opOutput:
				cmd.OutputRedirect = operand
				cmd.Append = false
			case opAppend:
				cmd.OutputRedirect = operand
				cmd.Append = true
			}

		case opBackground:
			// Consumed on every segment so it never leaks into the arguments,
			// but only meaningful at the end of the line.
			if final {
				cmd.Background = true
			}

		default:
			argv = append(argv, w.text)
		}
	}

	// A quoted empty program names nothing to run.
	if len(argv) == 0 || argv[0] == "" {
		return Command{}, shellerr.New(shellerr.KindParse, shellerr.NoCommand, "")
	}
	cmd.Program = argv[0]
	if len(argv) > 1 {
		cmd.Args = argv[1:]
	}
	return cmd, nil
}

// isOperator reports whether the word is an unquoted redirection or
// background operator.
func (w word) isOperator() bool {
	if w.quoted {
		return false
	}
	switch w.text {
	case opInput, opOutput, opAppend, opBackground:
		return true
	}
	return false
}

func missingOperand(op string) error {
	return shellerr.Newf(shellerr.KindParse, shellerr.MissingOperand, op, "expected a word after %q", op)
}
