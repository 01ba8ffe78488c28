package shell

import (
	"errors"
	"fmt"
	"testing"

	"github.com/josephlewis42/gatesh/core/shellerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]struct {
		line     string
		expected []Command
	}{
		"simple": {
			line:     "ls -la",
			expected: []Command{{Program: "ls", Args: []string{"-la"}}},
		},
		"no args": {
			line:     "pwd",
			expected: []Command{{Program: "pwd"}},
		},
		"extra whitespace": {
			line:     "  echo \t a   b  ",
			expected: []Command{{Program: "echo", Args: []string{"a", "b"}}},
		},
		"double quotes keep spaces": {
			line:     `echo "a b"`,
			expected: []Command{{Program: "echo", Args: []string{"a b"}}},
		},
		"single quotes keep spaces": {
			line:     `echo 'hello world'`,
			expected: []Command{{Program: "echo", Args: []string{"hello world"}}},
		},
		"other quote inside quotes": {
			line:     `echo "it's" 'say "hi"'`,
			expected: []Command{{Program: "echo", Args: []string{"it's", `say "hi"`}}},
		},
		"adjacent quoted spans": {
			line:     `echo "a"'b'c`,
			expected: []Command{{Program: "echo", Args: []string{"abc"}}},
		},
		"quoted pipe is a word": {
			line:     `echo "a|b"`,
			expected: []Command{{Program: "echo", Args: []string{"a|b"}}},
		},
		"quoted operators are words": {
			line:     `echo ">" '<' "&"`,
			expected: []Command{{Program: "echo", Args: []string{">", "<", "&"}}},
		},
		"quoted operator as redirect operand": {
			line:     `cat < "&"`,
			expected: []Command{{Program: "cat", InputRedirect: "&"}},
		},
		"empty quotes": {
			line:     `echo ""`,
			expected: []Command{{Program: "echo", Args: []string{""}}},
		},
		"redirections": {
			line: "sort a b < in > out",
			expected: []Command{{
				Program:        "sort",
				Args:           []string{"a", "b"},
				InputRedirect:  "in",
				OutputRedirect: "out",
			}},
		},
		"append": {
			line:     "echo x >> log.txt",
			expected: []Command{{Program: "echo", Args: []string{"x"}, OutputRedirect: "log.txt", Append: true}},
		},
		"last output redirect wins": {
			line:     "echo x >> a > b",
			expected: []Command{{Program: "echo", Args: []string{"x"}, OutputRedirect: "b"}},
		},
		"redirect before program": {
			line:     "< in cat",
			expected: []Command{{Program: "cat", InputRedirect: "in"}},
		},
		"quoted redirect operand": {
			line:     `echo x > "my file.txt"`,
			expected: []Command{{Program: "echo", Args: []string{"x"}, OutputRedirect: "my file.txt"}},
		},
		"pipeline": {
			line: "cat < in | grep foo | wc -l > out",
			expected: []Command{
				{Program: "cat", InputRedirect: "in"},
				{Program: "grep", Args: []string{"foo"}},
				{Program: "wc", Args: []string{"-l"}, OutputRedirect: "out"},
			},
		},
		"pipe without spaces": {
			line: "echo hello|grep h",
			expected: []Command{
				{Program: "echo", Args: []string{"hello"}},
				{Program: "grep", Args: []string{"h"}},
			},
		},
		"background": {
			line:     "sleep 10 &",
			expected: []Command{{Program: "sleep", Args: []string{"10"}, Background: true}},
		},
		"background on final stage only": {
			line: "yes | head -n 1 &",
			expected: []Command{
				{Program: "yes"},
				{Program: "head", Args: []string{"-n", "1"}, Background: true},
			},
		},
		"ampersand on inner stage is consumed": {
			line: "yes & | head",
			expected: []Command{
				{Program: "yes"},
				{Program: "head"},
			},
		},
		"ampersand mid segment": {
			line:     "sleep & 1",
			expected: []Command{{Program: "sleep", Args: []string{"1"}, Background: true}},
		},
		"operators must stand alone": {
			line:     "echo a>b",
			expected: []Command{{Program: "echo", Args: []string{"a>b"}}},
		},
		"unterminated double quote is accepted": {
			line:     `echo "hello world`,
			expected: []Command{{Program: "echo", Args: []string{"hello world"}}},
		},
		"unterminated single quote swallows pipe": {
			line:     `echo 'a | b`,
			expected: []Command{{Program: "echo", Args: []string{"a | b"}}},
		},
		"script": {
			line:     "script.py arg1",
			expected: []Command{{Program: "script.py", Args: []string{"arg1"}}},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			actual, err := Parse(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestParse_errors(t *testing.T) {
	cases := map[string]struct {
		line    string
		rule    shellerr.Rule
		subject string
	}{
		"empty":                 {"", shellerr.EmptyCommand, ""},
		"whitespace":            {"  \t ", shellerr.EmptyCommand, ""},
		"leading pipe":          {"| grep x", shellerr.MissingOperand, "|"},
		"trailing pipe":         {"echo x |", shellerr.MissingOperand, "|"},
		"trailing pipe spaces":  {"echo x |   ", shellerr.MissingOperand, "|"},
		"double pipe":           {"echo x || grep x", shellerr.MissingOperand, "|"},
		"blank middle stage":    {"echo x |  | grep x", shellerr.MissingOperand, "|"},
		"lone pipe":             {"|", shellerr.MissingOperand, "|"},
		"missing input":         {"cat <", shellerr.MissingOperand, "<"},
		"missing output":        {"echo x >", shellerr.MissingOperand, ">"},
		"missing append":        {"echo x >>", shellerr.MissingOperand, ">>"},
		"missing in pipeline":   {"echo x > | cat", shellerr.MissingOperand, ">"},
		"redirect only":         {"> out", shellerr.NoCommand, ""},
		"ampersand only":        {"&", shellerr.NoCommand, ""},
		"ampersand stage":       {"ls | &", shellerr.NoCommand, ""},
		"quoted empty program":  {`"" ls`, shellerr.NoCommand, ""},
		"redirect to operator":  {"cat < >", shellerr.MissingOperand, "<"},
		"redirect to ampersand": {"cat > &", shellerr.MissingOperand, ">"},
		"append to redirect":    {"cat >> < in", shellerr.MissingOperand, ">>"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			actual, err := Parse(tc.line)
			assert.Nil(t, actual)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shellerr.ErrParse), "expected parse error, got %v", err)

			var se *shellerr.Error
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tc.rule, se.Rule)
			assert.Equal(t, tc.subject, se.Subject)
		})
	}
}

// Every empty segment next to an unquoted pipe is rejected, wherever it is.
func TestParse_danglingPipes(t *testing.T) {
	words := []string{"a", "b x", "c"}
	for n := 1; n <= len(words); n++ {
		for blank := 0; blank <= n; blank++ {
			var segs []string
			segs = append(segs, words[:blank]...)
			segs = append(segs, " ")
			segs = append(segs, words[blank:n]...)
			line := ""
			for i, s := range segs {
				if i > 0 {
					line += "|"
				}
				line += s
			}

			t.Run(line, func(t *testing.T) {
				_, err := Parse(line)
				assert.True(t, errors.Is(err, shellerr.MissingOperand), "got %v", err)
			})
		}
	}
}

func TestParse_redirectionProperties(t *testing.T) {
	for _, args := range [][]string{{"a"}, {"a", "b"}, {"-x", "--y=z", "3"}} {
		line := "prog"
		for _, a := range args {
			line += " " + a
		}
		line += " < in > out"

		t.Run(line, func(t *testing.T) {
			cmds, err := Parse(line)
			require.NoError(t, err)
			require.Len(t, cmds, 1)
			assert.Equal(t, "in", cmds[0].InputRedirect)
			assert.Equal(t, "out", cmds[0].OutputRedirect)
			assert.False(t, cmds[0].Append)
			assert.Equal(t, args, cmds[0].Args)
		})
	}
}

func ExampleParse() {
	cmds, err := Parse(`grep -i "needle in" < haystack.txt | sort >> found.txt &`)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, c := range cmds {
		fmt.Printf("%q %q in=%q out=%q append=%v bg=%v\n",
			c.Program, c.Args, c.InputRedirect, c.OutputRedirect, c.Append, c.Background)
	}

	// Output: "grep" ["-i" "needle in"] in="haystack.txt" out="" append=false bg=false
	// "sort" [] in="" out="found.txt" append=true bg=true
}

func ExamplePipeline() {
	cmds, _ := Parse(`echo "a b" | tr a-z A-Z > out.txt`)
	fmt.Println(Pipeline(cmds))

	// Output: echo 'a b' | tr a-z A-Z > out.txt
}
