package commands

import (
	"context"
	"fmt"
	"sort"
)

// ShellBuiltin is a command the shell runs itself instead of spawning.
type ShellBuiltin struct {
	// Short holds a one line description shown by help.
	Short string
	Main  func(ctx context.Context, s *Shell, args []string) int
}

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

func mustAddBuiltin(name, short string, main func(ctx context.Context, s *Shell, args []string) int) {
	if _, ok := AllBuiltins[name]; ok {
		panic(fmt.Sprintf("builtin %q registered twice", name))
	}
	AllBuiltins[name] = ShellBuiltin{Short: short, Main: main}
}

// ListBuiltins returns the builtin names in sorted order.
func ListBuiltins() []string {
	var out []string
	for name := range AllBuiltins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
