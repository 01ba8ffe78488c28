package commands

import (
	"context"
	"fmt"
)

// Help lists the builtins, or shows the help of one.
func Help(ctx context.Context, s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "help [BUILTIN]",
		Short: "Display information about builtin commands.",
	}

	return cmd.Run(s, args, func() int {
		rest := cmd.Flags().Args()
		if len(rest) > 0 {
			builtin, ok := AllBuiltins[rest[0]]
			if !ok {
				fmt.Fprintf(s.Stderr, "%s: no help topics match %q\n", args[0], rest[0])
				return 1
			}
			return builtin.Main(ctx, s, []string{rest[0], "--help"})
		}

		w := s.Stdout
		fmt.Fprintln(w, "gatesh, a restricted command shell")
		fmt.Fprintln(w, "These shell commands are defined internally. Type `help NAME' to find out more about NAME.")
		fmt.Fprintln(w, "Everything else is run as a program after passing the security policy.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Builtins:")
		for _, name := range ListBuiltins() {
			fmt.Fprintf(w, "  %-10s %s\n", name, AllBuiltins[name].Short)
		}

		return 0
	})
}

func init() {
	mustAddBuiltin("help", "show this list", Help)
}
