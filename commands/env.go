package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/josephlewis42/gatesh/core/vos"
)

// Export sets variables in the environment passed to programs.
func Export(_ context.Context, s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "export [NAME[=VALUE]...]",
		Short: "Set export attribute for shell variables, list them if no names are given.",
	}

	return cmd.Run(s, args, func() int {
		rest := cmd.Flags().Args()
		if len(rest) == 0 {
			for _, kv := range s.Env.Environ() {
				fmt.Fprintf(s.Stdout, "export %s\n", kv)
			}
			return 0
		}

		status := 0
		for _, arg := range rest {
			key, value := vos.SplitEnv(arg)
			if !strings.Contains(arg, "=") {
				if _, ok := s.Env.LookupEnv(key); ok {
					continue
				}
			}
			if err := s.Env.Setenv(key, value); err != nil {
				fmt.Fprintf(s.Stderr, "%s: %v\n", args[0], err)
				status = 1
			}
		}
		return status
	})
}

// Unset removes variables from the environment.
func Unset(_ context.Context, s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "unset [NAME...]",
		Short: "Unset shell variables.",
	}

	return cmd.RunEachArg(s, args, func(name string) error {
		return s.Env.Unsetenv(name)
	})
}

func init() {
	mustAddBuiltin("export", "set or list exported variables", Export)
	mustAddBuiltin("unset", "remove exported variables", Unset)
}
