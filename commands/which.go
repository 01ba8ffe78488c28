package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/josephlewis42/gatesh/core/executor"
	"github.com/josephlewis42/gatesh/core/shell"
)

// Which prints the path of each named program.
func Which(_ context.Context, s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "which [COMMAND...]",
		Short: "Locate a command.",
	}

	return cmd.RunEachArg(s, args, func(arg string) error {
		res, err := executor.LookPath(s.Fs, s.Env.Getenv(EnvPath), arg)
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		fmt.Fprintln(s.Stdout, res)
		return nil
	})
}

// Type describes how each name would be interpreted by the shell.
func Type(_ context.Context, s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "type [-p] NAME...",
		Short: "Display information about command type and whether the policy allows it.",
	}
	pathOnly := cmd.Flags().Bool('p', "only print the path of programs")

	return cmd.RunEachArg(s, args, func(name string) error {
		if _, ok := AllBuiltins[name]; ok {
			if !*pathOnly {
				fmt.Fprintf(s.Stdout, "%s is a shell builtin\n", name)
			}
			return nil
		}

		stages, planErr := s.Executor.Plan([]shell.Command{{Program: name}})
		program := name
		if planErr == nil && stages[0].Interpreter {
			program = stages[0].Program
		}

		path, err := executor.LookPath(s.Fs, s.Env.Getenv(EnvPath), program)
		if err != nil {
			return fmt.Errorf("%s: not found", name)
		}

		switch {
		case *pathOnly:
			fmt.Fprintln(s.Stdout, path)
		case planErr != nil:
			fmt.Fprintf(s.Stdout, "%s is %s (denied: %v)\n", name, path, planErr)
		case program != name:
			fmt.Fprintf(s.Stdout, "%s is a %s script run by %s\n", name, filepath.Ext(name), path)
		default:
			fmt.Fprintf(s.Stdout, "%s is %s\n", name, path)
		}
		return nil
	})
}

func init() {
	mustAddBuiltin("which", "locate a program", Which)
	mustAddBuiltin("type", "describe how a name would be run", Type)
}
