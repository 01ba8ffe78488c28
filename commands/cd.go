package commands

import (
	"context"
	"fmt"
	"os"
)

// Cd is the cd shell builtin
func Cd(_ context.Context, s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "cd [DIR]",
		Short: "Change the shell working directory, defaulting to $HOME.",
	}

	return cmd.Run(s, args, func() int {
		var dir string
		switch rest := cmd.Flags().Args(); len(rest) {
		case 0:
			dir = s.Env.Getenv(EnvHome)
			if dir == "" {
				fmt.Fprintf(s.Stderr, "%s: HOME not set\n", args[0])
				return 1
			}
		case 1:
			dir = rest[0]
		default:
			fmt.Fprintf(s.Stderr, "%s: too many arguments\n", args[0])
			return 1
		}

		if err := os.Chdir(dir); err != nil {
			fmt.Fprintf(s.Stderr, "%s: %v\n", args[0], err)
			return 1
		}

		if wd, err := os.Getwd(); err == nil {
			_ = s.Env.Setenv(EnvPWD, wd)
		}
		return 0
	})
}

// Pwd is the pwd shell builtin
func Pwd(_ context.Context, s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "pwd",
		Short: "Print the name of the current working directory.",
	}

	return cmd.Run(s, args, func() int {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(s.Stderr, "%s: %v\n", args[0], err)
			return 1
		}
		fmt.Fprintln(s.Stdout, wd)
		return 0
	})
}

func init() {
	mustAddBuiltin("cd", "change the working directory", Cd)
	mustAddBuiltin("pwd", "print the working directory", Pwd)
}
