package commands

import (
	"context"
	"fmt"
	"strconv"
)

// Exit quits the shell with the given status, or the last status if none.
func Exit(_ context.Context, s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "exit [N]",
		Short: "Exit the shell with status N.",
	}

	return cmd.Run(s, args, func() int {
		status := s.lastRet
		switch rest := cmd.Flags().Args(); len(rest) {
		case 0:
		case 1:
			n, err := strconv.Atoi(rest[0])
			if err != nil {
				fmt.Fprintf(s.Stderr, "%s: %s: numeric argument required\n", args[0], rest[0])
				return 1
			}
			status = n & 0xff
		default:
			fmt.Fprintf(s.Stderr, "%s: too many arguments\n", args[0])
			return 1
		}

		s.Quit = true
		return status
	})
}

func init() {
	mustAddBuiltin("exit", "exit the shell", Exit)
}
