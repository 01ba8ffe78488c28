package commands

import (
	"context"
	"fmt"
)

// History lists or clears the lines entered in this session.
func History(_ context.Context, s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "history [-c]",
		Short: "Display the history list with line numbers.",
	}
	clearHistory := cmd.Flags().Bool('c', "clear the history by deleting all entries")

	return cmd.Run(s, args, func() int {
		if *clearHistory {
			if s.Readline != nil {
				s.Readline.Operation.ResetHistory()
			}
			s.history = nil
			return 0
		}

		for i, line := range s.history {
			fmt.Fprintf(s.Stdout, "% 5d  %s\n", i+1, line)
		}
		return 0
	})
}

func init() {
	mustAddBuiltin("history", "show or clear the session history", History)
}
