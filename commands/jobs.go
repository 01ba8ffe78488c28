package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/josephlewis42/gatesh/core/shell"
)

// Jobs reports the number of running background processes.
func Jobs(_ context.Context, s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "jobs",
		Short: "Display the number of active background processes.",
	}

	return cmd.Run(s, args, func() int {
		fmt.Fprintf(s.Stdout, "%d of %d background processes active\n",
			s.Engine.ActiveProcesses(), s.Config.Limits.MaxBackgroundProcesses)
		return 0
	})
}

// Stats prints the per program execution statistics.
func Stats(_ context.Context, s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "stats",
		Short: "Display how often and how long each program was run.",
	}

	return cmd.Run(s, args, func() int {
		tw := tabwriter.NewWriter(s.Stdout, 0, 8, 2, ' ', 0)
		defer tw.Flush()

		fmt.Fprintln(tw, "COMMAND\tCOUNT\tTOTAL\tLAST")
		for _, st := range s.Engine.AllStats() {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
				st.Name, st.Count, st.TotalTime.Round(time.Microsecond), st.LastExecution.Format(time.RFC3339))
		}
		return 0
	})
}

// Monitor runs one program with the timeout and output limits applied and
// prints what it captured.
func Monitor(ctx context.Context, s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "monitor PROGRAM [ARG...]",
		Short: "Run a program with a timeout and capped output.",
	}

	return cmd.Run(s, args, func() int {
		rest := cmd.Flags().Args()
		if len(rest) == 0 {
			fmt.Fprintf(s.Stderr, "%s: missing operand\n", args[0])
			return 1
		}

		out, err := s.Executor.RunMonitored(ctx, shell.Command{Program: rest[0], Args: rest[1:]})
		if out != nil {
			s.Stdout.Write(out.Stdout)
			s.Stderr.Write(out.Stderr)
		}
		if err != nil {
			s.reportError(err)
			return 1
		}
		return out.ExitCode
	})
}

func init() {
	mustAddBuiltin("jobs", "count background processes", Jobs)
	mustAddBuiltin("stats", "show program statistics", Stats)
	mustAddBuiltin("monitor", "run a program with limits and capture its output", Monitor)
}
