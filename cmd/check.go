package cmd

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/gatesh/core/executor"
	"github.com/josephlewis42/gatesh/core/policy"
	"github.com/josephlewis42/gatesh/core/shell"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check LINE...",
	Short: "Parse and validate a line without running it.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		engine := policy.New(configuration, policy.WithLogger(log))
		exec := executor.New(engine, configuration, executor.WithLogger(log))

		line, err := engine.SanitizeInput(strings.Join(args, " "))
		if err != nil {
			return err
		}

		cmds, err := shell.Parse(line)
		if err != nil {
			return err
		}

		stages, err := exec.Plan(cmds)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for i, stage := range stages {
			fmt.Fprintf(w, "%d: %s\n", i+1, stage)
		}
		if len(stages) > 0 && stages[len(stages)-1].Command.Background {
			fmt.Fprintln(w, "runs in the background")
		}
		return nil
	},
}

func init() {
	// Flags after the first argument belong to the line.
	checkCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(checkCmd)
}
