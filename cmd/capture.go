package cmd

import (
	"github.com/josephlewis42/gatesh/core/executor"
	"github.com/josephlewis42/gatesh/core/policy"
	"github.com/josephlewis42/gatesh/core/shell"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var captureCmd = &cobra.Command{
	Use:   "capture PROGRAM [ARG...]",
	Short: "Run one program with the timeout and output limits and print what it wrote.",
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

		out, err := exec.RunMonitored(cmd.Context(), shell.Command{Program: args[0], Args: args[1:]})
		if out != nil {
			cmd.OutOrStdout().Write(out.Stdout)
			cmd.ErrOrStderr().Write(out.Stderr)
		}
		if err != nil {
			return err
		}

		log.Debug("captured",
			zap.String("program", args[0]),
			zap.Int("stdout", len(out.Stdout)),
			zap.Int("stderr", len(out.Stderr)),
			zap.Int("status", out.ExitCode),
		)
		if out.ExitCode != 0 {
			return exitStatus(out.ExitCode)
		}
		return nil
	},
}

func init() {
	// Flags after the first argument belong to the line.
	captureCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(captureCmd)
}
