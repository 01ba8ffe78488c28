package cmd

import (
	"os"

	"github.com/josephlewis42/gatesh/commands"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		sh := commands.NewShell(configuration, commands.StdIO(), os.Environ(), log)
		status, err := sh.Run(cmd.Context())
		if err != nil {
			return err
		}
		if status != 0 {
			return exitStatus(status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
