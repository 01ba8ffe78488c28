package cmd

import (
	"os"
	"strings"

	"github.com/josephlewis42/gatesh/commands"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec LINE...",
	Short: "Run a single line and exit with its status.",
	Long: `Run a single line as if it was typed into the shell. Arguments are
joined with spaces, quote the line to keep operators away from your own shell:

    gatesh exec 'ls -la | grep go > files.txt'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		stdio := commands.IO{Stdin: os.Stdin, Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
		sh := commands.NewShell(configuration, stdio, os.Environ(), log)
		if status := sh.RunLine(cmd.Context(), strings.Join(args, " ")); status != 0 {
			return exitStatus(status)
		}
		return nil
	},
}

func init() {
	// Flags after the first argument belong to the line.
	execCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(execCmd)
}
