package cmd

import (
	"github.com/josephlewis42/gatesh/core/config"
	"github.com/josephlewis42/gatesh/core/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// initCmd writes the default configuration
var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Write the default configuration to DIR, or the --config directory.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir := cfgPath
		if len(args) == 1 {
			dir = args[0]
		}

		log, err := logger.New(cmd.ErrOrStderr(), "info", logger.FormatConsole)
		if err != nil {
			return err
		}
		defer log.Sync()

		_, err = config.Initialize(afero.NewOsFs(), dir, log)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
