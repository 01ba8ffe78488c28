package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/josephlewis42/gatesh/commands"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the commands the shell runs itself.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		defer tw.Flush()

		for _, name := range commands.ListBuiltins() {
			fmt.Fprintf(tw, "%s\t%s\n", name, commands.AllBuiltins[name].Short)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
