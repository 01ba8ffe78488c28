package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/josephlewis42/gatesh/core/config"
	"github.com/josephlewis42/gatesh/core/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgPath  string
	logLevel string
)

// exitStatus is returned by commands that should end the process with a
// specific status without printing an error.
type exitStatus int

func (e exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

// setup loads the configuration and builds the session logger.
func setup(cmd *cobra.Command) (*config.Configuration, *zap.Logger, error) {
	configuration, err := config.LoadOrDefault(afero.NewOsFs(), cfgPath)
	if err != nil {
		return nil, nil, err
	}

	if logLevel != "" {
		configuration.Logging.Level = logLevel
		if err := configuration.Validate(); err != nil {
			return nil, nil, err
		}
	}

	log, err := logger.New(cmd.ErrOrStderr(), configuration.Logging.Level, configuration.Logging.Format)
	if err != nil {
		return nil, nil, err
	}

	return configuration, logger.NewSession(log), nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gatesh",
	Short: "A restricted command shell",
	Long: `gatesh runs pipelines of external programs after checking them
against an allow list, argument rules and resource limits.`,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// SIGINT is left to the interactive shell, which cancels only the
	// running line.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	var status exitStatus
	switch {
	case err == nil:
	case errors.As(err, &status):
		os.Exit(int(status))
	default:
		fmt.Fprintln(os.Stderr, "gatesh:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "directory holding config.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug|info|warn|error)")
}
