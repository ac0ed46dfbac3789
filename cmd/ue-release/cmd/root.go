package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/ue-release/internal/logger"
	"github.com/oshokin/ue-release/internal/service/stager"
	"github.com/oshokin/ue-release/internal/version"
)

var (
	// logLevel is the minimum level of log messages written to stderr.
	logLevel string

	// errUnknownLogLevel is returned for an unsupported --log-level value.
	errUnknownLogLevel = errors.New("unknown log level")

	// rootCmd stages the release from the working directory.
	rootCmd = &cobra.Command{
		Use:   "ue-release",
		Short: "Stage the Unreal Engine plugin and demo project into a clean release folder",
		Long: `Recreates the "Unreal Engine Release" folder in the working directory, copies the
plugin into "UE Plugin" and the demo project into "UE Demo Project", and removes the
plugin Binaries and Intermediate folders from both copies.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: applyLogLevel,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return stager.Run(cmd.Context(), new(stager.Options))
		},
	}
)

// Execute runs the ue-release CLI and exits with non-zero status on error.
func Execute() {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

// applyLogLevel configures the global logger from the --log-level flag.
func applyLogLevel(_ *cobra.Command, _ []string) error {
	level, ok := logger.ParseLogLevel(logLevel)
	if !ok {
		return fmt.Errorf("%q: %w", logLevel, errUnknownLogLevel)
	}

	logger.SetLevel(level)

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	rootCmd.AddCommand(verifyCmd)
	version.AttachCobraVersionCommand(rootCmd)
}
