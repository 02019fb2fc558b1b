package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/rawpng-cli/internal/logging"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "rawpng",
	Short: "Uncompressed PNG writer for raw RGB/RGBA pixels",
	Long: `rawpng writes truecolor PNG files without compressing them: the image
data is a zlib stream of stored deflate blocks, one per scanline. Output
is byte-for-byte predictable and opens in every PNG reader.

Converts raw pixel dumps and regular images, batch-builds directories
with a manifest, and verifies PNG structure and checksums.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logging.SetVerbose(verbose)
	},
}

// Execute runs the CLI. Ctrl-C cancels the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("failed")
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"rawpng %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	logging.Debug().Msgf(format, args...)
}
