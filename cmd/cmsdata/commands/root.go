package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cmsdata/internal/components/telemetry"
	oteltelemetry "cmsdata/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	config  Config
	otelTel oteltelemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "cmsdata",
	Short: "cmsdata fetches CMS public health datasets and cleans them.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		var err error
		config, err = loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		otelTel, err = oteltelemetry.Setup(cmd.Context(), oteltelemetry.Service{
			Name:    "cmsdata",
			Version: version,
		}, config.Telemetry)
		if err != nil {
			slog.Warn("failed to setup telemetry, continuing without export", "err", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := otelTel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "cmsdata.json5", "The config file, searched for up the directory tree when given as a bare name.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
