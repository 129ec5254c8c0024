package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roar-center/roar-web/internal/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "web",
	Short: "ROAR Center campus activism site",
	Long: `web serves the ROAR Center site: content pages, organizing guides and the
campus organizing map. Configuration is read from ROAR_* environment variables
and an optional dotenv file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with ROAR_* defaults (empty disables)")
	rootCmd.AddCommand(serveCmd, buildCmd)
}

func loadConfig(ctx context.Context) (config.Config, error) {
	return config.Load(ctx, config.WithEnvFile(envFile))
}
