package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roar-center/roar-web/internal/export"
	"github.com/roar-center/roar-web/internal/httpserver"
	"github.com/roar-center/roar-web/public"
)

var (
	outDir      string
	concurrency int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the site as static files",
	Long: `build renders every page in static mode and writes it to the output
directory together with the campus dataset and the stylesheet and script assets.
The output directory is recreated on each run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer func() { _ = a.logger.Sync() }()

		cfg := a.serverConfig()
		cfg.Static = true
		h, err := httpserver.NewHandler(cfg)
		if err != nil {
			return err
		}
		assets, err := public.AssetsFS()
		if err != nil {
			return err
		}
		res, err := export.Build(cmd.Context(), export.Options{
			Handler:     h,
			Content:     a.content,
			Assets:      assets,
			OutDir:      outDir,
			Logger:      a.logger.Named("export"),
			Concurrency: concurrency,
		})
		if err != nil {
			a.logger.Error("static export failed", zap.Error(err))
			return err
		}
		cmd.Printf("wrote %d pages to %s\n", len(res.Pages), outDir)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&outDir, "out", "dist", "output directory")
	buildCmd.Flags().IntVar(&concurrency, "concurrency", 4, "pages rendered in parallel")
}
