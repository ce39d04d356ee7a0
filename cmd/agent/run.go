package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gmb_agent/internal/app"
)

func newRunCmd() *cobra.Command {
	var req app.RunRequest
	var outDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build one report and write raw.json and report.json.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outDir == "" {
				outDir = cfg.OutputDir
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, cleanup, err := newService(ctx)
			defer cleanup()
			if err != nil {
				return err
			}

			res, err := svc.Run(ctx, req)
			if err != nil {
				return err
			}
			if err := writeDocuments(outDir, res); err != nil {
				return err
			}
			log.Info().
				Str("id", res.ID).
				Int("places", len(res.Raw.Places)).
				Dur("elapsed", res.Elapsed).
				Str("out", outDir).
				Msg("report written")
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", filepath.Join(outDir, rawFile), filepath.Join(outDir, reportFile))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&req.Keyword, "keyword", "k", "", "search keyword, e.g. \"meat market\"")
	f.StringVarP(&req.Location, "location", "l", "", "free-text location, e.g. \"Houston, TX\"")
	f.IntVar(&req.RadiusM, "radius", 0, "search radius in meters (default SEARCH_RADIUS_M)")
	f.IntVar(&req.TopN, "top", 0, "number of places to analyze (default SEARCH_TOP_N)")
	f.StringVarP(&outDir, "out", "o", "", "output directory (default OUTPUT_DIR)")
	_ = cmd.MarkFlagRequired("keyword")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

