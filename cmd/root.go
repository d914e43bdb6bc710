package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/attendance-map/internal/config"
	"github.com/sells-group/attendance-map/internal/dataset"
	"github.com/sells-group/attendance-map/internal/fetcher"
	"github.com/sells-group/attendance-map/internal/mapview"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "attendance-map",
	Short: "Proportional symbol map of MLB average attendance",
	Long:  "Loads team attendance GeoJSON, drives the interactive map view (year slider, division filter, hover popups) and renders it headlessly.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadDataset fetches the configured source once.
func loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	timeout := time.Duration(cfg.Dataset.TimeoutSecs) * time.Second
	f := fetcher.NewRouter(fetcher.HTTPOptions{
		UserAgent: cfg.Dataset.UserAgent,
		Timeout:   timeout,
	})

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return dataset.Load(ctx, f, cfg.Dataset.Source, dataset.Options{
		AttributePattern: cfg.Dataset.AttributePattern,
	})
}

func viewport() mapview.Viewport {
	return mapview.Viewport{
		CenterLat:   cfg.Map.CenterLat,
		CenterLon:   cfg.Map.CenterLon,
		Zoom:        cfg.Map.Zoom,
		MaxZoom:     cfg.Map.MaxZoom,
		TileURL:     cfg.Map.TileURL,
		Attribution: cfg.Map.Attribution,
	}
}
