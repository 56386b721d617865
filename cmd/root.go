package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/atlas-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "atlas-cli",
	Short: "Climate-risk map data ingestion tool",
	Long:  "Decodes uploaded geospatial datasets (zipped shapefiles, GeoTIFF rasters) into GeoJSON feature collections, band statistics, and five-class rendering schemes for the climate-risk map platform.",
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
