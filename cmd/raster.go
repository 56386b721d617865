package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/atlas-cli/internal/engine"
)

var rasterCmd = &cobra.Command{
	Use:   "raster <file.tif>",
	Short: "Compute statistics and classification for a raster",
	Long: `Reads a GeoTIFF upload, computes nodata-aware band statistics
(min/max/mean/stddev over valid pixels), and derives a validated five-class
equal-interval rendering scheme.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "raster: read %s", args[0])
		}

		result, err := engine.New(cfg).ProcessRaster(cmd.Context(), data)
		if err != nil {
			return eris.Wrap(err, "raster")
		}

		statsOnly, _ := cmd.Flags().GetBool("stats-only")
		if statsOnly {
			return writeJSON(cmd, result.Statistics)
		}
		return writeJSON(cmd, result)
	},
}

func init() {
	rasterCmd.Flags().Bool("stats-only", false, "print band statistics without a classification scheme")
	rasterCmd.Flags().String("out", "", "write output JSON to file instead of stdout")
	rootCmd.AddCommand(rasterCmd)
}
