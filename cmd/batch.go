package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/atlas-cli/internal/engine"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Decode every upload in a directory",
	Long: `Finds shapefile bundles (.zip) and rasters (.tif/.tiff) in a directory and
decodes them concurrently. Uploads fail independently; per-file results are
written next to each input (or under --out) as <name>.json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		entries, err := os.ReadDir(dir)
		if err != nil {
			return eris.Wrapf(err, "batch: read directory %s", dir)
		}

		var inputs []engine.BatchInput
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			kind := engine.DetectKind(entry.Name())
			if kind == engine.UploadUnknown {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				return eris.Wrapf(err, "batch: read %s", entry.Name())
			}
			inputs = append(inputs, engine.BatchInput{Name: entry.Name(), Kind: kind, Data: data})
		}

		if len(inputs) == 0 {
			fmt.Println("no uploads found")
			return nil
		}

		zap.L().Info("starting batch decode",
			zap.Int("uploads", len(inputs)),
			zap.Int("concurrency", cfg.Batch.MaxConcurrentUploads),
		)

		results := engine.New(cfg).ProcessBatch(cmd.Context(), inputs)

		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = dir
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return eris.Wrapf(err, "batch: create %s", outDir)
		}

		var failed int
		fmt.Printf("%-40s %-10s %s\n", "Upload", "Status", "Detail")
		fmt.Println(strings.Repeat("-", 72))
		for _, res := range results {
			if res.Err != nil {
				failed++
				fmt.Printf("%-40s %-10s %s\n", res.Name, "failed", eris.Cause(res.Err))
				continue
			}

			detail := ""
			var payload any
			switch {
			case res.Vector != nil:
				payload = res.Vector
				detail = fmt.Sprintf("%d features", res.Vector.Metadata.FeatureCount)
			case res.Raster != nil:
				payload = res.Raster
				detail = fmt.Sprintf("range [%g, %g]", res.Raster.Statistics.Min, res.Raster.Statistics.Max)
			}

			path := filepath.Join(outDir, strings.TrimSuffix(res.Name, filepath.Ext(res.Name))+".json")
			if err := writeResultFile(path, payload); err != nil {
				return err
			}
			fmt.Printf("%-40s %-10s %s\n", res.Name, "ok", detail)
		}

		if failed > 0 {
			return eris.Errorf("batch: %d of %d uploads failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().String("out", "", "directory for result JSON files (default: input directory)")
	rootCmd.AddCommand(batchCmd)
}
