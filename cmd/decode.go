package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/atlas-cli/internal/engine"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <bundle.zip>",
	Short: "Decode a zipped shapefile into GeoJSON",
	Long: `Extracts the .shp/.dbf (and optional .shx/.prj) components from a zipped
shapefile upload, decodes them, and prints a GeoJSON FeatureCollection with
feature count, bounds, and projection metadata.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "decode: read %s", args[0])
		}

		result, err := engine.New(cfg).ProcessShapefile(cmd.Context(), data)
		if err != nil {
			return eris.Wrap(err, "decode")
		}

		return writeJSON(cmd, result)
	},
}

func init() {
	decodeCmd.Flags().String("out", "", "write output JSON to file instead of stdout")
	rootCmd.AddCommand(decodeCmd)
}

// writeJSON prints a result to stdout or the --out file when set.
func writeJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode result")
	}

	if path, _ := cmd.Flags().GetString("out"); path != "" {
		if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
			return eris.Wrapf(err, "write %s", path)
		}
		return nil
	}

	fmt.Println(string(out))
	return nil
}

// writeResultFile writes a result as indented JSON to the given path.
func writeResultFile(path string, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode result")
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	return nil
}
