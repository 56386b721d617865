package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/atlas-cli/internal/classify"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Build, edit, import, and validate classification schemes",
}

var classifyBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a five-class equal-interval scheme for a value range",
	RunE: func(cmd *cobra.Command, _ []string) error {
		min, _ := cmd.Flags().GetFloat64("min")
		max, _ := cmd.Flags().GetFloat64("max")

		classes, err := classify.Build(min, max, classify.Options{
			Decimals: cfg.Engine.Decimals,
			Colors:   cfg.Classify.Colors,
			Labels:   cfg.Classify.Labels,
		})
		if err != nil {
			return eris.Wrap(err, "classify build")
		}

		return writeJSON(cmd, classes)
	},
}

var classifyEditCmd = &cobra.Command{
	Use:   "edit <scheme.json>",
	Short: "Edit a class max and propagate the next class min",
	Long: `Sets the max of one class and recomputes the following class's min as the
edited value plus its smallest representable increment (5.41 becomes 5.42),
so the partition stays contiguous. The scheme is validated before printing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classes, err := readScheme(args[0])
		if err != nil {
			return err
		}

		idx, _ := cmd.Flags().GetInt("class")
		newMax, _ := cmd.Flags().GetFloat64("max")
		if err := classify.ApplyMaxEdit(classes, idx, newMax); err != nil {
			return eris.Wrap(err, "classify edit")
		}

		min, _ := cmd.Flags().GetFloat64("global-min")
		max, _ := cmd.Flags().GetFloat64("global-max")
		if err := classify.Validate(classes, min, max); err != nil {
			return eris.Wrap(err, "classify edit")
		}

		return writeJSON(cmd, classes)
	},
}

var classifyImportCmd = &cobra.Command{
	Use:   "import <schemes.xlsx>",
	Short: "Import a classification scheme from an Excel workbook",
	Long: `Reads a workbook whose first sheet carries min_value, max_value, class_name,
and color_hex columns. Colors are normalized to uppercase #-prefixed hex and
the classes sorted by min. When --global-min/--global-max are given, the
imported scheme is validated against that range before printing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classes, err := classify.ImportXLSX(args[0])
		if err != nil {
			return eris.Wrap(err, "classify import")
		}

		if cmd.Flags().Changed("global-min") || cmd.Flags().Changed("global-max") {
			min, _ := cmd.Flags().GetFloat64("global-min")
			max, _ := cmd.Flags().GetFloat64("global-max")
			if err := classify.Validate(classes, min, max); err != nil {
				return eris.Wrap(err, "classify import")
			}
		}

		return writeJSON(cmd, classes)
	},
}

var classifyValidateCmd = &cobra.Command{
	Use:   "validate <scheme.json>",
	Short: "Validate a scheme against a raster's value range",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classes, err := readScheme(args[0])
		if err != nil {
			return err
		}

		min, _ := cmd.Flags().GetFloat64("global-min")
		max, _ := cmd.Flags().GetFloat64("global-max")
		if err := classify.Validate(classes, min, max); err != nil {
			return eris.Wrap(err, "classify validate")
		}

		fmt.Println("scheme is valid")
		return nil
	},
}

func init() {
	classifyBuildCmd.Flags().Float64("min", 0, "global minimum of the value range")
	classifyBuildCmd.Flags().Float64("max", 0, "global maximum of the value range")
	classifyBuildCmd.Flags().String("out", "", "write output JSON to file instead of stdout")
	_ = classifyBuildCmd.MarkFlagRequired("min")
	_ = classifyBuildCmd.MarkFlagRequired("max")

	classifyEditCmd.Flags().Int("class", 0, "index of the class to edit")
	classifyEditCmd.Flags().Float64("max", 0, "new max value for the class")
	classifyEditCmd.Flags().Float64("global-min", 0, "global minimum for validation")
	classifyEditCmd.Flags().Float64("global-max", 0, "global maximum for validation")
	classifyEditCmd.Flags().String("out", "", "write output JSON to file instead of stdout")
	_ = classifyEditCmd.MarkFlagRequired("max")
	_ = classifyEditCmd.MarkFlagRequired("global-min")
	_ = classifyEditCmd.MarkFlagRequired("global-max")

	classifyImportCmd.Flags().Float64("global-min", 0, "global minimum for validation")
	classifyImportCmd.Flags().Float64("global-max", 0, "global maximum for validation")
	classifyImportCmd.Flags().String("out", "", "write output JSON to file instead of stdout")

	classifyValidateCmd.Flags().Float64("global-min", 0, "global minimum of the raster range")
	classifyValidateCmd.Flags().Float64("global-max", 0, "global maximum of the raster range")
	_ = classifyValidateCmd.MarkFlagRequired("global-min")
	_ = classifyValidateCmd.MarkFlagRequired("global-max")

	classifyCmd.AddCommand(classifyBuildCmd, classifyEditCmd, classifyImportCmd, classifyValidateCmd)
	rootCmd.AddCommand(classifyCmd)
}

func readScheme(path string) ([]classify.Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "classify: read %s", path)
	}
	var classes []classify.Class
	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, eris.Wrapf(err, "classify: parse %s", path)
	}
	return classes, nil
}
