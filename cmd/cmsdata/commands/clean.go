package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cmsdata/lib/cleaning"
	"cmsdata/lib/table"
	"cmsdata/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var (
	cleanOut           string
	cleanDropThreshold float64
	cleanEncode        []string
	cleanNormalize     []string
	cleanPreview       int
)

func init() {
	cleanCmd.Flags().StringVarP(&cleanOut, "out", "o", "", "The file to write to, defaults to <input>.clean.csv.")
	cleanCmd.Flags().Float64Var(&cleanDropThreshold, "drop-threshold", 0, "Drop columns with at least this proportion of missing values, overrides drop_threshold.")
	cleanCmd.Flags().StringSliceVar(&cleanEncode, "encode", nil, "Categorical columns to one-hot encode (cleaned names).")
	cleanCmd.Flags().StringSliceVar(&cleanNormalize, "normalize", nil, "Numeric columns to min-max normalize (cleaned names).")
	cleanCmd.Flags().IntVar(&cleanPreview, "preview", 0, "Print the first n rows of the cleaned table.")
	rootCmd.AddCommand(cleanCmd)
}

func defaultCleanOutput(input string) string {
	ext := filepath.Ext(input)
	return fmt.Sprintf("%s.clean%s", strings.TrimSuffix(input, ext), ext)
}

func readTable(path string) (table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return table.Table{}, err
	}
	defer f.Close()
	return table.ReadCSV(f)
}

func writeTable(path string, t table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = table.WriteCSV(f, t)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var cleanCmd = &cobra.Command{
	Use:   "clean <input.csv> [-o <output.csv>] [--encode <col,...>] [--normalize <col,...>]",
	Short: "Cleans a fetched dataset: normalizes column names, drops sparse columns, encodes and scales.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := args[0]
		output := cleanOut
		if output == "" {
			output = defaultCleanOutput(input)
		}
		threshold := config.DropThreshold
		if cmd.Flags().Changed("drop-threshold") {
			threshold = cleanDropThreshold
		}

		in, err := readTable(input)
		if err != nil {
			serviceutil.Fatal("failed to read input", err)
		}

		pipeline := cleaning.Pipeline{
			cleaning.CleanColumnNamesStep(),
			cleaning.DropEmptyColumnsStep(threshold),
		}
		if len(cleanEncode) > 0 {
			pipeline = append(pipeline, cleaning.EncodeCategoricalsStep(cleanEncode))
		}
		if len(cleanNormalize) > 0 {
			pipeline = append(pipeline, cleaning.NormalizeColumnsStep(cleanNormalize))
		}

		out, err := pipeline.Apply(in)
		if err != nil {
			serviceutil.Fatal("failed to clean table", err)
		}

		err = writeTable(output, out)
		if err != nil {
			serviceutil.Fatal("failed to write output", err)
		}
		slog.Info(
			"cleaned dataset",
			"input", input,
			"output", output,
			"rows", out.NumRows(),
			"columns_before", in.NumColumns(),
			"columns_after", out.NumColumns(),
		)

		if cleanPreview > 0 {
			renderPreview(cmd.OutOrStdout(), out, cleanPreview)
		}
	},
}
