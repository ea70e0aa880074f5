package commands

import (
	"cmsdata/lib/util/serviceutil"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(datasetsCmd)
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Prints the registered datasets.",
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := config.Registry()
		if err != nil {
			serviceutil.Fatal("invalid dataset registry", err)
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(prettytable.Row{"Name", "Url"})
		for _, d := range reg.Datasets() {
			t.AppendRow(prettytable.Row{d.Name, d.Url})
		}
		t.Render()
	},
}
