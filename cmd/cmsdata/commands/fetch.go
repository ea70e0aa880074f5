package commands

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"cmsdata/internal/components/chrono"
	"cmsdata/internal/components/telemetry"
	"cmsdata/lib/platforms/cms"
	"cmsdata/lib/restyutil"
	"cmsdata/lib/util/serviceutil"
	"cmsdata/services/fetcher"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	fetchOnly       []string
	fetchOut        string
	fetchMaxRecords int
	fetchDumpHttp   string
)

func init() {
	fetchCmd.Flags().StringSliceVar(&fetchOnly, "only", nil, "Only fetch the named datasets.")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "The directory to write datasets to, overrides output_dir.")
	fetchCmd.Flags().IntVar(&fetchMaxRecords, "max-records", 0, "Cap on records per dataset, -1 for no cap, overrides max_records.")
	fetchCmd.Flags().StringVar(&fetchDumpHttp, "dump-http", "", "Write every raw http exchange into this directory (cleared first).")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--only <name,...>] [--out <dir>]",
	Short: "Fetches every registered dataset and writes each one to a csv file.",
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := config.Registry()
		if err != nil {
			serviceutil.Fatal("invalid dataset registry", err)
		}
		if len(fetchOnly) > 0 {
			reg, err = reg.Subset(fetchOnly)
			if err != nil {
				serviceutil.Fatal("invalid --only", err)
			}
		}

		opts := config.FetcherOptions()
		if fetchOut != "" {
			opts.OutputDir = fetchOut
		}
		if cmd.Flags().Changed("max-records") {
			opts.Page.MaxRecords = fetchMaxRecords
		}

		clientOpts := config.ClientOptions()
		if fetchDumpHttp != "" {
			dump, err := restyutil.NewFilesystemOutput(fetchDumpHttp)
			if err != nil {
				serviceutil.Fatal("failed to prepare --dump-http directory", err)
			}
			clientOpts.Dump = dump
		}

		tel := telemetry.SlogAPI{}
		svc := fetcher.NewService(
			cms.NewClient(tel, clientOpts),
			chrono.NewStandardImpl(),
			tel,
			opts,
		)

		slog.Info("starting CMS data fetch", "datasets", reg.Len(), "output_dir", opts.OutputDir)
		report := svc.Run(cmd.Context(), reg)
		slog.Info(
			"fetch complete",
			"run_id", report.RunId,
			"failed", len(report.Failed()),
			"seconds", report.Finished.Sub(report.Started).Seconds(),
		)

		renderReport(cmd.OutOrStdout(), report)
	},
}

func renderReport(out io.Writer, report fetcher.Report) {
	t := newTable(out)
	t.AppendHeader(prettytable.Row{"Dataset", "Rows", "Path", "Duration", "Error"})
	for _, res := range report.Results {
		errText := ""
		if res.Err != nil {
			errText = res.Err.Error()
		}
		t.AppendRow(prettytable.Row{
			res.Dataset,
			res.Rows,
			res.Path,
			res.Duration.Round(time.Millisecond).String(),
			errText,
		})
	}
	t.AppendFooter(prettytable.Row{
		"", "", "", "",
		fmt.Sprintf("%d of %d failed", len(report.Failed()), len(report.Results)),
	})
	t.Render()
}
