package fetcher

import (
	"context"
	"fmt"
	"time"

	"cmsdata/internal/components/chrono"
	"cmsdata/internal/components/telemetry"
	"cmsdata/lib/platforms/cms"
	"cmsdata/lib/registry"
	"cmsdata/lib/table"
	oteltelemetry "cmsdata/lib/telemetry"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/fetcher")

const (
	DefaultOutputDir = "data/raw"
	DefaultDelay     = time.Second * 2
)

const (
	report_dataset = "fetcher.dataset"
	report_rows    = "fetcher.rows"
)

// Source is anything that can produce a table from a paginated endpoint.
type Source interface {
	Fetch(ctx context.Context, endpoint string, opts cms.PageOptions) (table.Table, error)
}

type Options struct {
	OutputDir string
	Page      cms.PageOptions
	// Delay is waited between two datasets.
	Delay time.Duration
}

type Service struct {
	source Source
	clock  chrono.API
	tel    telemetry.API
	opts   Options
}

func NewService(source Source, clock chrono.API, tel telemetry.API, opts Options) Service {
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}
	return Service{
		source: source,
		clock:  clock,
		tel:    telemetry.NewScopedAPI("fetcher", tel),
		opts:   opts,
	}
}

type Result struct {
	Dataset  string
	Rows     int
	Path     string
	Err      error
	Duration time.Duration
}

type Report struct {
	RunId    string
	Started  time.Time
	Finished time.Time
	Results  []Result
}

// Failed returns the results of datasets that could not be fetched or saved.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Run fetches and saves every dataset of the registry in order. A failing
// dataset is reported and skipped, it never stops the others. Only a done
// ctx ends the run early, the remaining datasets are then marked with the
// context error.
func (s Service) Run(ctx context.Context, reg registry.Registry) Report {
	report := Report{
		RunId:   uuid.NewString(),
		Started: s.clock.Now(),
	}

	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", report.RunId),
		attribute.Int("datasets", reg.Len()),
	)

	s.tel.ReportDebug("starting fetch", report.RunId, report.Started.Format(time.RFC3339), reg.Len())

	datasets := reg.Datasets()
	for i, d := range datasets {
		if err := ctx.Err(); err != nil {
			report.Results = append(report.Results, Result{Dataset: d.Name, Err: err})
			continue
		}

		res := s.runDataset(ctx, d)
		report.Results = append(report.Results, res)
		if res.Err != nil {
			s.tel.ReportBroken(report_dataset, fmt.Errorf("fetch %q: %w", d.Name, res.Err), report.RunId)
		} else {
			s.tel.ReportCount(fmt.Sprintf("%s.%s", report_rows, d.Name), int64(res.Rows))
		}

		if i < len(datasets)-1 {
			// a cancelled sleep is picked up by the ctx check of the next dataset
			_ = s.clock.Sleep(ctx, s.opts.Delay)
		}
	}

	report.Finished = s.clock.Now()
	failed := len(report.Failed())
	span.SetAttributes(attribute.Int("failed", failed))
	if failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d datasets failed", failed))
	}
	s.tel.ReportDebug("fetch complete", report.RunId, report.Finished.Format(time.RFC3339), failed)
	return report
}

func (s Service) runDataset(ctx context.Context, d registry.Dataset) Result {
	ctx, span := tracer.Start(ctx, "runDataset")
	defer span.End()
	span.SetAttributes(attribute.String("dataset", d.Name))

	start := s.clock.Now()
	res := Result{Dataset: d.Name}

	t, err := s.source.Fetch(ctx, d.Url, s.opts.Page)
	if err == nil {
		res.Path, err = Save(d.Name, t, s.opts.OutputDir)
	}
	if err == nil {
		res.Rows = t.NumRows()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		res.Err = err
	}
	res.Duration = s.clock.Now().Sub(start)

	oteltelemetry.RecordPerfStats(ctx, d.Name)
	return res
}
