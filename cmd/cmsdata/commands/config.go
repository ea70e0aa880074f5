package commands

import (
	"time"

	"cmsdata/lib/cleaning"
	"cmsdata/lib/configutil"
	"cmsdata/lib/platforms/cms"
	"cmsdata/lib/registry"
	oteltelemetry "cmsdata/lib/telemetry"
	"cmsdata/services/fetcher"
)

const version = "1.0.0"

// Config is read from cmsdata.json5 (and cmsdata.local.json5), every field
// left out falls back to defaultConfig.
type Config struct {
	OutputDir string `json:"output_dir"`
	PageSize  int    `json:"page_size"`
	// -1 fetches every record.
	MaxRecords     int     `json:"max_records"`
	TimeoutSeconds float64 `json:"timeout_seconds"`
	// -1 disables the delay between datasets.
	DelaySeconds  float64            `json:"delay_seconds"`
	UserAgent     string             `json:"user_agent"`
	DropThreshold float64            `json:"drop_threshold"`
	Datasets      []registry.Dataset `json:"datasets"`
	// Telemetry is off unless an otlp exporter is configured.
	Telemetry oteltelemetry.Config `json:"telemetry"`
}

func defaultConfig() Config {
	return Config{
		OutputDir:      fetcher.DefaultOutputDir,
		PageSize:       cms.DefaultPageSize,
		MaxRecords:     cms.DefaultMaxRecords,
		TimeoutSeconds: cms.DefaultTimeout.Seconds(),
		DelaySeconds:   fetcher.DefaultDelay.Seconds(),
		UserAgent:      "cmsdata/" + version,
		DropThreshold:  cleaning.DefaultDropThreshold,
		Datasets:       registry.CMS,
	}
}

func loadConfig(path string) (Config, error) {
	return configutil.Load(path, defaultConfig())
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (c Config) Registry() (registry.Registry, error) {
	return registry.New(c.Datasets)
}

func (c Config) ClientOptions() cms.ClientOptions {
	return cms.ClientOptions{
		Timeout:   seconds(c.TimeoutSeconds),
		UserAgent: c.UserAgent,
	}
}

func (c Config) FetcherOptions() fetcher.Options {
	return fetcher.Options{
		OutputDir: c.OutputDir,
		Page: cms.PageOptions{
			PageSize:   c.PageSize,
			MaxRecords: c.MaxRecords,
		},
		Delay: seconds(c.DelaySeconds),
	}
}
