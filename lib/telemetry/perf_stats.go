package telemetry

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("go.perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var liveObjectsGauge, _ = meter.Int64Gauge("live_objects")

// RecordPerfStats samples process stats once, tagged with the unit of work
// (ex. a dataset name) that just completed.
func RecordPerfStats(ctx context.Context, unit string) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	attrs := metric.WithAttributes(attribute.String("unit", unit))

	// interval 0 compares against the previous call instead of blocking
	cpuUsage, err := cpu.PercentWithContext(ctx, 0, false)
	if err == nil && len(cpuUsage) > 0 {
		cpuGauge.Record(ctx, cpuUsage[0], attrs)
	} else if err != nil {
		slog.DebugContext(ctx, "failed to read cpu usage", "err", err)
	}

	allocatedMb := int64(memStats.Alloc / 1_000_000)
	memoryGauge.Record(ctx, allocatedMb, attrs)
	liveObjectsGauge.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees), attrs)

	slog.DebugContext(ctx, "perf stats", "unit", unit, "allocated_mb", allocatedMb)
}
