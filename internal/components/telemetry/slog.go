package telemetry

import (
	"fmt"
	"log/slog"
	"os"
)

// InitSlog installs the default text logger, verbose enables debug output.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// SlogAPI implements API using the log/slog package.
type SlogAPI struct {
	// Attrs are prepended to every record, ex. a run id.
	Attrs []any
}

func (SlogAPI) formatParams(out *[]any, params []any) {
	for i, p := range params {
		*out = append(
			*out,
			fmt.Sprintf("params.%d", i),
			p,
		)
	}
}

func (s SlogAPI) pairs(head ...any) []any {
	out := make([]any, 0, len(s.Attrs)+len(head))
	out = append(out, s.Attrs...)
	return append(out, head...)
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	remainingPairs := s.pairs("id", id)
	s.formatParams(&remainingPairs, params)
	slog.Error("broken component", remainingPairs...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	remainingPairs := s.pairs("id", id)
	s.formatParams(&remainingPairs, params)
	slog.Warn("warning", remainingPairs...)
}

func (s SlogAPI) ReportDebug(message string, params ...any) {
	remainingPairs := s.pairs()
	s.formatParams(&remainingPairs, params)
	slog.Debug(message, remainingPairs...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	slog.Info("count", s.pairs("id", id, "n", count)...)
}
