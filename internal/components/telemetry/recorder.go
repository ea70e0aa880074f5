package telemetry

// Report is a single call made against a RecorderAPI.
type Report struct {
	Kind   string
	ID     string
	Params []any
	Count  int64
}

const (
	KindBroken  = "broken"
	KindWarning = "warning"
	KindDebug   = "debug"
	KindCount   = "count"
)

// RecorderAPI keeps every report in memory so tests can assert on them.
// It is not safe for concurrent use.
type RecorderAPI struct {
	Reports []Report
}

func (r *RecorderAPI) ReportBroken(id string, params ...any) {
	r.Reports = append(r.Reports, Report{Kind: KindBroken, ID: id, Params: params})
}

func (r *RecorderAPI) ReportWarning(id string, params ...any) {
	r.Reports = append(r.Reports, Report{Kind: KindWarning, ID: id, Params: params})
}

func (r *RecorderAPI) ReportDebug(msg string, params ...any) {
	r.Reports = append(r.Reports, Report{Kind: KindDebug, ID: msg, Params: params})
}

func (r *RecorderAPI) ReportCount(id string, count int64) {
	r.Reports = append(r.Reports, Report{Kind: KindCount, ID: id, Count: count})
}

// Filter returns the reports of the given kind in the order they were made.
func (r *RecorderAPI) Filter(kind string) []Report {
	var out []Report
	for _, rep := range r.Reports {
		if rep.Kind == kind {
			out = append(out, rep)
		}
	}
	return out
}
