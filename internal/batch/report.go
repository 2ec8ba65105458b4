package batch

import (
	"fmt"
	"time"

	"croissant/internal/errors"
)

// Status is the outcome of one request in a batch.
type Status string

const (
	StatusHandled   Status = "handled"
	StatusUnhandled Status = "unhandled"
	StatusFailed    Status = "failed"
)

// Line is one evaluated request.
type Line struct {
	Line   int    `json:"line"`
	Expr   string `json:"expr"`
	Status Status `json:"status"`
	Value  *int   `json:"value,omitempty"`
	Output string `json:"output,omitempty"`
	Code   string `json:"code,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Stats counts outcomes.
type Stats struct {
	Total     int `json:"total"`
	Handled   int `json:"handled"`
	Unhandled int `json:"unhandled"`
	Failed    int `json:"failed"`
}

// Report summarizes one batch run.
type Report struct {
	RunID      string    `json:"runId"`
	Source     string    `json:"source,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMs int64     `json:"durationMs"`
	Chain      []string  `json:"chain"`
	Strict     bool      `json:"strict,omitempty"`
	Style      string    `json:"style"`
	Results    []Line    `json:"results,omitempty"`
	Stats      Stats     `json:"stats"`
}

func (r *Report) add(l Line) {
	r.Results = append(r.Results, l)
	r.Stats.Total++
	switch l.Status {
	case StatusHandled:
		r.Stats.Handled++
	case StatusUnhandled:
		r.Stats.Unhandled++
	case StatusFailed:
		r.Stats.Failed++
	}
}

// Failures returns the failed lines in input order.
func (r *Report) Failures() []Line {
	var out []Line
	for _, l := range r.Results {
		if l.Status == StatusFailed {
			out = append(out, l)
		}
	}
	return out
}

// Err returns nil when every request was handled or dropped, otherwise an
// error carrying the code of the first failure.
func (r *Report) Err() error {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}

	first := failures[0]
	code := errors.ErrorCode(first.Code)
	if code == "" {
		code = errors.InternalError
	}
	return errors.Newf(code, "%d of %d requests failed; first at line %d: %s",
		len(failures), r.Stats.Total, first.Line, first.Error).
		WithDetails(map[string]interface{}{
			"runId":  r.RunID,
			"failed": len(failures),
		})
}

// Summary is a one-line description of the stats.
func (s Stats) Summary() string {
	return fmt.Sprintf("%d requests: %d handled, %d unhandled, %d failed",
		s.Total, s.Handled, s.Unhandled, s.Failed)
}
