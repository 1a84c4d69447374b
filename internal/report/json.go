package report

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"

	"github.com/AndreyAkinshin/buildall/internal/unit"
)

// jsonReport is the on-disk layout of build_report.json. Durations are
// seconds so efficiency can be recomputed from the document alone.
type jsonReport struct {
	RunID         string       `json:"run_id"`
	Timestamp     string       `json:"timestamp"`
	TotalExamples int          `json:"total_examples"`
	Successful    int          `json:"successful"`
	Failed        int          `json:"failed"`
	TotalDuration float64      `json:"total_duration"`
	WallClockTime float64      `json:"wall_clock_time"`
	Efficiency    float64      `json:"efficiency"`
	Concurrency   int          `json:"concurrency"`
	Jobs          int          `json:"jobs"`
	Results       []jsonResult `json:"results"`
}

type jsonResult struct {
	Example  string  `json:"example"`
	Success  bool    `json:"success"`
	Duration float64 `json:"duration"`
	LogFile  string  `json:"log_file,omitempty"`
	Error    string  `json:"error,omitempty"`
	Failure  string  `json:"failure,omitempty"`
	ExitCode *int    `json:"exit_code,omitempty"`
}

// MarshalJSON renders the report document.
func (r *Report) MarshalJSON() ([]byte, error) {
	doc := jsonReport{
		RunID:         r.RunID,
		Timestamp:     r.Started.Format(TimestampLayout),
		TotalExamples: r.Summary.Total,
		Successful:    r.Summary.Successful,
		Failed:        r.Summary.Failed,
		TotalDuration: r.Summary.TotalDuration.Seconds(),
		WallClockTime: r.Summary.WallClock.Seconds(),
		Efficiency:    r.Summary.Efficiency(),
		Concurrency:   r.Concurrency,
		Jobs:          r.Jobs,
		Results:       make([]jsonResult, 0, len(r.Outcomes)),
	}
	for _, o := range r.Outcomes {
		res := jsonResult{
			Example:  o.Unit.Rel,
			Success:  o.Success,
			Duration: o.Duration.Seconds(),
			LogFile:  o.LogPath,
			Error:    o.Err,
			Failure:  string(o.Kind),
		}
		if o.ExitCode != unit.NoExitCode {
			code := o.ExitCode
			res.ExitCode = &code
		}
		doc.Results = append(doc.Results, res)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// WriteJSON writes the report as JSON to path.
func WriteJSON(fs afero.Fs, path string, r *Report) error {
	data, err := r.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	data = append(data, '\n')
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}
