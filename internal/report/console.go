package report

import (
	"fmt"
	"strconv"

	"github.com/AndreyAkinshin/buildall/internal/output"
	"github.com/AndreyAkinshin/buildall/internal/unit"
)

// PrintSummary writes the end-of-run summary. The per-unit table is
// omitted in quiet mode; counts and failures are always shown.
func PrintSummary(w *output.Writer, r *Report, namer unit.Namer) {
	s := r.Summary

	w.SummaryHeader("Build Summary")

	if !w.Quiet() && len(r.Outcomes) > 0 {
		rows := make([][]string, 0, len(r.Outcomes))
		for _, o := range r.Outcomes {
			rows = append(rows, []string{o.Unit.Rel, Status(o), Seconds(o.Duration), o.LogPath})
		}
		w.Table([]string{"Unit", "Status", "Duration", "Log"}, rows)
		w.Println("")
	}

	w.SummaryItem("Total Units", strconv.Itoa(s.Total))
	w.SummaryPassed("Successful", strconv.Itoa(s.Successful))
	if s.Failed > 0 {
		w.SummaryFailed("Failed", strconv.Itoa(s.Failed))
	}
	w.SummaryItem("Total Duration", fmt.Sprintf("%s seconds", formatFloat1(s.TotalDuration.Seconds())))
	w.SummaryItem("Wall Clock Time", fmt.Sprintf("%s seconds", formatFloat1(s.WallClock.Seconds())))
	if s.WallClock > 0 {
		w.SummaryItem("Parallelization Efficiency", fmt.Sprintf("%s%%", formatFloat1(s.Efficiency())))
	}

	if failed := r.Failed(); len(failed) > 0 {
		w.Println("")
		w.SummarySectionLabel("Failed Builds:")
		for _, o := range failed {
			w.SummaryAction(namer.Label(o.Unit), false, Seconds(o.Duration), o.Err)
			if o.LogPath != "" {
				w.Hint("      Log: %s", o.LogPath)
			}
		}
		w.Println("")
		w.Hint("Check the log files for detailed error information.")
	}

	if s.Failed == 0 {
		w.FinalSuccess("All %d units built successfully.", s.Total)
	} else {
		w.FinalFailure("%d unit(s) failed to build.", s.Failed)
	}
}

func formatFloat1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
