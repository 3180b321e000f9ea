package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/kilianp07/hangar/core/report"
	"github.com/kilianp07/hangar/core/scheduler"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

func severity(s report.Severity) string {
	if s == report.SeverityError {
		return red(string(s))
	}
	return yellow(string(s))
}

func printReport(w io.Writer, source string, r report.ValidationReport) {
	fmt.Fprintf(w, "%s %s %s\n", cyan(r.Airfield), gray(source), gray(r.GeneratedAt.Format(time.RFC3339)))
	if r.Summary.Total == 0 {
		fmt.Fprintf(w, "  %s\n", green("no violations"))
		return
	}
	fmt.Fprintf(w, "  %s violations: %d errors, %d warnings\n", bold(r.Summary.Total),
		r.Summary.BySeverity[report.SeverityError], r.Summary.BySeverity[report.SeverityWarning])
	for _, v := range r.Violations {
		subject := v.Subject.Name
		if v.Subject.ID != "" {
			subject += " (" + v.Subject.ID + ")"
		}
		fmt.Fprintf(w, "  %-7s %-20s %-24s %s\n", severity(v.Severity), v.Rule, subject, v.Message)
	}
}

func printSchedule(w io.Writer, res *scheduler.Result) {
	if res == nil {
		return
	}
	fmt.Fprintf(w, "  search window %s → %s\n",
		res.Window.Start.Format(time.RFC3339), res.Window.End.Format(time.RFC3339))
	for _, s := range res.Scheduled {
		fmt.Fprintf(w, "  %s %-16s %-8s %-10s %s → %s %s\n", green("placed"), s.ID, s.Hangar,
			strings.Join(s.Bays, ","), s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339),
			gray(fmt.Sprintf("retries=%d", s.Retries)))
	}
	for _, u := range res.Unscheduled {
		reason := "no placement found"
		if rej := res.Rejections[u.Key()]; len(rej) > 0 {
			reason = fmt.Sprintf("%s: %s", rej[0].Rule, rej[0].Message)
		}
		fmt.Fprintf(w, "  %s %-16s %s\n", red("unscheduled"), u.Key(), reason)
	}
}
