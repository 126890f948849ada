package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/felixgeelhaar/baseline/internal/domain/audit"
	"github.com/felixgeelhaar/baseline/internal/domain/execution"
	"github.com/felixgeelhaar/baseline/internal/domain/preflight"
	"github.com/felixgeelhaar/baseline/internal/tui/ui"
)

// Printer renders reports for the terminal.
type Printer struct {
	out    io.Writer
	styles ui.Styles
}

// NewPrinter creates a Printer whose colors follow out's terminal support.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, styles: ui.StylesFor(out)}
}

// PrintPreflight outputs each preflight check.
func (p *Printer) PrintPreflight(outcome preflight.Outcome) {
	p.printf("%s\n", p.styles.Title.Render("Preflight"))
	for _, c := range outcome.Checks {
		line := fmt.Sprintf("  %s %-10s %s", p.styles.Symbol(string(c.Status)), c.Check, c.Detail)
		if c.Err != nil {
			line += ": " + p.styles.Error.Render(c.Err.Error())
		} else if c.Status == preflight.StatusSkipped {
			line = fmt.Sprintf("  %s %-10s %s", p.styles.Symbol(string(c.Status)), c.Check, p.styles.Muted.Render("skipped"))
		}
		p.printf("%s\n", line)
	}
}

// PrintReport outputs a run summary.
func (p *Printer) PrintReport(report *execution.Report) {
	p.printf("\n%s %s\n", p.styles.Title.Render("Run"), p.styles.Muted.Render(report.RunID()))
	p.printf("%s%s\n", p.styles.Label.Render("Role"), report.Role())
	p.printf("%s%s\n", p.styles.Label.Render("Status"), p.styles.Status(string(report.Status())))
	if d := report.Finished().Sub(report.Started()); !report.Finished().IsZero() && d >= 0 {
		p.printf("%s%s\n", p.styles.Label.Render("Duration"), d.Round(time.Millisecond))
	}

	results := report.Results()
	if len(results) > 0 {
		p.printf("\n")
	}
	for _, r := range results {
		status := string(r.Status())
		line := fmt.Sprintf("  %s %s", p.styles.Symbol(status), r.Name())
		switch r.Status() {
		case execution.StepSucceeded:
			line += p.styles.Muted.Render(fmt.Sprintf(" (%s)", r.Duration().Round(time.Millisecond)))
			if r.Attempts() > 1 {
				line += p.styles.Muted.Render(fmt.Sprintf(" after %d attempts", r.Attempts()))
			}
		case execution.StepSkipped:
			line += p.styles.Warning.Render(" (skipped, not found)")
		case execution.StepFailed, execution.StepMissing:
			if err := r.Error(); err != nil {
				line += ": " + p.styles.Error.Render(err.Error())
			}
		}
		p.printf("%s\n", line)
	}

	succeeded, failed, skipped := report.Counts()
	p.printf("\nSummary: %d succeeded, %d failed, %d skipped\n", succeeded, failed, skipped)

	if err := report.Err(); err != nil && !report.OverallSuccess() {
		p.printf("%s\n", p.styles.Error.Render(err.Error()))
	}
}

// PrintPlan outputs the resolved steps of a dry run.
func (p *Printer) PrintPlan(role string, plan *execution.Plan) {
	p.printf("\n%s %s\n", p.styles.Title.Render("Plan"), role)
	p.printf("%s%s\n\n", p.styles.Label.Render("Base dir"), plan.BaseDir())

	for _, e := range plan.Entries() {
		var state string
		switch {
		case e.Error() != nil:
			state = p.styles.Error.Render(e.Error().Error())
		case !e.Present() && e.Blocking():
			state = p.styles.Status("missing")
		case !e.Present():
			state = p.styles.Status("skipped")
		case !e.Executable():
			state = p.styles.Warning.Render("present, will chmod +x")
		default:
			state = p.styles.Status("present")
		}

		req := "optional"
		if e.Step().Required {
			req = "required"
		}
		p.printf("  %-24s %-8s %s  %s\n", e.Step().Name, req, e.Path(), state)
	}

	summary := plan.Summary()
	p.printf("\nSteps: %d total, %d present, %d missing, %d blocking\n",
		summary.Total, summary.Present, summary.Missing, summary.Blocking)
	if plan.Runnable() {
		p.printf("Run without --dry-run to execute this plan.\n")
	}
}

// PrintHistory outputs run records, newest first.
func (p *Printer) PrintHistory(records []audit.RunRecord) {
	if len(records) == 0 {
		p.printf("No runs recorded.\n")
		return
	}
	for _, rec := range records {
		p.printf("%s  %-20s %s  %s  %s\n",
			rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Role,
			p.styles.Symbol(rec.Status),
			padRight(p.styles.Status(rec.Status), rec.Status, 10),
			rec.Duration().Round(time.Second),
		)
		if step, ok := rec.FailedStep(); ok {
			p.printf("    %s %s\n", p.styles.Muted.Render("failed at"), step.Name)
		} else if rec.Error != "" && !rec.Success {
			p.printf("    %s\n", p.styles.Muted.Render(rec.Error))
		}
	}
}

func (p *Printer) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// padRight pads a styled string using the width of its plain text.
func padRight(styled, plain string, width int) string {
	if len(plain) >= width {
		return styled
	}
	return styled + strings.Repeat(" ", width-len(plain))
}
