package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/felixgeelhaar/homestack/internal/domain/execution"
	"github.com/felixgeelhaar/homestack/internal/domain/hostconfig"
	"github.com/felixgeelhaar/homestack/internal/provider/report"
)

// RunReport describes one finished (or aborted) run.
type RunReport struct {
	RunID    string
	Bundle   hostconfig.Bundle
	Ledger   *execution.Ledger
	Phase    execution.Phase
	DryRun   bool
	Started  time.Time
	Finished time.Time
	Err      error
}

// Took returns the wall-clock duration of the run.
func (r *RunReport) Took() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Succeeded reports whether the run reached the end of the plan without a
// fatal failure. Tolerated failures do not count.
func (r *RunReport) Succeeded() bool {
	return r.Err == nil && r.Phase == execution.PhaseCompleted
}

// PrintReport writes a human-readable summary of r to h's output.
func (h *Homestack) PrintReport(r *RunReport) {
	PrintReport(h.out, StylesFor(h.out), r)
}

// PrintReport writes a human-readable summary of r.
func PrintReport(w io.Writer, s Styles, r *RunReport) {
	p := func(format string, args ...any) {
		_, _ = fmt.Fprintf(w, format, args...)
	}
	caser := cases.Title(language.English)

	title := "Homestack Run"
	if r.DryRun {
		title = "Homestack Plan"
	}
	p("\n%s\n", s.Title.Render(title))
	p("%s\n\n", s.Muted.Render(strings.Repeat("=", len(title))))

	for _, res := range r.Ledger.Results() {
		line := fmt.Sprintf("%s %-28s %s", outcomeMark(s, res.Outcome()), res.StepID().String(),
			s.Muted.Render(caser.String(res.Outcome().String())))
		p("  %s\n", line)

		switch res.Outcome() {
		case execution.OutcomePlanned:
			if d := res.Diff(); !d.IsEmpty() {
				p("      %s\n", d.Summary())
			}
		case execution.OutcomeSkipped:
			p("      %s\n", s.Muted.Render(res.Reason()))
		case execution.OutcomeTolerated:
			p("      %s\n", s.Warning.Render(res.Error().Error()))
		case execution.OutcomeFailed:
			p("      %s\n", s.Error.Render(res.Error().Error()))
		}
	}

	p("\nSummary: %s (%s)\n", r.Ledger.Summary(), r.Took().Round(time.Millisecond))

	switch {
	case r.Err != nil:
		p("%s\n", s.Error.Render("Provisioning aborted: "+r.Err.Error()))
		return
	case r.DryRun:
		p("\nRun 'homestack apply' to execute this plan.\n")
		return
	}

	p("\n%s\n", s.Title.Render("Next steps"))
	for _, hint := range report.Hints(r.Bundle) {
		p("  %-22s %s\n", hint.Label+":", s.Command.Render(hint.Command))
	}
}

func outcomeMark(s Styles, o execution.Outcome) string {
	switch o {
	case execution.OutcomeApplied:
		return s.Success.Render("+")
	case execution.OutcomeSatisfied:
		return s.Success.Render("✓")
	case execution.OutcomePlanned:
		return s.Warning.Render("~")
	case execution.OutcomeSkipped:
		return s.Muted.Render("-")
	case execution.OutcomeTolerated:
		return s.Warning.Render("!")
	case execution.OutcomeFailed:
		return s.Error.Render("✗")
	default:
		return "?"
	}
}
