// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"fmt"
	"hash/fnv"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/fundplan/internal/core/phase"
	"github.com/example/fundplan/internal/ports/primary"
)

const rule = "────────────────────────────────────────────────────────────────"

// colorizeID formats an ID like "PHASE-001" with a color chosen by its prefix.
func colorizeID(id string) string {
	if id == "" {
		return color.New(color.FgHiBlack).Sprint("(unsaved)")
	}
	prefix, _, _ := strings.Cut(id, "-")
	return getIDColor(prefix).Sprint(id)
}

// getIDColor returns a deterministic color for an ID type (CAMP, PHASE)
// Uses FNV-1a hash on the ID prefix to ensure all IDs of same type have same color
func getIDColor(idType string) *color.Color {
	h := fnv.New32a()
	h.Write([]byte(idType))
	hash := h.Sum32()

	// Map to 256-color range (16-231 are the color cube)
	colorCode := 16 + (hash % 216)

	return color.New(color.Attribute(38), color.Attribute(5), color.Attribute(colorCode))
}

func renderPhases(out io.Writer, phases []phase.Phase) {
	if len(phases) == 0 {
		fmt.Fprintln(out, "No phases")
		return
	}
	fmt.Fprintf(out, "\n%-3s %-12s %-12s %-12s %6s %14s\n", "#", "ID", "START", "END", "DAYS", "GOAL")
	fmt.Fprintln(out, rule)
	for _, p := range phases {
		id := p.ID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(out, "%-3d %-12s %-12s %-12s %6d %14s\n",
			p.Number, id, p.StartDate, p.EndDate(), p.DurationDays, p.FundingGoal.StringFixed(2))
	}
}

func renderTotals(out io.Writer, totals phase.Totals) {
	fmt.Fprintln(out, rule)
	span := "-"
	if totals.Span != nil {
		span = fmt.Sprintf("%s to %s (%d days)", totals.Span.Start, totals.Span.End, totals.Span.Days())
	}
	fmt.Fprintf(out, "Phases: %d   Duration: %d days   Goal: %s\n",
		totals.PhaseCount, totals.TotalDurationDays,
		color.New(color.Bold).Sprint(totals.TotalFundingGoal.StringFixed(2)))
	fmt.Fprintf(out, "Span:   %s\n", span)
}

func renderViolations(out io.Writer, violations []phase.Violation) {
	red := color.New(color.FgRed)
	for _, v := range violations {
		fmt.Fprintf(out, "  %s %s\n", red.Sprintf("✗ %s:", v.Kind), v.Message)
	}
}

func renderCommit(out io.Writer, result *primary.CommitResult) {
	if result.Changed() == 0 {
		fmt.Fprintln(out, "No changes to save")
		return
	}
	fmt.Fprintf(out, "%s Saved: %d created, %d updated, %d deleted\n",
		color.New(color.FgGreen).Sprint("✓"), result.Created, result.Updated, result.Deleted)
}
