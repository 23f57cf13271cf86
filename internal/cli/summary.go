package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/prewire/prewire/internal/orchestrator"
)

// successColor returns the lipgloss.Color used for successful outcomes.
func successColor() lipgloss.Color { return lipgloss.Color("42") }

// skipColor returns the lipgloss.Color used for skipped outcomes.
func skipColor() lipgloss.Color { return lipgloss.Color("245") }

// failureColor returns the lipgloss.Color used for failed outcomes and
// fatal messages.
func failureColor() lipgloss.Color { return lipgloss.Color("196") }

// statusMarker returns the outcome marker for one repository line.
func statusMarker(outcome orchestrator.RepositoryOutcome, plain bool) string {
	if plain {
		switch {
		case outcome.Skipped:
			return "[SKIP]"
		case outcome.Success:
			return "[OK]"
		default:
			return "[ERR]"
		}
	}

	switch {
	case outcome.Skipped:
		return lipgloss.NewStyle().Foreground(skipColor()).Render("-")
	case outcome.Success:
		return lipgloss.NewStyle().Foreground(successColor()).Render("✓") // ✓
	default:
		return lipgloss.NewStyle().Foreground(failureColor()).Render("✗") // ✗
	}
}

// renderSummary formats an orchestration summary for the terminal. Quiet
// summaries render nothing. Plain mode suppresses styling for logs and
// CI output.
func renderSummary(summary orchestrator.Summary, plain bool) string {
	if summary.Quiet() {
		return ""
	}

	var b strings.Builder

	if summary.Fatal != nil {
		header := summary.Fatal.Message
		if !plain {
			header = lipgloss.NewStyle().Foreground(failureColor()).Bold(true).Render(header)
		}
		b.WriteString(header + "\n")
		if len(summary.Fatal.Remediations) > 0 {
			b.WriteString("\nTo fix this:\n")
			for _, rem := range summary.Fatal.Remediations {
				b.WriteString("  - " + rem.Label)
				switch {
				case rem.Command != "":
					b.WriteString(": " + rem.Command)
				case rem.URL != "":
					b.WriteString(": " + rem.URL)
				}
				b.WriteString("\n")
			}
		}
		return b.String()
	}

	for _, outcome := range summary.Outcomes {
		fmt.Fprintf(&b, "%s %s: %s\n", statusMarker(outcome, plain), outcome.Name, outcome.Message)
	}

	if summary.Method != "" {
		fmt.Fprintf(&b, "\npre-commit via %s; %s\n", summary.Method, summary.Message)
	} else {
		fmt.Fprintf(&b, "\n%s\n", summary.Message)
	}
	return b.String()
}
