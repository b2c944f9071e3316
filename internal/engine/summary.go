package engine

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/model"
)

// SummaryRenderer writes the end-of-run per-stage summary and the overall
// verdict line. It is always invoked, regardless of where the run stopped.
type SummaryRenderer struct {
	out     io.Writer
	colored bool
}

// NewSummaryRenderer builds a renderer for the given writer, enabling color
// only when the writer is a terminal.
func NewSummaryRenderer(out io.Writer) *SummaryRenderer {
	colored := false
	if f, ok := out.(*os.File); ok {
		colored = term.IsTerminal(int(f.Fd()))
	}
	return &SummaryRenderer{out: out, colored: colored}
}

// Render prints one line per recorded stage in declaration order, then the
// overall status.
func (r *SummaryRenderer) Render(rc *model.RunContext) {
	fmt.Fprintln(r.out, strings.Repeat("=", 60))
	fmt.Fprintln(r.out, "PIPELINE SUMMARY")
	fmt.Fprintln(r.out, strings.Repeat("=", 60))

	for _, name := range rc.Order {
		res := rc.Results[name]
		duration := "N/A"
		if res.Duration > 0 {
			duration = fmt.Sprintf("%.2fs", res.Duration.Seconds())
		}
		line := fmt.Sprintf("%s %s: %s (%s)", statusIcon(res.Status), name, strings.ToUpper(string(res.Status)), duration)
		fmt.Fprintln(r.out, r.stylize(res.Status, line))
	}

	overall := rc.OverallStatus()
	fmt.Fprintln(r.out, strings.Repeat("=", 60))
	fmt.Fprintln(r.out, r.stylize(overall, fmt.Sprintf("Overall Status: %s", strings.ToUpper(string(overall)))))
}

func (r *SummaryRenderer) stylize(status model.StageStatus, line string) string {
	if !r.colored {
		return line
	}
	return lipgloss.NewStyle().Foreground(statusColor(status)).Render(line)
}

func statusIcon(status model.StageStatus) string {
	switch status {
	case model.StatusSuccess:
		return "[OK]"
	case model.StatusFailed, model.StatusError:
		return "[XX]"
	case model.StatusSkipped, model.StatusUserSkipped:
		return "[--]"
	default:
		return "[??]"
	}
}

func statusColor(status model.StageStatus) lipgloss.Color {
	switch status {
	case model.StatusSuccess:
		return lipgloss.Color("42") // green
	case model.StatusFailed, model.StatusError:
		return lipgloss.Color("196") // red
	case model.StatusSkipped, model.StatusUserSkipped:
		return lipgloss.Color("226") // yellow
	default:
		return lipgloss.Color("250") // light gray
	}
}
