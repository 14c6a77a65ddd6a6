// Package report renders the detection and export summary for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Italoh18/silence-cut-ia/internal/domain/timeline"
	"github.com/Italoh18/silence-cut-ia/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).MarginBottom(1)
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D08700"))
)

// Input is everything the summary shows.
type Input struct {
	Source   string
	Timeline types.Timeline
	Active   []types.Segment
	Stats    timeline.Stats
	Options  types.ExportOptions
	Analysis *types.Analysis
}

// Print writes the styled summary.
func Print(w io.Writer, in Input) {
	fmt.Fprintln(w, titleStyle.Render("silence-cut"))

	silentCount := 0
	var silentDur float64
	for _, seg := range in.Timeline {
		if seg.Silent {
			silentCount++
			silentDur += seg.Duration()
		}
	}

	// Open-ended trims arrive with a huge sentinel End; clamp to the
	// detected duration so the row stays readable.
	trim := in.Options.Trim.Clamp(in.Timeline.TotalDuration())

	row(w, "Source", in.Source)
	row(w, "Duration", fmt.Sprintf("%.2fs", in.Timeline.TotalDuration()))
	row(w, "Segments", fmt.Sprintf("%d total, %d silent (%.2fs)", len(in.Timeline), silentCount, silentDur))
	row(w, "Trim", fmt.Sprintf("%.2fs - %.2fs", trim.Start, trim.End))
	row(w, "Final cut", fmt.Sprintf("%.2fs across %d segments", in.Stats.FinalDuration, len(in.Active)))
	row(w, "Removed", fmt.Sprintf("%.1f%%", in.Stats.Reduction*100))
	row(w, "Format", fmt.Sprintf("%s (%s script)", in.Options.Format, in.Options.Dialect))
	if len(in.Active) == 0 {
		fmt.Fprintln(w, warnStyle.Render("No active segments in the trim range; nothing to export."))
	}

	if in.Analysis != nil {
		fmt.Fprintln(w)
		row(w, "Title", in.Analysis.Title)
		row(w, "Summary", in.Analysis.Summary)
		row(w, "Tags", strings.Join(in.Analysis.Tags, ", "))
		row(w, "Viral score", fmt.Sprintf("%d/100", in.Analysis.ViralScore))
	}
}

func row(w io.Writer, key, value string) {
	fmt.Fprintf(w, "%s %s\n", keyStyle.Render(fmt.Sprintf("%-12s", key+":")), valueStyle.Render(value))
}

// AnalysisContext builds the free-text context string handed to the AI
// collaborator: enough structure for useful metadata, no raw samples.
func AnalysisContext(t types.Timeline, stats timeline.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recording length: %.1f seconds.\n", t.TotalDuration())
	fmt.Fprintf(&b, "Edited length after silence removal: %.1f seconds.\n", stats.FinalDuration)
	fmt.Fprintf(&b, "Silence removed: %.0f%% of the recording.\n", stats.Reduction*100)
	fmt.Fprintf(&b, "Segment count: %d.\n", len(t))
	return b.String()
}
