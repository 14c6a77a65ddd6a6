package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/Italoh18/silence-cut-ia/internal/domain/timeline"
	"github.com/Italoh18/silence-cut-ia/internal/types"
)

func TestPrint(t *testing.T) {
	tl := types.Timeline{
		{Start: 0, End: 2, Silent: false},
		{Start: 2, End: 3, Silent: true},
		{Start: 3, End: 10, Silent: false},
	}
	var buf bytes.Buffer
	Print(&buf, Input{
		Source:   "talk.mp4",
		Timeline: tl,
		Active:   []types.Segment{{Start: 0, End: 2}, {Start: 3, End: 10}},
		Stats:    timeline.Stats{FinalDuration: 9, Reduction: 0.1},
		Options: types.ExportOptions{
			Format:  types.FormatMP4,
			Dialect: types.DialectPosix,
			Trim:    types.TrimRange{Start: 0, End: 10},
		},
		Analysis: &types.Analysis{
			Title:      "A Talk",
			Summary:    "Summary here.",
			Tags:       []string{"error", "offline"},
			ViralScore: 0,
		},
	})

	out := buf.String()
	for _, want := range []string{
		"talk.mp4",
		"10.00s",
		"3 total, 1 silent",
		"9.00s across 2 segments",
		"10.0%",
		"A Talk",
		"error, offline",
		"0/100",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestPrint_ClampsOpenEndedTrim(t *testing.T) {
	// The CLI sends an open-ended trim as a MaxFloat64 sentinel; the report
	// must show the detected duration, not the raw sentinel.
	var buf bytes.Buffer
	Print(&buf, Input{
		Source:   "talk.mp4",
		Timeline: types.Timeline{{Start: 0, End: 10, Silent: false}},
		Options: types.ExportOptions{
			Format:  types.FormatMP4,
			Dialect: types.DialectPosix,
			Trim:    types.TrimRange{Start: 0, End: math.MaxFloat64},
		},
	})
	out := buf.String()
	if !strings.Contains(out, "0.00s - 10.00s") {
		t.Fatalf("trim row not clamped to timeline duration:\n%s", out)
	}
	if strings.Contains(out, "179769313") {
		t.Fatalf("raw sentinel leaked into report:\n%s", out)
	}
}

func TestPrint_WarnsWhenNothingToExport(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, Input{
		Source:   "quiet.wav",
		Timeline: types.Timeline{{Start: 0, End: 5, Silent: true}},
		Options:  types.ExportOptions{Format: types.FormatWAV, Dialect: types.DialectPosix},
	})
	if !strings.Contains(buf.String(), "nothing to export") {
		t.Fatalf("missing empty-export warning:\n%s", buf.String())
	}
}

func TestAnalysisContext(t *testing.T) {
	tl := types.Timeline{{Start: 0, End: 120, Silent: false}}
	got := AnalysisContext(tl, timeline.Stats{FinalDuration: 90, Reduction: 0.25})
	for _, want := range []string{"120.0 seconds", "90.0 seconds", "25%", "Segment count: 1"} {
		if !strings.Contains(got, want) {
			t.Fatalf("context missing %q:\n%s", want, got)
		}
	}
}
