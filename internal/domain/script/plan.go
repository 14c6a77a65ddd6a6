// Package script lowers an active-segment list and export options into an
// intermediate plan and renders that plan as a literal command script for one
// of two shell dialects.
package script

import (
	"fmt"

	"github.com/Italoh18/silence-cut-ia/internal/types"
)

// mixTempName is the concatenation output when a background mix follows.
const mixTempName = "silencecut_combined_tmp"

// BuildPlan compiles the active segments into the dialect-independent
// intermediate representation: one extract per segment in timeline order, one
// concatenation, and an optional trailing background mix. An empty segment
// list is allowed and produces a plan with an empty concat manifest.
func BuildPlan(active []types.Segment, sourceRef string, opts types.ExportOptions) (types.ExportPlan, error) {
	if _, err := resolveCodecs(opts.Format); err != nil {
		return types.ExportPlan{}, err
	}

	ext := string(opts.Format)
	final := outputName(sourceRef, ext)

	var plan types.ExportPlan
	names := make([]string, 0, len(active))
	for i, seg := range active {
		name := fmt.Sprintf("part_%04d.%s", i, ext)
		names = append(names, name)
		plan.Extracts = append(plan.Extracts, types.ExtractStep{
			SourceRef:  sourceRef,
			StartTime:  seg.Start,
			Duration:   seg.Duration(),
			OutputName: name,
		})
	}

	concatOut := final
	if opts.BackgroundTrack != "" {
		concatOut = mixTempName + "." + ext
		plan.Mix = &types.MixStep{
			BaseRef:       concatOut,
			BackgroundRef: opts.BackgroundTrack,
			OutputRef:     final,
		}
	}
	plan.Concat = types.ConcatStep{OrderedNames: names, OutputRef: concatOut}
	return plan, nil
}

// Synthesize builds the plan and renders it for the requested dialect. The
// output is a pure function of its inputs: repeated calls yield byte-identical
// text. The script is deterministic, not guaranteed to succeed; concatenating
// an empty manifest is expected to fail when the external tool runs.
func Synthesize(active []types.Segment, sourceRef string, opts types.ExportOptions) (string, error) {
	plan, err := BuildPlan(active, sourceRef, opts)
	if err != nil {
		return "", err
	}
	codecs, err := resolveCodecs(opts.Format)
	if err != nil {
		return "", err
	}
	switch opts.Dialect {
	case types.DialectBatch:
		return renderBatch(plan, codecs), nil
	case types.DialectPosix, "":
		return renderPosix(plan, codecs), nil
	default:
		return "", fmt.Errorf("unknown script dialect %q", opts.Dialect)
	}
}

// fmtSeconds renders a timestamp or duration with 4 decimal places, matching
// both dialects' extract commands.
func fmtSeconds(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// mixFilter is the fixed two-input weighted mix: foreground 1.0, background 0.2.
const mixFilter = "[0:a][1:a]amix=inputs=2:duration=first:weights=1.0 0.2[aout]"
