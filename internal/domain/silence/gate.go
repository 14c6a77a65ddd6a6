package silence

import "github.com/Italoh18/silence-cut-ia/internal/types"

// Gate reclassifies silent runs shorter than minSilence as active, then
// merges adjacent runs sharing a classification. Boundaries are never moved;
// gating exists to tolerate brief natural dips (breaths, plosives) without
// fragmenting the cut.
//
// The result satisfies the canonical timeline invariants: gapless coverage of
// [0, totalDuration), strict alternation, and no silent segment shorter than
// minSilence.
func Gate(raw types.Timeline, minSilence float64) types.Timeline {
	if len(raw) == 0 {
		return nil
	}
	if minSilence < 0 {
		minSilence = 0
	}

	gated := make(types.Timeline, len(raw))
	copy(gated, raw)
	for i, seg := range gated {
		if seg.Silent && seg.Duration() < minSilence {
			gated[i].Silent = false
		}
	}

	out := types.Timeline{gated[0]}
	for _, seg := range gated[1:] {
		last := &out[len(out)-1]
		if seg.Silent == last.Silent {
			last.End = seg.End
			continue
		}
		out = append(out, seg)
	}
	return out
}
