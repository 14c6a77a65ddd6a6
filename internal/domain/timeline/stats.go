package timeline

import "github.com/Italoh18/silence-cut-ia/internal/types"

// Stats summarizes a cut for user feedback. It plays no role in export.
type Stats struct {
	// FinalDuration is the total length in seconds of the clipped active
	// segments, i.e. the length of the exported cut.
	FinalDuration float64
	// Reduction is the fraction of the trim window removed by the cut,
	// in [0, 1].
	Reduction float64
}

// FinalDuration sums the clipped active segments. It is monotonic
// non-decreasing as the trim range widens.
func FinalDuration(active []types.Segment) float64 {
	var sum float64
	for _, seg := range active {
		sum += seg.Duration()
	}
	return sum
}

// Summarize computes the final duration and the removed fraction relative to
// originalDuration. The reduction is clamped at zero so float rounding never
// reports a negative saving.
func Summarize(active []types.Segment, trim types.TrimRange, originalDuration float64) Stats {
	final := FinalDuration(active)
	s := Stats{FinalDuration: final}
	if originalDuration > 0 {
		s.Reduction = ((trim.End - trim.Start) - final) / originalDuration
		if s.Reduction < 0 {
			s.Reduction = 0
		}
	}
	return s
}
