// Package timeline derives the exportable active-segment list and its
// duration statistics from a canonical timeline and a trim range.
package timeline

import "github.com/Italoh18/silence-cut-ia/internal/types"

// ActiveSegments drops silent and out-of-range segments and clips boundary
// segments to the trim range. Order is preserved. A fully silent timeline
// yields an empty list for any trim range; that is a valid degenerate case,
// not an error.
func ActiveSegments(t types.Timeline, trim types.TrimRange) []types.Segment {
	trim = trim.Clamp(t.TotalDuration())
	if trim.End <= trim.Start {
		return nil
	}
	var out []types.Segment
	for _, seg := range t {
		if seg.Silent || seg.End <= trim.Start || seg.Start >= trim.End {
			continue
		}
		if seg.Start < trim.Start {
			seg.Start = trim.Start
		}
		if seg.End > trim.End {
			seg.End = trim.End
		}
		out = append(out, seg)
	}
	return out
}
