// Package silence classifies a decoded sample buffer into alternating
// silent/active runs using windowed RMS energy.
package silence

import (
	"math"

	"github.com/Italoh18/silence-cut-ia/internal/types"
)

// windowSeconds is the analysis window length. 50 ms is short enough to place
// cut boundaries within a syllable and long enough for a stable RMS estimate.
const windowSeconds = 0.05

// Detect partitions the buffer's first channel into a raw timeline covering
// [0, duration) exactly. It is a pure function: identical inputs always
// produce a bit-identical timeline.
func Detect(buf types.AudioBuffer, cfg types.DetectionConfig) types.Timeline {
	cfg = cfg.Clamp()
	if len(buf.Channels) == 0 || len(buf.Channels[0]) == 0 || buf.SampleRate <= 0 {
		return nil
	}
	samples := buf.Channels[0]
	rate := float64(buf.SampleRate)
	total := float64(len(samples)) / rate

	windowSize := int(math.Round(rate * windowSeconds))
	if windowSize < 1 {
		windowSize = 1
	}
	threshold := math.Pow(10, cfg.ThresholdDb/20)

	var out types.Timeline
	runStart := 0.0
	runSilent := false
	for i := 0; i < len(samples); i += windowSize {
		end := i + windowSize
		if end > len(samples) {
			// Ragged tail: analyzed as-is, not zero-padded.
			end = len(samples)
		}
		silent := rms(samples[i:end]) < threshold
		if i == 0 {
			runSilent = silent
			continue
		}
		if silent != runSilent {
			out = append(out, types.Segment{Start: runStart, End: float64(i) / rate, Silent: runSilent})
			runStart = float64(i) / rate
			runSilent = silent
		}
	}
	// The last run ends at the exact buffer duration even when the final
	// window is partial, so the timeline always covers [0, total).
	out = append(out, types.Segment{Start: runStart, End: total, Silent: runSilent})
	return out
}

func rms(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}
