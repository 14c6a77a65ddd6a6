package types

// Segment is a half-open interval [Start, End) of the source timeline,
// classified as either silent or active. Times are in seconds.
type Segment struct {
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Silent bool    `json:"silent"`
}

// Duration returns End-Start in seconds.
func (s Segment) Duration() float64 { return s.End - s.Start }

// Timeline is an ordered, gapless, non-overlapping partition of
// [0, totalDuration). After gating and merging, adjacent segments always
// alternate between silent and active.
type Timeline []Segment

// TotalDuration returns the end of the last segment, or 0 for an empty
// timeline.
func (t Timeline) TotalDuration() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].End
}

// DetectionConfig controls the silence classifier. A new config always
// triggers a full recompute; there is no incremental update path.
type DetectionConfig struct {
	// ThresholdDb is the RMS silence threshold in dBFS, expected in [-60, -10].
	ThresholdDb float64
	// MinSilence is the minimum silent-run duration in seconds, expected in
	// [0.1, 2.0]. Shorter silent runs are reclassified as active.
	MinSilence float64
}

// Clamp returns a copy with both fields forced into their documented ranges.
// Upstream validation is loose, so every consumer clamps.
func (c DetectionConfig) Clamp() DetectionConfig {
	if c.ThresholdDb < -60 {
		c.ThresholdDb = -60
	}
	if c.ThresholdDb > -10 {
		c.ThresholdDb = -10
	}
	if c.MinSilence < 0.1 {
		c.MinSilence = 0.1
	}
	if c.MinSilence > 2.0 {
		c.MinSilence = 2.0
	}
	return c
}

// TrimRange is the [Start, End) window of the source actually considered for
// export. Consumers re-clamp it against the timeline regardless of caller
// validation.
type TrimRange struct {
	Start float64
	End   float64
}

// Clamp forces the range into [0, total] with Start <= End.
func (r TrimRange) Clamp(total float64) TrimRange {
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > total {
		r.End = total
	}
	if r.End < r.Start {
		r.End = r.Start
	}
	return r
}

// AudioBuffer is the decoded source: one sample slice per channel, all the
// same length, at SampleRate Hz. Analysis uses the first channel only.
type AudioBuffer struct {
	Channels   [][]float64
	SampleRate int
}

// Duration returns the buffer length in seconds.
func (b AudioBuffer) Duration() float64 {
	if len(b.Channels) == 0 || b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Channels[0])) / float64(b.SampleRate)
}

// ExportFormat names a supported output container.
type ExportFormat string

const (
	FormatMP4  ExportFormat = "mp4"
	FormatMKV  ExportFormat = "mkv"
	FormatWebM ExportFormat = "webm"
	FormatMP3  ExportFormat = "mp3"
	FormatWAV  ExportFormat = "wav"
)

// Dialect selects the shell syntax of the generated script.
type Dialect string

const (
	DialectPosix Dialect = "posix"
	DialectBatch Dialect = "batch"
)

// ExportOptions is an immutable snapshot of everything script synthesis needs
// besides the active segments themselves.
type ExportOptions struct {
	Format          ExportFormat
	Dialect         Dialect
	Trim            TrimRange
	BackgroundTrack string
}

// ExportPlan is the dialect-independent intermediate representation: extract
// steps in timeline order, one concatenation, and an optional background mix.
type ExportPlan struct {
	Extracts []ExtractStep
	Concat   ConcatStep
	Mix      *MixStep
}

// ExtractStep cuts one active segment out of the source into a numbered
// temporary file.
type ExtractStep struct {
	SourceRef  string
	StartTime  float64
	Duration   float64
	OutputName string
}

// ConcatStep joins the extracted parts, in order, into OutputRef.
type ConcatStep struct {
	OrderedNames []string
	OutputRef    string
}

// MixStep lays a background track under the concatenated cut. Weights are
// fixed: foreground 1.0, background 0.2.
type MixStep struct {
	BaseRef       string
	BackgroundRef string
	OutputRef     string
}

// Analysis is the AI collaborator's metadata result. On collaborator failure
// the adapter returns the offline placeholder instead of an error, and the
// engine treats that placeholder as a valid result.
type Analysis struct {
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Tags       []string `json:"tags"`
	ViralScore int      `json:"viral_score"`
}
