package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Italoh18/silence-cut-ia/internal/types"
)

// fakeDecoder serves a fixed buffer. When block is non-nil, the first Decode
// call waits until the channel is closed, which lets tests interleave
// detection runs deterministically.
type fakeDecoder struct {
	buf     types.AudioBuffer
	err     error
	block   chan struct{}
	started chan struct{}

	mu    sync.Mutex
	calls int
}

func (f *fakeDecoder) Decode(_ context.Context, _ string) (types.AudioBuffer, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	if f.block != nil && n == 1 {
		close(f.started)
		<-f.block
	}
	return f.buf, f.err
}

func (f *fakeDecoder) ProbeDuration(_ context.Context, _ string) (float64, error) {
	return f.buf.Duration(), nil
}

type fakeAnalyzer struct {
	res types.Analysis
}

func (f fakeAnalyzer) Analyze(_ context.Context, _, _ string) types.Analysis { return f.res }

// constantBuffer is a mono buffer at a constant amplitude, handy because its
// RMS equals the amplitude.
func constantBuffer(seconds float64, amp float64) types.AudioBuffer {
	samples := make([]float64, int(seconds*1000))
	for i := range samples {
		samples[i] = amp
	}
	return types.AudioBuffer{Channels: [][]float64{samples}, SampleRate: 1000}
}

// speechBuffer alternates loud and quiet stretches: 2 s active, 1 s silent,
// 2 s active at -40 dB threshold.
func speechBuffer() types.AudioBuffer {
	var samples []float64
	appendSpan := func(seconds, amp float64) {
		for i := 0; i < int(seconds*1000); i++ {
			samples = append(samples, amp)
		}
	}
	appendSpan(2, 0.5)
	appendSpan(1, 0.0001)
	appendSpan(2, 0.5)
	return types.AudioBuffer{Channels: [][]float64{samples}, SampleRate: 1000}
}

func defaultConfig() types.DetectionConfig {
	return types.DetectionConfig{ThresholdDb: -40, MinSilence: 0.5}
}

func TestEngine_Lifecycle(t *testing.T) {
	dec := &fakeDecoder{buf: speechBuffer()}
	e := New(Deps{Decoder: dec, Analyzer: fakeAnalyzer{}})
	assert.Equal(t, StateIdle, e.State())

	require.NoError(t, e.LoadSource(context.Background(), "talk.mp4", defaultConfig()))
	assert.Equal(t, StateReady, e.State())

	tl := e.Timeline()
	require.Len(t, tl, 3)
	assert.True(t, tl[1].Silent)
	assert.InDelta(t, 5.0, tl.TotalDuration(), 1e-9)

	// A wider silence minimum swallows the 1 s gap.
	require.NoError(t, e.UpdateConfig(context.Background(), types.DetectionConfig{ThresholdDb: -40, MinSilence: 2.0}))
	assert.Equal(t, StateReady, e.State())
	tl = e.Timeline()
	require.Len(t, tl, 1)
	assert.False(t, tl[0].Silent)
}

func TestEngine_UpdateConfigBeforeLoad(t *testing.T) {
	e := New(Deps{Decoder: &fakeDecoder{}, Analyzer: fakeAnalyzer{}})
	assert.ErrorIs(t, e.UpdateConfig(context.Background(), defaultConfig()), ErrNotReady)
}

func TestEngine_DecodeFailureIsTerminal(t *testing.T) {
	boom := errors.New("codec not found")
	dec := &fakeDecoder{err: boom}
	e := New(Deps{Decoder: dec, Analyzer: fakeAnalyzer{}})

	err := e.LoadSource(context.Background(), "broken.mp4", defaultConfig())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, StateError, e.State())
	assert.Empty(t, e.Timeline(), "no partial timeline may be published")

	// Error is terminal for queries and config changes.
	assert.ErrorIs(t, e.UpdateConfig(context.Background(), defaultConfig()), ErrNotReady)
	_, err = e.PlanExport(types.ExportOptions{Format: types.FormatMP4})
	assert.ErrorIs(t, err, ErrNotReady)

	// A new source recovers.
	dec.err = nil
	dec.buf = speechBuffer()
	require.NoError(t, e.LoadSource(context.Background(), "talk.mp4", defaultConfig()))
	assert.Equal(t, StateReady, e.State())
	assert.NoError(t, e.Err())
}

func TestEngine_CancelledRunLandsInError(t *testing.T) {
	// The fake decoder ignores the context, so cancellation is only observed
	// at commit time. A cancelled current run must end in StateError, not
	// stay stuck in StateDetecting.
	dec := &fakeDecoder{buf: speechBuffer()}
	e := New(Deps{Decoder: dec, Analyzer: fakeAnalyzer{}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.LoadSource(ctx, "talk.mp4", defaultConfig())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateError, e.State())
	assert.ErrorIs(t, e.Err(), context.Canceled)
	assert.Empty(t, e.Timeline())

	// A new source with a live context recovers.
	require.NoError(t, e.LoadSource(context.Background(), "talk.mp4", defaultConfig()))
	assert.Equal(t, StateReady, e.State())
}

func TestEngine_StaleDetectionDiscarded(t *testing.T) {
	// The first load blocks in the decoder while a second load with a
	// different threshold completes. When the first run resumes, its token is
	// stale and its result must be dropped, not applied.
	dec := &fakeDecoder{
		buf:     constantBuffer(2, 0.05),
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	e := New(Deps{Decoder: dec, Analyzer: fakeAnalyzer{}})

	done := make(chan error, 1)
	go func() {
		// RMS 0.05 < 10^(-20/20): this run would classify the buffer silent.
		done <- e.LoadSource(context.Background(), "a.wav", types.DetectionConfig{ThresholdDb: -20, MinSilence: 0.5})
	}()
	<-dec.started

	// RMS 0.05 > 10^(-40/20): the newer run classifies the buffer active.
	require.NoError(t, e.LoadSource(context.Background(), "a.wav", types.DetectionConfig{ThresholdDb: -40, MinSilence: 0.5}))
	require.Len(t, e.Timeline(), 1)
	require.False(t, e.Timeline()[0].Silent)

	close(dec.block)
	require.NoError(t, <-done, "a superseded run reports no error")

	tl := e.Timeline()
	require.Len(t, tl, 1)
	assert.False(t, tl[0].Silent, "stale result must not overwrite the committed timeline")
	assert.Equal(t, StateReady, e.State())
}

func TestEngine_PlanExport(t *testing.T) {
	dec := &fakeDecoder{buf: speechBuffer()}
	e := New(Deps{Decoder: dec, Analyzer: fakeAnalyzer{}})
	require.NoError(t, e.LoadSource(context.Background(), "talk.mp4", defaultConfig()))

	opts := types.ExportOptions{
		Format:  types.FormatMP4,
		Dialect: types.DialectPosix,
		Trim:    types.TrimRange{Start: 0, End: 5},
	}
	res, err := e.PlanExport(opts)
	require.NoError(t, err)
	assert.Len(t, res.Active, 2)
	assert.InDelta(t, 4.0, res.Stats.FinalDuration, 1e-9)
	assert.Contains(t, res.Script, "#!/bin/sh")
	assert.Contains(t, res.Script, "talk_edited.mp4")
	assert.Equal(t, StateReady, e.State(), "export planning never changes state")

	again, err := e.PlanExport(opts)
	require.NoError(t, err)
	assert.Equal(t, res.Script, again.Script, "planning is a pure query")
}

func TestEngine_PlanExportNothingToExport(t *testing.T) {
	dec := &fakeDecoder{buf: constantBuffer(5, 0.0001)}
	e := New(Deps{Decoder: dec, Analyzer: fakeAnalyzer{}})
	require.NoError(t, e.LoadSource(context.Background(), "quiet.wav", defaultConfig()))

	res, err := e.PlanExport(types.ExportOptions{
		Format:  types.FormatMP4,
		Dialect: types.DialectPosix,
		Trim:    types.TrimRange{Start: 0, End: 5},
	})
	require.ErrorIs(t, err, ErrNothingToExport)
	assert.Empty(t, res.Script, "the condition is flagged before script generation")
	assert.Zero(t, res.Stats.FinalDuration)
}

func TestEngine_PlanExportUnsupportedFormat(t *testing.T) {
	dec := &fakeDecoder{buf: speechBuffer()}
	e := New(Deps{Decoder: dec, Analyzer: fakeAnalyzer{}})
	require.NoError(t, e.LoadSource(context.Background(), "talk.mp4", defaultConfig()))

	_, err := e.PlanExport(types.ExportOptions{
		Format:  "ogg",
		Dialect: types.DialectPosix,
		Trim:    types.TrimRange{Start: 0, End: 5},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotReady)
}

func TestEngine_AnalyzePassesPlaceholderThrough(t *testing.T) {
	placeholder := types.Analysis{
		Title:      "talk",
		Summary:    "AI analysis unavailable.",
		Tags:       []string{"error", "offline"},
		ViralScore: 0,
	}
	dec := &fakeDecoder{buf: speechBuffer()}
	e := New(Deps{Decoder: dec, Analyzer: fakeAnalyzer{res: placeholder}})
	require.NoError(t, e.LoadSource(context.Background(), "talk.mp4", defaultConfig()))

	got := e.Analyze(context.Background(), "context")
	assert.Equal(t, placeholder, got, "placeholder is a valid result, not an error")
}
