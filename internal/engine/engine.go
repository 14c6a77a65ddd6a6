// Package engine sequences the detection pipeline: decode, classify, gate,
// and answer trim/export queries. It owns the processing state machine and
// the generation token that keeps stale detection results from being
// committed.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Italoh18/silence-cut-ia/internal/domain/script"
	"github.com/Italoh18/silence-cut-ia/internal/domain/silence"
	"github.com/Italoh18/silence-cut-ia/internal/domain/timeline"
	"github.com/Italoh18/silence-cut-ia/internal/ports"
	"github.com/Italoh18/silence-cut-ia/internal/types"
)

// State is the engine's processing state. Export planning is only reachable
// from StateReady and never changes state.
type State int

const (
	StateIdle State = iota
	StateDetecting
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDetecting:
		return "detecting"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrNotReady is returned for queries issued before a source has been
	// loaded and detected, or after a failure.
	ErrNotReady = errors.New("engine: no detected timeline")
	// ErrNothingToExport flags an empty active-segment list before script
	// generation, so the problem surfaces here instead of when the external
	// tool runs the script.
	ErrNothingToExport = errors.New("engine: nothing to export")
)

type Deps struct {
	Decoder  ports.Decoder
	Analyzer ports.Analyzer
	Logf     func(format string, args ...any)
}

type Engine struct {
	d Deps

	mu        sync.Mutex
	state     State
	gen       uint64
	sourceRef string
	buf       types.AudioBuffer
	cfg       types.DetectionConfig
	canonical types.Timeline
	lastErr   error
}

func New(d Deps) *Engine {
	if d.Logf == nil {
		d.Logf = func(string, ...any) {}
	}
	return &Engine{d: d, state: StateIdle}
}

// State reports the current processing state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the failure that moved the engine to StateError, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Timeline returns a copy of the canonical timeline.
func (e *Engine) Timeline() types.Timeline {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(types.Timeline, len(e.canonical))
	copy(out, e.canonical)
	return out
}

// LoadSource decodes a new source and runs a full detection pass. A decode or
// detection failure is fatal for the run: the engine transitions to
// StateError with no partial timeline published, and recovery requires
// another LoadSource call.
func (e *Engine) LoadSource(ctx context.Context, sourceRef string, cfg types.DetectionConfig) error {
	cfg = cfg.Clamp()

	e.mu.Lock()
	e.state = StateDetecting
	e.lastErr = nil
	e.canonical = nil
	e.gen++
	token := e.gen
	e.mu.Unlock()

	buf, err := e.d.Decoder.Decode(ctx, sourceRef)
	if err != nil {
		return e.fail(token, fmt.Errorf("decode %s: %w", sourceRef, err))
	}
	if probed, perr := e.d.Decoder.ProbeDuration(ctx, sourceRef); perr == nil {
		if diff := probed - buf.Duration(); diff > 0.5 || diff < -0.5 {
			e.d.Logf("decoded duration %.2fs differs from probed %.2fs", buf.Duration(), probed)
		}
	}

	e.mu.Lock()
	if token != e.gen {
		e.mu.Unlock()
		return nil
	}
	e.sourceRef = sourceRef
	e.buf = buf
	e.cfg = cfg
	e.mu.Unlock()

	return e.detect(ctx, token, buf, cfg)
}

// UpdateConfig re-runs detection over the loaded buffer with a new config.
// Each call supersedes any in-flight run: both runs compute, but only the one
// holding the latest generation token commits its timeline. A superseded
// run's result is discarded, never applied.
func (e *Engine) UpdateConfig(ctx context.Context, cfg types.DetectionConfig) error {
	cfg = cfg.Clamp()

	e.mu.Lock()
	if e.state == StateIdle || e.state == StateError || len(e.buf.Channels) == 0 {
		e.mu.Unlock()
		return ErrNotReady
	}
	e.state = StateDetecting
	e.cfg = cfg
	e.gen++
	token := e.gen
	buf := e.buf
	e.mu.Unlock()

	return e.detect(ctx, token, buf, cfg)
}

// detect runs the classifier and gate on an immutable snapshot and commits
// the canonical timeline only while its token is still current.
func (e *Engine) detect(ctx context.Context, token uint64, buf types.AudioBuffer, cfg types.DetectionConfig) error {
	raw := silence.Detect(buf, cfg)
	canonical := silence.Gate(raw, cfg.MinSilence)

	e.mu.Lock()
	defer e.mu.Unlock()
	if token != e.gen {
		// Superseded while computing; a newer run owns the timeline now.
		return nil
	}
	if err := ctx.Err(); err != nil {
		// Cancellation of the current run is a failure like any other: it
		// must not leave the engine stuck in StateDetecting.
		e.state = StateError
		e.lastErr = err
		e.canonical = nil
		return err
	}
	e.canonical = canonical
	e.state = StateReady
	e.d.Logf("detection committed: %d segments over %.2fs", len(canonical), canonical.TotalDuration())
	return nil
}

// fail records a fatal run error unless the run was already superseded; a
// stale failure must not clobber a newer run's state.
func (e *Engine) fail(token uint64, err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if token == e.gen {
		e.state = StateError
		e.lastErr = err
		e.canonical = nil
	}
	return err
}

// ExportResult is the outcome of a successful export-plan query.
type ExportResult struct {
	Script string
	Active []types.Segment
	Stats  timeline.Stats
}

// PlanExport derives the active segments for the trim range, their
// statistics, and the rendered script. It is a pure, synchronous query: state
// is never modified, and identical inputs yield byte-identical script text.
func (e *Engine) PlanExport(opts types.ExportOptions) (ExportResult, error) {
	e.mu.Lock()
	if e.state != StateReady {
		e.mu.Unlock()
		return ExportResult{}, ErrNotReady
	}
	canonical := e.canonical
	sourceRef := e.sourceRef
	e.mu.Unlock()

	total := canonical.TotalDuration()
	trim := opts.Trim.Clamp(total)
	active := timeline.ActiveSegments(canonical, trim)
	stats := timeline.Summarize(active, trim, total)
	if len(active) == 0 {
		return ExportResult{Stats: stats}, ErrNothingToExport
	}

	text, err := script.Synthesize(active, sourceRef, opts)
	if err != nil {
		return ExportResult{}, err
	}
	return ExportResult{Script: text, Active: active, Stats: stats}, nil
}

// Analyze queries the AI collaborator for metadata about the loaded source.
// The collaborator recovers its own failures into a placeholder result, so
// this never fails and never needs a retry.
func (e *Engine) Analyze(ctx context.Context, contextText string) types.Analysis {
	e.mu.Lock()
	sourceRef := e.sourceRef
	e.mu.Unlock()
	return e.d.Analyzer.Analyze(ctx, sourceRef, contextText)
}
