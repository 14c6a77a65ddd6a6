package ports

import (
	"context"

	"github.com/Italoh18/silence-cut-ia/internal/types"
)

// Decoder is the media-decoding collaborator: it turns a source reference
// into a raw sample buffer. The engine never decodes media itself.
type Decoder interface {
	Decode(ctx context.Context, sourceRef string) (types.AudioBuffer, error)
	ProbeDuration(ctx context.Context, sourceRef string) (float64, error)
}

// Analyzer is the AI-metadata collaborator. It never fails: on any transport
// or parsing problem it returns the offline placeholder result, which callers
// must treat as a valid, non-fatal analysis.
type Analyzer interface {
	Analyze(ctx context.Context, filename, contextText string) types.Analysis
}
