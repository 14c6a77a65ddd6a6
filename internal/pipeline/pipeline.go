// Package pipeline wires the adapters to the engine and runs one full
// detect-and-plan pass for the CLI.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/Italoh18/silence-cut-ia/internal/domain/script"
	"github.com/Italoh18/silence-cut-ia/internal/engine"
	"github.com/Italoh18/silence-cut-ia/internal/ports"
	"github.com/Italoh18/silence-cut-ia/internal/ports/adapters/ffmpeg"
	"github.com/Italoh18/silence-cut-ia/internal/ports/adapters/openrouter"
	"github.com/Italoh18/silence-cut-ia/internal/report"
	"github.com/Italoh18/silence-cut-ia/internal/types"
)

type Config struct {
	Input string `validate:"required,file"`
	// OutPath receives the rendered script; "-" writes to stdout.
	OutPath string `validate:"required"`

	Detection types.DetectionConfig
	Export    types.ExportOptions

	// Analyze asks the AI collaborator for title/summary/tags metadata and
	// prints it with the report.
	Analyze bool

	FFmpegPath  string
	FFprobePath string

	OpenRouter openrouter.Settings

	Logf func(format string, args ...any)
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	// Detection and trim values are clamped downstream, not rejected here.
	if err := script.ValidateFormat(c.Export.Format); err != nil {
		return err
	}
	return openrouter.ValidateBaseURL(c.OpenRouter.BaseURL, c.OpenRouter.AllowedHosts)
}

func Run(ctx context.Context, cfg Config) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	deps := engine.Deps{
		Decoder:  ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
		Analyzer: openrouter.New(cfg.OpenRouter),
		Logf:     logf,
	}
	eng := engine.New(deps)

	logf("decoding %s", cfg.Input)
	if err := eng.LoadSource(ctx, cfg.Input, cfg.Detection); err != nil {
		return err
	}

	res, err := eng.PlanExport(cfg.Export)
	if err != nil {
		if errors.Is(err, engine.ErrNothingToExport) {
			// Show the summary (with its warning row) before failing, so the
			// user sees why the trim range produced nothing.
			report.Print(os.Stdout, report.Input{
				Source:   cfg.Input,
				Timeline: eng.Timeline(),
				Stats:    res.Stats,
				Options:  cfg.Export,
			})
		}
		return err
	}

	var analysis *types.Analysis
	if cfg.Analyze {
		a := eng.Analyze(ctx, report.AnalysisContext(eng.Timeline(), res.Stats))
		analysis = &a
	}
	report.Print(os.Stdout, report.Input{
		Source:   cfg.Input,
		Timeline: eng.Timeline(),
		Active:   res.Active,
		Stats:    res.Stats,
		Options:  cfg.Export,
		Analysis: analysis,
	})

	return writeScript(cfg.OutPath, res.Script, cfg.Export.Dialect)
}

func writeScript(path, text string, dialect types.Dialect) error {
	if path == "-" {
		_, err := os.Stdout.WriteString(text)
		return err
	}
	mode := os.FileMode(0o644)
	if dialect != types.DialectBatch {
		mode = 0o755
	}
	if err := os.WriteFile(path, []byte(text), mode); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return nil
}

// ensure adapters implement ports
var _ ports.Decoder = (*ffmpeg.Adapter)(nil)
var _ ports.Analyzer = (*openrouter.Adapter)(nil)
