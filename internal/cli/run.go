package cli

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Italoh18/silence-cut-ia/internal/pipeline"
	"github.com/Italoh18/silence-cut-ia/internal/ports/adapters/openrouter"
	"github.com/Italoh18/silence-cut-ia/internal/types"
)

func run(cmd *cobra.Command, input string) error {
	outPath, _ := cmd.Flags().GetString("out")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	minSilence, _ := cmd.Flags().GetFloat64("min-silence")
	trimStart, _ := cmd.Flags().GetFloat64("trim-start")
	trimEnd, _ := cmd.Flags().GetFloat64("trim-end")
	format, _ := cmd.Flags().GetString("format")
	dialect, _ := cmd.Flags().GetString("dialect")
	background, _ := cmd.Flags().GetString("background")
	analyze, _ := cmd.Flags().GetBool("analyze")
	ffmpegPath, _ := cmd.Flags().GetString("ffmpeg")
	ffprobePath, _ := cmd.Flags().GetString("ffprobe")

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	if trimEnd < 0 {
		// Open-ended trim: the engine clamps it to the source duration.
		trimEnd = math.MaxFloat64
	}
	if outPath == "" {
		outPath = "silencecut.sh"
		if types.Dialect(dialect) == types.DialectBatch {
			outPath = "silencecut.bat"
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	settings, err := openrouter.LoadSettings(ctx)
	if err != nil {
		return err
	}

	cfg := pipeline.Config{
		Input:   absIn,
		OutPath: outPath,
		Detection: types.DetectionConfig{
			ThresholdDb: threshold,
			MinSilence:  minSilence,
		},
		Export: types.ExportOptions{
			Format:          types.ExportFormat(format),
			Dialect:         types.Dialect(dialect),
			Trim:            types.TrimRange{Start: trimStart, End: trimEnd},
			BackgroundTrack: background,
		},
		Analyze:     analyze,
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		OpenRouter:  settings,
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, cfg)
}
