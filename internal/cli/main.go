package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "silencecut <input>",
		Short:        "Detect silence in a recording and generate an ffmpeg cut script",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("out", "", "Script output path (default by dialect, - for stdout)")
	root.Flags().Float64("threshold", -40, "Silence threshold in dBFS")
	root.Flags().Float64("min-silence", 0.5, "Minimum silence duration in seconds")
	root.Flags().Float64("trim-start", 0, "Trim window start in seconds")
	root.Flags().Float64("trim-end", -1, "Trim window end in seconds (-1 = end of source)")
	root.Flags().String("format", "mp4", "Output container: mp4, mkv, webm, mp3, wav")
	root.Flags().String("dialect", "posix", "Script dialect: posix or batch")
	root.Flags().String("background", "", "Background track to mix under the cut")
	root.Flags().Bool("analyze", false, "Request AI title/summary/tags for the cut")

	// Hidden tool-path overrides (internal)
	root.Flags().String("ffmpeg", "ffmpeg", "ffmpeg binary path")
	root.Flags().String("ffprobe", "ffprobe", "ffprobe binary path")
	_ = root.Flags().MarkHidden("ffmpeg")
	_ = root.Flags().MarkHidden("ffprobe")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
