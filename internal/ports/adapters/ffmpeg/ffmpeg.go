// Package ffmpeg adapts the ffmpeg/ffprobe CLIs into the Decoder port: it
// streams a source file as raw little-endian float32 PCM and de-interleaves
// it into per-channel sample slices.
package ffmpeg

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Italoh18/silence-cut-ia/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) Decode(ctx context.Context, sourceRef string) (types.AudioBuffer, error) {
	channels, sampleRate, err := a.probeStream(ctx, sourceRef)
	if err != nil {
		return types.AudioBuffer{}, err
	}

	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-v", "error",
		"-i", sourceRef,
		"-vn",
		"-f", "f32le",
		"-acodec", "pcm_f32le",
		"-",
	)
	raw, err := cmd.Output()
	if err != nil {
		return types.AudioBuffer{}, fmt.Errorf("ffmpeg decode: %w", err)
	}

	buf, err := deinterleave(raw, channels)
	if err != nil {
		return types.AudioBuffer{}, err
	}
	buf.SampleRate = sampleRate
	return buf, nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, sourceRef string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		sourceRef,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

// probeStream returns (channels, sampleRate) of the first audio stream.
func (a *Adapter) probeStream(ctx context.Context, sourceRef string) (int, int, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=channels,sample_rate",
		"-of", "csv=p=0",
		sourceRef,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe stream: %w\n%s", err, string(b))
	}
	return parseStreamInfo(string(b))
}

// parseStreamInfo parses the "sample_rate,channels" CSV line ffprobe emits.
// ffprobe prints fields in its stream-section order regardless of how the
// -show_entries list is written, and sample_rate precedes channels there.
func parseStreamInfo(out string) (channels, sampleRate int, err error) {
	line := strings.TrimSpace(out)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected ffprobe stream info %q", line)
	}
	sampleRate, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("parse sample rate %q: %w", parts[0], err)
	}
	channels, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("parse channel count %q: %w", parts[1], err)
	}
	if channels < 1 || sampleRate < 1 {
		return 0, 0, fmt.Errorf("invalid stream info %q", line)
	}
	return channels, sampleRate, nil
}

// deinterleave splits interleaved f32le PCM into per-channel float64 slices.
// A trailing partial frame is dropped.
func deinterleave(raw []byte, channels int) (types.AudioBuffer, error) {
	if channels < 1 {
		return types.AudioBuffer{}, fmt.Errorf("invalid channel count %d", channels)
	}
	frameBytes := 4 * channels
	frames := len(raw) / frameBytes

	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
	}
	for f := 0; f < frames; f++ {
		base := f * frameBytes
		for c := 0; c < channels; c++ {
			bits := binary.LittleEndian.Uint32(raw[base+4*c:])
			out[c][f] = float64(math.Float32frombits(bits))
		}
	}
	return types.AudioBuffer{Channels: out}, nil
}
