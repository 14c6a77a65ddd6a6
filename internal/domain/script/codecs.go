package script

import (
	"errors"
	"fmt"

	"github.com/Italoh18/silence-cut-ia/internal/types"
)

// ErrUnsupportedFormat is returned at plan-build time for a format missing
// from the codec table. It is a configuration error, never silently defaulted.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// codecEntry is the resolved encoder pair for one output container.
// AudioOnly entries drop the video stream entirely.
type codecEntry struct {
	Video     string
	Audio     string
	AudioOnly bool
}

// codecTable is total over the supported ExportFormat values.
var codecTable = map[types.ExportFormat]codecEntry{
	types.FormatMP4:  {Video: "libx264", Audio: "aac"},
	types.FormatMKV:  {Video: "libx264", Audio: "aac"},
	types.FormatWebM: {Video: "libvpx-vp9", Audio: "libopus"},
	types.FormatMP3:  {Audio: "libmp3lame", AudioOnly: true},
	types.FormatWAV:  {Audio: "pcm_s16le", AudioOnly: true},
}

// ValidateFormat reports whether f has a codec mapping. It lets callers
// reject a bad format before any decoding work happens.
func ValidateFormat(f types.ExportFormat) error {
	_, err := resolveCodecs(f)
	return err
}

func resolveCodecs(f types.ExportFormat) (codecEntry, error) {
	entry, ok := codecTable[f]
	if !ok {
		return codecEntry{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	return entry, nil
}
