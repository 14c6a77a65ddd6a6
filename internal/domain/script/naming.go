package script

import (
	"path/filepath"
	"strings"
)

// partsDir holds the temporary per-segment files and the concat manifest.
const partsDir = "silencecut_parts"

// outputName derives the final output base name from the source reference:
// whitespace runs collapse to underscores, the original extension is dropped,
// and the edit marker plus target extension is appended.
func outputName(sourceRef, ext string) string {
	base := filepath.Base(sourceRef)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Join(strings.Fields(base), "_")
	if base == "" {
		base = "output"
	}
	return base + "_edited." + ext
}

// escapePosix escapes a filename for interpolation inside a double-quoted
// POSIX shell word: backslash, double quote, dollar sign, and backtick.
//
// The batch dialect intentionally applies no escaping. That asymmetry is a
// known limitation, kept rather than silently patched.
func escapePosix(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '"', '$', '`':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
