//go:build integration

package itest

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// toneSpan describes one stretch of a synthesized WAV fixture: amp 0 writes
// digital silence, anything else a 440 Hz sine at that amplitude.
type toneSpan struct {
	seconds float64
	amp     float64
}

const fixtureRate = 8000

// writeWAV writes a 16-bit mono PCM WAV file from the given spans. Fixtures
// are synthesized here instead of checked in so the repo carries no binary
// test data.
func writeWAV(t *testing.T, path string, spans ...toneSpan) {
	t.Helper()

	var pcm []byte
	n := 0
	for _, sp := range spans {
		count := int(sp.seconds * fixtureRate)
		for i := 0; i < count; i++ {
			v := sp.amp * math.Sin(2*math.Pi*440*float64(n)/fixtureRate)
			pcm = binary.LittleEndian.AppendUint16(pcm, uint16(int16(v*32767)))
			n++
		}
	}

	var header []byte
	header = append(header, "RIFF"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(36+len(pcm)))
	header = append(header, "WAVEfmt "...)
	header = binary.LittleEndian.AppendUint32(header, 16)
	header = binary.LittleEndian.AppendUint16(header, 1) // PCM
	header = binary.LittleEndian.AppendUint16(header, 1) // mono
	header = binary.LittleEndian.AppendUint32(header, fixtureRate)
	header = binary.LittleEndian.AppendUint32(header, fixtureRate*2)
	header = binary.LittleEndian.AppendUint16(header, 2)
	header = binary.LittleEndian.AppendUint16(header, 16)
	header = append(header, "data"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(len(pcm)))

	if err := os.WriteFile(path, append(header, pcm...), 0o644); err != nil {
		t.Fatalf("write wav fixture: %v", err)
	}
}

func findRepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd, nil
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			break
		}
		wd = parent
	}
	return "", errors.New("could not locate go.mod")
}

func mustRepoRoot(t *testing.T) string {
	t.Helper()
	root, err := findRepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	return root
}
