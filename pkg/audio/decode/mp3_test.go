// ABOUTME: Tests for the MP3 decoder
// ABOUTME: Covers PCM byte pairing across reads and failure handling
package decode

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMP3DecoderMissingFile(t *testing.T) {
	_, _, err := (&MP3Decoder{}).Open(filepath.Join(t.TempDir(), "absent.mp3"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAppendPCM16LE(t *testing.T) {
	tests := []struct {
		name     string
		buf      []byte
		expected []int16
		leftover int
	}{
		{"empty", nil, nil, 0},
		{"even", []byte{0x01, 0x00, 0xFF, 0xFF}, []int16{1, -1}, 0},
		{"odd keeps trailing byte", []byte{0x01, 0x00, 0x02}, []int16{1}, 1},
		{"single byte", []byte{0x7F}, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples, rem := appendPCM16LE(nil, tt.buf)
			if rem != tt.leftover {
				t.Errorf("expected %d leftover bytes, got %d", tt.leftover, rem)
			}
			if len(samples) != len(tt.expected) {
				t.Fatalf("expected %d samples, got %d", len(tt.expected), len(samples))
			}
			for i, want := range tt.expected {
				if samples[i] != want {
					t.Errorf("sample %d: expected %d, got %d", i, want, samples[i])
				}
			}
		})
	}
}

// A sample split across two reads must come out intact once the second
// half arrives.
func TestAppendPCM16LESplitSample(t *testing.T) {
	samples, rem := appendPCM16LE(nil, []byte{0x34})
	if len(samples) != 0 || rem != 1 {
		t.Fatalf("expected no samples and 1 leftover byte, got %d and %d", len(samples), rem)
	}

	samples, rem = appendPCM16LE(samples, []byte{0x34, 0x12})
	if rem != 0 {
		t.Errorf("expected no leftover bytes, got %d", rem)
	}
	if len(samples) != 1 || samples[0] != 0x1234 {
		t.Fatalf("expected single sample 0x1234, got %v", samples)
	}
}

func TestMP3DecoderUnparseable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.mp3")
	if err := os.WriteFile(path, []byte("not an mpeg stream at all"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	_, _, err := (&MP3Decoder{}).Open(path)
	if !errors.Is(err, ErrNoDefaultStream) {
		t.Errorf("expected ErrNoDefaultStream, got %v", err)
	}
}
