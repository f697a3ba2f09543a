// ABOUTME: FileDecoder interface definition and extension dispatch
// ABOUTME: Common entry point for all audio file decoders
package decode

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stemweld/stemweld/pkg/audio"
)

var (
	// ErrNoDefaultStream is returned when a container exposes no
	// selectable elementary audio stream.
	ErrNoDefaultStream = errors.New("no default audio stream")

	// ErrUnsupportedSampleFormat is returned when the decoded buffer's
	// numeric representation is neither 16-bit integer nor 32-bit float.
	ErrUnsupportedSampleFormat = errors.New("unsupported sample format")
)

// FileDecoder opens one compressed audio file and returns its format plus
// the fully decoded interleaved 16-bit samples, forced to two channels.
type FileDecoder interface {
	Open(path string) (audio.Format, []int16, error)
}

// Open decodes a file using the decoder registered for its extension.
func Open(path string) (audio.Format, []int16, error) {
	dec, err := ForPath(path)
	if err != nil {
		return audio.Format{}, nil, err
	}
	return dec.Open(path)
}

// ForPath selects a decoder by file extension.
func ForPath(path string) (FileDecoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return &MP3Decoder{}, nil
	case ".flac":
		return &FLACDecoder{}, nil
	case ".wav":
		return &WAVDecoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .flac, .wav)", filepath.Ext(path))
	}
}

// SupportedExt reports whether a filename has a decodable extension.
func SupportedExt(path string) bool {
	_, err := ForPath(path)
	return err == nil
}

// forceStereo returns interleaved stereo samples. Mono input is duplicated
// into both channels; stereo passes through untouched.
func forceStereo(samples []int16, channels int) ([]int16, error) {
	switch channels {
	case 2:
		return samples, nil
	case 1:
		out := make([]int16, 0, len(samples)*2)
		for _, s := range samples {
			out = append(out, s, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedSampleFormat, channels)
	}
}
