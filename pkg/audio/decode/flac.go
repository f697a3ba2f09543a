// ABOUTME: FLAC file decoder
// ABOUTME: Decodes a whole FLAC file to interleaved 16-bit stereo samples
package decode

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mewkiz/flac"

	"github.com/stemweld/stemweld/pkg/audio"
)

// maxConsecutiveFrameErrors bounds best-effort recovery so a corrupt
// stream cannot spin the parser forever.
const maxConsecutiveFrameErrors = 8

// FLACDecoder decodes FLAC files via mewkiz/flac. Only 16-bit streams are
// supported; frames that fail to parse are skipped and decoding continues.
type FLACDecoder struct{}

// Open decodes the entire file into memory.
func (d *FLACDecoder) Open(path string) (audio.Format, []int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return audio.Format{}, nil, fmt.Errorf("failed to open FLAC file %s: %w", path, err)
	}
	defer f.Close()

	stream, err := flac.New(f)
	if err != nil {
		return audio.Format{}, nil, fmt.Errorf("%w: %s: %v", ErrNoDefaultStream, path, err)
	}

	info := stream.Info
	if info == nil {
		return audio.Format{}, nil, fmt.Errorf("%w: %s", ErrNoDefaultStream, path)
	}
	if info.BitsPerSample != 16 {
		return audio.Format{}, nil, fmt.Errorf("%w: %d-bit FLAC in %s", ErrUnsupportedSampleFormat, info.BitsPerSample, path)
	}

	channels := int(info.NChannels)
	var samples []int16
	frameErrors := 0
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			frameErrors++
			if frameErrors >= maxConsecutiveFrameErrors {
				log.Printf("Giving up on %s after %d consecutive bad frames", path, frameErrors)
				break
			}
			log.Printf("Skipping bad FLAC frame in %s: %v", path, err)
			continue
		}
		frameErrors = 0

		// Interleave the per-channel subframes.
		for i := 0; i < int(frame.BlockSize); i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, int16(frame.Subframes[ch].Samples[i]))
			}
		}
	}

	if len(samples) == 0 {
		return audio.Format{}, nil, fmt.Errorf("%w: no decodable frames in %s", ErrNoDefaultStream, path)
	}

	stereo, err := forceStereo(samples, channels)
	if err != nil {
		return audio.Format{}, nil, fmt.Errorf("%s: %w", path, err)
	}

	return audio.Format{SampleRate: int(info.SampleRate), Channels: 2}, stereo, nil
}
