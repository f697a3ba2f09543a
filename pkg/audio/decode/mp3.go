// ABOUTME: MP3 file decoder
// ABOUTME: Decodes a whole MP3 file to interleaved 16-bit stereo samples
package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"

	"github.com/stemweld/stemweld/pkg/audio"
)

// MP3Decoder decodes MP3 files via go-mp3. The decoder always emits
// 16-bit little-endian stereo regardless of the source channel layout,
// which matches the pipeline's forced-stereo contract for free.
type MP3Decoder struct{}

// Open decodes the entire file into memory.
func (d *MP3Decoder) Open(path string) (audio.Format, []int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return audio.Format{}, nil, fmt.Errorf("failed to open MP3 file %s: %w", path, err)
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return audio.Format{}, nil, fmt.Errorf("%w: %s: %v", ErrNoDefaultStream, path, err)
	}

	format := audio.Format{
		SampleRate: decoder.SampleRate(),
		Channels:   2, // go-mp3 output is always stereo
	}

	var samples []int16
	buf := make([]byte, 8192)
	filled := 0
	for {
		n, err := decoder.Read(buf[filled:])
		n += filled
		var rem int
		samples, rem = appendPCM16LE(samples, buf[:n])
		// A short read can split a sample across calls; keep the odd
		// byte for the next round instead of dropping it.
		copy(buf, buf[n-rem:n])
		filled = rem
		if err == io.EOF {
			break
		}
		if err != nil {
			return audio.Format{}, nil, fmt.Errorf("mp3 decode failed for %s: %w", path, err)
		}
	}

	return format, samples, nil
}

// appendPCM16LE converts every complete little-endian sample in buf,
// returning the extended slice and the count of leftover bytes (0 or 1).
func appendPCM16LE(samples []int16, buf []byte) ([]int16, int) {
	i := 0
	for ; i+1 < len(buf); i += 2 {
		samples = append(samples, int16(binary.LittleEndian.Uint16(buf[i:i+2])))
	}
	return samples, len(buf) - i
}
