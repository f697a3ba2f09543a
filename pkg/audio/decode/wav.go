// ABOUTME: WAV file decoder
// ABOUTME: Reads 16-bit integer and 32-bit float WAV files as stereo PCM
package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"

	"github.com/stemweld/stemweld/pkg/audio"
)

const (
	wavFormatPCM       = 1
	wavFormatIEEEFloat = 3
)

// WAVDecoder reads WAV containers via go-audio/wav. Exactly two decoded
// sample representations are supported: 16-bit integer PCM and 32-bit IEEE
// float. Float samples are scaled to the int16 range and truncated.
type WAVDecoder struct{}

// Open decodes the entire file into memory.
func (d *WAVDecoder) Open(path string) (audio.Format, []int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return audio.Format{}, nil, fmt.Errorf("failed to open WAV file %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return audio.Format{}, nil, fmt.Errorf("%w: %s", ErrNoDefaultStream, path)
	}

	channels := int(dec.NumChans)
	format := audio.Format{SampleRate: int(dec.SampleRate), Channels: 2}

	var samples []int16
	switch {
	case dec.WavAudioFormat == wavFormatPCM && dec.BitDepth == 16:
		buf, err := dec.FullPCMBuffer()
		if err != nil {
			return audio.Format{}, nil, fmt.Errorf("wav decode failed for %s: %w", path, err)
		}
		samples = make([]int16, len(buf.Data))
		for i, s := range buf.Data {
			samples[i] = int16(s)
		}
	case dec.WavAudioFormat == wavFormatIEEEFloat && dec.BitDepth == 32:
		samples, err = readFloatSamples(dec)
		if err != nil {
			return audio.Format{}, nil, fmt.Errorf("wav decode failed for %s: %w", path, err)
		}
	default:
		return audio.Format{}, nil, fmt.Errorf("%w: %d-bit format %d in %s", ErrUnsupportedSampleFormat, dec.BitDepth, dec.WavAudioFormat, path)
	}

	stereo, err := forceStereo(samples, channels)
	if err != nil {
		return audio.Format{}, nil, fmt.Errorf("%s: %w", path, err)
	}

	return format, stereo, nil
}

// readFloatSamples drains the data chunk as little-endian float32 values
// and converts each one to 16-bit PCM.
func readFloatSamples(dec *wav.Decoder) ([]int16, error) {
	if err := dec.FwdToPCM(); err != nil {
		return nil, err
	}

	var samples []int16
	for {
		var v float32
		err := binary.Read(dec.PCMChunk, binary.LittleEndian, &v)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, err
		}
		samples = append(samples, audio.Int16FromFloat32(v))
	}
	return samples, nil
}
