// ABOUTME: Stereo to mono WAV downmixer
// ABOUTME: Averages consecutive sample pairs, preserving rate and bit depth
package render

import (
	"errors"
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/stemweld/stemweld/pkg/audio"
)

// ErrNotStereo is returned when a downmix input does not hold exactly
// two channels. Mono never passes through.
var ErrNotStereo = errors.New("downmix input is not stereo")

// MonoAsset describes a written mono WAV.
type MonoAsset struct {
	Path        string
	SampleRate  int
	SampleCount int // mono frames
}

// WriteMono reads the stereo WAV at src and writes a mono WAV at dst where
// each output sample is the truncated integer average of one left/right
// pair. Sample rate and bit depth are preserved; only the channel count
// changes.
func WriteMono(src, dst string) (MonoAsset, error) {
	in, err := os.Open(src)
	if err != nil {
		return MonoAsset{}, fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	dec := wav.NewDecoder(in)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return MonoAsset{}, fmt.Errorf("invalid WAV file: %s", src)
	}
	if dec.NumChans != 2 {
		return MonoAsset{}, fmt.Errorf("%w: %s has %d channels", ErrNotStereo, src, dec.NumChans)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return MonoAsset{}, fmt.Errorf("failed to read %s: %w", src, err)
	}

	sampleRate := int(dec.SampleRate)
	mono := make([]int, len(buf.Data)/2)
	for i := range mono {
		left := int16(buf.Data[i*2])
		right := int16(buf.Data[i*2+1])
		mono[i] = int(audio.MixPair(left, right))
	}

	out, err := os.Create(dst)
	if err != nil {
		return MonoAsset{}, fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	enc := wav.NewEncoder(out, sampleRate, 16, 1, 1)
	monoBuf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           mono,
		SourceBitDepth: 16,
	}
	if err := enc.Write(monoBuf); err != nil {
		return MonoAsset{}, fmt.Errorf("failed to write %s: %w", dst, err)
	}
	if err := enc.Close(); err != nil {
		return MonoAsset{}, fmt.Errorf("failed to finalize %s: %w", dst, err)
	}

	return MonoAsset{Path: dst, SampleRate: sampleRate, SampleCount: len(mono)}, nil
}
