// ABOUTME: Stereo WAV writer with leading silence padding
// ABOUTME: Re-materializes decoded stems as aligned 16-bit PCM files
package render

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/stemweld/stemweld/pkg/audio"
)

// WriteStereo writes a canonical 16-bit stereo WAV at dst: first
// paddingFrames frames of zero samples, then the decoded samples, in
// one pass. The whole track is already buffered in memory, which is
// fine for minutes-long stems. Returns the total interleaved sample
// count of the written file.
func WriteStereo(format audio.Format, samples []int16, paddingFrames int, dst string) (int, error) {
	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, format.SampleRate, 16, format.Channels, 1)

	padCount := paddingFrames * format.Channels
	bufFormat := &gaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate}

	if padCount > 0 {
		silence := &gaudio.IntBuffer{
			Format:         bufFormat,
			Data:           make([]int, padCount),
			SourceBitDepth: 16,
		}
		if err := enc.Write(silence); err != nil {
			return 0, fmt.Errorf("failed to write padding to %s: %w", dst, err)
		}
	}

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &gaudio.IntBuffer{
		Format:         bufFormat,
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return 0, fmt.Errorf("failed to write samples to %s: %w", dst, err)
	}

	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize %s: %w", dst, err)
	}

	return padCount + len(samples), nil
}
