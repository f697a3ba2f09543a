// ABOUTME: Core audio type definitions for the stem pipeline
// ABOUTME: Defines formats, track roles and sample math helpers
package audio

// Format describes the PCM layout of a decoded stem.
// The pipeline is fixed at 16-bit integer samples; only the
// sample rate and channel count vary per source.
type Format struct {
	SampleRate int
	Channels   int
}

// Role distinguishes the timing anchor from everything that aligns to it.
type Role int

const (
	// RoleReference is the click/metronome stem all others align to.
	RoleReference Role = iota
	// RoleMember is any other stem in the session.
	RoleMember
)

func (r Role) String() string {
	if r == RoleReference {
		return "reference"
	}
	return "member"
}

// Track is one decoded stem plus the metadata downstream writers need.
// SampleCount is the total number of interleaved sample values, so a
// one-second stereo track at 44100 Hz has SampleCount 88200.
type Track struct {
	Path        string
	Title       string
	Role        Role
	Format      Format
	SampleCount int
}

// Duration returns the track length in seconds, always derived from the
// decoded sample count. Container-reported totals are never trusted; they
// may be absent or approximate.
func (t Track) Duration() float64 {
	return Duration(t.SampleCount, t.Format)
}

// Duration converts an interleaved sample count to seconds.
func Duration(sampleCount int, format Format) float64 {
	if format.SampleRate == 0 || format.Channels == 0 {
		return 0
	}
	return float64(sampleCount) / float64(format.Channels*format.SampleRate)
}

// Int16FromFloat32 converts a float sample in [-1, 1] to 16-bit PCM by
// scaling to the integer range maximum and truncating. Values outside the
// nominal range are clamped rather than wrapped.
func Int16FromFloat32(sample float32) int16 {
	scaled := sample * 32767
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}

// MixPair averages a left/right sample pair into one mono sample using
// integer division. No dithering.
func MixPair(left, right int16) int16 {
	return int16((int32(left) + int32(right)) / 2)
}
