// ABOUTME: Silence-padding alignment math
// ABOUTME: Computes per-track padding durations relative to the reference
package align

import (
	"github.com/stemweld/stemweld/pkg/audio"
)

// Padding returns how many seconds of leading silence a member needs to
// line up with the reference. Never negative: a member longer than the
// reference keeps its excess and gets zero padding.
func Padding(referenceDuration, memberDuration float64) float64 {
	p := referenceDuration - memberDuration
	if p < 0 {
		return 0
	}
	return p
}

// PaddingFrames returns the whole frames of leading silence a member
// needs. When the rates match, the deficit is taken directly from the
// integer sample counts; a round trip through seconds loses a frame to
// float rounding on a large fraction of inputs.
func PaddingFrames(reference, member audio.Track) int {
	refFrames := reference.SampleCount / reference.Format.Channels
	memFrames := member.SampleCount / member.Format.Channels
	if reference.Format.SampleRate == member.Format.SampleRate {
		if refFrames <= memFrames {
			return 0
		}
		return refFrames - memFrames
	}
	return int(Padding(reference.Duration(), member.Duration()) * float64(member.Format.SampleRate))
}

// Plan maps a track path to its padding in whole frames.
type Plan map[string]int

// BuildPlan computes the padding for every track in a session. The
// reference itself is included at zero so callers can treat all tracks
// uniformly when rendering.
func BuildPlan(reference audio.Track, members []audio.Track) Plan {
	plan := Plan{reference.Path: 0}
	for _, m := range members {
		plan[m.Path] = PaddingFrames(reference, m)
	}
	return plan
}
