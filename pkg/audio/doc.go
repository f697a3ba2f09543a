// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Track types and sample math helpers
// Package audio provides fundamental audio types for the stem pipeline.
//
// This package defines core types used throughout the stemweld library:
//   - Format: PCM layout of a decoded stem (sample rate, channels)
//   - Track: one decoded stem with its role and sample count
//
// It also provides the sample math the pipeline is built on:
//   - Duration derived from decoded sample counts
//   - float32 → int16 conversion (truncating)
//   - stereo pair → mono averaging
//
// Example:
//
//	format := audio.Format{SampleRate: 44100, Channels: 2}
//	seconds := audio.Duration(len(samples), format)
package audio
