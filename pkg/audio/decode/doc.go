// ABOUTME: Audio file decoder package for multiple container formats
// ABOUTME: Provides FileDecoder interface and MP3, FLAC, WAV implementations
// Package decode turns compressed audio files into interleaved 16-bit PCM.
//
// Supports: MP3, FLAC, WAV (16-bit integer and 32-bit float)
//
// All decoders implement the FileDecoder interface and output interleaved
// int16 samples forced to two channels; mono sources are duplicated into
// both channels so every downstream stage can assume stereo.
//
// Example:
//
//	format, samples, err := decode.Open("stems/Click.mp3")
package decode
