// ABOUTME: Tests for the FLAC decoder
// ABOUTME: Covers frame decoding, channel interleaving and failure handling
package decode

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const fixtureBlockSize = 16

// flacHeader assembles the stream magic and a STREAMINFO block for a
// 44100 Hz 16-bit stereo stream with a fixed block size.
func flacHeader(totalSamples uint64, sum [16]byte) []byte {
	var b bytes.Buffer
	b.WriteString("fLaC")
	b.Write([]byte{0x80, 0x00, 0x00, 0x22}) // last metadata block, STREAMINFO, 34 bytes
	binary.Write(&b, binary.BigEndian, uint16(fixtureBlockSize))
	binary.Write(&b, binary.BigEndian, uint16(fixtureBlockSize))
	b.Write([]byte{0, 0, 0, 0, 0, 0}) // frame size bounds unknown

	// rate:20 | channels-1:3 | bits-1:5 | total samples:36
	packed := uint64(44100)<<44 | uint64(1)<<41 | uint64(15)<<36 | totalSamples
	binary.Write(&b, binary.BigEndian, packed)
	b.Write(sum[:])
	return b.Bytes()
}

// flacConstantFrame assembles frame zero holding one constant subframe
// per channel.
func flacConstantFrame(left, right int16) []byte {
	frame := []byte{
		0xFF, 0xF8,           // sync, fixed block size
		0x69,                 // block size from end of header, 44100 Hz
		0x18,                 // stereo, 16 bits per sample
		0x00,                 // frame number 0
		fixtureBlockSize - 1, // block size
	}
	frame = append(frame, crc8(frame))
	// One constant subframe per channel: header byte then the value.
	frame = append(frame, 0x00, byte(uint16(left)>>8), byte(left))
	frame = append(frame, 0x00, byte(uint16(right)>>8), byte(right))
	sum := crc16(frame)
	return append(frame, byte(sum>>8), byte(sum))
}

func crc8(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x07
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x8005
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

func TestFLACDecoderConstantFrame(t *testing.T) {
	const left, right = int16(100), int16(-100)

	var pcm bytes.Buffer
	for i := 0; i < fixtureBlockSize; i++ {
		binary.Write(&pcm, binary.LittleEndian, left)
		binary.Write(&pcm, binary.LittleEndian, right)
	}
	sum := md5.Sum(pcm.Bytes())

	data := append(flacHeader(fixtureBlockSize, sum), flacConstantFrame(left, right)...)
	path := filepath.Join(t.TempDir(), "tone.flac")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	format, samples, err := (&FLACDecoder{}).Open(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if format.SampleRate != 44100 {
		t.Errorf("expected rate 44100, got %d", format.SampleRate)
	}
	if format.Channels != 2 {
		t.Errorf("expected 2 channels, got %d", format.Channels)
	}
	if len(samples) != fixtureBlockSize*2 {
		t.Fatalf("expected %d samples, got %d", fixtureBlockSize*2, len(samples))
	}
	for i := 0; i < len(samples); i += 2 {
		if samples[i] != left || samples[i+1] != right {
			t.Fatalf("frame %d: expected (%d, %d), got (%d, %d)", i/2, left, right, samples[i], samples[i+1])
		}
	}
}

// A stream whose metadata parses but whose body yields no frames must
// fail instead of reporting an empty track.
func TestFLACDecoderNoDecodableFrames(t *testing.T) {
	data := append(flacHeader(0, [16]byte{}), 0xDE, 0xAD, 0xBE, 0xEF, 0xDE, 0xAD, 0xBE, 0xEF)
	path := filepath.Join(t.TempDir(), "hollow.flac")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	_, _, err := (&FLACDecoder{}).Open(path)
	if !errors.Is(err, ErrNoDefaultStream) {
		t.Errorf("expected ErrNoDefaultStream, got %v", err)
	}
}

func TestFLACDecoderMissingFile(t *testing.T) {
	_, _, err := (&FLACDecoder{}).Open(filepath.Join(t.TempDir(), "absent.flac"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFLACDecoderUnparseable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.flac")
	if err := os.WriteFile(path, []byte("fLaC but not really"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	_, _, err := (&FLACDecoder{}).Open(path)
	if !errors.Is(err, ErrNoDefaultStream) {
		t.Errorf("expected ErrNoDefaultStream, got %v", err)
	}
}
