// ABOUTME: Chunked binary interchange manifest writer
// ABOUTME: Emits FORM/STEM container with header and per-clip list chunks
package manifest

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
)

// Chunk tags. Four characters each, IFF style: tag, big-endian u32
// payload length, payload.
const (
	containerTag  = "FORM"
	containerType = "STEM"
	headerTag     = "SHDR"
	listTag       = "LIST"
	clipTag       = "CLIP"
)

const (
	formatVersion = 1
	byteOrderMark = 0xFEFF
)

// Clip describes one mono asset in the manifest. No audio payload is
// embedded; the manifest points at the files on disk.
type Clip struct {
	RelPath     string // forward-slash path relative to the stems root
	SampleRate  int
	Channels    int
	SampleCount int
}

// WriteFile writes the manifest to path.
func WriteFile(path string, clips []Clip, now time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, clips, now); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Write emits the container. Every length field is reserved before its
// payload and patched afterward by seeking back, innermost chunks first,
// so the outer length already includes the patched children when it is
// computed.
func Write(ws io.WriteSeeker, clips []Clip, now time.Time) error {
	cw := &chunkWriter{ws: ws}

	form, err := cw.begin(containerTag)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(ws, containerType); err != nil {
		return err
	}

	if err := writeHeader(cw, now); err != nil {
		return err
	}
	if err := writeClipList(cw, clips); err != nil {
		return err
	}

	return cw.end(form)
}

func writeHeader(cw *chunkWriter, now time.Time) error {
	hdr, err := cw.begin(headerTag)
	if err != nil {
		return err
	}
	if err := writeBE(cw.ws, uint16(formatVersion), uint16(byteOrderMark), uint64(now.Unix())); err != nil {
		return err
	}
	return cw.end(hdr)
}

func writeClipList(cw *chunkWriter, clips []Clip) error {
	list, err := cw.begin(listTag)
	if err != nil {
		return err
	}
	for _, clip := range clips {
		if err := writeClip(cw, clip); err != nil {
			return err
		}
	}
	return cw.end(list)
}

func writeClip(cw *chunkWriter, clip Clip) error {
	c, err := cw.begin(clipTag)
	if err != nil {
		return err
	}
	path := []byte(clip.RelPath)
	if err := writeBE(cw.ws, uint16(len(path))); err != nil {
		return err
	}
	if _, err := cw.ws.Write(path); err != nil {
		return err
	}
	if err := writeBE(cw.ws, uint32(clip.SampleRate), uint16(clip.Channels), uint32(clip.SampleCount)); err != nil {
		return err
	}
	return cw.end(c)
}

// chunkWriter reserves and patches big-endian length fields.
type chunkWriter struct {
	ws io.WriteSeeker
}

// begin writes the tag and a placeholder length, returning the offset of
// the reserved length field.
func (cw *chunkWriter) begin(tag string) (int64, error) {
	if _, err := io.WriteString(cw.ws, tag); err != nil {
		return 0, err
	}
	at, err := cw.ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	if err := writeBE(cw.ws, uint32(0)); err != nil {
		return 0, err
	}
	return at, nil
}

// end patches the length field at the reserved offset with the payload's
// true byte length, then seeks back to the end to resume writing.
func (cw *chunkWriter) end(lengthAt int64) error {
	pos, err := cw.ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := cw.ws.Seek(lengthAt, io.SeekStart); err != nil {
		return err
	}
	if err := writeBE(cw.ws, uint32(pos-lengthAt-4)); err != nil {
		return err
	}
	_, err = cw.ws.Seek(pos, io.SeekStart)
	return err
}

func writeBE(w io.Writer, values ...any) error {
	for _, v := range values {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return err
		}
	}
	return nil
}
