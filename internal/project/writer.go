// ABOUTME: Text timeline session document writer
// ABOUTME: Emits a deterministic RPP-style project referencing the mono stems
package project

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stemweld/stemweld/internal/version"
	"github.com/stemweld/stemweld/pkg/audio"
)

const (
	// Fixed grid: the upstream stems are all rendered against a 120 BPM
	// click, and the end-marker events are placed on a 960 PPQ grid.
	tempoBPM        = 120
	ticksPerQuarter = 960
	ticksPerSecond  = tempoBPM * ticksPerQuarter / 60

	endMarkerName = "end"
)

// Clip is one mono stem on the shared timeline.
type Clip struct {
	Name     string // raw file stem
	Path     string // absolute path to the mono WAV
	Role     audio.Role
	Duration float64 // seconds
}

// Document is the ordered track list for one session: reference first,
// then members in discovery order.
type Document struct {
	Title string
	Clips []Clip
}

// WriteFile renders the document to path. The generation time is injected
// so reruns on unchanged input differ only in that one header field.
func WriteFile(path string, doc Document, now time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, doc, now); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Write renders the document. Everything except the header timestamp is a
// pure function of doc, so identical input yields identical bytes.
func Write(w io.Writer, doc Document, now time.Time) error {
	b := &strings.Builder{}

	fmt.Fprintf(b, "<REAPER_PROJECT 0.1 %q %d\n", version.Product, now.Unix())
	fmt.Fprintf(b, "  TITLE \"%s\"\n", doc.Title)
	fmt.Fprintf(b, "  TEMPO %d 4 4\n", tempoBPM)
	b.WriteString("  <METRONOME 6 2\n")
	b.WriteString("    VOL 0.25 0.125\n")
	b.WriteString("    FREQ 800 1600 1\n")
	b.WriteString("    BEATLEN 4\n")
	b.WriteString("  >\n")

	maxDuration := 0.0
	for i, clip := range doc.Clips {
		if clip.Duration > maxDuration {
			maxDuration = clip.Duration
		}
		writeStemTrack(b, i, clip)
	}
	writeEndMarker(b, len(doc.Clips), maxDuration)

	b.WriteString(">\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeStemTrack(b *strings.Builder, index int, clip Clip) {
	// The click lives hard left and every instrument hard right, which
	// keeps the metronome on its own bus after import.
	pan := 1
	if clip.Role == audio.RoleReference {
		pan = -1
	}

	fmt.Fprintf(b, "  <TRACK %s\n", trackGUID(index))
	fmt.Fprintf(b, "    NAME \"%s\"\n", clip.Name)
	fmt.Fprintf(b, "    VOLPAN 1 %d -1 -1 1\n", pan)
	b.WriteString("    <ITEM\n")
	b.WriteString("      POSITION 0\n")
	fmt.Fprintf(b, "      LENGTH %s\n", formatSeconds(clip.Duration))
	b.WriteString("      LOOP 1\n")
	fmt.Fprintf(b, "      IGUID %s\n", itemGUID(index))
	fmt.Fprintf(b, "      NAME \"%s\"\n", clip.Name)
	b.WriteString("      <SOURCE WAVE\n")
	fmt.Fprintf(b, "        FILE \"%s\"\n", clip.Path)
	b.WriteString("      >\n")
	b.WriteString("    >\n")
	b.WriteString("  >\n")
}

// writeEndMarker appends the synthetic last track: a MIDI item spanning
// the longest stem with an all-controllers-off event at each end.
func writeEndMarker(b *strings.Builder, index int, maxDuration float64) {
	fmt.Fprintf(b, "  <TRACK %s\n", trackGUID(index))
	fmt.Fprintf(b, "    NAME \"%s\"\n", endMarkerName)
	b.WriteString("    VOLPAN 1 0 -1 -1 1\n")
	b.WriteString("    <ITEM\n")
	b.WriteString("      POSITION 0\n")
	fmt.Fprintf(b, "      LENGTH %s\n", formatSeconds(maxDuration))
	b.WriteString("      LOOP 1\n")
	fmt.Fprintf(b, "      IGUID %s\n", itemGUID(index))
	fmt.Fprintf(b, "      NAME \"%s\"\n", endMarkerName)
	b.WriteString("      <SOURCE MIDI\n")
	fmt.Fprintf(b, "        HASDATA 1 %d QN\n", ticksPerQuarter)
	fmt.Fprintf(b, "        E 0 b0 7b 00\n")
	fmt.Fprintf(b, "        E %d b0 7b 00\n", Ticks(maxDuration))
	b.WriteString("      >\n")
	b.WriteString("    >\n")
	b.WriteString("  >\n")
}

// Ticks converts seconds to MIDI ticks on the fixed 120 BPM / 960 PPQ grid.
func Ticks(seconds float64) int {
	return int(seconds * ticksPerSecond)
}

// trackGUID derives a stable identifier from the track's position. The
// index is stamped into the low bytes of an otherwise-zero UUID, so
// regenerating the project never reshuffles identities.
func trackGUID(index int) string {
	return stampedGUID(0x00, index)
}

func itemGUID(index int) string {
	return stampedGUID(0x10, index)
}

func stampedGUID(prefix byte, index int) string {
	var id uuid.UUID
	id[0] = prefix
	binary.BigEndian.PutUint32(id[12:], uint32(index+1))
	return "{" + strings.ToUpper(id.String()) + "}"
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
