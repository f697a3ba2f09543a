// ABOUTME: Tests for the project document writer
// ABOUTME: Verifies determinism, track ordering, panning and tick math
package project

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stemweld/stemweld/pkg/audio"
)

func sampleDocument() Document {
	return Document{
		Title: "Highway to Hell",
		Clips: []Clip{
			{Name: "Click", Path: "/out/mono/Click_mono.wav", Role: audio.RoleReference, Duration: 3.0},
			{Name: "Bass", Path: "/out/mono/Bass_mono.wav", Role: audio.RoleMember, Duration: 3.0},
			{Name: "Guitar", Path: "/out/mono/Guitar_mono.wav", Role: audio.RoleMember, Duration: 3.5},
		},
	}
}

func TestWriteDeterministic(t *testing.T) {
	now := time.Unix(1700000000, 0)

	var a, b bytes.Buffer
	if err := Write(&a, sampleDocument(), now); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := Write(&b, sampleDocument(), now); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if a.String() != b.String() {
		t.Error("expected identical output for identical input")
	}
}

func TestWriteOnlyTimestampVaries(t *testing.T) {
	var a, b bytes.Buffer
	if err := Write(&a, sampleDocument(), time.Unix(1700000000, 0)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := Write(&b, sampleDocument(), time.Unix(1800000000, 0)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	linesA := strings.Split(a.String(), "\n")
	linesB := strings.Split(b.String(), "\n")
	if len(linesA) != len(linesB) {
		t.Fatalf("line count differs: %d vs %d", len(linesA), len(linesB))
	}
	diff := 0
	for i := range linesA {
		if linesA[i] != linesB[i] {
			diff++
			if !strings.Contains(linesA[i], "REAPER_PROJECT") {
				t.Errorf("unexpected differing line: %q", linesA[i])
			}
		}
	}
	if diff != 1 {
		t.Errorf("expected exactly 1 differing line, got %d", diff)
	}
}

func TestWriteTrackList(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleDocument(), time.Unix(1700000000, 0)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()

	// 3 stems plus the synthetic end marker.
	if n := strings.Count(out, "<TRACK "); n != 4 {
		t.Errorf("expected 4 tracks, got %d", n)
	}

	// Reference hard left, members hard right.
	if n := strings.Count(out, "VOLPAN 1 -1 -1 -1 1"); n != 1 {
		t.Errorf("expected 1 hard-left track, got %d", n)
	}
	if n := strings.Count(out, "VOLPAN 1 1 -1 -1 1"); n != 2 {
		t.Errorf("expected 2 hard-right tracks, got %d", n)
	}

	// Reference appears before members.
	if strings.Index(out, `NAME "Click"`) > strings.Index(out, `NAME "Bass"`) {
		t.Error("expected reference track before members")
	}

	// Each item references its mono asset and loops.
	for _, path := range []string{"/out/mono/Click_mono.wav", "/out/mono/Bass_mono.wav", "/out/mono/Guitar_mono.wav"} {
		if !strings.Contains(out, `FILE "`+path+`"`) {
			t.Errorf("expected item referencing %s", path)
		}
	}
	if n := strings.Count(out, "LOOP 1"); n != 4 {
		t.Errorf("expected 4 looping items, got %d", n)
	}
}

func TestWriteEndMarkerEvents(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleDocument(), time.Unix(1700000000, 0)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()

	// Longest stem is 3.5s: 3.5 × 120 × 960 / 60 = 6720 ticks.
	if !strings.Contains(out, "E 0 b0 7b 00") {
		t.Error("expected controller-off event at tick 0")
	}
	if !strings.Contains(out, "E 6720 b0 7b 00") {
		t.Error("expected controller-off event at tick 6720")
	}
	if !strings.Contains(out, "LENGTH 3.5") {
		t.Error("expected end marker spanning the longest stem")
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected int
	}{
		{0, 0},
		{1, 1920},
		{3.5, 6720},
		{0.25, 480},
	}
	for _, tt := range tests {
		if got := Ticks(tt.seconds); got != tt.expected {
			t.Errorf("Ticks(%v): expected %d, got %d", tt.seconds, tt.expected, got)
		}
	}
}

func TestGUIDsAreIndexDerived(t *testing.T) {
	if trackGUID(0) != "{00000000-0000-0000-0000-000000000001}" {
		t.Errorf("unexpected track GUID: %s", trackGUID(0))
	}
	if trackGUID(2) != "{00000000-0000-0000-0000-000000000003}" {
		t.Errorf("unexpected track GUID: %s", trackGUID(2))
	}
	if itemGUID(0) != "{10000000-0000-0000-0000-000000000001}" {
		t.Errorf("unexpected item GUID: %s", itemGUID(0))
	}
	if trackGUID(1) == itemGUID(1) {
		t.Error("track and item GUIDs must not collide")
	}
}
