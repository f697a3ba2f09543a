// ABOUTME: Song title normalization from stem filenames
// ABOUTME: Extracts the marker pattern, falling back to embedded tags
package session

import (
	"os"
	"regexp"
	"strings"

	"github.com/dhowden/tag"
)

// The upstream source embeds the song title in every stem filename as
// (<words_with_underscores>_Custom_Backing_Track).
var titleMarker = regexp.MustCompile(`\(([A-Za-z0-9_]+)_Custom_Backing_Track\)`)

// ExtractTitle pulls the human-readable song title out of a stem
// filename, replacing underscores with spaces. Returns false when the
// marker is absent.
func ExtractTitle(filename string) (string, bool) {
	m := titleMarker.FindStringSubmatch(filename)
	if m == nil {
		return "", false
	}
	return strings.ReplaceAll(m[1], "_", " "), true
}

// TitleFor resolves the song title for a stem file: the filename marker
// first, then the file's embedded title tag, then the bare file stem.
func TitleFor(path string) string {
	if title, ok := ExtractTitle(path); ok {
		return title
	}
	if title := taggedTitle(path); title != "" {
		return title
	}
	return Stem(path)
}

func taggedTitle(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return ""
	}
	return m.Title()
}
