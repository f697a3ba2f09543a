// ABOUTME: Session layout and stem discovery
// ABOUTME: Locates the reference track and scaffolds the output tree
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stemweld/stemweld/pkg/audio/decode"
)

var (
	// ErrNoReference is returned when no click track can be found.
	ErrNoReference = errors.New("reference (click) track not found")

	// ErrNoMembers is returned when the session holds nothing to align.
	ErrNoMembers = errors.New("no member tracks found")
)

// referenceMarker identifies the timing anchor by filename convention.
const referenceMarker = "click"

// Session is the full set of output directories for one song.
type Session struct {
	Title       string
	StemsRoot   string
	ProjectRoot string
}

// New lays out a session under baseDir: a stems root with subdirectories
// per processing stage and a sibling project directory.
func New(title, baseDir string) Session {
	return Session{
		Title:       title,
		StemsRoot:   filepath.Join(baseDir, "stems"),
		ProjectRoot: filepath.Join(baseDir, "project"),
	}
}

// OriginalsDir holds the raw compressed stems when retention is on.
func (s Session) OriginalsDir() string { return filepath.Join(s.StemsRoot, "originals") }

// StereoDir holds the padded stereo WAVs.
func (s Session) StereoDir() string { return filepath.Join(s.StemsRoot, "stereo") }

// MonoDir holds the downmixed mono WAVs.
func (s Session) MonoDir() string { return filepath.Join(s.StemsRoot, "mono") }

// ProjectPath is the text session document, named after the title.
func (s Session) ProjectPath() string {
	return filepath.Join(s.ProjectRoot, sanitize(s.Title)+".rpp")
}

// ManifestPath is the binary interchange manifest.
func (s Session) ManifestPath() string {
	return filepath.Join(s.ProjectRoot, sanitize(s.Title)+".stems")
}

// StereoPath maps a raw stem file to its aligned stereo WAV.
func (s Session) StereoPath(rawPath string) string {
	return filepath.Join(s.StereoDir(), Stem(rawPath)+".wav")
}

// MonoPath maps a raw stem file to its mono WAV. Mono files carry a
// fixed suffix before the extension so the two stages never collide.
func (s Session) MonoPath(rawPath string) string {
	return filepath.Join(s.MonoDir(), Stem(rawPath)+"_mono.wav")
}

// Scaffold creates the session directory tree.
func (s Session) Scaffold(keepOriginals bool) error {
	dirs := []string{s.StereoDir(), s.MonoDir(), s.ProjectRoot}
	if keepOriginals {
		dirs = append(dirs, s.OriginalsDir())
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Stem returns the filename without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsReference reports whether a filename names the timing anchor.
func IsReference(filename string) bool {
	return strings.Contains(strings.ToLower(filepath.Base(filename)), referenceMarker)
}

// Discover scans dir for one reference plus zero-or-more member stems in
// lexical order. Exactly one reference is required; the first match wins.
func Discover(dir string) (reference string, members []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !decode.SupportedExt(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if reference == "" && IsReference(entry.Name()) {
			reference = path
			continue
		}
		members = append(members, path)
	}

	if reference == "" {
		return "", nil, fmt.Errorf("%w in %s", ErrNoReference, dir)
	}
	if len(members) == 0 {
		return "", nil, fmt.Errorf("%w in %s", ErrNoMembers, dir)
	}
	return reference, members, nil
}

func sanitize(title string) string {
	r := strings.NewReplacer("/", "-", "\\", "-", string(os.PathSeparator), "-")
	return r.Replace(title)
}
