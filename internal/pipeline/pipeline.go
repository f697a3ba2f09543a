// ABOUTME: Song processing pipeline orchestration
// ABOUTME: Runs decode, align, render and document generation for one song
package pipeline

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/stemweld/stemweld/internal/align"
	"github.com/stemweld/stemweld/internal/manifest"
	"github.com/stemweld/stemweld/internal/project"
	"github.com/stemweld/stemweld/internal/render"
	"github.com/stemweld/stemweld/internal/session"
	"github.com/stemweld/stemweld/pkg/audio"
	"github.com/stemweld/stemweld/pkg/audio/decode"
)

// Options configures one pipeline run. The caller must not invoke the
// pipeline concurrently on the same song or output directory.
type Options struct {
	StemsDir      string // directory holding the downloaded compressed stems
	OutputDir     string // session base directory
	Title         string // song title; derived from the stems when empty
	KeepOriginals bool   // retain raw compressed files under originals/

	// Now supplies the generation timestamp for both documents.
	// Defaults to time.Now.
	Now func() time.Time

	// OnTrack, when set, is called after each track's mono asset is
	// complete.
	OnTrack func(completed, total int, name string)
}

// Result reports what a completed run produced.
type Result struct {
	Session    session.Session
	Tracks     []audio.Track // reference first, then members in discovery order
	MonoAssets []render.MonoAsset
}

type decodedTrack struct {
	track   audio.Track
	samples []int16
}

// Run processes one song end to end. Stages run sequentially per track
// (decode, pad, downmix); both documents are generated only after every
// mono asset exists, and the project document is written last so its
// absence marks an incomplete session.
func Run(opts Options) (Result, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	referencePath, memberPaths, err := session.Discover(opts.StemsDir)
	if err != nil {
		return Result{}, err
	}

	title := opts.Title
	if title == "" {
		title = session.TitleFor(referencePath)
	}
	sess := session.New(title, opts.OutputDir)
	if err := sess.Scaffold(opts.KeepOriginals); err != nil {
		return Result{}, err
	}

	log.Printf("Processing %q: 1 reference + %d members", title, len(memberPaths))

	// The aligner needs every track's duration before any padding can be
	// computed, so all stems are decoded up front. Whole tracks are
	// buffered in memory; fine for minutes-long stems.
	reference, err := decodeTrack(referencePath, audio.RoleReference)
	if err != nil {
		return Result{}, err
	}
	decoded := []decodedTrack{reference}
	for _, path := range memberPaths {
		member, err := decodeTrack(path, audio.RoleMember)
		if err != nil {
			return Result{}, err
		}
		decoded = append(decoded, member)
	}

	members := make([]audio.Track, 0, len(decoded)-1)
	for _, d := range decoded[1:] {
		members = append(members, d.track)
	}
	plan := align.BuildPlan(reference.track, members)

	result := Result{Session: sess}
	for i, d := range decoded {
		asset, err := renderTrack(sess, d, plan[d.track.Path])
		if err != nil {
			return Result{}, err
		}
		result.Tracks = append(result.Tracks, d.track)
		result.MonoAssets = append(result.MonoAssets, asset)
		if opts.OnTrack != nil {
			opts.OnTrack(i+1, len(decoded), d.track.Title)
		}
	}

	if opts.KeepOriginals {
		if err := retainOriginals(sess, append([]string{referencePath}, memberPaths...)); err != nil {
			return Result{}, err
		}
	}

	if err := writeManifest(sess, result.MonoAssets, now()); err != nil {
		return Result{}, err
	}
	if err := writeProject(sess, result.Tracks, result.MonoAssets, now()); err != nil {
		return Result{}, err
	}

	log.Printf("Session %q complete: %d mono assets", title, len(result.MonoAssets))
	return result, nil
}

func decodeTrack(path string, role audio.Role) (decodedTrack, error) {
	format, samples, err := decode.Open(path)
	if err != nil {
		return decodedTrack{}, err
	}
	track := audio.Track{
		Path:        path,
		Title:       session.Stem(path),
		Role:        role,
		Format:      format,
		SampleCount: len(samples),
	}
	log.Printf("Decoded %s: %.2fs at %d Hz", track.Title, track.Duration(), format.SampleRate)
	return decodedTrack{track: track, samples: samples}, nil
}

func renderTrack(sess session.Session, d decodedTrack, paddingFrames int) (render.MonoAsset, error) {
	stereoPath := sess.StereoPath(d.track.Path)
	if _, err := render.WriteStereo(d.track.Format, d.samples, paddingFrames, stereoPath); err != nil {
		return render.MonoAsset{}, err
	}

	asset, err := render.WriteMono(stereoPath, sess.MonoPath(d.track.Path))
	if err != nil {
		return render.MonoAsset{}, err
	}
	seconds := float64(paddingFrames) / float64(d.track.Format.SampleRate)
	log.Printf("Rendered %s: %.2fs padding", d.track.Title, seconds)
	return asset, nil
}

func retainOriginals(sess session.Session, paths []string) error {
	for _, src := range paths {
		dst := filepath.Join(sess.OriginalsDir(), filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("failed to retain %s: %w", src, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func writeManifest(sess session.Session, assets []render.MonoAsset, now time.Time) error {
	clips := make([]manifest.Clip, 0, len(assets))
	for _, asset := range assets {
		rel, err := filepath.Rel(sess.StemsRoot, asset.Path)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", asset.Path, err)
		}
		clips = append(clips, manifest.Clip{
			RelPath:     filepath.ToSlash(rel),
			SampleRate:  asset.SampleRate,
			Channels:    1,
			SampleCount: asset.SampleCount,
		})
	}
	return manifest.WriteFile(sess.ManifestPath(), clips, now)
}

func writeProject(sess session.Session, tracks []audio.Track, assets []render.MonoAsset, now time.Time) error {
	doc := project.Document{Title: sess.Title}
	for i, track := range tracks {
		absPath, err := filepath.Abs(assets[i].Path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", assets[i].Path, err)
		}
		doc.Clips = append(doc.Clips, project.Clip{
			Name:     track.Title,
			Path:     absPath,
			Role:     track.Role,
			Duration: float64(assets[i].SampleCount) / float64(assets[i].SampleRate),
		})
	}
	return project.WriteFile(sess.ProjectPath(), doc, now)
}
