// ABOUTME: Entry point for the stemweld session builder
// ABOUTME: Parses CLI flags and runs the alignment pipeline for one song
package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/stemweld/stemweld/internal/pipeline"
	"github.com/stemweld/stemweld/internal/version"
)

var (
	stemsDir      = flag.String("stems", "", "Directory containing the downloaded stem files (required)")
	outputDir     = flag.String("out", "", "Session output directory (default: the stems directory)")
	title         = flag.String("title", "", "Song title (default: derived from the stem filenames)")
	keepOriginals = flag.Bool("keep-originals", false, "Retain the raw compressed stems under originals/")
	logFile       = flag.String("log-file", "", "Log file path (teed with stdout)")
	quiet         = flag.Bool("quiet", false, "Disable the progress bar")
)

func main() {
	flag.Parse()

	if *stemsDir == "" {
		flag.Usage()
		os.Exit(2)
	}
	out := *outputDir
	if out == "" {
		out = *stemsDir
	}

	// Set up logging (optionally both file and console)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	var bar *progressbar.ProgressBar
	onTrack := func(completed, total int, name string) {
		if *quiet {
			return
		}
		if bar == nil {
			bar = progressbar.Default(int64(total), "rendering stems")
		}
		_ = bar.Add(1)
	}

	result, err := pipeline.Run(pipeline.Options{
		StemsDir:      *stemsDir,
		OutputDir:     out,
		Title:         *title,
		KeepOriginals: *keepOriginals,
		OnTrack:       onTrack,
	})
	if err != nil {
		log.Fatalf("Processing failed: %v", err)
	}

	log.Printf("Project document: %s", result.Session.ProjectPath())
	log.Printf("Manifest: %s", result.Session.ManifestPath())
}
