// Package main provides a scenario plotting tool. It loads a track CSV
// (and optionally the matching map), picks one case, and writes an
// interactive HTML chart of its trajectories.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/ChocolateDave/interaction-devkit/internal/maps"
	"github.com/ChocolateDave/interaction-devkit/internal/maps/osmload"
	"github.com/ChocolateDave/interaction-devkit/internal/tracks/csvload"
	"github.com/ChocolateDave/interaction-devkit/internal/visual"
)

func main() {
	trackFile := flag.String("tracks", "", "path to the track CSV file")
	mapFile := flag.String("map", "", "optional path to the matching Lanelet2 .osm map file")
	location := flag.String("location", "", "recording location name")
	caseID := flag.Int64("case", -1, "case id to plot (default: first case in the file)")
	out := flag.String("out", "case.html", "output HTML path")
	frames := flag.Int("observation-frames", csvload.DefaultObservationFrames, "observed frames per case")
	flag.Parse()

	if *trackFile == "" || *location == "" {
		log.Fatal("usage: caseplot -tracks <file.csv> -location <name> [-map <file.osm>] [-case N] [-out case.html]")
	}

	opts := csvload.DefaultOptions(*location)
	opts.ObservationFrames = *frames
	cases, err := csvload.Load(*trackFile, opts)
	if err != nil {
		log.Fatalf("failed to load tracks: %v", err)
	}
	if len(cases) == 0 {
		log.Fatal("track file contains no cases")
	}

	selected := cases[0]
	if *caseID >= 0 {
		selected = nil
		for _, c := range cases {
			if c.CaseID() == *caseID {
				selected = c
				break
			}
		}
		if selected == nil {
			log.Fatalf("case %d not found in %s", *caseID, *trackFile)
		}
	}

	var layer *maps.Layer
	if *mapFile != "" {
		layer, err = osmload.Load(*mapFile, osmload.DefaultOptions())
		if err != nil {
			log.Fatalf("failed to load map: %v", err)
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer f.Close()

	if err := visual.RenderCaseHTML(f, layer, selected); err != nil {
		log.Fatalf("failed to render case: %v", err)
	}
	log.Printf("wrote %s (case %d, %d agents)", *out, selected.CaseID(), selected.NumAgents())
}
