// Package main provides a map inspection tool. It loads a Lanelet2 map
// file, validates it, prints element counts and bounds, and optionally
// renders the layer geometry to a PNG figure.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/ChocolateDave/interaction-devkit/internal/maps/osmload"
	"github.com/ChocolateDave/interaction-devkit/internal/units"
	"github.com/ChocolateDave/interaction-devkit/internal/visual"
)

func main() {
	mapFile := flag.String("map", "", "path to the Lanelet2 .osm map file")
	pngOut := flag.String("png", "", "optional path to save a PNG rendering of the layer")
	speedLimit := flag.String("default-speed-limit", "", "fallback speed limit for untagged lanelets (e.g. 40kmh)")
	flag.Parse()

	if *mapFile == "" {
		log.Fatal("usage: mapinfo -map <file.osm> [-png out.png]")
	}

	opts := osmload.DefaultOptions()
	if *speedLimit != "" {
		limit, err := units.ParseSpeedLimit(*speedLimit)
		if err != nil {
			log.Fatalf("bad -default-speed-limit: %v", err)
		}
		opts.DefaultSpeedLimit = limit
	}

	layer, err := osmload.Load(*mapFile, opts)
	if err != nil {
		log.Fatalf("failed to load map: %v", err)
	}

	fmt.Printf("map: %s\n", *mapFile)
	fmt.Printf("  nodes:               %d\n", layer.NumNodes())
	fmt.Printf("  ways:                %d\n", layer.NumWays())
	fmt.Printf("  lanelets:            %d\n", layer.NumLanelets())
	fmt.Printf("  multipolygons:       %d\n", layer.NumMultiPolygons())
	fmt.Printf("  regulatory elements: %d\n", layer.NumRegulatoryElements())
	if bound, ok := layer.Bounds(); ok {
		fmt.Printf("  bounds: x [%.2f, %.2f] y [%.2f, %.2f]\n",
			bound.Min[0], bound.Max[0], bound.Min[1], bound.Max[1])
	}

	for _, lanelet := range layer.Lanelets() {
		successors, err := layer.Successors(lanelet.ID())
		if err != nil {
			log.Fatalf("resolve successors of lanelet %d: %v", lanelet.ID(), err)
		}
		fmt.Printf("  lanelet %d (%s, limit %s): %d successors\n",
			lanelet.ID(), lanelet.SubType(), lanelet.SpeedLimit(), len(successors))
	}

	if *pngOut != "" {
		if err := visual.RenderLayerPNG(*pngOut, layer); err != nil {
			log.Fatalf("failed to render map: %v", err)
		}
		log.Printf("wrote %s", *pngOut)
	}
}
