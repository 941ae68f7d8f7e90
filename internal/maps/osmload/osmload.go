// Package osmload reads Lanelet2 map files in the OSM XML dialect the
// dataset ships and builds a validated maps.Layer from them.
//
// The loader owns all graph wiring: it resolves node references into node
// objects, derives the lanelet adjacency/predecessor/successor id sets
// from shared boundary ways and boundary endpoints, and registers every
// element in the layer arena. Element constructors only ever see fully
// resolved inputs.
package osmload

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/paulmach/osm"

	"github.com/ChocolateDave/interaction-devkit/internal/maps"
	"github.com/ChocolateDave/interaction-devkit/internal/units"
)

// earthRadiusMeters is the WGS84 equatorial radius used by the local
// tangent-plane projection.
const earthRadiusMeters = 6378137.0

// Options configures a load.
type Options struct {
	// OriginLat/OriginLon anchor the local metric frame. When nil the
	// center of the file's node bounds is used.
	OriginLat *float64
	OriginLon *float64

	// DefaultSpeedLimit applies to lanelet relations without a
	// speed_limit tag.
	DefaultSpeedLimit units.SpeedLimit
}

// DefaultOptions returns the loader defaults: auto origin and a 40 km/h
// fallback limit.
func DefaultOptions() Options {
	limit, _ := units.NewSpeedLimit(40, units.KMH)
	return Options{DefaultSpeedLimit: limit}
}

// Load reads and parses the map file at path.
func Load(path string, opts Options) (*maps.Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map file: %w", err)
	}
	defer f.Close()
	layer, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse map file %s: %w", path, err)
	}
	return layer, nil
}

// Parse decodes an OSM XML document from r and builds the map layer.
func Parse(r io.Reader, opts Options) (*maps.Layer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read map data: %w", err)
	}
	var doc osm.OSM
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode osm xml: %w", err)
	}
	return build(&doc, opts)
}

func build(doc *osm.OSM, opts Options) (*maps.Layer, error) {
	if opts.DefaultSpeedLimit.IsZero() {
		opts.DefaultSpeedLimit = DefaultOptions().DefaultSpeedLimit
	}

	layer := maps.NewLayer()
	project := newProjection(doc, opts)

	nodes := make(map[int64]*maps.Node, len(doc.Nodes))
	for _, raw := range doc.Nodes {
		x, y := project(raw.Lat, raw.Lon)
		node, err := maps.NewNode(int64(raw.ID), x, y)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", raw.ID, err)
		}
		if err := layer.AddNode(node); err != nil {
			return nil, err
		}
		nodes[int64(raw.ID)] = node
	}

	ways := make(map[int64]*maps.Way, len(doc.Ways))
	for _, raw := range doc.Ways {
		typ, err := maps.ParseWayType(raw.Tags.Find("type"))
		if err != nil {
			return nil, fmt.Errorf("way %d: %w", raw.ID, err)
		}
		members := make([]*maps.Node, 0, len(raw.Nodes))
		for _, ref := range raw.Nodes {
			node, ok := nodes[int64(ref.ID)]
			if !ok {
				return nil, fmt.Errorf("way %d references unknown node %d", raw.ID, ref.ID)
			}
			members = append(members, node)
		}
		way, err := maps.NewWay(int64(raw.ID), typ, members)
		if err != nil {
			return nil, fmt.Errorf("way %d: %w", raw.ID, err)
		}
		if err := layer.AddWay(way); err != nil {
			return nil, err
		}
		ways[int64(raw.ID)] = way
	}

	specs, err := collectLaneletSpecs(doc, ways, opts)
	if err != nil {
		return nil, err
	}
	deriveTopology(specs)
	for _, spec := range specs {
		lanelet, err := maps.NewLanelet(maps.LaneletParams{
			ID:             spec.id,
			SubType:        spec.subtype,
			Left:           spec.left,
			Right:          spec.right,
			SpeedLimit:     spec.speedLimit,
			StopLine:       spec.stopLine,
			AdjacentIDs:    spec.adjacent,
			PredecessorIDs: spec.predecessors,
			SuccessorIDs:   spec.successors,
		})
		if err != nil {
			return nil, fmt.Errorf("lanelet %d: %w", spec.id, err)
		}
		if err := layer.AddLanelet(lanelet); err != nil {
			return nil, err
		}
	}

	for _, raw := range doc.Relations {
		switch raw.Tags.Find("type") {
		case "multipolygon":
			mp, err := buildMultiPolygon(raw, ways)
			if err != nil {
				return nil, err
			}
			if err := layer.AddMultiPolygon(mp); err != nil {
				return nil, err
			}
		case "regulatory_element":
			re, err := buildRegulatoryElement(raw, ways)
			if err != nil {
				return nil, err
			}
			if err := layer.AddRegulatoryElement(re); err != nil {
				return nil, err
			}
		}
	}

	if err := layer.Validate(); err != nil {
		return nil, err
	}
	return layer, nil
}

// newProjection returns a local tangent-plane projection (equirectangular
// about the origin) from lat/lon degrees to metric x/y.
func newProjection(doc *osm.OSM, opts Options) func(lat, lon float64) (x, y float64) {
	var lat0, lon0 float64
	switch {
	case opts.OriginLat != nil && opts.OriginLon != nil:
		lat0, lon0 = *opts.OriginLat, *opts.OriginLon
	case len(doc.Nodes) > 0:
		minLat, maxLat := doc.Nodes[0].Lat, doc.Nodes[0].Lat
		minLon, maxLon := doc.Nodes[0].Lon, doc.Nodes[0].Lon
		for _, n := range doc.Nodes {
			minLat = math.Min(minLat, n.Lat)
			maxLat = math.Max(maxLat, n.Lat)
			minLon = math.Min(minLon, n.Lon)
			maxLon = math.Max(maxLon, n.Lon)
		}
		lat0 = (minLat + maxLat) / 2
		lon0 = (minLon + maxLon) / 2
	}
	cosLat0 := math.Cos(lat0 * math.Pi / 180)
	return func(lat, lon float64) (float64, float64) {
		x := earthRadiusMeters * (lon - lon0) * math.Pi / 180 * cosLat0
		y := earthRadiusMeters * (lat - lat0) * math.Pi / 180
		return x, y
	}
}

// laneletSpec carries a lanelet's resolved inputs before topology
// derivation fills the graph id sets.
type laneletSpec struct {
	id         int64
	subtype    maps.LaneletSubType
	left       *maps.Way
	right      *maps.Way
	speedLimit units.SpeedLimit
	stopLine   *maps.Way

	adjacent     []int64
	predecessors []int64
	successors   []int64
}

func collectLaneletSpecs(doc *osm.OSM, ways map[int64]*maps.Way, opts Options) ([]*laneletSpec, error) {
	var specs []*laneletSpec
	for _, raw := range doc.Relations {
		if raw.Tags.Find("type") != "lanelet" {
			continue
		}
		spec := &laneletSpec{id: int64(raw.ID)}

		subtype, err := maps.ParseLaneletSubType(raw.Tags.Find("subtype"))
		if err != nil {
			return nil, fmt.Errorf("lanelet %d: %w", raw.ID, err)
		}
		spec.subtype = subtype

		for _, member := range raw.Members {
			if member.Type != osm.TypeWay {
				continue
			}
			way, ok := ways[member.Ref]
			if !ok {
				return nil, fmt.Errorf("lanelet %d references unknown way %d", raw.ID, member.Ref)
			}
			switch member.Role {
			case "left":
				spec.left = way
			case "right":
				spec.right = way
			case "stop_line":
				spec.stopLine = way
			}
		}
		if spec.left == nil || spec.right == nil {
			return nil, fmt.Errorf("lanelet %d is missing a left or right boundary member", raw.ID)
		}

		if tag := raw.Tags.Find("speed_limit"); tag != "" {
			limit, err := units.ParseSpeedLimit(tag)
			if err != nil {
				return nil, fmt.Errorf("lanelet %d: %w", raw.ID, err)
			}
			spec.speedLimit = limit
		} else {
			spec.speedLimit = opts.DefaultSpeedLimit
		}

		specs = append(specs, spec)
	}
	return specs, nil
}

// deriveTopology fills the graph id sets. Two lanelets are adjacent when
// they share a boundary way (one's left is the other's right, or either
// same-side boundary is shared). B succeeds A when both of A's boundary
// end nodes coincide with B's boundary start nodes.
func deriveTopology(specs []*laneletSpec) {
	for _, a := range specs {
		for _, b := range specs {
			if a.id == b.id {
				continue
			}
			if sharesBoundary(a, b) {
				a.adjacent = append(a.adjacent, b.id)
			}
			if follows(b, a) {
				a.successors = append(a.successors, b.id)
				b.predecessors = append(b.predecessors, a.id)
			}
		}
	}
}

func sharesBoundary(a, b *laneletSpec) bool {
	return a.left.ID() == b.right.ID() || a.right.ID() == b.left.ID() ||
		a.left.ID() == b.left.ID() || a.right.ID() == b.right.ID()
}

// follows reports whether b starts where a ends on both boundaries.
func follows(b, a *laneletSpec) bool {
	aLeft, aRight := a.left.NodeIDs(), a.right.NodeIDs()
	bLeft, bRight := b.left.NodeIDs(), b.right.NodeIDs()
	if len(aLeft) == 0 || len(aRight) == 0 || len(bLeft) == 0 || len(bRight) == 0 {
		return false
	}
	return aLeft[len(aLeft)-1] == bLeft[0] && aRight[len(aRight)-1] == bRight[0]
}

func buildMultiPolygon(raw *osm.Relation, ways map[int64]*maps.Way) (*maps.MultiPolygon, error) {
	subtype, err := maps.ParseMultiPolygonSubType(raw.Tags.Find("subtype"))
	if err != nil {
		return nil, fmt.Errorf("multipolygon %d: %w", raw.ID, err)
	}
	var outer []*maps.Way
	for _, member := range raw.Members {
		if member.Type != osm.TypeWay || member.Role != "outer" {
			continue
		}
		way, ok := ways[member.Ref]
		if !ok {
			return nil, fmt.Errorf("multipolygon %d references unknown way %d", raw.ID, member.Ref)
		}
		outer = append(outer, way)
	}
	mp, err := maps.NewMultiPolygon(int64(raw.ID), subtype, outer)
	if err != nil {
		return nil, fmt.Errorf("multipolygon %d: %w", raw.ID, err)
	}
	return mp, nil
}

func buildRegulatoryElement(raw *osm.Relation, ways map[int64]*maps.Way) (*maps.RegulatoryElement, error) {
	subtype, err := maps.ParseRegulatoryElementSubType(raw.Tags.Find("subtype"))
	if err != nil {
		return nil, fmt.Errorf("regulatory element %d: %w", raw.ID, err)
	}
	params := maps.RegulatoryElementParams{ID: int64(raw.ID), SubType: subtype}
	for _, member := range raw.Members {
		switch member.Type {
		case osm.TypeWay:
			way, ok := ways[member.Ref]
			if !ok {
				return nil, fmt.Errorf("regulatory element %d references unknown way %d", raw.ID, member.Ref)
			}
			switch member.Role {
			case "refers":
				params.Refers = append(params.Refers, way)
			case "ref_line":
				params.RefLines = append(params.RefLines, way)
			}
		case osm.TypeRelation:
			switch member.Role {
			case "right_of_way":
				params.PriorLaneletIDs = append(params.PriorLaneletIDs, member.Ref)
			case "yield":
				params.YieldLaneletIDs = append(params.YieldLaneletIDs, member.Ref)
			}
		}
	}
	re, err := maps.NewRegulatoryElement(params)
	if err != nil {
		return nil, fmt.Errorf("regulatory element %d: %w", raw.ID, err)
	}
	return re, nil
}
