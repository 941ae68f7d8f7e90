package maps

import (
	"slices"
	"sync"

	"github.com/paulmach/orb"

	"github.com/ChocolateDave/interaction-devkit/internal/schema"
	"github.com/ChocolateDave/interaction-devkit/internal/units"
)

// Lanelet is an atomic drivable lane cell bounded by a left and a right
// way, carrying a speed-limit regulation and an optional stop line.
//
// Graph relations to other lanelets (adjacent, predecessor, successor) are
// held as sorted id sets, not object links; resolve them through a Layer.
// The same boundary way may be shared with a neighboring lanelet.
type Lanelet struct {
	id         int64
	subtype    LaneletSubType
	left       *Way
	right      *Way
	speedLimit units.SpeedLimit
	stopLine   *Way // nil when absent

	adjacent     []int64
	predecessors []int64
	successors   []int64

	geomOnce sync.Once
	geom     orb.Polygon
}

// LaneletParams collects the constructor arguments for a lanelet.
type LaneletParams struct {
	ID         int64
	SubType    LaneletSubType
	Left       *Way
	Right      *Way
	SpeedLimit units.SpeedLimit
	StopLine   *Way // optional

	AdjacentIDs    []int64
	PredecessorIDs []int64
	SuccessorIDs   []int64
}

var laneletFields = []string{
	"id", "subtype", "left", "right", "speed_limit", "stop_line",
	"adjacent_lanelets", "predecessor_lanelets", "successor_lanelets",
}

// NewLanelet builds a validated lanelet. Both boundaries must be ways of a
// lane-boundary type; the stop line, when given, must be a stop_line way.
func NewLanelet(p LaneletParams) (*Lanelet, error) {
	if p.ID < 0 {
		return nil, schema.Invalid("id", "must be non-negative, got %d", p.ID)
	}
	if !p.SubType.Valid() {
		return nil, schema.Invalid("subtype", "unknown lanelet subtype %q", p.SubType)
	}
	if p.Left == nil {
		return nil, schema.Invalid("left", "left boundary is required")
	}
	if !p.Left.Type().IsLaneBoundary() {
		return nil, schema.Invalid("left", "way %d has type %q, not a lane boundary", p.Left.ID(), p.Left.Type())
	}
	if p.Right == nil {
		return nil, schema.Invalid("right", "right boundary is required")
	}
	if !p.Right.Type().IsLaneBoundary() {
		return nil, schema.Invalid("right", "way %d has type %q, not a lane boundary", p.Right.ID(), p.Right.Type())
	}
	if p.SpeedLimit.IsZero() {
		return nil, schema.Invalid("speed_limit", "speed limit is required")
	}
	if p.StopLine != nil && p.StopLine.Type() != WayStopLine {
		return nil, schema.Invalid("stop_line", "way %d has type %q, want %q", p.StopLine.ID(), p.StopLine.Type(), WayStopLine)
	}

	adjacent, err := idSet("adjacent_lanelets", p.AdjacentIDs)
	if err != nil {
		return nil, err
	}
	predecessors, err := idSet("predecessor_lanelets", p.PredecessorIDs)
	if err != nil {
		return nil, err
	}
	successors, err := idSet("successor_lanelets", p.SuccessorIDs)
	if err != nil {
		return nil, err
	}

	return &Lanelet{
		id:           p.ID,
		subtype:      p.SubType,
		left:         p.Left,
		right:        p.Right,
		speedLimit:   p.SpeedLimit,
		stopLine:     p.StopLine,
		adjacent:     adjacent,
		predecessors: predecessors,
		successors:   successors,
	}, nil
}

// idSet normalizes an id list into a sorted duplicate-free set.
func idSet(field string, ids []int64) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id < 0 {
			return nil, schema.Invalid(field, "id must be non-negative, got %d", id)
		}
		out = append(out, id)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// DeserializeLanelet constructs a lanelet from a field mapping. The mapping
// must carry every declared field; "stop_line" may be nil.
func DeserializeLanelet(f schema.Fields) (*Lanelet, error) {
	if err := f.Require(laneletFields...); err != nil {
		return nil, err
	}
	id, err := f.NonNegInt("id")
	if err != nil {
		return nil, err
	}
	subtype, err := schema.Value[LaneletSubType](f, "subtype")
	if err != nil {
		return nil, err
	}
	left, err := schema.Value[*Way](f, "left")
	if err != nil {
		return nil, err
	}
	right, err := schema.Value[*Way](f, "right")
	if err != nil {
		return nil, err
	}
	limit, err := schema.Value[units.SpeedLimit](f, "speed_limit")
	if err != nil {
		return nil, err
	}
	stopLine, _, err := schema.NilableValue[*Way](f, "stop_line")
	if err != nil {
		return nil, err
	}
	adjacent, err := f.IDList("adjacent_lanelets")
	if err != nil {
		return nil, err
	}
	predecessors, err := f.IDList("predecessor_lanelets")
	if err != nil {
		return nil, err
	}
	successors, err := f.IDList("successor_lanelets")
	if err != nil {
		return nil, err
	}
	return NewLanelet(LaneletParams{
		ID:             id,
		SubType:        subtype,
		Left:           left,
		Right:          right,
		SpeedLimit:     limit,
		StopLine:       stopLine,
		AdjacentIDs:    adjacent,
		PredecessorIDs: predecessors,
		SuccessorIDs:   successors,
	})
}

// Serialize returns the lanelet's field mapping; DeserializeLanelet
// inverts it.
func (l *Lanelet) Serialize() schema.Fields {
	var stopLine any
	if l.stopLine != nil {
		stopLine = l.stopLine
	}
	return schema.Fields{
		"id":                   l.id,
		"subtype":              l.subtype,
		"left":                 l.left,
		"right":                l.right,
		"speed_limit":          l.speedLimit,
		"stop_line":            stopLine,
		"adjacent_lanelets":    slices.Clone(l.adjacent),
		"predecessor_lanelets": slices.Clone(l.predecessors),
		"successor_lanelets":   slices.Clone(l.successors),
	}
}

// ID returns the lanelet's unique identifier.
func (l *Lanelet) ID() int64 { return l.id }

// SubType returns the lanelet subtype.
func (l *Lanelet) SubType() LaneletSubType { return l.subtype }

// Left returns the left boundary way.
func (l *Lanelet) Left() *Way { return l.left }

// Right returns the right boundary way.
func (l *Lanelet) Right() *Way { return l.right }

// SpeedLimit returns the speed-limit regulation.
func (l *Lanelet) SpeedLimit() units.SpeedLimit { return l.speedLimit }

// StopLine returns the stop line way, or nil when the lanelet has none.
func (l *Lanelet) StopLine() *Way { return l.stopLine }

// AdjacentIDs returns the sorted set of adjacent lanelet ids.
func (l *Lanelet) AdjacentIDs() []int64 { return slices.Clone(l.adjacent) }

// PredecessorIDs returns the sorted set of upstream lanelet ids.
func (l *Lanelet) PredecessorIDs() []int64 { return slices.Clone(l.predecessors) }

// SuccessorIDs returns the sorted set of downstream lanelet ids.
func (l *Lanelet) SuccessorIDs() []int64 { return slices.Clone(l.successors) }

// ToGeometry builds the lanelet's polygon ring: the right boundary's nodes
// in stored order followed by the left boundary's nodes in reverse. The
// ring does not self-intersect provided both boundaries are sampled in the
// dataset's direction-of-travel convention; that input convention is the
// caller's responsibility.
func (l *Lanelet) ToGeometry() orb.Polygon {
	l.geomOnce.Do(func() {
		right := l.right.nodes
		left := l.left.nodes
		ring := make(orb.Ring, 0, len(right)+len(left))
		for _, n := range right {
			ring = append(ring, orb.Point{n.x, n.y})
		}
		for i := len(left) - 1; i >= 0; i-- {
			ring = append(ring, orb.Point{left[i].x, left[i].y})
		}
		l.geom = orb.Polygon{ring}
	})
	return l.geom.Clone()
}

// Hash returns a structural hash over every field of the lanelet.
func (l *Lanelet) Hash() uint64 {
	h := newHasher()
	h.writeInt(l.id)
	h.writeString(string(l.subtype))
	h.writeInt(int64(l.left.Hash()))
	h.writeInt(int64(l.right.Hash()))
	h.writeFloat(l.speedLimit.Value())
	h.writeString(l.speedLimit.Unit())
	if l.stopLine != nil {
		h.writeInt(int64(l.stopLine.Hash()))
	}
	for _, set := range [][]int64{l.adjacent, l.predecessors, l.successors} {
		h.writeInt(int64(len(set)))
		for _, id := range set {
			h.writeInt(id)
		}
	}
	return h.sum()
}

// Equal reports structural equality with another lanelet, so two lanelets
// sharing an id but differing in content are distinguishable.
func (l *Lanelet) Equal(o *Lanelet) bool {
	if o == nil || l.id != o.id || l.subtype != o.subtype || l.speedLimit != o.speedLimit {
		return false
	}
	if !l.left.Equal(o.left) || !l.right.Equal(o.right) {
		return false
	}
	if (l.stopLine == nil) != (o.stopLine == nil) {
		return false
	}
	if l.stopLine != nil && !l.stopLine.Equal(o.stopLine) {
		return false
	}
	return slices.Equal(l.adjacent, o.adjacent) &&
		slices.Equal(l.predecessors, o.predecessors) &&
		slices.Equal(l.successors, o.successors)
}
