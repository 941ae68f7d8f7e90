package maps

import (
	"slices"
	"sync"

	"github.com/paulmach/orb"

	"github.com/ChocolateDave/interaction-devkit/internal/schema"
)

// MultiPolygon is an area element bounded by one or more outer ways, such
// as a crosswalk or keepout zone.
type MultiPolygon struct {
	id      int64
	subtype MultiPolygonSubType
	outer   []*Way

	geomOnce sync.Once
	geom     orb.Polygon
}

var multiPolygonFields = []string{"id", "subtype", "outer"}

// NewMultiPolygon builds a validated multipolygon. The outer ways are kept
// in sequence order; their endpoints must already be contiguous for the
// derived ring to be a simple polygon (not validated here).
func NewMultiPolygon(id int64, subtype MultiPolygonSubType, outer []*Way) (*MultiPolygon, error) {
	if id < 0 {
		return nil, schema.Invalid("id", "must be non-negative, got %d", id)
	}
	if !subtype.Valid() {
		return nil, schema.Invalid("subtype", "unknown multipolygon subtype %q", subtype)
	}
	if len(outer) == 0 {
		return nil, schema.Invalid("outer", "at least one outer way is required")
	}
	for i, w := range outer {
		if w == nil {
			return nil, schema.Invalid("outer", "way %d is nil", i)
		}
	}
	mp := &MultiPolygon{id: id, subtype: subtype, outer: make([]*Way, len(outer))}
	copy(mp.outer, outer)
	return mp, nil
}

// DeserializeMultiPolygon constructs a multipolygon from a field mapping.
func DeserializeMultiPolygon(f schema.Fields) (*MultiPolygon, error) {
	if err := f.Require(multiPolygonFields...); err != nil {
		return nil, err
	}
	id, err := f.NonNegInt("id")
	if err != nil {
		return nil, err
	}
	subtype, err := schema.Value[MultiPolygonSubType](f, "subtype")
	if err != nil {
		return nil, err
	}
	outer, err := schema.Value[[]*Way](f, "outer")
	if err != nil {
		return nil, err
	}
	return NewMultiPolygon(id, subtype, outer)
}

// Serialize returns the multipolygon's field mapping.
func (m *MultiPolygon) Serialize() schema.Fields {
	return schema.Fields{"id": m.id, "subtype": m.subtype, "outer": m.Outer()}
}

// ID returns the multipolygon's unique identifier.
func (m *MultiPolygon) ID() int64 { return m.id }

// SubType returns the multipolygon subtype.
func (m *MultiPolygon) SubType() MultiPolygonSubType { return m.subtype }

// Outer returns a copy of the ordered outer way sequence.
func (m *MultiPolygon) Outer() []*Way {
	outer := make([]*Way, len(m.outer))
	copy(outer, m.outer)
	return outer
}

// ToGeometry concatenates all outer ways' nodes, in sequence order, into a
// single polygon ring. Gaps between consecutive ways are not closed.
func (m *MultiPolygon) ToGeometry() orb.Polygon {
	m.geomOnce.Do(func() {
		var ring orb.Ring
		for _, w := range m.outer {
			for _, n := range w.nodes {
				ring = append(ring, orb.Point{n.x, n.y})
			}
		}
		m.geom = orb.Polygon{ring}
	})
	return m.geom.Clone()
}

// Hash returns a structural hash over (id, subtype, outer ways).
func (m *MultiPolygon) Hash() uint64 {
	h := newHasher()
	h.writeInt(m.id)
	h.writeString(string(m.subtype))
	for _, w := range m.outer {
		h.writeInt(int64(w.Hash()))
	}
	return h.sum()
}

// Equal reports structural equality with another multipolygon.
func (m *MultiPolygon) Equal(o *MultiPolygon) bool {
	if o == nil || m.id != o.id || m.subtype != o.subtype || len(m.outer) != len(o.outer) {
		return false
	}
	for i := range m.outer {
		if !m.outer[i].Equal(o.outer[i]) {
			return false
		}
	}
	return true
}

// RegulatoryElement is a traffic rule linking sign and reference-line ways
// to the lanelets it governs, partitioned into a right-of-way set and a
// yield set. Lanelet references are non-owning id sets resolved through a
// Layer.
type RegulatoryElement struct {
	id       int64
	subtype  RegulatoryElementSubType
	refers   []*Way
	refLines []*Way
	prior    []int64
	yield    []int64
}

// RegulatoryElementParams collects the constructor arguments for a
// regulatory element.
type RegulatoryElementParams struct {
	ID       int64
	SubType  RegulatoryElementSubType
	Refers   []*Way
	RefLines []*Way

	PriorLaneletIDs []int64
	YieldLaneletIDs []int64
}

var regulatoryElementFields = []string{
	"id", "subtype", "refers", "ref_lines", "prior_lanelets", "yield_lanelets",
}

// NewRegulatoryElement builds a validated regulatory element. Every refers
// way must carry the traffic_sign type; the prior and yield id sets must
// be disjoint.
func NewRegulatoryElement(p RegulatoryElementParams) (*RegulatoryElement, error) {
	if p.ID < 0 {
		return nil, schema.Invalid("id", "must be non-negative, got %d", p.ID)
	}
	if !p.SubType.Valid() {
		return nil, schema.Invalid("subtype", "unknown regulatory element subtype %q", p.SubType)
	}
	for i, w := range p.Refers {
		if w == nil {
			return nil, schema.Invalid("refers", "way %d is nil", i)
		}
		if w.Type() != WayTrafficSign {
			return nil, schema.Invalid("refers", "way %d has type %q, want %q", w.ID(), w.Type(), WayTrafficSign)
		}
	}
	for i, w := range p.RefLines {
		if w == nil {
			return nil, schema.Invalid("ref_lines", "way %d is nil", i)
		}
	}
	prior, err := idSet("prior_lanelets", p.PriorLaneletIDs)
	if err != nil {
		return nil, err
	}
	yield, err := idSet("yield_lanelets", p.YieldLaneletIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range yield {
		if _, found := slices.BinarySearch(prior, id); found {
			return nil, schema.Invalid("yield_lanelets", "lanelet %d is in both the prior and yield sets", id)
		}
	}

	re := &RegulatoryElement{
		id:       p.ID,
		subtype:  p.SubType,
		refers:   slices.Clone(p.Refers),
		refLines: slices.Clone(p.RefLines),
		prior:    prior,
		yield:    yield,
	}
	return re, nil
}

// DeserializeRegulatoryElement constructs a regulatory element from a
// field mapping.
func DeserializeRegulatoryElement(f schema.Fields) (*RegulatoryElement, error) {
	if err := f.Require(regulatoryElementFields...); err != nil {
		return nil, err
	}
	id, err := f.NonNegInt("id")
	if err != nil {
		return nil, err
	}
	subtype, err := schema.Value[RegulatoryElementSubType](f, "subtype")
	if err != nil {
		return nil, err
	}
	refers, err := schema.Value[[]*Way](f, "refers")
	if err != nil {
		return nil, err
	}
	refLines, err := schema.Value[[]*Way](f, "ref_lines")
	if err != nil {
		return nil, err
	}
	prior, err := f.IDList("prior_lanelets")
	if err != nil {
		return nil, err
	}
	yield, err := f.IDList("yield_lanelets")
	if err != nil {
		return nil, err
	}
	return NewRegulatoryElement(RegulatoryElementParams{
		ID:              id,
		SubType:         subtype,
		Refers:          refers,
		RefLines:        refLines,
		PriorLaneletIDs: prior,
		YieldLaneletIDs: yield,
	})
}

// Serialize returns the regulatory element's field mapping.
func (r *RegulatoryElement) Serialize() schema.Fields {
	return schema.Fields{
		"id":             r.id,
		"subtype":        r.subtype,
		"refers":         slices.Clone(r.refers),
		"ref_lines":      slices.Clone(r.refLines),
		"prior_lanelets": slices.Clone(r.prior),
		"yield_lanelets": slices.Clone(r.yield),
	}
}

// ID returns the regulatory element's unique identifier.
func (r *RegulatoryElement) ID() int64 { return r.id }

// SubType returns the regulatory element subtype.
func (r *RegulatoryElement) SubType() RegulatoryElementSubType { return r.subtype }

// Refers returns a copy of the sign ways the rule refers to.
func (r *RegulatoryElement) Refers() []*Way { return slices.Clone(r.refers) }

// RefLines returns a copy of the referencing line ways.
func (r *RegulatoryElement) RefLines() []*Way { return slices.Clone(r.refLines) }

// PriorLaneletIDs returns the sorted set of right-of-way lanelet ids.
func (r *RegulatoryElement) PriorLaneletIDs() []int64 { return slices.Clone(r.prior) }

// YieldLaneletIDs returns the sorted set of yielding lanelet ids.
func (r *RegulatoryElement) YieldLaneletIDs() []int64 { return slices.Clone(r.yield) }

// ToGeometry returns one line string per refers way, in order.
func (r *RegulatoryElement) ToGeometry() []orb.LineString {
	lines := make([]orb.LineString, len(r.refers))
	for i, w := range r.refers {
		lines[i] = w.ToGeometry()
	}
	return lines
}

// Hash returns a structural hash over every field of the element.
func (r *RegulatoryElement) Hash() uint64 {
	h := newHasher()
	h.writeInt(r.id)
	h.writeString(string(r.subtype))
	for _, w := range r.refers {
		h.writeInt(int64(w.Hash()))
	}
	for _, w := range r.refLines {
		h.writeInt(int64(w.Hash()))
	}
	for _, set := range [][]int64{r.prior, r.yield} {
		h.writeInt(int64(len(set)))
		for _, id := range set {
			h.writeInt(id)
		}
	}
	return h.sum()
}

// Equal reports structural equality with another regulatory element.
func (r *RegulatoryElement) Equal(o *RegulatoryElement) bool {
	if o == nil || r.id != o.id || r.subtype != o.subtype {
		return false
	}
	if len(r.refers) != len(o.refers) || len(r.refLines) != len(o.refLines) {
		return false
	}
	for i := range r.refers {
		if !r.refers[i].Equal(o.refers[i]) {
			return false
		}
	}
	for i := range r.refLines {
		if !r.refLines[i].Equal(o.refLines[i]) {
			return false
		}
	}
	return slices.Equal(r.prior, o.prior) && slices.Equal(r.yield, o.yield)
}
