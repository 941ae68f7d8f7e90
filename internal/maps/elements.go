// Package maps holds the immutable Lanelet2-style map element containers:
// nodes, ways, lanelets, multipolygons and regulatory elements, plus the
// Layer arena that keys them by id and resolves the lanelet graph.
//
// Every element is validated on construction and never mutated afterwards.
// Geometry is derived on demand via paulmach/orb and cached; lanelet-to-
// lanelet relations are stored as non-owning integer id references resolved
// through the Layer, so the element graph itself stays acyclic.
package maps

import (
	"hash"
	"hash/fnv"
	"math"
	"sync"

	"github.com/paulmach/orb"

	"github.com/ChocolateDave/interaction-devkit/internal/schema"
)

// hasher accumulates structural fields into an FNV-1a sum. Field order is
// fixed per type so equal elements hash equally.
type hasher struct {
	h hash.Hash64
}

func newHasher() *hasher { return &hasher{h: fnv.New64a()} }

func (h *hasher) writeInt(v int64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.h.Write(buf[:])
}

func (h *hasher) writeFloat(v float64) {
	h.writeInt(int64(math.Float64bits(v)))
}

func (h *hasher) writeString(s string) {
	h.h.Write([]byte(s))
	h.h.Write([]byte{0})
}

func (h *hasher) sum() uint64 { return h.h.Sum64() }

// Node is a 2-D point element.
type Node struct {
	id int64
	x  float64
	y  float64
}

var nodeFields = []string{"id", "x", "y"}

// NewNode builds a validated node. Coordinates must be finite.
func NewNode(id int64, x, y float64) (*Node, error) {
	if id < 0 {
		return nil, schema.Invalid("id", "must be non-negative, got %d", id)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, schema.Invalid("x", "must be finite, got %v", x)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return nil, schema.Invalid("y", "must be finite, got %v", y)
	}
	return &Node{id: id, x: x, y: y}, nil
}

// DeserializeNode constructs a node from a field mapping.
func DeserializeNode(f schema.Fields) (*Node, error) {
	if err := f.Require(nodeFields...); err != nil {
		return nil, err
	}
	id, err := f.NonNegInt("id")
	if err != nil {
		return nil, err
	}
	x, err := f.Float("x")
	if err != nil {
		return nil, err
	}
	y, err := f.Float("y")
	if err != nil {
		return nil, err
	}
	return NewNode(id, x, y)
}

// Serialize returns the node's field mapping; DeserializeNode inverts it.
func (n *Node) Serialize() schema.Fields {
	return schema.Fields{"id": n.id, "x": n.x, "y": n.y}
}

// ID returns the node's unique identifier.
func (n *Node) ID() int64 { return n.id }

// X returns the x coordinate in meters.
func (n *Node) X() float64 { return n.x }

// Y returns the y coordinate in meters.
func (n *Node) Y() float64 { return n.y }

// ToGeometry converts the node to a point.
func (n *Node) ToGeometry() orb.Point {
	return orb.Point{n.x, n.y}
}

// Hash returns a structural hash over (id, x, y).
func (n *Node) Hash() uint64 {
	h := newHasher()
	h.writeInt(n.id)
	h.writeFloat(n.x)
	h.writeFloat(n.y)
	return h.sum()
}

// Equal reports structural equality with another node.
func (n *Node) Equal(o *Node) bool {
	if o == nil {
		return false
	}
	return n.id == o.id && n.x == o.x && n.y == o.y
}

// Way is an ordered polyline of nodes. Insertion order is geometric order
// and defines the line-string direction.
type Way struct {
	id    int64
	typ   WayType
	nodes []*Node

	geomOnce sync.Once
	geom     orb.LineString
}

var wayFields = []string{"id", "type", "nodes"}

// NewWay builds a validated way. All nodes must be non-nil and pairwise
// distinct objects.
func NewWay(id int64, typ WayType, nodes []*Node) (*Way, error) {
	if id < 0 {
		return nil, schema.Invalid("id", "must be non-negative, got %d", id)
	}
	if !typ.Valid() {
		return nil, schema.Invalid("type", "unknown way type %q", typ)
	}
	seen := make(map[*Node]struct{}, len(nodes))
	for i, n := range nodes {
		if n == nil {
			return nil, schema.Invalid("nodes", "node %d is nil", i)
		}
		if _, dup := seen[n]; dup {
			return nil, schema.Invalid("nodes", "node %d (id %d) appears more than once", i, n.id)
		}
		seen[n] = struct{}{}
	}
	w := &Way{id: id, typ: typ, nodes: make([]*Node, len(nodes))}
	copy(w.nodes, nodes)
	return w, nil
}

// DeserializeWay constructs a way from a field mapping.
func DeserializeWay(f schema.Fields) (*Way, error) {
	if err := f.Require(wayFields...); err != nil {
		return nil, err
	}
	id, err := f.NonNegInt("id")
	if err != nil {
		return nil, err
	}
	typ, err := schema.Value[WayType](f, "type")
	if err != nil {
		return nil, err
	}
	nodes, err := schema.Value[[]*Node](f, "nodes")
	if err != nil {
		return nil, err
	}
	return NewWay(id, typ, nodes)
}

// Serialize returns the way's field mapping; DeserializeWay inverts it.
func (w *Way) Serialize() schema.Fields {
	return schema.Fields{"id": w.id, "type": w.typ, "nodes": w.Nodes()}
}

// ID returns the way's unique identifier.
func (w *Way) ID() int64 { return w.id }

// Type returns the way type.
func (w *Way) Type() WayType { return w.typ }

// Nodes returns a copy of the ordered node sequence.
func (w *Way) Nodes() []*Node {
	nodes := make([]*Node, len(w.nodes))
	copy(nodes, w.nodes)
	return nodes
}

// Len returns the number of nodes in the way.
func (w *Way) Len() int { return len(w.nodes) }

// NodeIDs returns the ids of the way's nodes in order.
func (w *Way) NodeIDs() []int64 {
	ids := make([]int64, len(w.nodes))
	for i, n := range w.nodes {
		ids[i] = n.id
	}
	return ids
}

// ToGeometry converts the way to a line string with one position per node,
// in stored order. The result is computed once and a copy returned.
func (w *Way) ToGeometry() orb.LineString {
	w.geomOnce.Do(func() {
		ls := make(orb.LineString, len(w.nodes))
		for i, n := range w.nodes {
			ls[i] = orb.Point{n.x, n.y}
		}
		w.geom = ls
	})
	return w.geom.Clone()
}

// Hash returns a structural hash over (id, type, nodes).
func (w *Way) Hash() uint64 {
	h := newHasher()
	h.writeInt(w.id)
	h.writeString(string(w.typ))
	for _, n := range w.nodes {
		h.writeInt(n.id)
		h.writeFloat(n.x)
		h.writeFloat(n.y)
	}
	return h.sum()
}

// Equal reports structural equality with another way.
func (w *Way) Equal(o *Way) bool {
	if o == nil || w.id != o.id || w.typ != o.typ || len(w.nodes) != len(o.nodes) {
		return false
	}
	for i := range w.nodes {
		if !w.nodes[i].Equal(o.nodes[i]) {
			return false
		}
	}
	return true
}
