package maps

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
)

// Layer is the arena holding every element of one map, keyed by id. It is
// the lookup table through which the non-owning lanelet graph references
// (adjacent, predecessor, successor, prior, yield) resolve to elements.
//
// A Layer is populated by a loader and read-only afterwards; Add calls
// reject a second element under an existing id unless the two are
// structurally equal, in which case the add is a dedup no-op.
type Layer struct {
	nodes         map[int64]*Node
	ways          map[int64]*Way
	lanelets      map[int64]*Lanelet
	multiPolygons map[int64]*MultiPolygon
	regulatory    map[int64]*RegulatoryElement
}

// NewLayer creates an empty map layer.
func NewLayer() *Layer {
	return &Layer{
		nodes:         make(map[int64]*Node),
		ways:          make(map[int64]*Way),
		lanelets:      make(map[int64]*Lanelet),
		multiPolygons: make(map[int64]*MultiPolygon),
		regulatory:    make(map[int64]*RegulatoryElement),
	}
}

// AddNode registers a node.
func (l *Layer) AddNode(n *Node) error {
	if n == nil {
		return fmt.Errorf("nil node")
	}
	if existing, ok := l.nodes[n.ID()]; ok {
		if existing.Equal(n) {
			return nil
		}
		return fmt.Errorf("node %d already registered with different content", n.ID())
	}
	l.nodes[n.ID()] = n
	return nil
}

// AddWay registers a way.
func (l *Layer) AddWay(w *Way) error {
	if w == nil {
		return fmt.Errorf("nil way")
	}
	if existing, ok := l.ways[w.ID()]; ok {
		if existing.Equal(w) {
			return nil
		}
		return fmt.Errorf("way %d already registered with different content", w.ID())
	}
	l.ways[w.ID()] = w
	return nil
}

// AddLanelet registers a lanelet.
func (l *Layer) AddLanelet(ll *Lanelet) error {
	if ll == nil {
		return fmt.Errorf("nil lanelet")
	}
	if existing, ok := l.lanelets[ll.ID()]; ok {
		if existing.Equal(ll) {
			return nil
		}
		return fmt.Errorf("lanelet %d already registered with different content", ll.ID())
	}
	l.lanelets[ll.ID()] = ll
	return nil
}

// AddMultiPolygon registers a multipolygon.
func (l *Layer) AddMultiPolygon(mp *MultiPolygon) error {
	if mp == nil {
		return fmt.Errorf("nil multipolygon")
	}
	if existing, ok := l.multiPolygons[mp.ID()]; ok {
		if existing.Equal(mp) {
			return nil
		}
		return fmt.Errorf("multipolygon %d already registered with different content", mp.ID())
	}
	l.multiPolygons[mp.ID()] = mp
	return nil
}

// AddRegulatoryElement registers a regulatory element.
func (l *Layer) AddRegulatoryElement(re *RegulatoryElement) error {
	if re == nil {
		return fmt.Errorf("nil regulatory element")
	}
	if existing, ok := l.regulatory[re.ID()]; ok {
		if existing.Equal(re) {
			return nil
		}
		return fmt.Errorf("regulatory element %d already registered with different content", re.ID())
	}
	l.regulatory[re.ID()] = re
	return nil
}

// Node looks up a node by id.
func (l *Layer) Node(id int64) (*Node, bool) {
	n, ok := l.nodes[id]
	return n, ok
}

// Way looks up a way by id.
func (l *Layer) Way(id int64) (*Way, bool) {
	w, ok := l.ways[id]
	return w, ok
}

// Lanelet looks up a lanelet by id.
func (l *Layer) Lanelet(id int64) (*Lanelet, bool) {
	ll, ok := l.lanelets[id]
	return ll, ok
}

// MultiPolygon looks up a multipolygon by id.
func (l *Layer) MultiPolygon(id int64) (*MultiPolygon, bool) {
	mp, ok := l.multiPolygons[id]
	return mp, ok
}

// RegulatoryElement looks up a regulatory element by id.
func (l *Layer) RegulatoryElement(id int64) (*RegulatoryElement, bool) {
	re, ok := l.regulatory[id]
	return re, ok
}

// Lanelets returns all lanelets ordered by id.
func (l *Layer) Lanelets() []*Lanelet {
	out := make([]*Lanelet, 0, len(l.lanelets))
	for _, ll := range l.lanelets {
		out = append(out, ll)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Ways returns all ways ordered by id.
func (l *Layer) Ways() []*Way {
	out := make([]*Way, 0, len(l.ways))
	for _, w := range l.ways {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// MultiPolygons returns all multipolygons ordered by id.
func (l *Layer) MultiPolygons() []*MultiPolygon {
	out := make([]*MultiPolygon, 0, len(l.multiPolygons))
	for _, mp := range l.multiPolygons {
		out = append(out, mp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// RegulatoryElements returns all regulatory elements ordered by id.
func (l *Layer) RegulatoryElements() []*RegulatoryElement {
	out := make([]*RegulatoryElement, 0, len(l.regulatory))
	for _, re := range l.regulatory {
		out = append(out, re)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// NumNodes returns the number of registered nodes.
func (l *Layer) NumNodes() int { return len(l.nodes) }

// NumWays returns the number of registered ways.
func (l *Layer) NumWays() int { return len(l.ways) }

// NumLanelets returns the number of registered lanelets.
func (l *Layer) NumLanelets() int { return len(l.lanelets) }

// NumMultiPolygons returns the number of registered multipolygons.
func (l *Layer) NumMultiPolygons() int { return len(l.multiPolygons) }

// NumRegulatoryElements returns the number of registered regulatory elements.
func (l *Layer) NumRegulatoryElements() int { return len(l.regulatory) }

// resolve maps a lanelet id set to elements, failing on a dangling id.
func (l *Layer) resolve(ids []int64) ([]*Lanelet, error) {
	out := make([]*Lanelet, 0, len(ids))
	for _, id := range ids {
		ll, ok := l.lanelets[id]
		if !ok {
			return nil, fmt.Errorf("lanelet %d is not registered in the layer", id)
		}
		out = append(out, ll)
	}
	return out, nil
}

// Adjacent resolves the adjacent lanelets of the given lanelet.
func (l *Layer) Adjacent(laneletID int64) ([]*Lanelet, error) {
	ll, ok := l.lanelets[laneletID]
	if !ok {
		return nil, fmt.Errorf("lanelet %d is not registered in the layer", laneletID)
	}
	return l.resolve(ll.adjacent)
}

// Predecessors resolves the upstream lanelets of the given lanelet.
func (l *Layer) Predecessors(laneletID int64) ([]*Lanelet, error) {
	ll, ok := l.lanelets[laneletID]
	if !ok {
		return nil, fmt.Errorf("lanelet %d is not registered in the layer", laneletID)
	}
	return l.resolve(ll.predecessors)
}

// Successors resolves the downstream lanelets of the given lanelet.
func (l *Layer) Successors(laneletID int64) ([]*Lanelet, error) {
	ll, ok := l.lanelets[laneletID]
	if !ok {
		return nil, fmt.Errorf("lanelet %d is not registered in the layer", laneletID)
	}
	return l.resolve(ll.successors)
}

// PriorLanelets resolves the right-of-way lanelets of a regulatory element.
func (l *Layer) PriorLanelets(regulatoryID int64) ([]*Lanelet, error) {
	re, ok := l.regulatory[regulatoryID]
	if !ok {
		return nil, fmt.Errorf("regulatory element %d is not registered in the layer", regulatoryID)
	}
	return l.resolve(re.prior)
}

// YieldLanelets resolves the yielding lanelets of a regulatory element.
func (l *Layer) YieldLanelets(regulatoryID int64) ([]*Lanelet, error) {
	re, ok := l.regulatory[regulatoryID]
	if !ok {
		return nil, fmt.Errorf("regulatory element %d is not registered in the layer", regulatoryID)
	}
	return l.resolve(re.yield)
}

// Validate checks that every id referenced by a lanelet or regulatory
// element resolves to a registered lanelet.
func (l *Layer) Validate() error {
	for id, ll := range l.lanelets {
		for _, set := range [][]int64{ll.adjacent, ll.predecessors, ll.successors} {
			for _, ref := range set {
				if _, ok := l.lanelets[ref]; !ok {
					return fmt.Errorf("lanelet %d references unregistered lanelet %d", id, ref)
				}
			}
		}
	}
	for id, re := range l.regulatory {
		for _, set := range [][]int64{re.prior, re.yield} {
			for _, ref := range set {
				if _, ok := l.lanelets[ref]; !ok {
					return fmt.Errorf("regulatory element %d references unregistered lanelet %d", id, ref)
				}
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bound of all registered nodes. The
// second return is false when the layer has no nodes.
func (l *Layer) Bounds() (orb.Bound, bool) {
	if len(l.nodes) == 0 {
		return orb.Bound{}, false
	}
	var b orb.Bound
	first := true
	for _, n := range l.nodes {
		p := n.ToGeometry()
		if first {
			b = orb.Bound{Min: p, Max: p}
			first = false
			continue
		}
		b = b.Extend(p)
	}
	return b, true
}
