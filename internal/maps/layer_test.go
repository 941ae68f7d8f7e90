package maps

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ChocolateDave/interaction-devkit/internal/units"
)

// layerFixture builds two consecutive lanelets sharing a middle section:
// lanelet 500 runs x 0..2, lanelet 501 continues x 2..4 from its end nodes.
func layerFixture(t *testing.T) *Layer {
	t.Helper()
	layer := NewLayer()

	left1 := mustWay(t, 100, WayLineThin,
		mustNode(t, 1, 0, 1), mustNode(t, 2, 2, 1))
	right1 := mustWay(t, 101, WayCurbstone,
		mustNode(t, 3, 0, 0), mustNode(t, 4, 2, 0))
	left2 := mustWay(t, 102, WayLineThin,
		mustNode(t, 2, 2, 1), mustNode(t, 5, 4, 1))
	right2 := mustWay(t, 103, WayCurbstone,
		mustNode(t, 4, 2, 0), mustNode(t, 6, 4, 0))

	limit, err := units.NewSpeedLimit(30, units.KMH)
	if err != nil {
		t.Fatalf("NewSpeedLimit: %v", err)
	}
	first, err := NewLanelet(LaneletParams{
		ID: 500, SubType: LaneletRoad, Left: left1, Right: right1,
		SpeedLimit: limit, SuccessorIDs: []int64{501},
	})
	if err != nil {
		t.Fatalf("NewLanelet(500): %v", err)
	}
	second, err := NewLanelet(LaneletParams{
		ID: 501, SubType: LaneletRoad, Left: left2, Right: right2,
		SpeedLimit: limit, PredecessorIDs: []int64{500},
	})
	if err != nil {
		t.Fatalf("NewLanelet(501): %v", err)
	}

	for _, w := range []*Way{left1, right1, left2, right2} {
		for _, n := range w.Nodes() {
			if err := layer.AddNode(n); err != nil {
				t.Fatalf("AddNode(%d): %v", n.ID(), err)
			}
		}
		if err := layer.AddWay(w); err != nil {
			t.Fatalf("AddWay(%d): %v", w.ID(), err)
		}
	}
	if err := layer.AddLanelet(first); err != nil {
		t.Fatalf("AddLanelet(500): %v", err)
	}
	if err := layer.AddLanelet(second); err != nil {
		t.Fatalf("AddLanelet(501): %v", err)
	}
	return layer
}

func TestLayerCounts(t *testing.T) {
	layer := layerFixture(t)
	// Shared nodes 2 and 4 dedup to a single registration.
	if got := layer.NumNodes(); got != 6 {
		t.Errorf("NumNodes() = %d, want 6", got)
	}
	if got := layer.NumWays(); got != 4 {
		t.Errorf("NumWays() = %d, want 4", got)
	}
	if got := layer.NumLanelets(); got != 2 {
		t.Errorf("NumLanelets() = %d, want 2", got)
	}
}

func TestLayerAddDeduplicates(t *testing.T) {
	layer := NewLayer()
	if err := layer.AddNode(mustNode(t, 1, 0, 0)); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	// Same id, same content: dedup no-op.
	if err := layer.AddNode(mustNode(t, 1, 0, 0)); err != nil {
		t.Errorf("re-adding an equal node failed: %v", err)
	}
	// Same id, different content: conflict.
	if err := layer.AddNode(mustNode(t, 1, 0, 5)); err == nil {
		t.Error("adding a conflicting node succeeded, want error")
	}
	if layer.NumNodes() != 1 {
		t.Errorf("NumNodes() = %d, want 1", layer.NumNodes())
	}
}

func TestLayerLookup(t *testing.T) {
	layer := layerFixture(t)
	if _, ok := layer.Lanelet(500); !ok {
		t.Error("Lanelet(500) not found")
	}
	if _, ok := layer.Lanelet(999); ok {
		t.Error("Lanelet(999) found, want miss")
	}
	if _, ok := layer.Way(101); !ok {
		t.Error("Way(101) not found")
	}
	if _, ok := layer.Node(3); !ok {
		t.Error("Node(3) not found")
	}
}

func TestLayerOrderedGetters(t *testing.T) {
	layer := layerFixture(t)
	lanelets := layer.Lanelets()
	ids := make([]int64, len(lanelets))
	for i, ll := range lanelets {
		ids[i] = ll.ID()
	}
	if diff := cmp.Diff([]int64{500, 501}, ids); diff != "" {
		t.Errorf("Lanelets order mismatch (-want +got):\n%s", diff)
	}
}

func TestLayerResolvesGraph(t *testing.T) {
	layer := layerFixture(t)

	successors, err := layer.Successors(500)
	if err != nil {
		t.Fatalf("Successors(500): %v", err)
	}
	if len(successors) != 1 || successors[0].ID() != 501 {
		t.Errorf("Successors(500) = %v, want [501]", successors)
	}

	predecessors, err := layer.Predecessors(501)
	if err != nil {
		t.Fatalf("Predecessors(501): %v", err)
	}
	if len(predecessors) != 1 || predecessors[0].ID() != 500 {
		t.Errorf("Predecessors(501) = %v, want [500]", predecessors)
	}

	if _, err := layer.Successors(999); err == nil {
		t.Error("Successors of unregistered lanelet succeeded, want error")
	}
}

func TestLayerValidateDanglingReference(t *testing.T) {
	layer := layerFixture(t)
	if err := layer.Validate(); err != nil {
		t.Fatalf("Validate on a consistent layer: %v", err)
	}

	limit, err := units.NewSpeedLimit(30, units.KMH)
	if err != nil {
		t.Fatalf("NewSpeedLimit: %v", err)
	}
	dangling, err := NewLanelet(LaneletParams{
		ID:      502,
		SubType: LaneletRoad,
		Left: mustWay(t, 104, WayLineThin,
			mustNode(t, 7, 0, 3), mustNode(t, 8, 1, 3)),
		Right: mustWay(t, 105, WayCurbstone,
			mustNode(t, 9, 0, 2), mustNode(t, 10, 1, 2)),
		SpeedLimit:   limit,
		SuccessorIDs: []int64{777},
	})
	if err != nil {
		t.Fatalf("NewLanelet(502): %v", err)
	}
	if err := layer.AddLanelet(dangling); err != nil {
		t.Fatalf("AddLanelet(502): %v", err)
	}
	if err := layer.Validate(); err == nil {
		t.Error("Validate accepted a dangling successor reference")
	}
}

func TestLayerBounds(t *testing.T) {
	layer := layerFixture(t)
	bound, ok := layer.Bounds()
	if !ok {
		t.Fatal("Bounds() reported no nodes")
	}
	if bound.Min[0] != 0 || bound.Min[1] != 0 || bound.Max[0] != 4 || bound.Max[1] != 1 {
		t.Errorf("Bounds() = %v, want [0 0]..[4 1]", bound)
	}

	if _, ok := NewLayer().Bounds(); ok {
		t.Error("Bounds() on an empty layer reported ok")
	}
}
