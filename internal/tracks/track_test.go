package tracks

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
)

func sampleStates(t *testing.T, agentID int64, timestamps ...int64) []*MotionState {
	t.Helper()
	states := make([]*MotionState, len(timestamps))
	for i, ts := range timestamps {
		states[i] = mustState(t, MotionStateParams{
			AgentID:     agentID,
			TimestampMs: ts,
			PositionX:   float64(ts) / 100,
			PositionY:   float64(ts) / 200,
		})
	}
	return states
}

func mustTrack(t *testing.T, agentID int64, typ AgentType, states []*MotionState) *Track {
	t.Helper()
	tr, err := NewTrack(agentID, typ, states)
	if err != nil {
		t.Fatalf("NewTrack(%d): %v", agentID, err)
	}
	return tr
}

func TestNewTrackSortsByTimestamp(t *testing.T) {
	states := sampleStates(t, 1, 300, 100, 200)
	tr := mustTrack(t, 1, AgentCar, states)
	if diff := cmp.Diff([]int64{100, 200, 300}, tr.Timestamps()); diff != "" {
		t.Errorf("Timestamps mismatch (-want +got):\n%s", diff)
	}
	if ts := tr.At(0).TimestampMs(); ts != 100 {
		t.Errorf("At(0).TimestampMs() = %d, want 100", ts)
	}
}

func TestNewTrackValidation(t *testing.T) {
	if _, err := NewTrack(-1, AgentCar, nil); err == nil {
		t.Error("negative agent id accepted, want error")
	}
	if _, err := NewTrack(1, AgentType(17), nil); err == nil {
		t.Error("unknown agent type accepted, want error")
	}
	if _, err := NewTrack(1, AgentCar, []*MotionState{nil}); err == nil {
		t.Error("nil motion state accepted, want error")
	}
	// A sample belonging to a different agent is rejected.
	foreign := sampleStates(t, 2, 100)
	if _, err := NewTrack(1, AgentCar, foreign); err == nil {
		t.Error("foreign agent sample accepted, want error")
	}
}

func TestTrackTimestampRange(t *testing.T) {
	tr := mustTrack(t, 1, AgentCar, sampleStates(t, 1, 500, 100, 300))
	if min, ok := tr.MinTimestampMs(); !ok || min != 100 {
		t.Errorf("MinTimestampMs() = %d, %v; want 100, true", min, ok)
	}
	if max, ok := tr.MaxTimestampMs(); !ok || max != 500 {
		t.Errorf("MaxTimestampMs() = %d, %v; want 500, true", max, ok)
	}

	empty := mustTrack(t, 1, AgentCar, nil)
	if _, ok := empty.MinTimestampMs(); ok {
		t.Error("MinTimestampMs() on empty track reported ok")
	}
	if _, ok := empty.MaxTimestampMs(); ok {
		t.Error("MaxTimestampMs() on empty track reported ok")
	}
}

func TestTrackGeometryFollowsTimeOrder(t *testing.T) {
	states := []*MotionState{
		mustState(t, MotionStateParams{AgentID: 1, TimestampMs: 200, PositionX: 2, PositionY: 0}),
		mustState(t, MotionStateParams{AgentID: 1, TimestampMs: 100, PositionX: 1, PositionY: 0}),
	}
	tr := mustTrack(t, 1, AgentCar, states)
	want := orb.LineString{{1, 0}, {2, 0}}
	if diff := cmp.Diff(want, tr.ToGeometry()); diff != "" {
		t.Errorf("ToGeometry mismatch (-want +got):\n%s", diff)
	}
}

func TestTrackBoundingBoxes(t *testing.T) {
	states := []*MotionState{
		mustState(t, MotionStateParams{AgentID: 1, TimestampMs: 100}),
		mustState(t, MotionStateParams{
			AgentID: 1, TimestampMs: 200,
			Heading: floatPtr(0), Length: floatPtr(4), Width: floatPtr(2),
		}),
	}
	tr := mustTrack(t, 1, AgentCar, states)
	boxes := tr.BoundingBoxes()
	if len(boxes) != 1 {
		t.Errorf("BoundingBoxes() returned %d boxes, want 1 (only the full sample)", len(boxes))
	}
}

func TestTrackMotionStatesIsCopied(t *testing.T) {
	tr := mustTrack(t, 1, AgentCar, sampleStates(t, 1, 100, 200))
	states := tr.MotionStates()
	states[0] = nil
	if tr.At(0) == nil {
		t.Error("mutating the returned slice changed the track")
	}
}

func TestTrackSerializeRoundTrip(t *testing.T) {
	tr := mustTrack(t, 1, AgentCar, sampleStates(t, 1, 100, 200))
	got, err := DeserializeTrack(tr.Serialize())
	if err != nil {
		t.Fatalf("DeserializeTrack: %v", err)
	}
	if !tr.Equal(got) {
		t.Error("round trip changed track")
	}
}

func TestTrackHashEqual(t *testing.T) {
	a := mustTrack(t, 1, AgentCar, sampleStates(t, 1, 100, 200))
	b := mustTrack(t, 1, AgentCar, sampleStates(t, 1, 200, 100))
	if !a.Equal(b) || a.Hash() != b.Hash() {
		t.Error("tracks with the same sorted samples disagree on Equal/Hash")
	}

	c := mustTrack(t, 1, AgentPedestrianBicycle, sampleStates(t, 1, 100, 200))
	if a.Equal(c) || a.Hash() == c.Hash() {
		t.Error("tracks with different agent types not distinguishable")
	}
}
