package tracks

import (
	"sort"
	"sync"

	"github.com/paulmach/orb"

	"github.com/ChocolateDave/interaction-devkit/internal/schema"
)

// Track is the time-ordered motion-state sequence of one agent within a
// case. Construction accepts samples in any order and sorts them ascending
// by timestamp; every sample must belong to the track's agent.
type Track struct {
	agentID int64
	typ     AgentType
	states  []*MotionState

	tsOnce     sync.Once
	timestamps []int64

	boxOnce sync.Once
	boxes   []orb.Polygon
}

var trackFields = []string{"agent_id", "type", "motion_states"}

// NewTrack builds a validated track from an arbitrary-order motion-state
// collection.
func NewTrack(agentID int64, typ AgentType, states []*MotionState) (*Track, error) {
	if agentID < 0 {
		return nil, schema.Invalid("agent_id", "must be non-negative, got %d", agentID)
	}
	if !typ.Valid() {
		return nil, schema.Invalid("type", "unknown agent type %d", int(typ))
	}
	sorted := make([]*MotionState, len(states))
	for i, ms := range states {
		if ms == nil {
			return nil, schema.Invalid("motion_states", "motion state %d is nil", i)
		}
		if ms.AgentID() != agentID {
			return nil, schema.Invalid("motion_states",
				"motion state %d belongs to agent %d, want agent %d", i, ms.AgentID(), agentID)
		}
		sorted[i] = ms
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimestampMs() < sorted[j].TimestampMs()
	})
	return &Track{agentID: agentID, typ: typ, states: sorted}, nil
}

// DeserializeTrack constructs a track from a field mapping.
func DeserializeTrack(f schema.Fields) (*Track, error) {
	if err := f.Require(trackFields...); err != nil {
		return nil, err
	}
	agentID, err := f.NonNegInt("agent_id")
	if err != nil {
		return nil, err
	}
	typ, err := schema.Value[AgentType](f, "type")
	if err != nil {
		return nil, err
	}
	states, err := schema.Value[[]*MotionState](f, "motion_states")
	if err != nil {
		return nil, err
	}
	return NewTrack(agentID, typ, states)
}

// Serialize returns the track's field mapping; DeserializeTrack inverts it.
func (t *Track) Serialize() schema.Fields {
	return schema.Fields{
		"agent_id":      t.agentID,
		"type":          t.typ,
		"motion_states": t.MotionStates(),
	}
}

// AgentID returns the id of the tracked agent.
func (t *Track) AgentID() int64 { return t.agentID }

// Type returns the agent type.
func (t *Track) Type() AgentType { return t.typ }

// Len returns the number of motion states in the track.
func (t *Track) Len() int { return len(t.states) }

// At returns the motion state at the given time-ascending index.
func (t *Track) At(i int) *MotionState { return t.states[i] }

// MotionStates returns a copy of the time-ascending motion state sequence.
func (t *Track) MotionStates() []*MotionState {
	states := make([]*MotionState, len(t.states))
	copy(states, t.states)
	return states
}

// Timestamps returns the sample timestamps in milliseconds, ascending.
// Computed once and a copy returned.
func (t *Track) Timestamps() []int64 {
	t.tsOnce.Do(func() {
		ts := make([]int64, len(t.states))
		for i, ms := range t.states {
			ts[i] = ms.TimestampMs()
		}
		t.timestamps = ts
	})
	out := make([]int64, len(t.timestamps))
	copy(out, t.timestamps)
	return out
}

// MinTimestampMs returns the earliest sample timestamp. The second return
// is false for an empty track.
func (t *Track) MinTimestampMs() (int64, bool) {
	if len(t.states) == 0 {
		return 0, false
	}
	return t.states[0].TimestampMs(), true
}

// MaxTimestampMs returns the latest sample timestamp. The second return is
// false for an empty track.
func (t *Track) MaxTimestampMs() (int64, bool) {
	if len(t.states) == 0 {
		return 0, false
	}
	return t.states[len(t.states)-1].TimestampMs(), true
}

// BoundingBoxes returns the bounding boxes of the samples that have one,
// in time order. Computed once and a copy returned.
func (t *Track) BoundingBoxes() []orb.Polygon {
	t.boxOnce.Do(func() {
		for _, ms := range t.states {
			if box, ok := ms.BoundingBox(); ok {
				t.boxes = append(t.boxes, box)
			}
		}
	})
	out := make([]orb.Polygon, len(t.boxes))
	copy(out, t.boxes)
	return out
}

// ToGeometry converts the track to a line string through the sample
// positions in time order.
func (t *Track) ToGeometry() orb.LineString {
	ls := make(orb.LineString, len(t.states))
	for i, ms := range t.states {
		x, y := ms.Position()
		ls[i] = orb.Point{x, y}
	}
	return ls
}

// Hash returns a structural hash over (agent id, type, motion states).
func (t *Track) Hash() uint64 {
	h := fnvHasher()
	h.write(uint64(t.agentID))
	h.write(uint64(t.typ))
	for _, ms := range t.states {
		h.write(ms.Hash())
	}
	return h.sum()
}

// Equal reports structural equality with another track.
func (t *Track) Equal(o *Track) bool {
	if o == nil || t.agentID != o.agentID || t.typ != o.typ || len(t.states) != len(o.states) {
		return false
	}
	for i := range t.states {
		if !t.states[i].Equal(o.states[i]) {
			return false
		}
	}
	return true
}
