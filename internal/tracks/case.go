package tracks

import (
	"errors"
	"slices"
	"sync"

	"github.com/ChocolateDave/interaction-devkit/internal/schema"
)

// ErrDifferentLocations is returned when two cases from different
// locations are compared: their order is undefined.
var ErrDifferentLocations = errors.New("cases from different locations have no defined order")

// Case is a single scenario observation: the tracks of every agent split
// into history, current and futural time windows, plus the agent id sets
// marking prediction targets and the interesting (ego) agents.
//
// Case identity is (location, case id) alone. Equality and hashing ignore
// track content so a case can be deduplicated against a canonical registry
// even when payloads differ.
type Case struct {
	location string
	caseID   int64

	history []*Track
	current []*Track
	futural []*Track

	tracksToPredict   []int64
	interestingAgents []int64

	agentsOnce sync.Once
	numAgents  int
}

// CaseParams collects the constructor arguments for a case.
type CaseParams struct {
	Location string
	CaseID   int64

	HistoryTracks []*Track
	CurrentTracks []*Track
	FuturalTracks []*Track

	TracksToPredict   []int64
	InterestingAgents []int64
}

// NewCase builds a validated case.
func NewCase(p CaseParams) (*Case, error) {
	if p.Location == "" {
		return nil, schema.Invalid("location", "location is required")
	}
	if p.CaseID < 0 {
		return nil, schema.Invalid("case_id", "must be non-negative, got %d", p.CaseID)
	}
	for _, part := range []struct {
		name   string
		tracks []*Track
	}{
		{"history_tracks", p.HistoryTracks},
		{"current_tracks", p.CurrentTracks},
		{"futural_tracks", p.FuturalTracks},
	} {
		for i, tr := range part.tracks {
			if tr == nil {
				return nil, schema.Invalid(part.name, "track %d is nil", i)
			}
		}
	}
	toPredict, err := caseIDSet("tracks_to_predict", p.TracksToPredict)
	if err != nil {
		return nil, err
	}
	interesting, err := caseIDSet("interesting_agents", p.InterestingAgents)
	if err != nil {
		return nil, err
	}
	return &Case{
		location:          p.Location,
		caseID:            p.CaseID,
		history:           slices.Clone(p.HistoryTracks),
		current:           slices.Clone(p.CurrentTracks),
		futural:           slices.Clone(p.FuturalTracks),
		tracksToPredict:   toPredict,
		interestingAgents: interesting,
	}, nil
}

func caseIDSet(field string, ids []int64) ([]int64, error) {
	out := slices.Clone(ids)
	for _, id := range out {
		if id < 0 {
			return nil, schema.Invalid(field, "agent id must be non-negative, got %d", id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Location returns the recording location name.
func (c *Case) Location() string { return c.location }

// CaseID returns the case id within the location.
func (c *Case) CaseID() int64 { return c.caseID }

// HistoryTracks returns a copy of the history partition.
func (c *Case) HistoryTracks() []*Track { return slices.Clone(c.history) }

// CurrentTracks returns a copy of the current partition.
func (c *Case) CurrentTracks() []*Track { return slices.Clone(c.current) }

// FuturalTracks returns a copy of the futural partition.
func (c *Case) FuturalTracks() []*Track { return slices.Clone(c.futural) }

// TracksToPredict returns the sorted set of agent ids to predict.
func (c *Case) TracksToPredict() []int64 { return slices.Clone(c.tracksToPredict) }

// InterestingAgents returns the sorted set of interesting (ego) agent ids.
func (c *Case) InterestingAgents() []int64 { return slices.Clone(c.interestingAgents) }

// NumAgents returns the number of distinct agent ids across all three
// track partitions. An agent appearing in several partitions counts once.
func (c *Case) NumAgents() int {
	c.agentsOnce.Do(func() {
		seen := make(map[int64]struct{})
		for _, part := range [][]*Track{c.history, c.current, c.futural} {
			for _, tr := range part {
				seen[tr.AgentID()] = struct{}{}
			}
		}
		c.numAgents = len(seen)
	})
	return c.numAgents
}

// Equal reports case identity: same location and case id. Track payloads
// are deliberately ignored.
func (c *Case) Equal(o *Case) bool {
	if o == nil {
		return false
	}
	return c.location == o.location && c.caseID == o.caseID
}

// Hash returns the identity hash over (location, case id) only, matching
// Equal.
func (c *Case) Hash() uint64 {
	h := fnvHasher()
	h.writeString(c.location)
	h.write(uint64(c.caseID))
	return h.sum()
}

// Compare orders two cases of the same location by case id, returning -1,
// 0 or +1. Comparing cases from different locations returns
// ErrDifferentLocations.
func (c *Case) Compare(o *Case) (int, error) {
	if c.location != o.location {
		return 0, ErrDifferentLocations
	}
	switch {
	case c.caseID < o.caseID:
		return -1, nil
	case c.caseID > o.caseID:
		return 1, nil
	default:
		return 0, nil
	}
}
