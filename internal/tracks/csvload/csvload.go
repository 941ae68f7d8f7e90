// Package csvload reads dataset track files (CSV, one kinematic sample
// per row) and builds validated tracks.Case values.
//
// Expected columns: case_id, track_id, frame_id, timestamp_ms, agent_type,
// x, y, vx, vy plus optional psi_rad, length, width (empty cells mean the
// attribute was not observed). Optional track_to_predict and
// interesting_agent marker columns feed the case's agent id sets.
package csvload

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/ChocolateDave/interaction-devkit/internal/tracks"
)

// Options configures a load.
type Options struct {
	// Location names the recording location the file belongs to.
	Location string

	// ObservationFrames is the number of leading distinct timestamps
	// treated as observed. The last observed frame is the "current"
	// partition; earlier frames are history, later frames futural.
	ObservationFrames int
}

// DefaultObservationFrames matches the dataset's 10-frame, 100 ms
// observation window.
const DefaultObservationFrames = 10

// DefaultOptions returns loader defaults for the given location.
func DefaultOptions(location string) Options {
	return Options{Location: location, ObservationFrames: DefaultObservationFrames}
}

// Load reads and parses the track file at path.
func Load(path string, opts Options) ([]*tracks.Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track file: %w", err)
	}
	defer f.Close()
	cases, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse track file %s: %w", path, err)
	}
	return cases, nil
}

// row is one parsed CSV record.
type row struct {
	caseID  int64
	agentID int64
	typ     tracks.AgentType
	state   *tracks.MotionState

	toPredict   bool
	interesting bool
}

// columns maps header names to indices.
type columns struct {
	index map[string]int
}

var requiredColumns = []string{
	"case_id", "track_id", "timestamp_ms", "agent_type", "x", "y", "vx", "vy",
}

func newColumns(header []string) (*columns, error) {
	c := &columns{index: make(map[string]int, len(header))}
	for i, name := range header {
		c.index[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := c.index[name]; !ok {
			return nil, fmt.Errorf("track file is missing column %q", name)
		}
	}
	return c, nil
}

func (c *columns) get(record []string, name string) (string, bool) {
	i, ok := c.index[name]
	if !ok || i >= len(record) {
		return "", false
	}
	return record[i], true
}

func (c *columns) int64(record []string, name string) (int64, error) {
	raw, _ := c.get(record, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: bad integer %q", name, raw)
	}
	return v, nil
}

func (c *columns) float(record []string, name string) (float64, error) {
	raw, _ := c.get(record, name)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: bad float %q", name, raw)
	}
	return v, nil
}

// optionalFloat returns nil for an absent column or empty cell.
func (c *columns) optionalFloat(record []string, name string) (*float64, error) {
	raw, ok := c.get(record, name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("column %q: bad float %q", name, raw)
	}
	return &v, nil
}

func (c *columns) marker(record []string, name string) bool {
	raw, ok := c.get(record, name)
	return ok && (raw == "1" || raw == "true")
}

// Parse decodes CSV track data from r into cases ordered by case id.
func Parse(r io.Reader, opts Options) ([]*tracks.Case, error) {
	if opts.Location == "" {
		return nil, fmt.Errorf("location is required")
	}
	if opts.ObservationFrames <= 0 {
		opts.ObservationFrames = DefaultObservationFrames
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := newColumns(header)
	if err != nil {
		return nil, err
	}

	byCase := make(map[int64][]row)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++
		parsed, err := parseRow(cols, record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		byCase[parsed.caseID] = append(byCase[parsed.caseID], parsed)
	}

	caseIDs := make([]int64, 0, len(byCase))
	for id := range byCase {
		caseIDs = append(caseIDs, id)
	}
	sort.Slice(caseIDs, func(i, j int) bool { return caseIDs[i] < caseIDs[j] })

	cases := make([]*tracks.Case, 0, len(caseIDs))
	for _, id := range caseIDs {
		c, err := buildCase(opts, id, byCase[id])
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", id, err)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func parseRow(cols *columns, record []string) (row, error) {
	caseID, err := cols.int64(record, "case_id")
	if err != nil {
		return row{}, err
	}
	agentID, err := cols.int64(record, "track_id")
	if err != nil {
		return row{}, err
	}
	timestamp, err := cols.int64(record, "timestamp_ms")
	if err != nil {
		return row{}, err
	}
	label, _ := cols.get(record, "agent_type")
	typ, err := tracks.ParseAgentType(label)
	if err != nil {
		return row{}, err
	}
	x, err := cols.float(record, "x")
	if err != nil {
		return row{}, err
	}
	y, err := cols.float(record, "y")
	if err != nil {
		return row{}, err
	}
	vx, err := cols.float(record, "vx")
	if err != nil {
		return row{}, err
	}
	vy, err := cols.float(record, "vy")
	if err != nil {
		return row{}, err
	}
	heading, err := cols.optionalFloat(record, "psi_rad")
	if err != nil {
		return row{}, err
	}
	length, err := cols.optionalFloat(record, "length")
	if err != nil {
		return row{}, err
	}
	width, err := cols.optionalFloat(record, "width")
	if err != nil {
		return row{}, err
	}

	state, err := tracks.NewMotionState(tracks.MotionStateParams{
		AgentID:     agentID,
		TimestampMs: timestamp,
		PositionX:   x,
		PositionY:   y,
		VelocityX:   vx,
		VelocityY:   vy,
		Heading:     heading,
		Length:      length,
		Width:       width,
	})
	if err != nil {
		return row{}, err
	}
	return row{
		caseID:      caseID,
		agentID:     agentID,
		typ:         typ,
		state:       state,
		toPredict:   cols.marker(record, "track_to_predict"),
		interesting: cols.marker(record, "interesting_agent"),
	}, nil
}

// buildCase partitions one case's rows by the observation horizon and
// assembles per-agent tracks inside each partition.
func buildCase(opts Options, caseID int64, rows []row) (*tracks.Case, error) {
	currentTs := currentTimestamp(rows, opts.ObservationFrames)

	type agentRows struct {
		typ                       tracks.AgentType
		history, current, futural []*tracks.MotionState
	}
	agents := make(map[int64]*agentRows)
	order := make([]int64, 0)

	var toPredict, interesting []int64
	for _, rw := range rows {
		ar, ok := agents[rw.agentID]
		if !ok {
			ar = &agentRows{typ: rw.typ}
			agents[rw.agentID] = ar
			order = append(order, rw.agentID)
		}
		switch ts := rw.state.TimestampMs(); {
		case ts < currentTs:
			ar.history = append(ar.history, rw.state)
		case ts == currentTs:
			ar.current = append(ar.current, rw.state)
		default:
			ar.futural = append(ar.futural, rw.state)
		}
		if rw.toPredict {
			toPredict = append(toPredict, rw.agentID)
		}
		if rw.interesting {
			interesting = append(interesting, rw.agentID)
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	params := tracks.CaseParams{
		Location:          opts.Location,
		CaseID:            caseID,
		TracksToPredict:   toPredict,
		InterestingAgents: interesting,
	}
	for _, agentID := range order {
		ar := agents[agentID]
		for _, part := range []struct {
			states []*tracks.MotionState
			dst    *[]*tracks.Track
		}{
			{ar.history, &params.HistoryTracks},
			{ar.current, &params.CurrentTracks},
			{ar.futural, &params.FuturalTracks},
		} {
			if len(part.states) == 0 {
				continue
			}
			track, err := tracks.NewTrack(agentID, ar.typ, part.states)
			if err != nil {
				return nil, err
			}
			*part.dst = append(*part.dst, track)
		}
		// Agents observed beyond the horizon are prediction targets
		// even without an explicit marker column.
		if len(ar.futural) > 0 {
			params.TracksToPredict = append(params.TracksToPredict, agentID)
		}
	}
	return tracks.NewCase(params)
}

// currentTimestamp returns the last observed timestamp: the n-th distinct
// timestamp of the case, or the latest one for shorter cases.
func currentTimestamp(rows []row, observationFrames int) int64 {
	distinct := make(map[int64]struct{})
	for _, rw := range rows {
		distinct[rw.state.TimestampMs()] = struct{}{}
	}
	ts := make([]int64, 0, len(distinct))
	for t := range distinct {
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
	if len(ts) == 0 {
		return 0
	}
	idx := observationFrames - 1
	if idx >= len(ts) {
		idx = len(ts) - 1
	}
	return ts[idx]
}
