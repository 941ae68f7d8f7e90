package tracks

import (
	"errors"
	"math"
	"sync"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/mat"

	"github.com/ChocolateDave/interaction-devkit/internal/schema"
)

// ErrDifferentAgents is returned when two motion states of different
// agents are compared: their order is undefined.
var ErrDifferentAgents = errors.New("motion states of different agents have no defined order")

// MotionState is a single timestamped kinematic sample of one agent.
// Heading, length and width are optional: partially observed agents
// (pedestrians, distant vehicles) commonly lack them.
type MotionState struct {
	agentID     int64
	timestampMs int64
	positionX   float64
	positionY   float64
	velocityX   float64
	velocityY   float64
	heading     *float64
	length      *float64
	width       *float64

	boxOnce sync.Once
	box     orb.Polygon
	hasBox  bool
}

// MotionStateParams collects the constructor arguments for a motion state.
// Optional attributes stay nil when unobserved.
type MotionStateParams struct {
	AgentID     int64
	TimestampMs int64
	PositionX   float64
	PositionY   float64
	VelocityX   float64
	VelocityY   float64
	Heading     *float64
	Length      *float64
	Width       *float64
}

var motionStateFields = []string{
	"agent_id", "timestamp_ms", "position_x", "position_y",
	"velocity_x", "velocity_y", "heading", "length", "width",
}

// NewMotionState builds a validated motion state.
func NewMotionState(p MotionStateParams) (*MotionState, error) {
	if p.AgentID < 0 {
		return nil, schema.Invalid("agent_id", "must be non-negative, got %d", p.AgentID)
	}
	if p.TimestampMs < 0 {
		return nil, schema.Invalid("timestamp_ms", "must be non-negative, got %d", p.TimestampMs)
	}
	for _, check := range []struct {
		name  string
		value float64
	}{
		{"position_x", p.PositionX},
		{"position_y", p.PositionY},
		{"velocity_x", p.VelocityX},
		{"velocity_y", p.VelocityY},
	} {
		if math.IsNaN(check.value) || math.IsInf(check.value, 0) {
			return nil, schema.Invalid(check.name, "must be finite, got %v", check.value)
		}
	}
	if p.Length != nil && *p.Length <= 0 {
		return nil, schema.Invalid("length", "must be positive, got %v", *p.Length)
	}
	if p.Width != nil && *p.Width <= 0 {
		return nil, schema.Invalid("width", "must be positive, got %v", *p.Width)
	}
	if p.Heading != nil && (math.IsNaN(*p.Heading) || math.IsInf(*p.Heading, 0)) {
		return nil, schema.Invalid("heading", "must be finite, got %v", *p.Heading)
	}
	return &MotionState{
		agentID:     p.AgentID,
		timestampMs: p.TimestampMs,
		positionX:   p.PositionX,
		positionY:   p.PositionY,
		velocityX:   p.VelocityX,
		velocityY:   p.VelocityY,
		heading:     cloneFloat(p.Heading),
		length:      cloneFloat(p.Length),
		width:       cloneFloat(p.Width),
	}, nil
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// DeserializeMotionState constructs a motion state from a field mapping.
// The optional heading/length/width keys must be present; their values may
// be nil.
func DeserializeMotionState(f schema.Fields) (*MotionState, error) {
	if err := f.Require(motionStateFields...); err != nil {
		return nil, err
	}
	agentID, err := f.NonNegInt("agent_id")
	if err != nil {
		return nil, err
	}
	timestamp, err := f.NonNegInt("timestamp_ms")
	if err != nil {
		return nil, err
	}
	px, err := f.Float("position_x")
	if err != nil {
		return nil, err
	}
	py, err := f.Float("position_y")
	if err != nil {
		return nil, err
	}
	vx, err := f.Float("velocity_x")
	if err != nil {
		return nil, err
	}
	vy, err := f.Float("velocity_y")
	if err != nil {
		return nil, err
	}
	heading, err := f.OptionalFloat("heading")
	if err != nil {
		return nil, err
	}
	length, err := f.OptionalFloat("length")
	if err != nil {
		return nil, err
	}
	width, err := f.OptionalFloat("width")
	if err != nil {
		return nil, err
	}
	return NewMotionState(MotionStateParams{
		AgentID:     agentID,
		TimestampMs: timestamp,
		PositionX:   px,
		PositionY:   py,
		VelocityX:   vx,
		VelocityY:   vy,
		Heading:     heading,
		Length:      length,
		Width:       width,
	})
}

// Serialize returns the motion state's field mapping. Optional attributes
// serialize as nil when absent.
func (m *MotionState) Serialize() schema.Fields {
	f := schema.Fields{
		"agent_id":     m.agentID,
		"timestamp_ms": m.timestampMs,
		"position_x":   m.positionX,
		"position_y":   m.positionY,
		"velocity_x":   m.velocityX,
		"velocity_y":   m.velocityY,
		"heading":      nil,
		"length":       nil,
		"width":        nil,
	}
	if m.heading != nil {
		f["heading"] = *m.heading
	}
	if m.length != nil {
		f["length"] = *m.length
	}
	if m.width != nil {
		f["width"] = *m.width
	}
	return f
}

// AgentID returns the id of the observed agent.
func (m *MotionState) AgentID() int64 { return m.agentID }

// TimestampMs returns the sample timestamp in milliseconds.
func (m *MotionState) TimestampMs() int64 { return m.timestampMs }

// Position returns the agent position in meters.
func (m *MotionState) Position() (x, y float64) { return m.positionX, m.positionY }

// Velocity returns the agent velocity in meters per second.
func (m *MotionState) Velocity() (vx, vy float64) { return m.velocityX, m.velocityY }

// Heading returns the heading in radians and whether it was observed.
func (m *MotionState) Heading() (float64, bool) {
	if m.heading == nil {
		return 0, false
	}
	return *m.heading, true
}

// Length returns the agent length in meters and whether it was observed.
func (m *MotionState) Length() (float64, bool) {
	if m.length == nil {
		return 0, false
	}
	return *m.length, true
}

// Width returns the agent width in meters and whether it was observed.
func (m *MotionState) Width() (float64, bool) {
	if m.width == nil {
		return 0, false
	}
	return *m.width, true
}

// Speed returns the speed magnitude in meters per second.
func (m *MotionState) Speed() float64 {
	return math.Hypot(m.velocityX, m.velocityY)
}

// ToGeometry converts the motion state to a point at the agent position.
func (m *MotionState) ToGeometry() orb.Point {
	return orb.Point{m.positionX, m.positionY}
}

// BoundingBox returns the oriented bounding box of the agent and true, or
// a zero polygon and false when any of heading, length or width is absent.
// Corners are ordered rear-right, rear-left, front-left, front-right. The
// box is an axis-aligned rectangle about the origin rotated by heading
// (counter-clockwise, radians) and translated to the agent position. The
// result is computed once and a copy returned.
func (m *MotionState) BoundingBox() (orb.Polygon, bool) {
	m.boxOnce.Do(func() {
		if m.heading == nil || m.length == nil || m.width == nil {
			return
		}
		halfLength := *m.length / 2
		halfWidth := *m.width / 2
		corners := mat.NewDense(4, 2, []float64{
			-halfLength, -halfWidth, // rear-right
			-halfLength, halfWidth, // rear-left
			halfLength, halfWidth, // front-left
			halfLength, -halfWidth, // front-right
		})
		sin, cos := math.Sincos(*m.heading)
		rotation := mat.NewDense(2, 2, []float64{
			cos, -sin,
			sin, cos,
		})

		var rotated mat.Dense
		rotated.Mul(corners, rotation.T())

		ring := make(orb.Ring, 4)
		for i := 0; i < 4; i++ {
			ring[i] = orb.Point{
				rotated.At(i, 0) + m.positionX,
				rotated.At(i, 1) + m.positionY,
			}
		}
		m.box = orb.Polygon{ring}
		m.hasBox = true
	})
	if !m.hasBox {
		return nil, false
	}
	return m.box.Clone(), true
}

// Compare orders two motion states of the same agent by timestamp,
// returning -1, 0 or +1. Comparing states of different agents returns
// ErrDifferentAgents.
func (m *MotionState) Compare(o *MotionState) (int, error) {
	if m.agentID != o.agentID {
		return 0, ErrDifferentAgents
	}
	switch {
	case m.timestampMs < o.timestampMs:
		return -1, nil
	case m.timestampMs > o.timestampMs:
		return 1, nil
	default:
		return 0, nil
	}
}

// Hash returns a structural hash over every attribute.
func (m *MotionState) Hash() uint64 {
	h := fnvHasher()
	h.write(uint64(m.agentID))
	h.write(uint64(m.timestampMs))
	h.write(math.Float64bits(m.positionX))
	h.write(math.Float64bits(m.positionY))
	h.write(math.Float64bits(m.velocityX))
	h.write(math.Float64bits(m.velocityY))
	for _, opt := range []*float64{m.heading, m.length, m.width} {
		if opt == nil {
			h.write(0)
			continue
		}
		h.write(1)
		h.write(math.Float64bits(*opt))
	}
	return h.sum()
}

// Equal reports structural equality with another motion state.
func (m *MotionState) Equal(o *MotionState) bool {
	if o == nil {
		return false
	}
	if m.agentID != o.agentID || m.timestampMs != o.timestampMs {
		return false
	}
	if m.positionX != o.positionX || m.positionY != o.positionY {
		return false
	}
	if m.velocityX != o.velocityX || m.velocityY != o.velocityY {
		return false
	}
	return equalFloat(m.heading, o.heading) &&
		equalFloat(m.length, o.length) &&
		equalFloat(m.width, o.width)
}

func equalFloat(a, b *float64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}
