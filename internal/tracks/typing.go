// Package tracks holds the immutable trajectory containers of the dataset:
// a MotionState is one timestamped kinematic sample of an agent, a Track is
// one agent's time-ordered sample sequence, and a Case groups the tracks of
// a scenario into history, current and futural partitions.
package tracks

import "fmt"

// AgentType classifies the observed agent of a track. Values are
// categorical and serialize to one-hot vectors for model input.
type AgentType int

const (
	// AgentUndefined is the placeholder for unclassified agents. It has
	// no slot in the one-hot encoding.
	AgentUndefined AgentType = iota
	// AgentCar is a passenger vehicle.
	AgentCar
	// AgentPedestrianBicycle is a pedestrian or a bicycle.
	AgentPedestrianBicycle

	numAgentTypes = iota
)

// Valid reports whether t is a defined agent type.
func (t AgentType) Valid() bool {
	return t >= AgentUndefined && t < numAgentTypes
}

func (t AgentType) String() string {
	switch t {
	case AgentUndefined:
		return "undefined"
	case AgentCar:
		return "car"
	case AgentPedestrianBicycle:
		return "pedestrian/bicycle"
	default:
		return fmt.Sprintf("AgentType(%d)", int(t))
	}
}

// ParseAgentType converts a track-file label into an AgentType.
func ParseAgentType(s string) (AgentType, error) {
	switch s {
	case "car":
		return AgentCar, nil
	case "pedestrian/bicycle", "pedestrian", "bicycle":
		return AgentPedestrianBicycle, nil
	case "undefined", "":
		return AgentUndefined, nil
	default:
		return AgentUndefined, fmt.Errorf("unknown agent type %q", s)
	}
}

// OneHotSerialize encodes the agent type as a one-hot vector with one slot
// per defined type excluding AgentUndefined, which encodes to all zeros.
func (t AgentType) OneHotSerialize() []int {
	vec := make([]int, numAgentTypes-1)
	if t > AgentUndefined && t.Valid() {
		vec[int(t)-1] = 1
	}
	return vec
}
