package maps

import "fmt"

// WayType classifies a way's role in the map: physical lane boundaries,
// painted markings, and reference lines such as stop lines or sign mounts.
type WayType string

const (
	WayCurbstone         WayType = "curbstone"
	WayLineThin          WayType = "line_thin"
	WayLineThick         WayType = "line_thick"
	WayPedestrianMarking WayType = "pedestrian_marking"
	WayBikeMarking       WayType = "bike_marking"
	WayStopLine          WayType = "stop_line"
	WayVirtual           WayType = "virtual"
	WayRoadBorder        WayType = "road_border"
	WayGuardRail         WayType = "guard_rail"
	WayTrafficSign       WayType = "traffic_sign"
)

var wayTypes = []WayType{
	WayCurbstone, WayLineThin, WayLineThick, WayPedestrianMarking,
	WayBikeMarking, WayStopLine, WayVirtual, WayRoadBorder,
	WayGuardRail, WayTrafficSign,
}

// Valid reports whether t is a defined way type.
func (t WayType) Valid() bool {
	for _, known := range wayTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsLaneBoundary reports whether a way of this type may serve as the left
// or right boundary of a lanelet.
func (t WayType) IsLaneBoundary() bool {
	switch t {
	case WayCurbstone, WayLineThin, WayLineThick, WayPedestrianMarking,
		WayBikeMarking, WayVirtual, WayRoadBorder, WayGuardRail:
		return true
	}
	return false
}

func (t WayType) String() string { return string(t) }

// ParseWayType converts a map-file tag value into a WayType.
func ParseWayType(s string) (WayType, error) {
	t := WayType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown way type %q", s)
	}
	return t, nil
}

// LaneletSubType classifies the traffic a lanelet carries.
type LaneletSubType string

const (
	LaneletRoad          LaneletSubType = "road"
	LaneletHighway       LaneletSubType = "highway"
	LaneletBicycleLane   LaneletSubType = "bicycle_lane"
	LaneletWalkway       LaneletSubType = "walkway"
	LaneletCrosswalk     LaneletSubType = "crosswalk"
	LaneletEmergencyLane LaneletSubType = "emergency_lane"
)

var laneletSubTypes = []LaneletSubType{
	LaneletRoad, LaneletHighway, LaneletBicycleLane,
	LaneletWalkway, LaneletCrosswalk, LaneletEmergencyLane,
}

// Valid reports whether t is a defined lanelet subtype.
func (t LaneletSubType) Valid() bool {
	for _, known := range laneletSubTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t LaneletSubType) String() string { return string(t) }

// ParseLaneletSubType converts a map-file tag value into a LaneletSubType.
func ParseLaneletSubType(s string) (LaneletSubType, error) {
	t := LaneletSubType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown lanelet subtype %q", s)
	}
	return t, nil
}

// MultiPolygonSubType classifies an area element.
type MultiPolygonSubType string

const (
	MultiPolygonCrosswalk MultiPolygonSubType = "crosswalk"
	MultiPolygonKeepout   MultiPolygonSubType = "keepout"
)

var multiPolygonSubTypes = []MultiPolygonSubType{
	MultiPolygonCrosswalk, MultiPolygonKeepout,
}

// Valid reports whether t is a defined multipolygon subtype.
func (t MultiPolygonSubType) Valid() bool {
	for _, known := range multiPolygonSubTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t MultiPolygonSubType) String() string { return string(t) }

// ParseMultiPolygonSubType converts a map-file tag value into a
// MultiPolygonSubType.
func ParseMultiPolygonSubType(s string) (MultiPolygonSubType, error) {
	t := MultiPolygonSubType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown multipolygon subtype %q", s)
	}
	return t, nil
}

// RegulatoryElementSubType classifies a traffic rule.
type RegulatoryElementSubType string

const (
	RegulatoryRightOfWay   RegulatoryElementSubType = "right_of_way"
	RegulatoryTrafficLight RegulatoryElementSubType = "traffic_light"
	RegulatoryAllWayStop   RegulatoryElementSubType = "all_way_stop"
)

var regulatoryElementSubTypes = []RegulatoryElementSubType{
	RegulatoryRightOfWay, RegulatoryTrafficLight, RegulatoryAllWayStop,
}

// Valid reports whether t is a defined regulatory element subtype.
func (t RegulatoryElementSubType) Valid() bool {
	for _, known := range regulatoryElementSubTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t RegulatoryElementSubType) String() string { return string(t) }

// ParseRegulatoryElementSubType converts a map-file tag value into a
// RegulatoryElementSubType.
func ParseRegulatoryElementSubType(s string) (RegulatoryElementSubType, error) {
	t := RegulatoryElementSubType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown regulatory element subtype %q", s)
	}
	return t, nil
}
