package maps

import "testing"

func TestWayTypeIsLaneBoundary(t *testing.T) {
	boundaries := []WayType{
		WayCurbstone, WayLineThin, WayLineThick, WayPedestrianMarking,
		WayBikeMarking, WayVirtual, WayRoadBorder, WayGuardRail,
	}
	for _, typ := range boundaries {
		if !typ.IsLaneBoundary() {
			t.Errorf("%s.IsLaneBoundary() = false, want true", typ)
		}
	}
	for _, typ := range []WayType{WayStopLine, WayTrafficSign} {
		if typ.IsLaneBoundary() {
			t.Errorf("%s.IsLaneBoundary() = true, want false", typ)
		}
	}
}

func TestParseWayType(t *testing.T) {
	typ, err := ParseWayType("line_thin")
	if err != nil {
		t.Fatalf("ParseWayType(line_thin): %v", err)
	}
	if typ != WayLineThin {
		t.Errorf("ParseWayType(line_thin) = %s, want %s", typ, WayLineThin)
	}
	if _, err := ParseWayType("diagonal"); err == nil {
		t.Error("ParseWayType(diagonal) succeeded, want error")
	}
}

func TestParseLaneletSubType(t *testing.T) {
	for _, raw := range []string{"road", "highway", "bicycle_lane", "walkway", "crosswalk", "emergency_lane"} {
		if _, err := ParseLaneletSubType(raw); err != nil {
			t.Errorf("ParseLaneletSubType(%s): %v", raw, err)
		}
	}
	if _, err := ParseLaneletSubType("runway"); err == nil {
		t.Error("ParseLaneletSubType(runway) succeeded, want error")
	}
}

func TestParseMultiPolygonSubType(t *testing.T) {
	for _, raw := range []string{"crosswalk", "keepout"} {
		if _, err := ParseMultiPolygonSubType(raw); err != nil {
			t.Errorf("ParseMultiPolygonSubType(%s): %v", raw, err)
		}
	}
	if _, err := ParseMultiPolygonSubType("lake"); err == nil {
		t.Error("ParseMultiPolygonSubType(lake) succeeded, want error")
	}
}

func TestParseRegulatoryElementSubType(t *testing.T) {
	for _, raw := range []string{"right_of_way", "traffic_light", "all_way_stop"} {
		if _, err := ParseRegulatoryElementSubType(raw); err != nil {
			t.Errorf("ParseRegulatoryElementSubType(%s): %v", raw, err)
		}
	}
	if _, err := ParseRegulatoryElementSubType("roundabout"); err == nil {
		t.Error("ParseRegulatoryElementSubType(roundabout) succeeded, want error")
	}
}
