package services

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"freight-break-service/internal/domain"
)

func TestVehiclesForFlow(t *testing.T) {
	params := domain.FleetParams{CapacityTonnes: 25, AnnualRangeKm: 100000}

	got := VehiclesForFlow(562.8, params, 2.0)
	if !scalar.EqualWithinAbs(got, 0.45024, 1e-9) {
		t.Fatalf("vehicles = %v, want 0.45024", got)
	}
}

func TestBuildFloorsKeepsStrongestBoundPerNode(t *testing.T) {
	planner := NewBreakPlanner(0, nil)
	p := directPath("P2", 838.6)
	events := planner.Plan(838.6)
	augmented, _ := AugmentPath(p, TargetDistances(events))
	breaks, err := LocateBreaks(augmented, events, planner.SpeedKmh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fleet := map[domain.FleetKey]domain.FleetParams{
		{Year: 2035, Technology: "BEV", Generation: 2}: {CapacityTonnes: 25, AnnualRangeKm: 100000},
	}
	flows := []domain.FlowRecord{{
		Year: 2035, Product: "steel",
		Origin: "A", Destination: "B", PathID: "P2",
		Technology: "BEV", Fuel: "electricity", Generation: 2,
		Volume: 2.0,
	}}

	floors, skipped := BuildTravelTimeFloors(augmented, breaks, flows, fleet)
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}

	// Both synthetic stops reuse node id B, so the two break bounds collapse
	// onto one key and the stronger (second) one must win.
	if len(floors) != 1 {
		t.Fatalf("expected 1 floor, got %d", len(floors))
	}
	f := floors[0]
	if f.NodeID != "B" || f.PathID != "P2" || f.Technology != "BEV" {
		t.Fatalf("unexpected floor key: %+v", f.FloorKey)
	}

	vehicles := VehiclesForFlow(augmented.TotalKm(), fleet[domain.FleetKey{Year: 2035, Technology: "BEV", Generation: 2}], 2.0)
	want := 18.75 * vehicles
	if !scalar.EqualWithinAbs(f.MinTravelTimeHours, want, 1e-9) {
		t.Fatalf("floor = %v h, want %v", f.MinTravelTimeHours, want)
	}
}

func TestBuildFloorsEmitsPerRealNode(t *testing.T) {
	p := domain.PathRecord{
		PathID:               "P8",
		Origin:               "A",
		Destination:          "E",
		LengthKm:             838.6,
		Sequence:             []string{"A", "B", "C", "D", "E"},
		DistanceFromPrevious: []float64{0, 200, 210, 315, 113.6},
		CumulativeDistance:   []float64{0, 200, 410, 725, 838.6},
		OriginAnchor:         []bool{true, false, false, false, false},
		Synthetic:            []bool{false, false, false, false, false},
	}
	planner := NewBreakPlanner(0, nil)
	events := planner.Plan(838.6)
	breaks, err := LocateBreaks(p, events, planner.SpeedKmh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fleet := map[domain.FleetKey]domain.FleetParams{
		{Year: 2040, Technology: "FCEV", Generation: 1}: {CapacityTonnes: 20, AnnualRangeKm: 120000},
	}
	flows := []domain.FlowRecord{{
		Year: 2040, Product: "chemicals",
		Origin: "A", Destination: "E", PathID: "P8",
		Technology: "FCEV", Fuel: "hydrogen", Generation: 1,
		Volume: 1.5,
	}}

	floors, skipped := BuildTravelTimeFloors(p, breaks, flows, fleet)
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	if len(floors) != 2 {
		t.Fatalf("expected 2 floors, got %d", len(floors))
	}
	if floors[0].NodeID != "C" || floors[1].NodeID != "D" {
		t.Fatalf("floor nodes = %q, %q; want C, D", floors[0].NodeID, floors[1].NodeID)
	}
	if floors[1].MinTravelTimeHours <= floors[0].MinTravelTimeHours {
		t.Fatal("later break must impose the larger floor")
	}
}

func TestBuildFloorsSkipsUnusableFleetParams(t *testing.T) {
	planner := NewBreakPlanner(0, nil)
	p := directPath("P9", 562.8)
	events := planner.Plan(562.8)
	augmented, _ := AugmentPath(p, TargetDistances(events))
	breaks, err := LocateBreaks(augmented, events, planner.SpeedKmh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fleet := map[domain.FleetKey]domain.FleetParams{
		{Year: 2035, Technology: "BEV", Generation: 1}: {CapacityTonnes: 0, AnnualRangeKm: 100000},
	}
	flows := []domain.FlowRecord{
		{Year: 2035, PathID: "P9", Technology: "BEV", Generation: 1, Volume: 1},
		{Year: 2035, PathID: "P9", Technology: "diesel", Generation: 1, Volume: 1},
		{Year: 2035, PathID: "OTHER", Technology: "BEV", Generation: 1, Volume: 1},
	}

	floors, skipped := BuildTravelTimeFloors(augmented, breaks, flows, fleet)
	if len(floors) != 0 {
		t.Fatalf("expected no floors, got %d", len(floors))
	}
	if len(skipped) != 2 {
		t.Fatalf("expected 2 skipped combinations, got %d", len(skipped))
	}
	reasons := map[string]bool{}
	for _, s := range skipped {
		reasons[s.Reason] = true
	}
	if !reasons["no fleet parameters"] || !reasons["non-positive capacity or annual range"] {
		t.Fatalf("unexpected skip reasons: %v", skipped)
	}
}

func TestBuildFloorsWithoutBreaks(t *testing.T) {
	floors, skipped := BuildTravelTimeFloors(directPath("P10", 100), nil, nil, nil)
	if floors != nil || skipped != nil {
		t.Fatalf("expected no output, got %v, %v", floors, skipped)
	}
}
