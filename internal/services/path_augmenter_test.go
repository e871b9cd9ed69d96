package services

import (
	"reflect"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"freight-break-service/internal/domain"
)

func directPath(id string, lengthKm float64) domain.PathRecord {
	return domain.PathRecord{
		PathID:               id,
		Origin:               "A",
		Destination:          "B",
		LengthKm:             lengthKm,
		Sequence:             []string{"A", "B"},
		DistanceFromPrevious: []float64{0, lengthKm},
		CumulativeDistance:   []float64{0, lengthKm},
		OriginAnchor:         []bool{true, false},
		Synthetic:            []bool{false, false},
	}
}

func TestAugmentInsertsSyntheticStop(t *testing.T) {
	p := directPath("P1", 562.8)
	before := p.Clone()

	out, changed := AugmentPath(p, []float64{360})
	if !changed {
		t.Fatal("expected augmentation")
	}
	if !reflect.DeepEqual(p, before) {
		t.Fatal("input record was mutated")
	}

	wantSeq := []string{"A", "B", "B"}
	if !reflect.DeepEqual(out.Sequence, wantSeq) {
		t.Fatalf("sequence = %v, want %v", out.Sequence, wantSeq)
	}
	if !reflect.DeepEqual(out.OriginAnchor, []bool{true, false, false}) {
		t.Fatalf("origin anchors = %v, want only the first set", out.OriginAnchor)
	}
	if !reflect.DeepEqual(out.Synthetic, []bool{false, true, false}) {
		t.Fatalf("synthetic flags = %v, want only the middle set", out.Synthetic)
	}

	wantDFP := []float64{0, 360, 202.8}
	for i, want := range wantDFP {
		if !scalar.EqualWithinAbs(out.DistanceFromPrevious[i], want, domain.DistanceTolKm) {
			t.Fatalf("distance_from_previous[%d] = %v, want %v", i, out.DistanceFromPrevious[i], want)
		}
	}
	wantCum := []float64{0, 360, 562.8}
	for i, want := range wantCum {
		if !scalar.EqualWithinAbs(out.CumulativeDistance[i], want, domain.DistanceTolKm) {
			t.Fatalf("cumulative_distance[%d] = %v, want %v", i, out.CumulativeDistance[i], want)
		}
	}
	if got := out.CumulativeDistance[2]; got != 562.8 {
		t.Fatalf("final cumulative distance = %v, want exactly 562.8", got)
	}
}

func TestAugmentInsertsOneStopPerTarget(t *testing.T) {
	p := directPath("P2", 838.6)

	out, changed := AugmentPath(p, []float64{360, 720})
	if !changed {
		t.Fatal("expected augmentation")
	}
	if out.NodeCount() != 4 {
		t.Fatalf("node count = %d, want 4", out.NodeCount())
	}
	if !reflect.DeepEqual(out.Sequence, []string{"A", "B", "B", "B"}) {
		t.Fatalf("sequence = %v", out.Sequence)
	}
	if !reflect.DeepEqual(out.Synthetic, []bool{false, true, true, false}) {
		t.Fatalf("synthetic flags = %v", out.Synthetic)
	}

	wantCum := []float64{0, 360, 720, 838.6}
	for i, want := range wantCum {
		if !scalar.EqualWithinAbs(out.CumulativeDistance[i], want, domain.DistanceTolKm) {
			t.Fatalf("cumulative_distance[%d] = %v, want %v", i, out.CumulativeDistance[i], want)
		}
	}
}

func TestAugmentIsIdempotent(t *testing.T) {
	p := directPath("P3", 838.6)
	targets := []float64{360, 720}

	first, changed := AugmentPath(p, targets)
	if !changed {
		t.Fatal("expected first augmentation to change the path")
	}

	second, changed := AugmentPath(first, targets)
	if changed {
		t.Fatal("expected second augmentation to be a no-op")
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second augmentation altered the record:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestAugmentLeavesRealIntermediateNodesAlone(t *testing.T) {
	p := domain.PathRecord{
		PathID:               "P4",
		Origin:               "A",
		Destination:          "D",
		LengthKm:             562.8,
		Sequence:             []string{"A", "B", "C", "D"},
		DistanceFromPrevious: []float64{0, 200, 210, 152.8},
		CumulativeDistance:   []float64{0, 200, 410, 562.8},
		OriginAnchor:         []bool{true, false, false, false},
		Synthetic:            []bool{false, false, false, false},
	}

	out, changed := AugmentPath(p, []float64{360})
	if changed {
		t.Fatal("expected no augmentation for a path with intermediate nodes")
	}
	if !reflect.DeepEqual(out, p) {
		t.Fatal("record changed despite no-op")
	}
}

func TestAugmentExpandsSingleNodeStub(t *testing.T) {
	p := domain.PathRecord{
		PathID:               "P5",
		Origin:               "A",
		Destination:          "B",
		LengthKm:             562.8,
		Sequence:             []string{"A"},
		DistanceFromPrevious: []float64{0},
		CumulativeDistance:   []float64{0},
		OriginAnchor:         []bool{true},
		Synthetic:            []bool{false},
	}

	out, changed := AugmentPath(p, []float64{360})
	if !changed {
		t.Fatal("expected augmentation of the stub")
	}
	if !reflect.DeepEqual(out.Sequence, []string{"A", "B", "B"}) {
		t.Fatalf("sequence = %v, want [A B B]", out.Sequence)
	}
	if !scalar.EqualWithinAbs(out.TotalKm(), 562.8, domain.DistanceTolKm) {
		t.Fatalf("total = %v km, want 562.8", out.TotalKm())
	}
}

func TestAugmentDropsTargetsBeyondPathEnd(t *testing.T) {
	p := directPath("P6", 562.8)

	out, changed := AugmentPath(p, []float64{360, 600})
	if !changed {
		t.Fatal("expected augmentation")
	}
	if out.NodeCount() != 3 {
		t.Fatalf("node count = %d, want 3 (unreachable target dropped)", out.NodeCount())
	}

	out2, changed := AugmentPath(p, []float64{600})
	if changed {
		t.Fatal("expected no-op when every target is unreachable")
	}
	if !reflect.DeepEqual(out2, p) {
		t.Fatal("record changed despite no-op")
	}
}

func TestAugmentRoundTripPreservesLength(t *testing.T) {
	for _, lengthKm := range []float64{562.8, 838.6, 1234.567} {
		p := directPath("P7", lengthKm)
		planner := NewBreakPlanner(0, nil)

		out, _ := AugmentPath(p, TargetDistances(planner.Plan(lengthKm)))
		if got := floats.Sum(out.DistanceFromPrevious); !scalar.EqualWithinAbs(got, lengthKm, domain.DistanceTolKm) {
			t.Fatalf("sum of segments = %v km, want %v", got, lengthKm)
		}
	}
}
