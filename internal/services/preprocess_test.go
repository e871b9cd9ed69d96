package services

import (
	"context"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"freight-break-service/internal/adapters/cache"
	"freight-break-service/internal/adapters/repositories"
	"freight-break-service/internal/domain"
)

func scenarioFixture() (map[domain.FleetKey]domain.FleetParams, []domain.FlowRecord) {
	fleet := map[domain.FleetKey]domain.FleetParams{
		{Year: 2035, Technology: "BEV", Generation: 2}: {CapacityTonnes: 25, AnnualRangeKm: 100000},
	}
	flows := []domain.FlowRecord{{
		Year: 2035, Product: "steel",
		Origin: "A", Destination: "B", PathID: "p-long",
		Technology: "BEV", Fuel: "electricity", Generation: 2,
		Volume: 2.0,
	}}
	return fleet, flows
}

func TestPreprocessPathsEndToEnd(t *testing.T) {
	long := directPath("p-long", 562.8)
	short := directPath("p-short", 100)
	short.Origin, short.Destination = "C", "D"
	short.Sequence = []string{"C", "D"}
	stub := domain.PathRecord{
		PathID:               "p-stub",
		Origin:               "X",
		Destination:          "X",
		Sequence:             []string{"X"},
		DistanceFromPrevious: []float64{0},
		CumulativeDistance:   []float64{0},
		OriginAnchor:         []bool{true},
		Synthetic:            []bool{false},
	}

	repo := repositories.NewMemoryPathRepository(long, short, stub)
	fleet, flows := scenarioFixture()
	scen := repositories.NewMemoryScenarioRepository(fleet, flows)
	store := repositories.NewMemoryResultStore()

	summary, err := PreprocessPaths(context.Background(), PreprocessRequest{}, repo, scen, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Paths != 3 || summary.Failed != 0 {
		t.Fatalf("paths = %d, failed = %d; want 3, 0", summary.Paths, summary.Failed)
	}
	if summary.Augmented != 1 || summary.Breaks != 1 || summary.Floors != 1 {
		t.Fatalf("augmented = %d, breaks = %d, floors = %d; want 1, 1, 1",
			summary.Augmented, summary.Breaks, summary.Floors)
	}
	for _, o := range summary.Outcomes {
		if o.Stage != StageLedgered {
			t.Fatalf("path %s finished at %s, want %s", o.PathID, o.Stage, StageLedgered)
		}
	}
	if !summary.Outcomes[2].Degenerate {
		t.Fatalf("expected %s to be degenerate", summary.Outcomes[2].PathID)
	}

	augmented, ok := repo.Get("p-long")
	if !ok || augmented.NodeCount() != 3 {
		t.Fatalf("stored long path has %d nodes, want 3", augmented.NodeCount())
	}
	unchanged, _ := repo.Get("p-short")
	if unchanged.NodeCount() != 2 {
		t.Fatalf("short path was rewritten to %d nodes", unchanged.NodeCount())
	}

	breaks, err := store.ListBreaks(context.Background(), "p-long")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(breaks) != 1 {
		t.Fatalf("stored breaks = %d, want 1", len(breaks))
	}
	if breaks[0].NodeID != "B" || !scalar.EqualWithinAbs(breaks[0].TimeWithBreaksHours, 5.25, 1e-9) {
		t.Fatalf("stored break = %+v, want node B at 5.25 h", breaks[0])
	}

	floors, err := store.ListFloors(context.Background(), "p-long")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(floors) != 1 {
		t.Fatalf("stored floors = %d, want 1", len(floors))
	}
	if store.RunID("p-long") != summary.RunID {
		t.Fatalf("results written under run %q, want %q", store.RunID("p-long"), summary.RunID)
	}

	// A second run sees the augmented path, anchors every target on it and
	// changes nothing.
	again, err := PreprocessPaths(context.Background(), PreprocessRequest{}, repo, scen, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Augmented != 0 {
		t.Fatalf("second run augmented %d paths, want 0", again.Augmented)
	}
	if again.Breaks != 1 || again.Floors != 1 {
		t.Fatalf("second run breaks = %d, floors = %d; want 1, 1", again.Breaks, again.Floors)
	}
}

func TestPreprocessIsolatesMalformedPaths(t *testing.T) {
	bad := directPath("p-bad", 500)
	bad.DistanceFromPrevious = []float64{0, -500}
	good := directPath("p-good", 562.8)

	repo := repositories.NewMemoryPathRepository(bad, good)
	scen := repositories.NewMemoryScenarioRepository(nil, nil)
	store := repositories.NewMemoryResultStore()

	summary, err := PreprocessPaths(context.Background(), PreprocessRequest{}, repo, scen, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Failed != 1 {
		t.Fatalf("failed = %d, want 1", summary.Failed)
	}
	if summary.Outcomes[0].Err == nil || summary.Outcomes[0].Stage != StageUnplanned {
		t.Fatalf("bad path outcome = %+v, want validation failure at %s", summary.Outcomes[0], StageUnplanned)
	}
	if summary.Outcomes[1].Err != nil || summary.Outcomes[1].Stage != StageLedgered {
		t.Fatalf("good path outcome = %+v, want success", summary.Outcomes[1])
	}

	breaks, _ := store.ListBreaks(context.Background(), "p-good")
	if len(breaks) != 1 {
		t.Fatalf("good path breaks = %d, want 1", len(breaks))
	}
}

func TestPreprocessRepairsInconsistentDistances(t *testing.T) {
	p := directPath("p-skewed", 562.8)
	p.CumulativeDistance = []float64{0, 9999}
	p.LengthKm = 9999

	repo := repositories.NewMemoryPathRepository(p)
	scen := repositories.NewMemoryScenarioRepository(nil, nil)
	store := repositories.NewMemoryResultStore()

	summary, err := PreprocessPaths(context.Background(), PreprocessRequest{}, repo, scen, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o := summary.Outcomes[0]
	if !o.Reconciled {
		t.Fatal("expected the skewed record to be reconciled")
	}
	if o.Err != nil || o.BreakCount != 1 {
		t.Fatalf("outcome = %+v, want 1 break from the rebuilt 562.8 km length", o)
	}
}

func TestPreprocessRejectsUnknownPolicy(t *testing.T) {
	repo := repositories.NewMemoryPathRepository()
	scen := repositories.NewMemoryScenarioRepository(nil, nil)
	store := repositories.NewMemoryResultStore()

	_, err := PreprocessPaths(context.Background(), PreprocessRequest{Policy: "napping"}, repo, scen, store, nil)
	if err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestPreprocessReusesCachedPlans(t *testing.T) {
	// A path with real intermediate nodes is not rewritten, so its cache key
	// stays stable across runs.
	p := domain.PathRecord{
		PathID:               "p-real",
		Origin:               "A",
		Destination:          "D",
		LengthKm:             562.8,
		Sequence:             []string{"A", "B", "C", "D"},
		DistanceFromPrevious: []float64{0, 200, 210, 152.8},
		CumulativeDistance:   []float64{0, 200, 410, 562.8},
		OriginAnchor:         []bool{true, false, false, false},
		Synthetic:            []bool{false, false, false, false},
	}

	repo := repositories.NewMemoryPathRepository(p)
	scen := repositories.NewMemoryScenarioRepository(nil, nil)
	store := repositories.NewMemoryResultStore()
	plans := cache.NewMemoryPlanCache()

	first, err := PreprocessPaths(context.Background(), PreprocessRequest{}, repo, scen, store, plans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Outcomes[0].CacheHit {
		t.Fatal("first run must compute, not hit the cache")
	}
	if plans.Len() != 1 {
		t.Fatalf("cached plans = %d, want 1", plans.Len())
	}

	second, err := PreprocessPaths(context.Background(), PreprocessRequest{}, repo, scen, store, plans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Outcomes[0].CacheHit {
		t.Fatal("second run should have hit the plan cache")
	}
	if second.Breaks != first.Breaks {
		t.Fatalf("cached run produced %d breaks, first run %d", second.Breaks, first.Breaks)
	}
}
