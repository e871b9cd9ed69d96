package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"freight-break-service/internal/adapters/repositories"
	"freight-break-service/internal/api/dto"
	"freight-break-service/internal/domain"
)

func testDeps() (*repositories.MemoryPathRepository, *repositories.MemoryScenarioRepository, *repositories.MemoryResultStore) {
	long := domain.PathRecord{
		PathID:               "p-long",
		Origin:               "A",
		Destination:          "B",
		LengthKm:             562.8,
		Sequence:             []string{"A", "B"},
		DistanceFromPrevious: []float64{0, 562.8},
		CumulativeDistance:   []float64{0, 562.8},
		OriginAnchor:         []bool{true, false},
		Synthetic:            []bool{false, false},
	}
	repo := repositories.NewMemoryPathRepository(long)

	fleet := map[domain.FleetKey]domain.FleetParams{
		{Year: 2035, Technology: "BEV", Generation: 2}: {CapacityTonnes: 25, AnnualRangeKm: 100000},
	}
	flows := []domain.FlowRecord{{
		Year: 2035, Product: "steel",
		Origin: "A", Destination: "B", PathID: "p-long",
		Technology: "BEV", Fuel: "electricity", Generation: 2,
		Volume: 2.0,
	}}
	scen := repositories.NewMemoryScenarioRepository(fleet, flows)
	store := repositories.NewMemoryResultStore()

	return repo, scen, store
}

func testRouter() (http.Handler, *repositories.MemoryPathRepository) {
	repo, scen, store := testDeps()
	return NewRouter(repo, scen, store, nil, 0), repo
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("status field = %q, want ok", body["status"])
	}
}

func TestPreprocessAndQueryResults(t *testing.T) {
	router, repo := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/preprocess", strings.NewReader(`{}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("preprocess status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var summary dto.PreprocessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected a run id")
	}
	if summary.Paths != 1 || summary.Failed != 0 || summary.Breaks != 1 || summary.Floors != 1 {
		t.Fatalf("summary = %+v, want 1 path, 0 failed, 1 break, 1 floor", summary)
	}
	if summary.SpeedKmh != 80 || summary.Policy != "alternating" {
		t.Fatalf("defaults = %v km/h, %q; want 80, alternating", summary.SpeedKmh, summary.Policy)
	}

	if p, _ := repo.Get("p-long"); p.NodeCount() != 3 {
		t.Fatalf("stored path has %d nodes after preprocessing, want 3", p.NodeCount())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/breaks?path_id=p-long", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("breaks status = %d, want 200", rec.Code)
	}
	var breaks dto.ListBreaksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &breaks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(breaks.Breaks) != 1 {
		t.Fatalf("breaks = %d, want 1", len(breaks.Breaks))
	}
	b := breaks.Breaks[0]
	if b.Kind != "SHORT_BREAK" || b.Charging != "fast" || b.TimeWithBreaksHours != 5.25 {
		t.Fatalf("break = %+v, want SHORT_BREAK/fast at 5.25 h", b)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/floors?path_id=p-long", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("floors status = %d, want 200", rec.Code)
	}
	var floors dto.ListFloorsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &floors); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(floors.Floors) != 1 {
		t.Fatalf("floors = %d, want 1", len(floors.Floors))
	}
	if floors.Floors[0].NodeID != "B" || floors.Floors[0].MinTravelTimeHours <= 0 {
		t.Fatalf("floor = %+v, want positive bound at node B", floors.Floors[0])
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/paths", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("paths status = %d, want 200", rec.Code)
	}
	var paths dto.ListPathsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &paths); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths.Paths) != 1 || len(paths.Paths[0].Nodes) != 3 {
		t.Fatalf("paths response = %+v, want 1 path with 3 nodes", paths)
	}
	if !paths.Paths[0].Nodes[1].Synthetic {
		t.Fatal("middle node should be flagged synthetic")
	}
}

func TestPreprocessUsesConfiguredDefaultSpeed(t *testing.T) {
	repo, scen, store := testDeps()
	router := NewRouter(repo, scen, store, nil, 90)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/preprocess", strings.NewReader(`{}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var summary dto.PreprocessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.SpeedKmh != 90 {
		t.Fatalf("speed = %v, want configured default 90", summary.SpeedKmh)
	}
	if summary.Breaks != 1 {
		t.Fatalf("breaks = %d, want 1", summary.Breaks)
	}

	// An explicit request value still wins over the configured default.
	repo, scen, store = testDeps()
	router = NewRouter(repo, scen, store, nil, 90)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/preprocess", strings.NewReader(`{"speed_kmh": 80}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.SpeedKmh != 80 {
		t.Fatalf("speed = %v, want explicit 80", summary.SpeedKmh)
	}
}

func TestPreprocessRequestValidation(t *testing.T) {
	router, _ := testRouter()

	cases := []struct {
		name string
		body string
	}{
		{"unknown field", `{"speed": 80}`},
		{"speed out of range", `{"speed_kmh": 500}`},
		{"negative parallelism", `{"parallelism": -2}`},
		{"unknown policy", `{"policy": "siesta"}`},
		{"trailing data", `{} {}`},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/preprocess", strings.NewReader(tc.body)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preprocess", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d, want 405", rec.Code)
	}
}

func TestBreaksRequirePathID(t *testing.T) {
	router, _ := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/breaks", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/floors", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
