package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"freight-break-service/internal/api/dto"
	"freight-break-service/internal/platform/obs"
	"freight-break-service/internal/ports"
	"freight-break-service/internal/services"
)

// PreprocessHandler runs the break preprocessing pipeline over every stored
// path and reports the run summary.
type PreprocessHandler struct {
	Paths    ports.PathRepository
	Scenario ports.ScenarioRepository
	Results  ports.ResultStore
	Plans    ports.PlanCache

	// DefaultSpeedKmh applies when a request leaves speed_kmh unset; zero
	// falls through to the planner's built-in default.
	DefaultSpeedKmh float64
}

func (h *PreprocessHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PreprocessRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	speed := req.SpeedKmh
	if speed == 0 {
		speed = h.DefaultSpeedKmh
	}
	if speed != 0 && (speed < 30 || speed > 120) {
		writeError(w, r, http.StatusBadRequest, "speed_kmh must be between 30 and 120")
		return
	}
	if req.Parallelism < 0 || req.Parallelism > 64 {
		writeError(w, r, http.StatusBadRequest, "parallelism must be between 0 and 64")
		return
	}
	if _, err := services.PolicyByName(req.Policy); err != nil {
		writeError(w, r, http.StatusBadRequest, "unknown policy")
		return
	}

	svcReq := services.PreprocessRequest{
		SpeedKmh:    speed,
		Policy:      req.Policy,
		Parallelism: req.Parallelism,
	}

	summary, err := services.PreprocessPaths(r.Context(), svcReq, h.Paths, h.Scenario, h.Results, h.Plans)
	if err != nil {
		obs.Errorf("preprocess failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.PreprocessResponse{
		RunID:         summary.RunID,
		SpeedKmh:      summary.SpeedKmh,
		Policy:        summary.Policy,
		Paths:         summary.Paths,
		Failed:        summary.Failed,
		Augmented:     summary.Augmented,
		Breaks:        summary.Breaks,
		Floors:        summary.Floors,
		SkippedCombos: summary.SkippedCombos,
		DurationMs:    summary.Elapsed.Milliseconds(),
		Outcomes:      make([]dto.PathOutcomeResponse, 0, len(summary.Outcomes)),
	}
	for _, o := range summary.Outcomes {
		outcome := dto.PathOutcomeResponse{
			PathID:        o.PathID,
			Stage:         string(o.Stage),
			Degenerate:    o.Degenerate,
			Reconciled:    o.Reconciled,
			Augmented:     o.Augmented,
			CacheHit:      o.CacheHit,
			Breaks:        o.BreakCount,
			Floors:        o.FloorCount,
			SkippedCombos: len(o.SkippedCombos),
		}
		if o.Err != nil {
			outcome.Error = o.Err.Error()
		}
		res.Outcomes = append(res.Outcomes, outcome)
	}

	writeJSON(w, r, http.StatusOK, res)
}
