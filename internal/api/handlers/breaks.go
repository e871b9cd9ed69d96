package handlers

import (
	"net/http"
	"strings"

	"freight-break-service/internal/api/dto"
	"freight-break-service/internal/platform/obs"
	"freight-break-service/internal/ports"
)

// BreakHandler exposes the mandatory breaks computed for a path.
type BreakHandler struct {
	Results ports.ResultStore
}

func (h *BreakHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	pathID := strings.TrimSpace(r.URL.Query().Get("path_id"))
	if pathID == "" {
		writeError(w, r, http.StatusBadRequest, "path_id is required")
		return
	}

	breaks, err := h.Results.ListBreaks(r.Context(), pathID)
	if err != nil {
		obs.Errorf("list breaks failed: path_id=%s err=%v", pathID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListBreaksResponse{
		Breaks: make([]dto.BreakResponse, 0, len(breaks)),
	}
	for _, b := range breaks {
		res.Breaks = append(res.Breaks, dto.BreakResponse{
			PathID:              b.PathID,
			Number:              b.Number,
			Kind:                string(b.Kind),
			NodeIndex:           b.NodeIndex,
			NodeID:              b.NodeID,
			CumulativeKm:        b.CumulativeKm,
			DrivingHours:        b.DrivingHours,
			TimeWithBreaksHours: b.TimeWithBreaksHours,
			Charging:            string(b.Charging),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
