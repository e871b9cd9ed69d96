package handlers

import (
	"net/http"
	"strings"

	"freight-break-service/internal/api/dto"
	"freight-break-service/internal/platform/obs"
	"freight-break-service/internal/ports"
)

// FloorHandler exposes the travel-time lower bounds derived for a path.
type FloorHandler struct {
	Results ports.ResultStore
}

func (h *FloorHandler) List(w http.ResponseWriter, r *http.Request) {
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

	floors, err := h.Results.ListFloors(r.Context(), pathID)
	if err != nil {
		obs.Errorf("list floors failed: path_id=%s err=%v", pathID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListFloorsResponse{
		Floors: make([]dto.FloorResponse, 0, len(floors)),
	}
	for _, f := range floors {
		res.Floors = append(res.Floors, dto.FloorResponse{
			Year:               f.Year,
			Product:            f.Product,
			Origin:             f.Origin,
			Destination:        f.Destination,
			PathID:             f.PathID,
			NodeID:             f.NodeID,
			Technology:         f.Technology,
			Fuel:               f.Fuel,
			Generation:         f.Generation,
			MinTravelTimeHours: f.MinTravelTimeHours,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
