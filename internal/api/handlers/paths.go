package handlers

import (
	"net/http"

	"freight-break-service/internal/api/dto"
	"freight-break-service/internal/platform/obs"
	"freight-break-service/internal/ports"
)

// PathHandler exposes read-only path retrieval endpoints.
type PathHandler struct {
	Repo ports.PathRepository
}

func (h *PathHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	paths, err := h.Repo.ListPaths(r.Context())
	if err != nil {
		obs.Errorf("list paths failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListPathsResponse{
		Paths: make([]dto.PathResponse, 0, len(paths)),
	}
	for _, p := range paths {
		nodes := make([]dto.PathNodeResponse, 0, p.NodeCount())
		for i := range p.Sequence {
			nodes = append(nodes, dto.PathNodeResponse{
				NodeID:                 p.Sequence[i],
				DistanceFromPreviousKm: p.DistanceFromPrevious[i],
				CumulativeDistanceKm:   p.CumulativeDistance[i],
				OriginAnchor:           p.OriginAnchor[i],
				Synthetic:              p.Synthetic[i],
			})
		}
		res.Paths = append(res.Paths, dto.PathResponse{
			PathID:      p.PathID,
			Origin:      p.Origin,
			Destination: p.Destination,
			LengthKm:    p.LengthKm,
			Nodes:       nodes,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
