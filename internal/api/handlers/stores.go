package handlers

import (
	"net/http"

	"visit-route-service/internal/api/dto"
	"visit-route-service/internal/ports"
)

// StoreHandler exposes read-only store retrieval, the snapshot source a
// route-planning client picks stops from.
type StoreHandler struct {
	Stores ports.StoreRepository
}

func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(r.Context())

	stores, err := h.Stores.ListAccessible(r.Context(), actor)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListStoresResponse{Stores: make([]dto.StoreResponse, 0, len(stores))}
	for _, s := range stores {
		res.Stores = append(res.Stores, dto.StoreResponse{
			ID:          s.ID,
			DisplayName: s.DisplayName,
			City:        s.City,
			Latitude:    s.Latitude,
			Longitude:   s.Longitude,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
