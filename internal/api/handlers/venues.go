package handlers

import (
	"log"
	"net/http"

	"tour-route-service/internal/api/dto"
	"tour-route-service/internal/ports"
)

// VenueHandler exposes read-only venue retrieval endpoints.
type VenueHandler struct {
	Repo ports.VenueRepository
}

func (h *VenueHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	venues, err := h.Repo.ListGeocodedVenues(r.Context())
	if err != nil {
		log.Printf("list venues failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListVenuesResponse{
		Venues: make([]dto.VenueResponse, 0, len(venues)),
	}
	for _, v := range venues {
		res.Venues = append(res.Venues, dto.VenueResponse{
			VenueID:   v.VenueID,
			Name:      v.Name,
			Lat:       v.Coords.Lat,
			Lon:       v.Coords.Lon,
			Capacity:  v.Capacity,
			Region:    v.Region,
			VenueType: v.VenueType,
			Genres:    v.Genres,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
