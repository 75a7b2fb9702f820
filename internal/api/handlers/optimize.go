package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"tour-route-service/internal/api/dto"
	"tour-route-service/internal/domain"
	"tour-route-service/internal/services"
)

type OptimizeHandler struct {
	Planner *services.PlanService
}

// Preview computes an optimized route and the write plan it implies without
// touching persisted stops.
func (h *OptimizeHandler) Preview(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeOptimizeRequest(w, r)
	if !ok {
		return
	}

	result, plan, err := h.Planner.Preview(r.Context(), req.TourID, toConstraints(req.Constraints))
	if err != nil {
		writeOptimizeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toOptimizeResponse(req.TourID, result, plan))
}

// Apply runs the same optimization and persists the resulting write plan.
func (h *OptimizeHandler) Apply(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeOptimizeRequest(w, r)
	if !ok {
		return
	}

	plan, err := h.Planner.Apply(r.Context(), req.TourID, toConstraints(req.Constraints))
	if err != nil {
		writeOptimizeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ApplyResponse{
		TourID:  req.TourID,
		Applied: true,
		Plan:    toPlanSummary(plan),
	})
}

func decodeOptimizeRequest(w http.ResponseWriter, r *http.Request) (dto.OptimizeRequest, bool) {
	var req dto.OptimizeRequest

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return req, false
	}

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return req, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return req, false
	}

	if req.TourID <= 0 {
		writeError(w, r, http.StatusBadRequest, "tour_id is required")
		return req, false
	}

	return req, true
}

func writeOptimizeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, r, http.StatusBadRequest, verr.Reason)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "tour not found")
	default:
		log.Printf("optimize failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func toConstraints(o *dto.ConstraintOverrides) domain.Constraints {
	if o == nil {
		return domain.Constraints{}
	}
	return domain.Constraints{
		MaxTravelDistancePerDayKm: o.MaxTravelDistancePerDayKm,
		MinDaysBetweenShows:       o.MinDaysBetweenShows,
		MaxDaysBetweenShows:       o.MaxDaysBetweenShows,
		AvoidDates:                o.AvoidDates,
		RequiredDaysOff:           o.RequiredDaysOff,
		PreferredRegions:          o.PreferredRegions,
		PreferredVenueTypes:       o.PreferredVenueTypes,
		CapacityMin:               o.CapacityMin,
		CapacityMax:               o.CapacityMax,
		Genres:                    o.Genres,
	}
}

func toOptimizeResponse(tourID int64, result *domain.RouteResult, plan *domain.WritePlan) dto.OptimizeResponse {
	stops := make([]dto.SuggestedStopResponse, 0, len(result.Stops))
	for _, s := range result.Stops {
		stops = append(stops, dto.SuggestedStopResponse{
			VenueID:             s.Venue.VenueID,
			VenueName:           s.Venue.Name,
			SuggestedDate:       s.SuggestedDate,
			Status:              string(s.Status),
			DistanceFromStartKm: s.DistanceFromStartKm,
			DistanceToEndKm:     s.DistanceToEndKm,
			DetourRatio:         s.DetourRatio,
			GeographicScore:     s.GeographicScore,
			PreferenceScore:     s.PreferenceScore,
			CombinedScore:       s.CombinedScore,
		})
	}

	gaps := make([]dto.GapResponse, 0, len(result.Gaps))
	for _, g := range result.Gaps {
		gaps = append(gaps, dto.GapResponse{
			StartStopID: g.StartStopID,
			EndStopID:   g.EndStopID,
			StartDate:   g.StartDate,
			EndDate:     g.EndDate,
			DaySpan:     g.DaySpan,
		})
	}

	return dto.OptimizeResponse{
		TourID:                 tourID,
		Stops:                  stops,
		Gaps:                   gaps,
		TotalDistanceKm:        result.TotalDistanceKm,
		TotalTravelTimeMinutes: result.TotalTravelTimeMinutes,
		OptimizationScore:      result.OptimizationScore,
		SkippedPointIDs:        result.SkippedPointIDs,
		Plan:                   toPlanSummary(plan),
	}
}

func toPlanSummary(plan *domain.WritePlan) dto.PlanSummaryResponse {
	return dto.PlanSummaryResponse{
		Updated:   len(plan.Updates),
		Inserted:  len(plan.Inserts),
		Unchanged: len(plan.Unchanged),
		Notes:     plan.Notes,
	}
}
