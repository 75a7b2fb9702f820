package dto

import "time"

// ConstraintOverrides carries per-request overrides for the artist's stored
// preferences. Zero values mean "keep the stored preference".
type ConstraintOverrides struct {
	MaxTravelDistancePerDayKm float64  `json:"max_travel_distance_per_day_km"`
	MinDaysBetweenShows       int      `json:"min_days_between_shows"`
	MaxDaysBetweenShows       int      `json:"max_days_between_shows"`
	AvoidDates                []string `json:"avoid_dates"`
	RequiredDaysOff           []string `json:"required_days_off"`
	PreferredRegions          []string `json:"preferred_regions"`
	PreferredVenueTypes       []string `json:"preferred_venue_types"`
	CapacityMin               int      `json:"capacity_min"`
	CapacityMax               int      `json:"capacity_max"`
	Genres                    []string `json:"genres"`
}

type OptimizeRequest struct {
	TourID      int64                `json:"tour_id"`
	Constraints *ConstraintOverrides `json:"constraints"`
}

type GapResponse struct {
	StartStopID int64     `json:"start_stop_id"`
	EndStopID   int64     `json:"end_stop_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	DaySpan     int       `json:"day_span"`
}

type SuggestedStopResponse struct {
	VenueID             int64     `json:"venue_id"`
	VenueName           string    `json:"venue_name"`
	SuggestedDate       time.Time `json:"suggested_date"`
	Status              string    `json:"status"`
	DistanceFromStartKm float64   `json:"distance_from_start_km"`
	DistanceToEndKm     float64   `json:"distance_to_end_km"`
	DetourRatio         float64   `json:"detour_ratio"`
	GeographicScore     float64   `json:"geographic_score"`
	PreferenceScore     float64   `json:"preference_score"`
	CombinedScore       float64   `json:"combined_score"`
}

// PlanSummaryResponse summarizes the write plan a preview would apply.
type PlanSummaryResponse struct {
	Updated   int      `json:"updated"`
	Inserted  int      `json:"inserted"`
	Unchanged int      `json:"unchanged"`
	Notes     []string `json:"notes,omitempty"`
}

type OptimizeResponse struct {
	TourID                 int64                   `json:"tour_id"`
	Stops                  []SuggestedStopResponse `json:"stops"`
	Gaps                   []GapResponse           `json:"gaps"`
	TotalDistanceKm        float64                 `json:"total_distance_km"`
	TotalTravelTimeMinutes int                     `json:"total_travel_time_minutes"`
	OptimizationScore      int                     `json:"optimization_score"`
	SkippedPointIDs        []int64                 `json:"skipped_point_ids,omitempty"`
	Plan                   PlanSummaryResponse     `json:"plan"`
}

type ApplyResponse struct {
	TourID  int64               `json:"tour_id"`
	Applied bool                `json:"applied"`
	Plan    PlanSummaryResponse `json:"plan"`
}
