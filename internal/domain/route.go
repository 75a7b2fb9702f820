package domain

// RouteResult is the optimizer's output for one tour: the gap-filling stops
// it selected, the gaps it examined, and aggregate route metrics. It is
// produced fresh per invocation and may be cached; it carries no references
// back into persisted state.
type RouteResult struct {
	Stops                  []ScoredCandidate `json:"stops"`
	Gaps                   []Gap             `json:"gaps"`
	TotalDistanceKm        float64           `json:"total_distance_km"`
	TotalTravelTimeMinutes int               `json:"total_travel_time_minutes"`
	OptimizationScore      int               `json:"optimization_score"`

	// SkippedPointIDs lists stop ids excluded from distance or gap
	// computation because they lacked coordinates or a date. Non-fatal,
	// but surfaced so data-quality holes stay diagnosable.
	SkippedPointIDs []int64 `json:"skipped_point_ids,omitempty"`
}

// TourAggregates are the tour-level metrics written back alongside a plan.
type TourAggregates struct {
	TotalDistanceKm        float64
	TotalTravelTimeMinutes int
	OptimizationScore      int
}

// WritePlan is the reconciliation of a RouteResult against a tour's persisted
// stops: which stops move, which are inserted, and which are left alone.
// Confirmed stops are never present in Updates or Inserts.
type WritePlan struct {
	Updates    []TourStop
	Inserts    []TourStop
	Unchanged  []TourStop
	Aggregates TourAggregates

	// Notes carries non-fatal reconciliation observations, such as stops
	// parked beyond the optimized range.
	Notes []string
}
