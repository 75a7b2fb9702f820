package domain

import "time"

// FixedPoint is a scheduling anchor built per optimization request by joining
// a persisted stop record with its venue's coordinates. It is a transient
// view and is never persisted itself.
type FixedPoint struct {
	StopID  int64
	VenueID int64
	Coords  *GeoPoint
	Date    *time.Time
	Status  StopStatus
}

// Fixed reports whether the point is an immutable anchor that the optimizer
// must not relocate.
func (f FixedPoint) Fixed() bool {
	return f.Status == StatusConfirmed
}

// Geocoded reports whether the point has usable coordinates.
func (f FixedPoint) Geocoded() bool {
	return f.Coords != nil && f.Coords.Valid()
}

// CandidateVenue is a venue eligible for gap-filling: geocoded and not
// already attached to the tour being optimized.
type CandidateVenue struct {
	VenueID   int64
	Name      string
	Coords    *GeoPoint
	Capacity  int
	Region    string
	VenueType string
	Genres    []string
}

// Gap is the date interval between two temporally adjacent fixed points.
// A gap only exists when its day span exceeds the minimum spacing between
// shows; shorter intervals are not eligible for filling.
type Gap struct {
	StartStopID int64
	EndStopID   int64
	StartDate   time.Time
	EndDate     time.Time
	DaySpan     int
}

// ScoredCandidate is the scorer's verdict on one candidate venue within one
// gap. Transient: consumed by the gap filler, never persisted directly.
type ScoredCandidate struct {
	Venue               CandidateVenue
	DistanceFromStartKm float64
	DistanceToEndKm     float64
	DetourRatio         float64
	GeographicScore     float64
	PreferenceScore     float64
	CombinedScore       float64
	SuggestedDate       time.Time
	GapFilling          bool
	Status              StopStatus
}

// TourStop is a persisted stop record.
type TourStop struct {
	StopID     int64
	TourID     int64
	VenueID    int64
	Status     StopStatus
	Date       *time.Time
	Sequence   int
	GapFilling bool
}

// Tour is a persisted tour record with its last-computed aggregate metrics.
type Tour struct {
	TourID                 int64
	ArtistID               int64
	Name                   string
	TotalDistanceKm        float64
	TotalTravelTimeMinutes int
	OptimizationScore      int
}
