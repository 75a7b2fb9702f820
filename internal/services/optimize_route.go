package services

import (
	"math"
	"slices"

	"tour-route-service/internal/domain"
)

// OptimizeRoute produces a complete route for a tour using a bounded greedy
// heuristic: fixed points are sorted by date, each consecutive dated pair is
// examined for a fillable gap, and the best-scoring candidates are scheduled
// inside it. No candidate venue is used twice across the whole route.
//
// At least two fixed points are required; fewer is a caller precondition
// violation and returns a *domain.ValidationError. Missing coordinates or
// dates degrade to partial results instead of failing: the affected points
// are skipped and reported on the result.
func OptimizeRoute(
	points []domain.FixedPoint,
	pool []domain.CandidateVenue,
	c domain.Constraints,
) (*domain.RouteResult, error) {
	if len(points) < 2 {
		return nil, &domain.ValidationError{Reason: "insufficient fixed points"}
	}

	c = c.WithDefaults()

	// Dated points ascending; undated points sort last and are excluded
	// from gap detection but retained for skip reporting.
	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, func(a, b domain.FixedPoint) int {
		switch {
		case a.Date == nil && b.Date == nil:
			return 0
		case a.Date == nil:
			return 1
		case b.Date == nil:
			return -1
		case a.Date.Before(*b.Date):
			return -1
		case b.Date.Before(*a.Date):
			return 1
		default:
			return 0
		}
	})

	result := &domain.RouteResult{
		Stops: []domain.ScoredCandidate{},
		Gaps:  []domain.Gap{},
	}

	skipped := make(map[int64]bool)
	for _, p := range sorted {
		if !p.Geocoded() || p.Date == nil {
			if !skipped[p.StopID] {
				skipped[p.StopID] = true
				result.SkippedPointIDs = append(result.SkippedPointIDs, p.StopID)
			}
		}
	}

	used := make(map[int64]bool)

	for i := 0; i < len(sorted)-1; i++ {
		start, end := sorted[i], sorted[i+1]

		direct, ok := domain.Distance(start.Coords, end.Coords)
		if !ok {
			continue
		}
		result.TotalDistanceKm += direct
		result.TotalTravelTimeMinutes += domain.EstimateTravelTime(direct)

		gap, ok := DetectGap(start, end, c)
		if !ok {
			continue
		}
		result.Gaps = append(result.Gaps, gap)

		for _, sc := range FillGap(start, end, gap, pool, used, c) {
			used[sc.Venue.VenueID] = true
			result.Stops = append(result.Stops, sc)
		}
	}

	result.OptimizationScore = optimizationScore(result.TotalDistanceKm, result.TotalTravelTimeMinutes)

	return result, nil
}

// optimizationScore is an ad hoc relative quality signal, not a calibrated
// metric: distance and time each shave at most 20 points off 100.
func optimizationScore(totalKm float64, totalMinutes int) int {
	distancePenalty := math.Min(20, totalKm/100)
	timePenalty := math.Min(20, float64(totalMinutes)/500)
	return int(math.Round(100 - distancePenalty - timePenalty))
}
