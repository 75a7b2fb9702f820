package services

import (
	"math"
	"slices"

	"tour-route-service/internal/domain"
)

const (
	// Candidates whose round trip exceeds this multiple of the direct
	// distance are rejected outright.
	maxDetourRatio = 2.5
	// Total distance via a candidate must stay within this multiple of the
	// direct path to score at all.
	detourBudgetFactor = 1.4

	preferenceBaseline = 50
	regionBonus        = 15
	venueTypeBonus     = 15
	capacityBonus      = 15
	genreBonus         = 20
)

// ScoreCandidates scores every geocoded candidate against the segment between
// start and end and returns the survivors in deterministic best-first order:
// combined score descending, then detour ratio ascending, then venue id.
//
// Both endpoints must be geocoded; that precondition is enforced by the
// caller (the gap filler checks it before scoring).
func ScoreCandidates(
	start, end domain.FixedPoint,
	pool []domain.CandidateVenue,
	c domain.Constraints,
) []domain.ScoredCandidate {
	direct, ok := domain.Distance(start.Coords, end.Coords)
	if !ok || direct == 0 {
		// Coincident or uncomputable endpoints leave no meaningful detour
		// geometry; every candidate would divide by zero. Reject all.
		return nil
	}

	scored := make([]domain.ScoredCandidate, 0, len(pool))
	for _, v := range pool {
		sc, ok := scoreCandidate(start, end, direct, v, c)
		if !ok {
			continue
		}
		scored = append(scored, sc)
	}

	slices.SortFunc(scored, func(a, b domain.ScoredCandidate) int {
		if a.CombinedScore > b.CombinedScore {
			return -1
		}
		if a.CombinedScore < b.CombinedScore {
			return 1
		}
		if a.DetourRatio < b.DetourRatio {
			return -1
		}
		if a.DetourRatio > b.DetourRatio {
			return 1
		}
		// Tie-breaker ensures deterministic ordering when scores are equal.
		if a.Venue.VenueID < b.Venue.VenueID {
			return -1
		}
		if a.Venue.VenueID > b.Venue.VenueID {
			return 1
		}
		return 0
	})

	return scored
}

func scoreCandidate(
	start, end domain.FixedPoint,
	direct float64,
	v domain.CandidateVenue,
	c domain.Constraints,
) (domain.ScoredCandidate, bool) {
	fromStart, ok := domain.Distance(start.Coords, v.Coords)
	if !ok {
		return domain.ScoredCandidate{}, false
	}
	toEnd, ok := domain.Distance(v.Coords, end.Coords)
	if !ok {
		return domain.ScoredCandidate{}, false
	}

	total := fromStart + toEnd
	detourRatio := total / direct
	if detourRatio > maxDetourRatio {
		return domain.ScoredCandidate{}, false
	}

	budget := direct * detourBudgetFactor
	if total > budget {
		return domain.ScoredCandidate{}, false
	}
	// A single leg longer than half the detour budget puts the candidate
	// far off-axis even when the totals squeak by.
	if fromStart > budget/2 || toEnd > budget/2 {
		return domain.ScoredCandidate{}, false
	}

	// positionScore rewards proximity to the journey midpoint.
	positionScore := 100.0
	if total > 0 {
		positionScore = 100 * (1 - math.Abs(fromStart-toEnd)/total)
	}

	// distanceScore rewards low added distance relative to the budget.
	added := total - direct
	headroom := budget - direct
	distanceScore := 100.0
	if headroom > 0 {
		distanceScore = 100 * (1 - added/headroom)
	}
	distanceScore = clamp(distanceScore, 0, 100)

	prefScore := preferenceScore(v, c)

	combined := positionScore*0.4 + distanceScore*0.3 + clamp(prefScore, 0, 100)*0.3

	return domain.ScoredCandidate{
		Venue:               v,
		DistanceFromStartKm: fromStart,
		DistanceToEndKm:     toEnd,
		DetourRatio:         detourRatio,
		GeographicScore:     (detourRatio - 1) * 100,
		PreferenceScore:     prefScore,
		CombinedScore:       combined,
	}, true
}

// preferenceScore starts at a neutral baseline and adds independent bonuses
// for each matched preference. Uncapped; the blend clamps it.
func preferenceScore(v domain.CandidateVenue, c domain.Constraints) float64 {
	score := float64(preferenceBaseline)

	if v.Region != "" && slices.Contains(c.PreferredRegions, v.Region) {
		score += regionBonus
	}
	if v.VenueType != "" && slices.Contains(c.PreferredVenueTypes, v.VenueType) {
		score += venueTypeBonus
	}
	if v.Capacity > 0 && capacityInBand(v.Capacity, c) {
		score += capacityBonus
	}
	if genreMatch(v.Genres, c.Genres) {
		score += genreBonus
	}

	return score
}

func capacityInBand(capacity int, c domain.Constraints) bool {
	if c.CapacityMin == 0 && c.CapacityMax == 0 {
		return false
	}
	if c.CapacityMin > 0 && capacity < c.CapacityMin {
		return false
	}
	if c.CapacityMax > 0 && capacity > c.CapacityMax {
		return false
	}
	return true
}

func genreMatch(venueGenres, wanted []string) bool {
	for _, g := range venueGenres {
		if slices.Contains(wanted, g) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
