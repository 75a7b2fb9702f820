package services

import (
	"fmt"
	"slices"

	"tour-route-service/internal/domain"
)

// Sequence numbers for stops present in persisted state but absent from the
// optimized route start here, so they sort after the route without being
// deleted. The system never silently drops a stop a user added by hand.
const parkedSequenceBase = 1000

// NormalizeSequence reconciles an optimizer result against a tour's persisted
// stops and emits a write plan. Confirmed stops are never touched. Mutable
// stops matched by venue id are moved onto the optimized sequence and date;
// new gap-filling selections become inserts; leftover mutable stops are
// parked beyond the optimized range.
//
// Pure reconciliation, no geographic computation, and idempotent: the same
// (result, stops) input always yields the same sequence assignment.
func NormalizeSequence(result *domain.RouteResult, existing []domain.TourStop) *domain.WritePlan {
	plan := &domain.WritePlan{
		Updates:   []domain.TourStop{},
		Inserts:   []domain.TourStop{},
		Unchanged: []domain.TourStop{},
		Aggregates: domain.TourAggregates{
			TotalDistanceKm:        result.TotalDistanceKm,
			TotalTravelTimeMinutes: result.TotalTravelTimeMinutes,
			OptimizationScore:      result.OptimizationScore,
		},
	}

	// Mutable stops by venue, preserving input order for deterministic
	// matching when a venue appears more than once.
	mutableByVenue := make(map[int64][]domain.TourStop)
	for _, s := range existing {
		if !s.Status.Mutable() {
			plan.Unchanged = append(plan.Unchanged, s)
			continue
		}
		// Sequence resets to the sentinel before reassignment so no
		// transient duplicate-sequence state is observable mid-update.
		s.Sequence = 0
		mutableByVenue[s.VenueID] = append(mutableByVenue[s.VenueID], s)
	}

	// Route stops in date order, input order on ties.
	ordered := slices.Clone(result.Stops)
	slices.SortStableFunc(ordered, func(a, b domain.ScoredCandidate) int {
		switch {
		case a.SuggestedDate.Before(b.SuggestedDate):
			return -1
		case b.SuggestedDate.Before(a.SuggestedDate):
			return 1
		default:
			return 0
		}
	})

	seq := 0
	for _, sc := range ordered {
		seq++
		date := sc.SuggestedDate

		if matches := mutableByVenue[sc.Venue.VenueID]; len(matches) > 0 {
			stop := matches[0]
			mutableByVenue[sc.Venue.VenueID] = matches[1:]

			stop.Sequence = seq
			stop.Date = &date
			stop.GapFilling = sc.GapFilling
			plan.Updates = append(plan.Updates, stop)
			continue
		}

		plan.Inserts = append(plan.Inserts, domain.TourStop{
			VenueID:    sc.Venue.VenueID,
			Status:     sc.Status,
			Date:       &date,
			Sequence:   seq,
			GapFilling: sc.GapFilling,
		})
	}

	// Park leftover mutable stops past the optimized range, in stable
	// (input) order for idempotence.
	parked := parkedSequenceBase
	for _, s := range existing {
		if !s.Status.Mutable() {
			continue
		}
		matches := mutableByVenue[s.VenueID]
		if len(matches) == 0 || matches[0].StopID != s.StopID {
			continue
		}
		mutableByVenue[s.VenueID] = matches[1:]

		s.Sequence = parked
		parked++
		plan.Updates = append(plan.Updates, s)
		plan.Notes = append(plan.Notes,
			fmt.Sprintf("stop %d (venue %d) not in optimized route; parked at sequence %d", s.StopID, s.VenueID, s.Sequence))
	}

	return plan
}
