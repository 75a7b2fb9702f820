package services

import (
	"reflect"
	"testing"
	"time"

	"tour-route-service/internal/domain"
)

func datePtr(s string) *time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}

func scoredStop(venueID int64, date string) domain.ScoredCandidate {
	return domain.ScoredCandidate{
		Venue:         domain.CandidateVenue{VenueID: venueID},
		SuggestedDate: *datePtr(date),
		GapFilling:    true,
		Status:        domain.StatusPotential,
	}
}

func TestNormalizeSequenceAssignsMonotonicSequences(t *testing.T) {
	result := &domain.RouteResult{
		Stops: []domain.ScoredCandidate{
			scoredStop(30, "2026-06-08"),
			scoredStop(20, "2026-06-04"),
		},
		TotalDistanceKm:        420,
		TotalTravelTimeMinutes: 432,
		OptimizationScore:      95,
	}

	existing := []domain.TourStop{
		{StopID: 1, TourID: 7, VenueID: 10, Status: domain.StatusConfirmed, Date: datePtr("2026-06-01"), Sequence: 1},
		{StopID: 2, TourID: 7, VenueID: 20, Status: domain.StatusHold, Date: datePtr("2026-06-05"), Sequence: 2},
		{StopID: 3, TourID: 7, VenueID: 99, Status: domain.StatusPotential, Date: datePtr("2026-06-06"), Sequence: 3},
	}

	plan := NormalizeSequence(result, existing)

	// Confirmed stop untouched.
	if len(plan.Unchanged) != 1 || plan.Unchanged[0].StopID != 1 {
		t.Fatalf("unchanged = %+v, want only confirmed stop 1", plan.Unchanged)
	}
	if plan.Unchanged[0].Sequence != 1 {
		t.Fatalf("confirmed stop sequence altered: %d", plan.Unchanged[0].Sequence)
	}

	// Route stops in date order: venue 20 (Jun 4) is sequence 1, venue 30
	// (Jun 8) is sequence 2. Venue 20 matches existing stop 2 (update),
	// venue 30 is new (insert).
	if len(plan.Updates) != 2 {
		t.Fatalf("updates = %d, want 2 (matched + parked)", len(plan.Updates))
	}
	matched := plan.Updates[0]
	if matched.StopID != 2 || matched.Sequence != 1 {
		t.Fatalf("matched stop = %+v, want stop 2 at sequence 1", matched)
	}
	if !matched.Date.Equal(*datePtr("2026-06-04")) {
		t.Fatalf("matched stop date = %v, want optimized date", matched.Date)
	}

	if len(plan.Inserts) != 1 {
		t.Fatalf("inserts = %d, want 1", len(plan.Inserts))
	}
	ins := plan.Inserts[0]
	if ins.VenueID != 30 || ins.Sequence != 2 || ins.Status != domain.StatusPotential || !ins.GapFilling {
		t.Fatalf("insert = %+v", ins)
	}

	// Orphaned mutable stop parked beyond the optimized range, not dropped.
	parked := plan.Updates[1]
	if parked.StopID != 3 || parked.Sequence != 1000 {
		t.Fatalf("parked stop = %+v, want stop 3 at sequence 1000", parked)
	}
	if len(plan.Notes) != 1 {
		t.Fatalf("notes = %v, want one parked note", plan.Notes)
	}

	if plan.Aggregates.TotalDistanceKm != 420 || plan.Aggregates.OptimizationScore != 95 {
		t.Fatalf("aggregates = %+v", plan.Aggregates)
	}
}

func TestNormalizeSequenceIdempotent(t *testing.T) {
	result := &domain.RouteResult{
		Stops: []domain.ScoredCandidate{
			scoredStop(20, "2026-06-04"),
			scoredStop(30, "2026-06-04"), // same date: input order breaks the tie
			scoredStop(40, "2026-06-09"),
		},
	}
	existing := []domain.TourStop{
		{StopID: 1, VenueID: 10, Status: domain.StatusConfirmed, Sequence: 5},
		{StopID: 2, VenueID: 30, Status: domain.StatusHold, Sequence: 9},
		{StopID: 3, VenueID: 50, Status: domain.StatusCancelled, Sequence: 4},
	}

	first := NormalizeSequence(result, existing)
	second := NormalizeSequence(result, existing)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	// Tie on date keeps input order: venue 20 before venue 30.
	if first.Inserts[0].VenueID != 20 || first.Inserts[0].Sequence != 1 {
		t.Fatalf("tie order broken: %+v", first.Inserts[0])
	}
}

func TestNormalizeSequenceEmptyResult(t *testing.T) {
	existing := []domain.TourStop{
		{StopID: 1, VenueID: 10, Status: domain.StatusConfirmed, Sequence: 1},
		{StopID: 2, VenueID: 20, Status: domain.StatusHold, Sequence: 2},
	}

	plan := NormalizeSequence(&domain.RouteResult{}, existing)

	if len(plan.Inserts) != 0 {
		t.Fatalf("inserts = %d, want 0", len(plan.Inserts))
	}
	// The mutable stop is parked; the confirmed one stays put.
	if len(plan.Updates) != 1 || plan.Updates[0].Sequence != 1000 {
		t.Fatalf("updates = %+v", plan.Updates)
	}
	if len(plan.Unchanged) != 1 {
		t.Fatalf("unchanged = %+v", plan.Unchanged)
	}
}
