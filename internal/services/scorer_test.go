package services

import (
	"math"
	"testing"
	"time"

	"tour-route-service/internal/domain"
)

func fixedPoint(stopID, venueID int64, lat, lon float64, date string, status domain.StopStatus) domain.FixedPoint {
	fp := domain.FixedPoint{
		StopID:  stopID,
		VenueID: venueID,
		Coords:  &domain.GeoPoint{Lat: lat, Lon: lon},
		Status:  status,
	}
	if date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			panic(err)
		}
		fp.Date = &d
	}
	return fp
}

func candidate(venueID int64, lat, lon float64) domain.CandidateVenue {
	return domain.CandidateVenue{
		VenueID: venueID,
		Coords:  &domain.GeoPoint{Lat: lat, Lon: lon},
	}
}

func TestScoreCandidatesDetourRatioFloor(t *testing.T) {
	// Start and end on the same meridian; the midpoint lies exactly on the
	// great-circle path, so its detour ratio approaches 1.0.
	start := fixedPoint(1, 1, 10.0, 20.0, "2026-06-01", domain.StatusConfirmed)
	end := fixedPoint(2, 2, 14.0, 20.0, "2026-06-11", domain.StatusConfirmed)
	mid := candidate(10, 12.0, 20.0)

	scored := ScoreCandidates(start, end, []domain.CandidateVenue{mid}, domain.Constraints{}.WithDefaults())
	if len(scored) != 1 {
		t.Fatalf("expected 1 scored candidate, got %d", len(scored))
	}

	if math.Abs(scored[0].DetourRatio-1.0) > 1e-6 {
		t.Fatalf("detour ratio = %f, want ~1.0", scored[0].DetourRatio)
	}
	if scored[0].DetourRatio < 1.0-1e-9 {
		t.Fatalf("detour ratio below 1.0: %f", scored[0].DetourRatio)
	}
	if scored[0].GeographicScore > 1e-3 {
		t.Fatalf("geographic score = %f, want ~0 for on-path candidate", scored[0].GeographicScore)
	}
}

func TestScoreCandidatesRejections(t *testing.T) {
	start := fixedPoint(1, 1, 10.0, 20.0, "", domain.StatusConfirmed)
	end := fixedPoint(2, 2, 10.9, 20.0, "", domain.StatusConfirmed) // ~100 km

	pool := []domain.CandidateVenue{
		candidate(10, 19.0, 20.0), // ~1000 km off the segment
		candidate(11, 10.45, 20.0),
	}

	scored := ScoreCandidates(start, end, pool, domain.Constraints{}.WithDefaults())
	if len(scored) != 1 {
		t.Fatalf("expected only the on-path candidate, got %d", len(scored))
	}
	if scored[0].Venue.VenueID != 11 {
		t.Fatalf("wrong survivor: venue %d", scored[0].Venue.VenueID)
	}
}

func TestScoreCandidatesCoincidentEndpoints(t *testing.T) {
	start := fixedPoint(1, 1, 10.0, 20.0, "", domain.StatusConfirmed)
	end := fixedPoint(2, 2, 10.0, 20.0, "", domain.StatusConfirmed)

	scored := ScoreCandidates(start, end, []domain.CandidateVenue{candidate(10, 10.1, 20.0)}, domain.Constraints{})
	if len(scored) != 0 {
		t.Fatalf("coincident endpoints must reject all candidates, got %d", len(scored))
	}
}

func TestScoreCandidatesDeterministicOrdering(t *testing.T) {
	start := fixedPoint(1, 1, 10.0, 20.0, "", domain.StatusConfirmed)
	end := fixedPoint(2, 2, 14.0, 20.0, "", domain.StatusConfirmed)

	// Two candidates mirrored around the midpoint score identically; the
	// lower venue id must win. Order in the pool must not matter.
	pool := []domain.CandidateVenue{
		candidate(20, 12.5, 20.0),
		candidate(7, 11.5, 20.0),
	}

	for range 3 {
		scored := ScoreCandidates(start, end, pool, domain.Constraints{}.WithDefaults())
		if len(scored) != 2 {
			t.Fatalf("expected 2 scored candidates, got %d", len(scored))
		}
		if scored[0].Venue.VenueID != 7 {
			t.Fatalf("tie not broken by lower venue id: first is %d", scored[0].Venue.VenueID)
		}
		pool[0], pool[1] = pool[1], pool[0]
	}
}

func TestPreferenceScoreBonuses(t *testing.T) {
	c := domain.Constraints{
		PreferredRegions:    []string{"southwest"},
		PreferredVenueTypes: []string{"theater"},
		CapacityMin:         500,
		CapacityMax:         2000,
		Genres:              []string{"indie", "folk"},
	}

	v := domain.CandidateVenue{
		VenueID:   1,
		Region:    "southwest",
		VenueType: "theater",
		Capacity:  1200,
		Genres:    []string{"folk"},
	}

	got := preferenceScore(v, c)
	want := float64(preferenceBaseline + regionBonus + venueTypeBonus + capacityBonus + genreBonus)
	if got != want {
		t.Fatalf("preference score = %f, want %f", got, want)
	}

	if got := preferenceScore(domain.CandidateVenue{VenueID: 2}, c); got != preferenceBaseline {
		t.Fatalf("no-match preference score = %f, want baseline %d", got, preferenceBaseline)
	}
}
