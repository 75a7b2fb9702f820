package repositories

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"tour-route-service/internal/domain"
)

const seedFixture = `{
	"venues": [
		{"venue_id": 1, "name": "Harbor Hall", "lat": 53.55, "lon": 9.99, "capacity": 1200, "region": "north", "venue_type": "theater", "genres": ["rock"]},
		{"venue_id": 2, "name": "Mitte Arena", "lat": 52.52, "lon": 13.40, "capacity": 4000, "region": "east", "venue_type": "arena", "genres": ["rock", "pop"]},
		{"venue_id": 3, "name": "River Club", "lat": 50.94, "lon": 6.96, "capacity": 800, "region": "west", "venue_type": "club", "genres": ["indie"]},
		{"venue_id": 4, "name": "Unmapped Barn", "capacity": 300, "region": "south", "venue_type": "club", "genres": []}
	],
	"artists": [
		{"artist_id": 1, "name": "The Wandering", "preferences": {"preferred_regions": ["north", "east"], "genres": ["rock"], "capacity_min": 500}}
	],
	"tours": [
		{"tour_id": 1, "artist_id": 1, "name": "Autumn Run", "stops": [
			{"venue_id": 1, "status": "booked", "date": "2026-09-01", "sequence": 1},
			{"venue_id": 2, "status": "hold1", "date": "2026-09-08", "sequence": 2},
			{"venue_id": 3, "status": "suggested", "sequence": 3}
		]}
	]
}`

func newSeededDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(seedFixture), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	if err := SeedFromJSON(db, path); err != nil {
		t.Fatalf("seed from json: %v", err)
	}

	return db
}

func TestListGeocodedVenuesExcludesUnmapped(t *testing.T) {
	db := newSeededDB(t)
	repo := NewSqliteVenueRepository(db)

	venues, err := repo.ListGeocodedVenues(context.Background())
	if err != nil {
		t.Fatalf("list geocoded venues: %v", err)
	}

	if len(venues) != 3 {
		t.Fatalf("expected 3 geocoded venues, got %d", len(venues))
	}
	for _, v := range venues {
		if v.VenueID == 4 {
			t.Fatalf("venue 4 has no coordinates and must not be listed")
		}
		if v.Coords == nil {
			t.Fatalf("venue %d listed without coordinates", v.VenueID)
		}
	}
	if venues[1].VenueID != 2 || venues[1].Capacity != 4000 || venues[1].Region != "east" {
		t.Fatalf("unexpected venue 2 row: %+v", venues[1])
	}
	if len(venues[1].Genres) != 2 || venues[1].Genres[0] != "rock" {
		t.Fatalf("unexpected genres for venue 2: %v", venues[1].Genres)
	}
}

func TestListCandidateVenuesExcludesTourStops(t *testing.T) {
	db := newSeededDB(t)
	repo := NewSqliteVenueRepository(db)

	venues, err := repo.ListCandidateVenues(context.Background(), 1)
	if err != nil {
		t.Fatalf("list candidate venues: %v", err)
	}

	// Venues 1-3 are already on tour 1 and venue 4 is not geocoded.
	if len(venues) != 0 {
		t.Fatalf("expected no candidates for tour 1, got %d", len(venues))
	}

	venues, err = repo.ListCandidateVenues(context.Background(), 99)
	if err != nil {
		t.Fatalf("list candidate venues for empty tour: %v", err)
	}
	if len(venues) != 3 {
		t.Fatalf("expected all 3 geocoded venues for an unbooked tour, got %d", len(venues))
	}
}

func TestGetTour(t *testing.T) {
	db := newSeededDB(t)
	repo := NewSqliteTourRepository(db)

	tour, err := repo.GetTour(context.Background(), 1)
	if err != nil {
		t.Fatalf("get tour: %v", err)
	}
	if tour.TourID != 1 || tour.ArtistID != 1 || tour.Name != "Autumn Run" {
		t.Fatalf("unexpected tour row: %+v", tour)
	}

	if _, err := repo.GetTour(context.Background(), 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing tour, got %v", err)
	}
}

func TestListStopsNormalizesStatusAndDates(t *testing.T) {
	db := newSeededDB(t)
	repo := NewSqliteTourRepository(db)

	stops, err := repo.ListStops(context.Background(), 1)
	if err != nil {
		t.Fatalf("list stops: %v", err)
	}
	if len(stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(stops))
	}

	if stops[0].Status != domain.StatusConfirmed {
		t.Fatalf("stop 1: booked should normalize to confirmed, got %s", stops[0].Status)
	}
	if stops[1].Status != domain.StatusHold {
		t.Fatalf("stop 2: hold1 should normalize to hold, got %s", stops[1].Status)
	}
	if stops[2].Status != domain.StatusPotential {
		t.Fatalf("stop 3: suggested should normalize to potential, got %s", stops[2].Status)
	}

	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if stops[0].Date == nil || !stops[0].Date.Equal(want) {
		t.Fatalf("stop 1 date = %v, want %v", stops[0].Date, want)
	}
	if stops[2].Date != nil {
		t.Fatalf("undated stop 3 should have a nil date, got %v", stops[2].Date)
	}

	for i := 1; i < len(stops); i++ {
		if stops[i].Sequence < stops[i-1].Sequence {
			t.Fatalf("stops out of sequence order at index %d", i)
		}
	}
}

func TestListFixedPointsJoinsCoordinates(t *testing.T) {
	db := newSeededDB(t)
	repo := NewSqliteTourRepository(db)

	points, err := repo.ListFixedPoints(context.Background(), 1)
	if err != nil {
		t.Fatalf("list fixed points: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 fixed points, got %d", len(points))
	}

	if points[0].Coords == nil || points[0].Coords.Lat != 53.55 || points[0].Coords.Lon != 9.99 {
		t.Fatalf("unexpected coords for stop at venue 1: %+v", points[0].Coords)
	}
	if points[0].Status != domain.StatusConfirmed || points[0].VenueID != 1 {
		t.Fatalf("unexpected first fixed point: %+v", points[0])
	}
}

func TestApplyWritePlanPersistsAndUpdatesAggregates(t *testing.T) {
	db := newSeededDB(t)
	repo := NewSqliteTourRepository(db)
	ctx := context.Background()

	stops, err := repo.ListStops(ctx, 1)
	if err != nil {
		t.Fatalf("list stops: %v", err)
	}

	moved := stops[2]
	moved.Date = datePtr(2026, 9, 12)
	moved.Sequence = 4

	newDate := datePtr(2026, 9, 4)
	plan := &domain.WritePlan{
		Updates: []domain.TourStop{moved},
		Inserts: []domain.TourStop{{
			TourID:     1,
			VenueID:    3,
			Status:     domain.StatusPotential,
			Date:       newDate,
			Sequence:   2,
			GapFilling: true,
		}},
		Aggregates: domain.TourAggregates{
			TotalDistanceKm:        612.4,
			TotalTravelTimeMinutes: 630,
			OptimizationScore:      92,
		},
	}

	if err := repo.ApplyWritePlan(ctx, 1, plan); err != nil {
		t.Fatalf("apply write plan: %v", err)
	}

	after, err := repo.ListStops(ctx, 1)
	if err != nil {
		t.Fatalf("list stops after apply: %v", err)
	}
	if len(after) != 4 {
		t.Fatalf("expected 4 stops after insert, got %d", len(after))
	}

	var inserted, updated *domain.TourStop
	for i := range after {
		if after[i].GapFilling {
			inserted = &after[i]
		}
		if after[i].StopID == moved.StopID {
			updated = &after[i]
		}
	}
	if inserted == nil || inserted.Date == nil || !inserted.Date.Equal(*newDate) || inserted.Sequence != 2 {
		t.Fatalf("inserted stop not persisted as planned: %+v", inserted)
	}
	if updated == nil || updated.Sequence != 4 || updated.Date == nil || !updated.Date.Equal(*moved.Date) {
		t.Fatalf("updated stop not persisted as planned: %+v", updated)
	}

	tour, err := repo.GetTour(ctx, 1)
	if err != nil {
		t.Fatalf("get tour after apply: %v", err)
	}
	if tour.TotalDistanceKm != 612.4 || tour.TotalTravelTimeMinutes != 630 || tour.OptimizationScore != 92 {
		t.Fatalf("aggregates not persisted: %+v", tour)
	}
}

func TestArtistConstraints(t *testing.T) {
	db := newSeededDB(t)
	repo := NewSqliteTourRepository(db)

	c, err := repo.ArtistConstraints(context.Background(), 1)
	if err != nil {
		t.Fatalf("artist constraints: %v", err)
	}
	if len(c.PreferredRegions) != 2 || c.PreferredRegions[0] != "north" {
		t.Fatalf("unexpected preferred regions: %v", c.PreferredRegions)
	}
	if c.CapacityMin != 500 || len(c.Genres) != 1 {
		t.Fatalf("unexpected constraints: %+v", c)
	}

	c, err = repo.ArtistConstraints(context.Background(), 42)
	if err != nil {
		t.Fatalf("missing artist should not error: %v", err)
	}
	if len(c.PreferredRegions) != 0 || c.CapacityMin != 0 {
		t.Fatalf("missing artist should yield zero constraints, got %+v", c)
	}
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
