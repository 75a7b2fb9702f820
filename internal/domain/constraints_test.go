package domain

import "testing"

func TestMergeCallerOverridesWin(t *testing.T) {
	base := Constraints{
		MaxTravelDistancePerDayKm: 500,
		MinDaysBetweenShows:       2,
		PreferredRegions:          []string{"west"},
	}
	override := Constraints{
		MinDaysBetweenShows: 3,
		Genres:              []string{"indie"},
	}

	got := Merge(base, override)

	if got.MinDaysBetweenShows != 3 {
		t.Fatalf("MinDaysBetweenShows = %d, want override 3", got.MinDaysBetweenShows)
	}
	if got.MaxTravelDistancePerDayKm != 500 {
		t.Fatalf("MaxTravelDistancePerDayKm = %f, want base 500", got.MaxTravelDistancePerDayKm)
	}
	if len(got.PreferredRegions) != 1 || got.PreferredRegions[0] != "west" {
		t.Fatalf("PreferredRegions = %v, want base value kept", got.PreferredRegions)
	}
	if len(got.Genres) != 1 || got.Genres[0] != "indie" {
		t.Fatalf("Genres = %v, want override applied", got.Genres)
	}
}

func TestHashStableUnderSliceOrder(t *testing.T) {
	a := Constraints{AvoidDates: []string{"2026-06-01", "2026-05-01"}, MinDaysBetweenShows: 2}
	b := Constraints{AvoidDates: []string{"2026-05-01", "2026-06-01"}, MinDaysBetweenShows: 2}

	if a.Hash() != b.Hash() {
		t.Fatal("hash differs for reordered slice fields")
	}

	c := Constraints{AvoidDates: []string{"2026-05-01"}, MinDaysBetweenShows: 2}
	if a.Hash() == c.Hash() {
		t.Fatal("hash collision for different constraints")
	}
}

func TestWithDefaults(t *testing.T) {
	got := Constraints{}.WithDefaults()
	if got.MinDaysBetweenShows != 1 {
		t.Fatalf("MinDaysBetweenShows default = %d, want 1", got.MinDaysBetweenShows)
	}
	if got.MaxDaysBetweenShows != 14 {
		t.Fatalf("MaxDaysBetweenShows default = %d, want 14", got.MaxDaysBetweenShows)
	}

	kept := Constraints{MinDaysBetweenShows: 4}.WithDefaults()
	if kept.MinDaysBetweenShows != 4 {
		t.Fatalf("explicit MinDaysBetweenShows overwritten: %d", kept.MinDaysBetweenShows)
	}
}
