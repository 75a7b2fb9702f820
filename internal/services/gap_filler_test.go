package services

import (
	"testing"
	"time"

	"tour-route-service/internal/domain"
)

func TestDetectGapThreshold(t *testing.T) {
	c := domain.Constraints{}.WithDefaults()

	start := fixedPoint(1, 1, 10.0, 20.0, "2026-06-01", domain.StatusConfirmed)

	// One day apart: not a gap under the default minimum spacing.
	end := fixedPoint(2, 2, 10.9, 20.0, "2026-06-02", domain.StatusConfirmed)
	if _, ok := DetectGap(start, end, c); ok {
		t.Fatal("1-day span must not be a gap")
	}

	end = fixedPoint(2, 2, 10.9, 20.0, "2026-06-03", domain.StatusConfirmed)
	gap, ok := DetectGap(start, end, c)
	if !ok {
		t.Fatal("2-day span should be a gap")
	}
	if gap.DaySpan != 2 {
		t.Fatalf("day span = %d, want 2", gap.DaySpan)
	}

	// Ungeocoded endpoint: no gap regardless of dates.
	bare := domain.FixedPoint{StopID: 3, Date: end.Date}
	if _, ok := DetectGap(start, bare, c); ok {
		t.Fatal("ungeocoded endpoint must not form a gap")
	}
}

func TestMaxVenuesToInsert(t *testing.T) {
	cases := []struct {
		daySpan int
		want    int
	}{
		{2, 1},
		{3, 1},
		{4, 2},
		{6, 3},
		{7, 3},
		{8, 4},
		{10, 5},
		{30, 5},
	}
	for _, tc := range cases {
		if got := maxVenuesToInsert(tc.daySpan); got != tc.want {
			t.Errorf("maxVenuesToInsert(%d) = %d, want %d", tc.daySpan, got, tc.want)
		}
	}
}

func TestFillGapSchedulesEvenlyAndInterior(t *testing.T) {
	c := domain.Constraints{}.WithDefaults()
	start := fixedPoint(1, 1, 10.0, 20.0, "2026-06-01", domain.StatusConfirmed)
	end := fixedPoint(2, 2, 14.0, 20.0, "2026-06-11", domain.StatusConfirmed)
	gap, ok := DetectGap(start, end, c)
	if !ok {
		t.Fatal("expected gap")
	}

	pool := []domain.CandidateVenue{
		candidate(10, 11.0, 20.0),
		candidate(11, 12.0, 20.0),
		candidate(12, 13.0, 20.0),
	}

	selected := FillGap(start, end, gap, pool, map[int64]bool{}, c)
	if len(selected) != 3 {
		t.Fatalf("expected 3 selections, got %d", len(selected))
	}

	prev := *start.Date
	for _, sc := range selected {
		if !sc.SuggestedDate.After(prev) {
			t.Fatalf("dates not strictly increasing: %v then %v", prev, sc.SuggestedDate)
		}
		if !sc.SuggestedDate.Before(*end.Date) {
			t.Fatalf("date %v not interior to gap", sc.SuggestedDate)
		}
		if !sc.GapFilling || sc.Status != domain.StatusPotential {
			t.Fatalf("selection not marked gap-filling potential: %+v", sc)
		}
		prev = sc.SuggestedDate
	}
}

func TestFillGapSkipsUsedVenues(t *testing.T) {
	c := domain.Constraints{}.WithDefaults()
	start := fixedPoint(1, 1, 10.0, 20.0, "2026-06-01", domain.StatusConfirmed)
	end := fixedPoint(2, 2, 14.0, 20.0, "2026-06-09", domain.StatusConfirmed)
	gap, _ := DetectGap(start, end, c)

	pool := []domain.CandidateVenue{candidate(10, 12.0, 20.0)}
	used := map[int64]bool{10: true}

	if got := FillGap(start, end, gap, pool, used, c); len(got) != 0 {
		t.Fatalf("used venue selected again: %d picks", len(got))
	}
}

func TestFillGapAvoidDates(t *testing.T) {
	c := domain.Constraints{
		AvoidDates: []string{"2026-06-06"},
	}.WithDefaults()

	start := fixedPoint(1, 1, 10.0, 20.0, "2026-06-01", domain.StatusConfirmed)
	end := fixedPoint(2, 2, 14.0, 20.0, "2026-06-11", domain.StatusConfirmed)
	gap, _ := DetectGap(start, end, c)

	pool := []domain.CandidateVenue{candidate(10, 12.0, 20.0)}

	selected := FillGap(start, end, gap, pool, map[int64]bool{}, c)
	if len(selected) != 1 {
		t.Fatalf("expected 1 selection, got %d", len(selected))
	}

	want := time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC)
	if !selected[0].SuggestedDate.Equal(want) {
		t.Fatalf("date = %v, want nudged off avoid date to %v", selected[0].SuggestedDate, want)
	}
}

func TestFillGapEmptyPool(t *testing.T) {
	c := domain.Constraints{}.WithDefaults()
	start := fixedPoint(1, 1, 10.0, 20.0, "2026-06-01", domain.StatusConfirmed)
	end := fixedPoint(2, 2, 14.0, 20.0, "2026-06-11", domain.StatusConfirmed)
	gap, _ := DetectGap(start, end, c)

	if got := FillGap(start, end, gap, nil, map[int64]bool{}, c); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}
