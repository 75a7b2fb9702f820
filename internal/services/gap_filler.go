package services

import (
	"math"
	"time"

	"tour-route-service/internal/domain"
)

const (
	maxInsertsSimpleGap = 3
	maxInsertsLargeGap  = 5
	// Gaps longer than this many days may host the larger insert cap.
	largeGapThresholdDays = 7
)

// daysBetween returns the whole number of days from a to b.
func daysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

// DetectGap returns the gap between two consecutive fixed points, or ok=false
// when the pair is not gap-eligible: an endpoint lacks coordinates or a date,
// or the interval does not exceed the minimum spacing between shows.
func DetectGap(start, end domain.FixedPoint, c domain.Constraints) (domain.Gap, bool) {
	if !start.Geocoded() || !end.Geocoded() {
		return domain.Gap{}, false
	}
	if start.Date == nil || end.Date == nil {
		return domain.Gap{}, false
	}

	daySpan := daysBetween(*start.Date, *end.Date)
	if daySpan <= c.MinDaysBetweenShows {
		return domain.Gap{}, false
	}

	return domain.Gap{
		StartStopID: start.StopID,
		EndStopID:   end.StopID,
		StartDate:   *start.Date,
		EndDate:     *end.Date,
		DaySpan:     daySpan,
	}, true
}

// FillGap selects and schedules candidate venues inside one gap. Venues whose
// id appears in used are skipped, so one candidate is never placed twice
// across a route. Selected stops get interior dates spread evenly across the
// gap, marked gap-filling with potential status.
//
// Never fails: when no viable candidate exists the result is empty.
func FillGap(
	start, end domain.FixedPoint,
	gap domain.Gap,
	pool []domain.CandidateVenue,
	used map[int64]bool,
	c domain.Constraints,
) []domain.ScoredCandidate {
	available := make([]domain.CandidateVenue, 0, len(pool))
	for _, v := range pool {
		if used[v.VenueID] {
			continue
		}
		available = append(available, v)
	}

	scored := ScoreCandidates(start, end, available, c)
	if len(scored) == 0 {
		return nil
	}

	n := maxVenuesToInsert(gap.DaySpan)
	if n > len(scored) {
		n = len(scored)
	}

	avoid := avoidSet(c)

	selected := make([]domain.ScoredCandidate, 0, n)
	prevOffset := 0
	for i := 1; i <= n; i++ {
		offset := int(math.Round(float64(gap.DaySpan) * float64(i) / float64(n+1)))
		offset = adjustForAvoidDates(gap.StartDate, offset, prevOffset, gap.DaySpan, avoid)
		if offset <= prevOffset || offset >= gap.DaySpan {
			// No interior day left for this slot once avoid dates are
			// honored; stop selecting rather than collide with a neighbor.
			break
		}
		prevOffset = offset

		sc := scored[i-1]
		sc.SuggestedDate = gap.StartDate.AddDate(0, 0, offset)
		sc.GapFilling = true
		sc.Status = domain.StatusPotential
		selected = append(selected, sc)
	}

	return selected
}

// maxVenuesToInsert bounds how many stops one gap may host: half the day
// span, at least one, capped by gap size, and never so many that stops could
// not keep a day between them and the endpoints.
func maxVenuesToInsert(daySpan int) int {
	n := daySpan / 2
	if n < 1 {
		n = 1
	}

	cap := maxInsertsSimpleGap
	if daySpan > largeGapThresholdDays {
		cap = maxInsertsLargeGap
	}
	if n > cap {
		n = cap
	}
	if n > daySpan-1 {
		n = daySpan - 1
	}
	return n
}

func avoidSet(c domain.Constraints) map[string]bool {
	if len(c.AvoidDates) == 0 && len(c.RequiredDaysOff) == 0 {
		return nil
	}
	set := make(map[string]bool, len(c.AvoidDates)+len(c.RequiredDaysOff))
	for _, d := range c.AvoidDates {
		set[d] = true
	}
	for _, d := range c.RequiredDaysOff {
		set[d] = true
	}
	return set
}

// adjustForAvoidDates nudges an offset off an avoided calendar day, staying
// interior to the gap and after the previously assigned slot. Returns the
// original offset when no avoid dates apply.
func adjustForAvoidDates(start time.Time, offset, prevOffset, daySpan int, avoid map[string]bool) int {
	if avoid == nil {
		return offset
	}

	isAvoided := func(o int) bool {
		return avoid[start.AddDate(0, 0, o).Format("2006-01-02")]
	}

	if !isAvoided(offset) {
		return offset
	}
	if next := offset + 1; next < daySpan && !isAvoided(next) {
		return next
	}
	if prev := offset - 1; prev > prevOffset && !isAvoided(prev) {
		return prev
	}
	// Both neighbors blocked; signal no usable slot.
	return prevOffset
}
