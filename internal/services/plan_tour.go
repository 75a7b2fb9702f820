package services

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/platform/obs"
	"tour-route-service/internal/ports"
)

// PlanService orchestrates one optimization request end to end: load inputs,
// consult the cache, run the optimizer, and reconcile the result into a write
// plan. All I/O happens before and after the pure engine calls.
type PlanService struct {
	Tours  ports.TourRepository
	Venues ports.VenueRepository
	Prefs  ports.PreferenceSource
	Cache  ports.RouteCache

	// Coalesces concurrent optimizations for the same (tour, constraints)
	// key so a burst of identical requests computes once.
	group singleflight.Group
}

// Preview computes (or serves from cache) the optimized route for a tour and
// the write plan that would apply it, without persisting anything.
func (s *PlanService) Preview(
	ctx context.Context,
	tourID int64,
	overrides domain.Constraints,
) (_ *domain.RouteResult, _ *domain.WritePlan, err error) {
	defer obs.Time(ctx, "plan.Preview")(&err)

	tour, err := s.Tours.GetTour(ctx, tourID)
	if err != nil {
		return nil, nil, fmt.Errorf("preview plan: get tour %d: %w", tourID, err)
	}

	prefs, err := s.Prefs.ArtistConstraints(ctx, tour.ArtistID)
	if err != nil {
		return nil, nil, fmt.Errorf("preview plan: artist %d preferences: %w", tour.ArtistID, err)
	}
	constraints := domain.Merge(prefs, overrides).WithDefaults()

	result, err := s.optimizeCached(ctx, tourID, constraints)
	if err != nil {
		return nil, nil, err
	}

	stops, err := s.Tours.ListStops(ctx, tourID)
	if err != nil {
		return nil, nil, fmt.Errorf("preview plan: list stops for tour %d: %w", tourID, err)
	}

	return result, NormalizeSequence(result, stops), nil
}

// Apply runs Preview and persists the resulting write plan, invalidating the
// tour's cache entries after the stop set changes.
func (s *PlanService) Apply(
	ctx context.Context,
	tourID int64,
	overrides domain.Constraints,
) (_ *domain.WritePlan, err error) {
	defer obs.Time(ctx, "plan.Apply")(&err)

	result, plan, err := s.Preview(ctx, tourID, overrides)
	if err != nil {
		return nil, err
	}

	if err := s.Tours.ApplyWritePlan(ctx, tourID, plan); err != nil {
		return nil, fmt.Errorf("apply plan: persist for tour %d: %w", tourID, err)
	}

	// The stop set changed; cached results for this tour are now stale.
	if err := s.Cache.Invalidate(ctx, tourID); err != nil {
		log.Printf("route cache invalidate failed: tour_id=%d err=%v", tourID, err)
	}

	log.Printf("plan applied: tour_id=%d updates=%d inserts=%d score=%d",
		tourID, len(plan.Updates), len(plan.Inserts), result.OptimizationScore)

	return plan, nil
}

func (s *PlanService) optimizeCached(
	ctx context.Context,
	tourID int64,
	c domain.Constraints,
) (*domain.RouteResult, error) {
	if cached, err := s.Cache.Get(ctx, tourID, c); err != nil {
		log.Printf("route cache read failed: tour_id=%d err=%v", tourID, err)
	} else if cached != nil {
		return cached, nil
	}

	sfKey := fmt.Sprintf("%d:%s", tourID, c.Hash())
	v, err, _ := s.group.Do(sfKey, func() (any, error) {
		points, err := s.Tours.ListFixedPoints(ctx, tourID)
		if err != nil {
			return nil, fmt.Errorf("optimize: list fixed points for tour %d: %w", tourID, err)
		}
		pool, err := s.Venues.ListCandidateVenues(ctx, tourID)
		if err != nil {
			return nil, fmt.Errorf("optimize: list candidate venues for tour %d: %w", tourID, err)
		}

		result, err := OptimizeRoute(points, pool, c)
		if err != nil {
			return nil, err
		}

		if err := s.Cache.Set(ctx, tourID, c, result); err != nil {
			log.Printf("route cache write failed: tour_id=%d err=%v", tourID, err)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.RouteResult), nil
}
