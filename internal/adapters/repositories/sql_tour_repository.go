package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/platform/obs"
)

// Postgres-backed implementation of the TourRepository and PreferenceSource
// ports.
type SQLTourRepository struct{ DB *sql.DB }

func NewSQLTourRepository(db *sql.DB) *SQLTourRepository {
	return &SQLTourRepository{DB: db}
}

func (s *SQLTourRepository) GetTour(ctx context.Context, tourID int64) (tour *domain.Tour, err error) {
	defer obs.Time(ctx, "repo.get_tour")(&err)

	if s.DB == nil {
		return nil, errors.New("sql tour repository: DB is nil")
	}

	query := `
	SELECT
		tour_id,
		artist_id,
		name,
		total_distance_km,
		total_travel_time_minutes,
		optimization_score
	FROM tours
	WHERE tour_id = $1;
	`
	var t domain.Tour
	err = s.DB.QueryRowContext(ctx, query, tourID).Scan(
		&t.TourID, &t.ArtistID, &t.Name,
		&t.TotalDistanceKm, &t.TotalTravelTimeMinutes, &t.OptimizationScore,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tour %d: %w", tourID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tour %d: query tours table: %w", tourID, err)
	}

	return &t, nil
}

func (s *SQLTourRepository) ListStops(ctx context.Context, tourID int64) (stops []domain.TourStop, err error) {
	defer obs.Time(ctx, "repo.list_stops")(&err)

	if s.DB == nil {
		return nil, errors.New("sql tour repository: DB is nil")
	}

	query := `
	SELECT
		stop_id,
		tour_id,
		venue_id,
		status,
		stop_date,
		sequence,
		gap_filling
	FROM tour_stops
	WHERE tour_id = $1
	ORDER BY sequence, stop_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("list stops: query tour_stops table: %w", err)
	}
	defer rows.Close()

	stops = make([]domain.TourStop, 0, 32)
	for rows.Next() {
		var (
			stop    domain.TourStop
			rawStat string
			rawDate sql.NullTime
		)
		if err := rows.Scan(&stop.StopID, &stop.TourID, &stop.VenueID, &rawStat, &rawDate, &stop.Sequence, &stop.GapFilling); err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}

		status, ok := domain.NormalizeStatus(rawStat)
		if !ok {
			log.Printf("unrecognized stop status: tour_id=%d stop_id=%d status=%q", tourID, stop.StopID, rawStat)
		}
		stop.Status = status

		if rawDate.Valid {
			d := rawDate.Time
			stop.Date = &d
		}

		stops = append(stops, stop)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}

func (s *SQLTourRepository) ListFixedPoints(ctx context.Context, tourID int64) (points []domain.FixedPoint, err error) {
	defer obs.Time(ctx, "repo.list_fixed_points")(&err)

	if s.DB == nil {
		return nil, errors.New("sql tour repository: DB is nil")
	}

	query := `
	SELECT
		ts.stop_id,
		ts.venue_id,
		ts.status,
		ts.stop_date,
		v.lat,
		v.lon
	FROM tour_stops ts
	JOIN venues v ON v.venue_id = ts.venue_id
	WHERE ts.tour_id = $1
	ORDER BY ts.sequence, ts.stop_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("list fixed points: query: %w", err)
	}
	defer rows.Close()

	points = make([]domain.FixedPoint, 0, 32)
	for rows.Next() {
		var (
			p        domain.FixedPoint
			rawStat  string
			rawDate  sql.NullTime
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&p.StopID, &p.VenueID, &rawStat, &rawDate, &lat, &lon); err != nil {
			return nil, fmt.Errorf("list fixed points: scan row: %w", err)
		}

		p.Status, _ = domain.NormalizeStatus(rawStat)

		if rawDate.Valid {
			d := rawDate.Time
			p.Date = &d
		}

		if lat.Valid && lon.Valid {
			p.Coords = &domain.GeoPoint{Lat: lat.Float64, Lon: lon.Float64}
		}

		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fixed points: row iteration: %w", err)
	}

	return points, nil
}

func (s *SQLTourRepository) ApplyWritePlan(ctx context.Context, tourID int64, plan *domain.WritePlan) (err error) {
	defer obs.Time(ctx, "repo.apply_write_plan")(&err)

	if s.DB == nil {
		return errors.New("sql tour repository: DB is nil")
	}
	if plan == nil {
		return errors.New("apply write plan: plan is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply write plan: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stop := range plan.Updates {
		if _, err := tx.ExecContext(ctx, `
		UPDATE tour_stops
		SET status = $1, stop_date = $2, sequence = $3, gap_filling = $4
		WHERE stop_id = $5 AND tour_id = $6;
		`, string(stop.Status), formatDate(stop.Date), stop.Sequence, stop.GapFilling, stop.StopID, tourID); err != nil {
			return fmt.Errorf("apply write plan: update stop %d: %w", stop.StopID, err)
		}
	}

	for _, stop := range plan.Inserts {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO tour_stops (tour_id, venue_id, status, stop_date, sequence, gap_filling)
		VALUES ($1, $2, $3, $4, $5, $6);
		`, tourID, stop.VenueID, string(stop.Status), formatDate(stop.Date), stop.Sequence, stop.GapFilling); err != nil {
			return fmt.Errorf("apply write plan: insert stop for venue %d: %w", stop.VenueID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
	UPDATE tours
	SET total_distance_km = $1, total_travel_time_minutes = $2, optimization_score = $3
	WHERE tour_id = $4;
	`, plan.Aggregates.TotalDistanceKm, plan.Aggregates.TotalTravelTimeMinutes, plan.Aggregates.OptimizationScore, tourID); err != nil {
		return fmt.Errorf("apply write plan: update tour aggregates: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply write plan: commit tx: %w", err)
	}

	return nil
}

func (s *SQLTourRepository) ArtistConstraints(ctx context.Context, artistID int64) (c domain.Constraints, err error) {
	defer obs.Time(ctx, "repo.artist_constraints")(&err)

	if s.DB == nil {
		return domain.Constraints{}, errors.New("sql tour repository: DB is nil")
	}

	var raw []byte
	err = s.DB.QueryRowContext(ctx, `SELECT preferences FROM artists WHERE artist_id = $1;`, artistID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Constraints{}, nil
	}
	if err != nil {
		return domain.Constraints{}, fmt.Errorf("artist constraints: query artist %d: %w", artistID, err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &c); err != nil {
			return domain.Constraints{}, fmt.Errorf("artist constraints: decode preferences for artist %d: %w", artistID, err)
		}
	}
	return c, nil
}
