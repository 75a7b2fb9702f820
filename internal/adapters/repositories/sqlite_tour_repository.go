package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"tour-route-service/internal/domain"
)

const dateLayout = "2006-01-02"

// SQLite-backed implementation of the TourRepository and PreferenceSource
// ports.
type SqliteTourRepository struct{ DB *sql.DB }

func NewSqliteTourRepository(db *sql.DB) *SqliteTourRepository {
	return &SqliteTourRepository{DB: db}
}

func (s *SqliteTourRepository) GetTour(ctx context.Context, tourID int64) (*domain.Tour, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite tour repository: DB is nil")
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
	WHERE tour_id = ?;
	`
	var t domain.Tour
	err := s.DB.QueryRowContext(ctx, query, tourID).Scan(
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

func (s *SqliteTourRepository) ListStops(ctx context.Context, tourID int64) ([]domain.TourStop, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite tour repository: DB is nil")
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
	WHERE tour_id = ?
	ORDER BY sequence, stop_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("list stops: query tour_stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.TourStop, 0, 32)
	for rows.Next() {
		var (
			stop    domain.TourStop
			rawStat string
			rawDate sql.NullString
		)
		if err := rows.Scan(&stop.StopID, &stop.TourID, &stop.VenueID, &rawStat, &rawDate, &stop.Sequence, &stop.GapFilling); err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}

		status, ok := domain.NormalizeStatus(rawStat)
		if !ok {
			log.Printf("unrecognized stop status: tour_id=%d stop_id=%d status=%q", tourID, stop.StopID, rawStat)
		}
		stop.Status = status

		if rawDate.Valid && rawDate.String != "" {
			d, err := time.Parse(dateLayout, rawDate.String)
			if err != nil {
				return nil, fmt.Errorf("list stops: stop %d: parse date %q: %w", stop.StopID, rawDate.String, err)
			}
			stop.Date = &d
		}

		stops = append(stops, stop)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}

// Return the tour's stops joined with venue coordinates, as optimizer input.
func (s *SqliteTourRepository) ListFixedPoints(ctx context.Context, tourID int64) ([]domain.FixedPoint, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite tour repository: DB is nil")
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
	WHERE ts.tour_id = ?
	ORDER BY ts.sequence, ts.stop_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("list fixed points: query: %w", err)
	}
	defer rows.Close()

	points := make([]domain.FixedPoint, 0, 32)
	for rows.Next() {
		var (
			p        domain.FixedPoint
			rawStat  string
			rawDate  sql.NullString
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&p.StopID, &p.VenueID, &rawStat, &rawDate, &lat, &lon); err != nil {
			return nil, fmt.Errorf("list fixed points: scan row: %w", err)
		}

		p.Status, _ = domain.NormalizeStatus(rawStat)

		if rawDate.Valid && rawDate.String != "" {
			d, err := time.Parse(dateLayout, rawDate.String)
			if err != nil {
				return nil, fmt.Errorf("list fixed points: stop %d: parse date %q: %w", p.StopID, rawDate.String, err)
			}
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

// Persist a write plan atomically: stop updates, stop inserts, and the
// tour-level aggregates. Unchanged (confirmed) stops are not touched.
func (s *SqliteTourRepository) ApplyWritePlan(ctx context.Context, tourID int64, plan *domain.WritePlan) error {
	if s.DB == nil {
		return errors.New("sqlite tour repository: DB is nil")
	}
	if plan == nil {
		return errors.New("apply write plan: plan is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply write plan: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	updateStmt, err := tx.PrepareContext(ctx, `
	UPDATE tour_stops
	SET status = ?, stop_date = ?, sequence = ?, gap_filling = ?
	WHERE stop_id = ? AND tour_id = ?;
	`)
	if err != nil {
		return fmt.Errorf("apply write plan: prepare update: %w", err)
	}
	defer updateStmt.Close()

	for _, stop := range plan.Updates {
		if _, err := updateStmt.ExecContext(ctx,
			string(stop.Status), formatDate(stop.Date), stop.Sequence, stop.GapFilling,
			stop.StopID, tourID,
		); err != nil {
			return fmt.Errorf("apply write plan: update stop %d: %w", stop.StopID, err)
		}
	}

	insertStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO tour_stops (tour_id, venue_id, status, stop_date, sequence, gap_filling)
	VALUES (?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("apply write plan: prepare insert: %w", err)
	}
	defer insertStmt.Close()

	for _, stop := range plan.Inserts {
		if _, err := insertStmt.ExecContext(ctx,
			tourID, stop.VenueID, string(stop.Status), formatDate(stop.Date), stop.Sequence, stop.GapFilling,
		); err != nil {
			return fmt.Errorf("apply write plan: insert stop for venue %d: %w", stop.VenueID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
	UPDATE tours
	SET total_distance_km = ?, total_travel_time_minutes = ?, optimization_score = ?
	WHERE tour_id = ?;
	`, plan.Aggregates.TotalDistanceKm, plan.Aggregates.TotalTravelTimeMinutes, plan.Aggregates.OptimizationScore, tourID); err != nil {
		return fmt.Errorf("apply write plan: update tour aggregates: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply write plan: commit tx: %w", err)
	}

	return nil
}

// ArtistConstraints loads the artist's persisted preferences. A missing
// artist row yields zero constraints rather than an error: preferences are
// optional data.
func (s *SqliteTourRepository) ArtistConstraints(ctx context.Context, artistID int64) (domain.Constraints, error) {
	if s.DB == nil {
		return domain.Constraints{}, errors.New("sqlite tour repository: DB is nil")
	}

	var raw string
	err := s.DB.QueryRowContext(ctx, `SELECT preferences FROM artists WHERE artist_id = ?;`, artistID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Constraints{}, nil
	}
	if err != nil {
		return domain.Constraints{}, fmt.Errorf("artist constraints: query artist %d: %w", artistID, err)
	}

	var c domain.Constraints
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return domain.Constraints{}, fmt.Errorf("artist constraints: decode preferences for artist %d: %w", artistID, err)
		}
	}
	return c, nil
}

func formatDate(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format(dateLayout)
}
