package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tour-route-service/internal/domain"
)

// SQLite-backed implementation of the VenueRepository port.
type SqliteVenueRepository struct{ DB *sql.DB }

func NewSqliteVenueRepository(db *sql.DB) *SqliteVenueRepository {
	return &SqliteVenueRepository{DB: db}
}

// Return all venues with usable coordinates.
func (s *SqliteVenueRepository) ListGeocodedVenues(ctx context.Context) ([]domain.CandidateVenue, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite venue repository: DB is nil")
	}

	query := `
	SELECT
		venue_id,
		name,
		lat,
		lon,
		capacity,
		region,
		venue_type,
		genres
	FROM venues
	WHERE lat IS NOT NULL AND lon IS NOT NULL
	ORDER BY venue_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list geocoded venues: query venues table: %w", err)
	}
	defer rows.Close()

	return scanVenues(rows)
}

// Return geocoded venues not already attached to the given tour.
func (s *SqliteVenueRepository) ListCandidateVenues(ctx context.Context, tourID int64) ([]domain.CandidateVenue, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite venue repository: DB is nil")
	}

	query := `
	SELECT
		venue_id,
		name,
		lat,
		lon,
		capacity,
		region,
		venue_type,
		genres
	FROM venues
	WHERE lat IS NOT NULL AND lon IS NOT NULL
		AND venue_id NOT IN (
			SELECT venue_id FROM tour_stops WHERE tour_id = ?
		)
	ORDER BY venue_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("list candidate venues: query venues table: %w", err)
	}
	defer rows.Close()

	return scanVenues(rows)
}

func scanVenues(rows *sql.Rows) ([]domain.CandidateVenue, error) {
	venues := make([]domain.CandidateVenue, 0, 64)
	for rows.Next() {
		var (
			v         domain.CandidateVenue
			lat, lon  sql.NullFloat64
			genresRaw string
		)
		if err := rows.Scan(&v.VenueID, &v.Name, &lat, &lon, &v.Capacity, &v.Region, &v.VenueType, &genresRaw); err != nil {
			return nil, fmt.Errorf("scan venue row: %w", err)
		}

		if lat.Valid && lon.Valid {
			v.Coords = &domain.GeoPoint{Lat: lat.Float64, Lon: lon.Float64}
		}

		if genresRaw != "" {
			if err := json.Unmarshal([]byte(genresRaw), &v.Genres); err != nil {
				return nil, fmt.Errorf("venue %d: decode genres: %w", v.VenueID, err)
			}
		}

		venues = append(venues, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("venue row iteration: %w", err)
	}

	return venues, nil
}
