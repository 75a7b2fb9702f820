package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"tour-route-service/internal/domain"
)

// Initialize the Postgres database schema. Mirrors the SQLite schema with
// Postgres types and identity columns.
func InitSchemaPostgres(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS venues (
			venue_id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			lat DOUBLE PRECISION,
			lon DOUBLE PRECISION,
			capacity INTEGER NOT NULL DEFAULT 0,
			region TEXT NOT NULL DEFAULT '',
			venue_type TEXT NOT NULL DEFAULT '',
			genres JSONB NOT NULL DEFAULT '[]'
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS artists (
			artist_id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			preferences JSONB NOT NULL DEFAULT '{}'
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS tours (
			tour_id BIGINT PRIMARY KEY,
			artist_id BIGINT NOT NULL REFERENCES artists(artist_id),
			name TEXT NOT NULL,
			total_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_travel_time_minutes INTEGER NOT NULL DEFAULT 0,
			optimization_score INTEGER NOT NULL DEFAULT 0
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS tour_stops (
			stop_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			tour_id BIGINT NOT NULL REFERENCES tours(tour_id),
			venue_id BIGINT NOT NULL REFERENCES venues(venue_id),
			status TEXT NOT NULL DEFAULT 'potential',
			stop_date DATE,
			sequence INTEGER NOT NULL DEFAULT 0,
			gap_filling BOOLEAN NOT NULL DEFAULT FALSE
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_tour_stops_tour_sequence
		ON tour_stops(tour_id, sequence);
		`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}

// Populate a Postgres database from the same seed file format the SQLite
// seeder accepts.
func SeedFromJSONPostgres(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed tours: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed tours: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed tours: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := seedVenuesPostgres(tx, data.Venues); err != nil {
		return fmt.Errorf("seed tours: %w", err)
	}
	if err := seedArtistsPostgres(tx, data.Artists); err != nil {
		return fmt.Errorf("seed tours: %w", err)
	}
	if err := seedToursPostgres(tx, data.Tours); err != nil {
		return fmt.Errorf("seed tours: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed tours: commit tx: %w", err)
	}

	return nil
}

func seedVenuesPostgres(tx *sql.Tx, venues []VenueSeed) error {
	stmt, err := tx.Prepare(`
	INSERT INTO venues (venue_id, name, lat, lon, capacity, region, venue_type, genres)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (venue_id) DO UPDATE SET
		name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		capacity = EXCLUDED.capacity,
		region = EXCLUDED.region,
		venue_type = EXCLUDED.venue_type,
		genres = EXCLUDED.genres;
	`)
	if err != nil {
		return fmt.Errorf("prepare venue insert: %w", err)
	}
	defer stmt.Close()

	for i, v := range venues {
		if v.VenueID <= 0 {
			return fmt.Errorf("invalid venue_id at index %d: %d", i, v.VenueID)
		}
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return fmt.Errorf("venue %d: name cannot be empty", v.VenueID)
		}

		genres, err := json.Marshal(v.Genres)
		if err != nil {
			return fmt.Errorf("venue %d: encode genres: %w", v.VenueID, err)
		}

		if _, err := stmt.Exec(v.VenueID, name, v.Lat, v.Lon, v.Capacity, v.Region, v.VenueType, string(genres)); err != nil {
			return fmt.Errorf("insert venue_id=%d: %w", v.VenueID, err)
		}
	}
	return nil
}

func seedArtistsPostgres(tx *sql.Tx, artists []ArtistSeed) error {
	stmt, err := tx.Prepare(`
	INSERT INTO artists (artist_id, name, preferences)
	VALUES ($1, $2, $3)
	ON CONFLICT (artist_id) DO UPDATE SET
		name = EXCLUDED.name,
		preferences = EXCLUDED.preferences;
	`)
	if err != nil {
		return fmt.Errorf("prepare artist insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range artists {
		if a.ArtistID <= 0 {
			return fmt.Errorf("invalid artist_id at index %d: %d", i, a.ArtistID)
		}

		prefs, err := json.Marshal(a.Preferences)
		if err != nil {
			return fmt.Errorf("artist %d: encode preferences: %w", a.ArtistID, err)
		}

		if _, err := stmt.Exec(a.ArtistID, strings.TrimSpace(a.Name), string(prefs)); err != nil {
			return fmt.Errorf("insert artist_id=%d: %w", a.ArtistID, err)
		}
	}
	return nil
}

func seedToursPostgres(tx *sql.Tx, tours []TourSeed) error {
	tourStmt, err := tx.Prepare(`
	INSERT INTO tours (tour_id, artist_id, name)
	VALUES ($1, $2, $3)
	ON CONFLICT (tour_id) DO UPDATE SET
		artist_id = EXCLUDED.artist_id,
		name = EXCLUDED.name;
	`)
	if err != nil {
		return fmt.Errorf("prepare tour insert: %w", err)
	}
	defer tourStmt.Close()

	stopStmt, err := tx.Prepare(`
	INSERT INTO tour_stops (tour_id, venue_id, status, stop_date, sequence)
	VALUES ($1, $2, $3, $4, $5);
	`)
	if err != nil {
		return fmt.Errorf("prepare stop insert: %w", err)
	}
	defer stopStmt.Close()

	for _, tour := range tours {
		if tour.TourID <= 0 {
			return fmt.Errorf("invalid tour_id: %d", tour.TourID)
		}
		if _, err := tourStmt.Exec(tour.TourID, tour.ArtistID, strings.TrimSpace(tour.Name)); err != nil {
			return fmt.Errorf("insert tour_id=%d: %w", tour.TourID, err)
		}

		for i, s := range tour.Stops {
			status, ok := domain.NormalizeStatus(s.Status)
			if !ok {
				return fmt.Errorf("tour %d stop #%d: unrecognized status %q", tour.TourID, i+1, s.Status)
			}

			var date any
			if strings.TrimSpace(s.Date) != "" {
				date = s.Date
			}

			if _, err := stopStmt.Exec(tour.TourID, s.VenueID, string(status), date, s.Sequence); err != nil {
				return fmt.Errorf("insert stop for tour %d venue %d: %w", tour.TourID, s.VenueID, err)
			}
		}
	}
	return nil
}
