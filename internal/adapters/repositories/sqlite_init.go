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

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createVenuesQuery := `
	CREATE TABLE IF NOT EXISTS venues (
		venue_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		lat REAL,
		lon REAL,
		capacity INTEGER NOT NULL DEFAULT 0,
		region TEXT NOT NULL DEFAULT '',
		venue_type TEXT NOT NULL DEFAULT '',
		genres TEXT NOT NULL DEFAULT '[]'
	);
	`

	createArtistsQuery := `
	CREATE TABLE IF NOT EXISTS artists (
		artist_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		preferences TEXT NOT NULL DEFAULT '{}'
	);
	`

	createToursQuery := `
	CREATE TABLE IF NOT EXISTS tours (
		tour_id INTEGER PRIMARY KEY,
		artist_id INTEGER NOT NULL REFERENCES artists(artist_id),
		name TEXT NOT NULL,
		total_distance_km REAL NOT NULL DEFAULT 0,
		total_travel_time_minutes INTEGER NOT NULL DEFAULT 0,
		optimization_score INTEGER NOT NULL DEFAULT 0
	);
	`

	createTourStopsQuery := `
	CREATE TABLE IF NOT EXISTS tour_stops (
		stop_id INTEGER PRIMARY KEY AUTOINCREMENT,
		tour_id INTEGER NOT NULL REFERENCES tours(tour_id),
		venue_id INTEGER NOT NULL REFERENCES venues(venue_id),
		status TEXT NOT NULL DEFAULT 'potential',
		stop_date TEXT,
		sequence INTEGER NOT NULL DEFAULT 0,
		gap_filling INTEGER NOT NULL DEFAULT 0
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_tour_stops_tour_sequence
	ON tour_stops(tour_id, sequence);
	`

	statements := []string{
		createVenuesQuery,
		createArtistsQuery,
		createToursQuery,
		createTourStopsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type VenueSeed struct {
	VenueID   int64    `json:"venue_id"`
	Name      string   `json:"name"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Capacity  int      `json:"capacity"`
	Region    string   `json:"region"`
	VenueType string   `json:"venue_type"`
	Genres    []string `json:"genres"`
}

type ArtistSeed struct {
	ArtistID    int64              `json:"artist_id"`
	Name        string             `json:"name"`
	Preferences domain.Constraints `json:"preferences"`
}

type TourSeed struct {
	TourID   int64      `json:"tour_id"`
	ArtistID int64      `json:"artist_id"`
	Name     string     `json:"name"`
	Stops    []StopSeed `json:"stops"`
}

type StopSeed struct {
	VenueID  int64  `json:"venue_id"`
	Status   string `json:"status"`
	Date     string `json:"date"`
	Sequence int    `json:"sequence"`
}

type SeedFile struct {
	Venues  []VenueSeed  `json:"venues"`
	Artists []ArtistSeed `json:"artists"`
	Tours   []TourSeed   `json:"tours"`
}

// Populate the database with venue, artist, and tour data from a JSON file.
// Stop statuses are normalized on the way in; unrecognized values are
// rejected so bad fixtures fail loudly instead of seeding junk.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
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

	if err := seedVenues(tx, data.Venues); err != nil {
		return fmt.Errorf("seed tours: %w", err)
	}
	if err := seedArtists(tx, data.Artists); err != nil {
		return fmt.Errorf("seed tours: %w", err)
	}
	if err := seedTours(tx, data.Tours); err != nil {
		return fmt.Errorf("seed tours: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed tours: commit tx: %w", err)
	}

	return nil
}

func seedVenues(tx *sql.Tx, venues []VenueSeed) error {
	stmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO venues (
		venue_id,
		name,
		lat,
		lon,
		capacity,
		region,
		venue_type,
		genres
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
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

func seedArtists(tx *sql.Tx, artists []ArtistSeed) error {
	stmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO artists (artist_id, name, preferences)
	VALUES (?, ?, ?);
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

func seedTours(tx *sql.Tx, tours []TourSeed) error {
	tourStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO tours (tour_id, artist_id, name)
	VALUES (?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("prepare tour insert: %w", err)
	}
	defer tourStmt.Close()

	stopStmt, err := tx.Prepare(`
	INSERT INTO tour_stops (tour_id, venue_id, status, stop_date, sequence)
	VALUES (?, ?, ?, ?, ?);
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
