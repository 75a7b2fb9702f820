package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
)

// Constraints configures one optimization call. Zero-valued fields mean
// "unset": defaults are applied by WithDefaults and caller-supplied values
// override artist preferences field by field in Merge.
type Constraints struct {
	MaxTravelDistancePerDayKm float64  `json:"max_travel_distance_per_day_km"`
	MinDaysBetweenShows       int      `json:"min_days_between_shows"`
	MaxDaysBetweenShows       int      `json:"max_days_between_shows"`
	AvoidDates                []string `json:"avoid_dates"`
	RequiredDaysOff           []string `json:"required_days_off"`
	PreferredRegions          []string `json:"preferred_regions"`
	PreferredVenueTypes       []string `json:"preferred_venue_types"`
	CapacityMin               int      `json:"capacity_min"`
	CapacityMax               int      `json:"capacity_max"`
	Genres                    []string `json:"genres"`
}

// WithDefaults returns a copy with unset fields replaced by engine defaults.
func (c Constraints) WithDefaults() Constraints {
	if c.MinDaysBetweenShows == 0 {
		c.MinDaysBetweenShows = 1
	}
	if c.MaxDaysBetweenShows == 0 {
		c.MaxDaysBetweenShows = 14
	}
	if c.MaxTravelDistancePerDayKm == 0 {
		c.MaxTravelDistancePerDayKm = 800
	}
	return c
}

// Merge overlays caller-supplied overrides onto base constraints (typically
// the artist's persisted preferences). Override fields win when set.
func Merge(base, override Constraints) Constraints {
	out := base
	if override.MaxTravelDistancePerDayKm != 0 {
		out.MaxTravelDistancePerDayKm = override.MaxTravelDistancePerDayKm
	}
	if override.MinDaysBetweenShows != 0 {
		out.MinDaysBetweenShows = override.MinDaysBetweenShows
	}
	if override.MaxDaysBetweenShows != 0 {
		out.MaxDaysBetweenShows = override.MaxDaysBetweenShows
	}
	if len(override.AvoidDates) != 0 {
		out.AvoidDates = override.AvoidDates
	}
	if len(override.RequiredDaysOff) != 0 {
		out.RequiredDaysOff = override.RequiredDaysOff
	}
	if len(override.PreferredRegions) != 0 {
		out.PreferredRegions = override.PreferredRegions
	}
	if len(override.PreferredVenueTypes) != 0 {
		out.PreferredVenueTypes = override.PreferredVenueTypes
	}
	if override.CapacityMin != 0 {
		out.CapacityMin = override.CapacityMin
	}
	if override.CapacityMax != 0 {
		out.CapacityMax = override.CapacityMax
	}
	if len(override.Genres) != 0 {
		out.Genres = override.Genres
	}
	return out
}

// Hash returns a stable hex digest of the constraints, suitable for cache
// keying. Slice fields are sorted before encoding so callers that supply the
// same values in a different order share a cache entry. encoding/json emits
// struct fields in declaration order, so the encoding itself is stable.
func (c Constraints) Hash() string {
	c.AvoidDates = sortedCopy(c.AvoidDates)
	c.RequiredDaysOff = sortedCopy(c.RequiredDaysOff)
	c.PreferredRegions = sortedCopy(c.PreferredRegions)
	c.PreferredVenueTypes = sortedCopy(c.PreferredVenueTypes)
	c.Genres = sortedCopy(c.Genres)

	b, err := json.Marshal(c)
	if err != nil {
		// Marshaling a plain struct of strings and numbers cannot fail.
		panic("hash constraints: " + err.Error())
	}

	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func sortedCopy(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := slices.Clone(in)
	slices.Sort(out)
	return out
}
