package dto

type VenueResponse struct {
	VenueID   int64    `json:"venue_id"`
	Name      string   `json:"name"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Capacity  int      `json:"capacity"`
	Region    string   `json:"region"`
	VenueType string   `json:"venue_type"`
	Genres    []string `json:"genres"`
}

type ListVenuesResponse struct {
	Venues []VenueResponse `json:"venues"`
}
