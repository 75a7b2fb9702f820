package domain

import "strings"

// StopStatus is the canonical booking status of a tour stop.
type StopStatus string

const (
	StatusConfirmed StopStatus = "confirmed"
	StatusHold      StopStatus = "hold"
	StatusPotential StopStatus = "potential"
	StatusCancelled StopStatus = "cancelled"
)

// NormalizeStatus maps free-form booking status strings onto the canonical
// set. Booking data arrives with vendor-specific variants ("hold2",
// "negotiating", "suggested", ...); unrecognized values normalize to
// potential with ok=false so callers can flag them instead of silently
// accepting bad data.
func NormalizeStatus(raw string) (StopStatus, bool) {
	switch s := strings.ToLower(strings.TrimSpace(raw)); s {
	case "confirmed", "booked", "contracted":
		return StatusConfirmed, true
	case "hold", "hold1", "hold2", "hold3", "hold4", "negotiating":
		return StatusHold, true
	case "potential", "suggested", "proposed":
		return StatusPotential, true
	case "cancelled", "canceled", "released":
		return StatusCancelled, true
	default:
		return StatusPotential, false
	}
}

// Mutable reports whether the optimizer may reschedule a stop in this status.
// Confirmed stops are immutable anchors.
func (s StopStatus) Mutable() bool {
	return s != StatusConfirmed
}
