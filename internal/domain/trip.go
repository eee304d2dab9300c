// Package domain contains the core data types for the transport admission
// service. This package has zero external dependencies beyond uuid and is
// imported by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip seat-availability labels returned by Trip.SeatStatus.
const (
	TripAvailable = "Available"
	TripFull      = "Full"
)

// Trip is a scheduled vehicle departure with a fixed seat capacity.
// CapacityUsed only ever grows, and only through an admission transaction;
// the invariant 0 <= CapacityUsed <= CapacityTotal holds for every committed
// state and is additionally enforced by a CHECK constraint in the schema.
type Trip struct {
	ID            uuid.UUID `json:"id"`
	Destination   string    `json:"destination"`
	DepartureAt   time.Time `json:"departure_at"`
	Plate         string    `json:"plate"`
	Driver        string    `json:"driver"`
	CapacityTotal int       `json:"capacity_total"`
	CapacityUsed  int       `json:"capacity_used"`
	CreatedAt     time.Time `json:"created_at"`
}

// SeatsAvailable returns the number of unclaimed seats on the trip.
func (t Trip) SeatsAvailable() int {
	return t.CapacityTotal - t.CapacityUsed
}

// SeatStatus returns the board label for the trip: TripFull when no seats
// remain, TripAvailable otherwise.
func (t Trip) SeatStatus() string {
	if t.SeatsAvailable() <= 0 {
		return TripFull
	}
	return TripAvailable
}

// TripFilter narrows ListUpcoming results. Destination matches as a
// case-insensitive substring; Date matches the calendar day of departure.
// Zero values mean "no filter".
type TripFilter struct {
	Destination string
	Date        *time.Time
}
