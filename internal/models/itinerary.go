package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinTripDays = 1
	MaxTripDays = 14
)

type ItineraryItem struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	VendorName    string    `db:"vendor_name" json:"vendor_name" validate:"required"`
	VendorAddress string    `db:"vendor_address" json:"vendor_address"`
	PlaceID       string    `db:"place_id" json:"place_id"`
	Latitude      float64   `db:"latitude" json:"latitude"`
	Longitude     float64   `db:"longitude" json:"longitude"`
	// Travel figures are measured from the previous stop in sort order and
	// are best-effort; empty when directions lookup was unavailable.
	TravelDistance string    `db:"travel_distance" json:"travel_distance"`
	TravelDuration string    `db:"travel_duration" json:"travel_duration"`
	Notes          string    `db:"notes" json:"notes"`
	PlannedDate    string    `db:"planned_date" json:"planned_date"` // YYYY-MM-DD
	PlannedTime    string    `db:"planned_time" json:"planned_time"` // HH:MM
	SortOrder      int       `db:"sort_order" json:"sort_order"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// TripRange is the date window a generated itinerary covers.
type TripRange struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Days      int       `json:"days"`
}
