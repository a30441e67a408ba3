package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	ID              uuid.UUID `db:"id" json:"id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	VendorProfileID uuid.UUID `db:"vendor_profile_id" json:"vendor_profile_id"`
	// StripeSessionID is unique per booking and doubles as the idempotency
	// key for webhook retries.
	StripeSessionID string    `db:"stripe_session_id" json:"stripe_session_id"`
	Status          string    `db:"status" json:"status"`
	BookingDate     string    `db:"booking_date" json:"booking_date"` // YYYY-MM-DD
	BookingTime     string    `db:"booking_time" json:"booking_time"` // HH:MM
	Guests          int       `db:"guests" json:"guests"`
	TotalAmount     float64   `db:"total_amount" json:"total_amount"`
	Currency        string    `db:"currency" json:"currency"`
	GuestEmail      string    `db:"guest_email" json:"guest_email"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}
