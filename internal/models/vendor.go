package models

import (
	"time"

	"github.com/google/uuid"
)

type VendorProfile struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	BusinessName string    `db:"business_name" json:"business_name"`
	ContactEmail string    `db:"contact_email" json:"contact_email"`
	// StripeAccountID is created lazily the first time the vendor starts
	// Connect onboarding.
	StripeAccountID          string    `db:"stripe_account_id" json:"stripe_account_id"`
	StripeOnboardingComplete bool      `db:"stripe_onboarding_complete" json:"stripe_onboarding_complete"`
	GooglePlaceID            string    `db:"google_place_id" json:"google_place_id"`
	GoogleRating             float64   `db:"google_rating" json:"google_rating"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time `db:"updated_at" json:"updated_at"`
}
