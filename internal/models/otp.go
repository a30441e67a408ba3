package models

import (
	"time"

	"github.com/google/uuid"
)

// OTPTTL is how long a password-reset code stays valid.
const OTPTTL = 10 * time.Minute

type PasswordResetOTP struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"` // stored lower-cased
	Code      string    `db:"code" json:"code"`   // 6 numeric digits
	Used      bool      `db:"used" json:"used"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (o *PasswordResetOTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
