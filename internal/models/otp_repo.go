package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OTPRepo interface {
	CreateOTP(ctx context.Context, otp *PasswordResetOTP) error
	GetActiveOTP(ctx context.Context, email string) (*PasswordResetOTP, error)
	MarkOTPUsed(ctx context.Context, id uuid.UUID) error
	CleanupExpiredOTPs(ctx context.Context) error
}

func (su *SupabaseRepo) CreateOTP(ctx context.Context, otp *PasswordResetOTP) error {
	otp.Email = strings.ToLower(strings.TrimSpace(otp.Email))

	_, count, err := su.supabaseClient.From(PasswordResetTable).
		Insert(otp, false, "", "", "exact").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert OTP: %v", err)
	}
	if count == 0 {
		return fmt.Errorf("no OTP row returned after insert")
	}
	return nil
}

// GetActiveOTP returns the newest unused, unexpired code for the e-mail, or
// nil when there is none. Matching is on the lower-cased address.
func (su *SupabaseRepo) GetActiveOTP(ctx context.Context, email string) (*PasswordResetOTP, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	raw, _, err := su.supabaseClient.From(PasswordResetTable).
		Select("*", "", false).
		Eq("email", email).
		Eq("used", "false").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to look up OTP: %v", err)
	}

	var otps []PasswordResetOTP
	if err := json.Unmarshal(raw, &otps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal OTP rows: %v", err)
	}

	now := time.Now()
	var latest *PasswordResetOTP
	for i := range otps {
		if otps[i].Expired(now) {
			continue
		}
		if latest == nil || otps[i].CreatedAt.After(latest.CreatedAt) {
			latest = &otps[i]
		}
	}
	return latest, nil
}

func (su *SupabaseRepo) MarkOTPUsed(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("invalid UUID")
	}

	_, count, err := su.supabaseClient.From(PasswordResetTable).
		Update(map[string]interface{}{"used": true}, "", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to mark OTP used: %v", err)
	}
	if count == 0 {
		return fmt.Errorf("no OTP found to update")
	}
	return nil
}

// CleanupExpiredOTPs reaps expired rows through the cleanup_expired_otps
// database routine. Best-effort; callers log and move on.
func (su *SupabaseRepo) CleanupExpiredOTPs(ctx context.Context) error {
	// The routine returns void; the client surfaces nothing useful to check.
	su.supabaseClient.Rpc(CleanupOTPsRPC, "", map[string]interface{}{})
	return nil
}
