package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/models"
	"github.com/stackd-app/stackd-api/internal/notify"
)

// ErrInvalidOTP is returned for every verification failure — wrong code,
// expired code, already-used code or unknown e-mail — so callers cannot tell
// which condition failed.
var ErrInvalidOTP = errors.New("Invalid or expired OTP")

type OTPService struct {
	otpRepo     models.OTPRepo
	profileRepo models.ProfileRepo
	mailer      notify.Mailer
	logger      *slog.Logger
}

func NewOTPService(otpRepo models.OTPRepo, profileRepo models.ProfileRepo, mailer notify.Mailer, logger *slog.Logger) *OTPService {
	return &OTPService{
		otpRepo:     otpRepo,
		profileRepo: profileRepo,
		mailer:      mailer,
		logger:      logger,
	}
}

// GenerateCode returns a 6-digit numeric code with leading zeros preserved.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %v", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestReset stores a fresh code for the e-mail and mails it out. The
// response is identical whether or not the address exists, and expired rows
// are reaped opportunistically.
func (os *OTPService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid email address")
	}

	if err := os.otpRepo.CleanupExpiredOTPs(ctx); err != nil {
		os.logger.Info("OTP cleanup failed", "error", err)
	}

	code, err := GenerateCode()
	if err != nil {
		return err
	}

	otp := &models.PasswordResetOTP{
		ID:        uuid.New(),
		Email:     email,
		Code:      code,
		Used:      false,
		ExpiresAt: time.Now().Add(models.OTPTTL),
		CreatedAt: time.Now(),
	}
	if err := os.otpRepo.CreateOTP(ctx, otp); err != nil {
		return fmt.Errorf("failed to store OTP: %v", err)
	}

	body := fmt.Sprintf("<p>Your Stackd password reset code is <strong>%s</strong>. It expires in 10 minutes.</p>", code)
	if err := os.mailer.Send(ctx, email, "Your Stackd reset code", body); err != nil {
		return fmt.Errorf("failed to send reset code: %v", err)
	}
	return nil
}

// Verify checks the code without consuming it.
func (os *OTPService) Verify(ctx context.Context, email, code string) (*models.PasswordResetOTP, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, ErrInvalidOTP
	}

	otp, err := os.otpRepo.GetActiveOTP(ctx, email)
	if err != nil {
		os.logger.Error("OTP lookup failed", "error", err)
		return nil, ErrInvalidOTP
	}
	if otp == nil || otp.Used || otp.Expired(time.Now()) || otp.Code != code {
		return nil, ErrInvalidOTP
	}
	return otp, nil
}

// VerifyAndReset consumes the code and sets the new password. The code is
// single-use: it is marked used before the password update.
func (os *OTPService) VerifyAndReset(ctx context.Context, email, code, newPassword string) error {
	otp, err := os.Verify(ctx, email, code)
	if err != nil {
		return err
	}

	if err := os.otpRepo.MarkOTPUsed(ctx, otp.ID); err != nil {
		return fmt.Errorf("failed to consume OTP: %v", err)
	}

	if err := os.profileRepo.UpdatePassword(ctx, otp.Email, newPassword); err != nil {
		return fmt.Errorf("failed to reset password: %v", err)
	}
	return nil
}
