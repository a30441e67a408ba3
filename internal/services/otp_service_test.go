package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/models"
)

func TestGenerateCodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode failed: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
	}
}

func activeOTP(email, code string) *models.PasswordResetOTP {
	return &models.PasswordResetOTP{
		ID:        uuid.New(),
		Email:     email,
		Code:      code,
		Used:      false,
		ExpiresAt: time.Now().Add(models.OTPTTL),
		CreatedAt: time.Now(),
	}
}

// Every failure mode must produce the same error so the endpoint cannot leak
// which condition failed.
func TestVerifyUniformFailure(t *testing.T) {
	tests := []struct {
		name string
		otp  *models.PasswordResetOTP
		err  error
		code string
	}{
		{"no active otp", nil, nil, "123456"},
		{"lookup error", nil, errors.New("db down"), "123456"},
		{"wrong code", activeOTP("a@b.com", "654321"), nil, "123456"},
		{"already used", func() *models.PasswordResetOTP {
			o := activeOTP("a@b.com", "123456")
			o.Used = true
			return o
		}(), nil, "123456"},
		{"expired", func() *models.PasswordResetOTP {
			o := activeOTP("a@b.com", "123456")
			o.ExpiresAt = time.Now().Add(-time.Minute)
			return o
		}(), nil, "123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			otpRepo := &fakeOTPRepo{
				GetActiveOTPFn: func(ctx context.Context, email string) (*models.PasswordResetOTP, error) {
					return tt.otp, tt.err
				},
			}
			os := NewOTPService(otpRepo, &fakeProfileRepo{}, &fakeMailer{}, testLogger())

			_, err := os.Verify(context.Background(), "a@b.com", tt.code)
			if !errors.Is(err, ErrInvalidOTP) {
				t.Errorf("expected ErrInvalidOTP, got %v", err)
			}
		})
	}
}

func TestVerifyMatchingCode(t *testing.T) {
	otp := activeOTP("a@b.com", "042042")
	otpRepo := &fakeOTPRepo{
		GetActiveOTPFn: func(ctx context.Context, email string) (*models.PasswordResetOTP, error) {
			if email != "a@b.com" {
				t.Errorf("email should be lower-cased and trimmed, got %q", email)
			}
			return otp, nil
		},
	}
	os := NewOTPService(otpRepo, &fakeProfileRepo{}, &fakeMailer{}, testLogger())

	got, err := os.Verify(context.Background(), "  A@B.com ", "042042")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if got.ID != otp.ID {
		t.Error("returned a different OTP row")
	}
}

// The code is single-use: it is consumed before the password changes, so a
// second attempt with the same code fails.
func TestVerifyAndResetConsumesCode(t *testing.T) {
	otp := activeOTP("a@b.com", "111222")
	marked := false
	otpRepo := &fakeOTPRepo{
		GetActiveOTPFn: func(ctx context.Context, email string) (*models.PasswordResetOTP, error) {
			if marked {
				return nil, nil
			}
			return otp, nil
		},
		MarkOTPUsedFn: func(ctx context.Context, id uuid.UUID) error {
			if id != otp.ID {
				t.Errorf("marked wrong OTP %s", id)
			}
			marked = true
			return nil
		},
	}
	passwordSet := ""
	profileRepo := &fakeProfileRepo{
		UpdatePasswordFn: func(ctx context.Context, email, newPassword string) error {
			if !marked {
				t.Error("password updated before OTP was consumed")
			}
			passwordSet = newPassword
			return nil
		},
	}
	os := NewOTPService(otpRepo, profileRepo, &fakeMailer{}, testLogger())

	if err := os.VerifyAndReset(context.Background(), "a@b.com", "111222", "N3w!Passw0rd"); err != nil {
		t.Fatalf("VerifyAndReset failed: %v", err)
	}
	if passwordSet != "N3w!Passw0rd" {
		t.Errorf("password not set, got %q", passwordSet)
	}

	err := os.VerifyAndReset(context.Background(), "a@b.com", "111222", "An0ther!Pass")
	if !errors.Is(err, ErrInvalidOTP) {
		t.Errorf("reused code should fail with ErrInvalidOTP, got %v", err)
	}
}

func TestRequestResetStoresAndMails(t *testing.T) {
	var stored *models.PasswordResetOTP
	otpRepo := &fakeOTPRepo{
		CreateOTPFn: func(ctx context.Context, otp *models.PasswordResetOTP) error {
			stored = otp
			return nil
		},
	}
	mailer := &fakeMailer{}
	os := NewOTPService(otpRepo, &fakeProfileRepo{}, mailer, testLogger())

	if err := os.RequestReset(context.Background(), "User@Example.COM"); err != nil {
		t.Fatalf("RequestReset failed: %v", err)
	}
	if stored == nil {
		t.Fatal("no OTP stored")
	}
	if stored.Email != "user@example.com" {
		t.Errorf("email not normalized: %q", stored.Email)
	}
	if len(stored.Code) != 6 {
		t.Errorf("bad code length: %q", stored.Code)
	}
	ttl := time.Until(stored.ExpiresAt)
	if ttl < 9*time.Minute || ttl > 11*time.Minute {
		t.Errorf("expiry should be about 10 minutes out, got %v", ttl)
	}
	if len(mailer.Sent) != 1 || mailer.Sent[0] != "user@example.com" {
		t.Errorf("expected one mail to user@example.com, got %v", mailer.Sent)
	}
}

// Cleanup failure is tolerated; the reset flow carries on.
func TestRequestResetToleratesCleanupFailure(t *testing.T) {
	otpRepo := &fakeOTPRepo{
		CleanupExpiredOTPFn: func(ctx context.Context) error {
			return errors.New("rpc missing")
		},
		CreateOTPFn: func(ctx context.Context, otp *models.PasswordResetOTP) error {
			return nil
		},
	}
	os := NewOTPService(otpRepo, &fakeProfileRepo{}, &fakeMailer{}, testLogger())

	if err := os.RequestReset(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("RequestReset should survive cleanup failure, got %v", err)
	}
}

func TestRequestResetRejectsBadEmail(t *testing.T) {
	os := NewOTPService(&fakeOTPRepo{}, &fakeProfileRepo{}, &fakeMailer{}, testLogger())

	if err := os.RequestReset(context.Background(), "not-an-email"); err == nil {
		t.Error("expected error for malformed email")
	}
}
