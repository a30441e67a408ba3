package models

import (
	"testing"
	"time"
)

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleUser, RoleHost, RoleVendor} {
		if !IsValidRole(role) {
			t.Errorf("%q should be a valid role", role)
		}
	}
	for _, role := range []string{"admin", "", "Vendor", "superuser"} {
		if IsValidRole(role) {
			t.Errorf("%q should not be a valid role", role)
		}
	}
}

func TestOTPExpired(t *testing.T) {
	now := time.Now()
	otp := PasswordResetOTP{ExpiresAt: now.Add(OTPTTL)}

	if otp.Expired(now) {
		t.Error("fresh OTP should not be expired")
	}
	if !otp.Expired(now.Add(OTPTTL + time.Second)) {
		t.Error("OTP past its TTL should be expired")
	}
}

func TestBookingIsCancelled(t *testing.T) {
	completed := Booking{Status: BookingStatusCompleted}
	cancelled := Booking{Status: BookingStatusCancelled}

	if completed.IsCancelled() {
		t.Error("completed booking is not cancelled")
	}
	if !cancelled.IsCancelled() {
		t.Error("cancelled booking should report cancelled")
	}
}
