package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stackd-app/stackd-api/internal/models"
)

func TestParseOrderAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want float64
		ok   bool
	}{
		{"float", 49.99, 49.99, true},
		{"zero", 0.0, 0, true},
		{"json number", json.Number("120.5"), 120.5, true},
		{"numeric string", "75", 75, true},
		{"padded string", "  75.5  ", 75.5, true},
		{"negative float", -10.0, 0, false},
		{"negative string", "-10", 0, false},
		{"non-numeric string", "abc", 0, false},
		{"nan string", "NaN", 0, false},
		{"inf string", "Inf", 0, false},
		{"negative inf string", "-Inf", 0, false},
		{"nan float", math.NaN(), 0, false},
		{"inf float", math.Inf(1), 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"object", map[string]interface{}{"amount": 10}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseOrderAmount(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ParseOrderAmount(%v) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseOrderAmount(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

// Malformed amounts must short-circuit to an invalid result without ever
// reaching the database routine.
func TestValidateShortCircuitsBadAmount(t *testing.T) {
	called := false
	promoRepo := &fakePromoRepo{
		ValidatePromoCodeFn: func(ctx context.Context, code string, orderAmount float64) (*models.PromoResult, error) {
			called = true
			return &models.PromoResult{Valid: true}, nil
		},
	}
	ps := NewPromoService(promoRepo, testLogger())

	for _, raw := range []interface{}{"not-a-number", -5.0, "NaN", math.Inf(1), nil} {
		result := ps.Validate(context.Background(), "SAVE10", raw)
		if result.Valid {
			t.Errorf("amount %v should yield invalid result", raw)
		}
	}
	if called {
		t.Error("repo should not be called for malformed amounts")
	}
}

func TestValidateEmptyCode(t *testing.T) {
	ps := NewPromoService(&fakePromoRepo{}, testLogger())

	if result := ps.Validate(context.Background(), "   ", 50.0); result.Valid {
		t.Error("blank code should be invalid")
	}
}

// Routine failures collapse to invalid instead of propagating an error.
func TestValidateCollapsesRepoFailure(t *testing.T) {
	promoRepo := &fakePromoRepo{
		ValidatePromoCodeFn: func(ctx context.Context, code string, orderAmount float64) (*models.PromoResult, error) {
			return nil, errors.New("rpc timeout")
		},
	}
	ps := NewPromoService(promoRepo, testLogger())

	result := ps.Validate(context.Background(), "SAVE10", 50.0)
	if result == nil {
		t.Fatal("result must never be nil")
	}
	if result.Valid {
		t.Error("failed lookup should be invalid")
	}
}

func TestValidatePassesThroughResult(t *testing.T) {
	promoRepo := &fakePromoRepo{
		ValidatePromoCodeFn: func(ctx context.Context, code string, orderAmount float64) (*models.PromoResult, error) {
			if code != "SAVE10" {
				t.Errorf("unexpected code %q", code)
			}
			if orderAmount != 200 {
				t.Errorf("unexpected amount %v", orderAmount)
			}
			return &models.PromoResult{Valid: true, DiscountType: "percent", DiscountValue: 10, DiscountAmount: 20}, nil
		},
	}
	ps := NewPromoService(promoRepo, testLogger())

	result := ps.Validate(context.Background(), "SAVE10", 200.0)
	if !result.Valid || result.DiscountAmount != 20 {
		t.Errorf("unexpected result: %+v", result)
	}
}
