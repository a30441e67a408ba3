package models

import (
	"context"
	"encoding/json"
	"fmt"
)

type PromoRepo interface {
	ValidatePromoCode(ctx context.Context, code string, orderAmount float64) (*PromoResult, error)
}

// ValidatePromoCode relays to the privileged validate_promo_code routine.
// Discount math lives in the database; this is a thin relay.
func (su *SupabaseRepo) ValidatePromoCode(ctx context.Context, code string, orderAmount float64) (*PromoResult, error) {
	raw := su.supabaseClient.Rpc(ValidatePromoRPC, "", map[string]interface{}{
		"p_code":         code,
		"p_order_amount": orderAmount,
	})
	if raw == "" {
		return nil, fmt.Errorf("validate_promo_code returned no result")
	}

	var result PromoResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal promo result: %v", err)
	}
	return &result, nil
}
