package models

// PromoResult is the normalized outcome of the validate_promo_code database
// routine. Invalid codes and upstream failures both collapse into the zero
// value with Valid=false.
type PromoResult struct {
	Valid          bool    `json:"valid"`
	DiscountType   string  `json:"discount_type,omitempty"` // "percent" or "fixed"
	DiscountValue  float64 `json:"discount_value,omitempty"`
	DiscountAmount float64 `json:"discount_amount,omitempty"`
}

func InvalidPromo() *PromoResult {
	return &PromoResult{Valid: false}
}
