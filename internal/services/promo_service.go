package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/stackd-app/stackd-api/internal/models"
)

type PromoService struct {
	promoRepo models.PromoRepo
	logger    *slog.Logger
}

func NewPromoService(promoRepo models.PromoRepo, logger *slog.Logger) *PromoService {
	return &PromoService{
		promoRepo: promoRepo,
		logger:    logger,
	}
}

// ParseOrderAmount accepts whatever JSON shape the client sent for the order
// amount. Anything non-numeric, non-finite or negative is rejected.
func ParseOrderAmount(raw interface{}) (float64, bool) {
	var amount float64
	switch v := raw.(type) {
	case float64:
		amount = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		amount = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		amount = f
	default:
		return 0, false
	}

	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, false
	}
	return amount, true
}

// Validate relays a code and order amount to the validate_promo_code routine
// and always returns a usable result: a malformed amount short-circuits to
// invalid without touching the database, and any routine failure collapses
// to invalid rather than propagating.
func (ps *PromoService) Validate(ctx context.Context, code string, rawAmount interface{}) *models.PromoResult {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.InvalidPromo()
	}

	amount, ok := ParseOrderAmount(rawAmount)
	if !ok {
		return models.InvalidPromo()
	}

	result, err := ps.promoRepo.ValidatePromoCode(ctx, code, amount)
	if err != nil {
		ps.logger.Error("Promo validation failed", "code", code, "error", err)
		return models.InvalidPromo()
	}
	return result
}
