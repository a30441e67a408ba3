package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stackd-app/stackd-api/internal/models"
	"github.com/stackd-app/stackd-api/internal/services"
)

// ValidatePromo always answers 200 with a promo result. Bad input and
// database failures both come back as an invalid code so the checkout flow
// never blocks on this endpoint.
func ValidatePromo(ps *services.PromoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Code        string      `json:"code"`
			OrderAmount interface{} `json:"order_amount"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, models.InvalidPromo())
			return
		}

		result := ps.Validate(c.Request.Context(), req.Code, req.OrderAmount)
		c.JSON(http.StatusOK, result)
	}
}
