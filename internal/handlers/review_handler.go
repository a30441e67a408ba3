package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/models"
	"github.com/stackd-app/stackd-api/internal/services"
)

func CreateReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}

		var review models.Review
		if err := c.ShouldBindJSON(&review); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		review.UserID = userID

		if err := models.Validate.Struct(&review); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		created, err := rs.CreateReview(c.Request.Context(), &review, accessToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Review posted"))
	}
}

func ListVendorReviews(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid vendor ID format"))
			return
		}

		reviews, err := rs.ListReviews(c.Request.Context(), vendorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		scraped, err := rs.ListScrapedReviews(c.Request.Context(), vendorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"reviews":  reviews,
			"external": scraped,
		})
	}
}

func RefreshVendorReviews(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _, ok := currentUser(c)
		if !ok {
			return
		}
		if !claims.IsVendor() && !claims.IsHost() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only vendors and hosts can refresh reviews"))
			return
		}

		vendorID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid vendor ID format"))
			return
		}

		var req struct {
			ScrapeURL string `json:"scrape_url"`
		}
		// Body is optional; vendors with a Google place ID need no URL.
		_ = c.ShouldBindJSON(&req)

		scraped, err := rs.RefreshExternalReviews(c.Request.Context(), vendorID, req.ScrapeURL)
		if err != nil {
			if strings.Contains(err.Error(), "vendor not found") {
				c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
				return
			}
			if strings.Contains(err.Error(), "no review source") {
				c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
				return
			}
			c.JSON(http.StatusBadGateway, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(scraped, "External reviews refreshed"))
	}
}
