package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stackd-app/stackd-api/internal/models"
	"github.com/stackd-app/stackd-api/internal/services"
)

func CreateVendorProfile(vs *services.VendorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userID, ok := currentUser(c)
		if !ok {
			return
		}

		if !claims.IsVendor() && !claims.IsHost() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only vendors and hosts can create a vendor profile"))
			return
		}

		var vendor models.VendorProfile
		if err := c.ShouldBindJSON(&vendor); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		vendor.UserID = userID
		if vendor.ContactEmail == "" {
			vendor.ContactEmail = claims.Email
		}

		accessToken, _ := c.Cookie("access_token")
		created, err := vs.CreateVendorProfile(c.Request.Context(), &vendor, accessToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Vendor profile created"))
	}
}

func GetVendorProfile(vs *services.VendorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}

		vendor, err := vs.GetVendorProfile(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		if vendor == nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse("vendor profile not found"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(vendor, ""))
	}
}

func StartConnectOnboarding(ps *services.PayoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}

		url, err := ps.StartOnboarding(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusBadGateway, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

func ConnectOnboardingStatus(ps *services.PayoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}

		complete, err := ps.RefreshOnboardingStatus(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusBadGateway, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, gin.H{"onboarding_complete": complete})
	}
}
