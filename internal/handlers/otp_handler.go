package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stackd-app/stackd-api/internal/helpers"
	"github.com/stackd-app/stackd-api/internal/models"
	"github.com/stackd-app/stackd-api/internal/services"
)

// RequestPasswordReset answers the same way whether or not the address
// exists so the endpoint cannot be used to enumerate accounts.
func RequestPasswordReset(os *services.OTPService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("a valid email is required"))
			return
		}

		if err := os.RequestReset(c.Request.Context(), req.Email); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("failed to send reset code"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "If that address exists, a reset code is on its way"))
	}
}

func VerifyPasswordResetOTP(os *services.OTPService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
			Code  string `json:"code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(services.ErrInvalidOTP.Error()))
			return
		}

		if _, err := os.Verify(c.Request.Context(), req.Email, req.Code); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(services.ErrInvalidOTP.Error()))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Code verified"))
	}
}

func ResetPassword(os *services.OTPService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email       string `json:"email" binding:"required,email"`
			Code        string `json:"code" binding:"required"`
			NewPassword string `json:"new_password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(services.ErrInvalidOTP.Error()))
			return
		}

		if !helpers.IsPasswordStrong(req.NewPassword) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("password must be at least 8 characters with upper, lower, digit and symbol"))
			return
		}

		if err := os.VerifyAndReset(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
			if errors.Is(err, services.ErrInvalidOTP) {
				c.JSON(http.StatusBadRequest, models.ErrorResponse(services.ErrInvalidOTP.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("failed to reset password"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Password updated"))
	}
}
