package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/models"
	"github.com/stackd-app/stackd-api/internal/services"
	"github.com/stackd-app/stackd-api/internal/stripe"
)

func CreateCheckout(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userID, ok := currentUser(c)
		if !ok {
			return
		}

		var req struct {
			VendorProfileID uuid.UUID `json:"vendor_profile_id" binding:"required"`
			ExperienceName  string    `json:"experience_name" binding:"required"`
			Amount          float64   `json:"amount" binding:"required,gt=0"`
			Currency        string    `json:"currency"`
			BookingDate     string    `json:"booking_date" binding:"required"`
			BookingTime     string    `json:"booking_time"`
			Guests          int       `json:"guests" binding:"required,min=1"`
			PromoCode       string    `json:"promo_code"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		session, err := bs.CreateCheckout(c.Request.Context(), &services.CheckoutRequest{
			UserID:          userID,
			VendorProfileID: req.VendorProfileID,
			ExperienceName:  req.ExperienceName,
			Amount:          req.Amount,
			Currency:        req.Currency,
			BookingDate:     req.BookingDate,
			BookingTime:     req.BookingTime,
			Guests:          req.Guests,
			GuestEmail:      claims.Email,
			PromoCode:       req.PromoCode,
		})
		if err != nil {
			c.JSON(http.StatusBadGateway, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, gin.H{"session_id": session.ID, "url": session.URL})
	}
}

// StripeWebhook receives signed payment events. Unsigned or stale payloads
// are rejected before any parsing of the event body.
func StripeWebhook(bs *services.BookingService, webhookSecret string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
			return
		}

		event, err := stripe.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), webhookSecret)
		if err != nil {
			logger.Error("Webhook signature rejected", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}

		if event.Type != stripe.EventCheckoutSessionCompleted {
			// Unhandled event types are acknowledged so Stripe stops retrying.
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		session, err := event.ParseCheckoutSession()
		if err != nil {
			logger.Error("Webhook payload unparseable", "event_id", event.ID, "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload"})
			return
		}

		duplicate, err := bs.HandleCheckoutCompleted(c.Request.Context(), session)
		if err != nil {
			logger.Error("Webhook processing failed", "event_id", event.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
			return
		}

		if duplicate {
			c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func CancelBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := currentUser(c); !ok {
			return
		}

		bookingID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid booking ID format"))
			return
		}

		if err := bs.Cancel(c.Request.Context(), bookingID); err != nil {
			if errors.Is(err, services.ErrBookingNotFound) {
				c.JSON(http.StatusNotFound, models.ErrorResponse("Booking not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Booking cancelled"))
	}
}

func ListBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}

		limitInt, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limitInt <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
			return
		}
		offsetInt, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil || offsetInt < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid offset parameter"))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		bookings, total, err := bs.ListBookings(c.Request.Context(), userID, accessToken, offsetInt, limitInt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		page := (offsetInt / limitInt) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(bookings, page, limitInt, total))
	}
}
