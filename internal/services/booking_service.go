package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/models"
	"github.com/stackd-app/stackd-api/internal/notify"
	"github.com/stackd-app/stackd-api/internal/stripe"
)

// ErrBookingNotFound lets handlers map a missing booking to 404 instead of a
// generic 500.
var ErrBookingNotFound = errors.New("booking not found")

// PaymentClient is the slice of the Stripe API checkout needs.
type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, params stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type BookingService struct {
	bookingRepo models.BookingRepo
	vendorRepo  models.VendorRepo
	promoRepo   models.PromoRepo
	payments    PaymentClient
	mailer      notify.Mailer
	logger      *slog.Logger
	successURL  string
	cancelURL   string
}

func NewBookingService(
	bookingRepo models.BookingRepo,
	vendorRepo models.VendorRepo,
	promoRepo models.PromoRepo,
	payments PaymentClient,
	mailer notify.Mailer,
	logger *slog.Logger,
	successURL, cancelURL string,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		vendorRepo:  vendorRepo,
		promoRepo:   promoRepo,
		payments:    payments,
		mailer:      mailer,
		logger:      logger,
		successURL:  successURL,
		cancelURL:   cancelURL,
	}
}

type CheckoutRequest struct {
	UserID          uuid.UUID
	VendorProfileID uuid.UUID `validate:"required"`
	ExperienceName  string    `validate:"required"`
	Amount          float64   `validate:"required,gt=0"`
	Currency        string
	BookingDate     string `validate:"required"`
	BookingTime     string
	Guests          int `validate:"min=1"`
	GuestEmail      string
	PromoCode       string
}

// CreateCheckout builds a Stripe Checkout Session for an experience booking.
// A promo code, when present and valid, is applied server-side before the
// amount is computed.
func (bs *BookingService) CreateCheckout(ctx context.Context, req *CheckoutRequest) (*stripe.CheckoutSession, error) {
	if err := models.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid checkout request: %v", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	amount := req.Amount
	if req.PromoCode != "" {
		promo, err := bs.promoRepo.ValidatePromoCode(ctx, req.PromoCode, amount)
		if err != nil {
			bs.logger.Info("Promo validation failed during checkout", "code", req.PromoCode, "error", err)
		} else if promo.Valid {
			amount = math.Max(0, amount-promo.DiscountAmount)
		}
	}

	session, err := bs.payments.CreateCheckoutSession(ctx, stripe.CheckoutSessionParams{
		ProductName: req.ExperienceName,
		AmountCents: int64(math.Round(amount * 100)),
		Currency:    currency,
		Quantity:    1,
		SuccessURL:  bs.successURL,
		CancelURL:   bs.cancelURL,
		Metadata: map[string]string{
			"user_id":           req.UserID.String(),
			"vendor_profile_id": req.VendorProfileID.String(),
			"booking_date":      req.BookingDate,
			"booking_time":      req.BookingTime,
			"guests":            fmt.Sprintf("%d", req.Guests),
			"guest_email":       req.GuestEmail,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %v", err)
	}
	return session, nil
}

// HandleCheckoutCompleted turns a verified checkout.session.completed event
// into a booking row. The read-before-write check on stripe_session_id makes
// redelivered events a no-op: the second call reports duplicate=true and the
// table keeps exactly one row.
func (bs *BookingService) HandleCheckoutCompleted(ctx context.Context, session *stripe.CheckoutSession) (duplicate bool, err error) {
	if session == nil || session.ID == "" {
		return false, fmt.Errorf("checkout session is missing an ID")
	}

	existing, err := bs.bookingRepo.GetBySessionID(ctx, session.ID)
	if err != nil {
		return false, fmt.Errorf("idempotency check failed: %v", err)
	}
	if existing != nil {
		bs.logger.Info("Duplicate checkout webhook ignored", "session_id", session.ID)
		return true, nil
	}

	userID, err := uuid.Parse(session.Metadata["user_id"])
	if err != nil {
		return false, fmt.Errorf("invalid user_id in session metadata: %v", err)
	}
	vendorID, err := uuid.Parse(session.Metadata["vendor_profile_id"])
	if err != nil {
		return false, fmt.Errorf("invalid vendor_profile_id in session metadata: %v", err)
	}

	guests, err := strconv.Atoi(session.Metadata["guests"])
	if err != nil || guests < 1 {
		bs.logger.Info("Missing or malformed guest count in session metadata",
			"session_id", session.ID, "guests", session.Metadata["guests"])
		guests = 1
	}

	guestEmail := session.Metadata["guest_email"]
	if guestEmail == "" {
		guestEmail = session.CustomerEmail
	}

	now := time.Now()
	booking := &models.Booking{
		ID:              uuid.New(),
		UserID:          userID,
		VendorProfileID: vendorID,
		StripeSessionID: session.ID,
		Status:          models.BookingStatusCompleted,
		BookingDate:     session.Metadata["booking_date"],
		BookingTime:     session.Metadata["booking_time"],
		Guests:          guests,
		TotalAmount:     float64(session.AmountTotal) / 100,
		Currency:        session.Currency,
		GuestEmail:      guestEmail,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := bs.bookingRepo.Create(ctx, booking); err != nil {
		return false, fmt.Errorf("failed to create booking: %v", err)
	}

	bs.logger.Info("Booking created from checkout", "booking_id", booking.ID, "session_id", session.ID)
	return false, nil
}

// Cancel moves a booking to cancelled. Cancelling an already-cancelled
// booking is a success no-op. The e-mail fan-out to guest and vendor is
// best-effort: failures are logged and never roll back the cancellation.
func (bs *BookingService) Cancel(ctx context.Context, bookingID uuid.UUID) error {
	if bookingID == uuid.Nil {
		return fmt.Errorf("invalid booking ID")
	}

	booking, err := bs.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to load booking: %v", err)
	}
	if booking == nil {
		return ErrBookingNotFound
	}
	if booking.IsCancelled() {
		return nil
	}

	if err := bs.bookingRepo.UpdateStatus(ctx, bookingID, models.BookingStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel booking: %v", err)
	}

	bs.notifyCancellation(ctx, booking)
	return nil
}

func (bs *BookingService) notifyCancellation(ctx context.Context, booking *models.Booking) {
	if bs.mailer == nil {
		return
	}

	subject := "Your Stackd booking was cancelled"
	body := fmt.Sprintf("<p>Booking on %s at %s for %d guest(s) has been cancelled.</p>",
		booking.BookingDate, booking.BookingTime, booking.Guests)

	if booking.GuestEmail != "" {
		if err := bs.mailer.Send(ctx, booking.GuestEmail, subject, body); err != nil {
			bs.logger.Error("Failed to notify guest of cancellation", "booking_id", booking.ID, "error", err)
		}
	}

	vendor, err := bs.vendorRepo.GetVendorByID(ctx, booking.VendorProfileID)
	if err != nil || vendor == nil {
		bs.logger.Error("Failed to load vendor for cancellation notice", "booking_id", booking.ID, "error", err)
		return
	}
	if vendor.ContactEmail != "" {
		if err := bs.mailer.Send(ctx, vendor.ContactEmail, "A Stackd booking was cancelled", body); err != nil {
			bs.logger.Error("Failed to notify vendor of cancellation", "booking_id", booking.ID, "error", err)
		}
	}
}

func (bs *BookingService) ListBookings(ctx context.Context, userID uuid.UUID, accessToken string, offset, limit int) ([]*models.Booking, int, error) {
	if userID == uuid.Nil {
		return nil, 0, fmt.Errorf("invalid user ID")
	}
	return bs.bookingRepo.ListByUser(ctx, userID, accessToken, offset, limit)
}
