package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/models"
	"github.com/stackd-app/stackd-api/internal/services"
	"github.com/stackd-app/stackd-api/internal/stripe"
)

const webhookTestSecret = "whsec_handler_test"

type memBookingRepo struct {
	bySession map[string]*models.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bySession: make(map[string]*models.Booking)}
}

func (m *memBookingRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Booking, error) {
	return m.bySession[sessionID], nil
}

func (m *memBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	for _, b := range m.bySession {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (m *memBookingRepo) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	m.bySession[booking.StripeSessionID] = booking
	return booking, nil
}

func (m *memBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	for _, b := range m.bySession {
		if b.ID == id {
			b.Status = status
			return nil
		}
	}
	return fmt.Errorf("booking not found")
}

func (m *memBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID, accessToken string, offset, limit int) ([]*models.Booking, int, error) {
	return nil, 0, nil
}

func webhookTestRouter(repo models.BookingRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bs := services.NewBookingService(repo, nil, nil, nil, nil, logger, "", "")

	r := gin.New()
	r.POST("/webhooks/stripe", StripeWebhook(bs, webhookTestSecret, logger))
	return r
}

func checkoutCompletedPayload(sessionID string) []byte {
	event := map[string]interface{}{
		"id":   "evt_" + sessionID,
		"type": "checkout.session.completed",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":             sessionID,
				"amount_total":   15000,
				"currency":       "usd",
				"customer_email": "guest@example.com",
				"metadata": map[string]string{
					"user_id":           uuid.New().String(),
					"vendor_profile_id": uuid.New().String(),
					"booking_date":      "2026-09-20",
					"booking_time":      "10:00",
					"guests":            "3",
				},
			},
		},
	}
	payload, _ := json.Marshal(event)
	return payload
}

func postWebhook(r *gin.Engine, payload []byte, sigHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	if sigHeader != "" {
		req.Header.Set("Stripe-Signature", sigHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStripeWebhookCreatesBookingOnce(t *testing.T) {
	repo := newMemBookingRepo()
	r := webhookTestRouter(repo)

	payload := checkoutCompletedPayload("cs_handler_1")
	sig := stripe.SignPayload(payload, webhookTestSecret, time.Now())

	w := postWebhook(r, payload, sig)
	if w.Code != http.StatusOK {
		t.Fatalf("first delivery status = %d, body %s", w.Code, w.Body.String())
	}
	var first map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if first["received"] != true {
		t.Errorf("expected received=true, got %v", first)
	}
	if _, ok := first["duplicate"]; ok {
		t.Errorf("first delivery should not flag duplicate: %v", first)
	}

	// Stripe redelivers the same event.
	w = postWebhook(r, payload, sig)
	if w.Code != http.StatusOK {
		t.Fatalf("second delivery status = %d", w.Code)
	}
	var second map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &second); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if second["duplicate"] != true {
		t.Errorf("redelivery should flag duplicate, got %v", second)
	}

	if len(repo.bySession) != 1 {
		t.Errorf("expected exactly one booking row, got %d", len(repo.bySession))
	}
	if b := repo.bySession["cs_handler_1"]; b == nil || b.Status != models.BookingStatusCompleted {
		t.Errorf("booking not stored as completed: %+v", b)
	}
}

func TestStripeWebhookRejectsUnsignedPayload(t *testing.T) {
	repo := newMemBookingRepo()
	r := webhookTestRouter(repo)

	w := postWebhook(r, checkoutCompletedPayload("cs_unsigned"), "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("unsigned payload status = %d, want 400", w.Code)
	}
	if len(repo.bySession) != 0 {
		t.Error("unsigned payload must not create bookings")
	}
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	repo := newMemBookingRepo()
	r := webhookTestRouter(repo)

	payload := checkoutCompletedPayload("cs_forged")
	sig := stripe.SignPayload(payload, "whsec_wrong", time.Now())

	w := postWebhook(r, payload, sig)
	if w.Code != http.StatusBadRequest {
		t.Errorf("forged signature status = %d, want 400", w.Code)
	}
	if len(repo.bySession) != 0 {
		t.Error("forged payload must not create bookings")
	}
}

func TestStripeWebhookAcknowledgesOtherEvents(t *testing.T) {
	repo := newMemBookingRepo()
	r := webhookTestRouter(repo)

	payload := []byte(`{"id":"evt_other","type":"payment_intent.succeeded","data":{"object":{}}}`)
	sig := stripe.SignPayload(payload, webhookTestSecret, time.Now())

	w := postWebhook(r, payload, sig)
	if w.Code != http.StatusOK {
		t.Errorf("unhandled event status = %d, want 200", w.Code)
	}
	if len(repo.bySession) != 0 {
		t.Error("unhandled events must not create bookings")
	}
}
