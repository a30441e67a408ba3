package models

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type BookingRepo interface {
	GetBySessionID(ctx context.Context, sessionID string) (*Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	Create(ctx context.Context, booking *Booking) (*Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByUser(ctx context.Context, userID uuid.UUID, accessToken string, offset, limit int) ([]*Booking, int, error)
}

// GetBySessionID returns nil, nil when no booking exists for the session.
// Callers rely on that to implement the read-before-write idempotency check.
func (su *SupabaseRepo) GetBySessionID(ctx context.Context, sessionID string) (*Booking, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	raw, _, err := su.supabaseClient.From(BookingsTable).
		Select("*", "", false).
		Eq("stripe_session_id", sessionID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to look up booking by session: %v", err)
	}

	var bookings []Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking rows: %v", err)
	}
	if len(bookings) == 0 {
		return nil, nil
	}
	return &bookings[0], nil
}

func (su *SupabaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}

	raw, _, err := su.supabaseClient.From(BookingsTable).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %v", err)
	}

	var bookings []Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking rows: %v", err)
	}
	if len(bookings) == 0 {
		return nil, nil
	}
	return &bookings[0], nil
}

func (su *SupabaseRepo) Create(ctx context.Context, booking *Booking) (*Booking, error) {
	raw, count, err := su.supabaseClient.From(BookingsTable).
		Insert(booking, false, "", "", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert booking: %v", err)
	}

	var created []Booking
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created booking: %v", err)
	}
	if count == 0 || len(created) == 0 {
		return nil, fmt.Errorf("no booking row returned after insert")
	}
	return &created[0], nil
}

func (su *SupabaseRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if id == uuid.Nil {
		return fmt.Errorf("invalid UUID")
	}

	_, count, err := su.supabaseClient.From(BookingsTable).
		Update(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}, "", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update booking status: %v", err)
	}
	if count == 0 {
		return fmt.Errorf("no booking found to update")
	}
	return nil
}

func (su *SupabaseRepo) ListByUser(ctx context.Context, userID uuid.UUID, accessToken string, offset, limit int) ([]*Booking, int, error) {
	if userID == uuid.Nil {
		return nil, 0, fmt.Errorf("invalid user ID")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, count, err := client.From(BookingsTable).
		Select("*", "exact", false).
		Eq("user_id", userID.String()).
		Range(offset, offset+limit-1, "").
		Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %v", err)
	}

	var rows []Booking
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal bookings: %v", err)
	}

	bookings := make([]*Booking, 0, len(rows))
	for i := range rows {
		bookings = append(bookings, &rows[i])
	}
	return bookings, int(count), nil
}
