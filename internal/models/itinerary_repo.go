package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
)

// SortUpdate is one row's new position within the itinerary.
type SortUpdate struct {
	ID        uuid.UUID
	SortOrder int
}

type ItineraryRepo interface {
	ListItems(ctx context.Context, userID uuid.UUID, accessToken string) ([]*ItineraryItem, error)
	CreateItem(ctx context.Context, item *ItineraryItem, accessToken string) (*ItineraryItem, error)
	DeleteItem(ctx context.Context, userID, itemID uuid.UUID, accessToken string) error
	UpdateSortOrders(ctx context.Context, userID uuid.UUID, updates []SortUpdate, accessToken string) error
}

func (su *SupabaseRepo) ListItems(ctx context.Context, userID uuid.UUID, accessToken string) ([]*ItineraryItem, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, _, err := client.From(ItineraryTable).
		Select("*", "", false).
		Eq("user_id", userID.String()).
		Order("sort_order", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list itinerary items: %v", err)
	}

	var rows []ItineraryItem
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal itinerary items: %v", err)
	}

	items := make([]*ItineraryItem, 0, len(rows))
	for i := range rows {
		items = append(items, &rows[i])
	}
	return items, nil
}

func (su *SupabaseRepo) CreateItem(ctx context.Context, item *ItineraryItem, accessToken string) (*ItineraryItem, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, count, err := client.From(ItineraryTable).
		Insert(item, false, "", "", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert itinerary item: %v", err)
	}

	var created []ItineraryItem
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created item: %v", err)
	}
	if count == 0 || len(created) == 0 {
		return nil, fmt.Errorf("no itinerary row returned after insert")
	}
	return &created[0], nil
}

func (su *SupabaseRepo) DeleteItem(ctx context.Context, userID, itemID uuid.UUID, accessToken string) error {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return fmt.Errorf("invalid UUID")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %v", err)
	}

	_, count, err := client.From(ItineraryTable).
		Delete("", "exact").
		Eq("id", itemID.String()).
		Eq("user_id", userID.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete itinerary item: %v", err)
	}
	if count == 0 {
		return fmt.Errorf("itinerary item not found")
	}
	return nil
}

// UpdateSortOrders persists new positions one row at a time. PostgREST has no
// multi-row update, so a mid-sequence failure leaves earlier rows written;
// the service layer handles reverting those.
func (su *SupabaseRepo) UpdateSortOrders(ctx context.Context, userID uuid.UUID, updates []SortUpdate, accessToken string) error {
	if userID == uuid.Nil {
		return fmt.Errorf("invalid user ID")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %v", err)
	}

	for _, u := range updates {
		_, count, err := client.From(ItineraryTable).
			Update(map[string]interface{}{"sort_order": u.SortOrder}, "", "exact").
			Eq("id", u.ID.String()).
			Eq("user_id", userID.String()).
			Execute()
		if err != nil {
			return fmt.Errorf("failed to update sort order for %s: %v", u.ID, err)
		}
		if count == 0 {
			return fmt.Errorf("itinerary item %s not found", u.ID)
		}
	}
	return nil
}
