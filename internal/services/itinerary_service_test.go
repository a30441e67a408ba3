package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/mapbox"
	"github.com/stackd-app/stackd-api/internal/models"
)

type fakeGenerator struct {
	CompleteFn func(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

func (f *fakeGenerator) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.CompleteFn(ctx, systemPrompt, userPrompt)
}

type fakeRouter struct {
	DirectionsFn func(ctx context.Context, fromLng, fromLat, toLng, toLat float64) (*mapbox.Route, error)
}

func (f *fakeRouter) Directions(ctx context.Context, fromLng, fromLat, toLng, toLat float64) (*mapbox.Route, error) {
	return f.DirectionsFn(ctx, fromLng, fromLat, toLng, toLat)
}

func TestPlanRange(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		days      int
		wantDays  int
		wantEnd   string
		wantErr   bool
	}{
		{"single day", "2026-09-01", 1, 1, "2026-09-01", false},
		{"week", "2026-09-01", 7, 7, "2026-09-07", false},
		{"clamped low", "2026-09-01", 0, 1, "2026-09-01", false},
		{"clamped negative", "2026-09-01", -3, 1, "2026-09-01", false},
		{"clamped high", "2026-09-01", 30, 14, "2026-09-14", false},
		{"month boundary", "2026-08-30", 3, 3, "2026-09-01", false},
		{"bad date", "09/01/2026", 3, 0, "", true},
		{"empty date", "", 3, 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlanRange(tt.startDate, tt.days)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("PlanRange failed: %v", err)
			}
			if got.Days != tt.wantDays {
				t.Errorf("days = %d, want %d", got.Days, tt.wantDays)
			}
			if end := got.EndDate.Format("2006-01-02"); end != tt.wantEnd {
				t.Errorf("end = %s, want %s", end, tt.wantEnd)
			}
		})
	}
}

func itineraryOf(userID uuid.UUID, n int) []*models.ItineraryItem {
	items := make([]*models.ItineraryItem, n)
	for i := range items {
		items[i] = &models.ItineraryItem{
			ID:         uuid.New(),
			UserID:     userID,
			VendorName: "Stop",
			SortOrder:  i,
			CreatedAt:  time.Now(),
		}
	}
	return items
}

func TestReorderAssignsArrayIndex(t *testing.T) {
	userID := uuid.New()
	items := itineraryOf(userID, 3)

	var applied []models.SortUpdate
	repo := &fakeItineraryRepo{
		ListItemsFn: func(ctx context.Context, uid uuid.UUID, accessToken string) ([]*models.ItineraryItem, error) {
			return items, nil
		},
		UpdateSortOrdersFn: func(ctx context.Context, uid uuid.UUID, updates []models.SortUpdate, accessToken string) error {
			applied = updates
			return nil
		},
	}
	is := NewItineraryService(repo, nil, nil, testLogger())

	// Reverse the order: 2,1,0.
	orderedIDs := []uuid.UUID{items[2].ID, items[1].ID, items[0].ID}
	if err := is.Reorder(context.Background(), userID, orderedIDs, ""); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	want := map[uuid.UUID]int{items[2].ID: 0, items[0].ID: 2}
	if len(applied) != 2 {
		t.Fatalf("expected 2 updates (middle item unchanged), got %d", len(applied))
	}
	for _, u := range applied {
		if want[u.ID] != u.SortOrder {
			t.Errorf("item %s got sort_order %d, want %d", u.ID, u.SortOrder, want[u.ID])
		}
	}
}

func TestReorderNoChangesIsNoOp(t *testing.T) {
	userID := uuid.New()
	items := itineraryOf(userID, 3)

	repo := &fakeItineraryRepo{
		ListItemsFn: func(ctx context.Context, uid uuid.UUID, accessToken string) ([]*models.ItineraryItem, error) {
			return items, nil
		},
		UpdateSortOrdersFn: func(ctx context.Context, uid uuid.UUID, updates []models.SortUpdate, accessToken string) error {
			t.Error("no persistence expected for identical order")
			return nil
		},
	}
	is := NewItineraryService(repo, nil, nil, testLogger())

	if err := is.Reorder(context.Background(), userID, []uuid.UUID{items[0].ID, items[1].ID, items[2].ID}, ""); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
}

func TestReorderRejectsBadPermutations(t *testing.T) {
	userID := uuid.New()
	items := itineraryOf(userID, 3)

	repo := &fakeItineraryRepo{
		ListItemsFn: func(ctx context.Context, uid uuid.UUID, accessToken string) ([]*models.ItineraryItem, error) {
			return items, nil
		},
	}
	is := NewItineraryService(repo, nil, nil, testLogger())

	tests := []struct {
		name string
		ids  []uuid.UUID
	}{
		{"missing item", []uuid.UUID{items[0].ID, items[1].ID}},
		{"extra item", []uuid.UUID{items[0].ID, items[1].ID, items[2].ID, uuid.New()}},
		{"unknown item", []uuid.UUID{items[0].ID, items[1].ID, uuid.New()}},
		{"duplicate item", []uuid.UUID{items[0].ID, items[1].ID, items[1].ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := is.Reorder(context.Background(), userID, tt.ids, ""); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// A failed persistence pass reverts to the last known-good order.
func TestReorderRevertsOnFailure(t *testing.T) {
	userID := uuid.New()
	items := itineraryOf(userID, 2)

	calls := 0
	var reverted []models.SortUpdate
	repo := &fakeItineraryRepo{
		ListItemsFn: func(ctx context.Context, uid uuid.UUID, accessToken string) ([]*models.ItineraryItem, error) {
			return items, nil
		},
		UpdateSortOrdersFn: func(ctx context.Context, uid uuid.UUID, updates []models.SortUpdate, accessToken string) error {
			calls++
			if calls == 1 {
				return errors.New("write failed")
			}
			reverted = updates
			return nil
		},
	}
	is := NewItineraryService(repo, nil, nil, testLogger())

	err := is.Reorder(context.Background(), userID, []uuid.UUID{items[1].ID, items[0].ID}, "")
	if err == nil {
		t.Fatal("expected error from failed persistence")
	}
	if calls != 2 {
		t.Fatalf("expected write then revert, got %d calls", calls)
	}
	want := map[uuid.UUID]int{items[0].ID: 0, items[1].ID: 1}
	for _, u := range reverted {
		if want[u.ID] != u.SortOrder {
			t.Errorf("revert set item %s to %d, want %d", u.ID, u.SortOrder, want[u.ID])
		}
	}
}

func TestAddItemAppendsAtEnd(t *testing.T) {
	userID := uuid.New()
	existing := itineraryOf(userID, 2)

	repo := &fakeItineraryRepo{
		ListItemsFn: func(ctx context.Context, uid uuid.UUID, accessToken string) ([]*models.ItineraryItem, error) {
			return existing, nil
		},
		CreateItemFn: func(ctx context.Context, item *models.ItineraryItem, accessToken string) (*models.ItineraryItem, error) {
			return item, nil
		},
	}
	is := NewItineraryService(repo, nil, nil, testLogger())

	created, err := is.AddItem(context.Background(), &models.ItineraryItem{
		UserID:     userID,
		VendorName: "Night market",
	}, "")
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if created.SortOrder != 2 {
		t.Errorf("new item should append at index 2, got %d", created.SortOrder)
	}
	if created.ID == uuid.Nil {
		t.Error("item should receive an ID")
	}
}

func TestAddItemEnrichesTravelLeg(t *testing.T) {
	userID := uuid.New()
	prev := &models.ItineraryItem{
		ID:         uuid.New(),
		UserID:     userID,
		VendorName: "Museum",
		Latitude:   51.5194,
		Longitude:  -0.127,
		SortOrder:  0,
	}

	repo := &fakeItineraryRepo{
		ListItemsFn: func(ctx context.Context, uid uuid.UUID, accessToken string) ([]*models.ItineraryItem, error) {
			return []*models.ItineraryItem{prev}, nil
		},
		CreateItemFn: func(ctx context.Context, item *models.ItineraryItem, accessToken string) (*models.ItineraryItem, error) {
			return item, nil
		},
	}
	router := &fakeRouter{
		DirectionsFn: func(ctx context.Context, fromLng, fromLat, toLng, toLat float64) (*mapbox.Route, error) {
			return &mapbox.Route{DistanceMeters: 3400, DurationSeconds: 780}, nil
		},
	}
	is := NewItineraryService(repo, nil, router, testLogger())

	created, err := is.AddItem(context.Background(), &models.ItineraryItem{
		UserID:     userID,
		VendorName: "Tate Modern",
		Latitude:   51.5076,
		Longitude:  -0.0994,
	}, "")
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if created.TravelDistance == "" || created.TravelDuration == "" {
		t.Errorf("travel leg not enriched: %+v", created)
	}
}

// Stops without coordinates skip enrichment instead of calling directions
// with (0,0).
func TestAddItemSkipsEnrichmentWithoutCoordinates(t *testing.T) {
	userID := uuid.New()
	prev := &models.ItineraryItem{ID: uuid.New(), UserID: userID, VendorName: "Museum", SortOrder: 0}

	repo := &fakeItineraryRepo{
		ListItemsFn: func(ctx context.Context, uid uuid.UUID, accessToken string) ([]*models.ItineraryItem, error) {
			return []*models.ItineraryItem{prev}, nil
		},
		CreateItemFn: func(ctx context.Context, item *models.ItineraryItem, accessToken string) (*models.ItineraryItem, error) {
			return item, nil
		},
	}
	router := &fakeRouter{
		DirectionsFn: func(ctx context.Context, fromLng, fromLat, toLng, toLat float64) (*mapbox.Route, error) {
			t.Error("directions should not be called without coordinates")
			return nil, nil
		},
	}
	is := NewItineraryService(repo, nil, router, testLogger())

	if _, err := is.AddItem(context.Background(), &models.ItineraryItem{
		UserID:     userID,
		VendorName: "Tate Modern",
	}, ""); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
}

func TestGenerateParsesFencedJSON(t *testing.T) {
	userID := uuid.New()

	gen := &fakeGenerator{
		CompleteFn: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			return "```json\n[{\"vendor_name\":\"Borough Market\",\"vendor_address\":\"8 Southwark St\"," +
				"\"notes\":\"lunch\",\"planned_date\":\"2026-09-01\",\"planned_time\":\"12:00\"," +
				"\"latitude\":51.5055,\"longitude\":-0.0911}]\n```", nil
		},
	}

	var saved []*models.ItineraryItem
	repo := &fakeItineraryRepo{
		ListItemsFn: func(ctx context.Context, uid uuid.UUID, accessToken string) ([]*models.ItineraryItem, error) {
			return nil, nil
		},
		CreateItemFn: func(ctx context.Context, item *models.ItineraryItem, accessToken string) (*models.ItineraryItem, error) {
			saved = append(saved, item)
			return item, nil
		},
	}
	is := NewItineraryService(repo, gen, nil, testLogger())

	created, err := is.Generate(context.Background(), userID, "London", "2026-09-01", 1, "")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(created) != 1 || len(saved) != 1 {
		t.Fatalf("expected one stop, got %d", len(created))
	}
	if created[0].VendorName != "Borough Market" {
		t.Errorf("unexpected stop: %+v", created[0])
	}
	if created[0].SortOrder != 0 {
		t.Errorf("first generated stop should start at 0, got %d", created[0].SortOrder)
	}
}

func TestGenerateRejectsBadStartDate(t *testing.T) {
	is := NewItineraryService(&fakeItineraryRepo{}, &fakeGenerator{}, nil, testLogger())

	if _, err := is.Generate(context.Background(), uuid.New(), "London", "next tuesday", 3, ""); err == nil {
		t.Error("expected error for unparseable start date")
	}
}

func TestGenerateFailsOnUnparseableCompletion(t *testing.T) {
	gen := &fakeGenerator{
		CompleteFn: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			return "Sure! Here is a lovely plan for your trip...", nil
		},
	}
	is := NewItineraryService(&fakeItineraryRepo{}, gen, nil, testLogger())

	if _, err := is.Generate(context.Background(), uuid.New(), "London", "2026-09-01", 2, ""); err == nil {
		t.Error("expected error for non-JSON completion")
	}
}
