package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/ai"
	"github.com/stackd-app/stackd-api/internal/mapbox"
	"github.com/stackd-app/stackd-api/internal/models"
)

// Generator produces itinerary text from a prompt pair.
type Generator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Router computes a driving leg between two coordinates.
type Router interface {
	Directions(ctx context.Context, fromLng, fromLat, toLng, toLat float64) (*mapbox.Route, error)
}

type ItineraryService struct {
	itineraryRepo models.ItineraryRepo
	generator     Generator
	router        Router
	logger        *slog.Logger
}

func NewItineraryService(itineraryRepo models.ItineraryRepo, generator Generator, router Router, logger *slog.Logger) *ItineraryService {
	return &ItineraryService{
		itineraryRepo: itineraryRepo,
		generator:     generator,
		router:        router,
		logger:        logger,
	}
}

// PlanRange resolves a start date and day count into the trip window. The day
// count clamps to [1,14] and the end date is start + (days-1).
func PlanRange(startDate string, days int) (*models.TripRange, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %v", err)
	}

	if days < models.MinTripDays {
		days = models.MinTripDays
	}
	if days > models.MaxTripDays {
		days = models.MaxTripDays
	}

	return &models.TripRange{
		StartDate: start,
		EndDate:   start.AddDate(0, 0, days-1),
		Days:      days,
	}, nil
}

func (is *ItineraryService) ListItems(ctx context.Context, userID uuid.UUID, accessToken string) ([]*models.ItineraryItem, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}
	return is.itineraryRepo.ListItems(ctx, userID, accessToken)
}

// AddItem appends a stop at the end of the itinerary and, when coordinates
// for both this and the previous stop are known, enriches it with travel
// distance and duration. Enrichment is best-effort.
func (is *ItineraryService) AddItem(ctx context.Context, item *models.ItineraryItem, accessToken string) (*models.ItineraryItem, error) {
	if err := models.Validate.Struct(item); err != nil {
		return nil, fmt.Errorf("invalid itinerary item: %v", err)
	}

	existing, err := is.itineraryRepo.ListItems(ctx, item.UserID, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load itinerary: %v", err)
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.SortOrder = len(existing)
	item.CreatedAt = time.Now()

	if len(existing) > 0 {
		is.enrichTravel(ctx, existing[len(existing)-1], item)
	}

	return is.itineraryRepo.CreateItem(ctx, item, accessToken)
}

func (is *ItineraryService) DeleteItem(ctx context.Context, userID, itemID uuid.UUID, accessToken string) error {
	return is.itineraryRepo.DeleteItem(ctx, userID, itemID, accessToken)
}

// Reorder persists a drag-and-drop result. orderedIDs must be a permutation
// of the user's current items; each item's sort_order becomes its array
// index. If persistence fails partway the already-written rows are reverted
// to the last known-good order before the error is returned. Last writer
// wins across sessions.
func (is *ItineraryService) Reorder(ctx context.Context, userID uuid.UUID, orderedIDs []uuid.UUID, accessToken string) error {
	if userID == uuid.Nil {
		return fmt.Errorf("invalid user ID")
	}

	current, err := is.itineraryRepo.ListItems(ctx, userID, accessToken)
	if err != nil {
		return fmt.Errorf("failed to load itinerary: %v", err)
	}

	if len(orderedIDs) != len(current) {
		return fmt.Errorf("reorder must include all %d items, got %d", len(current), len(orderedIDs))
	}

	previous := make(map[uuid.UUID]int, len(current))
	for _, item := range current {
		previous[item.ID] = item.SortOrder
	}

	var updates []models.SortUpdate
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for idx, id := range orderedIDs {
		old, ok := previous[id]
		if !ok {
			return fmt.Errorf("unknown itinerary item %s", id)
		}
		if seen[id] {
			return fmt.Errorf("duplicate itinerary item %s", id)
		}
		seen[id] = true
		if old != idx {
			updates = append(updates, models.SortUpdate{ID: id, SortOrder: idx})
		}
	}

	if len(updates) == 0 {
		return nil
	}

	if err := is.itineraryRepo.UpdateSortOrders(ctx, userID, updates, accessToken); err != nil {
		// Restore the last known-good order for whatever was written.
		revert := make([]models.SortUpdate, 0, len(updates))
		for _, u := range updates {
			revert = append(revert, models.SortUpdate{ID: u.ID, SortOrder: previous[u.ID]})
		}
		if revertErr := is.itineraryRepo.UpdateSortOrders(ctx, userID, revert, accessToken); revertErr != nil {
			is.logger.Error("Failed to revert itinerary order", "user_id", userID, "error", revertErr)
		}
		return fmt.Errorf("failed to persist new order: %v", err)
	}
	return nil
}

type generatedStop struct {
	VendorName    string  `json:"vendor_name"`
	VendorAddress string  `json:"vendor_address"`
	Notes         string  `json:"notes"`
	PlannedDate   string  `json:"planned_date"`
	PlannedTime   string  `json:"planned_time"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
}

const generateSystemPrompt = `You are a travel planner. Respond with a JSON array of stops, ` +
	`each with vendor_name, vendor_address, notes, planned_date (YYYY-MM-DD), ` +
	`planned_time (HH:MM), latitude and longitude. No prose, JSON only.`

// Generate asks the AI gateway for a day-by-day plan and persists the stops
// with sequential sort order. Travel legs between consecutive stops are
// enriched best-effort.
func (is *ItineraryService) Generate(ctx context.Context, userID uuid.UUID, destination, startDate string, days int, accessToken string) ([]*models.ItineraryItem, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}
	if destination == "" {
		return nil, fmt.Errorf("destination is required")
	}

	tripRange, err := PlanRange(startDate, days)
	if err != nil {
		return nil, err
	}

	userPrompt := fmt.Sprintf("Plan a trip to %s from %s to %s (%d days). 2-3 stops per day.",
		destination,
		tripRange.StartDate.Format("2006-01-02"),
		tripRange.EndDate.Format("2006-01-02"),
		tripRange.Days,
	)

	completion, err := is.generator.Complete(ctx, generateSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("itinerary generation failed: %v", err)
	}

	var stops []generatedStop
	if err := json.Unmarshal([]byte(ai.StripCodeFence(completion)), &stops); err != nil {
		return nil, fmt.Errorf("failed to parse generated itinerary: %v", err)
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("generation produced no stops")
	}

	existing, err := is.itineraryRepo.ListItems(ctx, userID, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load itinerary: %v", err)
	}

	created := make([]*models.ItineraryItem, 0, len(stops))
	var prev *models.ItineraryItem
	if len(existing) > 0 {
		prev = existing[len(existing)-1]
	}
	for i, stop := range stops {
		item := &models.ItineraryItem{
			ID:            uuid.New(),
			UserID:        userID,
			VendorName:    stop.VendorName,
			VendorAddress: stop.VendorAddress,
			Notes:         stop.Notes,
			PlannedDate:   stop.PlannedDate,
			PlannedTime:   stop.PlannedTime,
			Latitude:      stop.Latitude,
			Longitude:     stop.Longitude,
			SortOrder:     len(existing) + i,
			CreatedAt:     time.Now(),
		}
		if prev != nil {
			is.enrichTravel(ctx, prev, item)
		}

		saved, err := is.itineraryRepo.CreateItem(ctx, item, accessToken)
		if err != nil {
			return created, fmt.Errorf("failed to save generated stop %q: %v", stop.VendorName, err)
		}
		created = append(created, saved)
		prev = saved
	}
	return created, nil
}

func (is *ItineraryService) enrichTravel(ctx context.Context, from, to *models.ItineraryItem) {
	if is.router == nil {
		return
	}
	if from.Latitude == 0 && from.Longitude == 0 {
		return
	}
	if to.Latitude == 0 && to.Longitude == 0 {
		return
	}

	route, err := is.router.Directions(ctx, from.Longitude, from.Latitude, to.Longitude, to.Latitude)
	if err != nil {
		is.logger.Info("Travel enrichment skipped", "item", to.VendorName, "error", err)
		return
	}
	to.TravelDistance = mapbox.FormatDistance(route.DistanceMeters)
	to.TravelDuration = mapbox.FormatDuration(route.DurationSeconds)
}
