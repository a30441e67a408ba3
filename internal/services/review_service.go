package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/models"
	"github.com/stackd-app/stackd-api/internal/places"
)

type ReviewService struct {
	reviewRepo models.ReviewRepo
	cacheRepo  models.ReviewCacheRepo
	vendorRepo models.VendorRepo
	google     places.ReviewSource
	scraper    places.ReviewSource
	logger     *slog.Logger
}

func NewReviewService(
	reviewRepo models.ReviewRepo,
	cacheRepo models.ReviewCacheRepo,
	vendorRepo models.VendorRepo,
	google places.ReviewSource,
	scraper places.ReviewSource,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		cacheRepo:  cacheRepo,
		vendorRepo: vendorRepo,
		google:     google,
		scraper:    scraper,
		logger:     logger,
	}
}

func (rs *ReviewService) CreateReview(ctx context.Context, review *models.Review, accessToken string) (*models.Review, error) {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = time.Now()
	return rs.reviewRepo.CreateReview(ctx, review, accessToken)
}

func (rs *ReviewService) ListReviews(ctx context.Context, vendorID uuid.UUID) ([]*models.Review, error) {
	return rs.reviewRepo.ListReviewsByVendor(ctx, vendorID)
}

func (rs *ReviewService) ListScrapedReviews(ctx context.Context, vendorID uuid.UUID) ([]*models.ScrapedReview, error) {
	return rs.cacheRepo.ListScrapedReviews(ctx, vendorID)
}

// RefreshExternalReviews re-pulls third-party reviews for a vendor, replaces
// the cache wholesale and refreshes the stored Google rating. The structured
// Places API is preferred; a scrape URL falls back to the Firecrawl adapter.
func (rs *ReviewService) RefreshExternalReviews(ctx context.Context, vendorID uuid.UUID, scrapeURL string) ([]*models.ScrapedReview, error) {
	vendor, err := rs.vendorRepo.GetVendorByID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor: %v", err)
	}
	if vendor == nil {
		return nil, fmt.Errorf("vendor not found")
	}

	var summary *places.PlaceSummary
	var source string
	switch {
	case vendor.GooglePlaceID != "" && rs.google != nil:
		summary, err = rs.google.FetchReviews(ctx, vendor.GooglePlaceID)
		source = models.ReviewSourceGoogle
	case scrapeURL != "" && rs.scraper != nil:
		summary, err = rs.scraper.FetchReviews(ctx, scrapeURL)
		source = models.ReviewSourceFirecrawl
	default:
		return nil, fmt.Errorf("no review source configured for vendor")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch external reviews: %v", err)
	}

	now := time.Now()
	scraped := make([]*models.ScrapedReview, 0, len(summary.Reviews))
	for _, r := range summary.Reviews {
		scraped = append(scraped, &models.ScrapedReview{
			VendorProfileID: vendorID,
			Author:          r.Author,
			Rating:          r.Rating,
			Text:            r.Text,
			Source:          source,
			ScrapedAt:       now,
		})
	}

	if err := rs.cacheRepo.ReplaceScrapedReviews(ctx, vendorID, scraped); err != nil {
		return nil, fmt.Errorf("failed to cache reviews: %v", err)
	}

	if summary.Rating > 0 {
		if _, err := rs.vendorRepo.UpdateVendor(ctx, vendorID, map[string]interface{}{
			"google_rating": summary.Rating,
		}); err != nil {
			rs.logger.Error("Failed to update vendor rating", "vendor_id", vendorID, "error", err)
		}
	}
	return scraped, nil
}
