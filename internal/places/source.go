// Package places pulls external rating and review data for vendors. The
// scraping implementation is inherently brittle, so everything sits behind
// the ReviewSource interface and can be swapped without touching callers.
package places

import "context"

// ExternalReview is a normalized third-party review record.
type ExternalReview struct {
	Author string
	Rating float64
	Text   string
}

// PlaceSummary is the subset of place details Stackd keeps.
type PlaceSummary struct {
	Name    string
	Rating  float64
	Reviews []ExternalReview
}

// ReviewSource fetches external reviews for a vendor. Implementations:
// GoogleClient (structured API) and FirecrawlScraper (regex over HTML).
type ReviewSource interface {
	FetchReviews(ctx context.Context, ref string) (*PlaceSummary, error)
}
