package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const googleBaseURL = "https://maps.googleapis.com/maps/api/place/details/json"

// GoogleClient reads place details (rating, reviews) from the Places API.
type GoogleClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGoogleClient(apiKey string) *GoogleClient {
	return &GoogleClient{
		apiKey:  apiKey,
		baseURL: googleBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type googleDetailsResponse struct {
	Result struct {
		Name    string  `json:"name"`
		Rating  float64 `json:"rating"`
		Reviews []struct {
			AuthorName string  `json:"author_name"`
			Rating     float64 `json:"rating"`
			Text       string  `json:"text"`
		} `json:"reviews"`
	} `json:"result"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// FetchReviews looks up a place by its Google place_id.
func (g *GoogleClient) FetchReviews(ctx context.Context, placeID string) (*PlaceSummary, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_PLACES_API_KEY not set")
	}
	if placeID == "" {
		return nil, fmt.Errorf("place ID is required")
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "name,rating,reviews")
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read places response: %v", err)
	}

	var details googleDetailsResponse
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal places response: %v", err)
	}
	if details.Status != "OK" {
		return nil, fmt.Errorf("places error: %s %s", details.Status, details.ErrorMessage)
	}

	summary := &PlaceSummary{
		Name:   details.Result.Name,
		Rating: details.Result.Rating,
	}
	for _, r := range details.Result.Reviews {
		summary.Reviews = append(summary.Reviews, ExternalReview{
			Author: r.AuthorName,
			Rating: r.Rating,
			Text:   r.Text,
		})
	}
	return summary, nil
}
