// Package mapbox wraps the Directions API for travel-time enrichment between
// consecutive itinerary stops.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const baseURL = "https://api.mapbox.com/directions/v5/mapbox/driving"

type Client struct {
	accessToken string
	baseURL     string
	client      *http.Client
}

func New(accessToken string) *Client {
	return &Client{
		accessToken: accessToken,
		baseURL:     baseURL,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Route is a driving leg between two coordinates.
type Route struct {
	DistanceMeters  float64
	DurationSeconds float64
}

type directionsResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) Directions(ctx context.Context, fromLng, fromLat, toLng, toLat float64) (*Route, error) {
	if c.accessToken == "" {
		return nil, fmt.Errorf("MAPBOX_ACCESS_TOKEN not set")
	}

	endpoint := fmt.Sprintf("%s/%f,%f;%f,%f?access_token=%s&overview=false",
		c.baseURL, fromLng, fromLat, toLng, toLat, url.QueryEscape(c.accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapbox request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapbox response: %v", err)
	}

	var dirResp directionsResponse
	if err := json.Unmarshal(data, &dirResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mapbox response: %v", err)
	}
	if dirResp.Code != "Ok" {
		return nil, fmt.Errorf("mapbox error: %s %s", dirResp.Code, dirResp.Message)
	}
	if len(dirResp.Routes) == 0 {
		return nil, fmt.Errorf("mapbox returned no routes")
	}

	return &Route{
		DistanceMeters:  dirResp.Routes[0].Distance,
		DurationSeconds: dirResp.Routes[0].Duration,
	}, nil
}

// FormatDistance renders meters as a display string, e.g. "12.4 km".
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatDuration renders seconds as a display string, e.g. "1 hr 5 min".
func FormatDuration(seconds float64) string {
	minutes := int(seconds/60 + 0.5)
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%d hr", minutes/60)
	}
	return fmt.Sprintf("%d hr %d min", minutes/60, minutes%60)
}
