package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const firecrawlBaseURL = "https://api.firecrawl.dev/v1/scrape"

// FirecrawlScraper fetches a review page as HTML and extracts reviews with
// regexes. Known-brittle: markup drift on the target site breaks extraction
// silently, which is why it lives behind ReviewSource.
type FirecrawlScraper struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewFirecrawlScraper(apiKey string) *FirecrawlScraper {
	return &FirecrawlScraper{
		apiKey:  apiKey,
		baseURL: firecrawlBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		HTML string `json:"html"`
	} `json:"data"`
	Error string `json:"error"`
}

var (
	reviewBlockRe = regexp.MustCompile(`(?s)<div[^>]*class="[^"]*review[^"]*"[^>]*>(.*?)</div>`)
	authorRe      = regexp.MustCompile(`(?s)<span[^>]*class="[^"]*author[^"]*"[^>]*>([^<]+)</span>`)
	ratingRe      = regexp.MustCompile(`aria-label="([0-9](?:\.[0-9])?) star`)
	textRe        = regexp.MustCompile(`(?s)<p[^>]*>(.*?)</p>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
)

// FetchReviews scrapes the given URL and parses whatever reviews it can find.
func (f *FirecrawlScraper) FetchReviews(ctx context.Context, pageURL string) (*PlaceSummary, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("FIRECRAWL_API_KEY not set")
	}
	if pageURL == "" {
		return nil, fmt.Errorf("page URL is required")
	}

	payload, err := json.Marshal(scrapeRequest{URL: pageURL, Formats: []string{"html"}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scrape request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firecrawl request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read firecrawl response: %v", err)
	}

	var scraped scrapeResponse
	if err := json.Unmarshal(data, &scraped); err != nil {
		return nil, fmt.Errorf("failed to unmarshal firecrawl response: %v", err)
	}
	if !scraped.Success {
		return nil, fmt.Errorf("firecrawl error: %s", scraped.Error)
	}

	reviews := ParseReviewHTML(scraped.Data.HTML)
	summary := &PlaceSummary{Reviews: reviews}
	if len(reviews) > 0 {
		var total float64
		for _, r := range reviews {
			total += r.Rating
		}
		summary.Rating = total / float64(len(reviews))
	}
	return summary, nil
}

// ParseReviewHTML pulls review records out of raw HTML. Blocks missing an
// author or rating are skipped rather than guessed at.
func ParseReviewHTML(html string) []ExternalReview {
	var reviews []ExternalReview

	for _, block := range reviewBlockRe.FindAllStringSubmatch(html, -1) {
		body := block[1]

		authorMatch := authorRe.FindStringSubmatch(body)
		ratingMatch := ratingRe.FindStringSubmatch(body)
		if authorMatch == nil || ratingMatch == nil {
			continue
		}

		rating, err := strconv.ParseFloat(ratingMatch[1], 64)
		if err != nil || rating < 0 || rating > 5 {
			continue
		}

		var text string
		if textMatch := textRe.FindStringSubmatch(body); textMatch != nil {
			text = strings.TrimSpace(tagRe.ReplaceAllString(textMatch[1], ""))
		}

		reviews = append(reviews, ExternalReview{
			Author: strings.TrimSpace(authorMatch[1]),
			Rating: rating,
			Text:   text,
		})
	}
	return reviews
}
