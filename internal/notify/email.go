// Package notify sends transactional e-mail. All sends are best-effort:
// callers log failures and never roll back on them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendBaseURL = "https://api.resend.com/emails"

// Mailer is the narrow send interface services depend on.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type EmailClient struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

func NewEmailClient(apiKey, from string) *EmailClient {
	return &EmailClient{
		apiKey:  apiKey,
		from:    from,
		baseURL: resendBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (e *EmailClient) Send(ctx context.Context, to, subject, html string) error {
	if e.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY not set")
	}
	if to == "" {
		return fmt.Errorf("recipient is required")
	}

	payload, err := json.Marshal(sendRequest{
		From:    e.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email error (%d): %s", resp.StatusCode, string(body))
	}
	return nil
}
