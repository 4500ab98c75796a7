package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultGmailBaseURL is the production Gmail REST endpoint for the
	// authenticated user's mailbox.
	DefaultGmailBaseURL = "https://gmail.googleapis.com/gmail/v1/users/me"

	defaultTimeout = 60 * time.Second
	maxRetries     = 3
	initialBackoff = 2 * time.Second
)

// GmailClient implements Mailer against the Gmail REST API using an
// already-established bearer token.
type GmailClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewGmailClient creates a Gmail API client. baseURL may be empty to use
// the production endpoint; tests point it at a local server.
func NewGmailClient(baseURL, token string) *GmailClient {
	if baseURL == "" {
		baseURL = DefaultGmailBaseURL
	}
	return &GmailClient{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type gmailMessage struct {
	ID string `json:"id"`
}

type gmailLabel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type labelsResponse struct {
	Labels []gmailLabel `json:"labels"`
}

// Send delivers an encoded message via messages/send and returns the
// Gmail message id.
func (c *GmailClient) Send(ctx context.Context, msg *Message) (string, error) {
	raw, err := msg.Encode()
	if err != nil {
		return "", fmt.Errorf("encode message: %w", err)
	}

	body := map[string]string{
		"raw": base64.URLEncoding.EncodeToString(raw),
	}
	var sent gmailMessage
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/messages/send", body, &sent); err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return sent.ID, nil
}

// ListLabels returns the mailbox's labels keyed by display name.
func (c *GmailClient) ListLabels(ctx context.Context) (map[string]string, error) {
	var resp labelsResponse
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/labels", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}

	labels := make(map[string]string, len(resp.Labels))
	for _, l := range resp.Labels {
		labels[l.Name] = l.ID
	}
	return labels, nil
}

// CreateLabel creates a user label and returns its id.
func (c *GmailClient) CreateLabel(ctx context.Context, name string) (string, error) {
	body := map[string]string{
		"name":                  name,
		"labelListVisibility":   "labelShow",
		"messageListVisibility": "show",
	}
	var label gmailLabel
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/labels", body, &label); err != nil {
		return "", fmt.Errorf("failed to create label %s: %w", name, err)
	}
	return label.ID, nil
}

// ApplyLabels attaches labels to an already-sent message.
func (c *GmailClient) ApplyLabels(ctx context.Context, messageID string, labelIDs []string) error {
	body := map[string][]string{
		"addLabelIds": labelIDs,
	}
	endpoint := fmt.Sprintf("%s/messages/%s/modify", c.baseURL, url.PathEscape(messageID))
	if err := c.doJSON(ctx, http.MethodPost, endpoint, body, &gmailMessage{}); err != nil {
		return fmt.Errorf("failed to label message %s: %w", messageID, err)
	}
	return nil
}

// doJSON performs one API call with retry and exponential backoff on
// transient failures (5xx, 429, network errors).
func (c *GmailClient) doJSON(ctx context.Context, method, endpoint string, reqBody, out any) error {
	var payload []byte
	if reqBody != nil {
		var err error
		payload, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if reqBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, body)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d: %s", resp.StatusCode, body)
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}
