// Package client is a typed HTTP client for the webqa endpoints.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mohammad-safakhou/webqa/models"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Index asks the service to fetch and store url.
func (c *Client) Index(ctx context.Context, pageURL string) (models.Envelope, error) {
	return c.post(ctx, "/index/", url.Values{"url": {pageURL}})
}

// StartChat opens a new session.
func (c *Client) StartChat(ctx context.Context) (models.Envelope, error) {
	return c.post(ctx, "/start_chat/", nil)
}

// Ask sends a question; sessionID may be empty for a stateless question.
func (c *Client) Ask(ctx context.Context, pageURL, question, sessionID string) (models.Envelope, error) {
	params := url.Values{"url": {pageURL}, "question": {question}}
	if sessionID != "" {
		params.Set("session_id", sessionID)
	}
	return c.post(ctx, "/ask/", params)
}

func (c *Client) post(ctx context.Context, path string, params url.Values) (models.Envelope, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return models.Envelope{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Envelope{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var env models.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return models.Envelope{}, fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}
	return env, nil
}
