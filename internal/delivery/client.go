// Package delivery submits queued check-ins to the remote game service.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"checkinq/internal/checkin"
	"checkinq/internal/config"
)

// maxErrorBody bounds how much of a rejected response is kept for diagnostics.
const maxErrorBody = 2048

// Client posts check-ins to {baseURL}/teams/{teamId}/checkin.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent = strings.TrimSpace(agent); agent != "" {
			c.userAgent = agent
		}
	}
}

// New creates a delivery client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("delivery base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "checkinq",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewFromConfig builds a Client from the [remote] config section.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("delivery: config is required")
	}
	base := []Option{
		WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()}),
		WithToken(cfg.Remote.APIToken),
		WithUserAgent(cfg.Remote.UserAgent),
	}
	return New(cfg.Remote.BaseURL, append(base, opts...)...)
}

type photoPayload struct {
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	Base64Data string `json:"base64_data"`
}

type locationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type checkinPayload struct {
	IdempotencyKey string           `json:"idempotency_key"`
	LocationID     int64            `json:"location_id"`
	ClientTime     string           `json:"client_time"`
	ClientLocation *locationPayload `json:"client_location"`
	Photo          photoPayload     `json:"photo"`
}

func newPayload(item checkin.QueuedCheckin) checkinPayload {
	payload := checkinPayload{
		IdempotencyKey: item.ClientKey,
		LocationID:     item.PlaceID,
		ClientTime:     item.DateTime,
		Photo: photoPayload{
			FileName:   item.Photo.FileName,
			MimeType:   item.Photo.MimeType,
			Base64Data: item.Photo.Base64Data,
		},
	}
	if item.Location != nil {
		payload.ClientLocation = &locationPayload{
			Latitude:  item.Location.Latitude,
			Longitude: item.Location.Longitude,
		}
	}
	return payload
}

// Endpoint returns the check-in URL for teamID.
func (c *Client) Endpoint(teamID int64) string {
	return c.baseURL + "/teams/" + url.PathEscape(strconv.FormatInt(teamID, 10)) + "/checkin"
}

// Deliver submits one check-in. Any 2xx response is acceptance; every other
// outcome returns a *checkin.DeliveryError.
func (c *Client) Deliver(ctx context.Context, teamID int64, item checkin.QueuedCheckin) error {
	body, err := json.Marshal(newPayload(item))
	if err != nil {
		return &checkin.DeliveryError{ClientKey: item.ClientKey, Err: fmt.Errorf("encode payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(teamID), bytes.NewReader(body))
	if err != nil {
		return &checkin.DeliveryError{ClientKey: item.ClientKey, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &checkin.DeliveryError{ClientKey: item.ClientKey, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &checkin.DeliveryError{
		ClientKey:  item.ClientKey,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(snippet)),
	}
}
