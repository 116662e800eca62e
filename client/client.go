// Package client is the typed HTTP client for the Backyard backend surfaces
// this agent consumes: the card list, the per-user idea-map settings record,
// and edge creation. The backend itself (route handlers, ORM, auth) is an
// external collaborator.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/backyard-app/backyard-sync/models"
)

// Sentinel errors for common HTTP error classes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// Client talks to the Backyard backend.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// New creates a backend client. The API key is a pre-issued bearer token;
// obtaining one is the application's auth flow, not this agent's concern.
func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// ListCards fetches the card records for a project.
func (c *Client) ListCards(ctx context.Context, projectID string) ([]models.Card, error) {
	query := url.Values{}
	if projectID != "" {
		query.Set("projectId", projectID)
	}
	var cards []models.Card
	if err := c.do(ctx, http.MethodGet, "/api/cards", query, nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// CreateEdgeRequest is the payload for the edge-creation endpoint.
type CreateEdgeRequest struct {
	Source       string            `json:"source"`
	Target       string            `json:"target"`
	SourceHandle string            `json:"sourceHandle,omitempty"`
	TargetHandle string            `json:"targetHandle,omitempty"`
	ProjectID    string            `json:"projectId"`
	Type         string            `json:"type,omitempty"`
	Animated     bool              `json:"animated"`
	Style        *models.EdgeStyle `json:"style,omitempty"`
	Data         *models.EdgeData  `json:"data,omitempty"`
}

// EdgeResponse is the server's record of a created edge.
type EdgeResponse struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// CreateEdge persists a locally created connection on the backend.
func (c *Client) CreateEdge(ctx context.Context, req CreateEdgeRequest) (*EdgeResponse, error) {
	var resp EdgeResponse
	if err := c.do(ctx, http.MethodPost, "/api/edges", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// settingsEnvelope matches the settings endpoint's {"settings": ...} wrapper.
type settingsEnvelope struct {
	Settings *models.Settings `json:"settings"`
	UserID   string           `json:"userId,omitempty"`
}

// GetIdeaMapSettings fetches the user's idea-map settings. The returned
// settings are merged over defaults, so fields the server omits keep their
// canonical values. When the server reports no settings stored for the user
// ({"settings": null}) the result is nil with no error; the caller decides
// what to substitute.
func (c *Client) GetIdeaMapSettings(ctx context.Context, userID string) (*models.Settings, error) {
	query := url.Values{}
	query.Set("userId", userID)

	defaults := models.DefaultSettings()
	env := settingsEnvelope{Settings: &defaults}
	if err := c.do(ctx, http.MethodGet, "/api/ideamap-settings", query, nil, &env); err != nil {
		return nil, err
	}
	return env.Settings, nil
}

// patchEnvelope is the PATCH body: {"userId": ..., "settings": partial}.
type patchEnvelope struct {
	UserID   string               `json:"userId"`
	Settings models.SettingsPatch `json:"settings"`
}

// PatchIdeaMapSettings applies a partial settings update for the user.
func (c *Client) PatchIdeaMapSettings(ctx context.Context, userID string, partial models.SettingsPatch) error {
	return c.do(ctx, http.MethodPatch, "/api/ideamap-settings", nil, patchEnvelope{UserID: userID, Settings: partial}, nil)
}
