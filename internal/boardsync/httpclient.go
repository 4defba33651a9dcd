package boardsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/strathausen/pleeboo/internal/models"
)

// HTTPClient implements API against the pleeboo HTTP server. Tokens travel
// in the X-Board-Token header.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the given base URL, e.g.
// "https://pleeboo.example.com".
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) GetBoard(ctx context.Context, boardID string) (*models.Board, error) {
	var board models.Board
	err := c.do(ctx, http.MethodGet, "/api/boards/"+boardID, "", nil, &board)
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (c *HTTPClient) UpdateBoard(ctx context.Context, boardID, token string, upd BoardUpdate) error {
	return c.do(ctx, http.MethodPatch, "/api/boards/"+boardID, token, upd, nil)
}

func (c *HTTPClient) AddSection(ctx context.Context, boardID, token string, draft SectionDraft) (*models.Section, error) {
	var section models.Section
	err := c.do(ctx, http.MethodPost, "/api/boards/"+boardID+"/sections", token, draft, &section)
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (c *HTTPClient) UpdateSection(ctx context.Context, sectionID, token string, upd SectionUpdate) (*models.Section, error) {
	var section models.Section
	err := c.do(ctx, http.MethodPatch, "/api/sections/"+sectionID, token, upd, &section)
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (c *HTTPClient) DeleteSection(ctx context.Context, sectionID, token string) error {
	return c.do(ctx, http.MethodDelete, "/api/sections/"+sectionID, token, nil, nil)
}

func (c *HTTPClient) ReorderSections(ctx context.Context, boardID, token string, orderedIDs []string) error {
	body := map[string][]string{"section_ids": orderedIDs}
	return c.do(ctx, http.MethodPut, "/api/boards/"+boardID+"/sections/order", token, body, nil)
}

func (c *HTTPClient) AddItem(ctx context.Context, sectionID, token string, draft ItemDraft) (*models.Item, error) {
	var item models.Item
	err := c.do(ctx, http.MethodPost, "/api/sections/"+sectionID+"/items", token, draft, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) UpdateItem(ctx context.Context, itemID, token string, upd ItemUpdate) (*models.Item, error) {
	var item models.Item
	err := c.do(ctx, http.MethodPatch, "/api/items/"+itemID, token, upd, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) DeleteItem(ctx context.Context, itemID, token string) error {
	return c.do(ctx, http.MethodDelete, "/api/items/"+itemID, token, nil, nil)
}

func (c *HTTPClient) UpsertVolunteer(ctx context.Context, itemID string, slot int, token string, fields VolunteerFields) (*models.Volunteer, error) {
	var resp struct {
		Volunteer *models.Volunteer `json:"volunteer"`
	}
	path := fmt.Sprintf("/api/items/%s/volunteers/%d", itemID, slot)
	if err := c.do(ctx, http.MethodPut, path, token, fields, &resp); err != nil {
		return nil, err
	}
	return resp.Volunteer, nil
}

// apiError mirrors the server's error envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-Board-Token", token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %s (%s)", method, path, apiErr.Message, apiErr.Code)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
