package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public Notion API endpoint.
	DefaultBaseURL = "https://api.notion.com"
	// DefaultVersion is the Notion-Version header sent with every request.
	DefaultVersion = "2022-06-28"

	pageSize = 100
	// maxPages bounds pagination so a misbehaving cursor cannot loop forever.
	maxPages = 1000
)

// Client queries Notion databases. It never writes.
type Client struct {
	token   string
	baseURL string
	version string
	client  *http.Client
}

// Config holds configuration for the Notion client.
type Config struct {
	Token   string // Integration token (or read from NOTION_TOKEN env var)
	BaseURL string // API base URL, mainly for tests
	Version string // Notion-Version header
	Timeout time.Duration
}

// NewClient creates a new Notion client.
func NewClient(cfg Config) (*Client, error) {
	token := cfg.Token
	if token == "" {
		token = os.Getenv("NOTION_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("%w: NOTION_TOKEN not set", ErrMissingConfig)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		token:   token,
		baseURL: baseURL,
		version: version,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// QueryDatabase returns every page of the database, following pagination.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) (*QueryResult, error) {
	if databaseID == "" {
		return nil, fmt.Errorf("%w: database ID is empty", ErrMissingConfig)
	}

	all := &QueryResult{Object: "list", Results: []Page{}}
	var cursor *string

	for i := 0; i < maxPages; i++ {
		page, err := c.queryPage(ctx, databaseID, cursor)
		if err != nil {
			return nil, err
		}
		all.Results = append(all.Results, page.Results...)

		if !page.HasMore || page.NextCursor == nil || *page.NextCursor == "" {
			return all, nil
		}
		cursor = page.NextCursor
	}

	return nil, fmt.Errorf("notion: database %s exceeded %d result pages", databaseID, maxPages)
}

func (c *Client) queryPage(ctx context.Context, databaseID string, cursor *string) (*QueryResult, error) {
	reqBody := map[string]interface{}{
		"page_size": pageSize,
	}
	if cursor != nil {
		reqBody["start_cursor"] = *cursor
	}

	body, err := c.do(ctx, http.MethodPost, "/v1/databases/"+databaseID+"/query", reqBody)
	if err != nil {
		return nil, err
	}

	var result QueryResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse Notion response: %w", err)
	}
	return &result, nil
}

// do executes a request against the Notion API and returns the raw body.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, apiMessage(body))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("Notion API returned status %d: %s", resp.StatusCode, apiMessage(body))
	}

	return body, nil
}

// apiMessage extracts the message of a Notion error object, falling back to
// the raw body.
func apiMessage(body []byte) string {
	var apiErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Code + ": " + apiErr.Message
	}
	return string(body)
}
