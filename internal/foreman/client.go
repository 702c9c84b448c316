package foreman

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is the surface the reconciler needs from Foreman. Search calls
// return nil (not an error) when nothing matches.
type Client interface {
	SearchLocation(ctx context.Context, name string) (*Location, error)
	SearchPartitionTable(ctx context.Context, name string) (*PartitionTable, error)
	GetPartitionTable(ctx context.Context, id int) (*PartitionTable, error)
	CreatePartitionTable(ctx context.Context, data PartitionTableInput) (*PartitionTable, error)
	UpdatePartitionTable(ctx context.Context, id int, data PartitionTableInput) (*PartitionTable, error)
	DeletePartitionTable(ctx context.Context, id int) (*PartitionTable, error)
}

// Settings holds the connection parameters for a Foreman instance.
// Password is a secret: it is sent as basic auth only and must never be
// logged or echoed.
type Settings struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
}

// BaseURL builds the API v2 root for these settings.
func (s Settings) BaseURL() string {
	scheme := "http"
	if s.UseTLS {
		scheme = "https"
	}
	port := s.Port
	if port == 0 {
		port = 443
	}
	return fmt.Sprintf("%s://%s:%d/api/v2", scheme, s.Host, port)
}

// HTTPClient talks to the Foreman API v2 over HTTP(S) with basic auth.
type HTTPClient struct {
	settings Settings
	client   *http.Client
}

func NewHTTPClient(settings Settings) *HTTPClient {
	return &HTTPClient{
		settings: settings,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// searchResponse is the envelope Foreman wraps collection queries in.
type searchResponse[T any] struct {
	Results []T `json:"results"`
}

func (c *HTTPClient) SearchLocation(ctx context.Context, name string) (*Location, error) {
	return searchOne[Location](ctx, c, "locations", name)
}

func (c *HTTPClient) SearchPartitionTable(ctx context.Context, name string) (*PartitionTable, error) {
	return searchOne[PartitionTable](ctx, c, "ptables", name)
}

func (c *HTTPClient) GetPartitionTable(ctx context.Context, id int) (*PartitionTable, error) {
	var out PartitionTable
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("ptables/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreatePartitionTable(ctx context.Context, data PartitionTableInput) (*PartitionTable, error) {
	var out PartitionTable
	body := map[string]PartitionTableInput{"ptable": data}
	if err := c.do(ctx, http.MethodPost, "ptables", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdatePartitionTable(ctx context.Context, id int, data PartitionTableInput) (*PartitionTable, error) {
	var out PartitionTable
	body := map[string]PartitionTableInput{"ptable": data}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("ptables/%d", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeletePartitionTable(ctx context.Context, id int) (*PartitionTable, error) {
	var out PartitionTable
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("ptables/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// searchOne queries a collection endpoint with an exact name match and
// returns the single result, or nil when nothing matches. Name is the
// natural key, so more than one hit means the query was ambiguous.
func searchOne[T any](ctx context.Context, c *HTTPClient, endpoint, name string) (*T, error) {
	query := url.Values{}
	query.Set("search", fmt.Sprintf("name=%q", name))

	var out searchResponse[T]
	if err := c.do(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if len(out.Results) == 0 {
		return nil, nil
	}
	if len(out.Results) > 1 {
		return nil, fmt.Errorf("expected at most one %s named %q, got %d", endpoint, name, len(out.Results))
	}
	return &out.Results[0], nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.settings.BaseURL()+"/"+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.settings.Username, c.settings.Password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response from %s: %w", path, err)
		}
	}
	return nil
}
