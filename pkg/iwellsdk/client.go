package iwellsdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIKeyHeader carries the account key on every upstream request.
const APIKeyHeader = "x-api-key"

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 8 << 20

// Client talks to the iWell API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient returns a client with DefaultTimeout.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// GetStatus returns the current status document of a battery.
func (c *Client) GetStatus(ctx context.Context, deviceID string) ([]byte, error) {
	return c.get(ctx, batteryPath(deviceID, "status"), nil)
}

// GetTelemetry returns the telemetry document of a battery for the window
// ending offsetMinutes ago.
func (c *Client) GetTelemetry(ctx context.Context, deviceID string, offsetMinutes int) ([]byte, error) {
	q := url.Values{}
	q.Set("OffsetMinutes", strconv.Itoa(offsetMinutes))
	return c.get(ctx, batteryPath(deviceID, "telemetry"), q)
}

func batteryPath(deviceID, resource string) string {
	return "/api/v1/batteries/" + url.PathEscape(deviceID) + "/" + resource
}

func (c *Client) url(path string, q url.Values) string {
	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path, q), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(APIKeyHeader, c.APIKey)
	req.Header.Set("Accept", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(req.Method, path, resp.StatusCode, body)
	}
	return body, nil
}
