package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"plantops/internal/logging"
)

// DefaultTimeout bounds any single backend call.
const DefaultTimeout = 15 * time.Second

// Client talks to the dashboard backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given backend base address,
// e.g. "http://localhost:8000".
func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, DefaultTimeout)
}

// NewClientWithTimeout creates a client with a custom per-call timeout.
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend base address.
func (c *Client) BaseURL() string { return c.baseURL }

// do performs a request and decodes a JSON response into out (when non-nil).
// Non-2xx responses become *Error with the backend's detail message.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	// Auto-apply timeout if context has no deadline
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.APIDebug("%s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.APIError("%s %s: %v", method, path, err)
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := parseDetail(data)
		logging.APIError("%s %s: status %d: %s", method, path, resp.StatusCode, detail)
		return &Error{StatusCode: resp.StatusCode, Detail: detail}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// parseDetail extracts the FastAPI-style {"detail": "..."} error message.
func parseDetail(data []byte) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &e); err == nil && e.Detail != "" {
		return e.Detail
	}
	return string(data)
}

// ListReports fetches the report listing, optionally filtered.
func (c *Client) ListReports(ctx context.Context, f ReportFilter) ([]Report, error) {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.State != "" {
		q.Set("state", f.State)
	}
	path := "/api/reports"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var reports []Report
	if err := c.do(ctx, http.MethodGet, path, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// CreateReport registers a new report with the system of record. The
// backend assigns the durable identity and flips the row to Ready (document
// assembly happens client-side).
func (c *Client) CreateReport(ctx context.Context, req CreateReportRequest) (Report, error) {
	var created Report
	if err := c.do(ctx, http.MethodPost, "/api/reports/generate", req, &created); err != nil {
		return Report{}, err
	}
	return created, nil
}

// DeleteReport removes a report from the system of record.
func (c *Client) DeleteReport(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/reports/"+strconv.FormatInt(id, 10), nil, nil)
}

// CleanupGenerating purges server-side rows stuck in Generating.
func (c *Client) CleanupGenerating(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/reports/cleanup/generating", nil, nil)
}

// FetchFile retrieves a raw file resource (report document) by URL. The URL
// may point outside the API base, so this bypasses the JSON plumbing.
func (c *Client) FetchFile(ctx context.Context, fileURL string) ([]byte, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return nil, &Error{StatusCode: resp.StatusCode, Detail: parseDetail(data)}
	}
	return io.ReadAll(resp.Body)
}

// ListPlants fetches the plant fleet, optionally filtered.
func (c *Client) ListPlants(ctx context.Context, f PlantFilter) ([]Plant, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.State != "" {
		q.Set("state", f.State)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	path := "/api/plants"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var plants []Plant
	if err := c.do(ctx, http.MethodGet, path, nil, &plants); err != nil {
		return nil, err
	}
	return plants, nil
}

// ListSchedules fetches generation schedules.
func (c *Client) ListSchedules(ctx context.Context) ([]Schedule, error) {
	var schedules []Schedule
	if err := c.do(ctx, http.MethodGet, "/api/schedules", nil, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// ListDeviations fetches hourly deviation samples.
func (c *Client) ListDeviations(ctx context.Context) ([]Deviation, error) {
	var deviations []Deviation
	if err := c.do(ctx, http.MethodGet, "/api/deviations", nil, &deviations); err != nil {
		return nil, err
	}
	return deviations, nil
}

// DashboardStats fetches the fleet summary.
func (c *Client) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, &stats); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}
