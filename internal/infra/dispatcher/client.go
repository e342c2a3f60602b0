package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/domain"
)

// Client talks to the external notification dispatch gateway over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

func NewClient(baseURL string, maxRetries int) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

type scheduleResponse struct {
	ID         string    `json:"id"`
	ScheduleAt time.Time `json:"schedule_at"`
}

type listResponse struct {
	Items []ScheduledItem `json:"items"`
	Count int             `json:"count"`
}

func (c *Client) Schedule(ctx context.Context, instruction *domain.ReminderInstruction) (string, error) {
	body, err := json.Marshal(instruction)
	if err != nil {
		return "", fmt.Errorf("failed to marshal instruction: %w", err)
	}

	endpoint, err := c.endpoint("/api/v1/reminders")
	if err != nil {
		return "", err
	}

	respBody, err := c.doWithRetry(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", err
	}

	var resp scheduleResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode schedule response: %w", err)
	}

	slog.DebugContext(ctx, "reminder registered with dispatcher",
		slog.String("dispatch_id", resp.ID),
		slog.String("product_code", instruction.ProductCode),
		slog.Time("fire_at", instruction.FireAt),
	)

	return resp.ID, nil
}

func (c *Client) Cancel(ctx context.Context, id string) error {
	endpoint, err := c.endpoint("/api/v1/reminders/" + url.PathEscape(id))
	if err != nil {
		return err
	}

	_, err = c.doWithRetry(ctx, http.MethodDelete, endpoint, nil)
	return err
}

func (c *Client) CancelAll(ctx context.Context) error {
	endpoint, err := c.endpoint("/api/v1/reminders")
	if err != nil {
		return err
	}

	_, err = c.doWithRetry(ctx, http.MethodDelete, endpoint, nil)
	return err
}

func (c *Client) ListScheduled(ctx context.Context) ([]ScheduledItem, error) {
	endpoint, err := c.endpoint("/api/v1/reminders")
	if err != nil {
		return nil, err
	}

	respBody, err := c.doWithRetry(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}

	return resp.Items, nil
}

func (c *Client) endpoint(path string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = path
	return u.String(), nil
}

func (c *Client) doWithRetry(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
			slog.DebugContext(ctx, "retrying dispatcher request",
				slog.String("method", method),
				slog.String("endpoint", endpoint),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		respBody, err := c.do(ctx, method, endpoint, body)
		if err == nil {
			return respBody, nil
		}
		// Permission refusal and missing reminders never resolve by retrying.
		if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("dispatcher request failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrPermissionDenied
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return respBody, nil
}
