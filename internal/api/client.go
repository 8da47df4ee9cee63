package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ErrNotFound is matched by errors.Is for 404 responses.
var ErrNotFound = errors.New("not found")

// StatusError is returned for hypervisor responses with status >= 400.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client wraps HTTP calls to the hypervisor REST API.
type Client struct {
	baseURL      string
	discoveryURL string
	httpClient   *http.Client
	logger       *log.Logger
}

// NewClient creates a new API client.
func NewClient(baseURL string, timeout ...time.Duration) *Client {
	httpTimeout := 30 * time.Second
	if len(timeout) > 0 && timeout[0] > 0 {
		httpTimeout = timeout[0]
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		discoveryURL: DefaultDiscoveryURL,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
		logger: log.New(io.Discard),
	}
}

// WithLogger sets the logger used for request tracing.
func (c *Client) WithLogger(logger *log.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithDiscoveryURL points proxy lookups at another discovery service.
func (c *Client) WithDiscoveryURL(u string) *Client {
	c.discoveryURL = strings.TrimRight(u, "/")
	return c
}

// WithTimeout clones the client with a different HTTP timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	clone := NewClient(c.baseURL, timeout)
	clone.discoveryURL = c.discoveryURL
	clone.logger = c.logger
	return clone
}

// BaseURL returns the hypervisor address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do executes an HTTP request and returns the raw response body.
func (c *Client) do(ctx context.Context, method, rawURL string, body any) ([]byte, int, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "id", reqID, "method", method, "url", rawURL, "error", err)
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("request", "id", reqID, "method", method, "url", rawURL,
		"status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode >= 400 {
		msg, _ := extractAPIErrorBody(respBody)
		if msg == "" {
			msg = strings.TrimSpace(string(respBody))
			if msg != "" {
				msg = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, msg)
			}
		}
		return nil, resp.StatusCode, &StatusError{Status: resp.StatusCode, Message: msg}
	}

	return respBody, resp.StatusCode, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	body, _, err := c.do(ctx, http.MethodGet, c.baseURL+path, nil)
	return body, err
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	b, _, err := c.do(ctx, http.MethodPost, c.baseURL+path, body)
	return b, err
}

func (c *Client) put(ctx context.Context, path string, body any) ([]byte, error) {
	b, _, err := c.do(ctx, http.MethodPut, c.baseURL+path, body)
	return b, err
}

func (c *Client) del(ctx context.Context, path string) error {
	_, _, err := c.do(ctx, http.MethodDelete, c.baseURL+path, nil)
	return err
}

// decode decodes a raw JSON response body.
func decode[T any](data []byte) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// visorPath builds /api/visors/{pk}/... with escaped segments.
func visorPath(pk string, parts ...string) string {
	var b strings.Builder
	b.WriteString("/api/visors/")
	b.WriteString(url.PathEscape(pk))
	for _, p := range parts {
		b.WriteString("/")
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}

func extractAPIErrorBody(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}

	if msg, ok := parseErrorValue(payload["error"]); ok {
		return msg, true
	}
	if msg, ok := parseErrorValue(payload["message"]); ok {
		return msg, true
	}
	return "", false
}

func parseErrorValue(raw any) (string, bool) {
	switch value := raw.(type) {
	case string:
		msg := strings.TrimSpace(value)
		if msg == "" {
			return "", false
		}
		return msg, true
	case map[string]any:
		if nested, ok := parseErrorValue(value["error"]); ok {
			return nested, true
		}
		code, _ := value["code"].(string)
		message, _ := value["message"].(string)
		return formatAPIError(code, message)
	}
	return "", false
}

func formatAPIError(code, message string) (string, bool) {
	code = strings.TrimSpace(code)
	message = strings.TrimSpace(message)
	switch {
	case code != "" && message != "":
		return fmt.Sprintf("%s: %s", code, message), true
	case code != "":
		return code, true
	case message != "":
		return message, true
	default:
		return "", false
	}
}
