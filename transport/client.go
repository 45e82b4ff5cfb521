package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Saatvik07/legallens/pkg/logger"
)

// DefaultTimeout bounds every request issued by the client.
const DefaultTimeout = 30 * time.Second

// Notifier receives a user-visible notification for every categorized
// failure. Callers still get the error itself to act on; the notifier is a
// side channel for the UI.
type Notifier interface {
	Notify(category Category, message string)
}

// LogNotifier routes notifications to the log. It is the default when the
// console has no richer notification channel wired.
type LogNotifier struct {
	Logger logger.Logger
}

func (n *LogNotifier) Notify(category Category, message string) {
	n.Logger.Warn("notification",
		logger.String("category", string(category)),
		logger.String("message", message),
	)
}

// Client issues HTTP requests against one configured base URL. Every call
// either returns a decoded JSON body or fails with exactly one *Error.
// The client never retries; retry policy belongs to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	notifier   Notifier
	logger     logger.Logger
}

// NewClient creates a transport client for the given base URL. A zero
// timeout falls back to DefaultTimeout and a nil notifier to LogNotifier.
func NewClient(baseURL string, timeout time.Duration, notifier Notifier, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if notifier == nil {
		notifier = &LogNotifier{Logger: log}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		notifier:   notifier,
		logger:     log,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON performs a GET and decodes the JSON response body.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values) (map[string]interface{}, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, c.fail(newError(CategoryUnexpectedError, 0, "", fmt.Errorf("failed to create request: %w", err)))
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// PostJSON performs a POST with a JSON body and decodes the JSON response.
func (c *Client) PostJSON(ctx context.Context, path string, body interface{}) (map[string]interface{}, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, c.fail(newError(CategoryUnexpectedError, 0, "", fmt.Errorf("failed to marshal request: %w", err)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, c.fail(newError(CategoryUnexpectedError, 0, "", fmt.Errorf("failed to create request: %w", err)))
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// Delete performs a DELETE and decodes the JSON response.
func (c *Client) Delete(ctx context.Context, path string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return nil, c.fail(newError(CategoryUnexpectedError, 0, "", fmt.Errorf("failed to create request: %w", err)))
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// UploadFile performs a multipart POST with the file under the given form
// field, overriding the default JSON content type.
func (c *Client) UploadFile(ctx context.Context, path, field, filename string, file io.Reader) (map[string]interface{}, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, c.fail(newError(CategoryUnexpectedError, 0, "", fmt.Errorf("failed to create form file: %w", err)))
	}
	if _, err := io.Copy(fw, file); err != nil {
		return nil, c.fail(newError(CategoryUnexpectedError, 0, "", fmt.Errorf("failed to write file bytes: %w", err)))
	}
	if err := w.Close(); err != nil {
		return nil, c.fail(newError(CategoryUnexpectedError, 0, "", fmt.Errorf("failed to finalize form: %w", err)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &b)
	if err != nil {
		return nil, c.fail(newError(CategoryUnexpectedError, 0, "", fmt.Errorf("failed to create request: %w", err)))
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req)
}

// do executes the request and maps the outcome onto the error taxonomy.
func (c *Client) do(req *http.Request) (map[string]interface{}, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// No response received at all.
		return nil, c.fail(newError(CategoryNetworkError, 0, "", err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(newError(CategoryNetworkError, resp.StatusCode, "", fmt.Errorf("failed to read response body: %w", err)))
	}

	if resp.StatusCode >= 400 {
		category := Categorize(resp.StatusCode)
		detail := extractDetail(bodyBytes)
		return nil, c.fail(newError(category, resp.StatusCode, detail, nil))
	}

	if len(bodyBytes) == 0 {
		return map[string]interface{}{}, nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return nil, c.fail(newError(CategoryUnexpectedError, resp.StatusCode, "",
			fmt.Errorf("failed to parse response: %w, body: %s", err, truncate(string(bodyBytes), 200))))
	}

	return result, nil
}

// fail fires the notification side effect and hands the error back.
func (c *Client) fail(e *Error) error {
	c.notifier.Notify(e.Category, e.Message)
	c.logger.Warn("request failed",
		logger.String("category", string(e.Category)),
		logger.Int("status", e.StatusCode),
		logger.String("detail", e.Detail),
	)
	return e
}

// extractDetail pulls a server-supplied message out of an error body.
// Backends have shipped it under several keys over time.
func extractDetail(body []byte) string {
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return strings.TrimSpace(truncate(string(body), 200))
	}
	for _, key := range []string{"detail", "message", "error"} {
		if v, ok := parsed[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
