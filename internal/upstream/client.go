package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"busdesk/pkg/logger"

	"github.com/google/uuid"
)

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderAuthorization = "Authorization"

	fallbackErrorMessage = "Something went wrong"
)

// ErrMalformedResponse is returned when a 2xx body does not decode
var ErrMalformedResponse = errors.New("malformed upstream response")

// Credentials carries the caller's bearer token for one booking session.
// UserID is only used locally and never sent upstream. The zero value is a
// guest.
type Credentials struct {
	AccessToken string
	UserID      string
}

// IsGuest reports whether requests go out without a token
func (c Credentials) IsGuest() bool {
	return strings.TrimSpace(c.AccessToken) == ""
}

// APIError is a failed upstream call with the best message the body offered
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream error (%d): %s", e.StatusCode, e.Message)
}

// StatusCode returns the upstream HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// HTTPStatus maps err to the status busdesk should answer with: upstream
// 4xx answers are relayed, everything else is a bad gateway.
func HTTPStatus(err error) int {
	if code := StatusCode(err); code >= 400 && code < 500 {
		return code
	}
	return http.StatusBadGateway
}

// Message returns the user-facing message for err
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if fallback == "" {
		fallback = fallbackErrorMessage
	}
	return fallback
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the booking service REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, creds Credentials, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, creds, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, creds Credentials, path string, body, out interface{}) error {
	return c.Do(ctx, creds, http.MethodPost, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, creds Credentials, path string, body, out interface{}) error {
	return c.Do(ctx, creds, http.MethodPatch, path, nil, body, out)
}

// Do sends one request and decodes the {success, data} envelope into out.
// Every request gets a fresh X-Request-ID.
func (c *Client) Do(ctx context.Context, creds Credentials, method, path string, query url.Values, body, out interface{}) error {
	start := time.Now()
	status, err := c.do(ctx, creds, method, path, query, body, out)
	logger.GetDefault().LogUpstreamCall(ctx, method, path, status, time.Since(start), err)
	return err
}

func (c *Client) do(ctx context.Context, creds Credentials, method, path string, query url.Values, body, out interface{}) (int, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())
	if !creds.IsGuest() {
		req.Header.Set(HeaderAuthorization, "Bearer "+creds.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, newAPIError(resp.StatusCode, env, decodeErr == nil)
	}
	if decodeErr != nil {
		return resp.StatusCode, fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}
	if !env.Success {
		return resp.StatusCode, newAPIError(resp.StatusCode, env, true)
	}

	if out == nil {
		return resp.StatusCode, nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return resp.StatusCode, fmt.Errorf("%w: missing data", ErrMalformedResponse)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return resp.StatusCode, nil
}

// newAPIError picks error.message, then message, then the status text
func newAPIError(status int, env envelope, decoded bool) *APIError {
	apiErr := &APIError{StatusCode: status}
	if decoded {
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		if apiErr.Message == "" {
			apiErr.Message = env.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	if apiErr.Message == "" {
		apiErr.Message = fallbackErrorMessage
	}
	return apiErr
}
