package catalog

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

	"github.com/google/uuid"

	"github.com/onlybigcars/carbook/internal/selection"
)

// ErrNotFound is returned when the API answers 404, e.g. for an unknown
// category slug.
var ErrNotFound = errors.New("catalog: not found")

// APIError is any other non-2xx answer.
type APIError struct {
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

// ServiceFetcher is implemented by *Client and faked in tests.
type ServiceFetcher interface {
	FetchCategories(ctx context.Context) ([]Category, error)
	FetchServices(ctx context.Context, slug string, params []selection.Param) (*ServicesResponse, error)
}

var _ ServiceFetcher = (*Client)(nil)

// TokenSource supplies the bearer token for authenticated requests. An empty
// token sends no Authorization header.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client talks to the services/pricing HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tokens    TokenSource
}

const (
	defaultBaseURL   = "127.0.0.1:8000"
	defaultUserAgent = "carbook/0.1"
	defaultTimeout   = 10 * time.Second
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithTokenSource attaches bearer tokens to every request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient builds a Client for baseURL ("host:port" or a full URL).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchCategories lists active service categories.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	var payload []Category
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/api/services/categories/"}, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchServices lists the services of a category priced for the car in
// params. params are sent in the given order.
func (c *Client) FetchServices(ctx context.Context, slug string, params []selection.Param) (*ServicesResponse, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("category slug required")
	}
	rel := &url.URL{
		Path:     "/api/services/categories/" + slug + "/",
		RawPath:  "/api/services/categories/" + url.PathEscape(slug) + "/",
		RawQuery: selection.EncodeQuery(params),
	}
	var payload ServicesResponse
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// RequestOTP asks the API to text a login code to phone.
func (c *Client) RequestOTP(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("phone number required")
	}
	return c.do(ctx, http.MethodPost, &url.URL{Path: "/api/otp/request/"}, otpRequest{PhoneNumber: phone}, nil)
}

// VerifyOTP exchanges a login code for tokens.
func (c *Client) VerifyOTP(ctx context.Context, phone, code string) (Tokens, error) {
	var out Tokens
	body := otpVerify{PhoneNumber: strings.TrimSpace(phone), OTPCode: strings.TrimSpace(code)}
	if body.PhoneNumber == "" || body.OTPCode == "" {
		return out, fmt.Errorf("phone number and code required")
	}
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/api/otp/verify/"}, body, &out); err != nil {
		return Tokens{}, err
	}
	return out, nil
}

// WhoAmI returns the user id the bearer token belongs to.
func (c *Client) WhoAmI(ctx context.Context) (string, error) {
	var out struct {
		UserID string `json:"user_id"`
	}
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/api/me/"}, nil, &out); err != nil {
		return "", err
	}
	return out.UserID, nil
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("access token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("api %s: %w", rel.Path, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Path: rel.Path, StatusCode: resp.StatusCode}
		var eb errorBody
		if json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb) == nil {
			apiErr.Message = eb.Error
			if apiErr.Message == "" {
				apiErr.Message = eb.Message
			}
		}
		return apiErr
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base_url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
