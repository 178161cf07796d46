package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the odonto admin REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
}

const (
	defaultBaseURL   = "http://127.0.0.1:3000/api"
	defaultUserAgent = "odonto-console/0.1"
	defaultTimeout   = 5 * time.Second

	totalCountHeader = "X-Total-Count"
	requestIDHeader  = "X-Request-ID"
)

// ClientOptions tune a Client. The zero value is usable.
type ClientOptions struct {
	Token     string // sent as a bearer token when set
	Timeout   time.Duration
	UserAgent string
}

// StatusError is returned for HTTP responses with status >= 400.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Code)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// NewClient builds a Client for the API rooted at baseURL, e.g.
// http://127.0.0.1:3000/api.
func NewClient(baseURL string, opts ClientOptions) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
		token:     strings.TrimSpace(opts.Token),
	}, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListResult is one page of a collection endpoint.
type ListResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// List fetches GET <base>/<resource>?<query>. The API may answer with an
// {"items": [...], "total": n} envelope or with a bare array and the total in
// the X-Total-Count header.
func List[T any](ctx context.Context, c *Client, resource string, query url.Values) (ListResult[T], error) {
	if c == nil {
		return ListResult[T]{}, fmt.Errorf("client is nil")
	}
	var raw json.RawMessage
	header, err := c.do(ctx, http.MethodGet, resource, query, &raw)
	if err != nil {
		return ListResult[T]{}, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return ListResult[T]{}, fmt.Errorf("decode response: %w", err)
		}
		total := len(items)
		if value := header.Get(totalCountHeader); value != "" {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 0 {
				return ListResult[T]{}, fmt.Errorf("decode %s header %q", totalCountHeader, value)
			}
			total = n
		}
		return ListResult[T]{Items: items, Total: total}, nil
	}

	var result ListResult[T]
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return ListResult[T]{}, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

// Delete removes <base>/<resource>/<id>.
func (c *Client) Delete(ctx context.Context, resource string, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return fmt.Errorf("record id required")
	}
	_, err := c.do(ctx, http.MethodDelete, resource+"/"+strconv.FormatInt(id, 10), nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, resource string, query url.Values, dest any) (http.Header, error) {
	reqURL := c.baseURL.JoinPath(strings.Trim(resource, "/"))
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("[API] request_id=%s method=%s path=%s err=%v", requestID, method, reqURL.Path, err)
		}
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Printf("[API] request_id=%s method=%s path=%s status=%d", requestID, method, reqURL.Path, resp.StatusCode)
		return nil, StatusError{Method: method, Path: reqURL.Path, Code: resp.StatusCode}
	}
	if dest == nil {
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.Header, nil
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
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	if u.Path == "" {
		u.Path = "/"
	}
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
