package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout applies when no positive timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxBody caps how much of a response is read. A full page of
// activities is well under this.
const maxBody = 8 << 20

// Client is an http.Client for the JSON endpoints of the Strava API.
type Client struct {
	http *http.Client
}

// Response is a completed request. The body has been read and closed.
// JSONErr holds a decode failure of a 2xx body, kept apart from
// transport errors so callers can report it with the status.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	JSONErr    error
}

func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// RateLimit is Strava's request budget as reported on every response.
// Index 0 is the 15-minute window, index 1 the daily one.
type RateLimit struct {
	Limit [2]int
	Usage [2]int
}

func (l RateLimit) String() string {
	return fmt.Sprintf("%d/%d per 15 min, %d/%d per day", l.Usage[0], l.Limit[0], l.Usage[1], l.Limit[1])
}

// RateLimit parses the X-RateLimit-Limit and X-RateLimit-Usage headers.
// ok is false when either is missing or malformed.
func (r *Response) RateLimit() (rl RateLimit, ok bool) {
	if r.Header == nil {
		return rl, false
	}
	if rl.Limit, ok = parsePair(r.Header.Get("X-RateLimit-Limit")); !ok {
		return rl, false
	}
	rl.Usage, ok = parsePair(r.Header.Get("X-RateLimit-Usage"))
	return rl, ok
}

func parsePair(s string) ([2]int, bool) {
	var out [2]int
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return out, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return out, false
		}
		out[i] = n
	}
	return out, true
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// HTTPClient exposes the underlying client so oauth2 can share its
// timeout.
func (c *Client) HTTPClient() *http.Client { return c.http }

// RequestOption configures an http.Request before it is sent.
type RequestOption func(*http.Request)

// DoCtx sends one request and reads the whole body. Only transport
// failures and cancellation are errors; HTTP error statuses come back in
// the Response.
func (c *Client) DoCtx(ctx context.Context, method, rawURL string, body io.Reader, opts ...RequestOption) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// GetJSONCtx GETs rawURL and, on a 2xx status, decodes the body into out.
func (c *Client) GetJSONCtx(ctx context.Context, rawURL string, out any, opts ...RequestOption) (*Response, error) {
	opts = append([]RequestOption{WithHeader("Accept", "application/json")}, opts...)
	resp, err := c.DoCtx(ctx, http.MethodGet, rawURL, nil, opts...)
	if err != nil {
		return nil, err
	}
	if out != nil && resp.OK() {
		resp.JSONErr = json.Unmarshal(resp.Body, out)
	}
	return resp, nil
}
