package backlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the Backlog API v2 of a single space. Every call blocks
// until a response arrives or the per-call timeout elapses; nothing is retried.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for cfg.Host. It fails with ErrAuthentication
// when no API key is configured.
func NewClient(cfg Config, observer Observer) (*Client, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("backlog host is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: no API key configured for %s", ErrAuthentication, cfg.Host)
	}
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = DefaultConfig().TimeoutMs
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}, nil
}

// Host returns the space domain this client targets.
func (c *Client) Host() string {
	return c.cfg.Host
}

// request describes one API call. Paths are relative to the API v2 root.
// The API key is added at send time and never stored on the request.
type request struct {
	method string
	path   string
	form   url.Values
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path}, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodPost, path: path, form: form}, out)
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	start := time.Now()
	status, err := c.send(ctx, req, out)

	c.observer.OnCallComplete(ctx, CallEvent{
		Method:     req.method,
		Path:       req.path,
		StatusCode: status,
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
		ErrorCode:  errorCode(err),
	})
	return err
}

func (c *Client) send(ctx context.Context, req request, out any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	u, err := url.Parse(c.cfg.BaseURL() + strings.TrimLeft(req.path, "/"))
	if err != nil {
		return 0, fmt.Errorf("building url for %s: %w", req.path, err)
	}
	q := u.Query()
	q.Set("apiKey", c.cfg.APIKey)
	u.RawQuery = q.Encode()

	var body io.Reader
	if req.form != nil {
		body = strings.NewReader(req.form.Encode())
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		// url.Error carries the full URL, api key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		if ctx.Err() != nil {
			return 0, fmt.Errorf("%s %s: %w", req.method, req.path, ErrTimeout)
		}
		if isConnectionError(err) {
			return 0, fmt.Errorf("%s %s: %w: %v", req.method, req.path, ErrUnavailable, err)
		}
		return 0, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return httpResp.StatusCode, newHTTPError(req.method, req.path, httpResp.StatusCode, respBody)
	}

	if out == nil {
		return httpResp.StatusCode, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return httpResp.StatusCode, fmt.Errorf("decoding %s response: %w", req.path, err)
	}
	return httpResp.StatusCode, nil
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
