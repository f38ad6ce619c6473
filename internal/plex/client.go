package plex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/p2c/internal/shared"
	"golang.org/x/time/rate"
)

// Client talks to a single media server using a pre-obtained access token.
type Client struct {
	host       string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientOpts contains configuration options for creating a Client.
type ClientOpts struct {
	Host       string
	Token      string
	HTTPClient *http.Client
	Logger     *log.Logger
	RateLimit  float64 // requests per second, <= 0 disables pacing
}

// NewClient creates a new Client with the provided configuration
func NewClient(opts ClientOpts) *Client {
	if opts.Host == "" {
		opts.Host = shared.DefaultHost
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		host:       strings.TrimRight(opts.Host, "/"),
		token:      opts.Token,
		httpClient: opts.HTTPClient,
		limiter:    limiter,
		logger:     opts.Logger,
	}
}

// Host returns the server address requests are sent to.
func (c *Client) Host() string {
	return c.host
}

// URL builds the full request URL for path with params, appending the token as the last pair.
func (c *Client) URL(path string, params ...Param) string {
	all := make([]Param, 0, len(params)+1)
	all = append(all, params...)
	all = append(all, Param{Key: TokenParam, Value: c.token})
	return c.host + path + "?" + EncodeQuery(all)
}

func (c *Client) do(ctx context.Context, method, path string, params []Param) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, params...), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if method == http.MethodGet {
		req.Header.Set("Accept", "application/json")
	}

	c.logger.Debug("request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	c.logger.Debug("response", "method", method, "path", path, "status", resp.StatusCode)
	return resp, nil
}

// getContainer performs a GET and returns the envelope's MediaContainer.
func (c *Client) getContainer(ctx context.Context, path string, params ...Param) (*MediaContainer, error) {
	resp, err := c.do(ctx, http.MethodGet, path, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s returned status %d", shared.ErrBadResponse, path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.MediaContainer == nil {
		c.logger.Error("unexpected JSON response", "path", path, "body", excerpt(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
		}
		return nil, fmt.Errorf("%w: missing MediaContainer", shared.ErrMalformedResponse)
	}

	return env.MediaContainer, nil
}

func excerpt(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

// ConnectionError describes a failed connectivity probe.
type ConnectionError struct {
	Host   string
	Status int   // zero when no response was received
	Cause  error // transport error, if any
}

func (e *ConnectionError) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("Unable to connect to %s (%s)", e.Host, errorTypeName(e.Cause))
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return "Could not connect to Plex with the provided token"
	default:
		return fmt.Sprintf("Bad response from Plex (%d)", e.Status)
	}
}

// Unwrap exposes the matching sentinel error and the transport cause.
func (e *ConnectionError) Unwrap() []error {
	var kind error
	switch {
	case e.Status == 0:
		kind = shared.ErrConnection
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		kind = shared.ErrAuthFailed
	default:
		kind = shared.ErrBadResponse
	}
	if e.Cause != nil {
		return []error{kind, e.Cause}
	}
	return []error{kind}
}

// errorTypeName returns the dynamic type of the innermost transport error, e.g. "net.OpError".
func errorTypeName(err error) string {
	if err == nil {
		return "unknown error"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}

// CheckConnection verifies that the host is reachable and accepts the token.
//
// Succeeds only on HTTP 200; any other outcome is returned as a [*ConnectionError].
func (c *Client) CheckConnection(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return &ConnectionError{Host: c.host, Cause: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &ConnectionError{Host: c.host, Status: resp.StatusCode}
	}
	return nil
}
