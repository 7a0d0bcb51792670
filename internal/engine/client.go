package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "drawdown-console/internal/errors"
	"drawdown-console/internal/logging"
	"drawdown-console/internal/models"
)

// maxErrorBody caps how much of a failed response is read.
const maxErrorBody = 64 << 10

// Client is the HTTP implementation of Engine.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the client logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the engine at baseURL.
// The default http.Client has no timeout: a hung request stays pending
// until ctx is cancelled.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "drawdown-console",
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the engine root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveInstrument implements Engine.
func (c *Client) ResolveInstrument(ctx context.Context, ticker string) (*models.InstrumentSnapshot, error) {
	endpoint := "/api/stock/" + url.PathEscape(ticker)
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.Wrapf(err, "resolving %s", ticker)
	}
	snap := parseSnapshot(ticker, body)
	snap.ResolvedAt = time.Now()
	return snap, nil
}

// FetchChain implements Engine.
func (c *Client) FetchChain(ctx context.Context, ticker, expiry string) (*models.Chain, error) {
	endpoint := "/api/chain/" + url.PathEscape(ticker) + "/" + url.PathEscape(expiry)
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.Wrapf(err, "fetching chain %s %s", ticker, expiry)
	}
	return parseChain(ticker, expiry, body), nil
}

// Simulate implements Engine.
func (c *Client) Simulate(ctx context.Context, params models.AnalysisParams) (*models.AnalysisResult, error) {
	payload, err := requestBody(params)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", params.Kind, err)
	}

	body, err := c.do(ctx, http.MethodPost, params.Kind.Path(), data)
	if err != nil {
		return nil, apperrors.Wrapf(err, "%s %s", params.Kind, params.Ticker)
	}
	return parseResult(params.Kind, body), nil
}

// Status implements StatusChecker with a GET of the engine root.
func (c *Client) Status(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return "", apperrors.Wrapf(err, "engine status")
	}
	return json.Get(body, "status").ToString(), nil
}

// do performs one request and returns the body of a 2xx response.
// Transport problems become TransportFailure and non-2xx statuses
// become ServerFailure.
func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	start := time.Now()

	var reader io.Reader = http.NoBody
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, apperrors.NewTransportFailure(method, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		terr := apperrors.NewTransportFailure(method, endpoint, err)
		logging.LogAPICall(c.logger, method, endpoint, time.Since(start), terr)
		return nil, terr
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug().Err(cerr).Str("endpoint", endpoint).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		serr := apperrors.NewServerFailure(resp.StatusCode, parseDetail(raw))
		logging.LogAPICall(c.logger, method, endpoint, time.Since(start), serr)
		return nil, serr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		terr := apperrors.NewTransportFailure(method, endpoint, err)
		logging.LogAPICall(c.logger, method, endpoint, time.Since(start), terr)
		return nil, terr
	}

	logging.LogAPICall(c.logger, method, endpoint, time.Since(start), nil)
	return body, nil
}

func errUnknownKind(kind models.Kind) error {
	return fmt.Errorf("%w: %q", apperrors.ErrUnknownKind, kind)
}
