package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
	"github.com/jrsteele09/clinic-gateway/sessions"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json"

// Gateway is the single call surface for JSON HTTP requests. It attaches
// the persisted bearer token, performs exactly one attempt and normalises
// every failure into *Error. It holds no state between calls.
//
// There is no retry: callers issue non-idempotent requests (staff creation
// for one) and there are no idempotency keys to make a retry safe.
type Gateway struct {
	store   sessions.Store
	client  *http.Client
	logger  zerolog.Logger
	metrics *Metrics
}

type Option func(*Gateway)

// WithHTTPClient replaces http.DefaultClient. The gateway itself imposes no
// timeout; set one on the client if needed.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		g.client = client
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

func New(store sessions.Store, opts ...Option) *Gateway {
	g := &Gateway{
		store:  store,
		client: http.DefaultClient,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Do performs the request and returns the decoded JSON body. Numbers are
// returned as json.Number.
func (g *Gateway) Do(ctx context.Context, req Request) (any, error) {
	var out any
	if err := g.DoInto(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DoInto performs the request and decodes the JSON body into out
func (g *Gateway) DoInto(ctx context.Context, req Request, out any) error {
	requestID := uuid.NewString()
	logger := g.logger.With().Str("request_id", requestID).Str("url", req.URL).Logger()

	method, err := req.method()
	if err != nil {
		return &Error{Message: err.Error(), Err: err}
	}
	logger = logger.With().Str("method", method).Logger()

	httpReq, err := g.buildRequest(ctx, method, req)
	if err != nil {
		logger.Error().Err(err).Msg("building request")
		return &Error{Message: err.Error(), Err: err}
	}

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.metrics.observe(method, outcomeTransportError, time.Since(start))
		logger.Error().Err(err).Msg("request failed")
		return &Error{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		g.metrics.observe(method, outcomeTransportError, time.Since(start))
		logger.Error().Err(err).Int("status", resp.StatusCode).Msg("reading response body")
		return &Error{Status: resp.StatusCode, StatusText: statusText(resp), Message: err.Error(), Err: err}
	}

	if !isSuccess(resp.StatusCode) {
		g.metrics.observe(method, outcomeHTTPError, time.Since(start))
		apiErr := errorFromResponse(resp, body)
		logger.Error().Int("status", resp.StatusCode).Str("error_message", apiErr.Message).Msg("API request failed")
		return apiErr
	}

	if err := decodeJSON(body, out); err != nil {
		g.metrics.observe(method, outcomeDecodeError, time.Since(start))
		wrapped := apperrors.Wrapf(apperrors.ErrInvalidResponse, "decoding response from %s: %v", req.URL, err)
		logger.Error().Err(err).Int("status", resp.StatusCode).Msg("decoding response")
		return &Error{Status: resp.StatusCode, StatusText: statusText(resp), Message: wrapped.Error(), Err: wrapped}
	}

	g.metrics.observe(method, outcomeSuccess, time.Since(start))
	logger.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("request succeeded")
	return nil
}

// buildRequest assembles headers in order: JSON content type, then the
// bearer token when one is persisted, then the caller's headers.
func (g *Gateway) buildRequest(ctx context.Context, method string, req Request) (*http.Request, error) {
	var body io.Reader
	if req.Body != nil {
		body = strings.NewReader(*req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "creating request: %v", err)
	}

	httpReq.Header.Set("Content-Type", contentTypeJSON)
	if token, err := sessions.NewTokenSource(ctx, g.store).Token(); err == nil {
		token.SetAuthHeader(httpReq)
	} else if !apperrors.Is(err, apperrors.ErrNoToken) {
		g.logger.Warn().Err(err).Msg("reading session token, sending without Authorization")
	}
	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}
	return httpReq, nil
}

// decodeJSON requires body to hold exactly one JSON value
func decodeJSON(body []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return apperrors.Wrapf(apperrors.ErrInvalidResponse, "unexpected data after JSON value")
	}
	return nil
}
