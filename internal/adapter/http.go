package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/nordvik/shopsync/internal/config"
	"github.com/nordvik/shopsync/internal/logger"
	"github.com/nordvik/shopsync/internal/session"
	"github.com/nordvik/shopsync/models"
)

// SessionSource is the slice of the session manager the dispatcher depends
// on. *session.Manager satisfies it.
type SessionSource interface {
	EnsureActiveSession(ctx context.Context) (*models.Session, error)
	ForceRenew(ctx context.Context) (*models.Session, error)
}

// NewHTTPClient constructs the shared resty client from the adapter config.
// It normalises and validates the base URL and applies the request timeout.
func NewHTTPClient(cfg config.Adapter) (*resty.Client, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return client, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// HTTPDispatcher is the HTTP implementation of [Dispatcher]. Every request
// waits for an active session, carries the session token with its signature
// and any configured geolocation, and recovers exactly once from an
// authorization failure by renewing the session.
type HTTPDispatcher struct {
	client    *resty.Client
	apiSecret string
	sessions  SessionSource
	geo       geoState

	logger *logger.Logger
}

// NewHTTPDispatcher wires the dispatcher to the shared resty client and the
// session manager.
func NewHTTPDispatcher(client *resty.Client, apiSecret string, sessions SessionSource, log *logger.Logger) *HTTPDispatcher {
	return &HTTPDispatcher{
		client:    client,
		apiSecret: apiSecret,
		sessions:  sessions,
		logger:    log,
	}
}

// SetLocation sets the geolocation attached to all future requests.
func (d *HTTPDispatcher) SetLocation(loc Geolocation) {
	d.geo.set(&loc)
}

// SetDistance changes the search radius of the current location. It has no
// effect while no location is set, since a radius is only transmitted
// together with one.
func (d *HTTPDispatcher) SetDistance(meters int) {
	d.geo.setDistance(meters)
}

// ClearLocation removes the geolocation; no location parameters are sent
// afterwards.
func (d *HTTPDispatcher) ClearLocation() {
	d.geo.set(nil)
}

// Send implements [Dispatcher].
func (d *HTTPDispatcher) Send(ctx context.Context, req Request) (*Response, error) {
	sess, err := d.sessions.EnsureActiveSession(ctx)
	if err != nil {
		return nil, err
	}

	// Fail fast before the round trip when the session cannot perform the
	// action anyway.
	if req.Permission != "" && !sess.Allows(req.Permission) {
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, req.Permission)
	}

	resp, err := d.do(ctx, sess, req)
	if err == nil || !errors.Is(err, ErrUnauthorized) {
		return resp, err
	}

	d.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Msg("authorization failure, renewing session and retrying once")

	renewed, renewErr := d.sessions.ForceRenew(ctx)
	if renewErr != nil {
		return nil, fmt.Errorf("renew session after authorization failure: %w", renewErr)
	}

	resp, err = d.do(ctx, renewed, req)
	if err != nil && errors.Is(err, ErrUnauthorized) {
		// A renewed session was rejected too; retrying further cannot help.
		return nil, fmt.Errorf("%w: request rejected with renewed session: %v", session.ErrAuthenticationFailed, err)
	}

	return resp, err
}

func (d *HTTPDispatcher) do(ctx context.Context, sess *models.Session, req Request) (*Response, error) {
	r := d.client.R().
		SetContext(ctx).
		SetHeader("X-Token", sess.Token).
		SetHeader("X-Signature", SignToken(d.apiSecret, sess.Token))

	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if geo := d.geo.queryParams(); len(geo) > 0 {
		r.SetQueryParamsFromValues(geo)
	}
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}

// SignToken computes the request signature proving possession of the API
// secret without transmitting it: hex SHA-256 over secret+token.
func SignToken(apiSecret, token string) string {
	sum := sha256.Sum256([]byte(apiSecret + token))
	return hex.EncodeToString(sum[:])
}
