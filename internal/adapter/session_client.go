package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/nordvik/shopsync/internal/logger"
	"github.com/nordvik/shopsync/models"
)

// SessionClient implements the session lifecycle calls (session.API) with
// raw HTTP requests. It sits below the dispatcher: these calls must not wait
// for an active session, they are how one comes to exist.
type SessionClient struct {
	client    *resty.Client
	apiKey    string
	apiSecret string

	logger *logger.Logger
}

// NewSessionClient constructs a [SessionClient] sharing the dispatcher's
// resty client.
func NewSessionClient(client *resty.Client, apiKey, apiSecret string, log *logger.Logger) *SessionClient {
	return &SessionClient{
		client:    client,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		logger:    log,
	}
}

// CreateSession opens a fresh anonymous session with the application's API
// key via POST /v2/sessions.
func (c *SessionClient) CreateSession(ctx context.Context) (*models.Session, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"api_key": c.apiKey}).
		Post("/v2/sessions")
	if err != nil {
		return nil, fmt.Errorf("create session request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return decodeSession(resp.Body())
}

// RenewSession refreshes the token of current via PUT /v2/sessions.
func (c *SessionClient) RenewSession(ctx context.Context, current *models.Session) (*models.Session, error) {
	resp, err := c.authedRequest(ctx, current).Put("/v2/sessions")
	if err != nil {
		return nil, fmt.Errorf("renew session request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return decodeSession(resp.Body())
}

// AttachUser exchanges credentials on the current session via
// PUT /v2/sessions.
func (c *SessionClient) AttachUser(ctx context.Context, current *models.Session, creds models.Credentials) (*models.Session, error) {
	resp, err := c.authedRequest(ctx, current).
		SetBody(creds).
		Put("/v2/sessions")
	if err != nil {
		return nil, fmt.Errorf("attach user request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return decodeSession(resp.Body())
}

// DetachUser removes the user from the current session. The service treats
// an empty email as a detach request.
func (c *SessionClient) DetachUser(ctx context.Context, current *models.Session) (*models.Session, error) {
	resp, err := c.authedRequest(ctx, current).
		SetBody(map[string]string{"email": ""}).
		Put("/v2/sessions")
	if err != nil {
		return nil, fmt.Errorf("detach user request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return decodeSession(resp.Body())
}

func (c *SessionClient) authedRequest(ctx context.Context, sess *models.Session) *resty.Request {
	return c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Token", sess.Token).
		SetHeader("X-Signature", SignToken(c.apiSecret, sess.Token))
}

func decodeSession(body []byte) (*models.Session, error) {
	var sess models.Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}
	if sess.Token == "" {
		return nil, fmt.Errorf("session response carries no token")
	}

	return &sess, nil
}
