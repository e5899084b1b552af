// Package adapter implements the SDK's request pipeline against the catalog
// service: the [Dispatcher] sends single logical requests (establishing a
// session first, signing the request, and recovering exactly once from an
// authorization failure), and the [CacheGateway] layers the cache-then-network
// pattern on top for read endpoints.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrNotFound] for 404, [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/dispatcher_mock.go -package=mock

// Request is a single logical request to the catalog service.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE).
	Method string

	// Path is the endpoint path, e.g. "/v2/catalogs".
	Path string

	// Query holds endpoint parameters. Session token, signature and
	// geolocation parameters are attached by the dispatcher.
	Query url.Values

	// Body is JSON-encoded as the request body when non-nil.
	Body any

	// Permission names the session permission required for this request.
	// When non-empty the dispatcher fails fast with [ErrPermissionDenied]
	// before any round trip if the active session lacks it.
	Permission string
}

// Response is the decoded-agnostic response of a dispatched request.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the JSON response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// Dispatcher sends a single logical request to the catalog service. Requests
// never bypass session establishment; an authorization failure is recovered
// exactly once by renewing the session and resubmitting.
type Dispatcher interface {
	Send(ctx context.Context, req Request) (*Response, error)
}
