package adapter

import "errors"

// Sentinel errors mapped from service responses by mapHTTPError, plus the
// client-side failures produced by the dispatcher itself.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("client unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("rate limited")

	// ErrServerUnavailable covers every 5xx response; the service does not
	// distinguish them in any way a client could act on.
	ErrServerUnavailable = errors.New("service unavailable")

	// ErrPermissionDenied is returned before any round trip when the active
	// session's permission set does not allow the requested action.
	ErrPermissionDenied = errors.New("session lacks permission for action")
)
