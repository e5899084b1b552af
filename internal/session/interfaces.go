// Package session owns the SDK's authentication session. The [Manager] is
// the single writer of the current session: other components never mutate
// session fields directly, they either await EnsureActiveSession or submit
// candidate sessions through the ordered-replacement setters.
package session

import (
	"context"

	"github.com/nordvik/shopsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/session_mock.go -package=mock

// API is the transport surface the manager uses for session lifecycle calls.
// Implementations issue raw requests that do not themselves wait for an
// active session (the manager is below the request pipeline).
type API interface {
	// CreateSession opens a fresh anonymous session with the service using
	// the application's API key.
	CreateSession(ctx context.Context) (*models.Session, error)

	// RenewSession refreshes the token of current. Returns the renewed
	// session with a bumped revision.
	RenewSession(ctx context.Context, current *models.Session) (*models.Session, error)

	// AttachUser exchanges credentials on the current session, attaching the
	// user identity and their permission set.
	AttachUser(ctx context.Context, current *models.Session, creds models.Credentials) (*models.Session, error)

	// DetachUser removes the user from the current session, reverting it to
	// anonymous permissions.
	DetachUser(ctx context.Context, current *models.Session) (*models.Session, error)
}

// SnapshotStore persists the active session between runs, the SDK's
// user-defaults equivalent.
type SnapshotStore interface {
	// Load returns the persisted session, or (nil, nil) when none is stored.
	Load() (*models.Session, error)

	// Save replaces the persisted session snapshot.
	Save(s *models.Session) error

	// Clear removes the persisted snapshot.
	Clear() error
}
