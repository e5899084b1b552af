package models

import "time"

// SessionUser identifies the account attached to a session. A session without
// a user is a valid anonymous session.
type SessionUser struct {
	// ID is the server-side user identifier.
	ID string `json:"id"`

	// Email is the login identifier used during attach.
	Email string `json:"email"`

	// Name is the display name reported by the server, if any.
	Name string `json:"name,omitempty"`
}

// Session is the server-issued authentication context carried by every
// request. At most one Session is authoritative at a time; replacement is
// ordered by Revision so a stale response can never clobber a session that a
// racing request has since renewed.
type Session struct {
	// Token is the opaque session token issued by the server.
	Token string `json:"token"`

	// Expires is the instant after which the token is no longer accepted.
	Expires time.Time `json:"expires"`

	// User is the attached account, or nil for an anonymous session.
	User *SessionUser `json:"user,omitempty"`

	// Permissions maps an action name (e.g. "api.shoppinglists.update") to
	// whether the session is allowed to perform it.
	Permissions map[string]bool `json:"permissions"`

	// Revision is a counter bumped by the server on every session mutation
	// (creation, renewal, user attach/detach). Replacement of the current
	// session is only accepted from candidates with a sufficient revision.
	Revision int64 `json:"revision"`
}

// Permission names understood by the catalog service. The dispatcher checks
// these before sending a mutating request.
const (
	PermissionListRead   = "api.shoppinglists.read"
	PermissionListUpdate = "api.shoppinglists.update"
	PermissionListDelete = "api.shoppinglists.delete"
)

// IsExpired reports whether the session token has passed its expiry at
// instant now.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.Expires.After(now)
}

// Allows reports whether the session's permission set grants the named
// action. A nil permission set grants nothing.
func (s *Session) Allows(permission string) bool {
	if s == nil {
		return false
	}
	return s.Permissions[permission]
}

// IsNewerThan reports whether s carries a strictly greater revision than
// other. A nil other is always older.
func (s *Session) IsNewerThan(other *Session) bool {
	if other == nil {
		return true
	}
	return s.Revision > other.Revision
}

// IsSameOrNewerThan reports whether s carries a revision greater than or
// equal to other's.
func (s *Session) IsSameOrNewerThan(other *Session) bool {
	if other == nil {
		return true
	}
	return s.Revision >= other.Revision
}

// Credentials is the payload exchanged when attaching a user to a session.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
