package session

import "errors"

var (
	// ErrAuthenticationFailed is returned when the service rejects a
	// session-creation or renewal call. There is nothing to retry at this
	// level; the credentials themselves are not accepted.
	ErrAuthenticationFailed = errors.New("session authentication failed")

	// ErrStaleSession is returned by the ordered-replacement setters when
	// the candidate's revision is too old to replace the current session.
	ErrStaleSession = errors.New("candidate session is stale")
)
