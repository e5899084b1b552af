package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nordvik/shopsync/internal/logger"
	"github.com/nordvik/shopsync/models"
)

// flightKey is the single singleflight key shared by EnsureActiveSession and
// ForceRenew. One key keeps at most one session call in flight: a renewal
// joining a running establishment receives the brand-new session, which is
// as fresh as a renewal would produce.
const flightKey = "session"

// Manager owns the current session and serialises its lifecycle:
// NoSession → Pending → Active → (Expired | Active′), where Active′ is any
// successful ordered replacement. Concurrent EnsureActiveSession calls while
// a session is being established collapse into a single creation request.
type Manager struct {
	api   API
	store SnapshotStore // nil when persistence is disabled
	log   *logger.Logger

	group singleflight.Group

	mu      sync.RWMutex
	current *models.Session

	now func() time.Time
}

// NewManager constructs a session manager. store may be nil, in which case
// sessions live purely in memory. If store holds a snapshot from a previous
// run it is restored through the same-or-newer ordering rule.
func NewManager(api API, store SnapshotStore, log *logger.Logger) *Manager {
	m := &Manager{
		api:   api,
		store: store,
		log:   log,
		now:   time.Now,
	}

	if store != nil {
		if persisted, err := store.Load(); err != nil {
			log.Warn().Err(err).Msg("could not restore persisted session")
		} else if persisted != nil {
			m.SetIfSameOrNewerSession(persisted)
		}
	}

	return m
}

// Current returns the current session, which may be nil or expired. It never
// triggers session creation.
func (m *Manager) Current() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// EnsureActiveSession returns the active session, establishing one first if
// none exists or the existing one is expired. Concurrent callers during
// establishment all receive the result of a single creation call.
func (m *Manager) EnsureActiveSession(ctx context.Context) (*models.Session, error) {
	if s := m.activeSession(); s != nil {
		return s, nil
	}

	v, err, _ := m.group.Do(flightKey, func() (any, error) {
		// A racing caller may have finished establishment between our check
		// and joining the flight.
		if s := m.activeSession(); s != nil {
			return s, nil
		}
		return m.establish(ctx)
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.Session), nil
}

// ForceRenew discards the current token's validity and obtains a fresh
// session, collapsing concurrent renewals into one call. The request pipeline
// uses it after the service reports an authorization failure.
func (m *Manager) ForceRenew(ctx context.Context) (*models.Session, error) {
	v, err, _ := m.group.Do(flightKey, func() (any, error) {
		return m.establish(ctx)
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.Session), nil
}

// AttachUser sets the session's identity to the account matching creds,
// establishing a session first when none is active.
func (m *Manager) AttachUser(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	current, err := m.EnsureActiveSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("attach user: %w", err)
	}

	attached, err := m.api.AttachUser(ctx, current, creds)
	if err != nil {
		return nil, fmt.Errorf("attach user: %w", err)
	}

	m.adopt(attached)
	return attached, nil
}

// DetachUser removes the user identity from the session, establishing a
// session first when none is active.
func (m *Manager) DetachUser(ctx context.Context) (*models.Session, error) {
	current, err := m.EnsureActiveSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("detach user: %w", err)
	}

	detached, err := m.api.DetachUser(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("detach user: %w", err)
	}

	m.adopt(detached)
	return detached, nil
}

// SetIfNewerSession replaces the current session with candidate only when
// the candidate carries a strictly greater revision. Returns [ErrStaleSession]
// otherwise.
func (m *Manager) SetIfNewerSession(candidate *models.Session) error {
	return m.replace(candidate, candidate.IsNewerThan)
}

// SetIfSameOrNewerSession replaces the current session with candidate when
// the candidate's revision is greater than or equal to the current one.
// Returns [ErrStaleSession] otherwise.
func (m *Manager) SetIfSameOrNewerSession(candidate *models.Session) error {
	return m.replace(candidate, candidate.IsSameOrNewerThan)
}

func (m *Manager) replace(candidate *models.Session, accepts func(*models.Session) bool) error {
	m.mu.Lock()
	if !accepts(m.current) {
		m.mu.Unlock()
		return ErrStaleSession
	}
	m.current = candidate
	m.mu.Unlock()

	m.persist(candidate)
	return nil
}

// activeSession returns the current session only if it is unexpired.
func (m *Manager) activeSession() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil || m.current.IsExpired(m.now()) {
		return nil
	}
	return m.current
}

// establish obtains a usable session: it renews an existing (possibly
// expired) session when one is held, and creates a fresh one otherwise or
// when renewal is rejected.
func (m *Manager) establish(ctx context.Context) (*models.Session, error) {
	current := m.Current()

	if current != nil {
		renewed, err := m.api.RenewSession(ctx, current)
		if err == nil {
			m.adopt(renewed)
			return renewed, nil
		}
		m.log.Debug().Err(err).Msg("session renewal rejected, creating a fresh session")
	}

	created, err := m.api.CreateSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	m.adopt(created)
	return created, nil
}

// adopt installs a session that arrived from the service. A racing renewal
// may already have produced a newer one; the ordering rule keeps the newest.
func (m *Manager) adopt(s *models.Session) {
	if err := m.SetIfSameOrNewerSession(s); err != nil {
		m.log.Debug().
			Int64("candidate_revision", s.Revision).
			Msg("dropping response session older than current")
	}
}

func (m *Manager) persist(s *models.Session) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(s); err != nil {
		m.log.Warn().Err(err).Msg("could not persist session snapshot")
	}
}
