// Package session keeps one set of view-models per connected client.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"naulify_agent/internal/identity"
	"naulify_agent/internal/repository"
	"naulify_agent/internal/viewmodel"
)

// Dependencies are shared by every session. Only the auth repository is
// per-session, because it caches the signed-in principal.
type Dependencies struct {
	Identity repository.IdentityProvider
	Profiles repository.ProfileRepository
	Routes   repository.RouteRepository
}

type Session struct {
	ID        string
	CreatedAt time.Time

	Auth    *viewmodel.AuthViewModel
	Profile *viewmodel.ProfileViewModel
	Route   *viewmodel.RouteViewModel

	authRepo *repository.IdentityAuthRepository
	lastSeen atomic.Int64
}

// Resume names a previously signed-in principal to restore when a session
// opens. The zero value opens signed out.
type Resume struct {
	UserID     string
	Generation int64
}

// Principal is the signed-in principal, or nil when signed out.
func (s *Session) Principal() *identity.Principal { return s.authRepo.GetCurrentUser() }

// UserID is the signed-in principal's id, or "" when signed out.
func (s *Session) UserID() string {
	if p := s.authRepo.GetCurrentUser(); p != nil {
		return p.ID
	}
	return ""
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

func (s *Session) close() {
	s.Auth.Close()
	s.Profile.Close()
	s.Route.Close()
}

// Manager owns live sessions and closes the ones left idle.
type Manager struct {
	deps Dependencies
	idle time.Duration
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(deps Dependencies, idle time.Duration) *Manager {
	return &Manager{
		deps:     deps,
		idle:     idle,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Open starts a session. A non-empty resumeUserID restores that principal
// first; if it cannot be restored the session starts signed out.
func (m *Manager) Open(ctx context.Context, resume Resume) *Session {
	authRepo := repository.NewIdentityAuthRepository(m.deps.Identity)
	if resume.UserID != "" {
		if err := authRepo.Resume(ctx, resume.UserID, resume.Generation); err != nil {
			logrus.WithError(err).WithField("user_id", resume.UserID).Warn("session: resume failed, starting signed out")
		}
	}

	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: m.now(),
		Auth:      viewmodel.NewAuthViewModel(ctx, authRepo),
		Profile:   viewmodel.NewProfileViewModel(ctx, m.deps.Profiles),
		Route:     viewmodel.NewRouteViewModel(ctx, m.deps.Routes),
		authRepo:  authRepo,
	}
	s.touch(s.CreatedAt)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"session_id": s.ID,
		"user_id":    s.UserID(),
	}).Info("session: opened")
	return s
}

// Get returns a live session and marks it as used.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		s.touch(m.now())
	}
	return s, ok
}

// Close cancels the session's in-flight commands and forgets it.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return false
	}
	s.close()
	logrus.WithField("session_id", id).Info("session: closed")
	return true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes sessions unused for longer than the idle timeout and reports
// how many it closed. A zero timeout disables sweeping.
func (m *Manager) Sweep() int {
	if m.idle <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idle)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.close()
		logrus.WithField("session_id", s.ID).Info("session: closed idle session")
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done, then closes all sessions.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.CloseAll()
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range all {
		s.close()
	}
	if len(all) > 0 {
		logrus.WithField("count", len(all)).Info("session: closed all sessions")
	}
}
