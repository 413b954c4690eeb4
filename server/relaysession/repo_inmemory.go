package relaysession

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	apperrors "github.com/auditops/audit-relay/internal/errors"
)

const sessionIDBytes = 32

// InMemoryRepo is a thread-safe in-memory implementation of the Repo
// interface. Sessions expire after the configured TTL; a background sweep
// evicts abandoned ones.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewInMemoryRepo creates a new in-memory session repository. A sweep
// goroutine runs every sweepInterval until Close is called; pass zero to
// disable the sweep (expired sessions are still rejected on access).
func NewInMemoryRepo(ttl, sweepInterval time.Duration) *InMemoryRepo {
	r := &InMemoryRepo{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	if sweepInterval > 0 {
		go r.sweep(sweepInterval)
	}
	return r
}

// Close stops the eviction sweep
func (r *InMemoryRepo) Close() {
	r.stopOnce.Do(func() { close(r.done) })
}

// Create stores the session under a fresh random id
func (r *InMemoryRepo) Create(session Session) (string, error) {
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.ExpiresAt = now.Add(r.ttl)

	sessionID := generateSessionID()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID] = &session
	return sessionID, nil
}

// Get retrieves a session by id
func (r *InMemoryRepo) Get(sessionID string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, err := r.lookup(sessionID)
	if err != nil {
		return Session{}, err
	}
	return *session, nil
}

// Update applies the mutator under the write lock
func (r *InMemoryRepo) Update(sessionID string, apply func(*Session)) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.lookup(sessionID)
	if err != nil {
		return Session{}, err
	}
	apply(session)
	return *session, nil
}

// Delete removes a session
func (r *InMemoryRepo) Delete(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

// MarkDispatched records that the webhook fired for this session
func (r *InMemoryRepo) MarkDispatched(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.lookup(sessionID)
	if err != nil {
		return err
	}
	if session.Dispatched {
		return apperrors.ErrAlreadyDispatched
	}
	session.Dispatched = true
	return nil
}

// lookup must be called with at least the read lock held
func (r *InMemoryRepo) lookup(sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, apperrors.ErrSessionNotFound
	}
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, apperrors.ErrSessionExpired
	}
	return session, nil
}

func (r *InMemoryRepo) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			now := time.Now()
			r.mu.Lock()
			for id, session := range r.sessions {
				if now.After(session.ExpiresAt) {
					delete(r.sessions, id)
				}
			}
			r.mu.Unlock()
		}
	}
}

// generateSessionID creates a random base64url session key
func generateSessionID() string {
	b := make([]byte, sessionIDBytes)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
