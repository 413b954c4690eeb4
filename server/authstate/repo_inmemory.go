package authstate

import (
	"errors"
	"sync"
	"time"

	apperrors "github.com/auditops/audit-relay/internal/errors"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu     sync.RWMutex
	states map[string]*LoginState
	maxAge time.Duration
}

// NewInMemoryRepo creates a new in-memory login state repository. States
// older than maxAge behave as not found.
func NewInMemoryRepo(maxAge time.Duration) *InMemoryRepo {
	return &InMemoryRepo{
		states: make(map[string]*LoginState),
		maxAge: maxAge,
	}
}

// Upsert stores or updates a login state
func (r *InMemoryRepo) Upsert(state string, loginState *LoginState) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if loginState == nil {
		return errors.New("loginState cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[state] = &LoginState{CreatedAt: loginState.CreatedAt}
	return nil
}

// Get retrieves a login state by state parameter
func (r *InMemoryRepo) Get(state string) (*LoginState, error) {
	if state == "" {
		return nil, apperrors.ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	loginState, exists := r.states[state]
	if !exists {
		return nil, apperrors.ErrNotFound
	}
	if r.maxAge > 0 && time.Since(loginState.CreatedAt) > r.maxAge {
		return nil, apperrors.ErrNotFound
	}

	return &LoginState{CreatedAt: loginState.CreatedAt}, nil
}

// Delete removes a login state
func (r *InMemoryRepo) Delete(state string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.states, state)
	return nil
}
