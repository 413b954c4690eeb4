package relaysession

// Repo stores relay sessions keyed by an unguessable id. Implementations must
// be safe for concurrent sessions; steps within one session arrive
// sequentially but must never observe a torn update.
type Repo interface {
	// Create stores the session and returns its generated id.
	Create(session Session) (string, error)
	Get(sessionID string) (Session, error)
	// Update applies the mutator under the store's lock and returns the
	// resulting session.
	Update(sessionID string, apply func(*Session)) (Session, error)
	Delete(sessionID string) error
	// MarkDispatched flips the dispatched flag exactly once; a second call
	// fails with ErrAlreadyDispatched.
	MarkDispatched(sessionID string) error
}
