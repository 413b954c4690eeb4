package authstate

import "time"

// LoginState correlates a Microsoft callback with the sign-in link that
// started it. The state value itself is the key; nothing sensitive is kept
// here.
type LoginState struct {
	CreatedAt time.Time
}

type Repo interface {
	Upsert(state string, loginState *LoginState) error
	Get(state string) (*LoginState, error)
	Delete(state string) error
}
