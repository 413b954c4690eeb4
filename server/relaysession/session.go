package relaysession

import "time"

// Session accumulates state across the two OAuth flows for one user journey.
// Fields progress forward only: a step never clears or overwrites what an
// earlier step set.
type Session struct {
	// Microsoft leg
	MicrosoftAccessToken string
	TenantID             string
	UserID               string
	UserName             string
	UserPrincipalName    string

	// ClickUp leg
	ClickUpAccessToken string
	TeamID             string

	// Interactive selections, made in order: space, then list, then status
	SelectedSpaceID   string
	SelectedSpaceName string
	SelectedListID    string
	SelectedListName  string
	TargetStatus      string

	// Dispatch bookkeeping
	Dispatched bool

	CreatedAt time.Time
	ExpiresAt time.Time
}

// SetClickUpToken records the tracker token. A second call is ignored so a
// replayed callback cannot overwrite the credential.
func (s *Session) SetClickUpToken(token string) {
	if s.ClickUpAccessToken != "" {
		return
	}
	s.ClickUpAccessToken = token
}

// SetTeam records the resolved workspace, once.
func (s *Session) SetTeam(id string) {
	if s.TeamID != "" {
		return
	}
	s.TeamID = id
}

// SetSpace records the chosen space, once.
func (s *Session) SetSpace(id, name string) {
	if s.SelectedSpaceID != "" {
		return
	}
	s.SelectedSpaceID = id
	s.SelectedSpaceName = name
}

// SetList records the chosen list, once. Ignored until a space is chosen.
func (s *Session) SetList(id, name string) {
	if s.SelectedSpaceID == "" || s.SelectedListID != "" {
		return
	}
	s.SelectedListID = id
	s.SelectedListName = name
}

// SetStatus records the target status, once. Ignored until a list is chosen.
func (s *Session) SetStatus(status string) {
	if s.SelectedListID == "" || s.TargetStatus != "" {
		return
	}
	s.TargetStatus = status
}
