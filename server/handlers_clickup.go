package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/auditops/audit-relay/clickup"
	"github.com/auditops/audit-relay/internal/config"
	apperrors "github.com/auditops/audit-relay/internal/errors"
	"github.com/auditops/audit-relay/server/relaysession"
	"github.com/auditops/audit-relay/webhook"
)

// scriptResult is one extracted script, for the summary page.
type scriptResult struct {
	TaskID   string
	TaskName string
	Script   string
}

// ClickUpCallbackHandler completes the ClickUp leg. The state parameter is
// the relay session id; an unknown or expired id renders the expired page
// before any upstream call is attempted.
func (s *Server) ClickUpCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.FormValue("code")
		state := r.FormValue("state")
		if code == "" || state == "" {
			renderFailure(w, "ClickUp callback",
				apperrors.Wrapf(apperrors.ErrMissingParameter, "code or state"))
			return
		}

		sess, err := s.sessions.Get(state)
		if err != nil {
			renderFailure(w, "ClickUp callback", err)
			return
		}

		tenant, err := s.tenantFor(sess.TenantID)
		if err != nil {
			renderFailure(w, "ClickUp callback", err)
			return
		}
		cu := s.clickupFor(tenant)

		ctx := r.Context()
		clickupToken, err := cu.Exchange(ctx, code)
		if err != nil {
			renderFailure(w, "ClickUp token exchange failed", err)
			return
		}

		sess, err = s.sessions.Update(state, func(rs *relaysession.Session) {
			rs.SetClickUpToken(clickupToken)
		})
		if err != nil {
			renderFailure(w, "ClickUp callback", err)
			return
		}
		log.Info().Str("tenant_id", sess.TenantID).Msg("clickup leg authenticated")

		teams, err := cu.Teams(ctx, sess.ClickUpAccessToken)
		if err != nil {
			renderFailure(w, "Failed to list ClickUp workspaces", err)
			return
		}
		if len(teams) == 0 {
			renderFailure(w, "Failed to list ClickUp workspaces",
				apperrors.Wrapf(apperrors.ErrResourceNotFound, "team"))
			return
		}
		sess, err = s.sessions.Update(state, func(rs *relaysession.Session) {
			rs.SetTeam(teams[0].ID)
		})
		if err != nil {
			renderFailure(w, "ClickUp callback", err)
			return
		}

		spaces, err := cu.Spaces(ctx, sess.ClickUpAccessToken, sess.TeamID)
		if err != nil {
			renderFailure(w, "Failed to list spaces", err)
			return
		}

		if s.config.GetFlowMode() == config.FlowAuto {
			s.runAutoFlow(w, r, state, sess, cu, spaces)
			return
		}

		renderPage(w, http.StatusOK, "spaces", map[string]any{
			"SessionID": state,
			"Spaces":    spaces,
		})
	}
}

// SelectListHandler records the chosen space and renders its lists
func (s *Server) SelectListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.FormValue("session_id")
		spaceID := r.FormValue("space_id")
		if sessionID == "" || spaceID == "" {
			renderFailure(w, "Space selection",
				apperrors.Wrapf(apperrors.ErrMissingParameter, "session_id or space_id"))
			return
		}

		sess, err := s.requireClickUpSession(sessionID)
		if err != nil {
			renderFailure(w, "Space selection", err)
			return
		}

		tenant, err := s.tenantFor(sess.TenantID)
		if err != nil {
			renderFailure(w, "Space selection", err)
			return
		}
		cu := s.clickupFor(tenant)

		ctx := r.Context()
		spaces, err := cu.Spaces(ctx, sess.ClickUpAccessToken, sess.TeamID)
		if err != nil {
			renderFailure(w, "Failed to list spaces", err)
			return
		}
		space, ok := spaceByID(spaces, spaceID)
		if !ok {
			renderFailure(w, "Space selection",
				apperrors.Wrapf(apperrors.ErrResourceNotFound, "space %q", spaceID))
			return
		}

		sess, err = s.sessions.Update(sessionID, func(rs *relaysession.Session) {
			rs.SetSpace(space.ID, space.Name)
		})
		if err != nil {
			renderFailure(w, "Space selection", err)
			return
		}

		lists, err := cu.Lists(ctx, sess.ClickUpAccessToken, sess.SelectedSpaceID)
		if err != nil {
			renderFailure(w, "Failed to list lists", err)
			return
		}

		renderPage(w, http.StatusOK, "lists", map[string]any{
			"SessionID": sessionID,
			"SpaceName": sess.SelectedSpaceName,
			"Lists":     lists,
		})
	}
}

// SelectStatusHandler records the chosen list and renders the status choice
func (s *Server) SelectStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.FormValue("session_id")
		listID := r.FormValue("list_id")
		if sessionID == "" || listID == "" {
			renderFailure(w, "List selection",
				apperrors.Wrapf(apperrors.ErrMissingParameter, "session_id or list_id"))
			return
		}

		sess, err := s.requireClickUpSession(sessionID)
		if err != nil {
			renderFailure(w, "List selection", err)
			return
		}
		if sess.SelectedSpaceID == "" {
			renderFailure(w, "List selection",
				apperrors.Wrapf(apperrors.ErrMissingParameter, "no space selected yet"))
			return
		}

		tenant, err := s.tenantFor(sess.TenantID)
		if err != nil {
			renderFailure(w, "List selection", err)
			return
		}
		cu := s.clickupFor(tenant)

		lists, err := cu.Lists(r.Context(), sess.ClickUpAccessToken, sess.SelectedSpaceID)
		if err != nil {
			renderFailure(w, "Failed to list lists", err)
			return
		}
		list, ok := listByID(lists, listID)
		if !ok {
			renderFailure(w, "List selection",
				apperrors.Wrapf(apperrors.ErrResourceNotFound, "list %q", listID))
			return
		}

		sess, err = s.sessions.Update(sessionID, func(rs *relaysession.Session) {
			rs.SetList(list.ID, list.Name)
		})
		if err != nil {
			renderFailure(w, "List selection", err)
			return
		}

		renderPage(w, http.StatusOK, "statuses", map[string]any{
			"SessionID": sessionID,
			"ListName":  sess.SelectedListName,
			"Statuses":  s.config.GetAllowedStatuses(),
		})
	}
}

// ProcessTasksHandler records the target status, filters the list's tasks and
// dispatches the aggregated payload exactly once. Replaying the form with an
// already-dispatched session renders the processed page without re-sending.
func (s *Server) ProcessTasksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.FormValue("session_id")
		status := r.FormValue("status")
		if sessionID == "" || status == "" {
			renderFailure(w, "Task processing",
				apperrors.Wrapf(apperrors.ErrMissingParameter, "session_id or status"))
			return
		}
		if !s.statusAllowed(status) {
			renderFailure(w, "Task processing",
				apperrors.Wrapf(apperrors.ErrMissingParameter, "unsupported status %q", status))
			return
		}

		sess, err := s.requireClickUpSession(sessionID)
		if err != nil {
			renderFailure(w, "Task processing", err)
			return
		}
		if sess.SelectedListID == "" {
			renderFailure(w, "Task processing",
				apperrors.Wrapf(apperrors.ErrMissingParameter, "no list selected yet"))
			return
		}

		sess, err = s.sessions.Update(sessionID, func(rs *relaysession.Session) {
			rs.SetStatus(status)
		})
		if err != nil {
			renderFailure(w, "Task processing", err)
			return
		}

		tenant, err := s.tenantFor(sess.TenantID)
		if err != nil {
			renderFailure(w, "Task processing", err)
			return
		}
		cu := s.clickupFor(tenant)

		ctx := r.Context()
		tasks, err := cu.Tasks(ctx, sess.ClickUpAccessToken, sess.SelectedListID)
		if err != nil {
			renderFailure(w, "Failed to list tasks", err)
			return
		}
		filtered := clickup.FilterTasksByStatus(tasks, sess.TargetStatus)

		s.dispatchAndRender(w, r, sessionID, sess, filtered)
	}
}

// runAutoFlow resolves the configured space and list, filters by the
// processing sentinel and dispatches without user interaction.
func (s *Server) runAutoFlow(w http.ResponseWriter, r *http.Request, sessionID string, sess relaysession.Session, cu *clickup.Client, spaces []clickup.Space) {
	ctx := r.Context()

	space, err := clickup.FindSpace(spaces, s.config.GetTargetSpaceName())
	if err != nil {
		renderFailure(w, "Space lookup failed", err)
		return
	}

	lists, err := cu.Lists(ctx, sess.ClickUpAccessToken, space.ID)
	if err != nil {
		renderFailure(w, "Failed to list lists", err)
		return
	}
	list, err := clickup.FindList(lists, s.config.GetTargetListName())
	if err != nil {
		renderFailure(w, "List lookup failed", err)
		return
	}

	sess, err = s.sessions.Update(sessionID, func(rs *relaysession.Session) {
		rs.SetSpace(space.ID, space.Name)
		rs.SetList(list.ID, list.Name)
	})
	if err != nil {
		renderFailure(w, "Audit flow", err)
		return
	}

	tasks, err := cu.Tasks(ctx, sess.ClickUpAccessToken, sess.SelectedListID)
	if err != nil {
		renderFailure(w, "Failed to list tasks", err)
		return
	}
	filtered := clickup.FilterTasksByField(tasks, s.config.GetProcessingFieldName(), clickup.NumberEquals(0))
	log.Info().Int("total", len(tasks)).Int("matched", len(filtered)).Msg("tasks filtered")

	s.dispatchAndRender(w, r, sessionID, sess, filtered)
}

// dispatchAndRender marks the session dispatched, sends the single aggregated
// payload and renders the summary. Marking happens before the send so a
// replay can never post the webhook twice; a send failure after marking
// fails the session for good.
func (s *Server) dispatchAndRender(w http.ResponseWriter, r *http.Request, sessionID string, sess relaysession.Session, tasks []clickup.Task) {
	scripts, results := s.collectScripts(tasks)

	if err := s.sessions.MarkDispatched(sessionID); err != nil {
		if apperrors.Is(err, apperrors.ErrAlreadyDispatched) {
			renderPage(w, http.StatusOK, "processed", nil)
			return
		}
		renderFailure(w, "Audit dispatch", err)
		return
	}

	response, err := s.dispatcher.Dispatch(r.Context(), webhook.Payload{
		TenantID:           sess.TenantID,
		UserProfile:        profileMap(sess),
		MSAccessToken:      sess.MicrosoftAccessToken,
		ClickUpAccessToken: sess.ClickUpAccessToken,
		Scripts:            scripts,
	})
	if err != nil {
		renderFailure(w, "Webhook dispatch failed", err)
		return
	}
	log.Info().Int("scripts", len(scripts)).Str("tenant_id", sess.TenantID).Msg("audit payload dispatched")

	renderPage(w, http.StatusOK, "summary", map[string]any{
		"Count":           len(results),
		"Results":         results,
		"WebhookResponse": response,
	})
}

// collectScripts extracts the script field from each task; tasks without a
// script are skipped, not failed.
func (s *Server) collectScripts(tasks []clickup.Task) ([]webhook.Script, []scriptResult) {
	fieldName := s.config.GetScriptFieldName()
	scripts := make([]webhook.Script, 0, len(tasks))
	results := make([]scriptResult, 0, len(tasks))

	for _, task := range tasks {
		script, ok := clickup.ScriptField(task, fieldName)
		if !ok {
			log.Warn().Str("task", task.Name).Msg("no audit script on task, skipping")
			continue
		}
		scripts = append(scripts, webhook.Script{
			VarName: fmt.Sprintf("auditscript%d", len(scripts)+1),
			TaskID:  task.ID,
			Script:  script,
		})
		results = append(results, scriptResult{TaskID: task.ID, TaskName: task.Name, Script: script})
	}
	return scripts, results
}

// requireClickUpSession resolves a session that already completed the ClickUp
// exchange; selection steps cannot run without the tracker token.
func (s *Server) requireClickUpSession(sessionID string) (relaysession.Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return relaysession.Session{}, err
	}
	if sess.ClickUpAccessToken == "" {
		return relaysession.Session{}, apperrors.ErrSessionExpired
	}
	return sess, nil
}

func (s *Server) statusAllowed(status string) bool {
	for _, allowed := range s.config.GetAllowedStatuses() {
		if strings.EqualFold(allowed, status) {
			return true
		}
	}
	return false
}

func profileMap(sess relaysession.Session) map[string]string {
	profile := map[string]string{}
	if sess.UserID != "" {
		profile["id"] = sess.UserID
	}
	if sess.UserName != "" {
		profile["displayName"] = sess.UserName
	}
	if sess.UserPrincipalName != "" {
		profile["userPrincipalName"] = sess.UserPrincipalName
	}
	return profile
}

func spaceByID(spaces []clickup.Space, id string) (clickup.Space, bool) {
	for _, space := range spaces {
		if space.ID == id {
			return space, true
		}
	}
	return clickup.Space{}, false
}

func listByID(lists []clickup.List, id string) (clickup.List, bool) {
	for _, list := range lists {
		if list.ID == id {
			return list, true
		}
	}
	return clickup.List{}, false
}
