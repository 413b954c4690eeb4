package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/auditops/audit-relay/internal/errors"
	"github.com/auditops/audit-relay/msgraph"
	"github.com/auditops/audit-relay/server/authstate"
	"github.com/auditops/audit-relay/server/relaysession"
)

// IndexHandler renders the Microsoft sign-in link that starts a relay flow
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := generateRandomString(16)
		if err := s.authStates.Upsert(state, &authstate.LoginState{CreatedAt: time.Now()}); err != nil {
			renderFailure(w, "Failed to start sign-in", err)
			return
		}

		renderPage(w, http.StatusOK, "signin", map[string]string{
			"AppName": s.config.GetAppName(),
			"AuthURL": s.graph.AuthCodeURL(state),
		})
	}
}

// MicrosoftCallbackHandler completes the Microsoft leg: exchanges the code,
// resolves profile and tenant, optionally provisions a Graph application,
// creates the relay session and redirects to ClickUp with the session id as
// the state parameter.
func (s *Server) MicrosoftCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.FormValue works for both query params and POST form data
		state := r.FormValue("state")
		code := r.FormValue("code")
		errorParam := r.FormValue("error")
		errorDesc := r.FormValue("error_description")

		if errorParam != "" {
			renderFailure(w, "Microsoft authorization failed",
				fmt.Errorf("%s: %s", errorParam, errorDesc))
			return
		}
		if code == "" || state == "" {
			renderFailure(w, "Microsoft callback",
				apperrors.Wrapf(apperrors.ErrMissingParameter, "code or state"))
			return
		}

		if _, err := s.authStates.Get(state); err != nil {
			renderFailure(w, "Microsoft callback",
				apperrors.Wrapf(apperrors.ErrMissingParameter, "unknown state"))
			return
		}
		// State is single use
		if err := s.authStates.Delete(state); err != nil {
			renderFailure(w, "Microsoft callback", err)
			return
		}

		ctx := r.Context()
		msAccessToken, err := s.graph.Exchange(ctx, code)
		if err != nil {
			renderFailure(w, "Microsoft token exchange failed", err)
			return
		}

		profile, err := s.graph.Me(ctx, msAccessToken)
		if err != nil {
			renderFailure(w, "Failed to fetch Microsoft profile", err)
			return
		}

		tenantID, err := s.graph.Organization(ctx, msAccessToken)
		if err != nil {
			renderFailure(w, "Failed to resolve tenant", err)
			return
		}
		log.Info().Str("tenant_id", tenantID).Str("user", profile.UserPrincipalName).Msg("microsoft leg authenticated")

		if s.config.GetProvisionGraphApp() {
			if err := s.provisionGraphApp(ctx, msAccessToken, tenantID); err != nil {
				renderFailure(w, "Graph application provisioning failed", err)
				return
			}
		}

		tenant, err := s.tenantFor(tenantID)
		if err != nil {
			renderFailure(w, "No ClickUp application for tenant", err)
			return
		}

		sessionID, err := s.sessions.Create(relaysession.Session{
			MicrosoftAccessToken: msAccessToken,
			TenantID:             tenantID,
			UserID:               profile.ID,
			UserName:             profile.DisplayName,
			UserPrincipalName:    profile.UserPrincipalName,
		})
		if err != nil {
			renderFailure(w, "Failed to create session", err)
			return
		}

		http.Redirect(w, r, s.clickupFor(tenant).AuthCodeURL(sessionID), http.StatusFound)
	}
}

// provisionGraphApp registers an audit application with the default grant
// scopes and attaches a client secret. There is no rollback: if the secret
// step fails after creation succeeded, the orphaned application stays behind.
func (s *Server) provisionGraphApp(ctx context.Context, accessToken, tenantID string) error {
	access, err := s.graph.MatchScopes(ctx, accessToken, msgraph.GraphServicePrincipalAppID, msgraph.DefaultGrantScopes)
	if err != nil {
		return err
	}

	displayName := fmt.Sprintf("Audit-OAuth-App-%d", time.Now().UnixMilli())
	app, err := s.graph.CreateApplication(ctx, accessToken, displayName, access)
	if err != nil {
		return err
	}

	secret, err := s.graph.AddClientSecret(ctx, accessToken, app.ObjectID, "Auto-Secret")
	if err != nil {
		return err
	}
	log.Info().Str("app_id", app.AppID).Str("object_id", app.ObjectID).Msg("graph application provisioned")

	record, err := json.MarshalIndent(map[string]any{
		"microsoft": map[string]string{
			"appId":        app.AppID,
			"clientId":     app.AppID,
			"clientSecret": secret,
			"tenantId":     tenantID,
		},
	}, "", "  ")
	if err != nil {
		return apperrors.Wrapf(err, "encode provisioned app record")
	}

	folder := s.config.GetDataFolder()
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return apperrors.Wrapf(err, "create data folder")
	}
	path := filepath.Join(folder, "clickup-"+app.AppID+".json")
	if err := os.WriteFile(path, record, 0o600); err != nil {
		return apperrors.Wrapf(err, "save provisioned app record")
	}
	log.Info().Str("path", path).Msg("provisioned app record saved")
	return nil
}
