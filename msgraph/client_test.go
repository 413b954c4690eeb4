package msgraph_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/auditops/audit-relay/internal/errors"
	"github.com/auditops/audit-relay/msgraph"
)

func newTestClient(t *testing.T, handler http.Handler) *msgraph.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := msgraph.New("client-id", "client-secret", "tenant-1", "http://localhost/callback")
	c.BaseURL = srv.URL
	c.SetAuthEndpoints(srv.URL+"/authorize", srv.URL+"/token")
	return c
}

func TestAuthCodeURL(t *testing.T) {
	c := msgraph.New("client-id", "client-secret", "tenant-1", "http://localhost/callback")
	u := c.AuthCodeURL("state-abc")

	require.Contains(t, u, "login.microsoftonline.com/tenant-1")
	require.Contains(t, u, "client_id=client-id")
	require.Contains(t, u, "state=state-abc")
	require.Contains(t, u, "response_mode=query")
	require.Contains(t, u, "graph.microsoft.com")
}

func TestExchange_ProviderError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	})
	c := newTestClient(t, mux)

	_, err := c.Exchange(context.Background(), "expired-code")
	require.Error(t, err)

	var exchangeErr *apperrors.TokenExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	require.Equal(t, "microsoft", exchangeErr.Provider)
	require.Contains(t, exchangeErr.Body, "invalid_grant")
}

func TestMe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer ms-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"u1","displayName":"Ada Lovelace","userPrincipalName":"ada@contoso.com"}`))
	})
	c := newTestClient(t, mux)

	profile, err := c.Me(context.Background(), "ms-token")
	require.NoError(t, err)
	require.Equal(t, "u1", profile.ID)
	require.Equal(t, "Ada Lovelace", profile.DisplayName)
}

func TestOrganization(t *testing.T) {
	t.Run("resolves first organization", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/organization", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"value":[{"id":"tenant-42"}]}`))
		})
		c := newTestClient(t, mux)

		tenantID, err := c.Organization(context.Background(), "ms-token")
		require.NoError(t, err)
		require.Equal(t, "tenant-42", tenantID)
	})

	t.Run("empty value", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/organization", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"value":[]}`))
		})
		c := newTestClient(t, mux)

		_, err := c.Organization(context.Background(), "ms-token")
		require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("non-2xx surfaces body", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/organization", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"code":"InvalidAuthenticationToken"}}`, http.StatusUnauthorized)
		})
		c := newTestClient(t, mux)

		_, err := c.Organization(context.Background(), "bad-token")
		var upstreamErr *apperrors.UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		require.Equal(t, http.StatusUnauthorized, upstreamErr.StatusCode)
		require.Contains(t, upstreamErr.Body, "InvalidAuthenticationToken")
	})
}
