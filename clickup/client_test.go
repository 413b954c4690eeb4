package clickup_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/auditops/audit-relay/clickup"
	apperrors "github.com/auditops/audit-relay/internal/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*clickup.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := clickup.New("client-id", "client-secret", "http://localhost/clickup-callback")
	c.BaseURL = srv.URL
	c.SetAuthEndpoints(srv.URL+"/authorize", srv.URL+"/oauth/token")
	return c, srv
}

func TestAuthCodeURL(t *testing.T) {
	c := clickup.New("client-id", "client-secret", "http://localhost/clickup-callback")
	u := c.AuthCodeURL("session-123")
	require.Contains(t, u, "https://app.clickup.com/api")
	require.Contains(t, u, "client_id=client-id")
	require.Contains(t, u, "state=session-123")
}

func TestExchange(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"cu-token","token_type":"Bearer"}`))
		})
		c, _ := newTestClient(t, mux)

		token, err := c.Exchange(context.Background(), "the-code")
		require.NoError(t, err)
		require.Equal(t, "cu-token", token)
	})

	t.Run("provider 400 surfaces body", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"err":"Code invalid"}`, http.StatusBadRequest)
		})
		c, _ := newTestClient(t, mux)

		_, err := c.Exchange(context.Background(), "bad-code")
		require.Error(t, err)

		var exchangeErr *apperrors.TokenExchangeError
		require.ErrorAs(t, err, &exchangeErr)
		require.Equal(t, http.StatusBadRequest, exchangeErr.StatusCode)
		require.Contains(t, exchangeErr.Body, "Code invalid")
	})
}

func TestListing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/team", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "cu-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"teams":[{"id":"9001","name":"Acme"}]}`))
	})
	mux.HandleFunc("/team/9001/space", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"spaces":[{"id":"s1","name":"Équipes Technique"}]}`))
	})
	mux.HandleFunc("/space/s1/list", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lists":[{"id":"l1","name":"Audit de sécurité"}]}`))
	})
	mux.HandleFunc("/list/l1/task", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tasks":[{"id":"T1","name":"Check AV","status":{"status":"TO DO"},` +
			`"custom_fields":[{"id":"f1","name":"Audit","value":"script-A"}]}]}`))
	})
	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	teams, err := c.Teams(ctx, "cu-token")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Equal(t, "Acme", teams[0].Name)

	spaces, err := c.Spaces(ctx, "cu-token", teams[0].ID)
	require.NoError(t, err)
	require.Len(t, spaces, 1)

	lists, err := c.Lists(ctx, "cu-token", spaces[0].ID)
	require.NoError(t, err)
	require.Len(t, lists, 1)

	tasks, err := c.Tasks(ctx, "cu-token", lists[0].ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "TO DO", tasks[0].Status.Status)

	script, ok := clickup.ScriptField(tasks[0], "Audit")
	require.True(t, ok)
	require.Equal(t, "script-A", script)
}

func TestListingUpstreamError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/team", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"err":"Token invalid"}`, http.StatusUnauthorized)
	})
	c, _ := newTestClient(t, mux)

	_, err := c.Teams(context.Background(), "bad-token")
	require.Error(t, err)

	var upstreamErr *apperrors.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	require.Equal(t, http.StatusUnauthorized, upstreamErr.StatusCode)
	require.Contains(t, upstreamErr.Body, "Token invalid")
}
