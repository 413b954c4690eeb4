package tenants_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/auditops/audit-relay/internal/errors"
	"github.com/auditops/audit-relay/tenants"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clickup_apps.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"tenant-1": {"client_id":"cu-1","client_secret":"s-1","redirect_uri":"https://relay.example.com/clickup-callback"},
		"tenant-2": {"client_id":"cu-2","client_secret":"s-2","redirect_uri":"https://relay.example.com/clickup-callback"}
	}`), 0o600))

	repo, err := tenants.LoadFile(path)
	require.NoError(t, err)

	t.Run("get by tenant id", func(t *testing.T) {
		tenant, err := repo.Get("tenant-1")
		require.NoError(t, err)
		require.Equal(t, "tenant-1", tenant.ID)
		require.Equal(t, "cu-1", tenant.ClickUpClientID)
		require.Equal(t, "s-1", tenant.ClickUpClientSecret)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		_, err := repo.Get("tenant-9")
		require.ErrorIs(t, err, apperrors.ErrTenantNotFound)
	})

	t.Run("list is ordered", func(t *testing.T) {
		all, err := repo.List()
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, "tenant-1", all[0].ID)
		require.Equal(t, "tenant-2", all[1].ID)
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`not json`), 0o600))
		_, err := tenants.LoadFile(bad)
		require.Error(t, err)
	})
}

func TestInMemoryRepo_Upsert(t *testing.T) {
	repo := tenants.NewInMemoryRepo()

	require.Error(t, repo.Upsert(&tenants.Tenant{}), "id is required")

	require.NoError(t, repo.Upsert(&tenants.Tenant{ID: "tenant-1", ClickUpClientID: "cu-1"}))
	tenant, err := repo.Get("tenant-1")
	require.NoError(t, err)

	// Mutating the returned copy must not affect the stored entry
	tenant.ClickUpClientID = "mutated"
	again, err := repo.Get("tenant-1")
	require.NoError(t, err)
	require.Equal(t, "cu-1", again.ClickUpClientID)
}
