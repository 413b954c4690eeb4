package clickup_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/auditops/audit-relay/clickup"
	apperrors "github.com/auditops/audit-relay/internal/errors"
)

func TestNormalize(t *testing.T) {
	t.Run("strips diacritics, case and whitespace", func(t *testing.T) {
		require.Equal(t, "equipestechnique", clickup.Normalize("Équipes Technique"))
		require.Equal(t, "equipestechnique", clickup.Normalize("equipes   technique"))
		require.Equal(t, "auditdesecurite", clickup.Normalize("Audit de sécurité"))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := clickup.Normalize("Équipes Technique")
		require.Equal(t, once, clickup.Normalize(once))
	})

	t.Run("empty string", func(t *testing.T) {
		require.Equal(t, "", clickup.Normalize(""))
	})
}

func TestFindSpace(t *testing.T) {
	spaces := []clickup.Space{
		{ID: "s1", Name: "Marketing"},
		{ID: "s2", Name: "equipes   technique"},
		{ID: "s3", Name: "Equipes Technique"},
	}

	t.Run("first normalized match wins", func(t *testing.T) {
		space, err := clickup.FindSpace(spaces, "Équipes Technique")
		require.NoError(t, err)
		require.Equal(t, "s2", space.ID)
	})

	t.Run("not found names the target", func(t *testing.T) {
		_, err := clickup.FindSpace(spaces, "Finance")
		require.Error(t, err)
		require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
		require.Contains(t, err.Error(), "Finance")
	})
}

func TestFindList(t *testing.T) {
	lists := []clickup.List{
		{ID: "l1", Name: "Backlog"},
		{ID: "l2", Name: "Audit de sécurité"},
	}

	t.Run("diacritic-insensitive match", func(t *testing.T) {
		list, err := clickup.FindList(lists, "audit de securite")
		require.NoError(t, err)
		require.Equal(t, "l2", list.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := clickup.FindList(lists, "Sprint 9")
		require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}
