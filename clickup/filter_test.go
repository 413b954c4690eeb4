package clickup_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/auditops/audit-relay/clickup"
)

func field(name string, value string) clickup.CustomField {
	return clickup.CustomField{Name: name, Value: json.RawMessage(value)}
}

func TestFilterTasksByField(t *testing.T) {
	pending := clickup.NumberEquals(0)

	t.Run("empty set when no task has the field", func(t *testing.T) {
		tasks := []clickup.Task{
			{ID: "T1", CustomFields: []clickup.CustomField{field("Autre", `5`)}},
			{ID: "T2"},
		}
		require.Empty(t, clickup.FilterTasksByField(tasks, "Traitement", pending))
	})

	t.Run("excludes mismatched values", func(t *testing.T) {
		tasks := []clickup.Task{
			{ID: "T1", CustomFields: []clickup.CustomField{field("Traitement", `0`)}},
			{ID: "T2", CustomFields: []clickup.CustomField{field("Traitement", `1`)}},
			{ID: "T3", CustomFields: []clickup.CustomField{field("Traitement", `"0"`)}},
		}
		filtered := clickup.FilterTasksByField(tasks, "Traitement", pending)
		require.Len(t, filtered, 1)
		require.Equal(t, "T1", filtered[0].ID)
	})

	t.Run("field name matching is normalized", func(t *testing.T) {
		tasks := []clickup.Task{
			{ID: "T1", CustomFields: []clickup.CustomField{field("traitement", `0`)}},
		}
		require.Len(t, clickup.FilterTasksByField(tasks, "Traitement", pending), 1)
	})

	t.Run("field without value is excluded", func(t *testing.T) {
		tasks := []clickup.Task{
			{ID: "T1", CustomFields: []clickup.CustomField{{Name: "Traitement"}}},
		}
		require.Empty(t, clickup.FilterTasksByField(tasks, "Traitement", pending))
	})
}

func TestFilterTasksByStatus(t *testing.T) {
	tasks := []clickup.Task{
		{ID: "T1", Status: clickup.TaskStatus{Status: "TO DO"}},
		{ID: "T2", Status: clickup.TaskStatus{Status: "DONE"}},
		{ID: "T3", Status: clickup.TaskStatus{Status: "to do"}},
	}

	t.Run("case-insensitive equality", func(t *testing.T) {
		filtered := clickup.FilterTasksByStatus(tasks, "TO DO")
		require.Len(t, filtered, 2)
		require.Equal(t, "T1", filtered[0].ID)
		require.Equal(t, "T3", filtered[1].ID)
	})

	t.Run("no match", func(t *testing.T) {
		require.Empty(t, clickup.FilterTasksByStatus(tasks, "IN PROGRESS"))
	})
}

func TestScriptField(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		task := clickup.Task{CustomFields: []clickup.CustomField{field("Audit", `"script-A"`)}}
		script, ok := clickup.ScriptField(task, "Audit")
		require.True(t, ok)
		require.Equal(t, "script-A", script)
	})

	t.Run("absent field", func(t *testing.T) {
		task := clickup.Task{CustomFields: []clickup.CustomField{field("Autre", `"x"`)}}
		_, ok := clickup.ScriptField(task, "Audit")
		require.False(t, ok)
	})

	t.Run("empty value", func(t *testing.T) {
		task := clickup.Task{CustomFields: []clickup.CustomField{field("Audit", `""`)}}
		_, ok := clickup.ScriptField(task, "Audit")
		require.False(t, ok)
	})

	t.Run("non-string value", func(t *testing.T) {
		task := clickup.Task{CustomFields: []clickup.CustomField{field("Audit", `42`)}}
		_, ok := clickup.ScriptField(task, "Audit")
		require.False(t, ok)
	})
}
