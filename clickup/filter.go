package clickup

import (
	"encoding/json"
	"strings"
)

// FieldPredicate decides whether a custom field's raw value selects a task.
type FieldPredicate func(value json.RawMessage) bool

// NumberEquals matches a numeric field value exactly. Non-numeric values
// never match.
func NumberEquals(sentinel float64) FieldPredicate {
	return func(value json.RawMessage) bool {
		var n float64
		if err := json.Unmarshal(value, &n); err != nil {
			return false
		}
		return n == sentinel
	}
}

// FilterTasksByField keeps tasks that carry the named custom field with a
// value satisfying the predicate. Tasks without custom fields, without the
// field, or without a value are excluded.
func FilterTasksByField(tasks []Task, fieldName string, pred FieldPredicate) []Task {
	filtered := make([]Task, 0)
	for _, task := range tasks {
		if len(task.CustomFields) == 0 {
			continue
		}
		field, ok := findField(task, fieldName)
		if !ok || len(field.Value) == 0 {
			continue
		}
		if pred(field.Value) {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

// FilterTasksByStatus keeps tasks whose status equals the target,
// case-insensitively.
func FilterTasksByStatus(tasks []Task, targetStatus string) []Task {
	filtered := make([]Task, 0)
	for _, task := range tasks {
		if strings.EqualFold(task.Status.Status, targetStatus) {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

// ScriptField extracts the named custom field's string value. A missing
// field or empty value reports ok=false; the caller skips the task.
func ScriptField(task Task, fieldName string) (string, bool) {
	field, ok := findField(task, fieldName)
	if !ok || len(field.Value) == 0 {
		return "", false
	}

	var script string
	if err := json.Unmarshal(field.Value, &script); err != nil {
		return "", false
	}
	if script == "" {
		return "", false
	}
	return script, true
}

func findField(task Task, fieldName string) (CustomField, bool) {
	target := Normalize(fieldName)
	for _, field := range task.CustomFields {
		if Normalize(field.Name) == target {
			return field, true
		}
	}
	return CustomField{}, false
}
