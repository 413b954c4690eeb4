package clickup

import "encoding/json"

// Upstream shapes carry only the fields the relay consumes; everything else
// in the ClickUp responses is ignored.

type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Space struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TaskStatus struct {
	Status string `json:"status"`
}

// CustomField holds a named task attribute. Value stays raw because upstream
// mixes numbers (processing sentinel) and strings (script bodies).
type CustomField struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value,omitempty"`
}

type Task struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Status       TaskStatus    `json:"status"`
	CustomFields []CustomField `json:"custom_fields"`
}
