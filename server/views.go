package server

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/auditops/audit-relay/internal/errors"
)

const contentTypeHTML = "text/html; charset=utf-8"

// The relay's pages are deliberately plain; rendering is not the interesting
// part of this service.
const pagesHTML = `
{{define "head"}}<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.}}</title>
<style>body{font-family:sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem}
pre{background:#f5f5f5;padding:1rem;border-radius:8px;overflow-x:auto}
li{margin-bottom:2rem}</style></head><body>{{end}}

{{define "signin"}}{{template "head" "Sign in"}}
<h2>{{.AppName}}</h2>
<p><a href="{{.AuthURL}}">Sign in with Microsoft</a></p>
</body></html>{{end}}

{{define "error"}}{{template "head" "Error"}}
<h2>{{.Title}}</h2>
<pre>{{.Detail}}</pre>
<p><a href="/">Restart</a></p>
</body></html>{{end}}

{{define "expired"}}{{template "head" "Session expired"}}
<h2>Session expired</h2>
<p>Your session is no longer valid. <a href="/">Restart the flow</a> to continue.</p>
</body></html>{{end}}

{{define "spaces"}}{{template "head" "Choose a space"}}
<h2>Choose a space</h2>
<form method="post" action="/select-list">
<input type="hidden" name="session_id" value="{{.SessionID}}">
{{range .Spaces}}<p><label><input type="radio" name="space_id" value="{{.ID}}" required> {{.Name}}</label></p>{{end}}
<button type="submit">Continue</button>
</form>
</body></html>{{end}}

{{define "lists"}}{{template "head" "Choose a list"}}
<h2>Choose a list in {{.SpaceName}}</h2>
<form method="post" action="/select-status">
<input type="hidden" name="session_id" value="{{.SessionID}}">
{{range .Lists}}<p><label><input type="radio" name="list_id" value="{{.ID}}" required> {{.Name}}</label></p>{{end}}
<button type="submit">Continue</button>
</form>
</body></html>{{end}}

{{define "statuses"}}{{template "head" "Choose a status"}}
<h2>Choose the status to process in {{.ListName}}</h2>
<form method="post" action="/process-tasks">
<input type="hidden" name="session_id" value="{{.SessionID}}">
{{range .Statuses}}<p><label><input type="radio" name="status" value="{{.}}" required> {{.}}</label></p>{{end}}
<button type="submit">Process tasks</button>
</form>
</body></html>{{end}}

{{define "summary"}}{{template "head" "Audit dispatched"}}
<h2>Audit dispatched ({{.Count}} scripts)</h2>
<ul style="list-style:none;padding-left:0">
{{range .Results}}<li><strong>{{.TaskName}}</strong><pre><code>{{.Script}}</code></pre></li>{{end}}
</ul>
{{if .WebhookResponse}}<details><summary>Webhook response</summary><pre>{{.WebhookResponse}}</pre></details>{{end}}
</body></html>{{end}}

{{define "processed"}}{{template "head" "Already processed"}}
<h2>Already processed</h2>
<p>The audit for this session was already dispatched. Nothing was re-sent.</p>
<p><a href="/">Start a new session</a></p>
</body></html>{{end}}
`

var pageTemplates = template.Must(template.New("pages").Parse(pagesHTML))

func renderPage(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		log.Err(err).Str("page", name).Msg("failed to render page")
	}
}

// renderFailure maps an error to its diagnostic page. The process keeps
// serving; nothing here is fatal.
func renderFailure(w http.ResponseWriter, title string, err error) {
	if apperrors.Is(err, apperrors.ErrSessionNotFound) || apperrors.Is(err, apperrors.ErrSessionExpired) {
		renderPage(w, http.StatusGone, "expired", nil)
		return
	}

	status := http.StatusInternalServerError
	if apperrors.Is(err, apperrors.ErrMissingParameter) {
		status = http.StatusBadRequest
	}
	renderPage(w, status, "error", map[string]string{
		"Title":  title,
		"Detail": err.Error(),
	})
}
