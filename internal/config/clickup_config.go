package config

type ClickUpConfig interface {
	GetClickUpClientID() string
	GetClickUpClientSecret() string
	GetClickUpRedirectURI() string
	GetClickUpAppsFile() string
}

type ClickUp struct{}

var _ ClickUpConfig = ClickUp{}

// Single-tenant fallback credentials, used when no per-tenant entry exists in
// the apps file.
func (ClickUp) GetClickUpClientID() string {
	return GetEnv("CLICKUP_CLIENT_ID", "")
}

func (ClickUp) GetClickUpClientSecret() string {
	return GetEnv("CLICKUP_CLIENT_SECRET", "")
}

func (c ClickUp) GetClickUpRedirectURI() string {
	return GetEnv("CLICKUP_REDIRECT_URI", EnvVars{}.GetBaseURL()+"/clickup-callback")
}

// GetClickUpAppsFile returns the path of the per-tenant ClickUp credentials
// file: a JSON object keyed by Microsoft tenant id. Read once at startup.
func (ClickUp) GetClickUpAppsFile() string {
	return GetEnv("CLICKUP_APPS_FILE", "clickup_apps.json")
}
