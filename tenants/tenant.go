package tenants

// Tenant maps a Microsoft tenant (organisation) to the ClickUp OAuth
// application registered for it. Loaded read-only at startup from the
// clickup_apps file.
type Tenant struct {
	ID                  string `json:"-"`
	ClickUpClientID     string `json:"client_id"`
	ClickUpClientSecret string `json:"client_secret"`
	ClickUpRedirectURI  string `json:"redirect_uri"`
}
