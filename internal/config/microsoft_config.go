package config

type MicrosoftConfig interface {
	GetMicrosoftClientID() string
	GetMicrosoftClientSecret() string
	GetMicrosoftTenantID() string
	GetMicrosoftRedirectURI() string
	GetProvisionGraphApp() bool
}

type Microsoft struct{}

var _ MicrosoftConfig = Microsoft{}

func (Microsoft) GetMicrosoftClientID() string {
	return GetEnv("CLIENT_ID", "")
}

func (Microsoft) GetMicrosoftClientSecret() string {
	return GetEnv("CLIENT_SECRET", "")
}

// GetMicrosoftTenantID returns the directory the sign-in starts against.
// "common" lets any organisational account in; the resolved tenant is looked
// up from Graph after the exchange.
func (Microsoft) GetMicrosoftTenantID() string {
	return GetEnv("TENANT_ID", "common")
}

func (m Microsoft) GetMicrosoftRedirectURI() string {
	return GetEnv("REDIRECT_URI", EnvVars{}.GetBaseURL()+"/callback")
}

// GetProvisionGraphApp enables the application-provisioning step during the
// Microsoft callback: a new Graph application with the audit permission set
// is created and given a client secret.
func (Microsoft) GetProvisionGraphApp() bool {
	return GetEnv("PROVISION_GRAPH_APP", "false") == "true"
}
