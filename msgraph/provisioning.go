package msgraph

import (
	"context"
	"fmt"
	"net/url"

	apperrors "github.com/auditops/audit-relay/internal/errors"
)

// DefaultGrantScopes is the permission set requested for a provisioned audit
// application.
var DefaultGrantScopes = []string{
	"User.Read", "Directory.Read.All", "User.Read.All", "Group.Read.All",
	"Sites.Read.All", "Team.ReadBasic.All", "TeamSettings.Read.All", "Channel.ReadBasic.All",
	"SecurityEvents.Read.All", "DeviceManagementManagedDevices.Read.All", "DeviceManagementConfiguration.Read.All",
	"Reports.Read.All", "ChannelMessage.Read.All", "Sites.FullControl.All", "Sites.Manage.All",
	"Sites.ReadWrite.All", "SecurityEvents.ReadWrite.All", "DeviceManagementApps.Read.All",
	"DeviceManagementConfiguration.ReadWrite.All", "Policy.Read.All", "Policy.ReadWrite.ConditionalAccess",
	"SecurityActions.Read.All",
}

// ResourceAccess references a service principal's published scope by id.
type ResourceAccess struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Application identifies a provisioned Graph application.
type Application struct {
	AppID    string `json:"appId"`
	ObjectID string `json:"id"`
}

type permissionScope struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// MatchScopes resolves each requested scope name to the matching published
// scope of the given service principal. Matching is exact on the scope's
// value and all-or-nothing: the first missing name fails the whole call with
// ErrScopeNotFound naming it.
func (c *Client) MatchScopes(ctx context.Context, accessToken, appID string, names []string) ([]ResourceAccess, error) {
	var response struct {
		Value []struct {
			OAuth2PermissionScopes []permissionScope `json:"oauth2PermissionScopes"`
		} `json:"value"`
	}

	filter := url.QueryEscape(fmt.Sprintf("appId eq '%s'", appID))
	if err := c.get(ctx, accessToken, "/servicePrincipals?$filter="+filter, &response); err != nil {
		return nil, err
	}
	if len(response.Value) == 0 {
		return nil, apperrors.Wrapf(apperrors.ErrResourceNotFound, "service principal %s", appID)
	}

	available := response.Value[0].OAuth2PermissionScopes
	matched := make([]ResourceAccess, 0, len(names))
	for _, name := range names {
		var found *permissionScope
		for i := range available {
			if available[i].Value == name {
				found = &available[i]
				break
			}
		}
		if found == nil {
			return nil, apperrors.Wrapf(apperrors.ErrScopeNotFound, "%s", name)
		}
		matched = append(matched, ResourceAccess{ID: found.ID, Type: "Scope"})
	}
	return matched, nil
}

// CreateApplication registers a new application with the given required
// resource access against the Graph service principal.
func (c *Client) CreateApplication(ctx context.Context, accessToken, displayName string, access []ResourceAccess) (Application, error) {
	body := map[string]any{
		"displayName":    displayName,
		"signInAudience": "AzureADMyOrg",
		"requiredResourceAccess": []map[string]any{{
			"resourceAppId":  GraphServicePrincipalAppID,
			"resourceAccess": access,
		}},
	}

	var app Application
	if err := c.post(ctx, accessToken, "/applications", body, &app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// AddClientSecret attaches a password credential to the application and
// returns the generated secret text. If this fails after CreateApplication
// succeeded, the orphaned application is not cleaned up.
func (c *Client) AddClientSecret(ctx context.Context, accessToken, objectID, displayName string) (string, error) {
	body := map[string]any{
		"passwordCredential": map[string]any{"displayName": displayName},
	}

	var response struct {
		SecretText string `json:"secretText"`
	}
	if err := c.post(ctx, accessToken, "/applications/"+objectID+"/addPassword", body, &response); err != nil {
		return "", err
	}
	return response.SecretText, nil
}
