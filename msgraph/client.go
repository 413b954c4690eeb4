// Package msgraph wraps the Microsoft identity platform and the few
// Microsoft Graph calls the relay depends on.
package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	apperrors "github.com/auditops/audit-relay/internal/errors"
)

const (
	graphBaseURL = "https://graph.microsoft.com/v1.0"

	// DefaultScope requests the permission set already consented for the
	// application registration.
	DefaultScope = "https://graph.microsoft.com/.default"

	// GraphServicePrincipalAppID is the well-known appId of the Microsoft
	// Graph service principal in every tenant.
	GraphServicePrincipalAppID = "00000003-0000-0000-c000-000000000000"

	providerName = "microsoft"
)

// Profile is the subset of /me the relay consumes.
type Profile struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	UserPrincipalName string `json:"userPrincipalName"`
	Mail              string `json:"mail"`
}

type Client struct {
	oauth      *oauth2.Config
	httpClient *http.Client

	// BaseURL is the Graph API root; overridable for tests and sovereign
	// clouds.
	BaseURL string
}

func New(clientID, clientSecret, tenantID, redirectURI string) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     microsoft.AzureADEndpoint(tenantID),
			RedirectURL:  redirectURI,
			Scopes:       []string{DefaultScope},
		},
		httpClient: &http.Client{Timeout: 15 * time.Second},
		BaseURL:    graphBaseURL,
	}
}

// SetAuthEndpoints overrides the authorization and token URLs
func (c *Client) SetAuthEndpoints(authURL, tokenURL string) {
	c.oauth.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
}

// AuthCodeURL builds the authorization URL for the given opaque state. Pure
// construction, no I/O.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("response_mode", "query"))
}

// Exchange swaps an authorization code for an access token. A non-2xx
// response from the token endpoint surfaces as a TokenExchangeError carrying
// the provider's error body.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", &apperrors.TokenExchangeError{
				Provider:   providerName,
				StatusCode: retrieveErr.Response.StatusCode,
				Body:       string(retrieveErr.Body),
			}
		}
		return "", apperrors.Wrapf(err, "microsoft token exchange")
	}
	return token.AccessToken, nil
}

// Me fetches the signed-in user's profile.
func (c *Client) Me(ctx context.Context, accessToken string) (Profile, error) {
	var profile Profile
	if err := c.get(ctx, accessToken, "/me", &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// Organization resolves the tenant id of the signed-in organisation.
func (c *Client) Organization(ctx context.Context, accessToken string) (string, error) {
	var response struct {
		Value []struct {
			ID string `json:"id"`
		} `json:"value"`
	}
	if err := c.get(ctx, accessToken, "/organization", &response); err != nil {
		return "", err
	}
	if len(response.Value) == 0 {
		return "", apperrors.Wrapf(apperrors.ErrResourceNotFound, "organization")
	}
	return response.Value[0].ID, nil
}

func (c *Client) get(ctx context.Context, accessToken, path string, out any) error {
	return c.do(ctx, http.MethodGet, accessToken, path, nil, out)
}

func (c *Client) post(ctx context.Context, accessToken, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, accessToken, path, body, out)
}

func (c *Client) do(ctx context.Context, method, accessToken, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrapf(err, "graph %s %s encode body", method, path)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return apperrors.Wrapf(err, "graph %s %s", method, path)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, "graph %s %s", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrapf(err, "graph %s %s read body", method, path)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &apperrors.UpstreamError{
			Provider:   providerName,
			Operation:  method + " " + path,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}
