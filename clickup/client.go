// Package clickup is a minimal ClickUp API v2 client covering the OAuth
// exchange and the team → space → list → task listing the relay walks.
package clickup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	apperrors "github.com/auditops/audit-relay/internal/errors"
)

const (
	authURL    = "https://app.clickup.com/api"
	apiBaseURL = "https://api.clickup.com/api/v2"

	providerName = "clickup"
)

type Client struct {
	oauth      *oauth2.Config
	httpClient *http.Client

	// BaseURL is the API root; overridable for tests.
	BaseURL string
}

func New(clientID, clientSecret, redirectURI string) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: apiBaseURL + "/oauth/token",
			},
			RedirectURL: redirectURI,
		},
		httpClient: &http.Client{Timeout: 15 * time.Second},
		BaseURL:    apiBaseURL,
	}
}

// SetAuthEndpoints overrides the authorization and token URLs
func (c *Client) SetAuthEndpoints(authorizeURL, tokenURL string) {
	c.oauth.Endpoint = oauth2.Endpoint{AuthURL: authorizeURL, TokenURL: tokenURL}
}

// AuthCodeURL builds the ClickUp authorization URL carrying the opaque state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange swaps an authorization code for an access token. Non-2xx surfaces
// as a TokenExchangeError carrying the provider's error body.
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
		return "", apperrors.Wrapf(err, "clickup token exchange")
	}
	return token.AccessToken, nil
}

// Teams lists the workspaces visible to the token.
func (c *Client) Teams(ctx context.Context, accessToken string) ([]Team, error) {
	var response struct {
		Teams []Team `json:"teams"`
	}
	if err := c.get(ctx, accessToken, "/team", &response); err != nil {
		return nil, err
	}
	return response.Teams, nil
}

func (c *Client) Spaces(ctx context.Context, accessToken, teamID string) ([]Space, error) {
	var response struct {
		Spaces []Space `json:"spaces"`
	}
	if err := c.get(ctx, accessToken, "/team/"+teamID+"/space", &response); err != nil {
		return nil, err
	}
	return response.Spaces, nil
}

func (c *Client) Lists(ctx context.Context, accessToken, spaceID string) ([]List, error) {
	var response struct {
		Lists []List `json:"lists"`
	}
	if err := c.get(ctx, accessToken, "/space/"+spaceID+"/list", &response); err != nil {
		return nil, err
	}
	return response.Lists, nil
}

func (c *Client) Tasks(ctx context.Context, accessToken, listID string) ([]Task, error) {
	var response struct {
		Tasks []Task `json:"tasks"`
	}
	if err := c.get(ctx, accessToken, "/list/"+listID+"/task", &response); err != nil {
		return nil, err
	}
	return response.Tasks, nil
}

func (c *Client) get(ctx context.Context, accessToken, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return apperrors.Wrapf(err, "clickup GET %s", path)
	}
	// ClickUp takes the bare token, no Bearer prefix.
	req.Header.Set("Authorization", accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, "clickup GET %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrapf(err, "clickup GET %s read body", path)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &apperrors.UpstreamError{
			Provider:   providerName,
			Operation:  "GET " + path,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	return json.Unmarshal(body, out)
}
