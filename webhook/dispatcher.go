// Package webhook sends the aggregated audit payload to the automation
// endpoint. One outbound POST per completed session; the response body is
// only displayed, never acted on.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/auditops/audit-relay/internal/errors"
)

// Script is one extracted audit script.
type Script struct {
	VarName string `json:"varName"`
	TaskID  string `json:"taskId"`
	Script  string `json:"script"`
}

// Payload is the single aggregated body posted to the automation webhook.
type Payload struct {
	DispatchID         string            `json:"dispatchId"`
	TenantID           string            `json:"tenantId,omitempty"`
	UserProfile        map[string]string `json:"userProfile,omitempty"`
	MSAccessToken      string            `json:"msAccessToken"`
	ClickUpAccessToken string            `json:"clickupAccessToken"`
	Scripts            []Script          `json:"scripts"`
}

type Dispatcher struct {
	url        string
	httpClient *http.Client
}

func New(url string) *Dispatcher {
	return &Dispatcher{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Dispatch posts the payload once and returns the webhook's raw response body
// for display. A missing DispatchID is filled with a fresh uuid.
func (d *Dispatcher) Dispatch(ctx context.Context, payload Payload) (string, error) {
	if payload.DispatchID == "" {
		payload.DispatchID = uuid.NewString()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.Wrapf(err, "webhook encode payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.Wrapf(err, "webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrapf(err, "webhook post")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Wrapf(err, "webhook read response")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &apperrors.UpstreamError{
			Provider:   "webhook",
			Operation:  "dispatch",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}
	return string(respBody), nil
}
