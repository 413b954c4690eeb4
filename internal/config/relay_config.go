package config

import (
	"strings"
	"time"
)

// FlowMode selects the relay strategy after the ClickUp exchange.
type FlowMode string

const (
	// FlowAuto resolves the configured space and list names, filters by the
	// processing sentinel and dispatches in one step.
	FlowAuto FlowMode = "auto"
	// FlowInteractive walks the user through space, list and status
	// selection before dispatching.
	FlowInteractive FlowMode = "interactive"
)

type RelayConfig interface {
	GetWebhookURL() string
	GetFlowMode() FlowMode
	GetMaxSessionAge() time.Duration
	GetSessionSweepInterval() time.Duration
	GetLoginStateTimeout() time.Duration
	GetTargetSpaceName() string
	GetTargetListName() string
	GetProcessingFieldName() string
	GetScriptFieldName() string
	GetAllowedStatuses() []string
}

type Relay struct{}

var _ RelayConfig = Relay{}

func (Relay) GetWebhookURL() string {
	return GetEnv("N8N_WEBHOOK", "")
}

func (Relay) GetFlowMode() FlowMode {
	if strings.EqualFold(GetEnv("FLOW_MODE", "auto"), string(FlowInteractive)) {
		return FlowInteractive
	}
	return FlowAuto
}

func (Relay) GetMaxSessionAge() time.Duration {
	return 30 * time.Minute // Sessions expire after 30 minutes
}

func (Relay) GetSessionSweepInterval() time.Duration {
	return 5 * time.Minute
}

func (Relay) GetLoginStateTimeout() time.Duration {
	return 15 * time.Minute
}

func (Relay) GetTargetSpaceName() string {
	return GetEnv("TARGET_SPACE", "Equipes Technique")
}

func (Relay) GetTargetListName() string {
	return GetEnv("TARGET_LIST", "Audit de sécurité")
}

// GetProcessingFieldName names the numeric custom field whose zero value
// marks a task as awaiting processing.
func (Relay) GetProcessingFieldName() string {
	return GetEnv("PROCESSING_FIELD", "Traitement")
}

// GetScriptFieldName names the custom field carrying the audit script body.
func (Relay) GetScriptFieldName() string {
	return GetEnv("SCRIPT_FIELD", "Audit")
}

// GetAllowedStatuses enumerates the statuses offered on the status-selection
// step.
func (Relay) GetAllowedStatuses() []string {
	return []string{"TO DO", "IN PROGRESS", "DONE", "COMPLETE"}
}
