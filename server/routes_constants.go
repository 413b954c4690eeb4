package server

// Route path constants
// All relay routes are defined here to ensure consistency and prevent typos
const (
	// Microsoft leg
	RouteIndex    = "/"
	RouteCallback = "/callback"

	// ClickUp leg and interactive selection steps
	RouteClickUpCallback = "/clickup-callback"
	RouteSelectList      = "/select-list"
	RouteSelectStatus    = "/select-status"
	RouteProcessTasks    = "/process-tasks"
)
