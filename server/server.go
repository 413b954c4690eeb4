package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/auditops/audit-relay/clickup"
	"github.com/auditops/audit-relay/internal/config"
	apperrors "github.com/auditops/audit-relay/internal/errors"
	"github.com/auditops/audit-relay/msgraph"
	"github.com/auditops/audit-relay/server/authstate"
	"github.com/auditops/audit-relay/server/relaysession"
	"github.com/auditops/audit-relay/tenants"
	"github.com/auditops/audit-relay/webhook"
)

// ClickUpFactory builds a ClickUp client for a tenant's registered
// application.
type ClickUpFactory func(t *tenants.Tenant) *clickup.Client

// Deps carries the collaborators the relay orchestrates.
type Deps struct {
	Graph      *msgraph.Client
	Tenants    tenants.Repo
	Sessions   relaysession.Repo
	AuthStates authstate.Repo
	Dispatcher *webhook.Dispatcher
	// ClickUp overrides the default client factory; nil uses production
	// endpoints.
	ClickUp ClickUpFactory
}

type Server struct {
	env        string // Environment (e.g., "DEV", "production")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	graph      *msgraph.Client
	tenants    tenants.Repo
	sessions   relaysession.Repo
	authStates authstate.Repo
	dispatcher *webhook.Dispatcher
	clickupFor ClickUpFactory
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Graph == nil {
		return nil, fmt.Errorf("[Server New] graph client is required")
	}
	if deps.Sessions == nil || deps.AuthStates == nil {
		return nil, fmt.Errorf("[Server New] session and auth-state repos are required")
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("[Server New] webhook dispatcher is required")
	}

	clickupFor := deps.ClickUp
	if clickupFor == nil {
		clickupFor = func(t *tenants.Tenant) *clickup.Client {
			return clickup.New(t.ClickUpClientID, t.ClickUpClientSecret, t.ClickUpRedirectURI)
		}
	}

	s := &Server{
		mux:        http.NewServeMux(),
		config:     cfg,
		graph:      deps.Graph,
		tenants:    deps.Tenants,
		sessions:   deps.Sessions,
		authStates: deps.AuthStates,
		dispatcher: deps.Dispatcher,
		clickupFor: clickupFor,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// tenantFor resolves the ClickUp application for a Microsoft tenant, falling
// back to the single-tenant env credentials when no per-tenant entry exists.
func (s *Server) tenantFor(tenantID string) (*tenants.Tenant, error) {
	if s.tenants != nil {
		t, err := s.tenants.Get(tenantID)
		if err == nil {
			return t, nil
		}
		if !apperrors.Is(err, apperrors.ErrTenantNotFound) {
			return nil, err
		}
	}

	if s.config.GetClickUpClientID() == "" {
		return nil, apperrors.Wrapf(apperrors.ErrTenantNotFound, "no clickup credentials for tenant %q", tenantID)
	}
	return &tenants.Tenant{
		ID:                  tenantID,
		ClickUpClientID:     s.config.GetClickUpClientID(),
		ClickUpClientSecret: s.config.GetClickUpClientSecret(),
		ClickUpRedirectURI:  s.config.GetClickUpRedirectURI(),
	}, nil
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
