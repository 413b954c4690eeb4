package server

func (s *Server) initRoutes() {
	// Microsoft leg
	s.RegisterRouteFunc("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.relayMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteCallback, ChainMiddleware(s.MicrosoftCallbackHandler(), s.relayMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteCallback, ChainMiddleware(s.MicrosoftCallbackHandler(), s.relayMiddleware()...)) // For form_post response mode

	// ClickUp leg
	s.RegisterRouteFunc("GET "+RouteClickUpCallback, ChainMiddleware(s.ClickUpCallbackHandler(), s.relayMiddleware()...))

	// Interactive selection steps
	s.RegisterRouteFunc("POST "+RouteSelectList, ChainMiddleware(s.SelectListHandler(), s.relayMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteSelectStatus, ChainMiddleware(s.SelectStatusHandler(), s.relayMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteSelectStatus, ChainMiddleware(s.SelectStatusHandler(), s.relayMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteProcessTasks, ChainMiddleware(s.ProcessTasksHandler(), s.relayMiddleware()...))
}
