package server

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Get("/styles", s.handleListStyles)
	s.router.Get("/styles/random", s.handlePickStyle)
	s.router.Post("/styles", s.handleAddStyle)
	s.router.Get("/categories", s.handleListCategories)

	s.router.Get("/catalogs", s.handleListCatalogs)
	s.router.Put("/catalog", s.handleUseCatalog)

	s.router.Post("/resolve", s.handleResolve)
	s.router.Post("/inject", s.handleInject)

	s.router.Get("/history", s.handleHistory)
}
