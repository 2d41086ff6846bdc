package server

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.Route("/library", func(r chi.Router) {
		r.Get("/", s.getLibrary)
		r.Get("/panel", s.getPanel)
		r.Get("/search", s.searchLibrary)
		r.Get("/export", s.exportLibrary)
		r.Post("/import", s.importLibrary)

		r.Post("/commands", s.addCommand)
		r.Post("/groups", s.addGroup)

		r.Route("/nodes/{nodeID}", func(r chi.Router) {
			r.Get("/", s.getNode)
			r.Patch("/", s.updateNode)
			r.Delete("/", s.deleteNode)

			r.Post("/move", s.moveNode)
			r.Post("/move-up", s.moveNodeUp)
			r.Post("/move-down", s.moveNodeDown)
			r.Post("/run", s.runNode)
			r.Post("/copy", s.copyNode)
		})
	})

	// Event streaming (SSE)
	r.Get("/event", s.allEvents)

	// OpenAPI documentation
	r.Get("/doc", s.openAPISpec)
}
