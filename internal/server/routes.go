package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/wecomkit/rulesync/internal/constants"
	"github.com/wecomkit/rulesync/internal/middleware"
)

// SetupRoutes configures the routes for the application.
//
// The route groups are:
//   - Health check and version endpoints (unprotected)
//   - /api/rules        rule CRUD
//   - /api/corps        corp registration
//   - /api/agents       agent registration
//   - /api/sync         manual sync triggering
//
// All /api routes require the admin API key when one is configured.
func (s *Server) SetupRoutes() {
	// Create router
	r := chi.NewRouter()

	// Base middleware
	r.Use(corsMiddleware(s.Config.CORS.AllowedOrigins))
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery())
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogger())
	}

	// Health check and version routes (unprotected)
	r.Group(func(r chi.Router) {
		r.Get("/health", s.Handlers.SyncHandler.Health)
		r.Get("/version", s.Handlers.SyncHandler.Version)
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		if s.keyVerifier != nil {
			r.Use(middleware.APIKeyAuth(s.keyVerifier))
		}

		// Rule routes
		r.Route("/rules", func(r chi.Router) {
			r.Get("/", s.Handlers.RuleHandler.ListRules)
			r.Post("/", s.Handlers.RuleHandler.CreateRule)
			r.Get("/{"+constants.ParamRuleID+"}", s.Handlers.RuleHandler.GetRule)
			r.Patch("/{"+constants.ParamRuleID+"}", s.Handlers.RuleHandler.UpdateRule)
			r.Delete("/{"+constants.ParamRuleID+"}", s.Handlers.RuleHandler.DeleteRule)
		})

		// Corp routes
		r.Route("/corps", func(r chi.Router) {
			r.Get("/", s.Handlers.AccountHandler.ListCorps)
			r.Post("/", s.Handlers.AccountHandler.CreateCorp)
			r.Delete("/{"+constants.ParamCorpID+"}", s.Handlers.AccountHandler.DeleteCorp)
		})

		// Agent routes
		r.Route("/agents", func(r chi.Router) {
			r.Get("/", s.Handlers.AccountHandler.ListAgents)
			r.Post("/", s.Handlers.AccountHandler.CreateAgent)
			r.Delete("/{"+constants.ParamAgentID+"}", s.Handlers.AccountHandler.DeleteAgent)
		})

		// Sync routes
		r.Route("/sync", func(r chi.Router) {
			r.Post("/pull", s.Handlers.SyncHandler.TriggerPull)
		})
	})

	// Set the router
	s.router = r
}

// GetRouter returns the configured router, primarily for testing.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// corsMiddleware adds CORS headers for allowed origins and answers OPTIONS
// preflight requests.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Check if the request's origin is in our allowed list
			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")

					if r.Method == http.MethodOptions {
						w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
						w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, "+constants.HeaderXAPIKey)
						w.Header().Set("Access-Control-Max-Age", "300")
						w.WriteHeader(http.StatusNoContent)
						return
					}
					break
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
