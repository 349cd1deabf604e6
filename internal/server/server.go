// Package server wires the application together: database, repositories,
// services, handlers, routes, the pull scheduler, and server lifecycle
// management with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/wecomkit/rulesync/internal/auth"
	"github.com/wecomkit/rulesync/internal/config"
	"github.com/wecomkit/rulesync/internal/constants"
	"github.com/wecomkit/rulesync/internal/database"
	"github.com/wecomkit/rulesync/internal/handlers"
	"github.com/wecomkit/rulesync/internal/repository"
	"github.com/wecomkit/rulesync/internal/service"
	"github.com/wecomkit/rulesync/internal/wechat"
	"github.com/wecomkit/rulesync/migrations"
	"github.com/wecomkit/rulesync/scripts"
)

// Handlers contains all HTTP handlers for the application
type Handlers struct {
	// RuleHandler manages interception rule endpoints
	RuleHandler *handlers.RuleHandler

	// AccountHandler manages corp and agent registration endpoints
	AccountHandler *handlers.AccountHandler

	// SyncHandler manages sync triggering and health endpoints
	SyncHandler *handlers.SyncHandler
}

// Server represents the API server for the rulesync application
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// router handles HTTP routing
	router chi.Router

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// keyVerifier checks admin API keys
	keyVerifier *auth.Verifier

	// pullService runs the scheduled remote import
	pullService *service.PullService

	// pullCancel stops the pull scheduler on shutdown
	pullCancel context.CancelFunc

	// httpServer is the underlying HTTP server
	httpServer *http.Server
}

// repositories holds all repositories used by the server
var repositories struct {
	corpRepo  repository.CorpRepository
	agentRepo repository.AgentRepository
	ruleRepo  repository.InterceptRuleRepository
}

// services holds all services used by the server
var services struct {
	pushService *service.PushService
	pullService *service.PullService
	ruleService *service.RuleService
}

// NewServer creates a new server instance with all required components.
// Initialization runs in dependency order: database, auth, repositories,
// API client, services, handlers, routes.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	if err := s.setupDatabase(); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := s.setupAuth(); err != nil {
		return nil, fmt.Errorf("failed to set up auth: %w", err)
	}

	s.setupRepositories()

	if err := s.setupServices(); err != nil {
		return nil, fmt.Errorf("failed to set up services: %w", err)
	}

	s.setupHandlers()

	// Set up routes
	s.SetupRoutes()

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupDatabase connects to the database, runs migrations, and seeds fixtures
// in development.
func (s *Server) setupDatabase() error {
	db, err := database.Connect(s.Config)
	if err != nil {
		return err
	}

	s.Db = db

	// Run migrations to create tables if they don't exist
	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Seed development fixtures
	if s.Config.App.IsDevelopment() {
		seeder := scripts.NewSeeder(db)
		if err := seeder.SeedDatabase(context.Background()); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	return nil
}

// setupAuth prepares the admin API key verifier
func (s *Server) setupAuth() error {
	if s.Config.Admin.APIKey == "" {
		log.Warn().Msg("No admin API key configured, admin routes are unprotected")
		return nil
	}

	verifier, err := auth.NewVerifier(s.Config.Admin.APIKey)
	if err != nil {
		return err
	}
	s.keyVerifier = verifier
	return nil
}

// setupRepositories initializes all data repositories
func (s *Server) setupRepositories() {
	repositories.corpRepo = repository.NewCorpRepository(s.Db)
	repositories.agentRepo = repository.NewAgentRepository(s.Db)
	repositories.ruleRepo = repository.NewInterceptRuleRepository(s.Db)
}

// setupServices initializes the vendor API client and business services
func (s *Server) setupServices() error {
	apiClient := wechat.NewClient(&s.Config.WeChat)

	loc, err := s.Config.Sync.Location()
	if err != nil {
		return err
	}

	services.pushService = service.NewPushService(apiClient, repositories.agentRepo)
	services.pullService = service.NewPullService(
		repositories.agentRepo,
		repositories.corpRepo,
		repositories.ruleRepo,
		apiClient,
		loc,
		s.Config.Sync.Interval,
	)
	services.ruleService = service.NewRuleService(
		repositories.ruleRepo,
		repositories.agentRepo,
		services.pushService,
	)

	s.pullService = services.pullService
	return nil
}

// setupHandlers initializes all HTTP request handlers
func (s *Server) setupHandlers() {
	s.Handlers = &Handlers{
		RuleHandler:    handlers.NewRuleHandler(services.ruleService),
		AccountHandler: handlers.NewAccountHandler(repositories.corpRepo, repositories.agentRepo),
		SyncHandler:    handlers.NewSyncHandler(services.pullService, s.Db, s.Config.App.Version),
	}
}

// Start starts the HTTP server and the pull scheduler, and blocks until a
// server error or shutdown signal arrives.
func (s *Server) Start() error {
	// Create a channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start the server in a separate goroutine
	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	// Start the pull scheduler
	if s.Config.Sync.Enabled {
		ctx, cancel := context.WithCancel(context.Background())
		s.pullCancel = cancel
		go s.pullService.Start(ctx)
	} else {
		log.Info().Msg("Pull scheduler disabled")
	}

	// Create a channel to listen for OS signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until an OS signal or an error is received
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		// Create a context with a timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		// Shutdown the server
		if err := s.Shutdown(ctx); err != nil {
			// Shutdown the server immediately if graceful shutdown fails
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server: the pull scheduler stops first,
// then in-flight requests drain, then the database connection closes.
func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the pull scheduler
	if s.pullCancel != nil {
		s.pullCancel()
	}

	// Shutdown the HTTP server
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	// Close the database connection
	s.Db.Close()
	log.Info().Msg("Database connection closed")

	return nil
}
