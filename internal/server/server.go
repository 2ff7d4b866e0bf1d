// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/beemind/hub/api"
	"github.com/beemind/hub/internal/cleanup"
	"github.com/beemind/hub/internal/collector"
	"github.com/beemind/hub/internal/config"
	"github.com/beemind/hub/internal/hubservice"
	"github.com/gorilla/handlers"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	hubservice *hubservice.HubService
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Start wires the hub, begins polling and serves until SIGINT/SIGTERM.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, err := initializeHubService(ctx, s.config)
	if err != nil {
		return err
	}
	s.hubservice = svc

	// Set up cleanup event handlers
	s.setupCleanupHandlers()

	s.srv.Handler = s.handler(api.NewRouter(svc))

	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("error starting polling: %w", err)
	}

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// handler wraps the router with recovery, CORS and access logging.
func (s *Server) handler(router http.Handler) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(s.config.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
		handlers.ExposedHeaders([]string{"X-Request-ID"}),
	)
	recovery := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))
	return handlers.LoggingHandler(os.Stdout, recovery(cors(router)))
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	s.hubservice.Stop()
	if err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) setupCleanupHandlers() {
	// Handle hive deletion events
	s.hubservice.Cleanup.OnCleanup(cleanup.EventHiveDeleted, func(id string) {
		nuts.L.Infof("[Cleanup] Hive %s deleted", id)
		s.hubservice.Monitoring.RecordEvent("hive_deletion", map[string]string{
			"hive_id": id,
		})
	})

	// Handle cached reading deletion events
	s.hubservice.Cleanup.OnCleanup(cleanup.EventReadingDeleted, func(id string) {
		nuts.L.Infof("[Cleanup] Cached reading of hive %s dropped", id)
		s.hubservice.Monitoring.RecordEvent("reading_deletion", map[string]string{
			"hive_id": id,
		})
	})

	// Handle local hive collection updates
	s.hubservice.Cleanup.OnCleanup(cleanup.EventLocalUpdated, func(id string) {
		nuts.L.Infof("[Cleanup] Hive %s removed from local hives", id)
	})
}

// initializeHubService creates and configures the hub service
func initializeHubService(ctx context.Context, cfg *config.Config) (*hubservice.HubService, error) {
	kv, err := hubservice.OpenKVStore(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	client := collector.New(cfg.API)
	resolver := newWeatherResolver(cfg, kv, client)

	svc := hubservice.New(ctx, cfg, kv, client, resolver)
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	return svc, nil
}
