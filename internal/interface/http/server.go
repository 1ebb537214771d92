// Package http exposes the tenancy engine over a gin REST API together with
// health, readiness and liveness probes.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/application/tenancy"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/interface/http/handlers"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: all interfaces).
	Host string

	// Port - port to listen on (default: 8080).
	Port int

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration

	// IdleTimeout - maximum duration for idle connections.
	IdleTimeout time.Duration

	// Mode - gin mode: debug, release or test.
	Mode string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Port:         8080,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		Mode:         gin.ReleaseMode,
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies contains everything the routes need.
type Dependencies struct {
	Engine *tenancy.Engine
	Health *handlers.HealthChecker
	Logger *logger.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server is the HTTP front of the tenancy engine.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *logger.Logger

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates a Server with all routes registered.
func NewServer(config Config, deps Dependencies) *Server {
	if deps.Engine == nil {
		panic("http: Dependencies.Engine is required")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Health == nil {
		deps.Health = handlers.NewHealthChecker("")
	}
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}

	s := &Server{
		config: config,
		logger: deps.Logger.With(logger.Component("http")),
	}
	s.router = s.buildRouter(deps)
	s.httpServer = &http.Server{
		Addr:         config.Address(),
		Handler:      s.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	return s
}

// Handler returns the routed gin engine.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) buildRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(
		requestIDMiddleware(s.logger),
		recoveryMiddleware(s.logger),
		loggingMiddleware(s.logger),
	)
	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorEnvelope{
			Error: handlers.APIError{Code: handlers.CodeNotFound, Message: "route not found"},
		})
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Probes
	// ─────────────────────────────────────────────────────────────────────────
	health := handlers.NewHealthHandler(deps.Health)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/live", health.Live)

	// ─────────────────────────────────────────────────────────────────────────
	// API v1
	// ─────────────────────────────────────────────────────────────────────────
	leases := handlers.NewLeaseHandler(deps.Engine.Leases)
	contracts := handlers.NewContractHandler(deps.Engine.Contracts)
	reviews := handlers.NewReviewHandler(deps.Engine.Reviews)
	availability := handlers.NewAvailabilityHandler(deps.Engine.Availability)

	v1 := r.Group("/api/v1")

	v1.POST("/leases", leases.Open)
	v1.GET("/leases/:id", leases.Get)
	v1.PATCH("/leases/:id", leases.Update)
	v1.DELETE("/leases/:id", leases.Delete)
	v1.POST("/leases/:id/complete", leases.Complete)
	v1.POST("/leases/:id/cancel", leases.Cancel)
	v1.GET("/leases/:id/contract", contracts.GetByLease)

	v1.POST("/contracts", contracts.Create)
	v1.GET("/contracts/:id", contracts.Get)
	v1.PATCH("/contracts/:id", contracts.Update)
	v1.DELETE("/contracts/:id", contracts.Delete)

	v1.POST("/reviews", reviews.Create)
	v1.GET("/reviews/:id", reviews.Get)
	v1.PATCH("/reviews/:id", reviews.Update)
	v1.DELETE("/reviews/:id", reviews.Delete)

	v1.GET("/students/:id/leases", leases.ListByStudent)
	v1.GET("/housings/:id/leases", leases.ListByHousing)
	v1.GET("/housings/:id/reviews", reviews.ListByHousing)
	v1.GET("/housings/:id/reviews/eligibility", reviews.Eligibility)
	v1.GET("/housings/:id/availability", availability.Get)

	return r
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start listens and serves until Shutdown. http.ErrServerClosed is not
// reported as an error.
func (s *Server) Start() error {
	s.mu.Lock()
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("http server listening", logger.String("addr", s.httpServer.Addr))

	err := s.httpServer.ListenAndServe()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// StartAsync starts the server in a goroutine. The channel receives the
// result of Start and is then closed.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.Start(); err != nil {
			errCh <- err
		}
	}()
	return errCh
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Uptime returns the server uptime.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startedAt)
}
