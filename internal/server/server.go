// Package server serves the built site and the JSON API used by its search
// box, related-content widgets, contact form and analytics beacon.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FReptar0/EvoSystems/internal/analytics"
	"github.com/FReptar0/EvoSystems/internal/content"
	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/logger"
	"github.com/FReptar0/EvoSystems/internal/metrics"
	"github.com/FReptar0/EvoSystems/internal/related"
	"github.com/FReptar0/EvoSystems/internal/search"
)

const defaultShutdownTimeout = 10 * time.Second

// Snapshot is the content the API answers from. It is replaced as a whole
// after a rebuild.
type Snapshot struct {
	Store   *content.Store
	Matcher *search.Matcher
}

// Options configure the server.
type Options struct {
	Port            int
	Debug           bool
	OutputDir       string
	WhatsAppPhone   string
	ContactEmail    string
	Related         related.Resolver
	CityLimit       int
	ShutdownTimeout time.Duration
}

// Deps are the collaborators of a Server. Tracker, Metrics and Gatherer
// may be nil.
type Deps struct {
	Catalog  *i18n.Catalog
	Snapshot *Snapshot
	Tracker  *analytics.Tracker
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   logger.Logger
	// Now defaults to time.Now; it picks the WhatsApp greeting.
	Now func() time.Time
}

// Server is the dev/preview HTTP server.
type Server struct {
	opts     Options
	catalog  *i18n.Catalog
	snapshot atomic.Pointer[Snapshot]
	tracker  *analytics.Tracker
	metrics  *metrics.Metrics
	log      logger.Logger
	now      func() time.Time
	router   *gin.Engine
	server   *http.Server
}

// New builds the router and the http.Server. It does not listen.
func New(opts Options, deps Deps) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		opts:    opts,
		catalog: deps.Catalog,
		tracker: deps.Tracker,
		metrics: deps.Metrics,
		log:     deps.Logger,
		now:     deps.Now,
	}
	s.snapshot.Store(deps.Snapshot)

	router := gin.New()
	router.Use(RecoveryMiddleware(s.log))
	router.Use(LoggerMiddleware(s.log))
	s.routes(router, deps.Gatherer)
	s.router = router

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes(r *gin.Engine, gatherer prometheus.Gatherer) {
	r.GET("/health", s.health)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api/v1")
	api.GET("/search", s.search)
	api.GET("/blog", s.blogIndex)
	api.GET("/blog/:slug/related", s.relatedPosts)
	api.GET("/cities/:slug", s.city)
	api.POST("/events", s.events)
	api.POST("/contact", s.contact)

	r.NoRoute(s.static)
}

// Router returns the gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Swap replaces the content snapshot. In-flight requests keep the one they
// started with.
func (s *Server) Swap(snap *Snapshot) {
	s.snapshot.Store(snap)
	if s.metrics != nil {
		s.metrics.ContentReloaded.Inc()
	}
	s.log.Info("Content snapshot swapped", logger.Int("posts", len(snap.Store.Posts())))
}

func (s *Server) current() *Snapshot {
	return s.snapshot.Load()
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting HTTP server",
			logger.String("address", s.server.Addr),
			logger.String("output", s.opts.OutputDir),
		)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("Shutting down HTTP server", logger.Duration("timeout", s.opts.ShutdownTimeout))
	}

	// ctx is already done; shutdown gets a fresh deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server stopped gracefully")
	return nil
}

func (s *Server) track(clientID string, e analytics.Event) {
	if s.tracker == nil {
		return
	}
	s.tracker.TrackFor(clientID, e)
}
