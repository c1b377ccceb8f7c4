package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"github.com/microcosm-cc/bluemonday"

	"github.com/subscope/subscope/pkg/config"
	"github.com/subscope/subscope/pkg/domain"
	"github.com/subscope/subscope/pkg/keywords"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/keywords.go -pkg mocks -skip-ensure -fmt goimports . KeywordStore
//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner

//go:embed templates/*.html
var templatesFS embed.FS

// Server represents HTTP server instance
type Server struct {
	config   ConfigProvider
	keywords KeywordStore
	jobs     *jobManager
	version  string
	debug    bool

	templates *template.Template
	sanitizer *bluemonday.Policy

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetCollectConfig() config.CollectConfig
}

// KeywordStore provides access to the persistent topic keywords
type KeywordStore interface {
	Load() *keywords.Topics
	Update(fn func(*keywords.Topics) error) (*keywords.Topics, error)
}

// Runner runs a single collection, reporting progress to log
type Runner interface {
	Run(ctx context.Context, params domain.RunParams, log lgr.L) (string, error)
}

// New initializes a new server instance
func New(cfg ConfigProvider, store KeywordStore, runner Runner, version string, debug bool) *Server {
	s := &Server{
		config:    cfg,
		keywords:  store,
		jobs:      newJobManager(runner),
		version:   version,
		debug:     debug,
		templates: template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")),
		sanitizer: bluemonday.StrictPolicy(),
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown.
// Collection jobs started by the server are canceled with ctx.
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.jobs.setContext(ctx)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// StartCollection validates params and starts a background collection job, returns job id
func (s *Server) StartCollection(params domain.RunParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", fmt.Errorf("invalid run parameters: %w", err)
	}
	job, err := s.jobs.Start(params)
	if err != nil {
		return "", err
	}
	return job.ID, nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("subscope", "subscope", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	// web UI
	s.router.HandleFunc("GET /{$}", s.indexHandler)
	s.router.HandleFunc("POST /collect", s.collectFormHandler)
	s.router.HandleFunc("GET /jobs/{id}", s.jobPageHandler)
	s.router.HandleFunc("GET /download/{name}", s.downloadHandler)
	s.router.HandleFunc("GET /keywords", s.keywordsPageHandler)
	s.router.HandleFunc("POST /keywords", s.keywordsFormHandler)

	// API routes
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("POST /collect", s.collectAPIHandler)
		r.HandleFunc("GET /jobs/{id}", s.jobAPIHandler)
		r.HandleFunc("GET /keywords", s.listKeywordsHandler)
		r.HandleFunc("POST /keywords/topics", s.addTopicHandler)
		r.HandleFunc("PUT /keywords/topics/{topic}", s.replaceKeywordsHandler)
		r.HandleFunc("DELETE /keywords/topics/{topic}", s.deleteTopicHandler)
		r.HandleFunc("POST /keywords/reset", s.resetKeywordsHandler)
	})
}
