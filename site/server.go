// Package site serves the marketing pages, the try-on page shell and the small JSON API
// used by the try-on client.
package site

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/esimov/pigo-tryon/config"
	"github.com/esimov/pigo-tryon/contact"
	"github.com/esimov/pigo-tryon/content"
	"github.com/esimov/pigo-tryon/looks"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Server represents the web server
type Server struct {
	config     *config.Config
	content    atomic.Pointer[content.Content]
	contacts   *contact.Store
	looks      *looks.Store
	pages      *renderer
	router     *chi.Mux
	httpServer *http.Server
}

// NewServer creates the web server and its stores.
func NewServer(cfg *config.Config, c *content.Content) (*Server, error) {
	contacts, err := contact.NewStore(cfg.ContactFile())
	if err != nil {
		return nil, err
	}
	lookStore, err := looks.NewStore(cfg.LooksDir())
	if err != nil {
		return nil, err
	}
	lookStore.MaxBytes = cfg.MaxUploadBytes()

	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	s := &Server{
		config:   cfg,
		contacts: contacts,
		looks:    lookStore,
		pages:    pages,
		router:   r,
	}

	s.content.Store(c)

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(time.Minute))
	r.Use(cameraPolicy)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Start starts the HTTP server and blocks until it is shut down.
func (s *Server) Start() error {
	log.Printf("serving %s on http://%s", s.config.StaticDir, s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("shutting down web server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// SetContent swaps the marketing copy served by the pages. It is safe to call
// while the server is running.
func (s *Server) SetContent(c *content.Content) {
	s.content.Store(c)
}

func (s *Server) site() *content.Content {
	return s.content.Load()
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
