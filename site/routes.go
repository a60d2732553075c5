package site

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) setupRoutes() {
	r := s.router

	// Pages
	r.Get("/", s.home)
	r.Get("/features", s.section("features", "Features"))
	r.Get("/how-it-works", s.section("steps", "How It Works"))
	r.Get("/benefits", s.section("benefits", "Benefits"))
	r.Get("/faq", s.faq)
	r.Get("/try-on", s.tryOn)
	r.Get("/contact", s.contactForm)
	r.Post("/contact", s.submitContact)
	r.Get("/looks/{id}", s.serveLook)

	// API
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthCheck)
		r.Get("/dresses", s.listDresses)
		r.Post("/looks", s.shareLook)
	})

	// Static assets: the wasm binary, wasm_exec.js, stylesheets and pigo cascades.
	root, err := filepath.Abs(s.config.StaticDir)
	if err != nil {
		root = s.config.StaticDir
	}
	fs := http.StripPrefix("/static/", http.FileServer(http.Dir(root)))
	r.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			s.notFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})

	r.NotFound(s.notFound)
}

// cameraPolicy allows the pages to request the camera from the site's own origin only.
func cameraPolicy(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Permissions-Policy", "camera=(self), microphone=()")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}
