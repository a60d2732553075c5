package site

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/esimov/pigo-tryon/looks"
	"github.com/go-chi/chi/v5"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listDresses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.site().Dresses)
}

type shareResponse struct {
	looks.Look
	URL string `json:"url"`
}

// shareLook accepts a capture either as a raw image body or as the "image"
// field of a multipart form.
func (s *Server) shareLook(w http.ResponseWriter, r *http.Request) {
	limit := s.config.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("image")
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				writeError(w, http.StatusRequestEntityTooLarge, "image too large")
				return
			}
			writeError(w, http.StatusBadRequest, "missing image field")
			return
		}
		defer file.Close()
		src = file
	}

	look, err := s.looks.Save(r.Context(), src)
	if err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.Is(err, looks.ErrTooLarge), errors.As(err, &mbe):
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		case errors.Is(err, looks.ErrNotImage):
			writeError(w, http.StatusUnsupportedMediaType, "expected a PNG or JPEG image")
		default:
			log.Printf("share: %v", err)
			writeError(w, http.StatusInternalServerError, "could not store the image")
		}
		return
	}

	writeJSON(w, http.StatusCreated, shareResponse{Look: look, URL: s.config.LookURL(look.ID)})
}

func (s *Server) serveLook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, err := s.looks.Open(id)
	if errors.Is(err, looks.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		log.Printf("look %s: %v", id, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, id+".png", time.Time{}, f)
}
