package site

import (
	"errors"
	"log"
	"net/http"

	"github.com/esimov/pigo-tryon/contact"
	"github.com/esimov/pigo-tryon/content"
	"github.com/esimov/pigo-tryon/effects"
)

type pageData struct {
	Title   string
	Path    string
	Site    *content.Content
	Section string
	Items   []content.Item

	// Try-on page
	Effects []effects.Effect

	// Contact page
	Form   contact.Submission
	Errors contact.ValidationErrors
	Sent   bool
}

func (s *Server) page(r *http.Request, title string) pageData {
	return pageData{
		Title: title,
		Path:  r.URL.Path,
		Site:  s.site(),
	}
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "")
	data.Title = data.Site.Hero.Title
	s.pages.render(w, http.StatusOK, "home", data)
}

// section renders one of the home page lists on its own page.
func (s *Server) section(list, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.page(r, title)
		data.Section = list
		switch list {
		case "features":
			data.Items = data.Site.Features
		case "steps":
			data.Items = data.Site.Steps
		case "benefits":
			data.Items = data.Site.Benefits
		}
		s.pages.render(w, http.StatusOK, "section", data)
	}
}

func (s *Server) faq(w http.ResponseWriter, r *http.Request) {
	s.pages.render(w, http.StatusOK, "faq", s.page(r, "Frequently Asked Questions"))
}

func (s *Server) tryOn(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Virtual Try-On")
	data.Effects = effects.Names
	s.pages.render(w, http.StatusOK, "tryon", data)
}

func (s *Server) contactForm(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Contact Us")
	data.Sent = r.URL.Query().Get("sent") == "1"
	s.pages.render(w, http.StatusOK, "contact", data)
}

func (s *Server) submitContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sub := contact.Submission{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Topic:   r.PostForm.Get("topic"),
		Message: r.PostForm.Get("message"),
	}
	if sub.Topic != "" && !s.site().HasTopic(sub.Topic) {
		sub.Topic = ""
	}

	saved, err := s.contacts.Save(r.Context(), sub)
	var verrs contact.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		data := s.page(r, "Contact Us")
		sub.Normalize()
		data.Form = sub
		data.Errors = verrs
		s.pages.render(w, http.StatusUnprocessableEntity, "contact", data)
		return
	case err != nil:
		log.Printf("contact: %v", err)
		http.Error(w, "could not save your message, please try again later", http.StatusInternalServerError)
		return
	}

	log.Printf("contact: stored message %s (%s)", saved.ID, saved.Topic)
	http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.pages.render(w, http.StatusNotFound, "notfound", s.page(r, "Page Not Found"))
}
