// Package contact validates and stores the messages sent through the contact form.
package contact

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxNameLength    = 100
	MinMessageLength = 10
	MaxMessageLength = 2000
)

// Submission is a single contact form message.
type Submission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Topic     string    `json:"topic,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidationErrors maps a form field to its error message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

// Normalize trims the surrounding whitespace of every field.
func (s *Submission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Topic = strings.TrimSpace(s.Topic)
	s.Message = strings.TrimSpace(s.Message)
}

// Validate checks the submission fields. It returns nil or a ValidationErrors.
func (s *Submission) Validate() error {
	errs := ValidationErrors{}

	switch n := utf8.RuneCountInString(s.Name); {
	case n == 0:
		errs["name"] = "Please tell us your name."
	case n > MaxNameLength:
		errs["name"] = fmt.Sprintf("Name must be at most %d characters.", MaxNameLength)
	}

	if s.Email == "" {
		errs["email"] = "Please enter your email address."
	} else if addr, err := mail.ParseAddress(s.Email); err != nil || addr.Address != s.Email {
		errs["email"] = "Please enter a valid email address."
	}

	switch n := utf8.RuneCountInString(s.Message); {
	case n < MinMessageLength:
		errs["message"] = fmt.Sprintf("Message must be at least %d characters.", MinMessageLength)
	case n > MaxMessageLength:
		errs["message"] = fmt.Sprintf("Message must be at most %d characters.", MaxMessageLength)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Store appends submissions to a JSON lines file.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewStore creates the directory of path if needed and returns a store writing to it.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating contact store directory: %w", err)
	}
	return &Store{path: path, now: time.Now}, nil
}

// Save validates the submission, assigns it an ID and appends it to the store.
func (st *Store) Save(ctx context.Context, s Submission) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		return Submission{}, err
	}
	s.ID = uuid.NewString()
	s.CreatedAt = st.now().UTC()

	line, err := json.Marshal(s)
	if err != nil {
		return Submission{}, fmt.Errorf("encoding submission: %w", err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	f, err := os.OpenFile(st.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Submission{}, fmt.Errorf("opening contact store: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return Submission{}, fmt.Errorf("writing submission: %w", err)
	}
	return s, nil
}

// List returns every stored submission in insertion order.
func (st *Store) List(ctx context.Context) ([]Submission, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	f, err := os.Open(st.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening contact store: %w", err)
	}
	defer f.Close()

	var subs []Submission
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var s Submission
		if err := json.Unmarshal(sc.Bytes(), &s); err != nil {
			return nil, fmt.Errorf("decoding submission: %w", err)
		}
		subs = append(subs, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading contact store: %w", err)
	}
	return subs, nil
}
