package contact

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func validSubmission() Submission {
	return Submission{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Topic:   "Support",
		Message: "The camera does not start on my tablet.",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Submission)
		fields []string
	}{
		{"valid", func(s *Submission) {}, nil},
		{"missing name", func(s *Submission) { s.Name = "" }, []string{"name"}},
		{"long name", func(s *Submission) { s.Name = strings.Repeat("a", MaxNameLength+1) }, []string{"name"}},
		{"missing email", func(s *Submission) { s.Email = "" }, []string{"email"}},
		{"bad email", func(s *Submission) { s.Email = "not-an-email" }, []string{"email"}},
		{"display name email", func(s *Submission) { s.Email = "Ada <ada@example.com>" }, []string{"email"}},
		{"short message", func(s *Submission) { s.Message = "hi" }, []string{"message"}},
		{"long message", func(s *Submission) { s.Message = strings.Repeat("x", MaxMessageLength+1) }, []string{"message"}},
		{"everything wrong", func(s *Submission) { *s = Submission{} }, []string{"name", "email", "message"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.modify(&s)
			err := s.Validate()

			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if len(verrs) != len(tt.fields) {
				t.Errorf("expected %d field errors, got %v", len(tt.fields), verrs)
			}
			for _, f := range tt.fields {
				if _, ok := verrs[f]; !ok {
					t.Errorf("expected an error for %q, got %v", f, verrs)
				}
			}
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	err := ValidationErrors{"message": "too short", "email": "invalid"}
	want := "invalid submission: email: invalid; message: too short"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestStoreSaveAndList(t *testing.T) {
	st, err := NewStore(filepath.Join(t.TempDir(), "data", "contact.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return fixed }

	ctx := context.Background()

	list, err := st.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected an empty store, got %v, %v", list, err)
	}

	in := validSubmission()
	in.Name = "  Ada Lovelace  "
	saved, err := st.Save(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(saved.ID); err != nil {
		t.Errorf("expected a UUID id, got %q", saved.ID)
	}
	if saved.Name != "Ada Lovelace" {
		t.Errorf("expected trimmed name, got %q", saved.Name)
	}
	if !saved.CreatedAt.Equal(fixed) {
		t.Errorf("unexpected timestamp %v", saved.CreatedAt)
	}

	if _, err := st.Save(ctx, Submission{Name: "x"}); err == nil {
		t.Fatal("expected invalid submission to be rejected")
	}

	list, err = st.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != saved.ID || list[0].Message != saved.Message {
		t.Errorf("unexpected stored submissions %+v", list)
	}
}

func TestStoreConcurrentSaves(t *testing.T) {
	st, err := NewStore(filepath.Join(t.TempDir(), "contact.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := st.Save(ctx, validSubmission()); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	list, err := st.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 25 {
		t.Errorf("expected 25 submissions, got %d", len(list))
	}
}

func TestStoreSaveCanceled(t *testing.T) {
	st, err := NewStore(filepath.Join(t.TempDir(), "contact.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := st.Save(ctx, validSubmission()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
