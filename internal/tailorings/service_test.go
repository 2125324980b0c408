package tailorings

import (
	"context"
	"errors"
	"testing"

	"tailor-backend/internal/extract"
	localstore "tailor-backend/internal/shared/storage/object/local"
)

func TestIngestCreatesRecordWithExtractedText(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo, Store: localstore.New(t.TempDir())}

	rec, err := svc.Ingest(context.Background(), "u1", "Backend Engineer", "resume.txt", "text/plain", []byte("ten years of Go\n"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected assigned id")
	}
	if rec.ResumeText != "ten years of Go" {
		t.Fatalf("resume text = %q", rec.ResumeText)
	}
	if rec.TailoredText != nil || rec.TailoredLatex != nil {
		t.Fatal("tailored fields must start nil")
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("createdAt must be set")
	}

	stored, err := repo.GetByID(context.Background(), "u1", rec.ID)
	if err != nil {
		t.Fatalf("record not persisted: %v", err)
	}
	if stored.ResumeText != rec.ResumeText {
		t.Fatalf("stored %q", stored.ResumeText)
	}
}

func TestIngestExtractionFailureWritesNoRecord(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo}

	_, err := svc.Ingest(context.Background(), "u1", "Backend Engineer", "resume.txt", "text/plain", []byte("   "))
	if !errors.Is(err, extract.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}

	list, err := repo.ListRecent(context.Background(), "u1", DefaultListLimit)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("no partial record may exist, got %d", len(list))
	}
}

func TestIngestUnsupportedFormatWritesNoRecord(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo}

	_, err := svc.Ingest(context.Background(), "u1", "Backend Engineer", "resume.html", "text/html", []byte("<html/>"))
	var unsupported *extract.UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}

	list, _ := repo.ListRecent(context.Background(), "u1", DefaultListLimit)
	if len(list) != 0 {
		t.Fatalf("no partial record may exist, got %d", len(list))
	}
}

func TestIngestRequiresJobDescription(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	_, err := svc.Ingest(context.Background(), "u1", "   ", "resume.txt", "text/plain", []byte("text"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListRecentClampsLimit(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo}

	if _, err := svc.Ingest(context.Background(), "u1", "jd", "r.txt", "text/plain", []byte("text")); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	list, err := svc.ListRecent(context.Background(), "u1", 9999)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) > MaxListLimit {
		t.Fatalf("limit not clamped: %d", len(list))
	}

	list, err = svc.ListRecent(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("default limit list failed: %d", len(list))
	}
}

func TestSetResultValidatesInput(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	if err := svc.SetResult(context.Background(), "u1", "rec-1", "", "latex"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := svc.SetResult(context.Background(), "u1", "rec-1", "text", " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
