package tailorings

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"tailor-backend/internal/extract"
	"tailor-backend/internal/shared/storage/object"
	"tailor-backend/internal/shared/telemetry"
)

const (
	// DefaultListLimit caps listings when the caller does not ask for less.
	DefaultListLimit = 20
	// MaxListLimit is the hard ceiling for a single listing.
	MaxListLimit = 50
)

// Service contains the ingestion and retrieval logic for tailoring records.
// The object store archives the raw upload and the derived text; archiving
// is best-effort once the record exists.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

// Ingest runs the pipeline for one submission: extract text from the
// uploaded document, persist the record, archive the artifacts. Extraction
// or validation failure means no record is written.
func (s *Service) Ingest(ctx context.Context, ownerID, jobDescription, fileName, mediaType string, data []byte) (Tailoring, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	if ownerID == "" || jobDescription == "" {
		return Tailoring{}, ErrInvalidInput
	}

	resumeText, err := extract.Text(ctx, data, mediaType, fileName)
	if err != nil {
		return Tailoring{}, err
	}

	rec := Tailoring{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		JobDescription: jobDescription,
		ResumeText:     resumeText,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, rec); err != nil {
		return Tailoring{}, err
	}

	s.archive(ctx, rec, fileName, data, resumeText)

	return rec, nil
}

// GetByID fetches one full record for the owner.
func (s *Service) GetByID(ctx context.Context, ownerID, id string) (Tailoring, error) {
	if ownerID == "" || strings.TrimSpace(id) == "" {
		return Tailoring{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, ownerID, id)
}

// ListRecent returns the owner's newest records as summaries.
func (s *Service) ListRecent(ctx context.Context, ownerID string, limit int) ([]Tailoring, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.Repo.ListRecent(ctx, ownerID, limit)
}

// SetResult records the tailored output on an existing record, once.
func (s *Service) SetResult(ctx context.Context, ownerID, id, tailoredText, tailoredLatex string) error {
	if ownerID == "" || strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(tailoredText) == "" || strings.TrimSpace(tailoredLatex) == "" {
		return ErrInvalidInput
	}
	return s.Repo.SetResult(ctx, ownerID, id, tailoredText, tailoredLatex)
}

func (s *Service) archive(ctx context.Context, rec Tailoring, fileName string, data []byte, resumeText string) {
	if s.Store == nil {
		return
	}

	storageKey, _, _, err := s.Store.Save(ctx, rec.OwnerID, fileName, bytes.NewReader(data))
	if err != nil {
		telemetry.Warn("tailoring.archive_failed", map[string]any{
			"tailoring_id": rec.ID,
			"err":          err.Error(),
		})
		return
	}
	if _, err := s.Store.SaveWithKey(ctx, storageKey+".extracted.txt", "text/plain; charset=utf-8", strings.NewReader(resumeText)); err != nil {
		telemetry.Warn("tailoring.archive_failed", map[string]any{
			"tailoring_id": rec.ID,
			"err":          err.Error(),
		})
	}
}
