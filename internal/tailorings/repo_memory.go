package tailorings

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo, used when no database
// is configured (dev) and in handler tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Tailoring // ownerID -> records, insertion order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Tailoring),
	}
}

// Create appends a record under its owner.
func (r *MemoryRepo) Create(ctx context.Context, rec Tailoring) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[rec.OwnerID] = append(r.data[rec.OwnerID], rec)
	return nil
}

// GetByID returns a record by ID for an owner. Foreign and missing IDs are
// indistinguishable.
func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, id string) (Tailoring, error) {
	if err := ctx.Err(); err != nil {
		return Tailoring{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.data[ownerID] {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Tailoring{}, ErrNotFound
}

// ListRecent returns the owner's records newest-first, capped at limit.
// Insertion order breaks created-at ties.
func (r *MemoryRepo) ListRecent(ctx context.Context, ownerID string, limit int) ([]Tailoring, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	r.mu.RLock()
	owned := r.data[ownerID]
	recs := make([]Tailoring, 0, len(owned))
	for i := len(owned) - 1; i >= 0; i-- {
		recs = append(recs, owned[i])
	}
	r.mu.RUnlock()

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// SetResult records the tailored output exactly once.
func (r *MemoryRepo) SetResult(ctx context.Context, ownerID, id, tailoredText, tailoredLatex string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	recs := r.data[ownerID]
	for i := range recs {
		if recs[i].ID != id {
			continue
		}
		if recs[i].TailoredText != nil || recs[i].TailoredLatex != nil {
			return ErrAlreadyTailored
		}
		recs[i].TailoredText = &tailoredText
		recs[i].TailoredLatex = &tailoredLatex
		r.data[ownerID] = recs
		return nil
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
