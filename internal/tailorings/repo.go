package tailorings

import "context"

// Repo defines persistence operations for tailoring records. Every query is
// scoped by owner; there is no unscoped access path.
type Repo interface {
	Create(ctx context.Context, rec Tailoring) error
	GetByID(ctx context.Context, ownerID, id string) (Tailoring, error)
	ListRecent(ctx context.Context, ownerID string, limit int) ([]Tailoring, error)
	SetResult(ctx context.Context, ownerID, id, tailoredText, tailoredLatex string) error
}
