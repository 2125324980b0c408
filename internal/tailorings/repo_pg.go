package tailorings

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new record. The position column orders same-instant
// creates within an owner.
func (r *PGRepo) Create(ctx context.Context, rec Tailoring) error {
	const query = `
INSERT INTO tailorings (
    id,
    owner_id,
    job_description,
    resume_text,
    tailored_text,
    tailored_latex,
    created_at
) VALUES ($1, $2, $3, $4, NULL, NULL, $5)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.OwnerID,
		rec.JobDescription,
		rec.ResumeText,
		rec.CreatedAt,
	)
	return err
}

// GetByID fetches a record by ID for an owner. The owner predicate makes a
// foreign record indistinguishable from a missing one.
func (r *PGRepo) GetByID(ctx context.Context, ownerID, id string) (Tailoring, error) {
	const query = `
SELECT id, owner_id, job_description, resume_text, tailored_text, tailored_latex, created_at
FROM tailorings
WHERE owner_id = $1 AND id = $2
LIMIT 1`

	var rec Tailoring
	var tailoredText sql.NullString
	var tailoredLatex sql.NullString
	err := r.DB.QueryRowContext(ctx, query, ownerID, id).Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.JobDescription,
		&rec.ResumeText,
		&tailoredText,
		&tailoredLatex,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tailoring{}, ErrNotFound
		}
		return Tailoring{}, err
	}
	if tailoredText.Valid {
		rec.TailoredText = &tailoredText.String
	}
	if tailoredLatex.Valid {
		rec.TailoredLatex = &tailoredLatex.String
	}
	return rec, nil
}

// ListRecent lists an owner's records newest-first. The projection skips the
// tailored fields to bound response size.
func (r *PGRepo) ListRecent(ctx context.Context, ownerID string, limit int) ([]Tailoring, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	const query = `
SELECT id, owner_id, job_description, resume_text, created_at
FROM tailorings
WHERE owner_id = $1
ORDER BY created_at DESC, position DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Tailoring
	for rows.Next() {
		var rec Tailoring
		if err := rows.Scan(
			&rec.ID,
			&rec.OwnerID,
			&rec.JobDescription,
			&rec.ResumeText,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SetResult writes the tailored output once. The IS NULL predicates make the
// update a no-op when a result already exists; a follow-up existence check
// tells the two failure cases apart.
func (r *PGRepo) SetResult(ctx context.Context, ownerID, id, tailoredText, tailoredLatex string) error {
	const query = `
UPDATE tailorings
SET tailored_text = $1, tailored_latex = $2
WHERE owner_id = $3 AND id = $4 AND tailored_text IS NULL AND tailored_latex IS NULL`

	res, err := r.DB.ExecContext(ctx, query, tailoredText, tailoredLatex, ownerID, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	const existsQuery = `SELECT EXISTS (SELECT 1 FROM tailorings WHERE owner_id = $1 AND id = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, existsQuery, ownerID, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrAlreadyTailored
	}
	return ErrNotFound
}

var _ Repo = (*PGRepo)(nil)
