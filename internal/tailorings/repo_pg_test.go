package tailorings

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateInsertsNullTailoredFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	rec := Tailoring{
		ID:             "rec-1",
		OwnerID:        "user-1",
		JobDescription: "Backend Engineer",
		ResumeText:     "worked on backends",
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO tailorings").
		WithArgs(rec.ID, rec.OwnerID, rec.JobDescription, rec.ResumeText, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScopesByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	created := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "owner_id", "job_description", "resume_text", "tailored_text", "tailored_latex", "created_at"}).
		AddRow("rec-1", "user-1", "jd", "resume", nil, nil, created)

	mock.ExpectQuery("SELECT id, owner_id, job_description, resume_text, tailored_text, tailored_latex, created_at").
		WithArgs("user-1", "rec-1").
		WillReturnRows(rows)

	rec, err := repo.GetByID(context.Background(), "user-1", "rec-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if rec.TailoredText != nil || rec.TailoredLatex != nil {
		t.Fatalf("tailored fields must be nil until set: %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT id, owner_id, job_description, resume_text, tailored_text, tailored_latex, created_at").
		WithArgs("user-2", "rec-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "job_description", "resume_text", "tailored_text", "tailored_latex", "created_at"}))

	if _, err := repo.GetByID(context.Background(), "user-2", "rec-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListRecentCapsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT id, owner_id, job_description, resume_text, created_at").
		WithArgs("user-1", MaxListLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "job_description", "resume_text", "created_at"}))

	if _, err := repo.ListRecent(context.Background(), "user-1", 10_000); err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetResultDistinguishesConflictFromMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	// Update touched no row, but the record exists: already tailored.
	mock.ExpectExec("UPDATE tailorings").
		WithArgs("text", "latex", "user-1", "rec-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("user-1", "rec-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	if err := repo.SetResult(context.Background(), "user-1", "rec-1", "text", "latex"); err != ErrAlreadyTailored {
		t.Fatalf("expected ErrAlreadyTailored, got %v", err)
	}

	// Update touched no row and the record does not exist for this owner.
	mock.ExpectExec("UPDATE tailorings").
		WithArgs("text", "latex", "user-2", "rec-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("user-2", "rec-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	if err := repo.SetResult(context.Background(), "user-2", "rec-1", "text", "latex"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
