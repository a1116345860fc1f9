package postgres

import (
	"context"
	"database/sql"

	"emailpost/internal/model"
	"emailpost/internal/repository"
)

// EntryPostgres is a PostgreSQL implementation of repository.EntryRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type EntryPostgres struct {
	db *sql.DB
}

// NewEntryPostgres creates a new EntryPostgres repository.
func NewEntryPostgres(db *sql.DB) *EntryPostgres {
	return &EntryPostgres{db: db}
}

var _ repository.EntryRepository = (*EntryPostgres)(nil)

// Create inserts a ledger row and returns the stored record.
func (r *EntryPostgres) Create(ctx context.Context, e *model.Entry) (*model.Entry, error) {
	const q = `
		INSERT INTO email_entries (id, title, slug, route, path, attachments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		e.ID,
		e.Title,
		e.Slug,
		e.Route,
		e.Path,
		len(e.Attachments),
		e.CreatedAt,
	)
	out := *e
	if err := row.Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}
