package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/licensegate/licensegate/internal/errs"
	"github.com/licensegate/licensegate/internal/model"
)

// ProgramRepo implements ProgramRepository using PostgreSQL.
type ProgramRepo struct{ db *DB }

// NewProgramRepo constructs a program catalog repository.
func NewProgramRepo(db *DB) *ProgramRepo { return &ProgramRepo{db: db} }

// Create inserts a catalog row. The unique index on file_name maps an
// already indexed file to ErrAlreadyExists.
func (r *ProgramRepo) Create(ctx context.Context, p *model.Program) error {
	const q = `
INSERT INTO programs (id, name, description, file_name)
VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, p.ID, p.Name, p.Description, p.FileName)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects a program by ID.
func (r *ProgramRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Program, error) {
	const q = `
SELECT id, name, description, file_name, created_at
FROM programs WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var p model.Program
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.FileName, &p.CreatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &p, nil
}

// Delete removes the catalog row only; the file in the store stays.
func (r *ProgramRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM programs WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// List returns all programs, newest first.
func (r *ProgramRepo) List(ctx context.Context) ([]model.Program, error) {
	const q = `
SELECT id, name, description, file_name, created_at
FROM programs ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Program
	for rows.Next() {
		var p model.Program
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.FileName, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
