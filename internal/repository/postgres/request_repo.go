package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/licensegate/licensegate/internal/errs"
	"github.com/licensegate/licensegate/internal/model"
)

// RequestRepo implements RequestRepository using PostgreSQL.
type RequestRepo struct{ db *DB }

// NewRequestRepo constructs an activation request repository.
func NewRequestRepo(db *DB) *RequestRepo { return &RequestRepo{db: db} }

// Create inserts a pending request row.
func (r *RequestRepo) Create(ctx context.Context, req *model.ActivationRequest) error {
	const q = `
INSERT INTO license_requests (id, fingerprint, program_code, note)
VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, req.ID, string(req.Fingerprint), string(req.ProgramCode), req.Note)
	return err
}

// Approve converts a pending request into the given license in one
// transaction. The request row is locked, so of two concurrent admin
// actions on the same id exactly one wins; the loser gets ErrNotFound.
func (r *RequestRepo) Approve(ctx context.Context, id uuid.UUID, lic *model.License) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const sel = `SELECT fingerprint, program_code FROM license_requests WHERE id=$1 FOR UPDATE`
	var fp, code string
	if err = tx.QueryRow(ctx, sel, id).Scan(&fp, &code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}

	lic.Fingerprint = model.Fingerprint(fp)
	lic.ProgramCode = model.ProgramCode(code)

	const ins = `
INSERT INTO licenses (id, fingerprint, program_code, license_key, active)
VALUES ($1, $2, $3, $4, $5)`
	if _, err = tx.Exec(ctx, ins, lic.ID, fp, code, lic.Key, lic.Active); err != nil {
		if isUniqueViolation(err) {
			err = errs.ErrAlreadyExists
		}
		return err
	}

	const del = `DELETE FROM license_requests WHERE id=$1`
	if _, err = tx.Exec(ctx, del, id); err != nil {
		return err
	}
	return nil
}

// Delete removes a pending request (reject path).
func (r *RequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM license_requests WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// List returns all pending requests, newest first.
func (r *RequestRepo) List(ctx context.Context) ([]model.ActivationRequest, error) {
	const q = `
SELECT id, fingerprint, program_code, note, created_at
FROM license_requests ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ActivationRequest
	for rows.Next() {
		var (
			req      model.ActivationRequest
			fp, code string
		)
		if err := rows.Scan(&req.ID, &fp, &code, &req.Note, &req.CreatedAt); err != nil {
			return nil, err
		}
		req.Fingerprint = model.Fingerprint(fp)
		req.ProgramCode = model.ProgramCode(code)
		out = append(out, req)
	}
	return out, rows.Err()
}
