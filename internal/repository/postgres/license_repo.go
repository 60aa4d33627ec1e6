package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/licensegate/licensegate/internal/errs"
	"github.com/licensegate/licensegate/internal/model"
)

// LicenseRepo implements LicenseRepository using PostgreSQL.
type LicenseRepo struct{ db *DB }

// NewLicenseRepo constructs a license repository.
func NewLicenseRepo(db *DB) *LicenseRepo { return &LicenseRepo{db: db} }

// Create inserts a license row. The unique index on license_key maps
// duplicate keys to ErrAlreadyExists.
func (r *LicenseRepo) Create(ctx context.Context, l *model.License) error {
	const q = `
INSERT INTO licenses (id, fingerprint, program_code, license_key, active)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Pool.Exec(ctx, q, l.ID, string(l.Fingerprint), string(l.ProgramCode), l.Key, l.Active)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// FindActive returns the newest active license for (fingerprint, code).
// Duplicates per pair are legal; ordering makes the result deterministic.
func (r *LicenseRepo) FindActive(ctx context.Context, fp model.Fingerprint, code model.ProgramCode) (*model.License, error) {
	const q = `
SELECT id, fingerprint, program_code, license_key, active, last_seen, created_at
FROM licenses
WHERE fingerprint=$1 AND program_code=$2 AND active
ORDER BY created_at DESC, id DESC
LIMIT 1`
	row := r.db.Pool.QueryRow(ctx, q, string(fp), string(code))
	l, err := scanLicense(row)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return l, nil
}

// TouchLastSeen bumps last_seen. A concurrently deleted row is a no-op.
func (r *LicenseRepo) TouchLastSeen(ctx context.Context, id uuid.UUID, ts time.Time) error {
	const q = `UPDATE licenses SET last_seen=$2 WHERE id=$1`
	_, err := r.db.Pool.Exec(ctx, q, id, ts)
	return err
}

// SetActive toggles the active flag.
func (r *LicenseRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	const q = `UPDATE licenses SET active=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a license row.
func (r *LicenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM licenses WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// List returns all licenses, newest first.
func (r *LicenseRepo) List(ctx context.Context) ([]model.License, error) {
	const q = `
SELECT id, fingerprint, program_code, license_key, active, last_seen, created_at
FROM licenses ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.License
	for rows.Next() {
		l, err := scanLicense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func scanLicense(row pgx.Row) (*model.License, error) {
	var (
		l        model.License
		fp, code string
		lastSeen *time.Time
	)
	if err := row.Scan(&l.ID, &fp, &code, &l.Key, &l.Active, &lastSeen, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.Fingerprint = model.Fingerprint(fp)
	l.ProgramCode = model.ProgramCode(code)
	l.LastSeen = lastSeen
	return &l, nil
}
