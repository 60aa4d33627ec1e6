package repository

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/licensegate/licensegate/internal/model"
)

// LicenseRepository is the license ledger.
type LicenseRepository interface {
	// Create inserts a license row; ErrAlreadyExists on a duplicate key.
	Create(ctx context.Context, l *model.License) error
	// FindActive returns the newest active license matching the pair,
	// or ErrNotFound. Duplicate rows per pair are legal; any active
	// match authorizes.
	FindActive(ctx context.Context, fp model.Fingerprint, code model.ProgramCode) (*model.License, error)
	// TouchLastSeen bumps last_seen. Idempotent; a vanished row is a no-op.
	TouchLastSeen(ctx context.Context, id uuid.UUID, ts time.Time) error
	// SetActive toggles the active flag; ErrNotFound when the row is gone.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// Delete removes the row; ErrNotFound when the row is gone.
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns all licenses, newest first.
	List(ctx context.Context) ([]model.License, error)
}
