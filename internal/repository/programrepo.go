package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/licensegate/licensegate/internal/model"
)

// ProgramRepository stores catalog entries for distributable files.
type ProgramRepository interface {
	// Create inserts a catalog row; ErrAlreadyExists when the file is
	// already indexed.
	Create(ctx context.Context, p *model.Program) error
	// GetByID loads a program by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Program, error)
	// Delete removes the catalog row only; ErrNotFound when it is gone.
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns all programs, newest first.
	List(ctx context.Context) ([]model.Program, error)
}
