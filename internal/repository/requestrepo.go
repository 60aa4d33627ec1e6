package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/licensegate/licensegate/internal/model"
)

// RequestRepository stores pending activation requests.
type RequestRepository interface {
	// Create inserts a pending request.
	Create(ctx context.Context, r *model.ActivationRequest) error
	// Approve atomically converts the request into the given license:
	// the request row is locked, the license inserted, the request
	// deleted. ErrNotFound when a concurrent admin got there first.
	Approve(ctx context.Context, id uuid.UUID, lic *model.License) error
	// Delete removes a pending request (reject path); ErrNotFound when
	// the row is gone.
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns all pending requests, newest first.
	List(ctx context.Context) ([]model.ActivationRequest, error)
}
