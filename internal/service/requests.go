package service

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/licensegate/licensegate/internal/errs"
	"github.com/licensegate/licensegate/internal/model"
	"github.com/licensegate/licensegate/internal/repository"
)

// RequestService runs the activation request workflow: pending requests are
// created by unauthenticated clients and either approved (a license is
// minted, the request deleted) or rejected (deleted, nothing minted).
type RequestService interface {
	// Submit files a pending request. Duplicates against existing
	// requests or licenses are tolerated, not an error.
	Submit(ctx context.Context, fp model.Fingerprint, code model.ProgramCode, note string) (*model.ActivationRequest, error)
	// Approve converts the request into an active license with a fresh
	// key. ErrNotFound when a concurrent admin already decided it.
	Approve(ctx context.Context, id uuid.UUID) (*model.License, error)
	// Reject discards the request. ErrNotFound under the same race.
	Reject(ctx context.Context, id uuid.UUID) error
	// List returns all pending requests, newest first.
	List(ctx context.Context) ([]model.ActivationRequest, error)
}

type RequestServiceImpl struct {
	requests repository.RequestRepository
	log      *zap.Logger
}

// NewRequestService constructs RequestService.
func NewRequestService(requests repository.RequestRepository, log *zap.Logger) *RequestServiceImpl {
	return &RequestServiceImpl{requests: requests, log: log}
}

// Submit files a pending activation request.
func (s *RequestServiceImpl) Submit(ctx context.Context, fp model.Fingerprint, code model.ProgramCode, note string) (*model.ActivationRequest, error) {
	if fp == "" || code == "" {
		return nil, errs.ErrInvalidRequest
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	req := &model.ActivationRequest{
		ID:          id,
		Fingerprint: fp,
		ProgramCode: code,
		Note:        note,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	s.log.Info("activation request received",
		zap.String("request_id", req.ID.String()),
		zap.String("fingerprint", string(fp)),
		zap.String("program_code", string(code)),
	)
	return req, nil
}

// Approve atomically mints a license for the request and removes it.
func (s *RequestServiceImpl) Approve(ctx context.Context, id uuid.UUID) (*model.License, error) {
	// Fingerprint and code are read from the locked request row inside
	// the transaction; only the id and key are minted here.
	lic, err := newLicense("", "")
	if err != nil {
		return nil, err
	}
	if err := s.requests.Approve(ctx, id, lic); err != nil {
		return nil, err
	}
	s.log.Info("activation request approved",
		zap.String("request_id", id.String()),
		zap.String("license_id", lic.ID.String()),
		zap.String("fingerprint", string(lic.Fingerprint)),
		zap.String("program_code", string(lic.ProgramCode)),
	)
	return lic, nil
}

// Reject discards a pending request without minting anything.
func (s *RequestServiceImpl) Reject(ctx context.Context, id uuid.UUID) error {
	if err := s.requests.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("activation request rejected", zap.String("request_id", id.String()))
	return nil
}

// List returns all pending requests, newest first.
func (s *RequestServiceImpl) List(ctx context.Context) ([]model.ActivationRequest, error) {
	return s.requests.List(ctx)
}
