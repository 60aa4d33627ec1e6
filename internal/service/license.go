package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	pkgcrypto "github.com/licensegate/licensegate/internal/crypto"
	"github.com/licensegate/licensegate/internal/errs"
	"github.com/licensegate/licensegate/internal/model"
	"github.com/licensegate/licensegate/internal/repository"
)

// LicenseService answers the startup authorization check and exposes the
// ledger operations used by the admin surface.
type LicenseService interface {
	// CheckAuthorization reports whether the device may run the program
	// right now. ErrInvalidRequest on empty fields, before any store call.
	CheckAuthorization(ctx context.Context, fp model.Fingerprint, code model.ProgramCode) (bool, error)
	// Grant mints a fresh key and creates an active license directly.
	Grant(ctx context.Context, fp model.Fingerprint, code model.ProgramCode) (*model.License, error)
	// SetActive toggles the active flag of a license.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// Delete removes a license.
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns all licenses, newest first.
	List(ctx context.Context) ([]model.License, error)
}

type LicenseServiceImpl struct {
	licenses repository.LicenseRepository
	log      *zap.Logger
	now      func() time.Time
}

// NewLicenseService constructs LicenseService.
func NewLicenseService(licenses repository.LicenseRepository, log *zap.Logger) *LicenseServiceImpl {
	return &LicenseServiceImpl{licenses: licenses, log: log, now: time.Now}
}

// CheckAuthorization is the hot path: one indexed lookup, and on a hit a
// best-effort last-seen bump. A miss writes nothing.
func (s *LicenseServiceImpl) CheckAuthorization(ctx context.Context, fp model.Fingerprint, code model.ProgramCode) (bool, error) {
	if fp == "" || code == "" {
		return false, errs.ErrInvalidRequest
	}
	lic, err := s.licenses.FindActive(ctx, fp, code)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	// Non-transactional: a lost last-seen update under concurrent pings
	// from the same device is acceptable.
	if err := s.licenses.TouchLastSeen(ctx, lic.ID, s.now()); err != nil {
		s.log.Warn("touch last_seen", zap.Error(err), zap.String("license_id", lic.ID.String()))
	}
	return true, nil
}

// Grant creates an active license with a freshly minted key.
func (s *LicenseServiceImpl) Grant(ctx context.Context, fp model.Fingerprint, code model.ProgramCode) (*model.License, error) {
	if fp == "" || code == "" {
		return nil, errs.ErrInvalidRequest
	}
	lic, err := newLicense(fp, code)
	if err != nil {
		return nil, err
	}
	if err := s.licenses.Create(ctx, lic); err != nil {
		return nil, err
	}
	s.log.Info("license granted",
		zap.String("license_id", lic.ID.String()),
		zap.String("fingerprint", string(fp)),
		zap.String("program_code", string(code)),
	)
	return lic, nil
}

// SetActive toggles the active flag of a license.
func (s *LicenseServiceImpl) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.licenses.SetActive(ctx, id, active)
}

// Delete removes a license.
func (s *LicenseServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.licenses.Delete(ctx, id)
}

// List returns all licenses, newest first.
func (s *LicenseServiceImpl) List(ctx context.Context) ([]model.License, error) {
	return s.licenses.List(ctx)
}

// newLicense builds an active license with a fresh ID and key.
func newLicense(fp model.Fingerprint, code model.ProgramCode) (*model.License, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	key, err := pkgcrypto.NewLicenseKey()
	if err != nil {
		return nil, err
	}
	return &model.License{
		ID:          id,
		Fingerprint: fp,
		ProgramCode: code,
		Key:         key,
		Active:      true,
	}, nil
}
