package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/licensegate/licensegate/internal/errs"
	"github.com/licensegate/licensegate/internal/model"
	"github.com/licensegate/licensegate/internal/repository"
)

type fakeLicenses struct {
	byID map[uuid.UUID]*model.License

	createErr error
	findErr   error
	touchErr  error

	touched     []uuid.UUID
	lastTouchTS time.Time
}

var _ repository.LicenseRepository = (*fakeLicenses)(nil)

func (f *fakeLicenses) put(l model.License) {
	if f.byID == nil {
		f.byID = map[uuid.UUID]*model.License{}
	}
	c := l
	f.byID[l.ID] = &c
}

func (f *fakeLicenses) Create(_ context.Context, l *model.License) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, have := range f.byID {
		if have.Key == l.Key {
			return errs.ErrAlreadyExists
		}
	}
	f.put(*l)
	return nil
}

func (f *fakeLicenses) FindActive(_ context.Context, fp model.Fingerprint, code model.ProgramCode) (*model.License, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var newest *model.License
	for _, l := range f.byID {
		if l.Active && l.Fingerprint == fp && l.ProgramCode == code {
			if newest == nil || l.CreatedAt.After(newest.CreatedAt) {
				newest = l
			}
		}
	}
	if newest == nil {
		return nil, errs.ErrNotFound
	}
	c := *newest
	return &c, nil
}

func (f *fakeLicenses) TouchLastSeen(_ context.Context, id uuid.UUID, ts time.Time) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	f.touched = append(f.touched, id)
	f.lastTouchTS = ts
	if l, ok := f.byID[id]; ok {
		c := ts
		l.LastSeen = &c
	}
	return nil
}

func (f *fakeLicenses) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	l, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	l.Active = active
	return nil
}

func (f *fakeLicenses) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeLicenses) List(_ context.Context) ([]model.License, error) {
	var out []model.License
	for _, l := range f.byID {
		out = append(out, *l)
	}
	return out, nil
}

func TestCheckAuthorization_InvalidInputBeforeStore(t *testing.T) {
	t.Parallel()
	lics := &fakeLicenses{findErr: errors.New("store must not be touched")}
	s := NewLicenseService(lics, zap.NewNop())

	if _, err := s.CheckAuthorization(context.Background(), "", "PROG-1"); !errors.Is(err, errs.ErrInvalidRequest) {
		t.Fatalf("want ErrInvalidRequest on empty fingerprint, got %v", err)
	}
	if _, err := s.CheckAuthorization(context.Background(), "AA-host1", ""); !errors.Is(err, errs.ErrInvalidRequest) {
		t.Fatalf("want ErrInvalidRequest on empty code, got %v", err)
	}
}

func TestCheckAuthorization_MissCreatesNothing(t *testing.T) {
	t.Parallel()
	lics := &fakeLicenses{}
	s := NewLicenseService(lics, zap.NewNop())

	ok, err := s.CheckAuthorization(context.Background(), "AA-host1", "PROG-1")
	if err != nil || ok {
		t.Fatalf("want unauthorized without error, got ok=%v err=%v", ok, err)
	}
	if len(lics.byID) != 0 || len(lics.touched) != 0 {
		t.Fatalf("miss must not write")
	}
}

func TestCheckAuthorization_HitBumpsLastSeen(t *testing.T) {
	t.Parallel()
	lics := &fakeLicenses{}
	id := uuid.Must(uuid.NewV4())
	lics.put(model.License{ID: id, Fingerprint: "AA-host1", ProgramCode: "PROG-1", Key: "k", Active: true})
	s := NewLicenseService(lics, zap.NewNop())

	before := time.Now()
	ok, err := s.CheckAuthorization(context.Background(), "AA-host1", "PROG-1")
	if err != nil || !ok {
		t.Fatalf("want authorized, got ok=%v err=%v", ok, err)
	}
	if len(lics.touched) != 1 || lics.touched[0] != id {
		t.Fatalf("want last_seen bump for %s, got %v", id, lics.touched)
	}
	if lics.lastTouchTS.Before(before) {
		t.Fatalf("last_seen timestamp %v older than call time %v", lics.lastTouchTS, before)
	}
}

func TestCheckAuthorization_DeactivatedLicenseDenies(t *testing.T) {
	t.Parallel()
	lics := &fakeLicenses{}
	id := uuid.Must(uuid.NewV4())
	lics.put(model.License{ID: id, Fingerprint: "AA-host1", ProgramCode: "PROG-1", Key: "k", Active: true})
	s := NewLicenseService(lics, zap.NewNop())

	if err := s.SetActive(context.Background(), id, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	ok, err := s.CheckAuthorization(context.Background(), "AA-host1", "PROG-1")
	if err != nil || ok {
		t.Fatalf("deactivated license must deny, got ok=%v err=%v", ok, err)
	}
	if _, stillThere := lics.byID[id]; !stillThere {
		t.Fatalf("row must survive deactivation")
	}
}

func TestCheckAuthorization_TouchFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	lics := &fakeLicenses{touchErr: errors.New("row vanished")}
	lics.put(model.License{ID: uuid.Must(uuid.NewV4()), Fingerprint: "AA-host1", ProgramCode: "PROG-1", Key: "k", Active: true})
	s := NewLicenseService(lics, zap.NewNop())

	ok, err := s.CheckAuthorization(context.Background(), "AA-host1", "PROG-1")
	if err != nil || !ok {
		t.Fatalf("authorization must not depend on the last-seen write, got ok=%v err=%v", ok, err)
	}
}

func TestGrant_MintsFreshKeys(t *testing.T) {
	t.Parallel()
	lics := &fakeLicenses{}
	s := NewLicenseService(lics, zap.NewNop())

	if _, err := s.Grant(context.Background(), "", "PROG-1"); !errors.Is(err, errs.ErrInvalidRequest) {
		t.Fatalf("want ErrInvalidRequest, got %v", err)
	}

	a, err := s.Grant(context.Background(), "AA-host1", "PROG-1")
	if err != nil {
		t.Fatalf("Grant: %v", err)
	}
	b, err := s.Grant(context.Background(), "AA-host1", "PROG-1")
	if err != nil {
		t.Fatalf("Grant second: %v", err)
	}
	if a.Key == b.Key || len(a.Key) != 32 {
		t.Fatalf("keys must be fresh 32-char tokens: %q vs %q", a.Key, b.Key)
	}
	if !a.Active || !b.Active {
		t.Fatalf("granted licenses start active")
	}
}
