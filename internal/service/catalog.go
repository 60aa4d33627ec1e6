package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/licensegate/licensegate/internal/errs"
	"github.com/licensegate/licensegate/internal/filestore"
	"github.com/licensegate/licensegate/internal/model"
	"github.com/licensegate/licensegate/internal/repository"
)

// CatalogService indexes files from the program file store into the catalog.
// Indexing never uploads anything; the file must already be in the store.
type CatalogService interface {
	// Index adds an existing file to the catalog. ErrNotFound when the
	// file is absent from the store, ErrAlreadyExists when indexed.
	Index(ctx context.Context, name, description, file string) (*model.Program, error)
	// Get loads one catalog entry.
	Get(ctx context.Context, id uuid.UUID) (*model.Program, error)
	// Delete removes the catalog row only; the file stays in the store.
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns all catalog entries, newest first.
	List(ctx context.Context) ([]model.Program, error)
	// Unindexed returns files present in the store but not in the catalog.
	Unindexed(ctx context.Context) ([]string, error)
}

type CatalogServiceImpl struct {
	programs repository.ProgramRepository
	files    filestore.Store
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(programs repository.ProgramRepository, files filestore.Store) *CatalogServiceImpl {
	return &CatalogServiceImpl{programs: programs, files: files}
}

// Index adds an existing store file to the catalog. The existence check
// holds at indexing time only; files removed later are not re-validated.
func (s *CatalogServiceImpl) Index(ctx context.Context, name, description, file string) (*model.Program, error) {
	if file == "" {
		return nil, errs.ErrInvalidRequest
	}
	ok, err := s.files.Exists(file)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.ErrNotFound
	}
	if name == "" {
		name = file
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	p := &model.Program{
		ID:          id,
		Name:        name,
		Description: description,
		FileName:    file,
	}
	if err := s.programs.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get loads one catalog entry.
func (s *CatalogServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Program, error) {
	return s.programs.GetByID(ctx, id)
}

// Delete removes the catalog row; the underlying file is untouched.
func (s *CatalogServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.programs.Delete(ctx, id)
}

// List returns all catalog entries, newest first.
func (s *CatalogServiceImpl) List(ctx context.Context) ([]model.Program, error) {
	return s.programs.List(ctx)
}

// Unindexed returns store files with no catalog row, for the admin view.
func (s *CatalogServiceImpl) Unindexed(ctx context.Context) ([]string, error) {
	names, err := s.files.List()
	if err != nil {
		return nil, err
	}
	ps, err := s.programs.List(ctx)
	if err != nil {
		return nil, err
	}
	indexed := make(map[string]struct{}, len(ps))
	for _, p := range ps {
		indexed[p.FileName] = struct{}{}
	}
	var out []string
	for _, n := range names {
		if _, ok := indexed[n]; !ok {
			out = append(out, n)
		}
	}
	return out, nil
}
