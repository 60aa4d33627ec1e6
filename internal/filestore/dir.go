// Package filestore exposes the directory of distributable program files.
// Files are placed there out of band; the service only lists and serves them.
package filestore

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/licensegate/licensegate/internal/errs"
)

// Store abstracts the program file store for the catalog service.
type Store interface {
	// List returns the names of regular files, sorted.
	List() ([]string, error)
	// Exists reports whether a file with this name is in the store.
	Exists(name string) (bool, error)
	// Open opens a file for download streaming.
	Open(name string) (io.ReadCloser, int64, error)
}

// Dir is a Store over a local directory.
type Dir struct{ root string }

// NewDir constructs a Dir store, creating the directory if missing.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Dir{root: root}, nil
}

// List returns sorted names of regular files in the store.
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// Exists reports whether name is a regular file in the store.
func (d *Dir) Exists(name string) (bool, error) {
	p, err := d.resolve(name)
	if err != nil {
		return false, err
	}
	fi, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return fi.Mode().IsRegular(), nil
}

// Open opens name for reading and returns its size.
func (d *Dir) Open(name string) (io.ReadCloser, int64, error) {
	p, err := d.resolve(name)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, errs.ErrNotFound
		}
		return nil, 0, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	if !fi.Mode().IsRegular() {
		_ = f.Close()
		return nil, 0, errs.ErrNotFound
	}
	return f, fi.Size(), nil
}

// resolve rejects names that would escape the store directory.
func (d *Dir) resolve(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", errs.ErrInvalidRequest
	}
	return filepath.Join(d.root, name), nil
}
