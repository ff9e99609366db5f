package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded outline files and hands out public URLs for
// them. The console never reads files back; it only records the
// metadata alongside the outline row.
type Store interface {
	Put(fileName string, r io.Reader) (storedName string, size int64, err error)
	PublicURL(storedName string) string
	Remove(storedName string) error
}

// DiskStore keeps files under a single directory, served by the files
// route.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put streams the upload to disk under a collision-free name that
// keeps the original extension.
func (s *DiskStore) Put(fileName string, r io.Reader) (string, int64, error) {
	storedName := uuid.NewString() + filepath.Ext(fileName)

	f, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		_ = os.Remove(f.Name())
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	return storedName, size, nil
}

func (s *DiskStore) PublicURL(storedName string) string {
	return s.baseURL + "/" + storedName
}

func (s *DiskStore) Remove(storedName string) error {
	if err := os.Remove(filepath.Join(s.dir, storedName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// Dir exposes the root directory for the static file route.
func (s *DiskStore) Dir() string { return s.dir }
