// Package storage keeps uploaded department logos on an afero filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// LogoDir is the folder logos are written to, relative to the storage root
const LogoDir = "logos"

// MaxLogoBytes is the largest accepted logo upload
const MaxLogoBytes = 5 << 20

var (
	ErrUnsupportedType = errors.New("unsupported logo file type")
	ErrTooLarge        = errors.New("logo file is too large")
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// LogoStore saves and removes logo files
type LogoStore struct {
	fs afero.Fs
}

// NewLogoStore creates a store on top of fs
func NewLogoStore(fs afero.Fs) *LogoStore {
	return &LogoStore{fs: fs}
}

// NewOSLogoStore creates a store rooted at dir on the local disk
func NewOSLogoStore(dir string) (*LogoStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, LogoDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}
	return NewLogoStore(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

// Save writes the logo under a fresh name and returns its relative path
// (for example "logos/1b4e28ba-2fa1-11d2-883f-0016d3cca427.png").
func (s *LogoStore) Save(originalName string, size int64, r io.Reader) (string, error) {
	if size > MaxLogoBytes {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(path.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	if err := s.fs.MkdirAll(LogoDir, 0o755); err != nil {
		return "", err
	}

	rel := path.Join(LogoDir, uuid.New().String()+ext)
	f, err := s.fs.Create(rel)
	if err != nil {
		return "", err
	}

	written, err := io.Copy(f, io.LimitReader(r, MaxLogoBytes+1))
	closeErr := f.Close()
	if err == nil && written > MaxLogoBytes {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(rel)
		return "", err
	}

	return rel, nil
}

// Remove deletes a previously saved logo. Empty paths and missing files are ignored.
func (s *LogoStore) Remove(rel string) error {
	if rel == "" || !strings.HasPrefix(rel, LogoDir+"/") {
		return nil
	}
	err := s.fs.Remove(rel)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether rel is present
func (s *LogoStore) Exists(rel string) bool {
	ok, _ := afero.Exists(s.fs, rel)
	return ok
}
