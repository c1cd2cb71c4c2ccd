package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sarmin881340/taka-portal/internal/utils"
)

const MaxFileSize = 5 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Store writes review screenshots to a directory on disk.
type Store struct {
	Dir string
}

// New ensures the upload directory exists and returns a Store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{Dir: dir}, nil
}

// SaveScreenshot persists an uploaded screenshot and returns the stored file
// name.  The name combines the upload timestamp, a random suffix and the
// original base name, so two uploads in the same second can never collide.
func (s *Store) SaveScreenshot(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxFileSize {
		return "", fmt.Errorf("file %s exceeds the 5MB limit", fh.Filename)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("file %s must be a JPG or PNG image", fh.Filename)
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	base := filepath.Base(fh.Filename)
	name := fmt.Sprintf("%d-%s-%s", time.Now().Unix(), utils.RandomSuffix(), base)

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}
