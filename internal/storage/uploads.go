// Package storage persists uploaded featured images on local disk.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chronicle/internal/models"
)

// DefaultImage is recorded for posts created without an upload.
const DefaultImage = "default.jpg"

var allowedExtensions = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "bmp": {},
}

// Uploads writes featured images beneath a root directory, one subdirectory
// per owner username.
type Uploads struct {
	root string
}

// NewUploads returns an Uploads store rooted at dir.
func NewUploads(dir string) *Uploads {
	return &Uploads{root: dir}
}

// Root returns the storage root directory.
func (u *Uploads) Root() string {
	return u.root
}

// Store validates the file's extension, writes the content under the owner's
// directory with a millisecond-timestamp name, and returns the path relative
// to the storage root. The extension is everything after the first dot.
func (u *Uploads) Store(filename string, content io.Reader, owner string) (string, error) {
	if owner == "" {
		return "", models.NewValidationError("User not found")
	}

	_, ext, found := strings.Cut(filename, ".")
	if !found {
		return "", models.NewValidationError("Invalid file type")
	}
	ext = strings.ToLower(ext)
	if _, ok := allowedExtensions[ext]; !ok {
		return "", models.NewValidationError("Invalid file type")
	}

	ownerDir := filepath.Join(u.root, owner)
	if err := os.MkdirAll(ownerDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	now := time.Now()
	name := fmt.Sprintf("%s%03d.%s", now.Format("20060102150405"), now.Nanosecond()/int(time.Millisecond), ext)

	dst, err := os.Create(filepath.Join(ownerDir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return filepath.Join(owner, name), nil
}
