package uploads

import (
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var dataURLPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// Store saves asset images under a local directory and hands back the
// public URL path they are served from.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory images are stored in, for static serving.
func (s *Store) Dir() string {
	return s.dir
}

// SaveBase64 decodes a data-URL (or bare base64) image payload and
// writes it as a PNG file.
func (s *Store) SaveBase64(imageData string) (string, error) {
	raw := dataURLPrefix.ReplaceAllString(imageData, "")

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode image data: %w", err)
	}

	filename := uuid.NewString() + ".png"
	if err := os.WriteFile(filepath.Join(s.dir, filename), decoded, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return "/" + filepath.ToSlash(filepath.Join(s.dir, filename)), nil
}

// SaveMultipart stores an uploaded file, keeping the original extension.
func (s *Store) SaveMultipart(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	filename := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	if _, err := dst.ReadFrom(src); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return "/" + filepath.ToSlash(filepath.Join(s.dir, filename)), nil
}

// Remove deletes a stored image by its public URL path. A missing file
// is not an error.
func (s *Store) Remove(urlPath string) error {
	if urlPath == "" {
		return nil
	}

	name := filepath.Base(strings.TrimPrefix(urlPath, "/"))
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image file: %w", err)
	}

	return nil
}
