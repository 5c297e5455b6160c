// Package uploads persists multipart file uploads on the local filesystem.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrTooLarge indicates the upload exceeds the configured size limit.
var ErrTooLarge = errors.New("uploads: file too large")

// ErrMalformed indicates the request body is not valid multipart data.
var ErrMalformed = errors.New("uploads: malformed multipart body")

// ErrUnsupportedType indicates a disallowed content type.
var ErrUnsupportedType = errors.New("uploads: unsupported file type")

// allowedTypes maps accepted MIME types to the stored extension.
var allowedTypes = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

// Store writes uploads under a root directory with random object names.
type Store struct {
	root    string
	maxSize int64
}

// NewStore creates the root directory when missing.
func NewStore(root string, maxSize int64) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: create root: %w", err)
	}
	return &Store{root: root, maxSize: maxSize}, nil
}

// Save reads the named multipart field and persists it under prefix/.
// Returns the relative object path recorded on the owning row.
func (s *Store) Save(r *http.Request, field, prefix string) (string, error) {
	if err := r.ParseMultipartForm(s.maxSize); err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return "", ErrTooLarge
		}
		return "", ErrMalformed
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", ErrMalformed
	}
	defer file.Close()

	if header.Size > s.maxSize {
		return "", ErrTooLarge
	}

	// Sniff the real content type instead of trusting the client header.
	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	contentType := http.DetectContentType(head[:n])
	contentType = strings.SplitN(contentType, ";", 2)[0]
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	rel := path.Join(prefix, uuid.NewString()+ext)
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, io.LimitReader(file, s.maxSize)); err != nil {
		return "", err
	}
	return rel, nil
}

// ServeHTTP serves a stored object. The wildcard path is cleaned and must
// stay inside the root.
func (s *Store) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/api/files/")
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || strings.HasPrefix(clean, "..") {
		http.NotFound(w, r)
		return
	}
	full := filepath.Join(s.root, clean)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, full)
}

// Remove deletes a stored object, ignoring objects that are already gone.
func (s *Store) Remove(rel string) error {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, clean))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
