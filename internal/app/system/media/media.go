// internal/app/system/media/media.go
package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store writes idea media attachments to local disk under a base path and
// serves them by storage-relative path. Paths use the layout
// ideas/YYYY/MM/<uuid8><ext> so names never collide and directories stay
// shallow.
type Store struct {
	basePath string
	baseURL  string
}

// New creates a media Store rooted at basePath, served under baseURL.
func New(basePath, baseURL string) *Store {
	return &Store{basePath: basePath, baseURL: strings.TrimRight(baseURL, "/")}
}

// allowed media extensions; everything else is rejected at upload.
var allowedExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".pdf": true, ".mp4": true,
}

// Save stores the upload and returns its storage-relative path.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("unsupported media type %q", ext)
	}

	now := time.Now().UTC()
	rel := filepath.Join("ideas", now.Format("2006"), now.Format("01"),
		fmt.Sprintf("%s%s", uuid.New().String()[:8], ext))

	abs := filepath.Join(s.basePath, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(abs)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(abs)
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Delete removes a stored attachment. Used by the compensating cleanup
// when an idea create fails after its media was uploaded.
func (s *Store) Delete(rel string) error {
	abs, err := s.abs(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// URL returns the public URL for a storage-relative path.
func (s *Store) URL(rel string) string {
	return s.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(rel), "/")
}

// abs resolves rel under basePath, rejecting traversal outside it.
func (s *Store) abs(rel string) (string, error) {
	abs := filepath.Join(s.basePath, filepath.FromSlash(rel))
	base, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.Abs(abs)
	if err != nil {
		return "", err
	}
	if resolved != base && !strings.HasPrefix(resolved, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes media root", rel)
	}
	return resolved, nil
}
