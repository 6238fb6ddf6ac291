// Package upload persists medical documents attached to bookings.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	MaxFileSize = 10 << 20

	// PublicPrefix is the URL prefix uploads are served under and the prefix
	// of every stored document path.
	PublicPrefix = "uploads"
)

var ErrTooLarge = errors.New("file exceeds the 10 MiB limit")

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes fh under the upload directory and returns its public path,
// "uploads/<unix-millis>-<name>". Files of a disallowed content type are
// skipped and an empty path is returned with no error.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", nil
	}
	if !allowedTypes[contentType(fh)] {
		return "", nil
	}
	if fh.Size > MaxFileSize {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + baseName(fh.Filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, io.LimitReader(src, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if n > MaxFileSize {
		_ = os.Remove(dst.Name())
		return "", ErrTooLarge
	}

	return NormalizePath(path.Join(PublicPrefix, name)), nil
}

var ErrNotStored = errors.New("path does not name a stored document")

// Remove deletes a document previously returned by Save. Only direct
// children of the upload directory can be named.
func (s *Store) Remove(publicPath string) error {
	name, ok := strings.CutPrefix(NormalizePath(publicPath), PublicPrefix+"/")
	if !ok || name == "" || name != path.Base(name) || name == ".." {
		return ErrNotStored
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// NormalizePath replaces every backslash with a forward slash.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func contentType(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func baseName(filename string) string {
	name := path.Base(NormalizePath(filename))
	if name == "." || name == "/" || name == "" {
		return "document"
	}
	return name
}
