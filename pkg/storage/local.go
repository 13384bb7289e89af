package storage

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/egorvolkov/storefront-backend/pkg/errors"
)

const (
	keyPrefixLen = 5
	keySeparator = "_"
)

var keyCharset = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// Photo uploads are limited to raster images the catalog can render.
var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// AllowedExtension reports whether the filename carries a permitted photo extension.
func AllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := allowedExtensions[ext]
	return ok
}

// NewObjectKey derives a storage key for the uploaded filename by prefixing it
// with five random alphanumerics and a separator. The extension is left
// untouched so extension checks keep applying to the key. No uniqueness probe
// is made; the keyspace makes collisions vanishingly rare.
func NewObjectKey(filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "filename is required")
	}
	if !AllowedExtension(filename) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported photo extension %q", filepath.Ext(filename)))
	}

	prefix := make([]rune, keyPrefixLen)
	for i := range prefix {
		idx, err := randInt(len(keyCharset))
		if err != nil {
			return "", err
		}
		prefix[i] = keyCharset[idx]
	}
	return string(prefix) + keySeparator + filename, nil
}

// OriginalName recovers the uploaded filename by stripping the random prefix
// and separator from a storage key.
func OriginalName(key string) (string, error) {
	if len(key) <= keyPrefixLen+1 || key[keyPrefixLen:keyPrefixLen+1] != keySeparator {
		return "", fmt.Errorf("malformed object key %q", key)
	}
	return key[keyPrefixLen+1:], nil
}

func randInt(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	var buff = make([]byte, 1)
	if _, err := rand.Read(buff); err != nil {
		return 0, err
	}
	return int(buff[0]) % max, nil
}

// Store persists photo files on local disk under a configured root directory.
type Store struct {
	root     string
	maxBytes int64
}

// NewStore builds a disk store rooted at dir, creating it when absent.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("media root dir is required")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("upload size cap must be positive")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media root: %w", err)
	}
	return &Store{root: dir, maxBytes: maxBytes}, nil
}

// Save writes the upload under the object key and returns the byte count.
// Uploads beyond the configured cap are rejected.
func (s *Store) Save(key string, r io.Reader) (int64, error) {
	if key == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "object key is required")
	}

	f, err := os.Create(s.Path(key))
	if err != nil {
		return 0, fmt.Errorf("creating media file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return 0, fmt.Errorf("writing media file: %w", err)
	}
	if written > s.maxBytes {
		if removeErr := os.Remove(s.Path(key)); removeErr != nil {
			return 0, removeErr
		}
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "upload exceeds size cap")
	}
	return written, nil
}

// Remove deletes the stored object. A missing file is not an error.
func (s *Store) Remove(key string) error {
	if key == "" {
		return nil
	}
	if err := os.Remove(s.Path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing media file: %w", err)
	}
	return nil
}

// Path resolves the object key to an absolute location on disk.
func (s *Store) Path(key string) string {
	return filepath.Join(s.root, filepath.Base(key))
}
