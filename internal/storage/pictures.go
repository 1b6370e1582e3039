// Package storage keeps user-namespaced profile pictures on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxPictureSize is the largest accepted picture upload.
const MaxPictureSize = 5 * 1024 * 1024

// ErrPictureNotFound is returned for names that do not resolve to a stored picture.
var ErrPictureNotFound = errors.New("picture not found")

var pictureExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
	"image/webp": "webp",
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"webp": "image/webp",
}

var pictureName = regexp.MustCompile(`^profile_\d+\.(png|jpe?g|webp)$`)

// ValidationError describes a rejected picture upload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid picture: %s", e.Message)
}

// PictureStore writes pictures under <root>/<user_id>/profile_<unix-millis>.<ext>
// and serves them below a public URL prefix.
type PictureStore struct {
	root      string
	publicURL string
	logger    *slog.Logger
	now       func() time.Time
}

// NewPictureStore creates the root directory if needed.
func NewPictureStore(root, publicURL string, logger *slog.Logger) (*PictureStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create picture directory: %w", err)
	}
	return &PictureStore{
		root:      root,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
		now:       time.Now,
	}, nil
}

// ValidatePicture checks MIME type and size. Exactly MaxPictureSize bytes is accepted.
func ValidatePicture(data []byte, contentType string) (string, error) {
	mime := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := pictureExtensions[mime]
	if !ok {
		return "", &ValidationError{Message: fmt.Sprintf("unsupported type %q; use PNG, JPEG or WebP", contentType)}
	}
	if len(data) == 0 {
		return "", &ValidationError{Message: "file is empty"}
	}
	if len(data) > MaxPictureSize {
		return "", &ValidationError{Message: "file exceeds 5 MB"}
	}
	return ext, nil
}

// Save stores a new picture for userID and returns its public URL. When previousURL
// points at a picture of the same user, that file is removed best-effort.
func (s *PictureStore) Save(userID uuid.UUID, data []byte, contentType, previousURL string) (string, error) {
	ext, err := ValidatePicture(data, contentType)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, userID.String())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create user picture directory: %w", err)
	}

	name := "profile_" + strconv.FormatInt(s.now().UnixMilli(), 10) + "." + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o640); err != nil {
		return "", fmt.Errorf("failed to write picture: %w", err)
	}

	url := s.URL(userID, name)
	if previousURL != "" && previousURL != url {
		s.Remove(userID, previousURL)
	}
	return url, nil
}

// URL is the public address of a stored picture.
func (s *PictureStore) URL(userID uuid.UUID, name string) string {
	return s.publicURL + "/" + userID.String() + "/" + name
}

// Remove deletes the file behind a URL issued for userID. Failures are logged, not returned.
func (s *PictureStore) Remove(userID uuid.UUID, url string) {
	name, ok := s.nameFromURL(userID, url)
	if !ok {
		s.logger.Warn("ignoring picture removal for foreign url", "user_id", userID, "url", url)
		return
	}
	if err := os.Remove(filepath.Join(s.root, userID.String(), name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("failed to remove picture", "user_id", userID, "name", name, "error", err)
	}
}

func (s *PictureStore) nameFromURL(userID uuid.UUID, url string) (string, bool) {
	prefix := s.publicURL + "/" + userID.String() + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	return name, pictureName.MatchString(name)
}

// Open reads a stored picture and reports its content type.
func (s *PictureStore) Open(userID uuid.UUID, name string) ([]byte, string, error) {
	if !pictureName.MatchString(name) {
		return nil, "", ErrPictureNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.root, userID.String(), name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrPictureNotFound
		}
		return nil, "", fmt.Errorf("failed to read picture: %w", err)
	}
	return data, contentTypes[strings.TrimPrefix(path.Ext(name), ".")], nil
}

// OpenURL resolves a URL issued by this store, for any user.
func (s *PictureStore) OpenURL(url string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(url, s.publicURL+"/")
	if !ok {
		return nil, "", ErrPictureNotFound
	}
	userPart, name, ok := strings.Cut(rest, "/")
	if !ok {
		return nil, "", ErrPictureNotFound
	}
	userID, err := uuid.Parse(userPart)
	if err != nil {
		return nil, "", ErrPictureNotFound
	}
	return s.Open(userID, name)
}
