package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"scrawl/internal/models"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	DefaultUploadDir  = "uploads"
	MaxImageSizeBytes = 5 * 1024 * 1024
)

// ImageService stores post and profile images on disk under a single
// upload directory. Filenames carry a uuid so a deleted name is never
// reused while a stale reader still holds it.
type ImageService struct {
	uploadDir string
	logger    *slog.Logger
}

func NewImageService(uploadDir string, logger *slog.Logger) *ImageService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &ImageService{uploadDir: uploadDir, logger: logger}
}

// EnsureDir creates the upload directory and guarantees the default
// profile image placeholder exists.
func (s *ImageService) EnsureDir() error {
	if err := os.MkdirAll(s.uploadDir, 0o750); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}
	defaultPath := filepath.Join(s.uploadDir, models.DefaultProfileImage)
	if _, err := os.Stat(defaultPath); os.IsNotExist(err) {
		// Placeholder so profile image reads never 404 on fresh installs.
		if writeErr := os.WriteFile(defaultPath, []byte{}, 0o600); writeErr != nil {
			return fmt.Errorf("failed to create default image: %w", writeErr)
		}
	}
	return nil
}

// UploadDir returns the directory images are written to.
func (s *ImageService) UploadDir() string {
	return s.uploadDir
}

// SaveBase64 decodes a "data:image/...;base64,..." payload, validates it
// and writes it under a fresh uuid filename. It returns the stored
// filename (not the full path).
func (s *ImageService) SaveBase64(data string) (string, error) {
	payload, ext, err := parseDataURL(data)
	if err != nil {
		return "", models.NewValidationError(err.Error())
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", models.NewValidationError("invalid base64 image data")
	}
	if len(raw) == 0 {
		return "", models.NewValidationError("empty image data")
	}
	if len(raw) > MaxImageSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("image too large (max %dMB)", MaxImageSizeBytes/(1024*1024)))
	}

	// Decode the header to confirm the bytes really are an image of a
	// supported format, regardless of what the data URL claimed.
	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", models.NewValidationError("invalid image file")
	}
	if !isSupportedImageFormat(format) {
		return "", models.NewValidationError("unsupported image format")
	}

	filename := uuid.NewString() + "." + ext
	path := filepath.Join(s.uploadDir, filename)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", models.NewInternalError(fmt.Errorf("failed to write image: %w", err))
	}
	return filename, nil
}

// Delete removes a stored image file. The default profile image and
// empty names are never deleted. A missing file is not an error.
func (s *ImageService) Delete(filename string) error {
	if filename == "" || filename == models.DefaultProfileImage {
		return nil
	}
	// Reject anything that could escape the upload directory.
	if filepath.Base(filename) != filename {
		return models.NewValidationError("invalid image filename")
	}
	err := os.Remove(filepath.Join(s.uploadDir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DeleteQuietly removes a stored image, logging failures instead of
// propagating them. Record mutations never fail because a leftover
// file could not be removed.
func (s *ImageService) DeleteQuietly(filename string) {
	if err := s.Delete(filename); err != nil && s.logger != nil {
		s.logger.Warn("failed to remove image file",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
	}
}

// parseDataURL splits a data URL into its base64 payload and a file
// extension derived from the declared media type.
func parseDataURL(data string) (payload, ext string, err error) {
	if !strings.HasPrefix(data, "data:image/") {
		return "", "", fmt.Errorf("image must be a data URL")
	}
	rest := strings.TrimPrefix(data, "data:image/")
	semi := strings.Index(rest, ";base64,")
	if semi < 0 {
		return "", "", fmt.Errorf("image data URL must be base64 encoded")
	}
	ext = strings.ToLower(rest[:semi])
	if ext == "jpg" {
		ext = "jpeg"
	}
	switch ext {
	case "jpeg", "png", "gif", "webp":
	default:
		return "", "", fmt.Errorf("unsupported image type %q", ext)
	}
	return rest[semi+len(";base64,"):], ext, nil
}

func isSupportedImageFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}
