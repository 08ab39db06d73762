package service

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scrawl/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A valid 1x1 transparent PNG.
const tinyPNGBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func tinyPNGDataURL() string {
	return "data:image/png;base64," + tinyPNGBase64
}

func TestImageService_EnsureDir(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "uploads")
	svc := testImageService(dir)

	require.NoError(t, svc.EnsureDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(filepath.Join(dir, models.DefaultProfileImage))
	assert.NoError(t, err, "default placeholder should exist")
}

func TestImageService_SaveBase64(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	svc := testImageService(dir)

	filename, err := svc.SaveBase64(tinyPNGDataURL())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	expected, _ := base64.StdEncoding.DecodeString(tinyPNGBase64)
	assert.Equal(t, expected, data)

	// A second save of the same payload gets a distinct name.
	second, err := svc.SaveBase64(tinyPNGDataURL())
	require.NoError(t, err)
	assert.NotEqual(t, filename, second)
}

func TestImageService_SaveBase64_Rejections(t *testing.T) {
	t.Parallel()
	svc := testImageService(t.TempDir())

	tests := []struct {
		name string
		data string
	}{
		{"Not A Data URL", "just-some-text"},
		{"Wrong Scheme", "data:text/plain;base64,aGVsbG8="},
		{"Not Base64 Encoded", "data:image/png;utf8,hello"},
		{"Unsupported Type", "data:image/tiff;base64," + tinyPNGBase64},
		{"Invalid Base64", "data:image/png;base64,!!!not-base64!!!"},
		{"Empty Payload", "data:image/png;base64,"},
		{"Not An Image", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("plain text"))},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveBase64(tt.data)
			assert.Error(t, err)
			var appErr *models.AppError
			assert.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestImageService_SaveBase64_TooLarge(t *testing.T) {
	t.Parallel()
	svc := testImageService(t.TempDir())

	big := make([]byte, MaxImageSizeBytes+1)
	_, err := svc.SaveBase64("data:image/png;base64," + base64.StdEncoding.EncodeToString(big))
	assert.ErrorContains(t, err, "too large")
}

func TestImageService_Delete(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	svc := testImageService(dir)

	filename, err := svc.SaveBase64(tinyPNGDataURL())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(filename))
	_, statErr := os.Stat(filepath.Join(dir, filename))
	assert.True(t, os.IsNotExist(statErr))

	// Deleting again is not an error.
	assert.NoError(t, svc.Delete(filename))
}

func TestImageService_Delete_PreservesDefault(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	svc := testImageService(dir)
	require.NoError(t, svc.EnsureDir())

	require.NoError(t, svc.Delete(models.DefaultProfileImage))
	_, err := os.Stat(filepath.Join(dir, models.DefaultProfileImage))
	assert.NoError(t, err, "default image must never be deleted")

	assert.NoError(t, svc.Delete(""))
}

func TestImageService_Delete_RejectsPathTraversal(t *testing.T) {
	t.Parallel()
	svc := testImageService(t.TempDir())

	assert.Error(t, svc.Delete("../etc/passwd"))
	assert.Error(t, svc.Delete("nested/evil.png"))
}
