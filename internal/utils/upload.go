package utils

import (
	"encoding/base64" // Signature payload decoding
	"errors"
	"mime/multipart" // Uploaded file handling
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // Random file names
)

// MaxImageSize is the upload limit for order photos.
const MaxImageSize = 5 * 1024 * 1024 // 5MB

var ErrInvalidImage = errors.New("only jpg, jpeg, png and webp images up to 5MB are allowed")

// allowedImageExt checks the file extension of an uploaded image.
func allowedImageExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

// SaveOrderImage validates and stores an uploaded order photo under
// dir/orders, returning the stored path.
func SaveOrderImage(c *gin.Context, file *multipart.FileHeader, dir string) (string, error) {
	if file.Size > MaxImageSize || !allowedImageExt(file.Filename) {
		return "", ErrInvalidImage
	}
	dst := filepath.Join(dir, "orders", uuid.NewString()+strings.ToLower(filepath.Ext(file.Filename)))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// SaveSignatureImage decodes a base64 signature payload (optionally a data
// URL) and stores it under dir/signatures, returning the stored path.
func SaveSignatureImage(payload, dir string) (string, error) {
	if strings.TrimSpace(payload) == "" {
		return "", errors.New("empty signature payload")
	}
	// Strip a "data:image/png;base64," style prefix if present
	if i := strings.Index(payload, ","); i >= 0 && strings.Contains(payload[:i], "base64") {
		payload = payload[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(dir, "signatures", uuid.NewString()+".png")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}
	return dst, nil
}
