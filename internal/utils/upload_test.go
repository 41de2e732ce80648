package utils

import (
	"encoding/base64"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSignatureImage(t *testing.T) {
	dir := t.TempDir()
	payload := base64.StdEncoding.EncodeToString([]byte("signature-bytes"))

	path, err := SaveSignatureImage(payload, dir)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("signature-bytes"), data)
}

func TestSaveSignatureImageDataURL(t *testing.T) {
	dir := t.TempDir()
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	path, err := SaveSignatureImage(payload, dir)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestSaveSignatureImageRejectsBadPayload(t *testing.T) {
	dir := t.TempDir()

	_, err := SaveSignatureImage("   ", dir)
	require.Error(t, err)

	_, err = SaveSignatureImage("not&&base64!!", dir)
	require.Error(t, err)
}

func TestAllowedImageExt(t *testing.T) {
	assert.True(t, allowedImageExt("photo.JPG"))
	assert.True(t, allowedImageExt("photo.webp"))
	assert.False(t, allowedImageExt("document.pdf"))
	assert.False(t, allowedImageExt("archive.tar.gz"))
}
