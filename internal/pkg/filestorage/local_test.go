package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadedFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	_, fh, err := req.FormFile("file")
	require.NoError(t, err)
	return fh
}

func TestLocalStorageSaveFile(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(base)
	require.NoError(t, err)

	fh := uploadedFileHeader(t, "receipt.jpg", []byte("fake image bytes"))

	storagePath, err := storage.SaveFile(fh, "payments")
	require.NoError(t, err)

	// Relative path under the namespace, randomized name, original extension
	assert.True(t, strings.HasPrefix(storagePath, "payments/"))
	assert.True(t, strings.HasSuffix(storagePath, ".jpg"))
	assert.NotContains(t, storagePath, "receipt")

	content, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(storagePath)))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image bytes"), content)
}

func TestLocalStorageSaveFileNilHeader(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	storagePath, err := storage.SaveFile(nil, "payments")
	require.NoError(t, err)
	assert.Empty(t, storagePath)
}

func TestLocalStorageDeleteFile(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(base)
	require.NoError(t, err)

	fh := uploadedFileHeader(t, "sig.png", []byte("png"))
	storagePath, err := storage.SaveFile(fh, "signatures")
	require.NoError(t, err)

	require.NoError(t, storage.DeleteFile(storagePath))
	_, err = os.Stat(filepath.Join(base, filepath.FromSlash(storagePath)))
	assert.True(t, os.IsNotExist(err))

	// Missing files count as already deleted
	assert.NoError(t, storage.DeleteFile("payments/gone.jpg"))
	assert.NoError(t, storage.DeleteFile(""))
}

func TestLocalStorageDeleteFileRejectsEscapes(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, storage.DeleteFile("../outside.txt"))
	assert.Error(t, storage.DeleteFile("/etc/passwd"))
	assert.Error(t, storage.DeleteFile("payments/../../outside.txt"))
}
