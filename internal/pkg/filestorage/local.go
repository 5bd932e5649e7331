package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/skykeen/events-backend/internal/pkg/logger"
)

// LocalStorage saves uploaded files on the local filesystem under a base
// directory. Each namespace ("payments", "signatures") becomes a
// subdirectory; filenames are randomized to prevent collisions.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// SaveFile stores an uploaded file under the given namespace and returns the
// storage path relative to the storage root ("payments/<uuid>.jpg").
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, namespace string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dirPath := ls.basePath
	if namespace != "" {
		dirPath = filepath.Join(ls.basePath, namespace)
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", dirPath).Msg("Failed to create storage namespace directory")
			return "", fmt.Errorf("failed to create storage namespace directory: %w", err)
		}
	}

	ext := filepath.Ext(fileHeader.Filename)
	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(dirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		// Remove the partially written file
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	storagePath := path.Join(namespace, uniqueFilename)
	logger.Info().Str("filename", fileHeader.Filename).Str("storagePath", storagePath).Msg("File saved")
	return storagePath, nil
}

// DeleteFile removes a stored file by its storage path. Paths that escape the
// storage root are rejected; a missing file is treated as already deleted.
func (ls *LocalStorage) DeleteFile(storagePath string) error {
	if storagePath == "" {
		return nil
	}

	cleaned := path.Clean(storagePath)
	if strings.HasPrefix(cleaned, "..") || path.IsAbs(cleaned) {
		return fmt.Errorf("invalid storage path: %s", storagePath)
	}

	physicalPath := filepath.Join(ls.basePath, filepath.FromSlash(cleaned))
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted")
	return nil
}
