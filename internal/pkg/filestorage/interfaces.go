package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the interface for file storage operations.
// Stored files are identified by their storage path relative to the
// storage root (e.g. "payments/3f1a....jpg").
type FileStorage interface {
	// SaveFile stores an uploaded file under the given namespace and
	// returns its storage path.
	SaveFile(fileHeader *multipart.FileHeader, namespace string) (string, error)

	// DeleteFile removes a previously stored file. Deleting a missing
	// file is not an error.
	DeleteFile(storagePath string) error
}
