package document

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no document (or its blob) exists.
	ErrNotFound = errors.New("document not found")
	// ErrStorageFailure wraps I/O errors while saving or reading blobs.
	ErrStorageFailure = errors.New("storage failure")
)

// Document is the metadata record of an uploaded file. UserID is the owner
// reference supplied by the uploading client; it is not tied to the
// authenticated account.
type Document struct {
	ID           int64     `bson:"_id" json:"id"`
	UserID       int64     `bson:"user_id" json:"-"`
	OriginalName string    `bson:"original_name" json:"original_name"`
	StoredName   string    `bson:"stored_name" json:"stored_name"`
	UploadedAt   time.Time `bson:"uploaded_at" json:"-"`
}
