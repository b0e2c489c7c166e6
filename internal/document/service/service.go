package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/studentportal/portal/backend/go-services/internal/document"
	"github.com/studentportal/portal/backend/go-services/internal/document/repository"
	"github.com/studentportal/portal/backend/go-services/internal/storage"
	"github.com/studentportal/portal/backend/go-services/pkg/logger"
)

// Service defines the document business operations used by the handler layer.
// None of them check who is asking: the owner id is whatever the caller passes.
type Service interface {
	Save(ctx context.Context, ownerID int64, originalName string, content io.Reader, size int64) (*document.Document, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*document.Document, error)
	GetByID(ctx context.Context, id int64) (*document.Document, error)
	ResolveBlobPath(d *document.Document) string
	Open(ctx context.Context, d *document.Document) (io.ReadCloser, int64, error)
}

// New returns a Service storing metadata in repo and content in blobs.
func New(repo repository.Repository, blobs storage.BlobStore) Service {
	return &store{repo: repo, blobs: blobs, now: time.Now}
}

type store struct {
	repo  repository.Repository
	blobs storage.BlobStore
	now   func() time.Time
}

// StoredName builds the blob key "{owner}_{unix seconds}_{file name}" from
// an already sanitized file name.
func StoredName(ownerID int64, at time.Time, safeName string) string {
	return fmt.Sprintf("%d_%d_%s", ownerID, at.Unix(), safeName)
}

// maxNameAttempts bounds how many later seconds Save tries when the stored
// name it built is already taken.
const maxNameAttempts = 5

// Save writes the blob first and commits the metadata record second. When the
// record cannot be written the blob is removed again. Blobs are never
// overwritten: if the stored name is taken (same owner, file name and second)
// the name moves to the next second, provided content can be rewound.
func (s *store) Save(ctx context.Context, ownerID int64, originalName string, content io.Reader, size int64) (*document.Document, error) {
	safe, err := storage.SanitizeName(originalName)
	if err != nil {
		return nil, err
	}
	at := s.now().UTC().Truncate(time.Microsecond)
	d := &document.Document{
		UserID:       ownerID,
		OriginalName: originalName,
		UploadedAt:   at,
	}

	if err := s.putBlob(ctx, d, at, safe, content, size); err != nil {
		return nil, err
	}
	// the key was free before Put, so the blob is ours to remove
	if err := s.repo.Create(ctx, d); err != nil {
		if derr := s.blobs.Delete(ctx, d.StoredName); derr != nil {
			logger.Warnf("document: orphaned blob %s after metadata failure: %v", s.blobs.Path(d.StoredName), derr)
		}
		return nil, fmt.Errorf("%w: record %s: %v", document.ErrStorageFailure, d.StoredName, err)
	}
	logger.Debugf("document: saved id=%d owner=%d blob=%s", d.ID, d.UserID, s.blobs.Path(d.StoredName))
	return d, nil
}

func (s *store) putBlob(ctx context.Context, d *document.Document, at time.Time, safe string, content io.Reader, size int64) error {
	rewind, _ := content.(io.Seeker)
	for attempt := 0; ; attempt++ {
		d.StoredName = StoredName(d.UserID, at.Add(time.Duration(attempt)*time.Second), safe)
		err := s.blobs.Put(ctx, d.StoredName, content, size)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrBlobExists) || rewind == nil || attempt+1 >= maxNameAttempts {
			return fmt.Errorf("%w: write %s: %v", document.ErrStorageFailure, s.blobs.Path(d.StoredName), err)
		}
		if _, serr := rewind.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("%w: rewind upload: %v", document.ErrStorageFailure, serr)
		}
		logger.Debugf("document: %s taken, trying the next second", d.StoredName)
	}
}

func (s *store) ListByOwner(ctx context.Context, ownerID int64) ([]*document.Document, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *store) GetByID(ctx context.Context, id int64) (*document.Document, error) {
	return s.repo.Get(ctx, id)
}

func (s *store) ResolveBlobPath(d *document.Document) string {
	return s.blobs.Path(d.StoredName)
}

// Open streams the blob of d. A record whose blob is gone reads as
// document.ErrNotFound.
func (s *store) Open(ctx context.Context, d *document.Document) (io.ReadCloser, int64, error) {
	rc, size, err := s.blobs.Open(ctx, d.StoredName)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			logger.Warnf("document: id=%d has no blob at %s", d.ID, s.ResolveBlobPath(d))
			return nil, 0, document.ErrNotFound
		}
		return nil, 0, fmt.Errorf("%w: read %s: %v", document.ErrStorageFailure, s.ResolveBlobPath(d), err)
	}
	return rc, size, nil
}
