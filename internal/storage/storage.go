// Package storage holds document blobs. Keys are stored file names produced
// by the document service; every backend rejects keys that could escape its
// root.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

var (
	// ErrBlobNotFound is returned by Open when no blob exists for the key.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrInvalidName is returned for names that are empty after sanitizing.
	ErrInvalidName = errors.New("invalid file name")
	// ErrBlobExists is returned by Put when key is already taken. Blobs are
	// never overwritten.
	ErrBlobExists = errors.New("blob already exists")
)

// BlobStore is the persistence contract for uploaded content.
type BlobStore interface {
	// Put stores r under key, failing with ErrBlobExists when key is taken.
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, key string) error
	// Path reports where the blob for key lives, for logs and diagnostics.
	Path(key string) string
	Ping(ctx context.Context) error
}

// SanitizeName reduces a client supplied file name to a single safe path
// element: directories (either separator) are stripped, control characters
// removed, and "", "." and ".." rejected.
func SanitizeName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}

// validKey reports whether key is already a single safe path element.
func validKey(key string) bool {
	clean, err := SanitizeName(key)
	return err == nil && clean == key
}
