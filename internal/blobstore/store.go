package blobstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

var (
	ErrBlobNotFound    = errors.New("blob not found")
	ErrInvalidPathname = errors.New("invalid blob pathname")
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=blobstore_test

// Store is a flat key value store of JSON documents, addressed by slash separated pathnames
type Store interface {
	List(ctx context.Context, prefix string) ([]Blob, error)
	Put(ctx context.Context, pathname string, body []byte) (Blob, error)
	Get(ctx context.Context, pathname string) ([]byte, error)
	Delete(ctx context.Context, pathnames ...string) error
}

type Blob struct {
	Pathname   string    `json:"pathname"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ValidatePathname rejects absolute paths, empty segments and parent references
func ValidatePathname(pathname string) error {
	if pathname == "" || strings.HasPrefix(pathname, "/") || strings.HasSuffix(pathname, "/") {
		return fmt.Errorf("%q: %w", pathname, ErrInvalidPathname)
	}
	if path.Clean(pathname) != pathname {
		return fmt.Errorf("%q: %w", pathname, ErrInvalidPathname)
	}
	for _, segment := range strings.Split(pathname, "/") {
		if segment == "." || segment == ".." || strings.ContainsAny(segment, "\\\x00") {
			return fmt.Errorf("%q: %w", pathname, ErrInvalidPathname)
		}
	}
	return nil
}
