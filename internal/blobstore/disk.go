package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/2beens/mm2kbench/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*DiskStore)(nil)

// DiskStore keeps every blob as a file under rootPath, pathname segments become directories
type DiskStore struct {
	rootPath string
	mutex    sync.RWMutex
}

func NewDiskStore(rootPath string) (*DiskStore, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("create root dir: %w", err)
	}
	return &DiskStore{
		rootPath: rootPath,
	}, nil
}

func (ds *DiskStore) filePath(pathname string) string {
	return filepath.Join(ds.rootPath, filepath.FromSlash(pathname))
}

func (ds *DiskStore) List(ctx context.Context, prefix string) (_ []Blob, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("blob.prefix", prefix))

	ds.mutex.RLock()
	defer ds.mutex.RUnlock()

	var blobs []Blob
	err = filepath.WalkDir(ds.rootPath, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || strings.HasSuffix(p, tmpSuffix) {
			return nil
		}
		rel, err := filepath.Rel(ds.rootPath, p)
		if err != nil {
			return err
		}
		pathname := filepath.ToSlash(rel)
		if !strings.HasPrefix(pathname, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		blobs = append(blobs, Blob{
			Pathname:   pathname,
			Size:       info.Size(),
			UploadedAt: info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", ds.rootPath, err)
	}

	sort.Slice(blobs, func(i, j int) bool {
		return blobs[i].Pathname < blobs[j].Pathname
	})
	return blobs, nil
}

const tmpSuffix = ".tmp"

func (ds *DiskStore) Put(ctx context.Context, pathname string, body []byte) (_ Blob, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("blob.pathname", pathname))
	span.SetAttributes(attribute.Int("blob.size", len(body)))

	if err := ValidatePathname(pathname); err != nil {
		return Blob{}, err
	}

	ds.mutex.Lock()
	defer ds.mutex.Unlock()

	target := ds.filePath(pathname)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Blob{}, fmt.Errorf("create blob dir: %w", err)
	}

	// write aside and rename, readers never see a half written document
	tmp := target + tmpSuffix
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return Blob{}, fmt.Errorf("write blob: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			log.Errorf("disk store: remove tmp file %s: %s", tmp, removeErr)
		}
		return Blob{}, fmt.Errorf("rename blob: %w", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return Blob{}, fmt.Errorf("stat blob: %w", err)
	}

	log.Debugf("disk store: saved %s [%d bytes]", pathname, info.Size())

	return Blob{
		Pathname:   pathname,
		Size:       info.Size(),
		UploadedAt: info.ModTime().UTC(),
	}, nil
}

func (ds *DiskStore) Get(ctx context.Context, pathname string) (_ []byte, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("blob.pathname", pathname))

	if err := ValidatePathname(pathname); err != nil {
		return nil, err
	}

	ds.mutex.RLock()
	defer ds.mutex.RUnlock()

	body, err := os.ReadFile(ds.filePath(pathname))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return body, nil
}

// Delete removes the given blobs, missing ones are skipped
func (ds *DiskStore) Delete(ctx context.Context, pathnames ...string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("blob.count", len(pathnames)))

	for _, pathname := range pathnames {
		if err := ValidatePathname(pathname); err != nil {
			return err
		}
	}

	ds.mutex.Lock()
	defer ds.mutex.Unlock()

	for _, pathname := range pathnames {
		target := ds.filePath(pathname)
		if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove blob %s: %w", pathname, err)
		}
		ds.removeEmptyParents(filepath.Dir(target))
	}

	log.Debugf("disk store: deleted %d blobs", len(pathnames))
	return nil
}

func (ds *DiskStore) removeEmptyParents(dir string) {
	root := filepath.Clean(ds.rootPath)
	for dir != root && strings.HasPrefix(dir, root) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
