package blobstore

import (
	"context"
	"errors"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ Store = (*CachedStore)(nil)

const (
	megabyte         = 1024 * 1024
	DefaultCacheSize = 32 * megabyte
	// seconds
	cacheExpire = 10 * 60
)

// CachedStore serves Get from an in-memory cache, writes go straight through
// and evict the affected entries
type CachedStore struct {
	store Store
	cache *freecache.Cache
}

func NewCachedStore(store Store, cacheSizeBytes int) *CachedStore {
	if cacheSizeBytes <= 0 {
		cacheSizeBytes = DefaultCacheSize
	}
	return &CachedStore{
		store: store,
		cache: freecache.NewCache(cacheSizeBytes),
	}
}

func (cs *CachedStore) List(ctx context.Context, prefix string) ([]Blob, error) {
	return cs.store.List(ctx, prefix)
}

func (cs *CachedStore) Put(ctx context.Context, pathname string, body []byte) (Blob, error) {
	cs.cache.Del([]byte(pathname))
	blob, err := cs.store.Put(ctx, pathname, body)
	if err != nil {
		return Blob{}, err
	}
	if err := cs.cache.Set([]byte(pathname), body, cacheExpire); err != nil {
		// too large for the cache, reads just go to the store
		log.Debugf("blob cache: skip %s: %s", pathname, err)
	}
	return blob, nil
}

func (cs *CachedStore) Get(ctx context.Context, pathname string) ([]byte, error) {
	if body, err := cs.cache.Get([]byte(pathname)); err == nil {
		return body, nil
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Errorf("blob cache get %s: %s", pathname, err)
	}

	body, err := cs.store.Get(ctx, pathname)
	if err != nil {
		return nil, err
	}
	if err := cs.cache.Set([]byte(pathname), body, cacheExpire); err != nil {
		log.Debugf("blob cache: skip %s: %s", pathname, err)
	}
	return body, nil
}

func (cs *CachedStore) Delete(ctx context.Context, pathnames ...string) error {
	for _, p := range pathnames {
		cs.cache.Del([]byte(p))
	}
	return cs.store.Delete(ctx, pathnames...)
}

func (cs *CachedStore) HitRate() float64 {
	return cs.cache.HitRate()
}
