package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/mm2kbench/internal/blobstore"
	"github.com/2beens/mm2kbench/internal/mm2k"
	"github.com/2beens/mm2kbench/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	profilesPrefix  = "profiles/"
	currentBlobName = "current.json"
	revBlobPrefix   = "rev-"
	revBlobSuffix   = ".json"
)

//go:generate mockgen -source=$GOFILE -destination=repo_mocks_test.go -package=profiles_test

type blobStore interface {
	List(ctx context.Context, prefix string) ([]blobstore.Blob, error)
	Put(ctx context.Context, pathname string, body []byte) (blobstore.Blob, error)
	Get(ctx context.Context, pathname string) ([]byte, error)
	Delete(ctx context.Context, pathnames ...string) error
}

// Repo stores profiles as JSON blobs: profiles/<key>/current.json holds the
// latest revision, profiles/<key>/rev-<N>.json the history
type Repo struct {
	store blobStore
}

func NewRepo(store blobStore) *Repo {
	return &Repo{
		store: store,
	}
}

func keyPrefix(key string) string {
	return profilesPrefix + key + "/"
}

func currentPathname(key string) string {
	return keyPrefix(key) + currentBlobName
}

func revPathname(key string, rev int) string {
	return fmt.Sprintf("%s%s%d%s", keyPrefix(key), revBlobPrefix, rev, revBlobSuffix)
}

// parseRev gives the revision of a rev-<N>.json pathname
func parseRev(pathname string) (int, bool) {
	name := path.Base(pathname)
	if !strings.HasPrefix(name, revBlobPrefix) || !strings.HasSuffix(name, revBlobSuffix) {
		return 0, false
	}
	rev, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, revBlobPrefix), revBlobSuffix))
	if err != nil || rev < 1 {
		return 0, false
	}
	return rev, true
}

func (r *Repo) Load(ctx context.Context, key string) (_ Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profilesRepo.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("profile.key", key))

	if err := ValidateKey(key); err != nil {
		return Profile{}, err
	}
	return r.read(ctx, currentPathname(key), ErrProfileNotFound)
}

func (r *Repo) read(ctx context.Context, pathname string, notFound error) (Profile, error) {
	body, err := r.store.Get(ctx, pathname)
	if errors.Is(err, blobstore.ErrBlobNotFound) {
		return Profile{}, notFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("get %s: %w", pathname, err)
	}

	var p Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return Profile{}, fmt.Errorf("decode %s: %w", pathname, err)
	}
	if p.Users == nil {
		p.Users = []mm2k.Athlete{}
	}
	return p, nil
}

// Save stores p as the next revision of the profile. The revision is always
// one past the stored one, whatever p carries.
func (r *Repo) Save(ctx context.Context, key string, p Profile, savedAt time.Time) (_ Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profilesRepo.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("profile.key", key))

	if err := ValidateKey(key); err != nil {
		return Profile{}, err
	}

	stored, err := r.Load(ctx, key)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return Profile{}, err
	}

	savedAt = savedAt.UTC()
	p.ProfileMeta = Meta{
		Rev:         stored.ProfileMeta.Rev + 1,
		LastSavedAt: &savedAt,
	}
	if p.Users == nil {
		p.Users = []mm2k.Athlete{}
	}
	span.SetAttributes(attribute.Int("profile.rev", p.ProfileMeta.Rev))

	body, err := json.Marshal(p)
	if err != nil {
		return Profile{}, fmt.Errorf("encode profile: %w", err)
	}

	// history first, current.json never points past a missing snapshot
	if _, err := r.store.Put(ctx, revPathname(key, p.ProfileMeta.Rev), body); err != nil {
		return Profile{}, fmt.Errorf("put snapshot: %w", err)
	}
	if _, err := r.store.Put(ctx, currentPathname(key), body); err != nil {
		return Profile{}, fmt.Errorf("put current: %w", err)
	}

	log.Debugf("profiles repo: saved %s rev %d [%d bytes]", key, p.ProfileMeta.Rev, len(body))
	return p, nil
}

// History lists the stored snapshots, newest first
func (r *Repo) History(ctx context.Context, key string) (_ []Revision, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profilesRepo.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	blobs, err := r.store.List(ctx, keyPrefix(key))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", key, err)
	}

	revisions := []Revision{}
	for _, b := range blobs {
		rev, ok := parseRev(b.Pathname)
		if !ok {
			continue
		}
		revisions = append(revisions, Revision{
			Rev:      rev,
			Pathname: b.Pathname,
			Size:     b.Size,
			SavedAt:  b.UploadedAt,
		})
	}
	sort.Slice(revisions, func(i, j int) bool {
		return revisions[i].Rev > revisions[j].Rev
	})
	return revisions, nil
}

func (r *Repo) Snapshot(ctx context.Context, key string, rev int) (_ Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profilesRepo.snapshot")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ValidateKey(key); err != nil {
		return Profile{}, err
	}
	if rev < 1 {
		return Profile{}, ErrRevisionNotFound
	}
	return r.read(ctx, revPathname(key, rev), ErrRevisionNotFound)
}

// Delete removes the profile with its whole history
func (r *Repo) Delete(ctx context.Context, key string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profilesRepo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ValidateKey(key); err != nil {
		return err
	}

	blobs, err := r.store.List(ctx, keyPrefix(key))
	if err != nil {
		return fmt.Errorf("list %s: %w", key, err)
	}
	if len(blobs) == 0 {
		return ErrProfileNotFound
	}

	pathnames := make([]string, 0, len(blobs))
	for _, b := range blobs {
		pathnames = append(pathnames, b.Pathname)
	}
	if err := r.store.Delete(ctx, pathnames...); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	log.Debugf("profiles repo: deleted %s [%d blobs]", key, len(pathnames))
	return nil
}

// List gives one summary per stored profile, sorted by key
func (r *Repo) List(ctx context.Context) (_ []Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profilesRepo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	blobs, err := r.store.List(ctx, profilesPrefix)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	byKey := make(map[string]*Summary)
	for _, b := range blobs {
		parts := strings.Split(strings.TrimPrefix(b.Pathname, profilesPrefix), "/")
		if len(parts) != 2 {
			continue
		}
		key, name := parts[0], parts[1]
		s, ok := byKey[key]
		if !ok {
			s = &Summary{Key: key}
			byKey[key] = s
		}
		switch {
		case name == currentBlobName:
			s.Pathname = b.Pathname
			s.Size = b.Size
			s.UploadedAt = b.UploadedAt
		case strings.HasPrefix(name, revBlobPrefix):
			s.Revisions++
		}
	}

	summaries := []Summary{}
	for _, s := range byKey {
		if s.Pathname == "" {
			// history without a current document, left over from a failed save
			continue
		}
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Key < summaries[j].Key
	})
	return summaries, nil
}

// Prune keeps the newest keep snapshots of every profile and deletes the rest
func (r *Repo) Prune(ctx context.Context, keep int) (deleted int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profilesRepo.prune")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if keep < 1 {
		return 0, fmt.Errorf("keep must be positive, got %d", keep)
	}

	summaries, err := r.List(ctx)
	if err != nil {
		return 0, err
	}

	for _, s := range summaries {
		if s.Revisions <= keep {
			continue
		}
		revisions, err := r.History(ctx, s.Key)
		if err != nil {
			return deleted, err
		}
		var stale []string
		for _, rev := range revisions[keep:] {
			stale = append(stale, rev.Pathname)
		}
		if err := r.store.Delete(ctx, stale...); err != nil {
			return deleted, fmt.Errorf("prune %s: %w", s.Key, err)
		}
		deleted += len(stale)
	}

	span.SetAttributes(attribute.Int("profile.pruned", deleted))
	return deleted, nil
}
