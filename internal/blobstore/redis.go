package blobstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/mm2kbench/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*RedisStore)(nil)

const (
	redisBlobKeyPrefix = "mm2k-blob||"
	// sorted set of all pathnames, all scores 0 so members sort lexically
	redisBlobIndexKey = "mm2k-blobs"

	fieldBody       = "body"
	fieldSize       = "size"
	fieldUploadedAt = "uploaded_at"
)

type RedisStore struct {
	redisClient *redis.Client
	// ability to inject the clock used for upload timestamps (for unit testing)
	NowFunc func() time.Time
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
		NowFunc:     time.Now,
	}
}

func (s *RedisStore) List(ctx context.Context, prefix string) (_ []Blob, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redisStore.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("blob.prefix", prefix))

	lexMin, lexMax := "-", "+"
	if prefix != "" {
		lexMin, lexMax = "["+prefix, "["+prefix+"\xff"
	}
	cmd := s.redisClient.ZRangeByLex(ctx, redisBlobIndexKey, &redis.ZRangeBy{Min: lexMin, Max: lexMax})
	if err := cmd.Err(); err != nil {
		return nil, fmt.Errorf("list blob index: %w", err)
	}

	var blobs []Blob
	for _, pathname := range cmd.Val() {
		metaCmd := s.redisClient.HMGet(ctx, redisBlobKeyPrefix+pathname, fieldSize, fieldUploadedAt)
		if err := metaCmd.Err(); err != nil {
			return nil, fmt.Errorf("blob meta %s: %w", pathname, err)
		}
		vals := metaCmd.Val()
		if len(vals) != 2 || vals[0] == nil {
			// indexed but gone, a concurrent delete
			continue
		}
		blobs = append(blobs, Blob{
			Pathname:   pathname,
			Size:       parseInt(vals[0]),
			UploadedAt: time.UnixMilli(parseInt(vals[1])).UTC(),
		})
	}
	return blobs, nil
}

func parseInt(v interface{}) int64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (s *RedisStore) Put(ctx context.Context, pathname string, body []byte) (_ Blob, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redisStore.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("blob.pathname", pathname))

	if err := ValidatePathname(pathname); err != nil {
		return Blob{}, err
	}

	uploadedAt := s.NowFunc().UTC().Truncate(time.Millisecond)
	cmdHSet := s.redisClient.HSet(
		ctx, redisBlobKeyPrefix+pathname,
		fieldBody, string(body),
		fieldSize, strconv.Itoa(len(body)),
		fieldUploadedAt, strconv.FormatInt(uploadedAt.UnixMilli(), 10),
	)
	if err := cmdHSet.Err(); err != nil {
		return Blob{}, fmt.Errorf("store blob: %w", err)
	}

	cmdZAdd := s.redisClient.ZAdd(ctx, redisBlobIndexKey, &redis.Z{Score: 0, Member: pathname})
	if err := cmdZAdd.Err(); err != nil {
		return Blob{}, fmt.Errorf("index blob: %w", err)
	}

	return Blob{
		Pathname:   pathname,
		Size:       int64(len(body)),
		UploadedAt: uploadedAt,
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, pathname string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redisStore.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("blob.pathname", pathname))

	cmd := s.redisClient.HGet(ctx, redisBlobKeyPrefix+pathname, fieldBody)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return []byte(cmd.Val()), nil
}

func (s *RedisStore) Delete(ctx context.Context, pathnames ...string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redisStore.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if len(pathnames) == 0 {
		return nil
	}

	keys := make([]string, 0, len(pathnames))
	members := make([]interface{}, 0, len(pathnames))
	for _, p := range pathnames {
		keys = append(keys, redisBlobKeyPrefix+p)
		members = append(members, p)
	}

	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete blobs: %w", err)
	}
	if err := s.redisClient.ZRem(ctx, redisBlobIndexKey, members...).Err(); err != nil {
		return fmt.Errorf("unindex blobs: %w", err)
	}
	return nil
}
