package blobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/mm2kbench/internal/telemetry/tracing"
	"github.com/2beens/mm2kbench/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*PsqlStore)(nil)

const createBlobTable = `
CREATE TABLE IF NOT EXISTS mm2k_blob (
	pathname    TEXT PRIMARY KEY,
	body        BYTEA NOT NULL,
	size        BIGINT NOT NULL,
	uploaded_at TIMESTAMPTZ NOT NULL
);`

type PsqlStore struct {
	db *pgxpool.Pool
}

func NewPsqlStore(db *pgxpool.Pool) *PsqlStore {
	return &PsqlStore{
		db: db,
	}
}

// EnsureSchema creates the blob table if it is not there yet
func (s *PsqlStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createBlobTable); err != nil {
		// IF NOT EXISTS is not atomic, another instance may have won the race on pg_type
		if pkg.IsUniqueViolationError(err) {
			return nil
		}
		return fmt.Errorf("create blob table: %w", err)
	}
	return nil
}

func (s *PsqlStore) List(ctx context.Context, prefix string) (_ []Blob, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "psqlStore.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("blob.prefix", prefix))

	rows, err := s.db.Query(
		ctx,
		`
			SELECT
				pathname, size, uploaded_at
			FROM mm2k_blob
			WHERE starts_with(pathname, $1)
			ORDER BY pathname;`,
		prefix,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blobs []Blob
	for rows.Next() {
		var b Blob
		if err := rows.Scan(&b.Pathname, &b.Size, &b.UploadedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		b.UploadedAt = b.UploadedAt.UTC()
		blobs = append(blobs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blobs, nil
}

func (s *PsqlStore) Put(ctx context.Context, pathname string, body []byte) (_ Blob, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "psqlStore.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("blob.pathname", pathname))

	if err := ValidatePathname(pathname); err != nil {
		return Blob{}, err
	}

	var uploadedAt time.Time
	err = s.db.QueryRow(
		ctx,
		`
			INSERT INTO mm2k_blob (pathname, body, size, uploaded_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (pathname) DO UPDATE
				SET body = EXCLUDED.body, size = EXCLUDED.size, uploaded_at = EXCLUDED.uploaded_at
			RETURNING uploaded_at;`,
		pathname, body, len(body),
	).Scan(&uploadedAt)
	if err != nil {
		return Blob{}, fmt.Errorf("upsert blob: %w", err)
	}

	return Blob{
		Pathname:   pathname,
		Size:       int64(len(body)),
		UploadedAt: uploadedAt.UTC(),
	}, nil
}

func (s *PsqlStore) Get(ctx context.Context, pathname string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "psqlStore.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("blob.pathname", pathname))

	var body []byte
	err = s.db.QueryRow(ctx, `SELECT body FROM mm2k_blob WHERE pathname = $1;`, pathname).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (s *PsqlStore) Delete(ctx context.Context, pathnames ...string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "psqlStore.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if len(pathnames) == 0 {
		return nil
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM mm2k_blob WHERE pathname = ANY($1);`, pathnames)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Int64("blob.deleted", tag.RowsAffected()))
	return nil
}
