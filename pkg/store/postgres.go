package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the PostgreSQL store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const (
	upsertBlobSQL = `INSERT INTO page_styles (page_id, blob, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (page_id) DO UPDATE SET blob = EXCLUDED.blob, updated_at = EXCLUDED.updated_at`
	selectBlobSQL  = `SELECT blob FROM page_styles WHERE page_id = $1`
	selectBlobsSQL = `SELECT page_id, blob FROM page_styles WHERE page_id = ANY($1) ORDER BY page_id`
	deleteBlobSQL  = `DELETE FROM page_styles WHERE page_id = $1`
)

// Postgres stores blobs in the page_styles table created by pg.Migrate.
type Postgres struct {
	db DB
}

// NewPostgres wraps a pool, typically *pgxpool.Pool.
func NewPostgres(db DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Put(ctx context.Context, pageID int64, blob []byte) error {
	if err := validatePut(pageID, blob); err != nil {
		return err
	}
	if _, err := p.db.Exec(ctx, upsertBlobSQL, pageID, blob); err != nil {
		return errors.Join(ErrBackend, err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, pageID int64) ([]byte, error) {
	if err := validateID(pageID); err != nil {
		return nil, err
	}
	var blob []byte
	if err := p.db.QueryRow(ctx, selectBlobSQL, pageID).Scan(&blob); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrBackend, err)
	}
	return blob, nil
}

func (p *Postgres) GetMany(ctx context.Context, pageIDs []int64) (map[int64][]byte, error) {
	ids := normalizeIDs(pageIDs)
	out := make(map[int64][]byte, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := p.db.Query(ctx, selectBlobsSQL, ids)
	if err != nil {
		return nil, errors.Join(ErrBackend, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			blob []byte
		)
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, errors.Join(ErrBackend, err)
		}
		out[id] = blob
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrBackend, err)
	}
	return out, nil
}

func (p *Postgres) Delete(ctx context.Context, pageID int64) error {
	if err := validateID(pageID); err != nil {
		return err
	}
	if _, err := p.db.Exec(ctx, deleteBlobSQL, pageID); err != nil {
		return errors.Join(ErrBackend, err)
	}
	return nil
}
