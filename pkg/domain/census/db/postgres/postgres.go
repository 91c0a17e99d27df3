package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4/pgxpool"

	kpool "github.com/v6census/v6census/pkg/conn/db/postgres/pool"
	kdb "github.com/v6census/v6census/pkg/domain/census/db"
	xe "github.com/v6census/v6census/pkg/errors"
)

type censusDBPostgres struct {
	pool      *pgxpool.Pool
	snapshots kdb.SnapshotInterface
}

// New connects to the database at url and prepares the census stores.
//
// Missing relations are created on the way, so a fresh database needs no
// separate migration step.
func New(ctx context.Context, url string) (kdb.Database, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	p := kpool.Wrap(pool)
	if err := EnsureSchema(ctx, p); err != nil {
		pool.Close()
		return nil, xe.Wrap(err)
	}

	return &censusDBPostgres{
		pool:      pool,
		snapshots: NewSnapshotStore(p),
	}, nil
}

func (c *censusDBPostgres) Snapshots() kdb.SnapshotInterface {
	return c.snapshots
}

func (c *censusDBPostgres) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *censusDBPostgres) Close() error {
	c.pool.Close()
	return nil
}

// EnsureSchema creates the census relations when they do not exist yet.
func EnsureSchema(ctx context.Context, pool kpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(
		ctx,
		`
		create table if not exists "snapshot" (
			"key" varchar not null primary key,
			"kind" varchar not null,
			"origin" varchar not null,
			"note" varchar not null default '',
			"fetched_at" timestamp with time zone not null,
			"expires_at" timestamp with time zone,
			"payload" jsonb not null
		)
		`,
	); err != nil {
		// Daemons booting at once can race even through "if not exists".
		// The loser still finds the table in place.
		pgErr := new(pgconn.PgError)
		if errors.As(err, &pgErr) &&
			(pgErr.Code == pgerrcode.DuplicateTable || pgErr.Code == pgerrcode.UniqueViolation) {
			return nil
		}
		return err
	}

	return tx.Commit(ctx)
}
