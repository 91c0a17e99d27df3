package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgtype"

	kpool "github.com/v6census/v6census/pkg/conn/db/postgres/pool"
	"github.com/v6census/v6census/pkg/domain"
	kdb "github.com/v6census/v6census/pkg/domain/census/db"
	"github.com/v6census/v6census/pkg/domain/stats"
	"github.com/v6census/v6census/pkg/utils/slices"
)

type snapshotStore struct {
	pool kpool.Pool
}

func NewSnapshotStore(pool kpool.Pool) kdb.SnapshotInterface {
	return &snapshotStore{pool: pool}
}

func (s *snapshotStore) Get(ctx context.Context, keys []domain.Key) (map[domain.Key]domain.Snapshot, error) {
	rows, err := s.pool.Query(
		ctx,
		`
		select "key", "kind", "origin", "note", "fetched_at", "expires_at", "payload"
		from "snapshot"
		where "key" = any($1)
		`,
		slices.Map(keys, domain.Key.String),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := map[domain.Key]domain.Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		found[snap.Key] = snap
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return found, nil
}

func (s *snapshotStore) List(ctx context.Context) ([]domain.Snapshot, error) {
	rows, err := s.pool.Query(
		ctx,
		`
		select "key", "kind", "origin", "note", "fetched_at", "expires_at", "payload"
		from "snapshot"
		order by "key"
		`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []domain.Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}

func (s *snapshotStore) Put(ctx context.Context, snap domain.Snapshot) error {
	kind, payload, err := stats.Marshal(snap.Payload)
	if err != nil {
		return err
	}

	expiresAt := pgtype.Timestamptz{Status: pgtype.Null}
	if !snap.ExpiresAt.IsZero() {
		expiresAt = pgtype.Timestamptz{Time: snap.ExpiresAt, Status: pgtype.Present}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(
		ctx,
		`
		insert into "snapshot" ("key", "kind", "origin", "note", "fetched_at", "expires_at", "payload")
		values ($1, $2, $3, $4, $5, $6, $7)
		on conflict ("key") do update set
			"kind" = excluded."kind",
			"origin" = excluded."origin",
			"note" = excluded."note",
			"fetched_at" = excluded."fetched_at",
			"expires_at" = excluded."expires_at",
			"payload" = excluded."payload"
		`,
		snap.Key.String(),
		string(kind),
		snap.Origin.String(),
		snap.Note,
		snap.FetchedAt,
		expiresAt,
		pgtype.JSONB{Bytes: payload, Status: pgtype.Present},
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *snapshotStore) Delete(ctx context.Context, keys []domain.Key) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(
		ctx,
		`delete from "snapshot" where "key" = any($1)`,
		slices.Map(keys, domain.Key.String),
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *snapshotStore) DeleteAll(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `delete from "snapshot"`); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row rowScanner) (domain.Snapshot, error) {
	var (
		key, kind, origin, note string
		fetchedAt               time.Time
		expiresAt               pgtype.Timestamptz
		payload                 []byte
	)
	if err := row.Scan(&key, &kind, &origin, &note, &fetchedAt, &expiresAt, &payload); err != nil {
		return domain.Snapshot{}, err
	}

	p, err := stats.Unmarshal(stats.Kind(kind), payload)
	if err != nil {
		return domain.Snapshot{}, err
	}
	o, err := domain.AsOrigin(origin)
	if err != nil {
		return domain.Snapshot{}, err
	}

	snap := domain.Snapshot{
		Key:       domain.Key(key),
		Payload:   p,
		Origin:    o,
		Note:      note,
		FetchedAt: fetchedAt,
	}
	if expiresAt.Status == pgtype.Present {
		snap.ExpiresAt = expiresAt.Time
	}
	return snap, nil
}
