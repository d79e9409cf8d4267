package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it
// for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements IdentityStore using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS identity_mappings (
	provider    TEXT NOT NULL,
	external_id TEXT NOT NULL,
	player_key  TEXT NOT NULL,
	confidence  DOUBLE PRECISION NOT NULL,
	verified    BOOLEAN NOT NULL DEFAULT false,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (provider, external_id)
);

CREATE INDEX IF NOT EXISTS idx_identity_mappings_player_key ON identity_mappings(player_key);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetMapping(ctx context.Context, provider, externalID string) (*Mapping, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT provider, external_id, player_key, confidence, verified, created_at
		 FROM identity_mappings WHERE provider = $1 AND external_id = $2`,
		provider, externalID,
	)

	var m Mapping
	err := row.Scan(&m.Provider, &m.ExternalID, &m.PlayerKey, &m.Confidence, &m.Verified, &m.CreatedAt)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get mapping")
	}
	return &m, nil
}

func (s *PostgresStore) PutMapping(ctx context.Context, m Mapping) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO identity_mappings (provider, external_id, player_key, confidence, verified, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (provider, external_id) DO UPDATE SET
			player_key = EXCLUDED.player_key,
			confidence = EXCLUDED.confidence,
			verified = identity_mappings.verified OR EXCLUDED.verified
		 WHERE EXCLUDED.confidence >= identity_mappings.confidence`,
		m.Provider, m.ExternalID, m.PlayerKey, m.Confidence, m.Verified, m.CreatedAt,
	)
	return eris.Wrap(err, "postgres: put mapping")
}

func (s *PostgresStore) ListMappings(ctx context.Context, playerKey string) ([]Mapping, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT provider, external_id, player_key, confidence, verified, created_at
		 FROM identity_mappings WHERE player_key = $1 ORDER BY provider`,
		playerKey,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list mappings")
	}
	defer rows.Close()

	var mappings []Mapping
	for rows.Next() {
		var m Mapping
		if err := rows.Scan(&m.Provider, &m.ExternalID, &m.PlayerKey, &m.Confidence, &m.Verified, &m.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan mapping")
		}
		mappings = append(mappings, m)
	}
	return mappings, eris.Wrap(rows.Err(), "postgres: iterate mappings")
}

func (s *PostgresStore) Coverage(ctx context.Context) (*CoverageStats, error) {
	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT player_key) FROM identity_mappings`,
	).Scan(&total); err != nil {
		return nil, eris.Wrap(err, "postgres: coverage total")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT provider, COUNT(DISTINCT player_key) FROM identity_mappings GROUP BY provider`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: coverage by provider")
	}
	defer rows.Close()

	byProvider := make(map[string]int)
	for rows.Next() {
		var prov string
		var n int64
		if err := rows.Scan(&prov, &n); err != nil {
			return nil, eris.Wrap(err, "postgres: scan coverage")
		}
		byProvider[prov] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate coverage")
	}

	return &CoverageStats{
		TotalPlayers: total,
		ByProvider:   byProvider,
		Percentages:  coveragePercentages(total, byProvider),
	}, nil
}
