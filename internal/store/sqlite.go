package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements IdentityStore using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS identity_mappings (
	provider    TEXT NOT NULL,
	external_id TEXT NOT NULL,
	player_key  TEXT NOT NULL,
	confidence  REAL NOT NULL,
	verified    INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (provider, external_id)
);

CREATE INDEX IF NOT EXISTS idx_identity_mappings_player_key ON identity_mappings(player_key);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetMapping(ctx context.Context, provider, externalID string) (*Mapping, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT provider, external_id, player_key, confidence, verified, created_at
		 FROM identity_mappings WHERE provider = ? AND external_id = ?`,
		provider, externalID,
	)

	var m Mapping
	var verified int
	err := row.Scan(&m.Provider, &m.ExternalID, &m.PlayerKey, &m.Confidence, &verified, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get mapping")
	}
	m.Verified = verified != 0
	return &m, nil
}

func (s *SQLiteStore) PutMapping(ctx context.Context, m Mapping) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	verified := 0
	if m.Verified {
		verified = 1
	}

	// Append-only: the upsert only replaces when the new confidence is at
	// least as high, and verified is sticky once set.
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO identity_mappings (provider, external_id, player_key, confidence, verified, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (provider, external_id) DO UPDATE SET
			player_key = excluded.player_key,
			confidence = excluded.confidence,
			verified = MAX(identity_mappings.verified, excluded.verified)
		 WHERE excluded.confidence >= identity_mappings.confidence`,
		m.Provider, m.ExternalID, m.PlayerKey, m.Confidence, verified, m.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: put mapping")
}

func (s *SQLiteStore) ListMappings(ctx context.Context, playerKey string) ([]Mapping, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT provider, external_id, player_key, confidence, verified, created_at
		 FROM identity_mappings WHERE player_key = ? ORDER BY provider`,
		playerKey,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list mappings")
	}
	defer rows.Close()

	var mappings []Mapping
	for rows.Next() {
		var m Mapping
		var verified int
		if err := rows.Scan(&m.Provider, &m.ExternalID, &m.PlayerKey, &m.Confidence, &verified, &m.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan mapping")
		}
		m.Verified = verified != 0
		mappings = append(mappings, m)
	}
	return mappings, eris.Wrap(rows.Err(), "sqlite: iterate mappings")
}

func (s *SQLiteStore) Coverage(ctx context.Context) (*CoverageStats, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT player_key) FROM identity_mappings`,
	).Scan(&total); err != nil {
		return nil, eris.Wrap(err, "sqlite: coverage total")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT provider, COUNT(DISTINCT player_key) FROM identity_mappings GROUP BY provider`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: coverage by provider")
	}
	defer rows.Close()

	byProvider := make(map[string]int)
	for rows.Next() {
		var prov string
		var n int
		if err := rows.Scan(&prov, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan coverage")
		}
		byProvider[prov] = n
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate coverage")
	}

	return &CoverageStats{
		TotalPlayers: total,
		ByProvider:   byProvider,
		Percentages:  coveragePercentages(total, byProvider),
	}, nil
}
