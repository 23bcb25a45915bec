package corpus

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store fetches match records from Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to the corpus database and verifies the connection.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Matches returns every match for a patch, or all patches when patch is
// empty. Pick and ban lists are stored as integer arrays.
func (s *Store) Matches(ctx context.Context, patch string) ([]Match, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT match_id, patch, tier, blue_picks, red_picks, blue_bans, red_bans, blue_win
		FROM matches
		WHERE ($1 = '' OR patch = $1)
		ORDER BY match_id
	`, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.MatchID, &m.Patch, &m.Tier,
			&m.BluePicks, &m.RedPicks, &m.BlueBans, &m.RedBans, &m.BlueWin); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
