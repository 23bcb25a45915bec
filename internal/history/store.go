package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"draftsage/internal/fault"
	"draftsage/internal/rank"
)

const storeSchema = `
	CREATE TABLE IF NOT EXISTS index_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		elo_group TEXT NOT NULL,
		built_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS champion_rates (
		champion_id INTEGER PRIMARY KEY,
		wins INTEGER NOT NULL,
		games INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pair_rates (
		pair_key INTEGER PRIMARY KEY,
		wins INTEGER NOT NULL,
		games INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS counter_rates (
		pair_key INTEGER PRIMARY KEY,
		wins INTEGER NOT NULL,
		games INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS totals (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		wins INTEGER NOT NULL,
		games INTEGER NOT NULL
	);
`

// Save writes the index to a sqlite file, replacing any previous
// contents. The stored form is the raw win/game tallies, so a Load of
// the saved file reproduces the index exactly, gates included.
func (ix *Index) Save(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open index store: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(storeSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after Commit()

	for _, table := range []string{"index_meta", "champion_rates", "pair_rates", "counter_rates", "totals"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO index_meta (id, elo_group, built_at) VALUES (1, ?, ?)",
		string(ix.Group), ix.BuiltAt.Unix(),
	); err != nil {
		return fmt.Errorf("failed to write meta: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO totals (id, wins, games) VALUES (1, ?, ?)",
		ix.total.Wins, ix.total.Games,
	); err != nil {
		return fmt.Errorf("failed to write totals: %w", err)
	}

	stmtChamp, err := tx.Prepare("INSERT INTO champion_rates (champion_id, wins, games) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare champion insert: %w", err)
	}
	defer stmtChamp.Close()
	for id, t := range ix.champ {
		if _, err := stmtChamp.Exec(id, t.Wins, t.Games); err != nil {
			return fmt.Errorf("failed to insert champion %d: %w", id, err)
		}
	}

	stmtPair, err := tx.Prepare("INSERT INTO pair_rates (pair_key, wins, games) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare pair insert: %w", err)
	}
	defer stmtPair.Close()
	for key, t := range ix.pair {
		if _, err := stmtPair.Exec(key, t.Wins, t.Games); err != nil {
			return fmt.Errorf("failed to insert pair %d: %w", key, err)
		}
	}

	stmtCounter, err := tx.Prepare("INSERT INTO counter_rates (pair_key, wins, games) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare counter insert: %w", err)
	}
	defer stmtCounter.Close()
	for key, t := range ix.counter {
		if _, err := stmtCounter.Exec(key, t.Wins, t.Games); err != nil {
			return fmt.Errorf("failed to insert counter %d: %w", key, err)
		}
	}

	return tx.Commit()
}

// Load reads a saved index from a sqlite file.
func Load(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fault.Configuration("history index", err)
	}
	defer db.Close()

	ix := &Index{
		champ:   make(map[int]tally),
		pair:    make(map[int64]tally),
		counter: make(map[int64]tally),
	}

	var group string
	var builtAt int64
	err = db.QueryRow("SELECT elo_group, built_at FROM index_meta WHERE id = 1").Scan(&group, &builtAt)
	if err != nil {
		return nil, fault.Configuration("history index", fmt.Errorf("read meta from %s: %w", path, err))
	}
	ix.Group = rank.Group(group)
	ix.BuiltAt = time.Unix(builtAt, 0).UTC()

	if err := db.QueryRow("SELECT wins, games FROM totals WHERE id = 1").Scan(&ix.total.Wins, &ix.total.Games); err != nil {
		return nil, fault.Configuration("history index", fmt.Errorf("read totals: %w", err))
	}

	rows, err := db.Query("SELECT champion_id, wins, games FROM champion_rates")
	if err != nil {
		return nil, fault.Configuration("history index", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int
		var t tally
		if err := rows.Scan(&id, &t.Wins, &t.Games); err != nil {
			return nil, fault.Configuration("history index", err)
		}
		ix.champ[id] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Configuration("history index", err)
	}

	if err := loadPairTable(db, "pair_rates", ix.pair); err != nil {
		return nil, fault.Configuration("history index", err)
	}
	if err := loadPairTable(db, "counter_rates", ix.counter); err != nil {
		return nil, fault.Configuration("history index", err)
	}

	return ix, nil
}

func loadPairTable(db *sql.DB, table string, dst map[int64]tally) error {
	rows, err := db.Query("SELECT pair_key, wins, games FROM " + table)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key int64
		var t tally
		if err := rows.Scan(&key, &t.Wins, &t.Games); err != nil {
			return err
		}
		dst[key] = t
	}
	return rows.Err()
}
