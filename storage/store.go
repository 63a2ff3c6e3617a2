// Package storage is the daemon's embedded SQL-backed event store:
// blocks, addresses/receivers, transactions, and received notes, all in
// a single sqlite3 database opened with database/sql, matching the
// teacher's own choice of driver and connection style.
package storage

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hhanh00/zcash-walletd/pool"
)

// Store is the daemon's single connection to its sqlite3 database plus
// the diversified-address allocation lock (spec requires address
// creation be serialized process-wide). The zero value is not usable;
// construct with Open.
type Store struct {
	db *sql.DB
	mu sync.Mutex // serializes diversifier-index allocation

	Sapling *pool.SaplingPIVK // nil if this wallet doesn't hold a Sapling key
	Orchard *pool.OrchardPIVK // nil if this wallet doesn't hold an Orchard key
}

// Open connects to the sqlite3 database at path (which may be ":memory:"
// for tests), wiring in whichever pool keys this wallet was started
// with so address allocation can derive real receiver strings.
func Open(path string, sapling *pool.SaplingPIVK, orchard *pool.OrchardPIVK) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("storage: ping %s: %w", path, err)
	}
	return &Store{db: db, Sapling: sapling, Orchard: orchard}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS blocks (
	height INTEGER PRIMARY KEY,
	hash BLOB NOT NULL,
	time INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS addresses (
	id INTEGER PRIMARY KEY,
	label TEXT NOT NULL DEFAULT '',
	account INTEGER NOT NULL,
	sub_account INTEGER NOT NULL,
	address TEXT NOT NULL,
	diversifier_index INTEGER NOT NULL,
	UNIQUE(account, sub_account)
);
CREATE TABLE IF NOT EXISTS receivers (
	id INTEGER PRIMARY KEY,
	pool INTEGER NOT NULL,
	address_id INTEGER NOT NULL REFERENCES addresses(id),
	receiver_address TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY,
	txid BLOB NOT NULL UNIQUE,
	height INTEGER NOT NULL,
	value INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS received_notes (
	id INTEGER PRIMARY KEY,
	address TEXT NOT NULL,
	account INTEGER NOT NULL,
	sub_account INTEGER NOT NULL,
	tx_id INTEGER NOT NULL REFERENCES transactions(id),
	position INTEGER NOT NULL UNIQUE,
	height INTEGER NOT NULL,
	diversifier BLOB NOT NULL,
	value INTEGER NOT NULL,
	rcm BLOB NOT NULL,
	nf BLOB NOT NULL UNIQUE,
	rho BLOB,
	memo TEXT NOT NULL DEFAULT '',
	spent INTEGER
);
`

// Create idempotently creates the schema, refuses to start against a
// database that predates the received_notes.rho column (Orchard support; the
// source treats this as an unrecoverable panic; here it's a returned
// error since a daemon should fail startup cleanly, not crash), and
// cleans up any received_notes left over height ≥ the synced tip by a
// previous process that crashed mid-commit. It returns whether any
// address already existed, so bootstrap knows whether to seed a default
// account.
func (s *Store) Create() (bool, error) {
	if _, err := s.db.Exec(schema); err != nil {
		return false, fmt.Errorf("storage: create schema: %w", err)
	}
	if err := s.checkRhoColumn(); err != nil {
		return false, err
	}

	var addressCount int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM addresses`).Scan(&addressCount); err != nil {
		return false, fmt.Errorf("storage: count addresses: %w", err)
	}

	var maxHeight sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(height) FROM blocks`).Scan(&maxHeight); err != nil {
		return false, fmt.Errorf("storage: max block height: %w", err)
	}
	if maxHeight.Valid {
		if _, err := s.db.Exec(`DELETE FROM received_notes WHERE height >= ?`, maxHeight.Int64); err != nil {
			return false, fmt.Errorf("storage: clean stale received_notes: %w", err)
		}
	}

	return addressCount > 0, nil
}

// checkRhoColumn is the "legacy DB shape" fatal check from spec.md §9:
// a database created before Orchard support lacks received_notes.rho,
// and this daemon refuses to run against one rather than silently
// misbehave on Orchard spends.
func (s *Store) checkRhoColumn() error {
	rows, err := s.db.Query(`PRAGMA table_info(received_notes)`)
	if err != nil {
		return fmt.Errorf("storage: inspect received_notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("storage: inspect received_notes: %w", err)
		}
		if name == "rho" {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("storage: inspect received_notes: %w", err)
	}
	return fmt.Errorf("storage: received_notes.rho column missing — database predates Orchard support")
}
