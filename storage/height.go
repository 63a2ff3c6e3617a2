package storage

import (
	"database/sql"
	"fmt"

	"github.com/hhanh00/zcash-walletd/noteenc"
)

// GetSyncedHeight returns MAX(blocks.height), or floor if the table is
// empty (the wallet's configured birth height).
func (s *Store) GetSyncedHeight(floor uint32) (uint32, error) {
	var height sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(height) FROM blocks`).Scan(&height); err != nil {
		return 0, fmt.Errorf("storage: get synced height: %w", err)
	}
	if !height.Valid {
		return floor, nil
	}
	return uint32(height.Int64), nil
}

// GetBlockHash returns the hash stored for height, failing fatally
// (the caller should treat this as corruption) if a supposedly-synced
// height has no recorded hash.
func (s *Store) GetBlockHash(height uint32) (noteenc.Hash, error) {
	var raw []byte
	if err := s.db.QueryRow(`SELECT hash FROM blocks WHERE height = ?`, height).Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return noteenc.Hash{}, fmt.Errorf("storage: integrity: missing block hash for height %d", height)
		}
		return noteenc.Hash{}, fmt.Errorf("storage: get block hash: %w", err)
	}
	var hash noteenc.Hash
	copy(hash[:], raw)
	return hash, nil
}

// FetchBlockHash is GetBlockHash's non-fatal counterpart: it reports
// whether a row exists instead of erroring, for callers (like bootstrap)
// that need to tell "no blocks yet" apart from corruption.
func (s *Store) FetchBlockHash(height uint32) (hash noteenc.Hash, found bool, err error) {
	var raw []byte
	err = s.db.QueryRow(`SELECT hash FROM blocks WHERE height = ?`, height).Scan(&raw)
	if err == sql.ErrNoRows {
		return noteenc.Hash{}, false, nil
	}
	if err != nil {
		return noteenc.Hash{}, false, fmt.Errorf("storage: fetch block hash: %w", err)
	}
	copy(hash[:], raw)
	return hash, true, nil
}

// SeedBlock inserts a single blocks row directly, bypassing the
// scan-commit path — used once, at bootstrap, to record the birth
// height's hash so the first real scan tick has a prev_hash to
// validate against.
func (s *Store) SeedBlock(height uint32, hash noteenc.Hash, time uint32) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO blocks (height, hash, time) VALUES (?, ?, ?)`, height, hash[:], time)
	if err != nil {
		return fmt.Errorf("storage: seed block: %w", err)
	}
	return nil
}

// TruncateHeight deletes every transactions/received_notes/blocks row
// at height ≥ h, and clears the spent marker on any received_notes row
// whose spending transaction was at or above h — the reorg-recovery
// primitive the controller calls with h = synced_height − confirmations.
func (s *Store) TruncateHeight(h uint32) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`
		UPDATE received_notes SET spent = NULL
		WHERE spent IN (SELECT id FROM transactions WHERE height >= ?)`, h); err != nil {
		return fmt.Errorf("storage: truncate: clear spent markers: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM received_notes WHERE height >= ?`, h); err != nil {
		return fmt.Errorf("storage: truncate: received_notes: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM transactions WHERE height >= ?`, h); err != nil {
		return fmt.Errorf("storage: truncate: transactions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM blocks WHERE height >= ?`, h); err != nil {
		return fmt.Errorf("storage: truncate: blocks: %w", err)
	}

	return tx.Commit()
}
