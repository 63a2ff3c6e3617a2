package storage

import (
	"database/sql"
	"fmt"

	"github.com/hhanh00/zcash-walletd/pool"
)

// Account identifies a top-level account's base (sub_account = 0)
// address row.
type Account struct {
	ID      int64
	Label   string
	Account uint32
	Address string
}

// SubAccount identifies a diversified address nested under an existing
// account.
type SubAccount struct {
	ID         int64
	Label      string
	Account    uint32
	SubAccount uint32
	Address    string
}

// NewAccount allocates the next diversifier index, derives its address
// from whichever pool keys are configured, and inserts a new top-level
// account (sub_account = 0).
func (s *Store) NewAccount(label string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxAccount sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(account) FROM addresses`).Scan(&maxAccount); err != nil {
		return nil, fmt.Errorf("storage: max account: %w", err)
	}
	account := uint32(0)
	if maxAccount.Valid {
		account = uint32(maxAccount.Int64) + 1
	}

	id, address, err := s.allocateAddress(label, account, 0)
	if err != nil {
		return nil, err
	}
	return &Account{ID: id, Label: label, Account: account, Address: address}, nil
}

// NewSubAccount allocates the next diversifier index under an existing
// account.
func (s *Store) NewSubAccount(account uint32, label string) (*SubAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxSub sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(sub_account) FROM addresses WHERE account = ?`, account).Scan(&maxSub); err != nil {
		return nil, fmt.Errorf("storage: max sub_account: %w", err)
	}
	if !maxSub.Valid {
		return nil, fmt.Errorf("storage: unknown account %d", account)
	}
	subAccount := uint32(maxSub.Int64) + 1

	id, address, err := s.allocateAddress(label, account, subAccount)
	if err != nil {
		return nil, err
	}
	return &SubAccount{ID: id, Label: label, Account: account, SubAccount: subAccount, Address: address}, nil
}

// allocateAddress must be called with s.mu held: it allocates the next
// global diversifier index, derives the unified address, and inserts
// the addresses row plus one receivers row per configured pool.
func (s *Store) allocateAddress(label string, account, subAccount uint32) (int64, string, error) {
	var maxIndex sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(diversifier_index) FROM addresses`).Scan(&maxIndex); err != nil {
		return 0, "", fmt.Errorf("storage: max diversifier index: %w", err)
	}
	index := uint64(0)
	if maxIndex.Valid {
		index = uint64(maxIndex.Int64) + 1
	}

	var sapAddr, orcAddr string
	var err error
	if s.Sapling != nil {
		sapAddr, err = s.Sapling.DeriveAddress(index)
		if err != nil {
			return 0, "", fmt.Errorf("storage: derive sapling address: %w", err)
		}
	}
	if s.Orchard != nil {
		orcAddr, err = s.Orchard.DeriveAddress(index)
		if err != nil {
			return 0, "", fmt.Errorf("storage: derive orchard address: %w", err)
		}
	}
	if sapAddr == "" && orcAddr == "" {
		return 0, "", fmt.Errorf("storage: wallet has no configured pool keys")
	}
	// A unified address string: prefer Orchard (the outer receiver in a
	// real multi-receiver UA) when both pools are present, falling back
	// to the plain Sapling address when the wallet is Sapling-only.
	address := orcAddr
	if address == "" {
		address = sapAddr
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, "", fmt.Errorf("storage: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`INSERT INTO addresses (label, account, sub_account, address, diversifier_index) VALUES (?, ?, ?, ?, ?)`,
		label, account, subAccount, address, index)
	if err != nil {
		return 0, "", fmt.Errorf("storage: insert address: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, "", fmt.Errorf("storage: insert address: %w", err)
	}

	if sapAddr != "" {
		if _, err := tx.Exec(`INSERT INTO receivers (pool, address_id, receiver_address) VALUES (?, ?, ?)`,
			pool.PoolSapling, id, sapAddr); err != nil {
			return 0, "", fmt.Errorf("storage: insert sapling receiver: %w", err)
		}
	}
	if orcAddr != "" {
		if _, err := tx.Exec(`INSERT INTO receivers (pool, address_id, receiver_address) VALUES (?, ?, ?)`,
			pool.PoolOrchard, id, orcAddr); err != nil {
			return 0, "", fmt.Errorf("storage: insert orchard receiver: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, "", fmt.Errorf("storage: commit: %w", err)
	}
	return id, address, nil
}

// GetAccounts returns every top-level account (sub_account = 0).
func (s *Store) GetAccounts() ([]Account, error) {
	rows, err := s.db.Query(`SELECT id, label, account, address FROM addresses WHERE sub_account = 0 ORDER BY account`)
	if err != nil {
		return nil, fmt.Errorf("storage: get accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Label, &a.Account, &a.Address); err != nil {
			return nil, fmt.Errorf("storage: get accounts: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
