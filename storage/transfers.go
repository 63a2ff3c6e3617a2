package storage

import (
	"database/sql"
	"encoding/hex"
	"fmt"

	"golang.org/x/exp/slices"
)

// AccountBalance is the Monero-shaped summary get_accounts reports per
// top-level account.
type AccountBalance struct {
	AccountIndex    uint32
	Balance         uint64
	BaseAddress     string
	Label           string
	Tag             string
	UnlockedBalance uint64
}

// SubAddress identifies a transfer's owning (account, sub_account) pair
// in Monero's major/minor naming.
type SubAddress struct {
	Major uint32
	Minor uint32
}

// Transfer is one received note rendered in Monero's wallet-RPC shape.
type Transfer struct {
	Address                        string
	Amount                         uint64
	Confirmations                  uint32
	Height                         uint32
	Fee                            uint64
	Note                           string
	PaymentID                      string
	SubaddrIndex                   SubAddress
	SuggestedConfirmationsThreshold uint32
	Timestamp                      uint64
	Txid                           string
	Type                           string
	UnlockTime                     uint32
}

// GetAccountBalances returns every top-level account's balance and
// unlocked balance (notes with at least `confirmations` confirmations,
// counting the block they were mined in), matching spec.md §4.5's
// get_accounts.
func (s *Store) GetAccountBalances(tip, confirmations uint32) ([]AccountBalance, error) {
	rows, err := s.db.Query(`SELECT id, account, label, address FROM addresses WHERE sub_account = 0 ORDER BY account`)
	if err != nil {
		return nil, fmt.Errorf("storage: get account balances: %w", err)
	}
	defer rows.Close()

	type row struct {
		id      int64
		account uint32
		label   string
		address string
	}
	var accts []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.account, &r.label, &r.address); err != nil {
			return nil, fmt.Errorf("storage: get account balances: %w", err)
		}
		accts = append(accts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	unlockFloor := int64(tip) - int64(confirmations) + 1

	balances := make([]AccountBalance, 0, len(accts))
	for _, a := range accts {
		var total, unlocked sql.NullInt64
		if err := s.db.QueryRow(`
			SELECT SUM(value), SUM(CASE WHEN height <= ? THEN value ELSE 0 END)
			FROM received_notes WHERE account = ? AND spent IS NULL`,
			unlockFloor, a.account).Scan(&total, &unlocked); err != nil {
			return nil, fmt.Errorf("storage: sum account %d balance: %w", a.account, err)
		}
		balances = append(balances, AccountBalance{
			AccountIndex:    a.account,
			Balance:         uint64(total.Int64),
			BaseAddress:     a.address,
			Label:           a.label,
			UnlockedBalance: uint64(unlocked.Int64),
		})
	}
	return balances, nil
}

// GetTransfers lists received notes for account, restricted to
// subaddrIndices when non-empty (an empty slice means "every
// sub-address of this account").
func (s *Store) GetTransfers(account uint32, subaddrIndices []uint32, tip, confirmations uint32) ([]Transfer, error) {
	return s.queryTransfers(account, subaddrIndices, "", tip, confirmations)
}

// GetTransferByTxid restricts the listing to one transaction, addressed
// by its network-order (reversed) hex txid.
func (s *Store) GetTransferByTxid(txidHex string, account uint32, tip, confirmations uint32) ([]Transfer, error) {
	displayTxid, err := reverseTxidHex(txidHex)
	if err != nil {
		return nil, err
	}
	return s.queryTransfers(account, nil, displayTxid, tip, confirmations)
}

func (s *Store) queryTransfers(account uint32, subaddrIndices []uint32, wireTxidHex string, tip, confirmations uint32) ([]Transfer, error) {
	query := `
		SELECT rn.sub_account, rn.address, rn.value, rn.height, t.txid, rn.memo, rn.spent, b.time
		FROM received_notes rn
		JOIN transactions t ON t.id = rn.tx_id
		LEFT JOIN blocks b ON b.height = rn.height
		WHERE rn.account = ?`
	args := []any{account}

	if wireTxidHex != "" {
		raw, err := hex.DecodeString(wireTxidHex)
		if err != nil {
			return nil, fmt.Errorf("storage: bad txid: %w", err)
		}
		query += ` AND t.txid = ?`
		args = append(args, raw)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: get transfers: %w", err)
	}
	defer rows.Close()

	allowed := make(map[uint32]bool, len(subaddrIndices))
	for _, i := range subaddrIndices {
		allowed[i] = true
	}

	var transfers []Transfer
	for rows.Next() {
		var subAccount uint32
		var address string
		var value int64
		var height uint32
		var txid []byte
		var memo string
		var spent sql.NullInt64
		var blockTime sql.NullInt64
		if err := rows.Scan(&subAccount, &address, &value, &height, &txid, &memo, &spent, &blockTime); err != nil {
			return nil, fmt.Errorf("storage: get transfers: %w", err)
		}
		if len(allowed) > 0 && !allowed[subAccount] {
			continue
		}

		confs := uint32(0)
		if tip >= height {
			confs = tip - height + 1
		}
		transferType := "in"
		if spent.Valid {
			transferType = "out"
		}

		transfers = append(transfers, Transfer{
			Address:                         address,
			Amount:                          uint64(value),
			Confirmations:                   confs,
			Height:                          height,
			Note:                            memo,
			SubaddrIndex:                    SubAddress{Major: account, Minor: subAccount},
			SuggestedConfirmationsThreshold: confirmations,
			Timestamp:                       uint64(blockTime.Int64),
			Txid:                            reverseTxidBytes(txid),
			Type:                            transferType,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Callers expect a stable, height-ordered listing; SQLite gives no
	// ordering guarantee without an ORDER BY, and this filters rows
	// after the query runs, so sort here instead.
	slices.SortFunc(transfers, func(a, b Transfer) int { return int(a.Height) - int(b.Height) })
	return transfers, nil
}

// reverseTxidBytes renders stored (natural, little-endian-serialized)
// txid bytes as the network-order hex string wallet RPC callers expect.
func reverseTxidBytes(txid []byte) string {
	rev := make([]byte, len(txid))
	for i, b := range txid {
		rev[len(txid)-1-i] = b
	}
	return hex.EncodeToString(rev)
}

// reverseTxidHex converts a caller-supplied network-order hex txid back
// to the byte order received notes are stored under.
func reverseTxidHex(displayHex string) (string, error) {
	raw, err := hex.DecodeString(displayHex)
	if err != nil {
		return "", fmt.Errorf("storage: bad txid: %w", err)
	}
	rev := make([]byte, len(raw))
	for i, b := range raw {
		rev[len(raw)-1-i] = b
	}
	return hex.EncodeToString(rev), nil
}
