package storage

import (
	"database/sql"
	"fmt"

	"github.com/hhanh00/zcash-walletd/noteenc"
	"github.com/hhanh00/zcash-walletd/pool"
	"github.com/hhanh00/zcash-walletd/scan"
)

// unknownDiversifierIndex marks an addresses row that was auto-created
// because a note arrived at a diversified address this wallet never
// explicitly allocated via NewAccount/NewSubAccount — the diversifier
// bytes were recovered from the note itself, but this store has no way
// to invert them back to an index.
const unknownDiversifierIndex = -1

// StoreEvents applies one scan window's events atomically, in the order
// the engine produced them, exactly matching spec.md §4.3's per-event
// semantics. It returns the txids of transactions newly created during
// this batch, for the controller to hand to the notifier afterward.
func (s *Store) StoreEvents(events []scan.Event) ([][]byte, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("storage: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var newTxids [][]byte
	for _, ev := range events {
		switch e := ev.(type) {
		case scan.Received:
			txid, err := s.applyReceived(tx, e)
			if err != nil {
				return nil, err
			}
			if txid != nil {
				newTxids = append(newTxids, txid)
			}
		case scan.Spent:
			if err := s.applySpent(tx, e); err != nil {
				return nil, err
			}
		case scan.Memo:
			if err := s.applyMemo(tx, e); err != nil {
				return nil, err
			}
		case scan.Block:
			if err := s.applyBlock(tx, e); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("storage: unknown event type %T", ev)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("storage: commit: %w", err)
	}
	return newTxids, nil
}

// applyReceived upserts the owning transaction row, attaches the note
// to a known or newly-created address, and returns the transaction's
// txid if the row was newly created this call (so the caller can
// notify on it).
func (s *Store) applyReceived(tx *sql.Tx, e scan.Received) ([]byte, error) {
	txID, created, err := upsertTransaction(tx, e.Note.Txid[:], int64(e.Note.Height), int64(e.Note.Value))
	if err != nil {
		return nil, err
	}

	_, account, subAccount, found, err := s.findReceiverTx(tx, e.Note.Address)
	if err != nil {
		return nil, err
	}
	if !found {
		_, account, subAccount, err = s.createUnknownAddress(tx, e.Pool, e.Note.Address)
		if err != nil {
			return nil, err
		}
	}

	var rho []byte
	if e.Note.Rho != nil {
		rho = e.Note.Rho[:]
	}
	_, err = tx.Exec(`
		INSERT INTO received_notes
			(address, account, sub_account, tx_id, position, height, diversifier, value, rcm, nf, rho)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Note.Address, account, subAccount, txID, e.Note.Position, e.Note.Height,
		e.Note.Diversifier[:], e.Note.Value, e.Note.Rcm[:], e.Note.Nf[:], rho)
	if err != nil {
		return nil, fmt.Errorf("storage: insert received_notes: %w", err)
	}

	if created {
		return e.Note.Txid[:], nil
	}
	return nil, nil
}

func (s *Store) applySpent(tx *sql.Tx, e scan.Spent) error {
	var txID int64
	var value int64
	row := tx.QueryRow(`SELECT tx_id, value FROM received_notes WHERE nf = ?`, e.Nf[:])
	if err := row.Scan(&txID, &value); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("storage: spend of unknown nullifier")
		}
		return fmt.Errorf("storage: lookup spent note: %w", err)
	}
	if _, err := tx.Exec(`UPDATE received_notes SET spent = ? WHERE nf = ?`, txID, e.Nf[:]); err != nil {
		return fmt.Errorf("storage: mark spent: %w", err)
	}
	if _, err := tx.Exec(`UPDATE transactions SET value = value - ? WHERE id = ?`, value, txID); err != nil {
		return fmt.Errorf("storage: subtract spent value: %w", err)
	}
	return nil
}

func (s *Store) applyMemo(tx *sql.Tx, e scan.Memo) error {
	if _, err := tx.Exec(`UPDATE received_notes SET memo = ? WHERE nf = ?`, e.Memo, e.Nf[:]); err != nil {
		return fmt.Errorf("storage: update memo: %w", err)
	}
	return nil
}

func (s *Store) applyBlock(tx *sql.Tx, e scan.Block) error {
	if _, err := tx.Exec(`INSERT INTO blocks (height, hash, time) VALUES (?, ?, ?)`, e.Height, e.Hash[:], e.Time); err != nil {
		return fmt.Errorf("storage: insert block: %w", err)
	}
	return nil
}

func upsertTransaction(tx *sql.Tx, txid []byte, height, valueDelta int64) (id int64, created bool, err error) {
	row := tx.QueryRow(`SELECT id FROM transactions WHERE txid = ?`, txid)
	err = row.Scan(&id)
	switch err {
	case nil:
		if _, err := tx.Exec(`UPDATE transactions SET value = value + ? WHERE id = ?`, valueDelta, id); err != nil {
			return 0, false, fmt.Errorf("storage: update transaction value: %w", err)
		}
		return id, false, nil
	case sql.ErrNoRows:
		res, err := tx.Exec(`INSERT INTO transactions (txid, height, value) VALUES (?, ?, ?)`, txid, height, valueDelta)
		if err != nil {
			return 0, false, fmt.Errorf("storage: insert transaction: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("storage: insert transaction: %w", err)
		}
		return id, true, nil
	default:
		return 0, false, fmt.Errorf("storage: lookup transaction: %w", err)
	}
}

func (s *Store) findReceiverTx(tx *sql.Tx, receiverAddress string) (addressID int64, account, subAccount uint32, found bool, err error) {
	row := tx.QueryRow(`
		SELECT a.id, a.account, a.sub_account
		FROM receivers r JOIN addresses a ON a.id = r.address_id
		WHERE r.receiver_address = ?`, receiverAddress)
	err = row.Scan(&addressID, &account, &subAccount)
	if err == sql.ErrNoRows {
		return 0, 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, 0, false, fmt.Errorf("storage: find receiver: %w", err)
	}
	return addressID, account, subAccount, true, nil
}

func (s *Store) createUnknownAddress(tx *sql.Tx, p pool.Pool, receiverAddress string) (addressID int64, account, subAccount uint32, err error) {
	var maxAccount sql.NullInt64
	if err := tx.QueryRow(`SELECT MAX(account) FROM addresses`).Scan(&maxAccount); err != nil {
		return 0, 0, 0, fmt.Errorf("storage: max account: %w", err)
	}
	if !maxAccount.Valid {
		return 0, 0, 0, fmt.Errorf("storage: received a note with no account to attach it to")
	}
	account = uint32(maxAccount.Int64)

	var maxSub sql.NullInt64
	if err := tx.QueryRow(`SELECT MAX(sub_account) FROM addresses WHERE account = ?`, account).Scan(&maxSub); err != nil {
		return 0, 0, 0, fmt.Errorf("storage: max sub_account: %w", err)
	}
	subAccount = uint32(maxSub.Int64) + 1

	res, err := tx.Exec(`INSERT INTO addresses (label, account, sub_account, address, diversifier_index) VALUES (?, ?, ?, ?, ?)`,
		"", account, subAccount, receiverAddress, unknownDiversifierIndex)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("storage: insert unknown address: %w", err)
	}
	addressID, err = res.LastInsertId()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("storage: insert unknown address: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO receivers (pool, address_id, receiver_address) VALUES (?, ?, ?)`,
		p, addressID, receiverAddress); err != nil {
		return 0, 0, 0, fmt.Errorf("storage: insert unknown receiver: %w", err)
	}
	return addressID, account, subAccount, nil
}

// GetNullifiers returns every nullifier of currently-unspent received
// notes, seeding a decoder's in-memory set at the start of a tick.
func (s *Store) GetNullifiers(p pool.Pool) ([]noteenc.Hash, error) {
	rows, err := s.db.Query(`
		SELECT rn.nf FROM received_notes rn
		JOIN receivers r ON r.receiver_address = rn.address
		WHERE r.pool = ? AND rn.spent IS NULL`, p)
	if err != nil {
		return nil, fmt.Errorf("storage: get nullifiers: %w", err)
	}
	defer rows.Close()

	var nfs []noteenc.Hash
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("storage: get nullifiers: %w", err)
		}
		var nf noteenc.Hash
		copy(nf[:], raw)
		nfs = append(nfs, nf)
	}
	return nfs, rows.Err()
}
