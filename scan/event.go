// Package scan drives a block-height range through the protocol client,
// trial-decrypts every shielded output against the wallet's prepared
// decoders, and produces a totally-ordered event stream a controller
// can commit atomically.
package scan

import (
	"fmt"

	"github.com/hhanh00/zcash-walletd/noteenc"
	"github.com/hhanh00/zcash-walletd/pool"
)

// Event is the closed set of things a scan can produce. A type switch
// over the four concrete cases is the intended way to consume one.
type Event interface {
	isScanEvent()
}

// Received is emitted the moment a compact output's trial decryption
// succeeds.
type Received struct {
	Pool pool.Pool
	Note noteenc.ReceivedNote
}

// Spent is emitted when a spend/action nullifier matches a nullifier
// already known to the wallet.
type Spent struct {
	Pool pool.Pool
	Nf   noteenc.Hash
}

// Memo is emitted during the post-block-stream memo pass, once per
// successfully full-decrypted output belonging to a wallet transaction.
type Memo struct {
	Pool pool.Pool
	Nf   noteenc.Hash
	Memo string
}

// Block marks the end of one block's events, carrying the height, hash,
// and timestamp the controller persists as the new synced tip.
type Block struct {
	Height uint32
	Hash   noteenc.Hash
	Time   uint32
}

func (Received) isScanEvent() {}
func (Spent) isScanEvent()    {}
func (Memo) isScanEvent()     {}
func (Block) isScanEvent()    {}

// ReorgError is returned when a fetched block's prev_hash doesn't match
// the caller-supplied expectation. It is a soft, recoverable error: the
// controller truncates local state and returns without surfacing it; the
// next tick re-scans from the truncated height.
type ReorgError struct {
	Height uint32
}

func (e *ReorgError) Error() string {
	return fmt.Sprintf("scan: reorg detected at height %d: prev_hash mismatch", e.Height)
}
