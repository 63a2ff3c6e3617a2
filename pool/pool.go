// Package pool provides the concrete Sapling and Orchard instantiations
// of noteenc's generic Decoder: the two structurally-identical shielded
// pools the scan engine trial-decrypts against.
//
// Curve arithmetic for Jubjub (Sapling) and Pallas (Orchard) ships in
// neither this module's dependency set nor anywhere in the reference
// pack, so both pools' key agreement goes through the noteenc.Agreement
// interface, and both pools derive nullifiers by calling
// fallbackNullifier directly (the NullifierDeriver interface below is
// declared but nothing in this package accepts one).
// Everything else — the KDF, the stream cipher, the AEAD, the note
// plaintext layout, the memo decode — is the genuine Zcash note
// encryption algorithm.
package pool

import (
	"encoding/binary"
	"fmt"

	"github.com/hhanh00/zcash-walletd/noteenc"
)

// Pool identifies which shielded pool a row/event belongs to, matching
// the storage schema's `receivers.pool` column.
type Pool int

const (
	PoolSapling Pool = 1
	PoolOrchard Pool = 2
)

// NullifierDeriver computes a note's nullifier from its rho/position and
// the pool's nullifier-deriving key. Sapling derives nf from
// (nk, rho, position); Orchard from (nk, rho, psi, rcm) — in both cases
// real derivation needs Jubjub/Pallas scalar multiplication, so this
// interface is the nullifier-side counterpart to noteenc.Agreement.
type NullifierDeriver interface {
	DeriveNullifier(rho noteenc.Hash, position uint64) noteenc.Hash
}

// fallbackNullifier is the stand-in derivation both pools' strategies
// call for every note: BLAKE2b-personalized hash of
// (nkBytes || rho || position), structurally in the same shape as the
// real PRF (domain-separated hash of key material + note-specific
// scalars) but without the curve-based PRF the consensus protocol
// actually specifies.
func fallbackNullifier(personalization [16]byte, nkBytes []byte, rho noteenc.Hash, position uint64) noteenc.Hash {
	var posBytes [8]byte
	binary.LittleEndian.PutUint64(posBytes[:], position)
	return blake2bHash(personalization, nkBytes, rho[:], posBytes[:])
}

func addressEncodeError(pool Pool, err error) error {
	return fmt.Errorf("pool %d: encode address: %w", pool, err)
}
