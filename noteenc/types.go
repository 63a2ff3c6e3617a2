// Package noteenc implements the pool-parameterized trial-decryption
// machinery shared by Sapling and Orchard: KDF/AEAD primitives, a
// generic Decoder that holds the prepared incoming viewing key plus the
// in-memory nullifier set, and the compact/full decryption entry points
// the scan engine drives.
//
// Go has no associated types, so the Rust `Pool` trait (PreparedIVK,
// NullifierKey, CompactOutput, Output) is modeled as four ordinary type
// parameters on Decoder, with the pool-specific behavior supplied by a
// Strategy implementation (see Strategy in decoder.go; the pool package
// supplies the Sapling and Orchard implementations).
package noteenc

// Hash is a 32-byte value: a nullifier, a commitment, an rcm, a rho.
type Hash = [32]byte

// ReceivedNote is what a successful compact decryption yields: enough to
// insert a received_notes row and to test later spends against its nf.
type ReceivedNote struct {
	Txid        Hash
	Position    uint32
	Height      uint32
	Address     string
	Diversifier [11]byte
	Value       uint64
	Rcm         Hash
	Nf          Hash
	Rho         *Hash // Orchard only
}

// MemoNote is what a successful full decryption yields once the memo
// ciphertext has been opened and decoded.
type MemoNote struct {
	Nf   Hash
	Memo string
}
