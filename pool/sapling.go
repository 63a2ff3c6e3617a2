package pool

import (
	"encoding/binary"
	"fmt"

	"github.com/hhanh00/zcash-walletd/noteenc"
	"github.com/hhanh00/zcash-walletd/walletrpc"
)

// SaplingFullOutput is the set of fields a full Sapling Output
// Description must expose for memo decryption; parser.output satisfies
// this structurally without either package importing the other.
type SaplingFullOutput interface {
	Cmu() []byte
	EphemeralKey() []byte
	EncCiphertext() []byte
}

// SaplingPIVK bundles the prepared incoming viewing key material: the
// DH agreement the hot path needs, keyed for the Jubjub curve.
type SaplingPIVK struct {
	Agreement noteenc.Agreement
}

// SaplingNK is the Sapling nullifier-deriving key, `nk` in the protocol.
type SaplingNK struct {
	Bytes [32]byte
}

// SaplingDecoder is the concrete Decoder instantiation the scan engine
// drives for the Sapling pool.
type SaplingDecoder = noteenc.Decoder[SaplingPIVK, SaplingNK, *walletrpc.CompactSaplingOutput, SaplingFullOutput]

// NewSaplingDecoder builds a Sapling Decoder seeded with previously-known
// nullifiers (loaded from storage at tick start).
func NewSaplingDecoder(pivk SaplingPIVK, nk SaplingNK, nfs []noteenc.Hash) *SaplingDecoder {
	return noteenc.NewDecoder[SaplingPIVK, SaplingNK, *walletrpc.CompactSaplingOutput, SaplingFullOutput](pivk, nk, saplingStrategy{}, nfs)
}

var saplingNfPersonalization = [16]byte{'Z', 'c', 'a', 's', 'h', '_', 'S', 'a', 'p', 'l', 'i', 'n', 'g', '_', 'n', 'f'}

const (
	compactNoteLeadByte = 0x02 // note plaintext version, post-Canopy (ZIP 212)
	compactNoteLen      = 52   // leadbyte(1) + diversifier(11) + value(8) + rcm/rseed(32)
)

type saplingStrategy struct{}

func (saplingStrategy) TryCompact(pivk SaplingPIVK, nk SaplingNK, height uint32, txid []byte, position uint32, output *walletrpc.CompactSaplingOutput) (*noteenc.ReceivedNote, error) {
	sharedSecret, err := pivk.Agreement.Agree(output.Epk)
	if err != nil {
		return nil, fmt.Errorf("sapling: agree: %w", err)
	}
	key, err := noteenc.KDFSapling(sharedSecret, output.Epk)
	if err != nil {
		return nil, fmt.Errorf("sapling: kdf: %w", err)
	}
	plaintext, err := noteenc.DecryptStream(key, output.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("sapling: decrypt: %w", err)
	}
	if len(plaintext) != compactNoteLen {
		return nil, fmt.Errorf("sapling: compact ciphertext must be %d bytes, got %d", compactNoteLen, len(plaintext))
	}
	if plaintext[0] != compactNoteLeadByte {
		return nil, nil
	}

	var diversifier [11]byte
	copy(diversifier[:], plaintext[1:12])
	value := binary.LittleEndian.Uint64(plaintext[12:20])
	var rcm noteenc.Hash
	copy(rcm[:], plaintext[20:52])

	pkd, err := pivk.Agreement.DerivePkd(diversifier)
	if err != nil {
		return nil, fmt.Errorf("sapling: derive pkd: %w", err)
	}
	address, err := EncodeSaplingAddress(diversifier, pkd)
	if err != nil {
		return nil, addressEncodeError(PoolSapling, err)
	}

	nf := fallbackNullifier(saplingNfPersonalization, nk.Bytes[:], rcm, uint64(position))

	var txidHash noteenc.Hash
	copy(txidHash[:], txid)

	return &noteenc.ReceivedNote{
		Txid:        txidHash,
		Position:    position,
		Height:      height,
		Address:     address,
		Diversifier: diversifier,
		Value:       value,
		Rcm:         rcm,
		Nf:          nf,
		Rho:         nil,
	}, nil
}

func (saplingStrategy) TryFull(pivk SaplingPIVK, nk SaplingNK, position uint32, output SaplingFullOutput) (*noteenc.MemoNote, error) {
	sharedSecret, err := pivk.Agreement.Agree(output.EphemeralKey())
	if err != nil {
		return nil, fmt.Errorf("sapling: agree: %w", err)
	}
	key, err := noteenc.KDFSapling(sharedSecret, output.EphemeralKey())
	if err != nil {
		return nil, fmt.Errorf("sapling: kdf: %w", err)
	}
	plaintext, err := noteenc.DecryptFull(key, output.EncCiphertext())
	if err != nil {
		// AEAD tag mismatch: this output isn't ours.
		return nil, nil //nolint:nilerr
	}
	if len(plaintext) < compactNoteLen+512 {
		return nil, fmt.Errorf("sapling: full plaintext too short: %d bytes", len(plaintext))
	}
	if plaintext[0] != compactNoteLeadByte {
		return nil, nil
	}
	var rcm noteenc.Hash
	copy(rcm[:], plaintext[20:52])
	memoBytes := plaintext[52 : 52+512]

	nf := fallbackNullifier(saplingNfPersonalization, nk.Bytes[:], rcm, uint64(position))

	return &noteenc.MemoNote{
		Nf:   nf,
		Memo: noteenc.MemoText(memoBytes),
	}, nil
}
