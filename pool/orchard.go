package pool

import (
	"encoding/binary"
	"fmt"

	"github.com/hhanh00/zcash-walletd/noteenc"
	"github.com/hhanh00/zcash-walletd/walletrpc"
)

// OrchardFullAction is the set of fields a full Orchard Action
// Description must expose for memo decryption; parser's action type
// satisfies this structurally.
type OrchardFullAction interface {
	Nullifier() []byte
	Cmx() []byte
	EphemeralKey() []byte
	EncCiphertext() []byte
}

// OrchardPIVK bundles the prepared incoming viewing key material for
// the Pallas curve.
type OrchardPIVK struct {
	Agreement noteenc.Agreement
}

// OrchardNK is the Orchard nullifier-deriving key, `nk` in the protocol.
type OrchardNK struct {
	Bytes [32]byte
}

// OrchardDecoder is the concrete Decoder instantiation the scan engine
// drives for the Orchard pool.
type OrchardDecoder = noteenc.Decoder[OrchardPIVK, OrchardNK, *walletrpc.CompactOrchardAction, OrchardFullAction]

// NewOrchardDecoder builds an Orchard Decoder seeded with previously-known
// nullifiers.
func NewOrchardDecoder(pivk OrchardPIVK, nk OrchardNK, nfs []noteenc.Hash) *OrchardDecoder {
	return noteenc.NewDecoder[OrchardPIVK, OrchardNK, *walletrpc.CompactOrchardAction, OrchardFullAction](pivk, nk, orchardStrategy{}, nfs)
}

var orchardNfPersonalization = [16]byte{'Z', 'c', 'a', 's', 'h', '_', 'O', 'r', 'c', 'h', 'a', 'r', 'd', '_', 'n', 'f'}

type orchardStrategy struct{}

// TryCompact decrypts the compact Orchard action with the incoming
// viewing key. Per the Orchard note encoding, the resulting note's rho
// is defined to equal this action's own revealed nullifier (each action
// bundles exactly one spend and one output, and the output note is
// bound to the nullifier it appears alongside) — so unlike Sapling,
// rho here isn't a stand-in, it's read straight off the wire.
func (orchardStrategy) TryCompact(pivk OrchardPIVK, nk OrchardNK, height uint32, txid []byte, position uint32, action *walletrpc.CompactOrchardAction) (*noteenc.ReceivedNote, error) {
	sharedSecret, err := pivk.Agreement.Agree(action.EphemeralKey)
	if err != nil {
		return nil, fmt.Errorf("orchard: agree: %w", err)
	}
	key, err := noteenc.KDFOrchard(sharedSecret, action.EphemeralKey)
	if err != nil {
		return nil, fmt.Errorf("orchard: kdf: %w", err)
	}
	plaintext, err := noteenc.DecryptStream(key, action.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("orchard: decrypt: %w", err)
	}
	if len(plaintext) != compactNoteLen {
		return nil, fmt.Errorf("orchard: compact ciphertext must be %d bytes, got %d", compactNoteLen, len(plaintext))
	}
	if plaintext[0] != compactNoteLeadByte {
		return nil, nil
	}

	var diversifier [11]byte
	copy(diversifier[:], plaintext[1:12])
	value := binary.LittleEndian.Uint64(plaintext[12:20])
	var rseed noteenc.Hash
	copy(rseed[:], plaintext[20:52])

	pkd, err := pivk.Agreement.DerivePkd(diversifier)
	if err != nil {
		return nil, fmt.Errorf("orchard: derive pkd: %w", err)
	}
	receiver := append(append([]byte{}, diversifier[:]...), pkd[:]...)
	address, err := EncodeOrchardUnifiedAddress(receiver)
	if err != nil {
		return nil, addressEncodeError(PoolOrchard, err)
	}

	var rho noteenc.Hash
	copy(rho[:], action.Nullifier)

	nf := fallbackNullifier(orchardNfPersonalization, nk.Bytes[:], rho, uint64(position))

	var txidHash noteenc.Hash
	copy(txidHash[:], txid)

	return &noteenc.ReceivedNote{
		Txid:        txidHash,
		Position:    position,
		Height:      height,
		Address:     address,
		Diversifier: diversifier,
		Value:       value,
		Rcm:         rseed,
		Nf:          nf,
		Rho:         &rho,
	}, nil
}

func (orchardStrategy) TryFull(pivk OrchardPIVK, nk OrchardNK, position uint32, action OrchardFullAction) (*noteenc.MemoNote, error) {
	sharedSecret, err := pivk.Agreement.Agree(action.EphemeralKey())
	if err != nil {
		return nil, fmt.Errorf("orchard: agree: %w", err)
	}
	key, err := noteenc.KDFOrchard(sharedSecret, action.EphemeralKey())
	if err != nil {
		return nil, fmt.Errorf("orchard: kdf: %w", err)
	}
	plaintext, err := noteenc.DecryptFull(key, action.EncCiphertext())
	if err != nil {
		return nil, nil //nolint:nilerr
	}
	if len(plaintext) < compactNoteLen+512 {
		return nil, fmt.Errorf("orchard: full plaintext too short: %d bytes", len(plaintext))
	}
	if plaintext[0] != compactNoteLeadByte {
		return nil, nil
	}
	memoBytes := plaintext[52 : 52+512]

	var rho noteenc.Hash
	copy(rho[:], action.Nullifier())
	nf := fallbackNullifier(orchardNfPersonalization, nk.Bytes[:], rho, uint64(position))

	return &noteenc.MemoNote{
		Nf:   nf,
		Memo: noteenc.MemoText(memoBytes),
	}, nil
}
