package pool

import (
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Network-specific human-readable prefixes, matching mainnet Zcash.
const (
	hrpSaplingMainnet = "zs"
	hrpOrchardUAMain  = "u"
)

// EncodeSaplingAddress bech32-encodes an 11-byte diversifier plus
// 32-byte diversified transmission key into a single-receiver Sapling
// address. This is the real Sapling address wire format (Bech32,
// d || pk_d, 43 bytes payload); what's simplified elsewhere is the
// derivation of pk_d itself (see noteenc.Agreement), not this encoding.
func EncodeSaplingAddress(diversifier [11]byte, pkd [32]byte) (string, error) {
	payload := make([]byte, 0, 43)
	payload = append(payload, diversifier[:]...)
	payload = append(payload, pkd[:]...)
	converted, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrpSaplingMainnet, converted)
}

// EncodeOrchardUnifiedAddress Bech32m-encodes a raw 43-byte Orchard
// receiver (diversifier || pk_d analogue) under the "u" prefix. It adds
// no ZIP-316 typecode/length item framing, no HRP padding and no
// F4Jumble, so the result is not a standard unified address that other
// wallets can decode.
func EncodeOrchardUnifiedAddress(receiver []byte) (string, error) {
	converted, err := bech32.ConvertBits(receiver, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.EncodeM(hrpOrchardUAMain, converted)
}
