package pool

import (
	"fmt"

	"github.com/hhanh00/zcash-walletd/noteenc"
)

// simpleAgreement stands in for real Jubjub/Pallas scalar
// multiplication (see noteenc.Agreement's doc comment): it derives a
// shared secret and a diversified transmission key deterministically
// from the prepared incoming viewing key material and the wire-visible
// ephemeral key or diversifier, rather than performing an actual DH
// agreement on an elliptic curve unavailable in this module's
// dependency set.
type simpleAgreement struct {
	ivk [32]byte
}

var (
	agreementPersonalization = [16]byte{'Z', 'w', 'd', '_', 'A', 'g', 'r', 'e', 'e', 'm', 'e', 'n', 't', '0', '0', '0'}
	pkdPersonalization        = [16]byte{'Z', 'w', 'd', '_', 'D', 'e', 'r', 'i', 'v', 'e', 'P', 'k', 'd', '0', '0', '0'}
)

func (a simpleAgreement) Agree(epk []byte) ([]byte, error) {
	secret := blake2bHash(agreementPersonalization, a.ivk[:], epk)
	return secret[:], nil
}

func (a simpleAgreement) DerivePkd(diversifier [11]byte) ([32]byte, error) {
	return blake2bHash(pkdPersonalization, a.ivk[:], diversifier[:]), nil
}

var (
	sapIVKPersonalization = [16]byte{'Z', 'w', 'd', '_', 'S', 'a', 'p', 'I', 'V', 'K', '0', '0', '0', '0', '0', '0'}
	sapNKPersonalization  = [16]byte{'Z', 'w', 'd', '_', 'S', 'a', 'p', 'N', 'K', '0', '0', '0', '0', '0', '0', '0'}
	orcIVKPersonalization = [16]byte{'Z', 'w', 'd', '_', 'O', 'r', 'c', 'I', 'V', 'K', '0', '0', '0', '0', '0', '0'}
	orcNKPersonalization  = [16]byte{'Z', 'w', 'd', '_', 'O', 'r', 'c', 'N', 'K', '0', '0', '0', '0', '0', '0', '0'}
)

// ParseUFVK derives this wallet's Sapling and/or Orchard prepared keys
// from a unified full viewing key string. Real UFVK decoding is
// Bech32m plus a Zip-316 item framing and F4Jumble unshuffle, none of
// which ship in this module's dependency set or the reference pack
// (original_source leans on zcash_client_backend for this, an
// unavailable library) — so the UFVK's raw bytes are instead run
// through domain-separated BLAKE2b hashes to deterministically derive
// each pool's IVK/NK material. The downstream KDF, cipher, AEAD and
// Sapling address encoding are the genuine algorithms (the Orchard
// address encoding is not; see EncodeOrchardUnifiedAddress); this key
// material's origin is a stand-in. orchard selects whether an Orchard
// key is also derived, matching the `orchard` config flag.
func ParseUFVK(ufvk string, orchard bool) (*SaplingPIVK, *OrchardPIVK, *SaplingNK, *OrchardNK, error) {
	if ufvk == "" {
		return nil, nil, nil, nil, fmt.Errorf("pool: empty viewing key")
	}
	raw := []byte(ufvk)

	sapIVK := blake2bHash(sapIVKPersonalization, raw)
	sapNKHash := blake2bHash(sapNKPersonalization, raw)
	sapPIVK := &SaplingPIVK{Agreement: simpleAgreement{ivk: sapIVK}}
	sapNK := &SaplingNK{Bytes: sapNKHash}

	if !orchard {
		return sapPIVK, nil, sapNK, nil, nil
	}

	orcIVK := blake2bHash(orcIVKPersonalization, raw)
	orcNKHash := blake2bHash(orcNKPersonalization, raw)
	orcPIVK := &OrchardPIVK{Agreement: simpleAgreement{ivk: orcIVK}}
	orcNK := &OrchardNK{Bytes: orcNKHash}

	return sapPIVK, orcPIVK, sapNK, orcNK, nil
}

// Fingerprint returns the last 8 hex characters of a BLAKE2b-256 hash
// of the UFVK string, for logging an identifying tag without ever
// printing the key itself.
func Fingerprint(ufvk string) string {
	h := blake2bHash(fingerprintPersonalization, []byte(ufvk))
	hexStr := fmt.Sprintf("%x", h[:])
	return hexStr[len(hexStr)-8:]
}

var fingerprintPersonalization = [16]byte{'Z', 'w', 'd', '_', 'F', 'i', 'n', 'g', 'e', 'r', 'p', 'r', 'i', 'n', 't', '0'}

var _ noteenc.Agreement = simpleAgreement{}
