package pool

import "encoding/binary"

var diversifierPersonalization = [16]byte{'Z', 'c', 'a', 's', 'h', '_', 'D', 'i', 'v', 'e', 'r', 's', 'i', 'f', 'y', 'r'}

// DeriveDiversifier maps a wallet-global diversifier index to an
// 11-byte diversifier. The real protocol derives diversifiers by
// repeated elligator-style rejection sampling against the group's
// encoding, which needs the same Jubjub/Pallas arithmetic noteenc.Agreement
// stands in for; this BLAKE2b-personalized hash of the index is the
// matching stand-in on the allocation side, and — unlike the real
// derivation — never rejects, so every uint64 index is valid.
func DeriveDiversifier(index uint64) [11]byte {
	var idxBytes [8]byte
	binary.LittleEndian.PutUint64(idxBytes[:], index)
	h := blake2bHash(diversifierPersonalization, idxBytes[:])
	var d [11]byte
	copy(d[:], h[:11])
	return d
}

// DeriveAddress returns this key's Sapling address for diversifierIndex.
func (p SaplingPIVK) DeriveAddress(diversifierIndex uint64) (string, error) {
	diversifier := DeriveDiversifier(diversifierIndex)
	pkd, err := p.Agreement.DerivePkd(diversifier)
	if err != nil {
		return "", err
	}
	return EncodeSaplingAddress(diversifier, pkd)
}

// DeriveAddress returns this key's single-receiver Orchard unified
// address for diversifierIndex.
func (p OrchardPIVK) DeriveAddress(diversifierIndex uint64) (string, error) {
	diversifier := DeriveDiversifier(diversifierIndex)
	pkd, err := p.Agreement.DerivePkd(diversifier)
	if err != nil {
		return "", err
	}
	receiver := append(append([]byte{}, diversifier[:]...), pkd[:]...)
	return EncodeOrchardUnifiedAddress(receiver)
}
