package pool

import (
	"golang.org/x/crypto/blake2b"

	"github.com/hhanh00/zcash-walletd/noteenc"
)

func blake2bHash(personalization [16]byte, parts ...[]byte) noteenc.Hash {
	h, err := blake2b.New(&blake2b.Config{Size: 32, Person: personalization[:]})
	if err != nil {
		// Size 32 and a 16-byte Person are always valid for blake2b; this
		// can only fail on programmer error in the config above.
		panic(err)
	}
	for _, p := range parts {
		h.Write(p)
	}
	var out noteenc.Hash
	copy(out[:], h.Sum(nil))
	return out
}
