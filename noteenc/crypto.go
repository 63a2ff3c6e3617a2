package noteenc

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/chacha20poly1305"
)

// Agreement performs the pool-specific Diffie-Hellman scalar
// multiplication (Jubjub for Sapling, Pallas for Orchard) that produces
// the shared secret fed into the KDF. Neither curve's group law ships in
// any available dependency, so this is the one interface a real
// implementation must supply with pool-specific curve arithmetic; every
// other primitive here (KDF, stream cipher, AEAD) is the genuine
// algorithm Zcash's note encryption uses.
type Agreement interface {
	// Agree returns the shared secret for the given ephemeral public key
	// and the receiver's incoming viewing key material.
	Agree(epk []byte) ([]byte, error)
	// DerivePkd returns the diversified transmission key for diversifier,
	// the other curve-dependent quantity a prepared IVK must produce (used
	// only to report the recipient address string, never for decryption).
	DerivePkd(diversifier [11]byte) ([32]byte, error)
}

// kdf derives the 32-byte ChaCha20(-Poly1305) key from a DH shared
// secret and the ephemeral key bytes, using a BLAKE2b-256 hash
// personalized the way zcash_note_encryption keys its KDF per pool.
func kdf(personalization [16]byte, sharedSecret, epk []byte) ([32]byte, error) {
	h, err := blake2b.New(&blake2b.Config{Size: 32, Person: personalization[:]})
	if err != nil {
		return [32]byte{}, err
	}
	h.Write(sharedSecret)
	h.Write(epk)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

var (
	saplingKDFPersonalization = [16]byte{'Z', 'c', 'a', 's', 'h', '_', 'S', 'a', 'p', 'l', 'i', 'n', 'g', 'K', 'D', 'F'}
	orchardKDFPersonalization = [16]byte{'Z', 'c', 'a', 's', 'h', '_', 'O', 'r', 'c', 'h', 'a', 'r', 'd', 'K', 'D', 'F'}
)

// KDFSapling matches the personalization string `Zcash_SaplingKDF`.
func KDFSapling(sharedSecret, epk []byte) ([32]byte, error) {
	return kdf(saplingKDFPersonalization, sharedSecret, epk)
}

// KDFOrchard matches the personalization string `Zcash_OrchardKDF`.
func KDFOrchard(sharedSecret, epk []byte) ([32]byte, error) {
	return kdf(orchardKDFPersonalization, sharedSecret, epk)
}

// DecryptStream applies the raw ChaCha20 keystream (zero nonce, as the
// protocol does since each note's key is used exactly once) to produce
// the note plaintext prefix carried in a compact output/action. This is
// used for the compact path, which never carries the authentication tag.
// The keystream starts at block counter 1, where ChaCha20-Poly1305 starts
// encrypting (block 0 keys Poly1305), so the result matches the prefix
// DecryptFull recovers from the same note.
func DecryptStream(key [32]byte, ciphertext []byte) ([]byte, error) {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return nil, err
	}
	c.SetCounter(1)
	plaintext := make([]byte, len(ciphertext))
	c.XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

// DecryptFull opens the full AEAD ciphertext (52-byte note plaintext +
// 512-byte memo + 16-byte Poly1305 tag), returning an error if the tag
// doesn't verify.
func DecryptFull(key [32]byte, ciphertext []byte) ([]byte, error) {
	var nonce [chacha20poly1305.NonceSize]byte
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce[:], ciphertext, nil)
}
