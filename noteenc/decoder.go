package noteenc

// Strategy supplies the pool-specific note-decryption logic a Decoder
// drives. PIVK and NK correspond to Rust's PreparedIncomingViewingKey and
// NullifierKey associated types; Compact and Full are the wire/full
// output types the scan engine feeds in (walletrpc's
// CompactSaplingOutput/CompactOrchardAction for Compact, the parser's
// full Sapling output / Orchard action for Full).
type Strategy[PIVK, NK, Compact, Full any] interface {
	// TryCompact attempts compact note decryption. A nil ReceivedNote
	// with a nil error means decryption simply didn't match this key —
	// the hot-path, expected-failure case every output goes through.
	TryCompact(pivk PIVK, nk NK, height uint32, txid []byte, position uint32, output Compact) (*ReceivedNote, error)
	// TryFull attempts full note decryption, including the memo.
	TryFull(pivk PIVK, nk NK, position uint32, output Full) (*MemoNote, error)
}

// Decoder holds one pool's prepared viewing key material plus the set of
// nullifiers known to belong to the wallet, and drives a Strategy's
// decryption attempts. The nullifier set is mutated in place as new
// notes are discovered within a scan window, matching the source
// algorithm's requirement that an intra-window receive be visible to a
// later spend check in the same pass.
type Decoder[PIVK, NK, Compact, Full any] struct {
	PIVK     PIVK
	NK       NK
	strategy Strategy[PIVK, NK, Compact, Full]
	nfs      map[Hash]struct{}
}

// NewDecoder builds a Decoder seeded with the nullifiers of all
// currently-unspent notes (as loaded from storage at tick start).
func NewDecoder[PIVK, NK, Compact, Full any](pivk PIVK, nk NK, strategy Strategy[PIVK, NK, Compact, Full], nfs []Hash) *Decoder[PIVK, NK, Compact, Full] {
	set := make(map[Hash]struct{}, len(nfs))
	for _, nf := range nfs {
		set[nf] = struct{}{}
	}
	return &Decoder[PIVK, NK, Compact, Full]{PIVK: pivk, NK: nk, strategy: strategy, nfs: set}
}

// AddNullifier records a newly-discovered note's nullifier so a later
// spend of it within the same scan window is recognized.
func (d *Decoder[PIVK, NK, Compact, Full]) AddNullifier(nf Hash) {
	d.nfs[nf] = struct{}{}
}

// HasNullifier reports whether nf is known to the wallet — the spend
// detection test.
func (d *Decoder[PIVK, NK, Compact, Full]) HasNullifier(nf Hash) bool {
	_, ok := d.nfs[nf]
	return ok
}

// TryCompact is the scan engine's hot-path call: every compact
// output/action in every transaction goes through this.
func (d *Decoder[PIVK, NK, Compact, Full]) TryCompact(height uint32, txid []byte, position uint32, output Compact) (*ReceivedNote, error) {
	return d.strategy.TryCompact(d.PIVK, d.NK, height, txid, position, output)
}

// TryFull is called only for transactions the compact pass already
// flagged as belonging to the wallet, once their full bytes are fetched.
func (d *Decoder[PIVK, NK, Compact, Full]) TryFull(position uint32, output Full) (*MemoNote, error) {
	return d.strategy.TryFull(d.PIVK, d.NK, position, output)
}
