package scan

import (
	"context"
	"fmt"

	"github.com/hhanh00/zcash-walletd/noteenc"
	"github.com/hhanh00/zcash-walletd/parser"
	"github.com/hhanh00/zcash-walletd/pool"
	"github.com/hhanh00/zcash-walletd/walletrpc"
)

// ChainClient is the subset of *chainclient.Client the engine needs,
// named here so tests can substitute a fake without dialing a real
// upstream service.
type ChainClient interface {
	GetTreeState(ctx context.Context, height uint64) (*walletrpc.TreeState, error)
	GetBlockRange(ctx context.Context, start, end uint64) (<-chan *walletrpc.CompactBlock, <-chan error)
	GetTransaction(ctx context.Context, txid []byte, height uint64) ([]byte, error)
}

// Engine drives one scan window over a chain client, trial-decrypting
// every compact output/action against whichever of the two pool
// decoders is non-nil (a view-only wallet may hold only a Sapling or
// only an Orchard key).
type Engine struct {
	Client  ChainClient
	Sapling *pool.SaplingDecoder
	Orchard *pool.OrchardDecoder
}

type walletTx struct {
	height      uint32
	txid        []byte
	sapPosition uint32
	orcPosition uint32
}

// Run scans [start, end] inclusive, returning the chronologically
// ordered event list described in the package doc, or a *ReorgError if
// a fetched block's prev_hash doesn't match prevHash.
func (e *Engine) Run(ctx context.Context, start, end uint64, prevHash noteenc.Hash) ([]Event, error) {
	treeState, err := e.Client.GetTreeState(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("scan: get tree state: %w", err)
	}
	sapPosition, err := treeSize(treeState.SaplingTree)
	if err != nil {
		return nil, fmt.Errorf("scan: sapling tree size: %w", err)
	}
	orcPosition, err := treeSize(treeState.OrchardTree)
	if err != nil {
		return nil, fmt.Errorf("scan: orchard tree size: %w", err)
	}

	blocks, errc := e.Client.GetBlockRange(ctx, start, end)

	var events []Event
	var walletTxs []walletTx

	for block := range blocks {
		height := uint32(block.Height)

		var blockPrevHash noteenc.Hash
		copy(blockPrevHash[:], block.PrevHash)
		if prevHash != blockPrevHash {
			return nil, &ReorgError{Height: height}
		}
		copy(prevHash[:], block.Hash)

		for _, vtx := range block.Vtx {
			found := false
			txSapStart := sapPosition
			txOrcStart := orcPosition

			if e.Sapling != nil {
				for _, spend := range vtx.Spends {
					var nf noteenc.Hash
					copy(nf[:], spend.Nf)
					if e.Sapling.HasNullifier(nf) {
						events = append(events, Spent{Pool: pool.PoolSapling, Nf: nf})
					}
				}
				for i, output := range vtx.Outputs {
					note, err := e.Sapling.TryCompact(height, vtx.Hash, sapPosition+uint32(i), output)
					if err != nil {
						return nil, fmt.Errorf("scan: sapling compact decrypt: %w", err)
					}
					if note != nil {
						e.Sapling.AddNullifier(note.Nf)
						events = append(events, Received{Pool: pool.PoolSapling, Note: *note})
						found = true
					}
				}
			}

			if e.Orchard != nil {
				for i, action := range vtx.Actions {
					var nf noteenc.Hash
					copy(nf[:], action.Nullifier)
					if e.Orchard.HasNullifier(nf) {
						events = append(events, Spent{Pool: pool.PoolOrchard, Nf: nf})
					}
					note, err := e.Orchard.TryCompact(height, vtx.Hash, orcPosition+uint32(i), action)
					if err != nil {
						return nil, fmt.Errorf("scan: orchard compact decrypt: %w", err)
					}
					if note != nil {
						e.Orchard.AddNullifier(note.Nf)
						events = append(events, Received{Pool: pool.PoolOrchard, Note: *note})
						found = true
					}
				}
			}

			if found {
				walletTxs = append(walletTxs, walletTx{
					height:      height,
					txid:        append([]byte{}, vtx.Hash...),
					sapPosition: txSapStart,
					orcPosition: txOrcStart,
				})
			}

			sapPosition += uint32(len(vtx.Outputs))
			orcPosition += uint32(len(vtx.Actions))
		}

		events = append(events, Block{Height: height, Hash: prevHash, Time: block.Time})
	}

	if err := <-errc; err != nil {
		return nil, fmt.Errorf("scan: block stream: %w", err)
	}

	for _, wtx := range walletTxs {
		memoEvents, err := e.scanMemo(ctx, wtx)
		if err != nil {
			return nil, err
		}
		events = append(events, memoEvents...)
	}

	return events, nil
}

// scanMemo fetches a wallet transaction's full bytes and runs the
// full-decryption path over its Sapling outputs and Orchard actions to
// recover memo text, matched up against the compact pass by position.
func (e *Engine) scanMemo(ctx context.Context, wtx walletTx) ([]Event, error) {
	raw, err := e.Client.GetTransaction(ctx, wtx.txid, uint64(wtx.height))
	if err != nil {
		return nil, fmt.Errorf("scan: get transaction: %w", err)
	}
	tx := parser.NewTransaction()
	if _, err := tx.ParseFromSlice(raw); err != nil {
		return nil, fmt.Errorf("scan: parse transaction: %w", err)
	}

	var events []Event

	if e.Sapling != nil {
		for i, output := range tx.SaplingOutputs() {
			note, err := e.Sapling.TryFull(wtx.sapPosition+uint32(i), output)
			if err != nil {
				return nil, fmt.Errorf("scan: sapling full decrypt: %w", err)
			}
			if note != nil {
				events = append(events, Memo{Pool: pool.PoolSapling, Nf: note.Nf, Memo: note.Memo})
			}
		}
	}
	if e.Orchard != nil {
		for i, action := range tx.OrchardActions() {
			note, err := e.Orchard.TryFull(wtx.orcPosition+uint32(i), action)
			if err != nil {
				return nil, fmt.Errorf("scan: orchard full decrypt: %w", err)
			}
			if note != nil {
				events = append(events, Memo{Pool: pool.PoolOrchard, Nf: note.Nf, Memo: note.Memo})
			}
		}
	}

	return events, nil
}
