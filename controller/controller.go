// Package controller drives the daemon's scan tick: load the synced
// tip, ask the chain client for the current height, build decoders
// seeded with already-known nullifiers, run the scan engine over the
// new window, and commit the result — or truncate and recover on a
// detected reorg. This is the one piece of spec.md §4.4 every RPC
// handler and the poll ticker ultimately calls through.
package controller

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hhanh00/zcash-walletd/common"
	"github.com/hhanh00/zcash-walletd/noteenc"
	"github.com/hhanh00/zcash-walletd/pool"
	"github.com/hhanh00/zcash-walletd/scan"
	"github.com/hhanh00/zcash-walletd/storage"
)

// Notifier is the subset of *notify.Notifier the controller calls
// after committing a tick's events. Declared here, rather than
// importing the notify package directly, so controller doesn't need
// to know about HTTP/TLS concerns — only the notify package does.
type Notifier interface {
	Notify(txids [][]byte)
}

// ChainClient is the subset of *chainclient.Client the controller
// itself needs, beyond what it hands down to the scan engine.
type ChainClient interface {
	scan.ChainClient
	GetLatestHeight(ctx context.Context) (uint64, error)
}

// Controller serializes scan ticks against one store/chain-client
// pair. The zero value is not usable; construct with New.
type Controller struct {
	Store         *storage.Store
	Client        ChainClient
	Sapling       *pool.SaplingPIVK
	Orchard       *pool.OrchardPIVK
	SaplingNK     *pool.SaplingNK
	OrchardNK     *pool.OrchardNK
	BirthHeight   uint32
	Confirmations uint32
	Notifier      Notifier // nil disables notification, matching an unset notify_tx_url

	mu sync.Mutex // serializes ticks: spec.md §5, "overlapping ticks are not supported"
}

func New(store *storage.Store, client ChainClient, sapling *pool.SaplingPIVK, orchard *pool.OrchardPIVK, sapNK *pool.SaplingNK, orcNK *pool.OrchardNK, birthHeight, confirmations uint32) *Controller {
	return &Controller{
		Store:         store,
		Client:        client,
		Sapling:       sapling,
		Orchard:       orchard,
		SaplingNK:     sapNK,
		OrchardNK:     orcNK,
		BirthHeight:   birthHeight,
		Confirmations: confirmations,
	}
}

// Bootstrap prepares a freshly-opened store for its first tick: it
// creates the schema (idempotent on an existing database), and on a
// database with no addresses yet, seeds a default account and asks
// the chain client for the birth height's block hash so the very
// first RequestScan has a prev_hash to validate against — matching
// spec.md §4.2's get_block_hash/fetch_block_hash contract and §6's
// "on startup, if the database is empty... birth_height's block hash
// is seeded by querying the server."
func (c *Controller) Bootstrap(ctx context.Context) error {
	hadAddresses, err := c.Store.Create()
	if err != nil {
		return fmt.Errorf("controller: bootstrap: %w", err)
	}
	if hadAddresses {
		return nil
	}

	if _, err := c.Store.NewAccount(""); err != nil {
		return fmt.Errorf("controller: bootstrap: create default account: %w", err)
	}

	if _, found, err := c.Store.FetchBlockHash(c.BirthHeight); err != nil {
		return fmt.Errorf("controller: bootstrap: %w", err)
	} else if found {
		return nil
	}

	treeState, err := c.Client.GetTreeState(ctx, uint64(c.BirthHeight))
	if err != nil {
		return fmt.Errorf("controller: bootstrap: fetch birth block: %w", err)
	}
	raw, err := hex.DecodeString(treeState.Hash)
	if err != nil {
		return fmt.Errorf("controller: bootstrap: bad birth block hash: %w", err)
	}
	var hash noteenc.Hash
	copy(hash[:], raw)
	if err := c.Store.SeedBlock(c.BirthHeight, hash, treeState.Time); err != nil {
		return fmt.Errorf("controller: bootstrap: %w", err)
	}
	common.Log.Infof("seeded birth height %d, hash %s", c.BirthHeight, treeState.Hash)
	return nil
}

// RequestScan runs one scan tick. Calls block on one another rather
// than running concurrently; the caller (an HTTP handler goroutine or
// the poll ticker) simply waits its turn.
func (c *Controller) RequestScan(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start, err := c.Store.GetSyncedHeight(c.BirthHeight)
	if err != nil {
		return fmt.Errorf("controller: tick: %w", err)
	}
	prevHash, found, err := c.Store.FetchBlockHash(start)
	if err != nil {
		return fmt.Errorf("controller: tick: %w", err)
	}
	if !found {
		common.Log.Fatalf("controller: integrity: missing block hash for synced height %d", start)
	}

	end, err := c.Client.GetLatestHeight(ctx)
	if err != nil {
		return fmt.Errorf("controller: tick: get latest height: %w", err)
	}
	if start >= end {
		return nil
	}

	sapDecoder, orcDecoder, err := c.buildDecoders()
	if err != nil {
		return fmt.Errorf("controller: tick: %w", err)
	}

	engine := &scan.Engine{Client: c.Client, Sapling: sapDecoder, Orchard: orcDecoder}
	events, err := engine.Run(ctx, start+1, end, prevHash)
	if err != nil {
		var reorg *scan.ReorgError
		if errors.As(err, &reorg) {
			return c.recoverReorg(reorg)
		}
		return fmt.Errorf("controller: tick: %w", err)
	}

	newTxids, err := c.Store.StoreEvents(events)
	if err != nil {
		return fmt.Errorf("controller: tick: commit: %w", err)
	}
	common.Log.Infof("scanned %d..%d: %d events, %d new transactions", start+1, end, len(events), len(newTxids))

	if c.Notifier != nil {
		c.Notifier.Notify(newTxids)
	}
	return nil
}

// recoverReorg truncates the store back past the configured
// confirmation depth, matching spec.md §4.4's reorg-recovery step:
// the next tick re-scans from there against whatever chain the server
// now reports.
func (c *Controller) recoverReorg(reorg *scan.ReorgError) error {
	synced, err := c.Store.GetSyncedHeight(c.BirthHeight)
	if err != nil {
		return fmt.Errorf("controller: reorg recovery: %w", err)
	}
	truncateTo := c.BirthHeight + 1
	if synced > c.Confirmations && synced-c.Confirmations > c.BirthHeight {
		truncateTo = synced - c.Confirmations
	}
	common.Log.WithFields(logrus.Fields{
		"detected_at": reorg.Height,
		"truncate_to": truncateTo,
	}).Warn("reorg detected, truncating")
	if err := c.Store.TruncateHeight(truncateTo); err != nil {
		return fmt.Errorf("controller: reorg recovery: %w", err)
	}
	return nil
}

func (c *Controller) buildDecoders() (*pool.SaplingDecoder, *pool.OrchardDecoder, error) {
	var sapDecoder *pool.SaplingDecoder
	if c.Sapling != nil && c.SaplingNK != nil {
		nfs, err := c.Store.GetNullifiers(pool.PoolSapling)
		if err != nil {
			return nil, nil, fmt.Errorf("sapling nullifiers: %w", err)
		}
		sapDecoder = pool.NewSaplingDecoder(*c.Sapling, *c.SaplingNK, nfs)
	}

	var orcDecoder *pool.OrchardDecoder
	if c.Orchard != nil && c.OrchardNK != nil {
		nfs, err := c.Store.GetNullifiers(pool.PoolOrchard)
		if err != nil {
			return nil, nil, fmt.Errorf("orchard nullifiers: %w", err)
		}
		orcDecoder = pool.NewOrchardDecoder(*c.Orchard, *c.OrchardNK, nfs)
	}

	if sapDecoder == nil && orcDecoder == nil {
		return nil, nil, fmt.Errorf("no pool keys configured")
	}
	return sapDecoder, orcDecoder, nil
}
