// Package chainclient is the thin adapter over the upstream compact-block
// gRPC service. It owns the single grpc.ClientConn the daemon dials at
// startup and translates walletrpc's wire types into the shapes the scan
// engine wants to work with (uint64 heights, byte slices, Go channels for
// the block-range stream).
package chainclient

import (
	"context"
	"errors"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/hhanh00/zcash-walletd/walletrpc"
)

// Client is a connected handle to a compact-block service. The zero value
// is not usable; construct with Dial.
type Client struct {
	conn *grpc.ClientConn
	rpc  walletrpc.CompactTxStreamerClient
}

// Dial connects to addr, matching the dial options the project's own
// gRPC test client used: block until the handshake completes so startup
// fails fast on a bad endpoint rather than deferring the error to the
// first RPC.
func Dial(ctx context.Context, addr string, useTLS bool) (*Client, error) {
	var creds credentials.TransportCredentials
	if useTLS {
		creds = credentials.NewTLS(nil)
	} else {
		creds = insecure.NewCredentials()
	}
	conn, err := grpc.DialContext(ctx, addr,
		grpc.WithTransportCredentials(creds),
		grpc.WithBlock(),
		grpc.WithStatsHandler(&connStatsHandler{}),
	)
	if err != nil {
		return nil, fmt.Errorf("chainclient: dial %s: %w", addr, err)
	}
	return &Client{conn: conn, rpc: walletrpc.NewCompactTxStreamerClient(conn)}, nil
}

// NewFromConn wraps an already-established connection (or an in-process
// bufconn one, as tests do) instead of dialing a new one.
func NewFromConn(cc grpc.ClientConnInterface) *Client {
	return &Client{rpc: walletrpc.NewCompactTxStreamerClient(cc)}
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// GetLatestHeight returns the server's current chain tip.
func (c *Client) GetLatestHeight(ctx context.Context) (uint64, error) {
	id, err := c.rpc.GetLatestBlock(ctx, &walletrpc.ChainSpec{})
	if err != nil {
		return 0, fmt.Errorf("chainclient: GetLatestBlock: %w", wrapStatus(err))
	}
	return id.Height, nil
}

// GetTreeState fetches the serialized note-commitment tree state as of
// height (the state produced by the last block *before* height is not
// what's returned here — per the upstream contract, height is inclusive:
// it reflects the tree immediately after that block).
func (c *Client) GetTreeState(ctx context.Context, height uint64) (*walletrpc.TreeState, error) {
	ts, err := c.rpc.GetTreeState(ctx, &walletrpc.BlockId{Height: height})
	if err != nil {
		return nil, fmt.Errorf("chainclient: GetTreeState(%d): %w", height, wrapStatus(err))
	}
	return ts, nil
}

// GetTransaction fetches the full serialized transaction bytes for the
// transaction's txid (display order is the caller's concern; txid here
// is passed through exactly as received).
func (c *Client) GetTransaction(ctx context.Context, txid []byte, height uint64) ([]byte, error) {
	raw, err := c.rpc.GetTransaction(ctx, &walletrpc.TxFilter{Hash: txid, Block: &walletrpc.BlockId{Height: height}})
	if err != nil {
		return nil, fmt.Errorf("chainclient: GetTransaction: %w", wrapStatus(err))
	}
	return raw.Data, nil
}

// GetBlockRange streams CompactBlocks for [start, end] (inclusive) onto a
// channel, closing it when the stream ends. Any stream error is sent once
// on errc before both channels close. The caller must drain blocks until
// it closes, or cancel ctx to abort early.
func (c *Client) GetBlockRange(ctx context.Context, start, end uint64) (<-chan *walletrpc.CompactBlock, <-chan error) {
	blocks := make(chan *walletrpc.CompactBlock, 16)
	errc := make(chan error, 1)

	stream, err := c.rpc.GetBlockRange(ctx, &walletrpc.BlockRange{
		Start: &walletrpc.BlockId{Height: start},
		End:   &walletrpc.BlockId{Height: end},
	})
	if err != nil {
		errc <- fmt.Errorf("chainclient: GetBlockRange(%d,%d): %w", start, end, wrapStatus(err))
		close(blocks)
		close(errc)
		return blocks, errc
	}

	go func() {
		defer close(blocks)
		defer close(errc)
		for {
			blk, err := stream.Recv()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					errc <- fmt.Errorf("chainclient: GetBlockRange stream: %w", wrapStatus(err))
				}
				return
			}
			select {
			case blocks <- blk:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()

	return blocks, errc
}

func wrapStatus(err error) error {
	if st, ok := status.FromError(err); ok {
		return st.Err()
	}
	return err
}
