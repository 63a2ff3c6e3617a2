// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package walletrpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	CompactTxStreamer_GetLatestBlock_FullMethodName  = "/cash.z.wallet.sdk.rpc.CompactTxStreamer/GetLatestBlock"
	CompactTxStreamer_GetBlockRange_FullMethodName   = "/cash.z.wallet.sdk.rpc.CompactTxStreamer/GetBlockRange"
	CompactTxStreamer_GetTransaction_FullMethodName  = "/cash.z.wallet.sdk.rpc.CompactTxStreamer/GetTransaction"
	CompactTxStreamer_GetTreeState_FullMethodName    = "/cash.z.wallet.sdk.rpc.CompactTxStreamer/GetTreeState"
	CompactTxStreamer_GetLightdInfo_FullMethodName   = "/cash.z.wallet.sdk.rpc.CompactTxStreamer/GetLightdInfo"
)

// CompactTxStreamerClient is the set of RPCs this wallet daemon issues
// against a compact-block server. It is a small, hand-maintained subset
// of the full lightwalletd service surface: only what a view-only
// wallet needs to stay in sync and fetch memos.
type CompactTxStreamerClient interface {
	GetLatestBlock(ctx context.Context, in *ChainSpec, opts ...grpc.CallOption) (*BlockId, error)
	GetBlockRange(ctx context.Context, in *BlockRange, opts ...grpc.CallOption) (CompactTxStreamer_GetBlockRangeClient, error)
	GetTransaction(ctx context.Context, in *TxFilter, opts ...grpc.CallOption) (*RawTransaction, error)
	GetTreeState(ctx context.Context, in *BlockId, opts ...grpc.CallOption) (*TreeState, error)
	GetLightdInfo(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*LightdInfo, error)
}

type compactTxStreamerClient struct {
	cc grpc.ClientConnInterface
}

func NewCompactTxStreamerClient(cc grpc.ClientConnInterface) CompactTxStreamerClient {
	return &compactTxStreamerClient{cc}
}

func (c *compactTxStreamerClient) GetLatestBlock(ctx context.Context, in *ChainSpec, opts ...grpc.CallOption) (*BlockId, error) {
	out := new(BlockId)
	err := c.cc.Invoke(ctx, CompactTxStreamer_GetLatestBlock_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *compactTxStreamerClient) GetBlockRange(ctx context.Context, in *BlockRange, opts ...grpc.CallOption) (CompactTxStreamer_GetBlockRangeClient, error) {
	stream, err := c.cc.NewStream(ctx, &grpc.StreamDesc{
		StreamName:    "GetBlockRange",
		ServerStreams: true,
	}, CompactTxStreamer_GetBlockRange_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &compactTxStreamerGetBlockRangeClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// CompactTxStreamer_GetBlockRangeClient is the receive-only half of the
// GetBlockRange server stream: one CompactBlock per Recv, io.EOF when
// the range is exhausted.
type CompactTxStreamer_GetBlockRangeClient interface {
	Recv() (*CompactBlock, error)
	grpc.ClientStream
}

type compactTxStreamerGetBlockRangeClient struct {
	grpc.ClientStream
}

func (x *compactTxStreamerGetBlockRangeClient) Recv() (*CompactBlock, error) {
	m := new(CompactBlock)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *compactTxStreamerClient) GetTransaction(ctx context.Context, in *TxFilter, opts ...grpc.CallOption) (*RawTransaction, error) {
	out := new(RawTransaction)
	err := c.cc.Invoke(ctx, CompactTxStreamer_GetTransaction_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *compactTxStreamerClient) GetTreeState(ctx context.Context, in *BlockId, opts ...grpc.CallOption) (*TreeState, error) {
	out := new(TreeState)
	err := c.cc.Invoke(ctx, CompactTxStreamer_GetTreeState_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *compactTxStreamerClient) GetLightdInfo(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*LightdInfo, error) {
	out := new(LightdInfo)
	err := c.cc.Invoke(ctx, CompactTxStreamer_GetLightdInfo_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}
