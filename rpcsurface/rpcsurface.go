// Package rpcsurface implements every operation in spec.md §4.5 as
// plain Go methods on a Service, wrapping the store, chain client, and
// controller. It holds all decision logic; frontend only translates
// these calls to and from HTTP/JSON.
package rpcsurface

import (
	"context"
	"fmt"
	"time"

	"github.com/hhanh00/zcash-walletd/common"
	"github.com/hhanh00/zcash-walletd/controller"
	"github.com/hhanh00/zcash-walletd/storage"
)

// feeEstimate is the constant post-NU5 logical-action fee: 4 actions
// at 5000 zatoshi each, per spec.md §4.5.
const feeEstimate = 4 * 5000

// ChainClient is the subset of *chainclient.Client the query surface
// needs directly (beyond what the controller already uses).
type ChainClient interface {
	GetLatestHeight(ctx context.Context) (uint64, error)
}

// Service is the query surface's single entry point.
type Service struct {
	Store         *storage.Store
	Client        ChainClient
	Controller    *controller.Controller
	Confirmations uint32
}

func New(store *storage.Store, client ChainClient, ctrl *controller.Controller, confirmations uint32) *Service {
	return &Service{Store: store, Client: client, Controller: ctrl, Confirmations: confirmations}
}

// CreateAccountResult is create_account's response shape.
type CreateAccountResult struct {
	AccountIndex uint32 `json:"account_index"`
	BaseAddress  string `json:"base_address"`
}

func (s *Service) CreateAccount(label string) (*CreateAccountResult, error) {
	account, err := s.Store.NewAccount(label)
	if err != nil {
		return nil, fmt.Errorf("rpcsurface: create_account: %w", err)
	}
	return &CreateAccountResult{AccountIndex: account.Account, BaseAddress: account.Address}, nil
}

// CreateAddressResult is create_address's response shape.
type CreateAddressResult struct {
	Address      string `json:"address"`
	AddressIndex uint32 `json:"address_index"`
}

func (s *Service) CreateAddress(account uint32, label string) (*CreateAddressResult, error) {
	sub, err := s.Store.NewSubAccount(account, label)
	if err != nil {
		return nil, fmt.Errorf("rpcsurface: create_address: %w", err)
	}
	return &CreateAddressResult{Address: sub.Address, AddressIndex: sub.SubAccount}, nil
}

// GetAccounts lists every top-level account's balance, matching
// spec.md §4.5's get_accounts. unlockedBalance uses the tip/confirmations
// rule the store already implements.
func (s *Service) GetAccounts(ctx context.Context) ([]storage.AccountBalance, error) {
	tip, err := s.Client.GetLatestHeight(ctx)
	if err != nil {
		return nil, fmt.Errorf("rpcsurface: get_accounts: %w", err)
	}
	balances, err := s.Store.GetAccountBalances(uint32(tip), s.Confirmations)
	if err != nil {
		return nil, fmt.Errorf("rpcsurface: get_accounts: %w", err)
	}
	return balances, nil
}

// GetTransfers lists received notes for account, restricted to
// subaddrIndices when non-empty.
func (s *Service) GetTransfers(ctx context.Context, account uint32, subaddrIndices []uint32) ([]storage.Transfer, error) {
	tip, err := s.Client.GetLatestHeight(ctx)
	if err != nil {
		return nil, fmt.Errorf("rpcsurface: get_transfers: %w", err)
	}
	transfers, err := s.Store.GetTransfers(account, subaddrIndices, uint32(tip), s.Confirmations)
	if err != nil {
		return nil, fmt.Errorf("rpcsurface: get_transfers: %w", err)
	}
	return transfers, nil
}

// pollBackoffSchedule is the bounded exponential backoff spec.md §4.5
// specifies for get_transfer_by_txid: 100ms, 200ms, 400ms, 800ms, then
// 1000ms repeatedly, totaling at most 10s — a scan tick may not have
// committed the transaction yet when the caller first asks.
func pollBackoffSchedule() []time.Duration {
	return []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		1000 * time.Millisecond,
		1000 * time.Millisecond,
		1000 * time.Millisecond,
		1000 * time.Millisecond,
		1000 * time.Millisecond,
		1000 * time.Millisecond,
	}
}

// GetTransferByTxid looks up a transaction by its network-order
// (reversed) hex txid, polling with a bounded backoff since the
// caller may ask about a transaction whose scan tick hasn't committed
// yet.
func (s *Service) GetTransferByTxid(ctx context.Context, txidHex string, account uint32) ([]storage.Transfer, error) {
	tip, err := s.Client.GetLatestHeight(ctx)
	if err != nil {
		return nil, fmt.Errorf("rpcsurface: get_transfer_by_txid: %w", err)
	}

	for _, wait := range pollBackoffSchedule() {
		transfers, err := s.Store.GetTransferByTxid(txidHex, account, uint32(tip), s.Confirmations)
		if err != nil {
			return nil, fmt.Errorf("rpcsurface: get_transfer_by_txid: %w", err)
		}
		if len(transfers) > 0 {
			return transfers, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		common.Time.Sleep(wait)
	}
	return nil, fmt.Errorf("rpcsurface: get_transfer_by_txid: txid %s not found after polling", txidHex)
}

// GetHeight returns the upstream server's current chain tip.
func (s *Service) GetHeight(ctx context.Context) (uint64, error) {
	height, err := s.Client.GetLatestHeight(ctx)
	if err != nil {
		return 0, fmt.Errorf("rpcsurface: get_height: %w", err)
	}
	return height, nil
}

// SyncInfoResult is sync_info's response shape: the server's target
// height versus this wallet's locally estimated (synced) height.
type SyncInfoResult struct {
	Target    uint64 `json:"target_height"`
	Estimated uint64 `json:"height"`
}

func (s *Service) SyncInfo(ctx context.Context) (*SyncInfoResult, error) {
	target, err := s.Client.GetLatestHeight(ctx)
	if err != nil {
		return nil, fmt.Errorf("rpcsurface: sync_info: %w", err)
	}
	estimated, err := s.Store.GetSyncedHeight(s.Controller.BirthHeight)
	if err != nil {
		return nil, fmt.Errorf("rpcsurface: sync_info: %w", err)
	}
	return &SyncInfoResult{Target: target, Estimated: uint64(estimated)}, nil
}

// GetFeeEstimate returns the constant post-NU5 logical-action fee.
func (s *Service) GetFeeEstimate() uint64 {
	return feeEstimate
}

// RequestScan runs one scan tick synchronously, blocking until it
// completes (or serializes behind a tick already in progress).
func (s *Service) RequestScan(ctx context.Context) error {
	return s.Controller.RequestScan(ctx)
}
