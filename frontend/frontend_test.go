// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .
package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/hhanh00/zcash-walletd/controller"
	"github.com/hhanh00/zcash-walletd/pool"
	"github.com/hhanh00/zcash-walletd/rpcsurface"
	"github.com/hhanh00/zcash-walletd/storage"
	"github.com/hhanh00/zcash-walletd/walletrpc"
)

// fakeChain is a one-block ChainClient, enough to let rpcsurface's tip
// lookups and controller.Bootstrap succeed without a real server.
type fakeChain struct {
	height uint64
}

func (f *fakeChain) GetTreeState(ctx context.Context, height uint64) (*walletrpc.TreeState, error) {
	return &walletrpc.TreeState{Height: height, Hash: "00", Time: 1000}, nil
}

func (f *fakeChain) GetBlockRange(ctx context.Context, start, end uint64) (<-chan *walletrpc.CompactBlock, <-chan error) {
	blocks := make(chan *walletrpc.CompactBlock)
	errc := make(chan error, 1)
	close(blocks)
	close(errc)
	return blocks, errc
}

func (f *fakeChain) GetTransaction(ctx context.Context, txid []byte, height uint64) ([]byte, error) {
	return nil, nil
}

func (f *fakeChain) GetLatestHeight(ctx context.Context) (uint64, error) {
	return f.height, nil
}

func newTestHandler(t *testing.T) (*Service, *rpcsurface.Service) {
	t.Helper()
	const birthHeight = 2_000_000
	sapPIVK, orcPIVK, sapNK, orcNK, err := pool.ParseUFVK("test-ufvk-string", true)
	if err != nil {
		t.Fatalf("ParseUFVK: %v", err)
	}
	store, err := storage.Open(":memory:", sapPIVK, orcPIVK)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	client := &fakeChain{height: birthHeight}
	ctrl := controller.New(store, client, sapPIVK, orcPIVK, sapNK, orcNK, birthHeight, 3)
	if err := ctrl.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	rpc := rpcsurface.New(store, client, ctrl, 3)
	return &Service{rpc: rpc, mux: nil}, rpc
}

func TestCreateAccountAndCreateAddress(t *testing.T) {
	_, rpc := newTestHandler(t)
	h := NewHandler(rpc)

	body, _ := json.Marshal(map[string]string{"label": "savings"})
	req := httptest.NewRequest("POST", "/create_account", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("create_account: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var created rpcsurface.CreateAccountResult
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create_account response: %v", err)
	}
	if created.BaseAddress == "" {
		t.Fatal("expected a non-empty base address")
	}

	addrBody, _ := json.Marshal(map[string]any{"account_index": created.AccountIndex, "label": "sub"})
	addrReq := httptest.NewRequest("POST", "/create_address", bytes.NewReader(addrBody))
	addrRec := httptest.NewRecorder()
	h.ServeHTTP(addrRec, addrReq)
	if addrRec.Code != 200 {
		t.Fatalf("create_address: expected 200, got %d: %s", addrRec.Code, addrRec.Body.String())
	}
}

func TestGetAccountsAndSyncInfo(t *testing.T) {
	_, rpc := newTestHandler(t)
	h := NewHandler(rpc)

	req := httptest.NewRequest("POST", "/get_accounts", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("get_accounts: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("POST", "/sync_info", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("sync_info: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var info rpcsurface.SyncInfoResult
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode sync_info response: %v", err)
	}
	if info.Target != 2_000_000 {
		t.Fatalf("expected target height 2000000, got %d", info.Target)
	}
}

func TestGetFeeEstimateAndGetHeight(t *testing.T) {
	_, rpc := newTestHandler(t)
	h := NewHandler(rpc)

	req := httptest.NewRequest("POST", "/get_fee_estimate", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("get_fee_estimate: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var fee struct {
		Fee uint64 `json:"fee"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &fee); err != nil {
		t.Fatalf("decode get_fee_estimate response: %v", err)
	}
	if fee.Fee != 20000 {
		t.Fatalf("expected fee 20000, got %d", fee.Fee)
	}

	req = httptest.NewRequest("POST", "/get_height", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("get_height: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRequestScanRoute(t *testing.T) {
	_, rpc := newTestHandler(t)
	h := NewHandler(rpc)

	req := httptest.NewRequest("POST", "/request_scan", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("request_scan: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetTransferByTxidNotFound(t *testing.T) {
	_, rpc := newTestHandler(t)
	h := NewHandler(rpc)

	body, _ := json.Marshal(map[string]any{"txid": "00", "account_index": 0})
	req := httptest.NewRequest("POST", "/get_transfer_by_txid", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 404 {
		t.Fatalf("get_transfer_by_txid: expected 404 for an unknown txid, got %d: %s", rec.Code, rec.Body.String())
	}
}
