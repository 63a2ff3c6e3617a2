// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package frontend is the thin net/http JSON shell over rpcsurface: one
// handler method per wallet RPC, matching the one-handler-per-RPC
// layout the gRPC service this daemon replaces used, wrapped in the
// same request-logging middleware.
package frontend

import (
	"encoding/json"
	"net/http"

	"github.com/hhanh00/zcash-walletd/common/logging"
	"github.com/hhanh00/zcash-walletd/rpcsurface"
)

// Service holds the routing table over one rpcsurface.Service.
type Service struct {
	rpc *rpcsurface.Service
	mux *http.ServeMux
}

// NewHandler builds the daemon's HTTP surface: the nine POST routes
// from spec.md §6, wrapped in request-logging middleware.
func NewHandler(rpc *rpcsurface.Service) http.Handler {
	s := &Service{rpc: rpc, mux: http.NewServeMux()}
	s.mux.HandleFunc("/create_account", s.handleCreateAccount)
	s.mux.HandleFunc("/create_address", s.handleCreateAddress)
	s.mux.HandleFunc("/get_accounts", s.handleGetAccounts)
	s.mux.HandleFunc("/get_transfer_by_txid", s.handleGetTransferByTxid)
	s.mux.HandleFunc("/get_transfers", s.handleGetTransfers)
	s.mux.HandleFunc("/get_fee_estimate", s.handleGetFeeEstimate)
	s.mux.HandleFunc("/get_height", s.handleGetHeight)
	s.mux.HandleFunc("/sync_info", s.handleSyncInfo)
	s.mux.HandleFunc("/request_scan", s.handleRequestScan)
	return logging.Middleware(s.mux)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	http.Error(w, err.Error(), status)
}

func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err.Error() != "EOF" {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func (s *Service) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
	}
	if !decodeRequest(w, r, &req) {
		return
	}
	result, err := s.rpc.CreateAccount(req.Label)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, result)
}

func (s *Service) handleCreateAddress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountIndex uint32 `json:"account_index"`
		Label        string `json:"label"`
	}
	if !decodeRequest(w, r, &req) {
		return
	}
	result, err := s.rpc.CreateAddress(req.AccountIndex, req.Label)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, result)
}

func (s *Service) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.rpc.GetAccounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, struct {
		SubaddressAccounts any `json:"subaddress_accounts"`
	}{accounts})
}

func (s *Service) handleGetTransfers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountIndex   uint32   `json:"account_index"`
		SubaddrIndices []uint32 `json:"subaddr_indices"`
	}
	if !decodeRequest(w, r, &req) {
		return
	}
	transfers, err := s.rpc.GetTransfers(r.Context(), req.AccountIndex, req.SubaddrIndices)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, struct {
		Transfers any `json:"transfers"`
	}{transfers})
}

func (s *Service) handleGetTransferByTxid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Txid         string `json:"txid"`
		AccountIndex uint32 `json:"account_index"`
	}
	if !decodeRequest(w, r, &req) {
		return
	}
	transfers, err := s.rpc.GetTransferByTxid(r.Context(), req.Txid, req.AccountIndex)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, struct {
		Transfers any `json:"transfers"`
	}{transfers})
}

func (s *Service) handleGetFeeEstimate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		Fee uint64 `json:"fee"`
	}{s.rpc.GetFeeEstimate()})
}

func (s *Service) handleGetHeight(w http.ResponseWriter, r *http.Request) {
	height, err := s.rpc.GetHeight(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, struct {
		Height uint64 `json:"height"`
	}{height})
}

func (s *Service) handleSyncInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.rpc.SyncInfo(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, info)
}

func (s *Service) handleRequestScan(w http.ResponseWriter, r *http.Request) {
	if err := s.rpc.RequestScan(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, struct {
		Status string `json:"status"`
	}{"OK"})
}
