package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/service"
)

type WalletHandler struct {
	walletSvc service.WalletService
}

func NewWalletHandler(walletSvc service.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

func queryPage(r *http.Request) (int32, int32) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32)
	pageSize, _ := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32)
	return int32(page), int32(pageSize)
}

func (h *WalletHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid member id")
		return
	}
	page, pageSize := queryPage(r)

	statement, err := h.walletSvc.GetStatement(r.Context(), memberID, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statement)
}

type transactionFunc func(ctx context.Context, memberID int32, amount decimal.Decimal, category domain.TransactionCategory, description, reference string) (*domain.Transaction, error)

func (h *WalletHandler) Credit(w http.ResponseWriter, r *http.Request) {
	h.postTransaction(w, r, h.walletSvc.Credit)
}

func (h *WalletHandler) Debit(w http.ResponseWriter, r *http.Request) {
	h.postTransaction(w, r, h.walletSvc.Debit)
}

func (h *WalletHandler) postTransaction(w http.ResponseWriter, r *http.Request, op transactionFunc) {
	var req struct {
		MemberID    int32                      `json:"member_id"`
		Amount      decimal.Decimal            `json:"amount"`
		Category    domain.TransactionCategory `json:"category"`
		Description string                     `json:"description"`
		Reference   string                     `json:"reference"` // optional idempotency key
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.MemberID < 1 {
		respondBadRequest(w, "member_id is required")
		return
	}

	txn, err := op(r.Context(), req.MemberID, req.Amount, req.Category, req.Description, req.Reference)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, txn)
}

func (h *WalletHandler) TeamRollup(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid team id")
		return
	}
	rollup, err := h.walletSvc.TeamRollup(r.Context(), teamID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rollup)
}

func (h *WalletHandler) ZoneRollup(w http.ResponseWriter, r *http.Request) {
	zoneID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid zone id")
		return
	}
	rollup, err := h.walletSvc.ZoneRollup(r.Context(), zoneID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rollup)
}
