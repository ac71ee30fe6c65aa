package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"fieldforce-backend/internal/security"
	"fieldforce-backend/internal/service"
)

type WithdrawalHandler struct {
	withdrawalSvc service.WithdrawalService
}

func NewWithdrawalHandler(withdrawalSvc service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalSvc: withdrawalSvc}
}

func (h *WithdrawalHandler) SetPin(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid member id")
		return
	}
	var req struct {
		Pin string `json:"pin"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := security.ValidatePinFormat(req.Pin); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	if err := h.withdrawalSvc.SetPin(r.Context(), memberID, req.Pin); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *WithdrawalHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID  int32           `json:"member_id"`
		Amount    decimal.Decimal `json:"amount"`
		Reference string          `json:"reference"` // optional idempotency key
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.MemberID < 1 {
		respondBadRequest(w, "member_id is required")
		return
	}

	request, err := h.withdrawalSvc.CreateRequest(r.Context(), req.MemberID, req.Amount, req.Reference)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, request)
}

func (h *WithdrawalHandler) Decide(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid request id")
		return
	}
	var req struct {
		Approve bool   `json:"approve"`
		Note    string `json:"note"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	deciderID, ok := MemberIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: "acting member unknown"})
		return
	}

	request, err := h.withdrawalSvc.Decide(r.Context(), requestID, req.Approve, deciderID, req.Note)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, request)
}

func (h *WithdrawalHandler) Settle(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid request id")
		return
	}
	var req struct {
		Pin string `json:"pin"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	request, txn, err := h.withdrawalSvc.Settle(r.Context(), requestID, req.Pin)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"request":     request,
		"transaction": txn,
	})
}

func (h *WithdrawalHandler) ListByMember(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid member id")
		return
	}
	page, pageSize := queryPage(r)

	requests, total, err := h.withdrawalSvc.ListByMember(r.Context(), memberID, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"requests": requests,
		"total":    total,
	})
}

func (h *WithdrawalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	page, pageSize := queryPage(r)

	requests, total, err := h.withdrawalSvc.ListPending(r.Context(), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"requests": requests,
		"total":    total,
	})
}
