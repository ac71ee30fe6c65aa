package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/logger"
	"fieldforce-backend/internal/security"
)

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// respondError translates domain error kinds to HTTP status codes in one
// place so handlers only propagate errors.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInsufficientFunds):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAuthenticationFailed):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, security.ErrInvalidToken), errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, security.ErrWrongTokenType):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	respondJSON(w, status, errorBody{Error: err.Error()})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, errorBody{Error: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}
