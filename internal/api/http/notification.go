package http

import (
	"net/http"

	"fieldforce-backend/internal/service"
)

type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List returns the authenticated member's notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID, ok := MemberIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: "acting member unknown"})
		return
	}
	page, pageSize := queryPage(r)

	notes, total, err := h.notificationSvc.GetNotifications(r.Context(), memberID, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"notifications": notes,
		"total":         total,
	})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	memberID, ok := MemberIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: "acting member unknown"})
		return
	}
	noteID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid notification id")
		return
	}

	if err := h.notificationSvc.MarkAsRead(r.Context(), memberID, noteID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
