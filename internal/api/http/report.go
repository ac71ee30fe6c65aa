package http

import (
	"net/http"

	"fieldforce-backend/internal/service"
)

type ReportHandler struct {
	reportSvc service.ReportService
}

func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

func (h *ReportHandler) Performance(w http.ResponseWriter, r *http.Request) {
	leaderID, ok := pathID(r, "leaderId")
	if !ok {
		respondBadRequest(w, "invalid leader id")
		return
	}
	period := r.URL.Query().Get("period")

	report, err := h.reportSvc.BuildPerformanceReport(r.Context(), leaderID, period)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
