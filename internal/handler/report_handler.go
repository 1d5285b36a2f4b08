package handler

import (
	"net/http"

	"kasirkita/internal/service"

	"github.com/rs/zerolog"
)

// ReportHandler handles sales report HTTP requests.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("handler", "report").Logger(),
	}
}

// Summary handles GET /api/reports/summary requests.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, nil)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
