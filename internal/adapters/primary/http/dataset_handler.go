package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clearcheck/approval-analytics-backend/internal/core/ports"
)

// DatasetHandler exposes dataset metadata and the manual reload trigger.
type DatasetHandler struct {
	dashboardService ports.DashboardService
	errorHandler     *ErrorHandler
	logger           *slog.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(
	dashboardService ports.DashboardService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DatasetHandler {
	return &DatasetHandler{
		dashboardService: dashboardService,
		errorHandler:     errorHandler,
		logger:           logger.With("handler", "dataset"),
	}
}

// RegisterRoutes sets up the routing for dataset endpoints.
func (h *DatasetHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleInfo)
	r.Post("/reload", h.HandleReload)
}

// DatasetInfoDTO describes the dataset currently backing the dashboard.
type DatasetInfoDTO struct {
	Records     int     `json:"records"`
	DroppedRows int     `json:"droppedRows"`
	LoadedAt    string  `json:"loadedAt"`
	MinDate     *string `json:"minDate"`
	MaxDate     *string `json:"maxDate"`
}

func toDatasetInfoDTO(info *ports.DatasetInfo) DatasetInfoDTO {
	dto := DatasetInfoDTO{
		Records:     info.Records,
		DroppedRows: info.Dropped,
		LoadedAt:    info.LoadedAt.Format(time.RFC3339),
	}
	if info.MinDate != nil {
		min := info.MinDate.Format("2006-01-02")
		dto.MinDate = &min
	}
	if info.MaxDate != nil {
		max := info.MaxDate.Format("2006-01-02")
		dto.MaxDate = &max
	}
	return dto
}

// HandleInfo handles GET /dataset
func (h *DatasetHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.dashboardService.DatasetInfo(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toDatasetInfoDTO(info))
}

// HandleReload handles POST /dataset/reload
func (h *DatasetHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "dataset reload requested")

	info, err := h.dashboardService.Reload(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toDatasetInfoDTO(info))
}
