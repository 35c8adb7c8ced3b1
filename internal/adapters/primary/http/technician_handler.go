package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clearcheck/approval-analytics-backend/internal/core/ports"
)

// TechnicianHandler exposes the technician roster used to populate the
// sidebar selector.
type TechnicianHandler struct {
	dashboardService ports.DashboardService
	errorHandler     *ErrorHandler
	logger           *slog.Logger
}

// NewTechnicianHandler creates a new technician handler
func NewTechnicianHandler(
	dashboardService ports.DashboardService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TechnicianHandler {
	return &TechnicianHandler{
		dashboardService: dashboardService,
		errorHandler:     errorHandler,
		logger:           logger.With("handler", "technician"),
	}
}

// RegisterRoutes sets up the routing for technician endpoints.
func (h *TechnicianHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList)
}

// TechnicianDTO describes one technician, including the display colour the
// front end uses for their charts.
type TechnicianDTO struct {
	Name            string  `json:"name"`
	Color           string  `json:"color"`
	HasPolicyCutoff bool    `json:"hasPolicyCutoff"`
	PolicyCutoff    *string `json:"policyCutoff"`
	RecordCount     int     `json:"recordCount"`
	FirstDate       *string `json:"firstDate"`
	LastDate        *string `json:"lastDate"`
}

func toTechnicianDTO(s ports.TechnicianSummary) TechnicianDTO {
	dto := TechnicianDTO{
		Name:            s.Profile.Name,
		Color:           s.Profile.Color,
		HasPolicyCutoff: s.Profile.HasPolicyCutoff(),
		RecordCount:     s.RecordCount,
	}
	if s.Profile.PolicyCutoff != nil {
		cutoff := s.Profile.PolicyCutoff.Format(time.RFC3339)
		dto.PolicyCutoff = &cutoff
	}
	if s.FirstDate != nil {
		first := s.FirstDate.Format("2006-01-02")
		dto.FirstDate = &first
	}
	if s.LastDate != nil {
		last := s.LastDate.Format("2006-01-02")
		dto.LastDate = &last
	}
	return dto
}

// HandleList handles GET /technicians
func (h *TechnicianHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.dashboardService.Technicians(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	dtos := make([]TechnicianDTO, 0, len(summaries))
	for _, s := range summaries {
		dtos = append(dtos, toTechnicianDTO(s))
	}

	WriteList(w, dtos)
}
