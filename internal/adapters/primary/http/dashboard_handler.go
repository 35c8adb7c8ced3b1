package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clearcheck/approval-analytics-backend/internal/adapters/primary/validation"
	"github.com/clearcheck/approval-analytics-backend/internal/core/analytics"
	"github.com/clearcheck/approval-analytics-backend/internal/core/domain"
	"github.com/clearcheck/approval-analytics-backend/internal/core/ports"
)

// DashboardHandler serves the dashboard's display-ready analytics views.
type DashboardHandler struct {
	dashboardService ports.DashboardService
	errorHandler     *ErrorHandler
	logger           *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	dashboardService ports.DashboardService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		errorHandler:     errorHandler,
		logger:           logger.With("handler", "dashboard"),
	}
}

// RegisterRoutes sets up the routing for all dashboard endpoints.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.HandleSummary)
	r.Get("/durations", h.HandleDurations)
	r.Get("/fast-rates", h.HandleFastRates)
	r.Get("/blocks", h.HandleBlocks)
	r.Get("/weekdays", h.HandleWeekdays)
	r.Get("/worst", h.HandleWorstCases)
	r.Get("/policy-change", h.HandlePolicyChange)
}

// --- Response DTOs ---

// SummaryDTO is the KPI block for the selected filters.
type SummaryDTO struct {
	Technician           string   `json:"technician"`
	FastThresholdSeconds float64  `json:"fastThresholdSeconds"`
	Approvals            int      `json:"approvals"`
	MedianSeconds        *float64 `json:"medianSeconds"`
	MeanSeconds          *float64 `json:"meanSeconds"`
	PctFast              *float64 `json:"pctFast"`
	PctSameMinute        *float64 `json:"pctSameMinute"`
	PctSameSecond        *float64 `json:"pctSameSecond"`
}

// FastRatePointDTO is one row of the threshold sweep.
type FastRatePointDTO struct {
	ThresholdSeconds float64  `json:"thresholdSeconds"`
	RatePct          *float64 `json:"ratePct"`
}

// BlockDTO is one review session.
type BlockDTO struct {
	ID                int     `json:"id"`
	CaseCount         int     `json:"caseCount"`
	AverageGapSeconds float64 `json:"averageGapSeconds"`
}

// WeekdayCountDTO is one bar of the weekday histogram.
type WeekdayCountDTO struct {
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

// WorstCaseDTO is one row of the high-risk fast approvals table.
type WorstCaseDTO struct {
	ApprovedAt      string  `json:"approvedAt"`
	CaseNumber      string  `json:"caseNumber"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// MonthlyPointDTO is one bucket of the monthly fast-rate trend.
type MonthlyPointDTO struct {
	Month     string  `json:"month"`
	Approvals int     `json:"approvals"`
	PctFast   float64 `json:"pctFast"`
}

// PeriodStatsDTO is one side of the before/after comparison.
type PeriodStatsDTO struct {
	Period         string   `json:"period"`
	TotalApprovals int      `json:"totalApprovals"`
	MeanSeconds    *float64 `json:"meanSeconds"`
	MedianSeconds  *float64 `json:"medianSeconds"`
	PctFast        *float64 `json:"pctFast"`
}

// PolicyChangeDTO is the policy-change view: full-history monthly trend plus
// the before/after summary table.
type PolicyChangeDTO struct {
	Technician string            `json:"technician"`
	Cutoff     string            `json:"cutoff"`
	Monthly    []MonthlyPointDTO `json:"monthly"`
	Before     PeriodStatsDTO    `json:"before"`
	After      PeriodStatsDTO    `json:"after"`
}

func toFastRatePointDTOs(points []analytics.FastRatePoint) []FastRatePointDTO {
	out := make([]FastRatePointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, FastRatePointDTO{ThresholdSeconds: p.ThresholdSeconds, RatePct: p.Rate})
	}
	return out
}

func toBlockDTOs(blocks []domain.Block) []BlockDTO {
	out := make([]BlockDTO, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, BlockDTO{ID: b.ID, CaseCount: b.CaseCount, AverageGapSeconds: b.AverageGapSeconds})
	}
	return out
}

func toWeekdayCountDTOs(counts []analytics.WeekdayCount) []WeekdayCountDTO {
	out := make([]WeekdayCountDTO, 0, len(counts))
	for _, c := range counts {
		out = append(out, WeekdayCountDTO{Weekday: c.Weekday, Count: c.Count})
	}
	return out
}

func toWorstCaseDTOs(records []domain.ApprovalRecord) []WorstCaseDTO {
	out := make([]WorstCaseDTO, 0, len(records))
	for _, r := range records {
		out = append(out, WorstCaseDTO{
			ApprovedAt:      r.ApprovedAt.Format(time.RFC3339),
			CaseNumber:      r.CaseNumber,
			DurationSeconds: r.DurationSeconds,
		})
	}
	return out
}

func toMonthlyPointDTOs(points []analytics.MonthlyPoint) []MonthlyPointDTO {
	out := make([]MonthlyPointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, MonthlyPointDTO{
			Month:     p.Month.Format("2006-01-02"),
			Approvals: p.Count,
			PctFast:   p.PctFast,
		})
	}
	return out
}

func toPeriodStatsDTO(period string, s analytics.PeriodStats) PeriodStatsDTO {
	return PeriodStatsDTO{
		Period:         period,
		TotalApprovals: s.Count,
		MeanSeconds:    s.MeanSeconds,
		MedianSeconds:  s.MedianSeconds,
		PctFast:        s.PctFast,
	}
}

// --- Handlers ---

// HandleSummary handles GET /dashboard/summary
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	summary, err := h.dashboardService.Summary(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, SummaryDTO{
		Technician:           query.Technician,
		FastThresholdSeconds: summary.FastThresholdS,
		Approvals:            summary.Approvals,
		MedianSeconds:        summary.MedianSeconds,
		MeanSeconds:          summary.MeanSeconds,
		PctFast:              summary.PctFast,
		PctSameMinute:        summary.PctSameMinute,
		PctSameSecond:        summary.PctSameSecond,
	})
}

// HandleDurations handles GET /dashboard/durations
func (h *DashboardHandler) HandleDurations(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	durations, err := h.dashboardService.Durations(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, durations)
}

// HandleFastRates handles GET /dashboard/fast-rates
func (h *DashboardHandler) HandleFastRates(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	points, err := h.dashboardService.FastRates(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toFastRatePointDTOs(points))
}

// HandleBlocks handles GET /dashboard/blocks
func (h *DashboardHandler) HandleBlocks(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	blocks, err := h.dashboardService.Blocks(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toBlockDTOs(blocks))
}

// HandleWeekdays handles GET /dashboard/weekdays
func (h *DashboardHandler) HandleWeekdays(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	counts, err := h.dashboardService.Weekdays(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toWeekdayCountDTOs(counts))
}

// HandleWorstCases handles GET /dashboard/worst
func (h *DashboardHandler) HandleWorstCases(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	worst, err := h.dashboardService.WorstCases(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toWorstCaseDTOs(worst))
}

// HandlePolicyChange handles GET /dashboard/policy-change
func (h *DashboardHandler) HandlePolicyChange(w http.ResponseWriter, r *http.Request) {
	technician := r.URL.Query().Get("technician")

	v := validation.NewValidator()
	v.Required("technician", technician)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	report, err := h.dashboardService.PolicyChange(r.Context(), technician)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, PolicyChangeDTO{
		Technician: report.Technician,
		Cutoff:     report.Cutoff.Format(time.RFC3339),
		Monthly:    toMonthlyPointDTOs(report.Monthly),
		Before:     toPeriodStatsDTO("before", report.Before),
		After:      toPeriodStatsDTO("after", report.After),
	})
}

// parseQuery extracts and validates the sidebar filters shared by every
// dashboard view.
func (h *DashboardHandler) parseQuery(r *http.Request) (ports.DashboardQuery, error) {
	v := validation.NewValidator()

	technician := r.URL.Query().Get("technician")
	v.Required("technician", technician)

	from, err := validation.ParseTimeQueryParam(r, "from")
	if err != nil {
		v.Custom("from", false, "Must be a valid date or timestamp")
	}

	to, err := validation.ParseTimeQueryParam(r, "to")
	if err != nil {
		v.Custom("to", false, "Must be a valid date or timestamp")
	}

	fastThreshold, ok := validation.ParseFloatQueryParam(r, "fastThreshold", domain.MonthlyFastSeconds)
	if !ok {
		v.Custom("fastThreshold", false, "Must be a number of seconds")
	}

	if v.HasErrors() {
		return ports.DashboardQuery{}, v.Errors()
	}

	query := ports.DashboardQuery{
		Technician:    technician,
		FastThreshold: fastThreshold,
	}
	if from != nil {
		query.From = &from.Time
	}
	if to != nil {
		query.To = &to.Time
	}
	return query, nil
}
