package http

import (
	"encoding/json"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clearcheck/approval-analytics-backend/internal/core/analytics"
	"github.com/clearcheck/approval-analytics-backend/internal/core/domain"
	apperrors "github.com/clearcheck/approval-analytics-backend/internal/core/errors"
	"github.com/clearcheck/approval-analytics-backend/internal/core/mocks"
	"github.com/clearcheck/approval-analytics-backend/internal/core/ports"
)

func ptr(v float64) *float64 { return &v }

// newTestRouter wires the dashboard handlers onto a chi router backed by the
// given mock service.
func newTestRouter(svc ports.DashboardService) chi.Router {
	logger := slog.Default()
	errorHandler := NewErrorHandler(logger)

	dashboardHandler := NewDashboardHandler(svc, errorHandler, logger)
	technicianHandler := NewTechnicianHandler(svc, errorHandler, logger)
	datasetHandler := NewDatasetHandler(svc, errorHandler, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/technicians", technicianHandler.RegisterRoutes)
		r.Route("/dashboard", dashboardHandler.RegisterRoutes)
		r.Route("/dataset", datasetHandler.RegisterRoutes)
	})
	return r
}

func doRequest(t *testing.T, r chi.Router, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleSummary(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	svc.On("Summary", mock.Anything, mock.MatchedBy(func(q ports.DashboardQuery) bool {
		return q.Technician == "Arnold" && q.FastThreshold == domain.MonthlyFastSeconds
	})).Return(&analytics.Summary{
		Approvals:      4,
		MedianSeconds:  ptr(17.5),
		MeanSeconds:    ptr(38.75),
		PctFast:        ptr(50),
		PctSameMinute:  ptr(75),
		PctSameSecond:  ptr(25),
		FastThresholdS: 10,
	}, nil)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/dashboard/summary?technician=Arnold")

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var got SummaryDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Arnold", got.Technician)
	assert.Equal(t, 4, got.Approvals)
	require.NotNil(t, got.MedianSeconds)
	assert.Equal(t, 17.5, *got.MedianSeconds)
	assert.Equal(t, 10.0, got.FastThresholdSeconds)
}

func TestHandleSummary_EmptySubsetSerializesNulls(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	svc.On("Summary", mock.Anything, mock.Anything).Return(&analytics.Summary{
		Approvals:      0,
		FastThresholdS: 10,
	}, nil)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/dashboard/summary?technician=Arnold")

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Nil(t, raw["medianSeconds"])
	assert.Nil(t, raw["pctFast"])
	assert.Equal(t, float64(0), raw["approvals"])
}

func TestHandleSummary_QueryParsing(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	svc.On("Summary", mock.Anything, mock.MatchedBy(func(q ports.DashboardQuery) bool {
		return q.Technician == "Arnold" &&
			q.From != nil && q.From.Equal(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			q.To != nil && q.To.Equal(time.Date(2021, 3, 31, 0, 0, 0, 0, time.UTC)) &&
			q.FastThreshold == 5
	})).Return(&analytics.Summary{FastThresholdS: 5}, nil)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodGet,
		"/api/v1/dashboard/summary?technician=Arnold&from=2021-03-01&to=2021-03-31&fastThreshold=5")

	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandleSummary_MissingTechnician(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	r := newTestRouter(svc)

	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/dashboard/summary")

	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	svc.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything)
}

func TestHandleSummary_BadDate(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	r := newTestRouter(svc)

	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/dashboard/summary?technician=Arnold&from=yesterday")

	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
}

func TestHandleSummary_UnknownTechnician(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	svc.On("Summary", mock.Anything, mock.Anything).Return(nil, apperrors.ErrTechnicianNotFound)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/dashboard/summary?technician=Nobody")

	require.Equal(t, stdhttp.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "TECHNICIAN_NOT_FOUND", resp.Code)
}

func TestHandleSummary_DatasetNotLoaded(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	svc.On("Summary", mock.Anything, mock.Anything).Return(nil, apperrors.ErrDatasetNotLoaded)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/dashboard/summary?technician=Arnold")

	assert.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
}

func TestHandleFastRates(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	svc.On("FastRates", mock.Anything, mock.Anything).Return([]analytics.FastRatePoint{
		{ThresholdSeconds: 2, Rate: ptr(20)},
		{ThresholdSeconds: 5, Rate: nil},
	}, nil)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/dashboard/fast-rates?technician=Arnold")

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var resp ListResponse[FastRatePointDTO]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 2.0, resp.Data[0].ThresholdSeconds)
	require.NotNil(t, resp.Data[0].RatePct)
	assert.Equal(t, 20.0, *resp.Data[0].RatePct)
	assert.Nil(t, resp.Data[1].RatePct)
}

func TestHandleBlocks(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	svc.On("Blocks", mock.Anything, mock.Anything).Return([]domain.Block{
		{ID: 0, CaseCount: 1, AverageGapSeconds: 5},
		{ID: 1, CaseCount: 3, AverageGapSeconds: 235.67},
	}, nil)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/dashboard/blocks?technician=Arnold")

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var resp ListResponse[BlockDTO]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, 0, resp.Data[0].ID)
	assert.Equal(t, 3, resp.Data[1].CaseCount)
}

func TestHandleWeekdays(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	svc.On("Weekdays", mock.Anything, mock.Anything).Return([]analytics.WeekdayCount{
		{Weekday: "Monday", Count: 2},
		{Weekday: "Tuesday", Count: 0},
	}, nil)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/dashboard/weekdays?technician=Arnold")

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var resp ListResponse[WeekdayCountDTO]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Monday", resp.Data[0].Weekday)
}

func TestHandleWorstCases(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	svc.On("WorstCases", mock.Anything, mock.Anything).Return([]domain.ApprovalRecord{
		{
			Technician:      "Arnold",
			ApprovedAt:      time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC),
			DurationSeconds: 0,
			CaseNumber:      "CASE-1",
		},
	}, nil)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/dashboard/worst?technician=Arnold")

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var resp ListResponse[WorstCaseDTO]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "2021-03-01T09:00:00Z", resp.Data[0].ApprovedAt)
	assert.Equal(t, "CASE-1", resp.Data[0].CaseNumber)
	assert.Equal(t, 0.0, resp.Data[0].DurationSeconds)
}

func TestHandleDurations(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	svc.On("Durations", mock.Anything, mock.Anything).Return([]float64{3, 7, 12}, nil)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/dashboard/durations?technician=Arnold")

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var resp ListResponse[float64]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, []float64{3, 7, 12}, resp.Data)
}

func TestHandlePolicyChange(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	svc.On("PolicyChange", mock.Anything, "Arnold").Return(&ports.PolicyChangeReport{
		Technician: "Arnold",
		Cutoff:     domain.PolicyCutoff,
		Monthly: []analytics.MonthlyPoint{
			{Month: time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), Count: 2, PctFast: 50},
		},
		Before: analytics.PeriodStats{Count: 2, MeanSeconds: ptr(27.5), MedianSeconds: ptr(27.5), PctFast: ptr(50)},
		After:  analytics.PeriodStats{Count: 1, MeanSeconds: ptr(3), MedianSeconds: ptr(3), PctFast: ptr(100)},
	}, nil)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/dashboard/policy-change?technician=Arnold")

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var got PolicyChangeDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Arnold", got.Technician)
	assert.Equal(t, "2020-06-01T00:00:00Z", got.Cutoff)
	require.Len(t, got.Monthly, 1)
	assert.Equal(t, "2020-05-01", got.Monthly[0].Month)
	assert.Equal(t, "before", got.Before.Period)
	assert.Equal(t, 2, got.Before.TotalApprovals)
	assert.Equal(t, "after", got.After.Period)
}

func TestHandlePolicyChange_NoCutoff(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	svc.On("PolicyChange", mock.Anything, "Mendez").Return(nil, apperrors.ErrNoPolicyCutoff)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/dashboard/policy-change?technician=Mendez")

	require.Equal(t, stdhttp.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NO_POLICY_CUTOFF", resp.Code)
}

func TestHandleTechnicians(t *testing.T) {
	cutoff := domain.PolicyCutoff
	first := time.Date(2020, 1, 5, 9, 0, 0, 0, time.UTC)
	last := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)

	svc := mocks.NewMockDashboardService()
	svc.On("Technicians", mock.Anything).Return([]ports.TechnicianSummary{
		{
			Profile:     domain.TechnicianProfile{Name: "Arnold", Color: "red", PolicyCutoff: &cutoff},
			RecordCount: 120,
			FirstDate:   &first,
			LastDate:    &last,
		},
		{
			Profile: domain.TechnicianProfile{Name: "Shawn", Color: "green"},
		},
	}, nil)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/technicians")

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var resp ListResponse[TechnicianDTO]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)

	arnold := resp.Data[0]
	assert.Equal(t, "Arnold", arnold.Name)
	assert.Equal(t, "red", arnold.Color)
	assert.True(t, arnold.HasPolicyCutoff)
	require.NotNil(t, arnold.PolicyCutoff)
	assert.Equal(t, "2020-06-01T00:00:00Z", *arnold.PolicyCutoff)
	require.NotNil(t, arnold.FirstDate)
	assert.Equal(t, "2020-01-05", *arnold.FirstDate)

	shawn := resp.Data[1]
	assert.False(t, shawn.HasPolicyCutoff)
	assert.Nil(t, shawn.PolicyCutoff)
	assert.Nil(t, shawn.FirstDate)
}

func TestHandleDatasetInfo(t *testing.T) {
	min := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)

	svc := mocks.NewMockDashboardService()
	svc.On("DatasetInfo", mock.Anything).Return(&ports.DatasetInfo{
		Records:  5000,
		Dropped:  12,
		LoadedAt: time.Date(2021, 3, 2, 8, 0, 0, 0, time.UTC),
		MinDate:  &min,
		MaxDate:  &max,
	}, nil)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodGet, "/api/v1/dataset")

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var got DatasetInfoDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 5000, got.Records)
	assert.Equal(t, 12, got.DroppedRows)
	require.NotNil(t, got.MinDate)
	assert.Equal(t, "2019-01-01", *got.MinDate)
}

func TestHandleDatasetReload(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	svc.On("Reload", mock.Anything).Return(&ports.DatasetInfo{
		Records:  5100,
		LoadedAt: time.Date(2021, 3, 2, 9, 0, 0, 0, time.UTC),
	}, nil)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodPost, "/api/v1/dataset/reload")

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var got DatasetInfoDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 5100, got.Records)
	svc.AssertCalled(t, "Reload", mock.Anything)
}

func TestHandleDatasetReload_ProviderFailure(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	svc.On("Reload", mock.Anything).Return(nil, apperrors.ErrDatasetReload)

	r := newTestRouter(svc)
	rec := doRequest(t, r, stdhttp.MethodPost, "/api/v1/dataset/reload")

	require.Equal(t, stdhttp.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DATASET_RELOAD_FAILED", resp.Code)
}
