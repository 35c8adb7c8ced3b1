package mocks

import (
	"context"

	"github.com/clearcheck/approval-analytics-backend/internal/core/analytics"
	"github.com/clearcheck/approval-analytics-backend/internal/core/domain"
	"github.com/clearcheck/approval-analytics-backend/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockRecordProvider is a mock implementation of ports.RecordProvider
type MockRecordProvider struct {
	mock.Mock
}

func NewMockRecordProvider() *MockRecordProvider {
	return &MockRecordProvider{}
}

func (m *MockRecordProvider) Load(ctx context.Context) (*ports.LoadResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.LoadResult), args.Error(1)
}

func (m *MockRecordProvider) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockDashboardService is a mock implementation of ports.DashboardService
type MockDashboardService struct {
	mock.Mock
}

func NewMockDashboardService() *MockDashboardService {
	return &MockDashboardService{}
}

func (m *MockDashboardService) Technicians(ctx context.Context) ([]ports.TechnicianSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.TechnicianSummary), args.Error(1)
}

func (m *MockDashboardService) Summary(ctx context.Context, q ports.DashboardQuery) (*analytics.Summary, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Summary), args.Error(1)
}

func (m *MockDashboardService) Durations(ctx context.Context, q ports.DashboardQuery) ([]float64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockDashboardService) FastRates(ctx context.Context, q ports.DashboardQuery) ([]analytics.FastRatePoint, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.FastRatePoint), args.Error(1)
}

func (m *MockDashboardService) Blocks(ctx context.Context, q ports.DashboardQuery) ([]domain.Block, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Block), args.Error(1)
}

func (m *MockDashboardService) Weekdays(ctx context.Context, q ports.DashboardQuery) ([]analytics.WeekdayCount, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.WeekdayCount), args.Error(1)
}

func (m *MockDashboardService) WorstCases(ctx context.Context, q ports.DashboardQuery) ([]domain.ApprovalRecord, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRecord), args.Error(1)
}

func (m *MockDashboardService) PolicyChange(ctx context.Context, technician string) (*ports.PolicyChangeReport, error) {
	args := m.Called(ctx, technician)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.PolicyChangeReport), args.Error(1)
}

func (m *MockDashboardService) DatasetInfo(ctx context.Context) (*ports.DatasetInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.DatasetInfo), args.Error(1)
}

func (m *MockDashboardService) Reload(ctx context.Context) (*ports.DatasetInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.DatasetInfo), args.Error(1)
}
