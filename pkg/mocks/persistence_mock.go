package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wrenchworks/campaignd/pkg/models"
	"github.com/wrenchworks/campaignd/pkg/persistence"
)

// MockScheduleRepository is a mock implementation of persistence.ScheduleRepository interface.
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) Upsert(ctx context.Context, input persistence.ScheduleUpsert) (*models.ScheduleRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ScheduleRecord), args.Error(1)
}

func (m *MockScheduleRepository) UpdateJob(ctx context.Context, id string, update models.ScheduleJobUpdate) (*models.ScheduleRecord, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ScheduleRecord), args.Error(1)
}

func (m *MockScheduleRepository) MarkRun(ctx context.Context, id string, status models.ScheduleStatus) (*models.ScheduleRecord, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ScheduleRecord), args.Error(1)
}

func (m *MockScheduleRepository) GetByID(ctx context.Context, id string) (*models.ScheduleRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ScheduleRecord), args.Error(1)
}

func (m *MockScheduleRepository) GetLatestByNode(ctx context.Context, companyID *string, campaignID, nodeID string) (*models.ScheduleRecord, error) {
	args := m.Called(ctx, companyID, campaignID, nodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ScheduleRecord), args.Error(1)
}

func (m *MockScheduleRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*models.ScheduleRecord, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.ScheduleRecord), args.Error(1)
}

// MockGraphRepository is a mock implementation of persistence.GraphRepository interface.
type MockGraphRepository struct {
	mock.Mock
}

func (m *MockGraphRepository) GetGraph(ctx context.Context, scope models.GraphScope, companyID *string, campaignID string) (*models.CampaignGraph, error) {
	args := m.Called(ctx, scope, companyID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CampaignGraph), args.Error(1)
}

// MockSettingsRepository is a mock implementation of persistence.SettingsRepository interface.
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetMarketingSettings(ctx context.Context, companyID string) (*models.MarketingSettings, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.MarketingSettings), args.Error(1)
}

// MockCampaignRepository is a mock implementation of persistence.CampaignRepository interface.
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) GetCampaign(ctx context.Context, scope models.GraphScope, companyID *string, campaignID string) (*models.Campaign, error) {
	args := m.Called(ctx, scope, companyID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) MarkLive(ctx context.Context, scope models.GraphScope, companyID *string, campaignID string) error {
	args := m.Called(ctx, scope, companyID, campaignID)

	return args.Error(0)
}

// MockPersistence is a mock implementation of persistence.Persistence interface.
type MockPersistence struct {
	mock.Mock

	ScheduleRepo *MockScheduleRepository
	GraphRepo    *MockGraphRepository
	SettingsRepo *MockSettingsRepository
	CampaignRepo *MockCampaignRepository
}

// NewMockPersistence creates a new MockPersistence with all mock repositories.
func NewMockPersistence() *MockPersistence {
	return &MockPersistence{
		ScheduleRepo: new(MockScheduleRepository),
		GraphRepo:    new(MockGraphRepository),
		SettingsRepo: new(MockSettingsRepository),
		CampaignRepo: new(MockCampaignRepository),
	}
}

func (m *MockPersistence) Schedules() persistence.ScheduleRepository {
	return m.ScheduleRepo
}

func (m *MockPersistence) Graphs() persistence.GraphRepository {
	return m.GraphRepo
}

func (m *MockPersistence) Settings() persistence.SettingsRepository {
	return m.SettingsRepo
}

func (m *MockPersistence) Campaigns() persistence.CampaignRepository {
	return m.CampaignRepo
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

// AssertExpectations asserts expectations on every embedded repository mock.
func (m *MockPersistence) AssertExpectations(t mock.TestingT) bool {
	ok := m.ScheduleRepo.AssertExpectations(t)
	ok = m.GraphRepo.AssertExpectations(t) && ok
	ok = m.SettingsRepo.AssertExpectations(t) && ok
	ok = m.CampaignRepo.AssertExpectations(t) && ok

	return ok
}
