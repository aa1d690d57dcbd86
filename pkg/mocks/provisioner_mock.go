package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wrenchworks/campaignd/pkg/easycron"
)

// MockProvisioner is a mock implementation of scheduler.Provisioner interface.
type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) CreateOneShotJob(ctx context.Context, input easycron.CreateJobInput) (*easycron.Job, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*easycron.Job), args.Error(1)
}
