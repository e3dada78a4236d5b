package computesalary

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"realty-crm/internal/common/config"
	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/compensation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Salary(ctx context.Context, userID string, period compensation.Period) (*compensation.Breakdown, error) {
	args := m.Called(ctx, userID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*compensation.Breakdown), args.Error(1)
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	return NewHandler(LoadConfig(config.WorkerConfig{}), svc, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	svc := new(MockService)
	period := compensation.Period{
		From: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	svc.On("Salary", mock.Anything, "u-1", period).Return(&compensation.Breakdown{
		Total:   decimal.RequireFromString("225"),
		CallPay: decimal.RequireFromString("225"),
		Counts:  compensation.Counts{Calls: 3},
	}, nil)

	out, err := newTestHandler(t, svc).Execute(context.Background(), &Input{UserID: "u-1", From: "2024-05-01", To: "2024-05-31"})

	require.NoError(t, err)
	assert.Equal(t, "u-1", out.UserID)
	assert.Equal(t, 3, out.Counts.Calls)
	svc.AssertExpectations(t)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &vars))
	assert.Equal(t, "225", vars["total"], "breakdown fields are flattened into the process variables")
}

func TestHandler_Execute_BadPeriod(t *testing.T) {
	svc := new(MockService)

	_, err := newTestHandler(t, svc).Execute(context.Background(), &Input{UserID: "u-1", From: "last month"})

	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	svc.AssertNotCalled(t, "Salary", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Execute_StoreFailure(t *testing.T) {
	svc := new(MockService)
	svc.On("Salary", mock.Anything, "u-1", compensation.Period{}).
		Return(nil, apperrors.NewPersistenceError("list_completed_tasks", errors.New("timeout")))

	_, err := newTestHandler(t, svc).Execute(context.Background(), &Input{UserID: "u-1"})

	assert.True(t, errors.Is(err, apperrors.ErrPersistence))
}
