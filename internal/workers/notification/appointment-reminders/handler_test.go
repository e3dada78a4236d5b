package appointmentreminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"realty-crm/internal/common/config"
	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockScanner struct {
	mock.Mock
}

func (m *MockScanner) Scan(ctx context.Context, now time.Time) (*notification.ScanResult, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.ScanResult), args.Error(1)
}

func newTestHandler(t *testing.T, s Scanner, now time.Time) *Handler {
	h := NewHandler(LoadConfig(config.WorkerConfig{}), s, logger.NewTestLogger(t))
	h.now = func() time.Time { return now }
	return h
}

func TestHandler_Execute_UsesClock(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s := new(MockScanner)
	s.On("Scan", mock.Anything, now).Return(&notification.ScanResult{Appointments: 2, Enqueued: 3, Rejected: 1}, nil)

	out, err := newTestHandler(t, s, now).Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.Equal(t, &Output{Appointments: 2, Enqueued: 3, Rejected: 1}, out)
	s.AssertExpectations(t)
}

func TestHandler_Execute_ReferenceTime(t *testing.T) {
	ref := time.Date(2024, 4, 30, 8, 0, 0, 0, time.UTC)
	s := new(MockScanner)
	s.On("Scan", mock.Anything, mock.MatchedBy(func(tm time.Time) bool { return tm.Equal(ref) })).
		Return(&notification.ScanResult{}, nil)

	_, err := newTestHandler(t, s, time.Now()).Execute(context.Background(), &Input{ReferenceTime: "2024-04-30T08:00:00Z"})
	require.NoError(t, err)
	s.AssertExpectations(t)

	_, err = newTestHandler(t, s, time.Now()).Execute(context.Background(), &Input{ReferenceTime: "yesterday"})
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}

func TestHandler_Execute_ScanFailureIsRetryable(t *testing.T) {
	s := new(MockScanner)
	s.On("Scan", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := newTestHandler(t, s, time.Now()).Execute(context.Background(), &Input{})

	assert.True(t, errors.Is(err, apperrors.ErrPersistence))
	assert.Equal(t, 3, apperrors.GetRetryCount(apperrors.CodeOf(err)))
}
