package dispatchnotification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"realty-crm/internal/common/config"
	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/models"
	"realty-crm/internal/notification"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID, eventType string, payload notification.Payload) bool {
	return m.Called(ctx, userID, eventType, payload).Bool(0)
}

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Submit(job notification.Job) bool {
	return m.Called(job).Bool(0)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "customer-notification",
		ElementId:          "Activity_Notify",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func newTestHandler(t *testing.T, n Notifier, e Enqueuer) *Handler {
	return NewHandler(LoadConfig(config.WorkerConfig{}), n, e, logger.NewTestLogger(t))
}

func TestHandler_ParseInput(t *testing.T) {
	h := newTestHandler(t, new(MockNotifier), new(MockEnqueuer))

	input, err := h.parseInput(createMockJob(1, map[string]interface{}{
		"userId":    "u-1",
		"eventType": "meeting_confirmed",
		"data":      map[string]interface{}{"scheduledAt": "tomorrow"},
		"channels":  []string{"sms"},
		"async":     true,
	}))
	require.NoError(t, err)
	assert.True(t, input.Async)
	assert.Equal(t, []string{"sms"}, input.Channels)

	_, err = h.parseInput(createMockJob(2, map[string]interface{}{"eventType": "meeting_confirmed"}))
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}

func TestHandler_Execute_Sync(t *testing.T) {
	n := new(MockNotifier)
	e := new(MockEnqueuer)
	n.On("Notify", mock.Anything, "u-1", "meeting_confirmed", notification.Payload{
		Data:     map[string]interface{}{"scheduledAt": "tomorrow"},
		Channels: []models.Channel{models.ChannelSMS},
	}).Return(true)

	out, err := newTestHandler(t, n, e).Execute(context.Background(), &Input{
		UserID:    "u-1",
		EventType: "meeting_confirmed",
		Data:      map[string]interface{}{"scheduledAt": "tomorrow"},
		Channels:  []string{"sms"},
	})

	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.True(t, out.Delivered)
	n.AssertExpectations(t)
	e.AssertNotCalled(t, "Submit", mock.Anything)
}

func TestHandler_Execute_SyncRejectedStillCompletes(t *testing.T) {
	n := new(MockNotifier)
	n.On("Notify", mock.Anything, "u-1", "bogus", mock.Anything).Return(false)

	out, err := newTestHandler(t, n, new(MockEnqueuer)).Execute(context.Background(), &Input{UserID: "u-1", EventType: "bogus"})

	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.False(t, out.Delivered)
}

func TestHandler_Execute_Async(t *testing.T) {
	n := new(MockNotifier)
	e := new(MockEnqueuer)
	e.On("Submit", mock.MatchedBy(func(j notification.Job) bool {
		return j.UserID == "u-1" && j.EventType == "approval_status"
	})).Return(true).Once()
	e.On("Submit", mock.Anything).Return(false)

	h := newTestHandler(t, n, e)
	in := &Input{UserID: "u-1", EventType: "approval_status", Async: true}

	out, err := h.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.False(t, out.Delivered)

	out, err = h.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, out.Accepted, "full queue")
	n.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
