package reviewjobreport

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"realty-crm/internal/common/config"
	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/jobreport"
	"realty-crm/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Review(ctx context.Context, actor models.Actor, reportID string, decision jobreport.Decision, comment *string) (*models.JobReport, error) {
	args := m.Called(ctx, actor, reportID, decision, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobReport), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "job-report",
		ElementId:          "Activity_ReviewReport",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	return NewHandler(LoadConfig(config.WorkerConfig{}), svc, logger.NewTestLogger(t))
}

func TestHandler_ParseInput(t *testing.T) {
	h := newTestHandler(t, new(MockService))

	input, err := h.parseInput(createMockJob(1, map[string]interface{}{
		"reportId":  "r-1",
		"actorId":   "admin-1",
		"actorRole": "admin",
		"decision":  "approved",
		"comment":   "good work",
	}))
	require.NoError(t, err)
	assert.Equal(t, "good work", *input.Comment)

	_, err = h.parseInput(createMockJob(2, map[string]interface{}{"decision": "approved"}))
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}

func TestHandler_Execute_Approve(t *testing.T) {
	svc := new(MockService)
	actor := models.Actor{ID: "admin-1", Role: models.RoleAdmin}
	svc.On("Review", mock.Anything, actor, "r-1", jobreport.DecisionApproved, (*string)(nil)).
		Return(&models.JobReport{ID: "r-1", UserID: "staff-1", Status: models.ReportApproved}, nil)

	out, err := newTestHandler(t, svc).Execute(context.Background(), &Input{
		ReportID: "r-1", ActorID: "admin-1", ActorRole: "admin", Decision: "approved",
	})

	require.NoError(t, err)
	assert.Equal(t, &Output{ReportID: "r-1", Status: "approved", ReviewedBy: "admin-1", AuthorID: "staff-1"}, out)
	svc.AssertExpectations(t)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unauthorized", apperrors.NewUnauthorizedError("role agent cannot review"), apperrors.ErrUnauthorized},
		{"already reviewed", apperrors.NewInvalidTransitionError("approved", "rejected"), apperrors.ErrInvalidTransition},
		{"not found", apperrors.NewNotFoundError("job_report", "r-1"), apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Review", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			_, err := newTestHandler(t, svc).Execute(context.Background(), &Input{ReportID: "r-1", Decision: "rejected"})

			assert.True(t, errors.Is(err, tt.want))
			assert.Equal(t, 0, apperrors.GetRetryCount(apperrors.CodeOf(err)))
		})
	}
}
