package assignment

import (
	"context"
	"errors"
	"testing"

	"realty-crm/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingStep(name string, critical bool, runErr error, trace *[]string) step {
	return step{
		name:     name,
		critical: critical,
		run: func(ctx context.Context) error {
			*trace = append(*trace, "run:"+name)
			return runErr
		},
		undo: func(ctx context.Context) error {
			*trace = append(*trace, "undo:"+name)
			return nil
		},
	}
}

func TestRunSaga_UndoesInReverseOrder(t *testing.T) {
	var trace []string
	boom := errors.New("boom")

	_, err := runSaga(context.Background(), logger.NewNoOpLogger(), []step{
		recordingStep("a", true, nil, &trace),
		recordingStep("b", true, nil, &trace),
		recordingStep("c", true, boom, &trace),
		recordingStep("d", true, nil, &trace),
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"run:a", "run:b", "run:c", "undo:b", "undo:a"}, trace)
}

func TestRunSaga_NonCriticalFailureDegrades(t *testing.T) {
	var trace []string

	res, err := runSaga(context.Background(), logger.NewNoOpLogger(), []step{
		recordingStep("a", true, nil, &trace),
		recordingStep("b", false, errors.New("soft"), &trace),
		recordingStep("c", true, nil, &trace),
	})

	require.NoError(t, err)
	assert.True(t, res.degraded())
	assert.Equal(t, []string{"b"}, res.failed)
	assert.Equal(t, []string{"run:a", "run:b", "run:c"}, trace)
}

func TestRunSaga_JoinsUndoErrors(t *testing.T) {
	undoErr := errors.New("undo failed")
	runErr := errors.New("run failed")

	_, err := runSaga(context.Background(), logger.NewNoOpLogger(), []step{
		{
			name:     "first",
			critical: true,
			run:      func(context.Context) error { return nil },
			undo:     func(context.Context) error { return undoErr },
		},
		{
			name:     "second",
			critical: true,
			run:      func(context.Context) error { return runErr },
		},
	})

	assert.ErrorIs(t, err, runErr)
	assert.ErrorIs(t, err, undoErr)
}

func TestRunSaga_UndoSurvivesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var undoErr error
	_, err := runSaga(ctx, logger.NewNoOpLogger(), []step{
		{
			name:     "first",
			critical: true,
			run:      func(context.Context) error { return nil },
			undo: func(ctx context.Context) error {
				undoErr = ctx.Err()
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				return undoErr
			},
		},
		{
			name:     "second",
			critical: true,
			run: func(ctx context.Context) error {
				cancel()
				return ctx.Err()
			},
		},
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, undoErr)
}
