package assignment

import (
	"context"
	"errors"
	"time"

	"realty-crm/internal/common/logger"
	"realty-crm/internal/common/metrics"
)

// step is one unit of a saga. A failing critical step undoes every completed
// step in reverse order; a failing non-critical step only degrades the run.
type step struct {
	name     string
	critical bool
	run      func(ctx context.Context) error
	undo     func(ctx context.Context) error
}

// undoTimeout bounds the compensation of one failed run. Undo steps run on a
// context detached from the caller's so a cancelled request still rolls back.
const undoTimeout = 15 * time.Second

type sagaResult struct {
	failed   []string
	warnings []error
}

func (r sagaResult) degraded() bool { return len(r.failed) > 0 }

// runSaga executes steps in order. The returned error is the critical step's
// error joined with any compensation failures.
func runSaga(ctx context.Context, log logger.Logger, steps []step) (sagaResult, error) {
	var res sagaResult
	done := make([]step, 0, len(steps))

	for _, s := range steps {
		err := s.run(ctx)
		if err == nil {
			done = append(done, s)
			continue
		}

		if !s.critical {
			log.Warn("non-critical step failed", map[string]interface{}{
				"step":  s.name,
				"error": err.Error(),
			})
			res.failed = append(res.failed, s.name)
			res.warnings = append(res.warnings, err)
			continue
		}

		log.Error("critical step failed, compensating", map[string]interface{}{
			"step":      s.name,
			"completed": len(done),
			"error":     err.Error(),
		})
		return res, errors.Join(append([]error{err}, compensate(ctx, log, done)...)...)
	}

	return res, nil
}

func compensate(ctx context.Context, log logger.Logger, done []step) []error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), undoTimeout)
	defer cancel()

	var errs []error
	for i := len(done) - 1; i >= 0; i-- {
		s := done[i]
		if s.undo == nil {
			continue
		}

		if err := s.undo(ctx); err != nil {
			metrics.AssignmentCompensations.WithLabelValues(s.name, "failed").Inc()
			log.Error("compensation failed, manual reconciliation required", map[string]interface{}{
				"step":  s.name,
				"error": err.Error(),
			})
			errs = append(errs, err)
			continue
		}
		metrics.AssignmentCompensations.WithLabelValues(s.name, "ok").Inc()
		log.Info("step compensated", map[string]interface{}{"step": s.name})
	}
	return errs
}
