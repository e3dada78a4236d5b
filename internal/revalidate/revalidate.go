// Package revalidate tells downstream caches and read models that a list view
// changed and must be refreshed.
package revalidate

import (
	"context"
	"fmt"
	"time"

	"realty-crm/internal/common/logger"

	"github.com/sourcegraph/conc/pool"
)

// Cached list views.
const (
	ViewInterests  = "property_interests"
	ViewTasks      = "tasks"
	ViewJobReports = "job_reports"
	ViewSalary     = "salary_parameters"
)

// Signal is the message every sink receives.
type Signal struct {
	Views  []string  `json:"views"`
	Source string    `json:"source"`
	At     time.Time `json:"at"`
}

type Sink interface {
	Name() string
	Send(ctx context.Context, sig Signal) error
}

// Fanout sends each signal to all sinks concurrently.
type Fanout struct {
	sinks  []Sink
	source string
	logger logger.Logger
	now    func() time.Time
}

func NewFanout(source string, log logger.Logger, sinks ...Sink) *Fanout {
	return &Fanout{
		sinks:  sinks,
		source: source,
		logger: log.WithFields(map[string]interface{}{"component": "revalidate"}),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Revalidate returns the joined errors of every failing sink. A failure in
// one sink does not stop the others.
func (f *Fanout) Revalidate(ctx context.Context, views ...string) error {
	if len(views) == 0 || len(f.sinks) == 0 {
		return nil
	}

	sig := Signal{Views: views, Source: f.source, At: f.now()}
	p := pool.New().WithErrors()
	for _, s := range f.sinks {
		s := s
		p.Go(func() error {
			if err := s.Send(ctx, sig); err != nil {
				f.logger.Warn("revalidation sink failed", map[string]interface{}{
					"sink":  s.Name(),
					"views": views,
					"error": err.Error(),
				})
				return fmt.Errorf("%s: %w", s.Name(), err)
			}
			return nil
		})
	}
	return p.Wait()
}

// Nop discards every signal.
type Nop struct{}

func (Nop) Revalidate(context.Context, ...string) error { return nil }
