package notification

import (
	"context"
	"fmt"
	"time"

	"realty-crm/internal/common/logger"
	"realty-crm/internal/models"
)

type AppointmentStore interface {
	ListAppointmentsBetween(ctx context.Context, from, to time.Time) ([]models.Appointment, error)
}

// Enqueuer accepts notification jobs for background delivery.
type Enqueuer interface {
	Submit(job Job) bool
}

type ScanResult struct {
	Appointments int `json:"appointments"`
	Enqueued     int `json:"enqueued"`
	Rejected     int `json:"rejected"`
}

// ReminderScanner enqueues appointment reminders for appointments starting
// within [now+lead, now+lead+window). Repeated scans of the same window send
// repeated reminders.
type ReminderScanner struct {
	store    AppointmentStore
	enqueuer Enqueuer
	lead     time.Duration
	window   time.Duration
	logger   logger.Logger
}

func NewReminderScanner(store AppointmentStore, enqueuer Enqueuer, lead, window time.Duration, log logger.Logger) *ReminderScanner {
	return &ReminderScanner{
		store:    store,
		enqueuer: enqueuer,
		lead:     lead,
		window:   window,
		logger:   log.WithFields(map[string]interface{}{"component": "reminder_scanner"}),
	}
}

func (s *ReminderScanner) Scan(ctx context.Context, now time.Time) (*ScanResult, error) {
	from := now.UTC().Add(s.lead)
	to := from.Add(s.window)

	appointments, err := s.store.ListAppointmentsBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	result := &ScanResult{Appointments: len(appointments)}
	for _, appt := range appointments {
		data := map[string]interface{}{
			"propertyTitle": appt.PropertyTitle,
			"scheduledAt":   appt.ScheduledAt.UTC().Format("02 Jan 2006 03:04 PM MST"),
			"location":      appt.Location,
			"appointmentId": appt.ID,
		}

		for _, userID := range []string{appt.CustomerID, appt.AgentID} {
			job := Job{
				UserID:    userID,
				EventType: string(EventAppointmentReminder),
				Payload:   Payload{Data: data},
			}
			if s.enqueuer.Submit(job) {
				result.Enqueued++
			} else {
				result.Rejected++
			}
		}
	}

	s.logger.Info("appointment reminder scan finished", map[string]interface{}{
		"from":         from.Format(time.RFC3339),
		"to":           to.Format(time.RFC3339),
		"appointments": result.Appointments,
		"enqueued":     result.Enqueued,
		"rejected":     result.Rejected,
	})
	return result, nil
}
