// Package assignment turns a customer's property interest into an agent
// assignment with a follow-up task and the matching notifications.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/common/metrics"
	"realty-crm/internal/common/observability"
	"realty-crm/internal/common/validation"
	"realty-crm/internal/models"
	"realty-crm/internal/notification"
	"realty-crm/internal/revalidate"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type Store interface {
	GetInterestDetail(ctx context.Context, interestID string) (*models.InterestDetail, error)
	// CompareAndSetInterestStatus updates the status only if it still equals
	// from, and reports whether a row changed.
	CompareAndSetInterestStatus(ctx context.Context, interestID string, from, to models.InterestStatus) (bool, error)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	// CancelLiveAssignments cancels the interest's assigned or in-progress
	// assignments and returns their previous statuses.
	CancelLiveAssignments(ctx context.Context, interestID string) ([]models.CancelledAssignment, error)
	RestoreAssignment(ctx context.Context, assignmentID string, status models.AssignmentStatus) (bool, error)
	CreateAssignment(ctx context.Context, a *models.AgentAssignment) error
	CreateTask(ctx context.Context, t *models.Task) error
}

type Enqueuer interface {
	Submit(job notification.Job) bool
}

type Revalidator interface {
	Revalidate(ctx context.Context, views ...string) error
}

type Config struct {
	AllowReassign   bool
	DefaultPriority models.Priority
	DefaultType     string
}

type AssignRequest struct {
	InterestID     string          `json:"interestId" validate:"required,uuid"`
	AgentID        string          `json:"agentId" validate:"required,uuid"`
	AssignedBy     string          `json:"assignedBy" validate:"required,uuid"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	Priority       models.Priority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	AssignmentType string          `json:"assignmentType,omitempty" validate:"omitempty,max=64"`
	Notes          *string         `json:"notes,omitempty"`
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailure Status = "failure"
)

type AssignResult struct {
	Status     Status                  `json:"status"`
	Success    bool                    `json:"success"`
	Message    string                  `json:"message"`
	Assignment *models.AgentAssignment `json:"assignment,omitempty"`
	Task       *models.Task            `json:"task,omitempty"`
	Warnings   []string                `json:"warnings,omitempty"`
}

type Orchestrator struct {
	store       Store
	enqueuer    Enqueuer
	revalidator Revalidator
	cfg         Config
	logger      logger.Logger
	now         func() time.Time
}

func NewOrchestrator(store Store, enqueuer Enqueuer, revalidator Revalidator, cfg Config, log logger.Logger) *Orchestrator {
	if cfg.DefaultPriority == "" {
		cfg.DefaultPriority = models.PriorityMedium
	}
	if cfg.DefaultType == "" {
		cfg.DefaultType = "property_inquiry"
	}
	return &Orchestrator{
		store:       store,
		enqueuer:    enqueuer,
		revalidator: revalidator,
		cfg:         cfg,
		logger:      log.WithFields(map[string]interface{}{"component": "assignment_orchestrator"}),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Assign runs the assignment workflow for one interest. A non-nil error always
// comes with a failure result.
func (o *Orchestrator) Assign(ctx context.Context, req AssignRequest) (res *AssignResult, err error) {
	ctx, span := observability.StartSpan(ctx, "assignment.assign",
		attribute.String("interest_id", req.InterestID),
		attribute.String("agent_id", req.AgentID),
	)
	defer func() {
		observability.EndSpan(span, err)
		metrics.AssignmentsTotal.WithLabelValues(string(res.Status)).Inc()
	}()

	log := o.logger.WithFields(map[string]interface{}{
		"interestId": req.InterestID,
		"agentId":    req.AgentID,
	})

	if err := validation.Struct(req); err != nil {
		return failed(err), err
	}

	interest, err := o.store.GetInterestDetail(ctx, req.InterestID)
	if err != nil {
		err = apperrors.FromStore("load_interest", err)
		log.Warn("interest lookup failed", map[string]interface{}{"error": err.Error()})
		return failed(err), err
	}

	agent, err := o.store.GetProfile(ctx, req.AgentID)
	if err != nil {
		err = apperrors.FromStore("load_agent", err)
		log.Warn("agent lookup failed", map[string]interface{}{"error": err.Error()})
		return failed(err), err
	}

	prev := interest.Status
	target, err := o.nextStatus(prev)
	if err != nil {
		log.Warn("assignment rejected", map[string]interface{}{"status": string(prev)})
		return failed(err), err
	}

	assignment, task := o.build(req, interest)
	var cancelled []models.CancelledAssignment
	steps := []step{
		{
			name:     "update_interest_status",
			critical: true,
			run: func(ctx context.Context) error {
				ok, err := o.store.CompareAndSetInterestStatus(ctx, interest.ID, prev, target)
				if err != nil {
					return apperrors.NewPersistenceError("update_interest_status", err).
						WithMetadata("interestId", interest.ID)
				}
				if !ok {
					return apperrors.NewConflictError(fmt.Sprintf("interest %s changed concurrently", interest.ID))
				}
				return nil
			},
			undo: func(ctx context.Context) error {
				if target == prev {
					return nil
				}
				ok, err := o.store.CompareAndSetInterestStatus(ctx, interest.ID, target, prev)
				if err != nil {
					return apperrors.NewPersistenceError("restore_interest_status", err).
						WithMetadata("interestId", interest.ID)
				}
				if !ok {
					return apperrors.NewConflictError(fmt.Sprintf("interest %s is no longer %s, restore to %s skipped", interest.ID, target, prev))
				}
				return nil
			},
		},
		{
			name:     "cancel_previous_assignments",
			critical: true,
			run: func(ctx context.Context) error {
				if prev == models.InterestPending {
					return nil
				}
				var err error
				cancelled, err = o.store.CancelLiveAssignments(ctx, interest.ID)
				if err != nil {
					return apperrors.NewPersistenceError("cancel_previous_assignments", err).
						WithMetadata("interestId", interest.ID)
				}
				return nil
			},
			undo: func(ctx context.Context) error {
				var errs []error
				for _, c := range cancelled {
					ok, err := o.store.RestoreAssignment(ctx, c.ID, c.PreviousStatus)
					if err != nil {
						errs = append(errs, apperrors.NewPersistenceError("restore_assignment", err).
							WithMetadata("assignmentId", c.ID))
						continue
					}
					if !ok {
						errs = append(errs, apperrors.NewConflictError(fmt.Sprintf("assignment %s is no longer cancelled, restore skipped", c.ID)))
					}
				}
				return errors.Join(errs...)
			},
		},
		{
			name:     "create_assignment",
			critical: true,
			run: func(ctx context.Context) error {
				if err := o.store.CreateAssignment(ctx, assignment); err != nil {
					if apperrors.CodeOf(err) == apperrors.ErrCodeConflict {
						return err
					}
					return apperrors.NewPersistenceError("create_assignment", err).
						WithMetadata("interestId", interest.ID)
				}
				return nil
			},
		},
		{
			name: "create_task",
			run: func(ctx context.Context) error {
				if err := o.store.CreateTask(ctx, task); err != nil {
					return apperrors.NewPersistenceError("create_task", err)
				}
				return nil
			},
		},
	}

	saga, err := runSaga(ctx, log, steps)
	if err != nil {
		return failed(err), err
	}

	res = &AssignResult{
		Status:     StatusSuccess,
		Success:    true,
		Message:    "Agent assigned successfully",
		Assignment: assignment,
		Task:       task,
	}
	for _, name := range saga.failed {
		if name == "create_task" {
			res.Task = nil
			res.Warnings = append(res.Warnings, "follow-up task was not created")
		}
	}

	if len(cancelled) > 0 {
		log.Info("previous assignments cancelled", map[string]interface{}{"count": len(cancelled)})
	}
	res.Warnings = append(res.Warnings, o.notify(log, interest, assignment, agent)...)

	if err := o.revalidator.Revalidate(ctx, revalidate.ViewInterests, revalidate.ViewTasks); err != nil {
		log.Warn("revalidation failed", map[string]interface{}{"error": err.Error()})
	}

	if len(res.Warnings) > 0 {
		res.Status = StatusPartial
		res.Message = "Agent assigned with warnings"
	}

	log.Info("interest assigned", map[string]interface{}{
		"assignmentId": assignment.ID,
		"status":       string(res.Status),
		"warnings":     len(res.Warnings),
	})
	return res, nil
}

// nextStatus applies the reassignment policy to the interest's current
// status and returns the status it moves to. A successful assignment always
// leaves the interest assigned.
func (o *Orchestrator) nextStatus(current models.InterestStatus) (models.InterestStatus, error) {
	switch current {
	case models.InterestPending:
		return models.InterestAssigned, nil
	case models.InterestAssigned, models.InterestContacted:
		if !o.cfg.AllowReassign {
			return "", apperrors.NewConflictError("interest already assigned")
		}
		return models.InterestAssigned, nil
	case models.InterestClosed:
		return "", apperrors.NewConflictError("interest is closed")
	default:
		return "", apperrors.NewConflictError(fmt.Sprintf("interest has unexpected status %q", current))
	}
}

func (o *Orchestrator) build(req AssignRequest, interest *models.InterestDetail) (*models.AgentAssignment, *models.Task) {
	now := o.now()

	priority := req.Priority
	if priority == "" {
		priority = o.cfg.DefaultPriority
	}
	assignmentType := req.AssignmentType
	if assignmentType == "" {
		assignmentType = o.cfg.DefaultType
	}

	assignment := &models.AgentAssignment{
		ID:                 uuid.New().String(),
		PropertyInterestID: interest.ID,
		AgentID:            req.AgentID,
		CustomerID:         interest.CustomerID,
		AssignedBy:         req.AssignedBy,
		Status:             models.AssignmentAssigned,
		Priority:           priority,
		AssignmentType:     assignmentType,
		Notes:              req.Notes,
		CreatedAt:          now,
	}

	propertyID := interest.PropertyID
	task := &models.Task{
		ID:                uuid.New().String(),
		Title:             "Follow up: " + interest.PropertyTitle,
		Description:       fmt.Sprintf("Contact %s about their interest in %s.", customerName(interest), interest.PropertyTitle),
		AssignedTo:        req.AgentID,
		CreatedBy:         req.AssignedBy,
		Status:            models.TaskTodo,
		TaskType:          models.TaskFollowUp,
		Priority:          priority,
		DueDate:           req.DueDate,
		RelatedPropertyID: &propertyID,
		CreatedAt:         now,
	}
	return assignment, task
}

func (o *Orchestrator) notify(log logger.Logger, interest *models.InterestDetail, assignment *models.AgentAssignment, agent *models.Profile) []string {
	jobs := []notification.Job{
		{
			UserID:    assignment.AgentID,
			EventType: string(notification.EventAssignmentCreated),
			Payload: notification.Payload{Data: map[string]interface{}{
				"propertyTitle": interest.PropertyTitle,
				"customerName":  customerName(interest),
				"priority":      string(assignment.Priority),
			}},
		},
		{
			UserID:    interest.CustomerID,
			EventType: string(notification.EventInterestConfirmed),
			Payload: notification.Payload{Data: map[string]interface{}{
				"propertyTitle": interest.PropertyTitle,
				"customerName":  interest.CustomerName,
				"agentName":     agent.FullName,
			}},
		},
	}

	var warnings []string
	for _, job := range jobs {
		if !o.enqueuer.Submit(job) {
			log.Warn("notification not enqueued", map[string]interface{}{
				"userId":    job.UserID,
				"eventType": job.EventType,
			})
			warnings = append(warnings, fmt.Sprintf("%s notification was not queued", job.EventType))
		}
	}
	return warnings
}

func customerName(interest *models.InterestDetail) string {
	if interest.CustomerName == "" {
		return "the customer"
	}
	return interest.CustomerName
}

func failed(err error) *AssignResult {
	return &AssignResult{Status: StatusFailure, Success: false, Message: err.Error()}
}
