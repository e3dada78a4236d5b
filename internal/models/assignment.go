// internal/models/assignment.go
package models

import "time"

type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentCancelled  AssignmentStatus = "cancelled"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type AgentAssignment struct {
	ID                 string           `json:"id" db:"id"`
	PropertyInterestID string           `json:"propertyInterestId" db:"property_interest_id"`
	AgentID            string           `json:"agentId" db:"agent_id"`
	CustomerID         string           `json:"customerId" db:"customer_id"`
	AssignedBy         string           `json:"assignedBy" db:"assigned_by"`
	Status             AssignmentStatus `json:"status" db:"status"`
	Priority           Priority         `json:"priority" db:"priority"`
	AssignmentType     string           `json:"assignmentType" db:"assignment_type"`
	Notes              *string          `json:"notes,omitempty" db:"notes"`
	CreatedAt          time.Time        `json:"createdAt" db:"created_at"`
}

// Live reports whether the assignment still binds its agent to the interest.
func (s AssignmentStatus) Live() bool {
	return s == AssignmentAssigned || s == AssignmentInProgress
}

// CancelledAssignment records the status an assignment had before a
// reassignment cancelled it.
type CancelledAssignment struct {
	ID             string
	PreviousStatus AssignmentStatus
}
