// internal/models/appointment.go
package models

import "time"

type Appointment struct {
	ID            string    `json:"id" db:"id"`
	InterestID    *string   `json:"interestId,omitempty" db:"interest_id"`
	CustomerID    string    `json:"customerId" db:"customer_id"`
	AgentID       string    `json:"agentId" db:"agent_id"`
	PropertyTitle string    `json:"propertyTitle" db:"property_title"`
	ScheduledAt   time.Time `json:"scheduledAt" db:"scheduled_at"`
	Location      string    `json:"location" db:"location"`
}
