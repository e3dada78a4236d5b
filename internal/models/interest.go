// internal/models/interest.go
package models

import "time"

type InterestStatus string

const (
	InterestPending   InterestStatus = "pending"
	InterestAssigned  InterestStatus = "assigned"
	InterestContacted InterestStatus = "contacted"
	InterestClosed    InterestStatus = "closed"
)

// PropertyInterest is a customer's expressed interest in a property.
type PropertyInterest struct {
	ID                   string         `json:"id" db:"id"`
	CustomerID           string         `json:"customerId" db:"customer_id"`
	PropertyID           string         `json:"propertyId" db:"property_id"`
	Status               InterestStatus `json:"status" db:"status"`
	PreferredMeetingTime *time.Time     `json:"preferredMeetingTime,omitempty" db:"preferred_meeting_time"`
	CreatedAt            time.Time      `json:"createdAt" db:"created_at"`
}

// InterestDetail is an interest joined with the fields the orchestrator needs
// for task text and notifications.
type InterestDetail struct {
	PropertyInterest
	PropertyTitle string `json:"propertyTitle"`
	CustomerName  string `json:"customerName"`
}
