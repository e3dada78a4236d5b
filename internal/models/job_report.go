// internal/models/job_report.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReportStatus string

const (
	ReportSubmitted ReportStatus = "submitted"
	ReportApproved  ReportStatus = "approved"
	ReportRejected  ReportStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s ReportStatus) IsTerminal() bool {
	return s == ReportApproved || s == ReportRejected
}

// JobReport is a staff member's daily activity report. ReportDate is a UTC
// calendar day at midnight.
type JobReport struct {
	ID               string              `json:"id" db:"id"`
	UserID           string              `json:"userId" db:"user_id"`
	ReportTo         *string             `json:"reportTo,omitempty" db:"report_to"`
	ReportDate       time.Time           `json:"reportDate" db:"report_date"`
	Details          string              `json:"details" db:"details"`
	TravelDistanceKm decimal.NullDecimal `json:"travelDistanceKm" db:"travel_distance_km"`
	SiteVisits       *int                `json:"siteVisits,omitempty" db:"site_visits"`
	Status           ReportStatus        `json:"status" db:"status"`
	ReviewedBy       *string             `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt       *time.Time          `json:"reviewedAt,omitempty" db:"reviewed_at"`
	ReviewComment    *string             `json:"reviewComment,omitempty" db:"review_comment"`
	CreatedAt        time.Time           `json:"createdAt" db:"created_at"`
}
