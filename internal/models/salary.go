// internal/models/salary.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SalaryParameterName string

const (
	PerCallRate     SalaryParameterName = "per_call_rate"
	PerMeetingRate  SalaryParameterName = "per_meeting_rate"
	PerFollowUpRate SalaryParameterName = "per_follow_up_rate"
	PerKmTravelRate SalaryParameterName = "per_km_travel_rate"
)

// SalaryParameterNames lists every recognised rate.
var SalaryParameterNames = []SalaryParameterName{
	PerCallRate,
	PerMeetingRate,
	PerFollowUpRate,
	PerKmTravelRate,
}

func (n SalaryParameterName) Valid() bool {
	for _, known := range SalaryParameterNames {
		if n == known {
			return true
		}
	}
	return false
}

type SalaryParameter struct {
	Name      SalaryParameterName `json:"name" db:"name"`
	Rate      decimal.Decimal     `json:"rate" db:"rate"`
	SetBy     *string             `json:"setBy,omitempty" db:"set_by"`
	UpdatedAt time.Time           `json:"updatedAt" db:"updated_at"`
}

// RateTable maps a parameter to its rate. Missing entries count as zero.
type RateTable map[SalaryParameterName]decimal.Decimal

func (r RateTable) Rate(name SalaryParameterName) decimal.Decimal {
	if rate, ok := r[name]; ok {
		return rate
	}
	return decimal.Zero
}
