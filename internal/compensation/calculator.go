// Package compensation computes performance-based pay from completed tasks
// and approved job reports.
package compensation

import (
	"realty-crm/internal/models"

	"github.com/shopspring/decimal"
)

type Counts struct {
	Calls           int             `json:"calls"`
	Meetings        int             `json:"meetings"`
	FollowUps       int             `json:"followUps"`
	SiteVisits      int             `json:"siteVisits"`
	ApprovedReports int             `json:"approvedReports"`
	TravelKm        decimal.Decimal `json:"travelKm"`
}

type Breakdown struct {
	Total       decimal.Decimal `json:"total"`
	CallPay     decimal.Decimal `json:"callPay"`
	MeetingPay  decimal.Decimal `json:"meetingPay"`
	FollowUpPay decimal.Decimal `json:"followUpPay"`
	TravelPay   decimal.Decimal `json:"travelPay"`
	Counts      Counts          `json:"counts"`
}

// Compute is pure: the same inputs in any order give the same breakdown.
// Only Done tasks and approved reports count. Site visits are reported from
// approved reports but are not paid.
func Compute(tasks []models.Task, reports []models.JobReport, rates models.RateTable) Breakdown {
	counts := Counts{TravelKm: decimal.Zero}

	for _, t := range tasks {
		if t.Status != models.TaskDone {
			continue
		}
		switch t.TaskType {
		case models.TaskCall:
			counts.Calls++
		case models.TaskMeeting:
			counts.Meetings++
		case models.TaskFollowUp:
			counts.FollowUps++
		}
	}

	for _, r := range reports {
		if r.Status != models.ReportApproved {
			continue
		}
		counts.ApprovedReports++
		if r.TravelDistanceKm.Valid {
			counts.TravelKm = counts.TravelKm.Add(r.TravelDistanceKm.Decimal)
		}
		if r.SiteVisits != nil {
			counts.SiteVisits += *r.SiteVisits
		}
	}

	b := Breakdown{
		CallPay:     rates.Rate(models.PerCallRate).Mul(decimal.NewFromInt(int64(counts.Calls))),
		MeetingPay:  rates.Rate(models.PerMeetingRate).Mul(decimal.NewFromInt(int64(counts.Meetings))),
		FollowUpPay: rates.Rate(models.PerFollowUpRate).Mul(decimal.NewFromInt(int64(counts.FollowUps))),
		TravelPay:   rates.Rate(models.PerKmTravelRate).Mul(counts.TravelKm),
		Counts:      counts,
	}
	b.Total = b.CallPay.Add(b.MeetingPay).Add(b.FollowUpPay).Add(b.TravelPay)
	return b
}
