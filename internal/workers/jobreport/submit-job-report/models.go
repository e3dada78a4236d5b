package submitjobreport

import "github.com/shopspring/decimal"

type Input struct {
	UserID           string           `json:"userId"`
	ReportDate       string           `json:"reportDate"` // YYYY-MM-DD, defaults to today (UTC)
	Details          string           `json:"details"`
	TravelDistanceKm *decimal.Decimal `json:"travelDistanceKm,omitempty"`
	SiteVisits       *int             `json:"siteVisits,omitempty"`
}

type Output struct {
	Success    bool    `json:"reportSubmitted"`
	ReportID   string  `json:"reportId"`
	ReportDate string  `json:"reportDate"`
	ReportTo   *string `json:"reportTo"`
	Status     string  `json:"reportStatus"`
}
