package computesalary

import "realty-crm/internal/compensation"

type Input struct {
	UserID string `json:"userId"`
	From   string `json:"from,omitempty"` // YYYY-MM-DD inclusive
	To     string `json:"to,omitempty"`   // YYYY-MM-DD inclusive
}

type Output struct {
	UserID string `json:"userId"`
	compensation.Breakdown
}
