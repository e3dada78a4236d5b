package main

import (
	"bytes"
	"strings"
	"testing"

	"realty-crm/internal/compensation"
	"realty-crm/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBreakdown(t *testing.T) {
	var buf bytes.Buffer
	b := &compensation.Breakdown{
		Total:       decimal.RequireFromString("479.625"),
		CallPay:     decimal.RequireFromString("150"),
		MeetingPay:  decimal.RequireFromString("200"),
		FollowUpPay: decimal.RequireFromString("60"),
		TravelPay:   decimal.RequireFromString("69.625"),
		Counts: compensation.Counts{
			Calls:    3,
			TravelKm: decimal.RequireFromString("27.85"),
		},
	}

	require.NoError(t, printBreakdown(&buf, b))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 8)
	assert.Regexp(t, `^calls\s+3\s+150\.00$`, lines[1])
	assert.Regexp(t, `^travel \(km\)\s+27\.85\s+69\.63$`, lines[4])
	assert.Regexp(t, `^TOTAL\s+479\.63$`, lines[7])
}

func TestPrintRates_ListsEveryParameter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRates(&buf, models.RateTable{models.PerCallRate: decimal.RequireFromString("50")}))

	out := buf.String()
	assert.Contains(t, out, "per_call_rate")
	assert.Contains(t, out, "per_km_travel_rate")
	assert.Regexp(t, `per_meeting_rate\s+0\n`, out)
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"enqueued": 2}))
	assert.JSONEq(t, `{"enqueued": 2}`, buf.String())
}

func TestSalaryCmd_RequiresUser(t *testing.T) {
	rootCmd.SetArgs([]string{"salary"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	assert.Error(t, err)
}
