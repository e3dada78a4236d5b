package notification

import (
	"testing"

	"realty-crm/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_EveryEventHasTemplate(t *testing.T) {
	for _, et := range []EventType{
		EventInterestConfirmed,
		EventAppointmentReminder,
		EventApprovalStatus,
		EventMeetingConfirmed,
		EventAssignmentCreated,
	} {
		msg, err := Format(et, map[string]interface{}{})
		require.NoError(t, err, et)
		assert.NotEmpty(t, msg.Title, et)
		assert.NotEmpty(t, msg.Body, et)
	}
}

func TestFormat_Interpolation(t *testing.T) {
	msg, err := Format(EventAssignmentCreated, map[string]interface{}{
		"customerName":  "Asha Rao",
		"propertyTitle": "Sea View 2BHK",
		"priority":      "high",
	})
	require.NoError(t, err)

	assert.Equal(t, "New Assignment", msg.Title)
	assert.Equal(t, "You have been assigned to Asha Rao for Sea View 2BHK. Priority: high.", msg.Body)
}

func TestFormat_MissingFieldsRenderEmpty(t *testing.T) {
	msg, err := Format(EventApprovalStatus, map[string]interface{}{
		"status":     "approved",
		"reportDate": "2024-05-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "Job Report approved", msg.Title)
	assert.Equal(t, "Your job report for 2024-05-01 has been approved.", msg.Body)
	assert.NotContains(t, msg.Body, "{{")
}

func TestFormat_UnknownEvent(t *testing.T) {
	_, err := Format("birthday", nil)
	assert.Error(t, err)
}

func TestRenderTemplate_NumbersAndSpacing(t *testing.T) {
	out := renderTemplate("Visits: {{ count }} km: {{km}}", map[string]interface{}{
		"count": float64(3),
		"km":    12.5,
	})
	assert.Equal(t, "Visits: 3 km: 12.5", out)
}

func TestNormalizeEventType(t *testing.T) {
	assert.Equal(t, EventInterestConfirmed, NormalizeEventType("  Interest_Confirmed "))
	assert.True(t, NormalizeEventType("ASSIGNMENT_CREATED").Known())
	assert.False(t, NormalizeEventType("unknown").Known())
}

func TestResolveChannels(t *testing.T) {
	assert.Equal(t, []models.Channel{models.ChannelWhatsApp, models.ChannelSMS},
		ResolveChannels(EventAppointmentReminder, nil))

	assert.Equal(t, []models.Channel{models.ChannelEmail},
		ResolveChannels(EventInterestConfirmed, []models.Channel{"app", "EMAIL", "email"}))

	assert.Empty(t, ResolveChannels(EventInterestConfirmed, []models.Channel{models.ChannelApp}))
}
