package notification

import (
	"strings"

	"realty-crm/internal/models"
)

type EventType string

const (
	EventInterestConfirmed   EventType = "interest_confirmed"
	EventAppointmentReminder EventType = "appointment_reminder"
	EventApprovalStatus      EventType = "approval_status"
	EventMeetingConfirmed    EventType = "meeting_confirmed"
	EventAssignmentCreated   EventType = "assignment_created"
)

// Payload is the caller-supplied event data. Channels, when non-empty,
// replaces the event's default external channels.
type Payload struct {
	Data     map[string]interface{} `json:"data"`
	Channels []models.Channel       `json:"channels,omitempty"`
}

// Job is one queued notification.
type Job struct {
	UserID    string  `json:"userId"`
	EventType string  `json:"eventType"`
	Payload   Payload `json:"payload"`
}

type eventDef struct {
	title    string
	message  string
	schema   string
	channels []models.Channel
}

var events = map[EventType]eventDef{
	EventInterestConfirmed: {
		title:   "Interest Confirmed",
		message: "Hi {{customerName}}, we have received your interest in {{propertyTitle}}. Our agent {{agentName}} will contact you shortly.",
		schema: `{
			"type": "object",
			"required": ["propertyTitle"],
			"properties": {
				"propertyTitle": {"type": "string", "minLength": 1},
				"customerName": {"type": "string"},
				"agentName": {"type": "string"}
			}
		}`,
		channels: []models.Channel{models.ChannelWhatsApp},
	},
	EventAppointmentReminder: {
		title:   "Appointment Reminder",
		message: "Reminder: your visit to {{propertyTitle}} is scheduled for {{scheduledAt}} at {{location}}.",
		schema: `{
			"type": "object",
			"required": ["propertyTitle", "scheduledAt"],
			"properties": {
				"propertyTitle": {"type": "string", "minLength": 1},
				"scheduledAt": {"type": "string", "minLength": 1},
				"location": {"type": "string"}
			}
		}`,
		channels: []models.Channel{models.ChannelWhatsApp, models.ChannelSMS},
	},
	EventApprovalStatus: {
		title:   "Job Report {{status}}",
		message: "Your job report for {{reportDate}} has been {{status}}. {{comment}}",
		schema: `{
			"type": "object",
			"required": ["status", "reportDate"],
			"properties": {
				"status": {"type": "string", "enum": ["approved", "rejected"]},
				"reportDate": {"type": "string", "minLength": 1},
				"comment": {"type": "string"}
			}
		}`,
		channels: []models.Channel{models.ChannelWhatsApp, models.ChannelEmail},
	},
	EventMeetingConfirmed: {
		title:   "Meeting Confirmed",
		message: "Your meeting about {{propertyTitle}} is confirmed for {{meetingTime}} at {{location}}.",
		schema: `{
			"type": "object",
			"required": ["propertyTitle", "meetingTime"],
			"properties": {
				"propertyTitle": {"type": "string", "minLength": 1},
				"meetingTime": {"type": "string", "minLength": 1},
				"location": {"type": "string"}
			}
		}`,
		channels: []models.Channel{models.ChannelWhatsApp},
	},
	EventAssignmentCreated: {
		title:   "New Assignment",
		message: "You have been assigned to {{customerName}} for {{propertyTitle}}. Priority: {{priority}}.",
		schema: `{
			"type": "object",
			"required": ["propertyTitle", "customerName"],
			"properties": {
				"propertyTitle": {"type": "string", "minLength": 1},
				"customerName": {"type": "string", "minLength": 1},
				"priority": {"type": "string", "enum": ["low", "medium", "high"]},
				"dueDate": {"type": "string"}
			}
		}`,
		channels: []models.Channel{models.ChannelWhatsApp},
	},
}

// NormalizeEventType lower-cases and trims a producer-supplied event type.
func NormalizeEventType(raw string) EventType {
	return EventType(strings.ToLower(strings.TrimSpace(raw)))
}

func (t EventType) Known() bool {
	_, ok := events[t]
	return ok
}

// ResolveChannels returns the external channels for one event. The in-app
// channel is always written separately and never appears in the result.
func ResolveChannels(t EventType, override []models.Channel) []models.Channel {
	source := events[t].channels
	if len(override) > 0 {
		source = override
	}

	seen := make(map[models.Channel]bool, len(source))
	out := make([]models.Channel, 0, len(source))
	for _, ch := range source {
		ch = models.Channel(strings.ToLower(string(ch)))
		if ch == models.ChannelApp || seen[ch] {
			continue
		}
		seen[ch] = true
		out = append(out, ch)
	}
	return out
}

func schemaDefinitions() map[string]string {
	defs := make(map[string]string, len(events))
	for t, def := range events {
		defs[string(t)] = def.schema
	}
	return defs
}
