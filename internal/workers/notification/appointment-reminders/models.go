package appointmentreminders

type Input struct {
	// ReferenceTime overrides the scan clock, RFC 3339. Used for replays.
	ReferenceTime string `json:"referenceTime,omitempty"`
}

type Output struct {
	Appointments int `json:"appointmentsFound"`
	Enqueued     int `json:"remindersEnqueued"`
	Rejected     int `json:"remindersRejected"`
}
