package assigninterest

type Input struct {
	InterestID     string  `json:"interestId"`
	AgentID        string  `json:"agentId"`
	AssignedBy     string  `json:"assignedBy"`
	DueDate        string  `json:"dueDate,omitempty"` // YYYY-MM-DD or RFC 3339
	Priority       string  `json:"priority,omitempty"`
	AssignmentType string  `json:"assignmentType,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

type Output struct {
	Status       string   `json:"assignmentStatus"`
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	AssignmentID string   `json:"assignmentId,omitempty"`
	TaskID       string   `json:"taskId,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}
