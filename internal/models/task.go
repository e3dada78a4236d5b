// internal/models/task.go
package models

import "time"

type TaskStatus string

const (
	TaskTodo       TaskStatus = "Todo"
	TaskInProgress TaskStatus = "InProgress"
	TaskDone       TaskStatus = "Done"
)

type TaskType string

const (
	TaskFollowUp  TaskType = "Follow-up"
	TaskCall      TaskType = "Call"
	TaskSiteVisit TaskType = "Site Visit"
	TaskMeeting   TaskType = "Meeting"
)

type Task struct {
	ID                string     `json:"id" db:"id"`
	Title             string     `json:"title" db:"title"`
	Description       string     `json:"description" db:"description"`
	AssignedTo        string     `json:"assignedTo" db:"assigned_to"`
	CreatedBy         string     `json:"createdBy" db:"created_by"`
	Status            TaskStatus `json:"status" db:"status"`
	TaskType          TaskType   `json:"taskType" db:"task_type"`
	Priority          Priority   `json:"priority" db:"priority"`
	DueDate           *time.Time `json:"dueDate,omitempty" db:"due_date"`
	RelatedPropertyID *string    `json:"relatedPropertyId,omitempty" db:"related_property_id"`
	RelatedLeadID     *string    `json:"relatedLeadId,omitempty" db:"related_lead_id"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
}
