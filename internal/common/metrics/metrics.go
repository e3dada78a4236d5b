package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Worker-level metrics shared by every job handler.
var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)

// Domain metrics.
var (
	AssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_assignments_total",
			Help: "Assignment orchestrations by outcome (success, partial, failure)",
		},
		[]string{"status"},
	)

	AssignmentCompensations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_assignment_compensations_total",
			Help: "Compensating rollbacks run by the assignment saga",
		},
		[]string{"step", "outcome"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_notifications_total",
			Help: "Notification deliveries by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	NotificationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crm_notification_queue_depth",
			Help: "Notification jobs waiting in the dispatcher pool",
		},
	)

	JobReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_job_reports_total",
			Help: "Job report submissions and reviews by outcome",
		},
		[]string{"action", "outcome"},
	)

	SalaryComputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_salary_computations_total",
			Help: "Salary computations by rate source (cache, db)",
		},
		[]string{"rate_source"},
	)
)
