package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all service metrics
const namespace = "dept_events"

// Registry is the Prometheus registry served on /metrics
var Registry = prometheus.NewRegistry()

// Registration outcomes, one per result of a register or unregister call
const (
	OutcomeRegistered   = "registered"
	OutcomeUnregistered = "unregistered"
	OutcomeFull         = "event_full"
	OutcomeDuplicate    = "already_registered"
	OutcomeNotApproved  = "not_approved"
	OutcomeNotFound     = "not_found"
	OutcomeError        = "error"
)

var (
	// RegistrationOutcomes counts registration workflow results
	RegistrationOutcomes = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_outcomes_total",
			Help:      "Registration workflow results by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// CheckIns counts attendance marks, first-time only
	CheckIns = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_ins_total",
			Help:      "Registrations marked as attended",
		},
	)

	// EventStatusChanges counts approval decisions by resulting status
	EventStatusChanges = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_status_changes_total",
			Help:      "Event approval decisions by new status",
		},
		[]string{"status"},
	)

	// CounterCorrections counts events whose registrations_count drifted from
	// the number of registration rows and was repaired
	CounterCorrections = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_counter_corrections_total",
			Help:      "Events whose registration counter was reconciled",
		},
	)

	// CronJobRuns counts background job executions by job and status
	CronJobRuns = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cron_job_runs_total",
			Help:      "Background job runs by job name and status",
		},
		[]string{"job", "status"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RecordRegistration increments the outcome counter for operation
func RecordRegistration(operation, outcome string) {
	RegistrationOutcomes.WithLabelValues(operation, outcome).Inc()
}
