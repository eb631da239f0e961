package cron

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/sahilchouksey/dept-events/metrics"
	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/utils/auth"
	"gorm.io/gorm"
)

// Default schedules, six fields with seconds
const (
	DefaultReconcileSchedule      = "0 */10 * * * *"
	DefaultTokenCleanupSchedule   = "0 15 * * * *"
	DefaultLogRetentionSchedule   = "0 0 3 * * *"
	DefaultCronLogRetentionPeriod = 90 * 24 * time.Hour
)

// Job names as stored in cron_job_logs
const (
	JobReconcileCounts  = "reconcile_registration_counts"
	JobCleanupTokens    = "cleanup_expired_tokens"
	JobPruneCronJobLogs = "prune_cron_job_logs"
)

// Config holds the job schedules; empty fields use the defaults
type Config struct {
	ReconcileSchedule    string
	TokenCleanupSchedule string
	LogRetentionSchedule string
	LogRetention         time.Duration
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron      *cron.Cron
	db        *gorm.DB
	blacklist *auth.BlacklistService
	config    Config
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, config Config) *CronManager {
	if config.ReconcileSchedule == "" {
		config.ReconcileSchedule = DefaultReconcileSchedule
	}
	if config.TokenCleanupSchedule == "" {
		config.TokenCleanupSchedule = DefaultTokenCleanupSchedule
	}
	if config.LogRetentionSchedule == "" {
		config.LogRetentionSchedule = DefaultLogRetentionSchedule
	}
	if config.LogRetention <= 0 {
		config.LogRetention = DefaultCronLogRetentionPeriod
	}

	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger)))

	return &CronManager{
		cron:      c,
		db:        db,
		blacklist: auth.NewBlacklistService(db),
		config:    config,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Info().Msg("Starting cron jobs")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Info().Int("jobs", len(m.cron.Entries())).Msg("Cron jobs started")
	return nil
}

// Stop stops all cron jobs and waits for running ones to finish
func (m *CronManager) Stop() {
	log.Info().Msg("Stopping cron jobs")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	jobs := []struct {
		schedule string
		name     string
		run      func() (string, error)
	}{
		{m.config.ReconcileSchedule, JobReconcileCounts, m.ReconcileRegistrationCounts},
		{m.config.TokenCleanupSchedule, JobCleanupTokens, m.CleanupExpiredTokens},
		{m.config.LogRetentionSchedule, JobPruneCronJobLogs, m.PruneCronJobLogs},
	}

	for _, job := range jobs {
		job := job
		if _, err := m.cron.AddFunc(job.schedule, func() {
			m.Run(job.name, job.run)
		}); err != nil {
			return err
		}
	}

	log.Info().Msg("All cron jobs registered")
	return nil
}

// Run executes fn as jobName and records the run in cron_job_logs
func (m *CronManager) Run(jobName string, fn func() (string, error)) {
	entry := m.logJobStart(jobName)

	message, err := fn()
	if err != nil {
		m.logJobError(entry, err)
		return
	}
	m.logJobComplete(entry, message)
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) *model.CronJobLog {
	log.Info().Str("job", jobName).Msg("[CRON] starting job")

	cronLog := &model.CronJobLog{
		JobName:   jobName,
		Status:    model.CronJobRunning,
		StartedAt: time.Now(),
	}
	if err := m.db.Create(cronLog).Error; err != nil {
		log.Warn().Err(err).Str("job", jobName).Msg("[CRON] failed to record job start")
	}
	return cronLog
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(entry *model.CronJobLog, message string) {
	log.Info().Str("job", entry.JobName).Str("result", message).Msg("[CRON] completed job")
	metrics.CronJobRuns.WithLabelValues(entry.JobName, string(model.CronJobCompleted)).Inc()

	m.finish(entry, map[string]interface{}{
		"status":  model.CronJobCompleted,
		"message": message,
	})
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(entry *model.CronJobLog, err error) {
	log.Error().Err(err).Str("job", entry.JobName).Msg("[CRON] job failed")
	metrics.CronJobRuns.WithLabelValues(entry.JobName, string(model.CronJobFailed)).Inc()

	m.finish(entry, map[string]interface{}{
		"status":    model.CronJobFailed,
		"error_msg": err.Error(),
	})
}

func (m *CronManager) finish(entry *model.CronJobLog, updates map[string]interface{}) {
	if entry.ID == 0 {
		return
	}

	now := time.Now()
	updates["completed_at"] = now
	updates["duration"] = now.Sub(entry.StartedAt).Milliseconds()

	if err := m.db.Model(&model.CronJobLog{}).Where("id = ?", entry.ID).Updates(updates).Error; err != nil {
		log.Warn().Err(err).Str("job", entry.JobName).Msg("[CRON] failed to record job result")
	}
}
