package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sahilchouksey/dept-events/metrics"
	"github.com/sahilchouksey/dept-events/model"
	"gorm.io/gorm"
)

type counterDrift struct {
	ID                 uint
	RegistrationsCount int
	Actual             int
}

// ReconcileRegistrationCounts repairs events whose registrations_count no
// longer equals the number of their registration rows.
func (m *CronManager) ReconcileRegistrationCounts() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var drifted []counterDrift
	err := m.db.WithContext(ctx).
		Table("events").
		Select("events.id, events.registrations_count, COUNT(registrations.id) AS actual").
		Joins("LEFT JOIN registrations ON registrations.event_id = events.id").
		Group("events.id, events.registrations_count").
		Having("events.registrations_count <> COUNT(registrations.id)").
		Scan(&drifted).Error
	if err != nil {
		return "", fmt.Errorf("failed to scan registration counters: %w", err)
	}

	if len(drifted) == 0 {
		return "No counter drift", nil
	}

	fixed := 0
	for _, d := range drifted {
		corrected, err := m.reconcileEvent(ctx, d.ID)
		if err != nil {
			return "", fmt.Errorf("failed to reconcile event %d: %w", d.ID, err)
		}
		if corrected {
			fixed++
		}
	}

	return fmt.Sprintf("Reconciled %d of %d drifted events", fixed, len(drifted)), nil
}

// reconcileEvent recounts one event under its row lock. The no-op update takes
// the lock so no registration can commit between the count and the write.
func (m *CronManager) reconcileEvent(ctx context.Context, eventID uint) (bool, error) {
	corrected := false

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Event{}).
			Where("id = ?", eventID).
			UpdateColumn("registrations_count", gorm.Expr("registrations_count"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		var event model.Event
		if err := tx.Select("id", "registrations_count", "capacity").First(&event, eventID).Error; err != nil {
			return err
		}

		var actual int64
		if err := tx.Model(&model.Registration{}).Where("event_id = ?", eventID).Count(&actual).Error; err != nil {
			return err
		}

		if int64(event.RegistrationsCount) == actual {
			return nil
		}

		log.Warn().
			Uint("event_id", eventID).
			Int("registrations_count", event.RegistrationsCount).
			Int64("registrations", actual).
			Msg("[CRON] registration counter drift corrected")

		if err := tx.Model(&model.Event{}).
			Where("id = ?", eventID).
			UpdateColumn("registrations_count", actual).Error; err != nil {
			return err
		}

		corrected = true
		metrics.CounterCorrections.Inc()
		return nil
	})

	return corrected, err
}

// CleanupExpiredTokens removes blacklist entries whose tokens have expired
func (m *CronManager) CleanupExpiredTokens() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := m.blacklist.CleanupExpiredTokens(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to clean token blacklist: %w", err)
	}

	return fmt.Sprintf("Removed %d expired tokens", removed), nil
}

// PruneCronJobLogs deletes job logs older than the retention period
func (m *CronManager) PruneCronJobLogs() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-m.config.LogRetention)
	result := m.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.CronJobLog{})
	if result.Error != nil {
		return "", fmt.Errorf("failed to prune cron logs: %w", result.Error)
	}

	return fmt.Sprintf("Pruned %d cron logs", result.RowsAffected), nil
}
