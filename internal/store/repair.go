package store

import (
	"context"
	"fmt"

	"github.com/MOOQU/CF-License-Server/internal/models"

	"gorm.io/gorm"
)

// RepairReport summarises what a repair pass changed
type RepairReport struct {
	Scanned          int   `json:"scanned"`
	EmptyIDsCleared  int   `json:"empty_ids_cleared"`
	HistoriesTrimmed int   `json:"histories_trimmed"`
	ClosedAtFilled   int   `json:"closed_at_filled"`
	CounterRaisedTo  int64 `json:"counter_raised_to,omitempty"`
}

// Changed reports whether the pass wrote anything
func (r RepairReport) Changed() bool {
	return r.EmptyIDsCleared > 0 || r.HistoriesTrimmed > 0 ||
		r.ClosedAtFilled > 0 || r.CounterRaisedTo > 0
}

// Repair brings records written by older builds in line with the current
// schema rules. It is idempotent: a second run reports no changes.
//   - empty device ids become NULL so the unique index only covers bound records
//   - histories longer than historyCap keep their most recent entries
//   - closed sessions that were opened but never stamped get closed_at = last_seen_at
//   - the trial counter is raised to the highest trial sequence in use
func (s *Store) Repair(ctx context.Context, historyCap int) (RepairReport, error) {
	var report RepairReport

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Device{}).
			Where("device_id = ?", "").
			Update("device_id", nil)
		if result.Error != nil {
			return fmt.Errorf("failed to clear empty device ids: %w", result.Error)
		}
		report.EmptyIDsCleared = int(result.RowsAffected)

		result = tx.Model(&models.Device{}).
			Where("session_started_at IS NULL AND opened_at IS NOT NULL AND closed_at IS NULL").
			Update("closed_at", gorm.Expr("last_seen_at"))
		if result.Error != nil {
			return fmt.Errorf("failed to fill closed_at: %w", result.Error)
		}
		report.ClosedAtFilled = int(result.RowsAffected)

		var devices []models.Device
		if err := tx.Select("id", "session_history", "history_revision", "trial_sequence").
			Find(&devices).Error; err != nil {
			return fmt.Errorf("failed to scan devices: %w", err)
		}
		report.Scanned = len(devices)

		var maxSequence int64
		for _, d := range devices {
			maxSequence = max(maxSequence, d.TrialSequence)
			if historyCap <= 0 || len(d.SessionHistory) <= historyCap {
				continue
			}
			trimmed := d.SessionHistory[len(d.SessionHistory)-historyCap:]
			if err := tx.Model(&models.Device{}).
				Where("id = ?", d.ID).
				Updates(map[string]any{
					"session_history":  trimmed,
					"history_revision": gorm.Expr("history_revision + 1"),
				}).Error; err != nil {
				return fmt.Errorf("failed to trim history of %s: %w", d.ID, err)
			}
			report.HistoriesTrimmed++
		}

		raised, err := ensureCounterAtLeast(tx, models.CounterTrial, maxSequence)
		if err != nil {
			return fmt.Errorf("failed to repair trial counter: %w", err)
		}
		if raised {
			report.CounterRaisedTo = maxSequence
		}
		return nil
	})

	return report, err
}
