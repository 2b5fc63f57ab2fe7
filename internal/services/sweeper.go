package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/core"
	"github.com/MOOQU/CF-License-Server/internal/models"

	"github.com/coder/quartz"
)

// SweepResult summarises one pass over all records
type SweepResult struct {
	Scanned        int           `json:"scanned"`
	Pruned         int           `json:"pruned"`
	EntriesRemoved int           `json:"entries_removed"`
	Failed         int           `json:"failed"`
	Duration       time.Duration `json:"duration"`
}

// HistorySweeper drops session history entries that ended outside the
// retention window and caps every history to the configured length.
// Writes compare on the history revision and never touch accrual fields.
type HistorySweeper struct {
	store   core.DeviceStore
	config  *config.Config
	clock   quartz.Clock
	metrics core.Recorder
}

func NewHistorySweeper(
	s core.DeviceStore,
	cfg *config.Config,
	clock quartz.Clock,
	m core.Recorder,
) *HistorySweeper {
	return &HistorySweeper{store: s, config: cfg, clock: clock, metrics: m}
}

// SweepOnce prunes every history against the configured retention window
func (h *HistorySweeper) SweepOnce(ctx context.Context) (SweepResult, error) {
	return h.SweepOlderThan(ctx, h.config.HistoryRetention())
}

// SweepOlderThan prunes entries that ended more than age ago
func (h *HistorySweeper) SweepOlderThan(
	ctx context.Context,
	age time.Duration,
) (result SweepResult, err error) {
	start := h.clock.Now()
	cutoff := start.Add(-age).Unix()

	defer func() {
		result.Duration = h.clock.Since(start)
		h.metrics.RecordHistorySweep(result.Scanned, result.Pruned, result.Duration)
	}()

	listCtx, cancel := context.WithTimeout(ctx, h.config.StoreTimeout)
	devices, listErr := h.store.ListDevices(listCtx)
	cancel()
	if listErr != nil {
		return result, storeError("list devices", listErr)
	}
	result.Scanned = len(devices)

	var firstErr error
	for i := range devices {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		removed, pruneErr := h.pruneRecord(ctx, &devices[i], cutoff)
		switch {
		case errors.Is(pruneErr, ErrNotFound):
			// deleted since the scan
		case pruneErr != nil:
			result.Failed++
			if firstErr == nil {
				firstErr = pruneErr
			}
		case removed > 0:
			result.Pruned++
			result.EntriesRemoved += removed
		}
	}

	if firstErr != nil {
		return result, fmt.Errorf("history sweep: %d of %d records failed: %w",
			result.Failed, result.Scanned, firstErr)
	}
	return result, nil
}

// pruneRecord rewrites one history if pruning changes it. The first
// attempt uses the scanned copy; a lost compare re-reads the record.
func (h *HistorySweeper) pruneRecord(
	ctx context.Context,
	scanned *models.Device,
	cutoff int64,
) (int, error) {
	removed := 0
	write := func(ctx context.Context, rec *models.Device) error {
		pruned := rec.SessionHistory.Prune(h.config.SessionHistoryCap, cutoff)
		if pruned.Equal(rec.SessionHistory) {
			removed = 0
			return nil
		}
		if err := h.store.ReplaceHistory(ctx, rec.ID, rec.HistoryRevision, pruned); err != nil {
			return passConflict("replace history", err)
		}
		removed = len(rec.SessionHistory) - len(pruned)
		return nil
	}

	first := true
	load := func(ctx context.Context) (*models.Device, error) {
		if first {
			first = false
			return scanned, nil
		}
		return h.store.GetDeviceByID(ctx, scanned.ID)
	}

	err := withRetry(ctx, h.config.StoreTimeout, h.metrics, "history_sweep", load, write)
	return removed, err
}

// Run sweeps once immediately and then on every HistorySweepInterval
// until ctx is cancelled. Failed passes are logged and retried on the
// next tick.
func (h *HistorySweeper) Run(ctx context.Context) error {
	sweep := func() error {
		result, err := h.SweepOnce(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("History sweep failed: %v", err)
			return nil
		}
		if result.Pruned > 0 {
			log.Printf("History sweep pruned %d entries from %d of %d records in %v",
				result.EntriesRemoved, result.Pruned, result.Scanned, result.Duration)
		}
		return nil
	}

	_ = sweep()

	err := h.clock.TickerFunc(ctx, h.config.HistorySweepInterval, sweep, "history", "sweep").Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
