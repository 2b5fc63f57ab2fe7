package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/store"
)

// initializeDatabase creates and initializes the database connection
func initializeDatabase(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DBInitTimeout)
	defer cancel()

	db, err := store.New(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Printf("Database initialized (driver: %s)", cfg.DatabaseDriver)
	return db, nil
}

// repairDatabase runs the idempotent repair pass over existing records
func repairDatabase(
	ctx context.Context,
	cfg *config.Config,
	db *store.Store,
) (store.RepairReport, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DBInitTimeout)
	defer cancel()

	report, err := db.Repair(ctx, cfg.SessionHistoryCap)
	if err != nil {
		return report, fmt.Errorf("failed to repair database: %w", err)
	}
	if report.Changed() {
		log.Printf(
			"Database repaired: %d empty ids cleared, %d histories trimmed, %d closed_at filled, counter raised to %d",
			report.EmptyIDsCleared,
			report.HistoriesTrimmed,
			report.ClosedAtFilled,
			report.CounterRaisedTo,
		)
	}
	return report, nil
}
