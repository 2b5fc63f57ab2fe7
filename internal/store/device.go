package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MOOQU/CF-License-Server/internal/models"

	"gorm.io/gorm"
)

// Device lookups

func (s *Store) GetDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	var device models.Device
	if err := s.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&device).Error; err != nil {
		return nil, translate(err)
	}
	return &device, nil
}

func (s *Store) GetDeviceByID(ctx context.Context, id string) (*models.Device, error) {
	var device models.Device
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&device).Error; err != nil {
		return nil, translate(err)
	}
	return &device, nil
}

func (s *Store) GetDeviceByUsername(ctx context.Context, username string) (*models.Device, error) {
	var device models.Device
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&device).Error; err != nil {
		return nil, translate(err)
	}
	return &device, nil
}

// ListDevices scans every record ordered by creation time
func (s *Store) ListDevices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	if err := s.db.WithContext(ctx).Order("created_at ASC, username ASC").Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// CreateDevice inserts a new record. Unique violations are reported as
// ErrDeviceConflict or ErrUsernameConflict.
func (s *Store) CreateDevice(ctx context.Context, device *models.Device) error {
	if device.SessionHistory == nil {
		device.SessionHistory = models.SessionHistory{}
	}
	err := s.db.WithContext(ctx).Create(device).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return s.classifyConflict(ctx, device)
	}
	return err
}

// classifyConflict works out which unique key a failed insert collided on
func (s *Store) classifyConflict(ctx context.Context, device *models.Device) error {
	if device.DeviceID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Device{}).
			Where("device_id = ?", *device.DeviceID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDeviceConflict
		}
	}
	return ErrUsernameConflict
}

func (s *Store) DeleteDevice(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Device{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Session accounting

// TouchDevice records a liveness signal without changing session state
func (s *Store) TouchDevice(
	ctx context.Context,
	id string,
	now int64,
	heartbeat bool,
	version string,
) error {
	updates := map[string]any{"last_seen_at": now}
	if heartbeat {
		updates["last_heartbeat_at"] = now
	}
	if version != "" {
		updates["client_version"] = version
	}

	result := s.db.WithContext(ctx).Model(&models.Device{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// OpenSession starts a session if none is open and reports whether it did.
// When one is already open it only republishes opened_at and clears
// closed_at, leaving session_started_at untouched.
func (s *Store) OpenSession(ctx context.Context, id string, now int64) (bool, error) {
	db := s.db.WithContext(ctx)

	result := db.Model(&models.Device{}).
		Where("id = ? AND session_started_at IS NULL", id).
		Updates(map[string]any{
			"session_started_at": now,
			"opened_at":          now,
			"closed_at":          nil,
			"last_seen_at":       now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	result = db.Model(&models.Device{}).
		Where("id = ? AND session_started_at IS NOT NULL", id).
		Updates(map[string]any{
			"opened_at":    now,
			"closed_at":    nil,
			"last_seen_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return false, nil
	}

	return false, s.missedUpdate(ctx, id)
}

// AdvanceSession folds the elapsed time of the open session into banked
// usage and either rolls the session forward or closes it, in one statement.
func (s *Store) AdvanceSession(ctx context.Context, id string, adv models.SessionAdvance) error {
	updates := map[string]any{
		"accumulated_usage_seconds": gorm.Expr("accumulated_usage_seconds + ?", adv.Elapsed),
		"last_seen_at":              adv.Now,
	}
	if adv.Heartbeat {
		updates["last_heartbeat_at"] = adv.Now
		if adv.ClientVersion != "" {
			updates["client_version"] = adv.ClientVersion
		}
	}

	query := s.db.WithContext(ctx).Model(&models.Device{}).
		Where("id = ? AND session_started_at = ?", id, adv.StartedAt)

	if adv.Close {
		history := adv.History
		if history == nil {
			history = models.SessionHistory{}
		}
		updates["session_started_at"] = nil
		updates["closed_at"] = adv.Now
		updates["session_history"] = history
		updates["history_revision"] = gorm.Expr("history_revision + 1")
		query = query.Where("history_revision = ?", adv.HistoryRevision)
	} else {
		updates["session_started_at"] = adv.Now
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}
	return s.missedUpdate(ctx, id)
}

// CloseIdleSession stamps closed_at on a record whose session is already closed
func (s *Store) CloseIdleSession(ctx context.Context, id string, now int64) error {
	result := s.db.WithContext(ctx).Model(&models.Device{}).
		Where("id = ? AND session_started_at IS NULL", id).
		Updates(map[string]any{
			"closed_at":    now,
			"last_seen_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}
	return s.missedUpdate(ctx, id)
}

// Binding and moderation

// BindDevice attaches deviceID to the unbound licensed record id and opens
// a session. A trial record holding the same device id is deleted in the
// same transaction; the returned bool reports whether that happened.
func (s *Store) BindDevice(ctx context.Context, id, deviceID string, now int64) (bool, error) {
	converted := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holder models.Device
		err := tx.Where("device_id = ?", deviceID).First(&holder).Error
		switch {
		case err == nil:
			if holder.ID == id {
				return ErrConcurrentUpdate
			}
			if holder.Kind != models.KindTrial {
				return ErrDeviceConflict
			}
			if err := tx.Where("id = ?", holder.ID).Delete(&models.Device{}).Error; err != nil {
				return fmt.Errorf("failed to delete trial record: %w", err)
			}
			converted = true
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		result := tx.Model(&models.Device{}).
			Where("id = ? AND (device_id IS NULL OR device_id = '')", id).
			Updates(map[string]any{
				"device_id":            deviceID,
				"license_activated_at": gorm.Expr("COALESCE(license_activated_at, ?)", now),
				"session_started_at":   now,
				"opened_at":            now,
				"closed_at":            nil,
				"last_seen_at":         now,
			})
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return ErrDeviceConflict
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Device{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrRecordNotFound
			}
			return ErrConcurrentUpdate
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return converted, nil
}

func (s *Store) SetBanned(ctx context.Context, id string, banned bool) error {
	result := s.db.WithContext(ctx).Model(&models.Device{}).
		Where("id = ?", id).
		Update("banned", banned)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// History maintenance

// ReplaceHistory writes history only if the stored revision still equals
// revision. It never touches the accrual fields.
func (s *Store) ReplaceHistory(
	ctx context.Context,
	id string,
	revision int64,
	history models.SessionHistory,
) error {
	if history == nil {
		history = models.SessionHistory{}
	}
	result := s.db.WithContext(ctx).Model(&models.Device{}).
		Where("id = ? AND history_revision = ?", id, revision).
		Updates(map[string]any{
			"session_history":  history,
			"history_revision": gorm.Expr("history_revision + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}
	return s.missedUpdate(ctx, id)
}

func (s *Store) ClearHistory(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Model(&models.Device{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"session_history":  models.SessionHistory{},
			"history_revision": gorm.Expr("history_revision + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ClearAllHistory empties every record's history and returns the number of records touched
func (s *Store) ClearAllHistory(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Model(&models.Device{}).
		Updates(map[string]any{
			"session_history":  models.SessionHistory{},
			"history_revision": gorm.Expr("history_revision + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// missedUpdate explains why a conditional update matched no row
func (s *Store) missedUpdate(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Device{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrRecordNotFound
	}
	return ErrConcurrentUpdate
}
