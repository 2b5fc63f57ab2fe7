package store

import (
	"context"

	"github.com/MOOQU/CF-License-Server/internal/models"
)

// Aggregate counts used by the metrics gauge job

func (s *Store) CountDevicesByKind(ctx context.Context, kind string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Device{}).
		Where("account_kind = ?", kind).
		Count(&count).Error
	return count, err
}

// CountOnlineDevices counts records seen at or after since
func (s *Store) CountOnlineDevices(ctx context.Context, since int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Device{}).
		Where("last_seen_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (s *Store) CountOpenSessions(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Device{}).
		Where("session_started_at IS NOT NULL").
		Count(&count).Error
	return count, err
}
