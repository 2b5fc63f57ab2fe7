package store

import (
	"context"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/models"

	"gorm.io/gorm"
)

// Audit log operations

func (s *Store) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(log).Error
}

// CreateAuditLogBatch inserts logs in batches of 100
func (s *Store) CreateAuditLogBatch(ctx context.Context, logs []*models.AuditLog) error {
	if len(logs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(logs, 100).Error
}

// GetAuditLogsPaginated returns one page of audit logs, newest first
func (s *Store) GetAuditLogsPaginated(
	ctx context.Context,
	params PaginationParams,
	filters AuditLogFilters,
) ([]models.AuditLog, PaginationResult, error) {
	query := applyAuditFilters(s.db.WithContext(ctx).Model(&models.AuditLog{}), filters).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, PaginationResult{}, err
	}

	var logs []models.AuditLog
	if err := query.Order("event_time DESC").
		Offset(params.offset()).
		Limit(params.PageSize).
		Find(&logs).Error; err != nil {
		return nil, PaginationResult{}, err
	}

	return logs, CalculatePagination(total, params.Page, params.PageSize), nil
}

// DeleteOldAuditLogs removes logs created before cutoff and returns how many were deleted
func (s *Store) DeleteOldAuditLogs(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}

// GetAuditLogStats aggregates logs recorded between startTime and endTime.
// Zero times leave that side of the range open.
func (s *Store) GetAuditLogStats(
	ctx context.Context,
	startTime, endTime time.Time,
) (AuditLogStats, error) {
	stats := AuditLogStats{
		EventsByType:     make(map[models.EventType]int64),
		EventsBySeverity: make(map[models.EventSeverity]int64),
	}

	base := func() *gorm.DB {
		return applyAuditFilters(
			s.db.WithContext(ctx).Model(&models.AuditLog{}),
			AuditLogFilters{StartTime: startTime, EndTime: endTime},
		)
	}

	if err := base().Count(&stats.TotalEvents).Error; err != nil {
		return stats, err
	}
	if err := base().Where("success = ?", true).Count(&stats.SuccessCount).Error; err != nil {
		return stats, err
	}
	stats.FailureCount = stats.TotalEvents - stats.SuccessCount

	var byType []struct {
		EventType models.EventType
		Count     int64
	}
	if err := base().Select("event_type, COUNT(*) AS count").
		Group("event_type").
		Scan(&byType).Error; err != nil {
		return stats, err
	}
	for _, row := range byType {
		stats.EventsByType[row.EventType] = row.Count
	}

	var bySeverity []struct {
		Severity models.EventSeverity
		Count    int64
	}
	if err := base().Select("severity, COUNT(*) AS count").
		Group("severity").
		Scan(&bySeverity).Error; err != nil {
		return stats, err
	}
	for _, row := range bySeverity {
		stats.EventsBySeverity[row.Severity] = row.Count
	}

	return stats, nil
}

func applyAuditFilters(query *gorm.DB, filters AuditLogFilters) *gorm.DB {
	if filters.EventType != "" {
		query = query.Where("event_type = ?", filters.EventType)
	}
	if filters.ResourceType != "" {
		query = query.Where("resource_type = ?", filters.ResourceType)
	}
	if filters.ResourceID != "" {
		query = query.Where("resource_id = ?", filters.ResourceID)
	}
	if filters.Severity != "" {
		query = query.Where("severity = ?", filters.Severity)
	}
	if filters.Success != nil {
		query = query.Where("success = ?", *filters.Success)
	}
	if !filters.StartTime.IsZero() {
		query = query.Where("event_time >= ?", filters.StartTime)
	}
	if !filters.EndTime.IsZero() {
		query = query.Where("event_time <= ?", filters.EndTime)
	}
	if filters.ActorIP != "" {
		query = query.Where("actor_ip = ?", filters.ActorIP)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("(action LIKE ? OR resource_name LIKE ?)", pattern, pattern)
	}
	return query
}
