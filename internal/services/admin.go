package services

import (
	"context"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/core"
	"github.com/MOOQU/CF-License-Server/internal/models"
)

// DeviceView is the admin projection of one record. Every derived field
// is computed at read time and never written back.
type DeviceView struct {
	ID                 string             `json:"id"`
	Username           string             `json:"username"`
	HWID               string             `json:"hwid"`
	Kind               models.AccountKind `json:"account_kind"`
	Status             string             `json:"status"`
	Banned             bool               `json:"banned"`
	Online             bool               `json:"online"`
	SessionOpen        bool               `json:"session_open"`
	AccumulatedUsage   int64              `json:"accumulated_usage_seconds"`
	LiveUsage          int64              `json:"live_usage_seconds"`
	Remaining          *int64             `json:"remaining,omitempty"`
	LastSeenAt         int64              `json:"last_seen_at"`
	LastHeartbeatAt    int64              `json:"last_heartbeat_at"`
	OpenedAt           *int64             `json:"opened_at,omitempty"`
	ClosedAt           *int64             `json:"closed_at,omitempty"`
	ClientVersion      string             `json:"client_version,omitempty"`
	CreatedAt          int64              `json:"created_at"`
	LicenseActivatedAt *int64             `json:"license_activated_at,omitempty"`
	TrialStartedAt     *int64             `json:"trial_started_at,omitempty"`
	HistoryEntries     int                `json:"history_entries"`
}

// HistoryEntry is one closed session as shown to admins
type HistoryEntry struct {
	Start  int64 `json:"start"`
	End    int64 `json:"end"`
	Length int64 `json:"length"`
}

// AdminService serves the read-only device projection and the history
// maintenance operations.
type AdminService struct {
	store    core.DeviceStore
	config   *config.Config
	sessions *SessionService
	sweeper  *HistorySweeper
	audit    *AuditService
}

func NewAdminService(
	s core.DeviceStore,
	cfg *config.Config,
	sessions *SessionService,
	sweeper *HistorySweeper,
	audit *AuditService,
) *AdminService {
	return &AdminService{
		store:    s,
		config:   cfg,
		sessions: sessions,
		sweeper:  sweeper,
		audit:    audit,
	}
}

// ListDevices projects every record at the current time
func (s *AdminService) ListDevices(ctx context.Context) ([]DeviceView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	devices, err := s.store.ListDevices(ctx)
	if err != nil {
		return nil, storeError("list devices", err)
	}

	now := s.sessions.now()
	threshold := int64(s.config.OnlineThreshold / time.Second)
	limit := s.sessions.trialLimit()

	views := make([]DeviceView, 0, len(devices))
	for i := range devices {
		views = append(views, ProjectDevice(&devices[i], now, threshold, limit))
	}
	return views, nil
}

// ProjectDevice derives the admin view of d at now
func ProjectDevice(d *models.Device, now, onlineThreshold, trialLimit int64) DeviceView {
	view := DeviceView{
		ID:                 d.ID,
		Username:           d.Username,
		HWID:               d.HWID(),
		Kind:               d.Kind,
		Banned:             d.Banned,
		Online:             d.IsOnline(now, onlineThreshold),
		SessionOpen:        d.IsSessionOpen(),
		AccumulatedUsage:   d.AccumulatedUsage,
		LiveUsage:          d.LiveUsage(now),
		LastSeenAt:         d.LastSeenAt,
		LastHeartbeatAt:    d.LastHeartbeatAt,
		OpenedAt:           d.OpenedAt,
		ClosedAt:           d.ClosedAt,
		ClientVersion:      d.ClientVersion,
		CreatedAt:          d.CreatedAt,
		LicenseActivatedAt: d.LicenseActivatedAt,
		TrialStartedAt:     d.TrialStartedAt,
		HistoryEntries:     len(d.SessionHistory),
	}

	switch {
	case d.IsTrial():
		remaining := d.TrialRemaining(now, trialLimit)
		view.Remaining = &remaining
		view.Status = StatusActive
		if remaining <= 0 {
			view.Status = StatusExpired
		}
	case d.IsBound():
		view.Status = StatusLicensed
	default:
		view.Status = StatusUnbound
	}
	if d.Banned {
		view.Status = StatusBanned
	}
	return view
}

// SessionHistory returns the closed sessions of username that ended within
// the last days days. days <= 0 returns the full history.
func (s *AdminService) SessionHistory(
	ctx context.Context,
	username string,
	days int,
) ([]HistoryEntry, error) {
	if username == "" {
		return nil, ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	rec, err := s.store.GetDeviceByUsername(ctx, username)
	if err != nil {
		return nil, storeError("get device", err)
	}

	history := rec.SessionHistory
	if days > 0 {
		cutoff := s.sessions.clock.Now().Add(-config.DaysWindow(days)).Unix()
		history = history.Since(cutoff)
	}

	entries := make([]HistoryEntry, 0, len(history))
	for _, e := range history {
		entries = append(entries, HistoryEntry{Start: e.Start, End: e.End, Length: e.Length()})
	}
	return entries, nil
}

// ClearUserLogs empties the session history of username
func (s *AdminService) ClearUserLogs(ctx context.Context, username string) error {
	if username == "" {
		return ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	rec, err := s.store.GetDeviceByUsername(ctx, username)
	if err != nil {
		return storeError("get device", err)
	}
	if err := s.store.ClearHistory(ctx, rec.ID); err != nil {
		return storeError("clear history", err)
	}

	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventSessionHistoryCleared,
		Severity:     models.SeverityInfo,
		ResourceType: models.ResourceDevice,
		ResourceID:   rec.ID,
		ResourceName: rec.Username,
		Action:       "Session history cleared",
		Success:      true,
	})
	return nil
}

// ClearAllLogs empties every session history and returns the number of records touched
func (s *AdminService) ClearAllLogs(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	cleared, err := s.store.ClearAllHistory(ctx)
	if err != nil {
		return 0, storeError("clear all history", err)
	}

	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventSessionHistoryCleared,
		Severity:     models.SeverityWarning,
		ResourceType: models.ResourceDevice,
		Action:       "All session histories cleared",
		Details:      models.AuditDetails{"records": cleared},
		Success:      true,
	})
	return cleared, nil
}

// ClearLogsOlderThan drops history entries that ended more than days days
// ago, using the same conditional writes as the retention sweeper.
func (s *AdminService) ClearLogsOlderThan(ctx context.Context, days int) (SweepResult, error) {
	if days <= 0 {
		return SweepResult{}, ErrInvalidInput
	}

	result, err := s.sweeper.SweepOlderThan(ctx, config.DaysWindow(days))
	if err != nil {
		return result, err
	}

	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventSessionHistoryCleared,
		Severity:     models.SeverityInfo,
		ResourceType: models.ResourceDevice,
		Action:       "Session history pruned by age",
		Details: models.AuditDetails{
			"days":            days,
			"records_pruned":  result.Pruned,
			"entries_removed": result.EntriesRemoved,
		},
		Success: true,
	})
	return result, nil
}
