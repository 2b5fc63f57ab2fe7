package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/core"
	"github.com/MOOQU/CF-License-Server/internal/models"
	"github.com/MOOQU/CF-License-Server/internal/store"

	"github.com/google/uuid"
)

// TrialUsernameFormat names trial records after their sequence number
const TrialUsernameFormat = "trial-%06d"

// TrialResult is the outcome of request_trial and check_trial
type TrialResult struct {
	Status    string
	Remaining int64
	Username  string
	// Created is set when this call issued the trial
	Created bool
}

// TrialService issues time-limited grants keyed by device id
type TrialService struct {
	store    core.DeviceStore
	config   *config.Config
	sessions *SessionService
	audit    *AuditService
	metrics  core.Recorder
}

func NewTrialService(
	s core.DeviceStore,
	cfg *config.Config,
	sessions *SessionService,
	audit *AuditService,
	m core.Recorder,
) *TrialService {
	return &TrialService{
		store:    s,
		config:   cfg,
		sessions: sessions,
		audit:    audit,
		metrics:  m,
	}
}

// RequestTrial issues a trial for deviceID on first contact and opens its
// session. Later calls report the existing grant: banned and licensed
// records are reported as such, an expired trial is reported without any
// write, and an active trial is treated as a liveness call.
func (s *TrialService) RequestTrial(ctx context.Context, deviceID string) (*TrialResult, error) {
	result, err := s.requestTrial(ctx, deviceID)
	if err != nil {
		s.metrics.RecordTrialRequest("error")
		return nil, err
	}
	s.metrics.RecordTrialRequest(result.Status)
	return result, nil
}

func (s *TrialService) requestTrial(ctx context.Context, deviceID string) (*TrialResult, error) {
	if deviceID == "" {
		return nil, ErrInvalidInput
	}

	for range maxAttempts {
		result, err := s.requestAttempt(ctx, deviceID)
		if !errors.Is(err, store.ErrConcurrentUpdate) {
			return result, err
		}
		s.metrics.RecordAccrualConflict("request_trial")
	}
	return nil, fmt.Errorf(
		"%w: request_trial: gave up after %d conflicting updates",
		ErrTransient,
		maxAttempts,
	)
}

// requestAttempt runs one read-decide-write round. It returns
// store.ErrConcurrentUpdate when another writer got there first.
func (s *TrialService) requestAttempt(ctx context.Context, deviceID string) (*TrialResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	rec, err := s.store.GetDevice(ctx, deviceID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return s.issue(ctx, deviceID)
	}
	if err != nil {
		return nil, storeError("get device", err)
	}

	now := s.sessions.now()
	result := &TrialResult{Username: rec.Username}

	switch {
	case rec.Banned:
		result.Status = StatusBanned
	case rec.IsLicensed():
		result.Status = StatusLicensed
	case rec.IsTrialExpired(now, s.sessions.trialLimit()):
		result.Status = StatusExpired
	default:
		if err := s.sessions.continueSession(ctx, rec, now, false, ""); err != nil {
			return nil, err
		}
		result.Status = StatusActive
		result.Remaining = rec.TrialRemaining(now, s.sessions.trialLimit())
	}
	return result, nil
}

// issue creates a trial record with an open session. Losing the device id
// race to another creator, or drawing a username already taken, is
// reported as store.ErrConcurrentUpdate so the caller re-reads.
func (s *TrialService) issue(ctx context.Context, deviceID string) (*TrialResult, error) {
	seq, err := s.store.NextSequence(ctx, models.CounterTrial)
	if err != nil {
		return nil, storeError("next trial sequence", err)
	}

	now := s.sessions.now()
	hwid := deviceID
	device := &models.Device{
		ID:               uuid.New().String(),
		DeviceID:         &hwid,
		Username:         fmt.Sprintf(TrialUsernameFormat, seq),
		Kind:             models.KindTrial,
		SessionStartedAt: &now,
		OpenedAt:         &now,
		LastSeenAt:       now,
		TrialSequence:    seq,
		CreatedAt:        now,
		TrialStartedAt:   &now,
	}

	if err := s.store.CreateDevice(ctx, device); err != nil {
		if errors.Is(err, store.ErrDeviceConflict) || errors.Is(err, store.ErrUsernameConflict) {
			return nil, store.ErrConcurrentUpdate
		}
		return nil, storeError("create trial", err)
	}

	s.metrics.RecordSessionStarted(string(models.KindTrial))
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventTrialIssued,
		Severity:     models.SeverityInfo,
		ResourceType: models.ResourceTrial,
		ResourceID:   device.ID,
		ResourceName: device.Username,
		Action:       "Trial issued",
		Details:      models.AuditDetails{"hwid": deviceID},
		Success:      true,
	})

	return &TrialResult{
		Status:    StatusActive,
		Remaining: s.sessions.trialLimit(),
		Username:  device.Username,
		Created:   true,
	}, nil
}

// CheckTrial reports the grant state of deviceID. Only an active trial is
// written to, and only its last_seen_at.
func (s *TrialService) CheckTrial(ctx context.Context, deviceID string) (*TrialResult, error) {
	if deviceID == "" {
		return nil, ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	rec, err := s.store.GetDevice(ctx, deviceID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return &TrialResult{Status: StatusNoUser}, nil
	}
	if err != nil {
		return nil, storeError("get device", err)
	}

	now := s.sessions.now()
	result := &TrialResult{Username: rec.Username}

	switch {
	case rec.Banned:
		result.Status = StatusBanned
	case rec.IsLicensed():
		result.Status = StatusLicensed
	case rec.IsTrialExpired(now, s.sessions.trialLimit()):
		result.Status = StatusExpired
	default:
		err := s.store.TouchDevice(ctx, rec.ID, now, false, "")
		if errors.Is(err, store.ErrRecordNotFound) {
			return &TrialResult{Status: StatusNoUser}, nil
		}
		if err != nil {
			return nil, storeError("touch device", err)
		}
		result.Status = StatusActive
		result.Remaining = rec.TrialRemaining(now, s.sessions.trialLimit())
	}
	return result, nil
}
