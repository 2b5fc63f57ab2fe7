package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/core"
	"github.com/MOOQU/CF-License-Server/internal/models"
	"github.com/MOOQU/CF-License-Server/internal/store"

	"github.com/coder/quartz"
)

// HeartbeatResult is the outcome of a liveness call
type HeartbeatResult struct {
	Status    string
	Kind      models.AccountKind
	Remaining *int64 // trials only
	LastSeen  int64
}

// StartResult is the outcome of a start_session call
type StartResult struct {
	Status    string
	StartedAt int64
}

// StopResult is the outcome of a stop_session call
type StopResult struct {
	Status      string
	Accumulated int64
	Elapsed     int64 // seconds folded in by this call
}

// stepOptions selects what one accrual step does besides folding time
type stepOptions struct {
	close     bool
	heartbeat bool
	version   string
}

// stepOutcome reports what one accrual step changed
type stepOutcome struct {
	elapsed int64
	closed  bool
}

// SessionService owns the usage accrual rules: it opens, rolls forward and
// closes per-device sessions. Each mutation is a single conditional update
// that is re-read and retried when it loses to a concurrent writer.
type SessionService struct {
	store   core.DeviceStore
	config  *config.Config
	clock   quartz.Clock
	metrics core.Recorder
}

func NewSessionService(
	s core.DeviceStore,
	cfg *config.Config,
	clock quartz.Clock,
	m core.Recorder,
) *SessionService {
	return &SessionService{store: s, config: cfg, clock: clock, metrics: m}
}

// now returns the current time in unix seconds
func (s *SessionService) now() int64 {
	return s.clock.Now().Unix()
}

// trialLimit returns the trial budget in seconds
func (s *SessionService) trialLimit() int64 {
	return int64(s.config.TrialDuration / time.Second)
}

// historyCutoff returns the oldest end time a history entry may have at now
func (s *SessionService) historyCutoff(now int64) int64 {
	return now - int64(s.config.HistoryRetention()/time.Second)
}

// loader fetches the record an operation works on
type loader func(ctx context.Context) (*models.Device, error)

// withRetry loads a record and runs fn against it, each attempt under the
// store timeout. When fn loses a conditional update the record is re-read
// and fn runs again, up to maxAttempts times.
func withRetry(
	ctx context.Context,
	timeout time.Duration,
	m core.Recorder,
	op string,
	load loader,
	fn func(ctx context.Context, rec *models.Device) error,
) error {
	for range maxAttempts {
		err := attempt(ctx, timeout, load, fn)
		if !errors.Is(err, store.ErrConcurrentUpdate) {
			return err
		}
		m.RecordAccrualConflict(op)
	}
	return fmt.Errorf("%w: %s: gave up after %d conflicting updates", ErrTransient, op, maxAttempts)
}

func attempt(
	ctx context.Context,
	timeout time.Duration,
	load loader,
	fn func(ctx context.Context, rec *models.Device) error,
) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rec, err := load(ctx)
	if err != nil {
		return storeError("load device", err)
	}
	return fn(ctx, rec)
}

// withDevice runs fn against the record bound to deviceID with retries
func (s *SessionService) withDevice(
	ctx context.Context,
	op, deviceID string,
	fn func(ctx context.Context, rec *models.Device) error,
) error {
	if deviceID == "" {
		return ErrInvalidInput
	}
	load := func(ctx context.Context) (*models.Device, error) {
		return s.store.GetDevice(ctx, deviceID)
	}
	return withRetry(ctx, s.config.StoreTimeout, s.metrics, op, load, fn)
}

// step is the shared accrual step. With no open session a close only
// stamps closed_at and a continue only records liveness. With an open
// session the elapsed time is banked and the session either rolls forward
// to now or closes with a history entry, in one conditional update.
// store.ErrConcurrentUpdate is returned untouched so callers can retry.
func (s *SessionService) step(
	ctx context.Context,
	rec *models.Device,
	now int64,
	opts stepOptions,
) (stepOutcome, error) {
	if !rec.IsSessionOpen() {
		var err error
		if opts.close {
			err = s.store.CloseIdleSession(ctx, rec.ID, now)
		} else {
			err = s.store.TouchDevice(ctx, rec.ID, now, opts.heartbeat, opts.version)
		}
		return stepOutcome{}, passConflict("record liveness", err)
	}

	started := *rec.SessionStartedAt
	adv := models.SessionAdvance{
		StartedAt:     started,
		Now:           now,
		Elapsed:       rec.SessionElapsed(now),
		Close:         opts.close,
		Heartbeat:     opts.heartbeat,
		ClientVersion: opts.version,
	}
	if opts.close {
		adv.HistoryRevision = rec.HistoryRevision
		adv.History = rec.SessionHistory.Append(
			models.SessionEntry{Start: started, End: now},
			s.config.SessionHistoryCap,
			s.historyCutoff(now),
		)
	}

	if err := s.store.AdvanceSession(ctx, rec.ID, adv); err != nil {
		return stepOutcome{}, passConflict("advance session", err)
	}

	kind := string(rec.Kind)
	s.metrics.RecordUsageAccrued(kind, adv.Elapsed)
	if opts.close {
		s.metrics.RecordSessionStopped(kind, time.Duration(adv.Elapsed)*time.Second)
	}
	return stepOutcome{elapsed: adv.Elapsed, closed: opts.close}, nil
}

// passConflict keeps ErrConcurrentUpdate retryable and maps everything else
func passConflict(op string, err error) error {
	if err == nil || errors.Is(err, store.ErrConcurrentUpdate) {
		return err
	}
	return storeError(op, err)
}

// continueSession records liveness for rec and, if a session is open,
// rolls it forward to now.
func (s *SessionService) continueSession(
	ctx context.Context,
	rec *models.Device,
	now int64,
	heartbeat bool,
	version string,
) error {
	_, err := s.step(ctx, rec, now, stepOptions{heartbeat: heartbeat, version: version})
	return err
}

// Heartbeat records liveness for deviceID and banks the time of an open
// session. Trials report remaining budget; an expired trial still banks
// usage so the record stays accurate.
func (s *SessionService) Heartbeat(
	ctx context.Context,
	deviceID, version string,
) (*HeartbeatResult, error) {
	var result *HeartbeatResult

	err := s.withDevice(ctx, "heartbeat", deviceID, func(ctx context.Context, rec *models.Device) error {
		if rec.Banned {
			return ErrBanned
		}

		now := s.now()
		if err := s.continueSession(ctx, rec, now, true, version); err != nil {
			return err
		}

		result = &HeartbeatResult{Status: StatusOK, Kind: rec.Kind, LastSeen: now}
		if rec.IsTrial() {
			remaining := rec.TrialRemaining(now, s.trialLimit())
			result.Remaining = &remaining
			result.Status = StatusActive
			if remaining <= 0 {
				result.Status = StatusExpired
			}
		}
		return nil
	})

	s.metrics.RecordHeartbeat(heartbeatStatus(result, err))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func heartbeatStatus(result *HeartbeatResult, err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return StatusNoUser
	case errors.Is(err, ErrBanned):
		return StatusBanned
	case err != nil:
		return "error"
	default:
		return result.Status
	}
}

// StartSession opens a usage session. Starting an already open session
// republishes opened_at and clears closed_at but never resets the clock.
func (s *SessionService) StartSession(ctx context.Context, deviceID string) (*StartResult, error) {
	var result *StartResult

	err := s.withDevice(ctx, "start_session", deviceID, func(ctx context.Context, rec *models.Device) error {
		if rec.Banned {
			return ErrBanned
		}

		now := s.now()
		started, err := s.store.OpenSession(ctx, rec.ID, now)
		if err != nil {
			return passConflict("open session", err)
		}

		if !started {
			result = &StartResult{Status: StatusAlreadyRunning}
			if rec.SessionStartedAt != nil {
				result.StartedAt = *rec.SessionStartedAt
			}
			return nil
		}

		s.metrics.RecordSessionStarted(string(rec.Kind))
		result = &StartResult{Status: StatusStarted, StartedAt: now}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// StopSession closes the open session, banking its time and appending it
// to the history. Stopping a closed session only stamps closed_at.
func (s *SessionService) StopSession(ctx context.Context, deviceID string) (*StopResult, error) {
	var result *StopResult

	err := s.withDevice(ctx, "stop_session", deviceID, func(ctx context.Context, rec *models.Device) error {
		out, err := s.step(ctx, rec, s.now(), stepOptions{close: true})
		if err != nil {
			return err
		}
		result = &StopResult{
			Status:      StatusStopped,
			Accumulated: rec.AccumulatedUsage + out.elapsed,
			Elapsed:     out.elapsed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
