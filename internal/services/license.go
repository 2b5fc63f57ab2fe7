package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/core"
	"github.com/MOOQU/CF-License-Server/internal/models"
	"github.com/MOOQU/CF-License-Server/internal/store"
	"github.com/MOOQU/CF-License-Server/internal/util"

	"github.com/google/uuid"
)

// LicenseResult is the outcome of a successful license check
type LicenseResult struct {
	Status   string
	Username string
	// Bound is set when this call attached the device id
	Bound bool
	// ConvertedTrial is set when binding replaced a trial record for the same device
	ConvertedTrial bool
}

// GeneratedLicense carries a freshly issued secret. The plaintext is never stored.
type GeneratedLicense struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	License  string `json:"license"`
}

// LicenseService validates licensed grants and binds them to a device
type LicenseService struct {
	store    core.DeviceStore
	config   *config.Config
	sessions *SessionService
	audit    *AuditService
	metrics  core.Recorder
}

func NewLicenseService(
	s core.DeviceStore,
	cfg *config.Config,
	sessions *SessionService,
	audit *AuditService,
	m core.Recorder,
) *LicenseService {
	return &LicenseService{
		store:    s,
		config:   cfg,
		sessions: sessions,
		audit:    audit,
		metrics:  m,
	}
}

// CheckLicense validates username and secret for deviceID. An unbound
// license is bound to deviceID on first use, replacing any trial record
// for that device. A license bound elsewhere yields ErrDeviceMismatch and
// the stored binding is left alone. A license bound to deviceID counts as
// a liveness call and rolls an open session forward.
func (s *LicenseService) CheckLicense(
	ctx context.Context,
	username, secret, deviceID string,
) (*LicenseResult, error) {
	result, err := s.checkLicense(ctx, username, secret, deviceID)
	s.metrics.RecordLicenseCheck(licenseStatus(err))
	return result, err
}

func (s *LicenseService) checkLicense(
	ctx context.Context,
	username, secret, deviceID string,
) (*LicenseResult, error) {
	if username == "" || secret == "" || deviceID == "" {
		return nil, ErrInvalidCredential
	}

	load := func(ctx context.Context) (*models.Device, error) {
		return s.store.GetDeviceByUsername(ctx, username)
	}

	var result *LicenseResult
	verified := false

	err := withRetry(ctx, s.config.StoreTimeout, s.metrics, "check_license", load,
		func(ctx context.Context, rec *models.Device) error {
			if !rec.IsLicensed() {
				return ErrInvalidCredential
			}
			if !verified {
				if !util.VerifyLicenseKey(rec.LicenseSecretHash, secret) {
					return ErrInvalidCredential
				}
				verified = true
			}
			if rec.Banned {
				return ErrBanned
			}

			now := s.sessions.now()
			switch {
			case !rec.IsBound():
				converted, err := s.store.BindDevice(ctx, rec.ID, deviceID, now)
				if err != nil {
					if errors.Is(err, store.ErrDeviceConflict) {
						s.logMismatch(ctx, rec, deviceID, "device id held by another license")
						return ErrDeviceMismatch
					}
					return passConflict("bind device", err)
				}
				s.recordBinding(ctx, rec, deviceID, converted)
				result = &LicenseResult{Bound: true, ConvertedTrial: converted}

			case rec.HWID() != deviceID:
				s.logMismatch(ctx, rec, deviceID, "license bound to another device")
				return ErrDeviceMismatch

			default:
				if err := s.sessions.continueSession(ctx, rec, now, false, ""); err != nil {
					return err
				}
				result = &LicenseResult{}
			}

			result.Status = StatusValid
			result.Username = rec.Username
			return nil
		})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredential
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func licenseStatus(err error) string {
	switch {
	case err == nil:
		return StatusValid
	case errors.Is(err, ErrInvalidCredential):
		return StatusInvalid
	case errors.Is(err, ErrBanned):
		return StatusBanned
	case errors.Is(err, ErrDeviceMismatch):
		return StatusDeviceMismatch
	default:
		return "error"
	}
}

func (s *LicenseService) recordBinding(
	ctx context.Context,
	rec *models.Device,
	deviceID string,
	converted bool,
) {
	s.metrics.RecordDeviceBound(converted)
	s.metrics.RecordSessionStarted(string(rec.Kind))

	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventDeviceBound,
		Severity:     models.SeverityInfo,
		ResourceType: models.ResourceLicense,
		ResourceID:   rec.ID,
		ResourceName: rec.Username,
		Action:       "License bound to device",
		Details:      models.AuditDetails{"hwid": deviceID},
		Success:      true,
	})
	if converted {
		s.audit.Log(ctx, AuditLogEntry{
			EventType:    models.EventTrialConverted,
			Severity:     models.SeverityInfo,
			ResourceType: models.ResourceTrial,
			ResourceID:   deviceID,
			ResourceName: rec.Username,
			Action:       "Trial replaced by license",
			Details:      models.AuditDetails{"hwid": deviceID},
			Success:      true,
		})
	}
}

func (s *LicenseService) logMismatch(
	ctx context.Context,
	rec *models.Device,
	deviceID, reason string,
) {
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventDeviceMismatch,
		Severity:     models.SeverityWarning,
		ResourceType: models.ResourceLicense,
		ResourceID:   rec.ID,
		ResourceName: rec.Username,
		Action:       "License check from unexpected device",
		Details:      models.AuditDetails{"hwid": deviceID, "reason": reason},
		Success:      false,
	})
}

// GenerateLicense creates an unbound licensed record for username and
// returns its secret. The plaintext is only available here.
func (s *LicenseService) GenerateLicense(
	ctx context.Context,
	username string,
) (*GeneratedLicense, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > 100 {
		return nil, ErrInvalidInput
	}

	plain, hash, err := util.GenerateLicenseKey()
	if err != nil {
		return nil, err
	}

	device := &models.Device{
		ID:                uuid.New().String(),
		Username:          username,
		Kind:              models.KindLicensed,
		LicenseSecretHash: hash,
		CreatedAt:         s.sessions.now(),
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	if err := s.store.CreateDevice(ctx, device); err != nil {
		if errors.Is(err, store.ErrUsernameConflict) {
			return nil, ErrAlreadyExists
		}
		return nil, storeError("create license", err)
	}

	// Issued secrets are logged synchronously so the trail never misses one
	if err := s.audit.LogSync(ctx, AuditLogEntry{
		EventType:    models.EventLicenseGenerated,
		Severity:     models.SeverityInfo,
		ResourceType: models.ResourceLicense,
		ResourceID:   device.ID,
		ResourceName: username,
		Action:       "License generated",
		Success:      true,
	}); err != nil {
		log.Printf("Failed to record license generation for %s: %v", username, err)
	}

	return &GeneratedLicense{ID: device.ID, Username: username, License: plain}, nil
}

// Ban blocks the record bound to deviceID
func (s *LicenseService) Ban(ctx context.Context, deviceID string) error {
	return s.setBanned(ctx, deviceID, true)
}

// Unban lifts a ban on the record bound to deviceID
func (s *LicenseService) Unban(ctx context.Context, deviceID string) error {
	return s.setBanned(ctx, deviceID, false)
}

func (s *LicenseService) setBanned(ctx context.Context, deviceID string, banned bool) error {
	if deviceID == "" {
		return ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	rec, err := s.store.GetDevice(ctx, deviceID)
	if err != nil {
		return storeError("get device", err)
	}
	if err := s.store.SetBanned(ctx, rec.ID, banned); err != nil {
		return storeError("set banned", err)
	}

	event, action := models.EventDeviceBanned, "Device banned"
	if !banned {
		event, action = models.EventDeviceUnbanned, "Device unbanned"
	}
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    event,
		Severity:     models.SeverityWarning,
		ResourceType: models.ResourceDevice,
		ResourceID:   rec.ID,
		ResourceName: rec.Username,
		Action:       action,
		Details:      models.AuditDetails{"hwid": deviceID},
		Success:      true,
	})
	return nil
}

// Delete removes a record identified by username or, when username is
// empty, by device id.
func (s *LicenseService) Delete(ctx context.Context, username, deviceID string) error {
	if username == "" && deviceID == "" {
		return ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	var (
		rec *models.Device
		err error
	)
	if username != "" {
		rec, err = s.store.GetDeviceByUsername(ctx, username)
	} else {
		rec, err = s.store.GetDevice(ctx, deviceID)
	}
	if err != nil {
		return storeError("get device", err)
	}
	if deviceID != "" && username != "" && rec.HWID() != deviceID {
		return ErrNotFound
	}

	if err := s.store.DeleteDevice(ctx, rec.ID); err != nil {
		return storeError("delete device", err)
	}

	log.Printf("Deleted %s record %s", rec.Kind, rec.Username)
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventDeviceDeleted,
		Severity:     models.SeverityWarning,
		ResourceType: models.ResourceDevice,
		ResourceID:   rec.ID,
		ResourceName: rec.Username,
		Action:       "Record deleted",
		Details:      models.AuditDetails{"hwid": rec.HWID(), "kind": string(rec.Kind)},
		Success:      true,
	})
	return nil
}
