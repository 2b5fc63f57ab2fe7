package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/MOOQU/CF-License-Server/internal/store"
)

var (
	ErrNotFound          = errors.New("device not found")
	ErrBanned            = errors.New("device is banned")
	ErrInvalidCredential = errors.New("invalid username or license")
	ErrDeviceMismatch    = errors.New("license is bound to another device")
	ErrAlreadyExists     = errors.New("username already exists")
	ErrInvalidInput      = errors.New("invalid input")

	// ErrTransient marks store timeouts, outages and exhausted retries.
	// Every operation is safe to repeat after it.
	ErrTransient = errors.New("store temporarily unavailable")
)

// Status values reported to clients
const (
	StatusOK             = "ok"
	StatusActive         = "active"
	StatusExpired        = "expired"
	StatusBanned         = "banned"
	StatusNoUser         = "no_user"
	StatusLicensed       = "licensed"
	StatusValid          = "valid"
	StatusInvalid        = "invalid"
	StatusDeviceMismatch = "device_mismatch"
	StatusStarted        = "started"
	StatusAlreadyRunning = "already_running"
	StatusStopped        = "stopped"
	StatusUnbound        = "unbound"
)

// maxAttempts bounds how often a lost conditional update is re-read and retried
const maxAttempts = 5

// storeError maps a store failure onto the service taxonomy
func storeError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %s: %v", ErrTransient, op, err)
	}
}
