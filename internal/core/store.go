package core

import (
	"context"

	"github.com/MOOQU/CF-License-Server/internal/models"
)

// DeviceStore is the record store the grant services operate on.
// Every mutating method is a single conditional statement (or one
// transaction) so concurrent callers never lose or double-apply updates.
type DeviceStore interface {
	// Lookups
	GetDevice(ctx context.Context, deviceID string) (*models.Device, error)
	GetDeviceByID(ctx context.Context, id string) (*models.Device, error)
	GetDeviceByUsername(ctx context.Context, username string) (*models.Device, error)
	ListDevices(ctx context.Context) ([]models.Device, error)

	// Lifecycle
	CreateDevice(ctx context.Context, device *models.Device) error
	DeleteDevice(ctx context.Context, id string) error
	NextSequence(ctx context.Context, name string) (int64, error)

	// Session accounting
	TouchDevice(ctx context.Context, id string, now int64, heartbeat bool, version string) error
	OpenSession(ctx context.Context, id string, now int64) (bool, error)
	AdvanceSession(ctx context.Context, id string, adv models.SessionAdvance) error
	CloseIdleSession(ctx context.Context, id string, now int64) error

	// Binding and moderation
	BindDevice(ctx context.Context, id, deviceID string, now int64) (bool, error)
	SetBanned(ctx context.Context, id string, banned bool) error

	// History maintenance
	ReplaceHistory(
		ctx context.Context,
		id string,
		revision int64,
		history models.SessionHistory,
	) error
	ClearHistory(ctx context.Context, id string) error
	ClearAllHistory(ctx context.Context) (int64, error)
}
