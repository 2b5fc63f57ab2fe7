package store

import "errors"

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrUsernameConflict is returned when a username already exists
	ErrUsernameConflict = errors.New("username already exists")

	// ErrDeviceConflict is returned when a device id is already held by another record
	ErrDeviceConflict = errors.New("device id already bound")

	// ErrConcurrentUpdate is returned when a conditional update matched no
	// row because the record changed since it was read (0 rows updated).
	ErrConcurrentUpdate = errors.New("record changed concurrently")
)
