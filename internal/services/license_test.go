package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/models"
	"github.com/MOOQU/CF-License-Server/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLicense(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	lic, err := env.licenses.GenerateLicense(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(lic.License, util.LicenseKeyPrefix))
	assert.Equal(t, "alice", lic.Username)

	rec, err := env.store.GetDeviceByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.KindLicensed, rec.Kind)
	assert.False(t, rec.IsBound())
	assert.NotEqual(t, lic.License, rec.LicenseSecretHash)
	assert.True(t, util.VerifyLicenseKey(rec.LicenseSecretHash, lic.License))

	_, err = env.licenses.GenerateLicense(ctx, "alice")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = env.licenses.GenerateLicense(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCheckLicense_FirstUseBindsSecondDeviceMismatches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	lic, err := env.licenses.GenerateLicense(ctx, "alice")
	require.NoError(t, err)

	result, err := env.licenses.CheckLicense(ctx, "alice", lic.License, "hw-A")
	require.NoError(t, err)
	assert.Equal(t, StatusValid, result.Status)
	assert.True(t, result.Bound)
	assert.False(t, result.ConvertedTrial)

	rec := env.device(t, "hw-A")
	assert.Equal(t, "alice", rec.Username)
	require.NotNil(t, rec.LicenseActivatedAt)
	assert.Equal(t, env.now(), *rec.LicenseActivatedAt)
	require.NotNil(t, rec.SessionStartedAt, "binding opens a session")

	_, err = env.licenses.CheckLicense(ctx, "alice", lic.License, "hw-B")
	assert.ErrorIs(t, err, ErrDeviceMismatch)

	after, err := env.store.GetDeviceByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hw-A", after.HWID())
}

func TestCheckLicense_SameDeviceContinuesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	secret := env.generateBound(t, "alice", "hw-A")

	env.advance(t, 2*time.Minute)

	result, err := env.licenses.CheckLicense(ctx, "alice", secret, "hw-A")
	require.NoError(t, err)
	assert.Equal(t, StatusValid, result.Status)
	assert.False(t, result.Bound)

	rec := env.device(t, "hw-A")
	assert.Equal(t, int64(120), rec.AccumulatedUsage)
	assert.Equal(t, env.now(), *rec.SessionStartedAt)

	// A second activation never moves the first activation time
	assert.Equal(t, env.now()-120, *rec.LicenseActivatedAt)
}

func TestCheckLicense_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.licenses.GenerateLicense(ctx, "alice")
	require.NoError(t, err)
	_, err = env.trials.RequestTrial(ctx, "hw-trial")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		secret   string
	}{
		{"unknown user", "bob", "LIC-whatever"},
		{"wrong secret", "alice", "LIC-wrong"},
		{"empty secret", "alice", ""},
		{"trial account", "trial-000001", "LIC-whatever"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.licenses.CheckLicense(ctx, tt.username, tt.secret, "hw-X")
			assert.ErrorIs(t, err, ErrInvalidCredential)
		})
	}
}

func TestCheckLicense_Banned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	secret := env.generateBound(t, "alice", "hw-A")

	require.NoError(t, env.licenses.Ban(ctx, "hw-A"))
	_, err := env.licenses.CheckLicense(ctx, "alice", secret, "hw-A")
	assert.ErrorIs(t, err, ErrBanned)

	require.NoError(t, env.licenses.Unban(ctx, "hw-A"))
	result, err := env.licenses.CheckLicense(ctx, "alice", secret, "hw-A")
	require.NoError(t, err)
	assert.Equal(t, StatusValid, result.Status)

	assert.ErrorIs(t, env.licenses.Ban(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, env.licenses.Unban(ctx, ""), ErrInvalidInput)
}

func TestCheckLicense_ConvertsTrialOnSameDevice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.trials.RequestTrial(ctx, "hw-A")
	require.NoError(t, err)
	lic, err := env.licenses.GenerateLicense(ctx, "alice")
	require.NoError(t, err)

	result, err := env.licenses.CheckLicense(ctx, "alice", lic.License, "hw-A")
	require.NoError(t, err)
	assert.True(t, result.ConvertedTrial)

	rec := env.device(t, "hw-A")
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, models.KindLicensed, rec.Kind)

	_, err = env.store.GetDeviceByUsername(ctx, "trial-000001")
	assert.Error(t, err, "the trial record is gone")

	trial, err := env.trials.CheckTrial(ctx, "hw-A")
	require.NoError(t, err)
	assert.Equal(t, StatusLicensed, trial.Status)
}

func TestCheckLicense_DeviceHeldByOtherLicense(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.generateBound(t, "alice", "hw-A")

	bob, err := env.licenses.GenerateLicense(ctx, "bob")
	require.NoError(t, err)

	_, err = env.licenses.CheckLicense(ctx, "bob", bob.License, "hw-A")
	assert.ErrorIs(t, err, ErrDeviceMismatch)

	rec, err := env.store.GetDeviceByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, rec.IsBound())
	assert.Equal(t, "alice", env.device(t, "hw-A").Username)
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.generateBound(t, "alice", "hw-A")
	_, err := env.trials.RequestTrial(ctx, "hw-T")
	require.NoError(t, err)

	require.NoError(t, env.licenses.Delete(ctx, "alice", ""))
	_, err = env.store.GetDevice(ctx, "hw-A")
	assert.Error(t, err)

	require.NoError(t, env.licenses.Delete(ctx, "", "hw-T"))
	_, err = env.store.GetDevice(ctx, "hw-T")
	assert.Error(t, err)

	assert.ErrorIs(t, env.licenses.Delete(ctx, "alice", ""), ErrNotFound)
	assert.ErrorIs(t, env.licenses.Delete(ctx, "", ""), ErrInvalidInput)
}

func TestDelete_UsernameAndDeviceMustAgree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.generateBound(t, "alice", "hw-A")

	assert.ErrorIs(t, env.licenses.Delete(ctx, "alice", "hw-B"), ErrNotFound)
	assert.Equal(t, "alice", env.device(t, "hw-A").Username)
}
