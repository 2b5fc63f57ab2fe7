package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v int64) *int64 {
	return &v
}

func TestDevice_LiveUsage(t *testing.T) {
	tests := []struct {
		name     string
		device   Device
		now      int64
		expected int64
	}{
		{
			name:     "closed session returns banked usage",
			device:   Device{AccumulatedUsage: 300},
			now:      1000,
			expected: 300,
		},
		{
			name:     "open session adds elapsed time",
			device:   Device{AccumulatedUsage: 300, SessionStartedAt: ptr(900)},
			now:      1000,
			expected: 400,
		},
		{
			name:     "start in the future counts as zero",
			device:   Device{AccumulatedUsage: 300, SessionStartedAt: ptr(1100)},
			now:      1000,
			expected: 300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.device.LiveUsage(tt.now))
		})
	}
}

func TestDevice_TrialRemaining(t *testing.T) {
	// 7199 banked plus 5s in flight against a 7200s budget
	d := Device{Kind: KindTrial, AccumulatedUsage: 7199, SessionStartedAt: ptr(995)}

	assert.Equal(t, int64(0), d.TrialRemaining(1000, 7200))
	assert.True(t, d.IsTrialExpired(1000, 7200))

	fresh := Device{Kind: KindTrial, AccumulatedUsage: 100}
	assert.Equal(t, int64(7100), fresh.TrialRemaining(1000, 7200))
	assert.False(t, fresh.IsTrialExpired(1000, 7200))
}

func TestDevice_IsOnline(t *testing.T) {
	d := Device{LastSeenAt: 1000}

	assert.True(t, d.IsOnline(1000, 120))
	assert.True(t, d.IsOnline(1120, 120))
	assert.False(t, d.IsOnline(1121, 120))
}

func TestDevice_Binding(t *testing.T) {
	d := Device{Kind: KindLicensed}
	assert.False(t, d.IsBound())
	assert.Equal(t, "", d.HWID())

	empty := ""
	d.DeviceID = &empty
	assert.False(t, d.IsBound())

	hwid := "HW-1"
	d.DeviceID = &hwid
	assert.True(t, d.IsBound())
	assert.Equal(t, "HW-1", d.HWID())
	assert.True(t, d.IsLicensed())
	assert.False(t, d.IsTrial())
}
