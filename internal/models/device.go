package models

// AccountKind distinguishes the two grant types a device record can carry
type AccountKind string

const (
	KindTrial    AccountKind = "trial"
	KindLicensed AccountKind = "licensed"
)

// Device is the per-installation record the session engine operates on.
// All timestamps are unix seconds.
type Device struct {
	ID       string      `gorm:"primaryKey;type:varchar(36)"              json:"id"`
	DeviceID *string     `gorm:"uniqueIndex;type:varchar(255)"            json:"hwid"`
	Username string      `gorm:"uniqueIndex;type:varchar(100);not null"   json:"username"`
	Kind     AccountKind `gorm:"column:account_kind;type:varchar(20);index;not null" json:"account_kind"`

	LicenseSecretHash string `gorm:"column:license_secret;type:varchar(255)" json:"-"`
	Banned            bool   `gorm:"not null;default:false" json:"banned"`

	// Session accounting
	AccumulatedUsage int64          `gorm:"column:accumulated_usage_seconds;not null;default:0" json:"accumulated_usage_seconds"`
	SessionStartedAt *int64         `json:"session_started_at"`
	LastSeenAt       int64          `gorm:"not null;default:0" json:"last_seen_at"`
	LastHeartbeatAt  int64          `gorm:"not null;default:0" json:"last_heartbeat_at"`
	OpenedAt         *int64         `json:"opened_at"`
	ClosedAt         *int64         `json:"closed_at"`
	SessionHistory   SessionHistory `gorm:"type:json"          json:"session_history"`
	HistoryRevision  int64          `gorm:"not null;default:0" json:"-"`

	TrialSequence int64  `gorm:"not null;default:0" json:"trial_sequence,omitempty"`
	ClientVersion string `gorm:"type:varchar(50)"   json:"client_version,omitempty"`

	// Provenance, set once
	CreatedAt          int64  `gorm:"autoCreateTime:false;not null" json:"created_at"`
	LicenseActivatedAt *int64 `json:"license_activated_at,omitempty"`
	TrialStartedAt     *int64 `json:"trial_started_at,omitempty"`
}

// TableName specifies the table name for GORM
func (Device) TableName() string {
	return "devices"
}

// HWID returns the bound device identifier or an empty string when unbound
func (d *Device) HWID() string {
	if d.DeviceID == nil {
		return ""
	}
	return *d.DeviceID
}

// IsBound reports whether a device identifier has been attached
func (d *Device) IsBound() bool {
	return d.DeviceID != nil && *d.DeviceID != ""
}

func (d *Device) IsTrial() bool {
	return d.Kind == KindTrial
}

func (d *Device) IsLicensed() bool {
	return d.Kind == KindLicensed
}

// IsSessionOpen reports whether a usage session is currently running
func (d *Device) IsSessionOpen() bool {
	return d.SessionStartedAt != nil
}

// SessionElapsed returns the unbanked seconds of the open session at now.
// Clock skew that puts the start in the future counts as zero.
func (d *Device) SessionElapsed(now int64) int64 {
	if d.SessionStartedAt == nil {
		return 0
	}
	return max(0, now-*d.SessionStartedAt)
}

// LiveUsage returns banked usage plus the in-flight time of an open session
func (d *Device) LiveUsage(now int64) int64 {
	return d.AccumulatedUsage + d.SessionElapsed(now)
}

// IsOnline reports whether the device produced a liveness signal within threshold seconds
func (d *Device) IsOnline(now, threshold int64) bool {
	return now-d.LastSeenAt <= threshold
}

// TrialRemaining returns the unused part of a trial budget of limit seconds
func (d *Device) TrialRemaining(now, limit int64) int64 {
	return max(0, limit-d.LiveUsage(now))
}

// IsTrialExpired reports whether a trial budget of limit seconds is used up
func (d *Device) IsTrialExpired(now, limit int64) bool {
	return d.TrialRemaining(now, limit) <= 0
}

// SessionAdvance describes one accrual step applied to an open session.
// The update only lands if the stored session_started_at still equals
// StartedAt (and, when closing, the stored history revision still equals
// HistoryRevision).
type SessionAdvance struct {
	StartedAt int64
	Now       int64
	Elapsed   int64
	Close     bool

	// Close only
	HistoryRevision int64
	History         SessionHistory

	// Heartbeat also stamps last_heartbeat_at and the client version
	Heartbeat     bool
	ClientVersion string
}
