package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SessionEntry is one closed usage session, unix seconds
type SessionEntry struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Length returns the session duration in seconds
func (e SessionEntry) Length() int64 {
	return max(0, e.End-e.Start)
}

// SessionHistory is the ordered list of closed sessions, most recent last
type SessionHistory []SessionEntry

// Value implements the driver.Valuer interface for database storage
func (h SessionHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database retrieval
func (h *SessionHistory) Scan(value any) error {
	if value == nil {
		*h = SessionHistory{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal SessionHistory value: %v", value)
	}

	if len(bytes) == 0 {
		*h = SessionHistory{}
		return nil
	}

	result := SessionHistory{}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*h = result
	return nil
}

// Append returns a new history with entry added, trimmed to the limit most
// recent entries and stripped of entries that ended before cutoff.
func (h SessionHistory) Append(entry SessionEntry, limit int, cutoff int64) SessionHistory {
	next := make(SessionHistory, 0, len(h)+1)
	next = append(next, h...)
	next = append(next, entry)
	return next.Prune(limit, cutoff)
}

// Prune keeps entries ending at or after cutoff, then the limit most recent
// of those. The receiver is not modified.
func (h SessionHistory) Prune(limit int, cutoff int64) SessionHistory {
	kept := make(SessionHistory, 0, len(h))
	for _, e := range h {
		if e.End >= cutoff {
			kept = append(kept, e)
		}
	}
	if limit > 0 && len(kept) > limit {
		kept = kept[len(kept)-limit:]
	}
	return kept
}

// Since returns the entries ending at or after cutoff, oldest first
func (h SessionHistory) Since(cutoff int64) SessionHistory {
	return h.Prune(0, cutoff)
}

// Equal reports whether both histories hold the same entries in the same order
func (h SessionHistory) Equal(other SessionHistory) bool {
	if len(h) != len(other) {
		return false
	}
	for i := range h {
		if h[i] != other[i] {
			return false
		}
	}
	return true
}
