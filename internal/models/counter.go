package models

// CounterTrial names the counter that hands out trial sequence numbers
const CounterTrial = "trial"

// Counter is a named monotonically increasing sequence
type Counter struct {
	Name  string `gorm:"primaryKey;type:varchar(50)"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName specifies the table name for GORM
func (Counter) TableName() string {
	return "counters"
}
