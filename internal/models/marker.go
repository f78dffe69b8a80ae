package models

import (
	"time"
)

// Marker is a persisted dedup marker row.
type Marker struct {
	Key       string     `json:"key" gorm:"primaryKey;column:marker_key;size:255"`
	Value     bool       `json:"value" gorm:"not null"`
	ExpiresAt *time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Marker) TableName() string {
	return "dedup_markers"
}

// Live reports whether the marker has not expired at now.
func (m *Marker) Live(now time.Time) bool {
	return m.ExpiresAt == nil || m.ExpiresAt.After(now)
}
