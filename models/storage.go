package models

import "time"

// StorageEntry is one fixed-key JSON blob in the local board database, the
// moral equivalent of a browser localStorage slot.
type StorageEntry struct {
	Key       string `gorm:"primaryKey;size:100"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// OutboxEntry is a locally created edge awaiting server acknowledgment. The
// entry is written before the edge is appended to in-memory state and is only
// deleted once the backend confirms the create, so a failed or interrupted
// sync is retried rather than dropped.
type OutboxEntry struct {
	ID          string    `gorm:"primaryKey;size:100"` // edge id
	Payload     string    `gorm:"not null"`            // edge record as JSON
	Attempts    int       `gorm:"default:0"`
	LastError   string    `gorm:"size:500"`
	EnqueuedAt  time.Time `gorm:"autoCreateTime"`
	LastTriedAt *time.Time
}
