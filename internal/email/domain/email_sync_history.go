package domain

import "time"

// EmailSyncHistory tracks which messages have been synced to the vector
// database. This lets incremental ingestion skip embedding calls for messages
// that were already persisted.
type EmailSyncHistory struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	MessageID string    `json:"message_id" gorm:"uniqueIndex:idx_message_unique;not null"`
	SyncedAt  time.Time `json:"synced_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (EmailSyncHistory) TableName() string {
	return "email_sync_histories"
}
