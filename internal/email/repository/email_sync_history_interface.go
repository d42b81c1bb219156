package repository

// EmailSyncHistoryRepository defines the interface for email sync history operations
type EmailSyncHistoryRepository interface {
	// Mark a message as synced
	MarkMessageAsSynced(messageID string) error
	// EnsureMessageSynced checks if a message is synced, if not marks it as synced (1 query).
	// Returns: (wasAlreadySynced bool, error)
	EnsureMessageSynced(messageID string) (bool, error)
	// Delete sync history for a message, releasing its claim
	DeleteSyncHistory(messageID string) error
}
