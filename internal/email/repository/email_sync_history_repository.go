package repository

import (
	"time"

	"mailrag-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// emailSyncHistoryRepository implements EmailSyncHistoryRepository interface
type emailSyncHistoryRepository struct {
	db *gorm.DB
}

// NewEmailSyncHistoryRepository creates a new instance of emailSyncHistoryRepository
func NewEmailSyncHistoryRepository(db *gorm.DB) EmailSyncHistoryRepository {
	return &emailSyncHistoryRepository{
		db: db,
	}
}

func (r *emailSyncHistoryRepository) MarkMessageAsSynced(messageID string) error {
	var history domain.EmailSyncHistory

	err := r.db.Where("message_id = ?", messageID).First(&history).Error

	now := time.Now()
	if err == gorm.ErrRecordNotFound {
		history = domain.EmailSyncHistory{
			ID:        uuid.New().String(),
			MessageID: messageID,
			SyncedAt:  now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return r.db.Create(&history).Error
	} else if err != nil {
		return err
	}

	history.SyncedAt = now
	history.UpdatedAt = now
	return r.db.Save(&history).Error
}

func (r *emailSyncHistoryRepository) EnsureMessageSynced(messageID string) (bool, error) {
	var history domain.EmailSyncHistory

	now := time.Now()
	result := r.db.Where("message_id = ?", messageID).FirstOrCreate(&history, domain.EmailSyncHistory{
		ID:        uuid.New().String(),
		MessageID: messageID,
		SyncedAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	})

	if result.Error != nil {
		return false, result.Error
	}

	// RowsAffected == 0 means the record already existed
	wasAlreadySynced := result.RowsAffected == 0

	return wasAlreadySynced, nil
}

func (r *emailSyncHistoryRepository) DeleteSyncHistory(messageID string) error {
	return r.db.Where("message_id = ?", messageID).Delete(&domain.EmailSyncHistory{}).Error
}
