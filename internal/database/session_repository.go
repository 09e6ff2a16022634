package database

import (
	"github.com/arnold/healthgoals-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

func (r *SessionRepository) FindByID(sessionID uuid.UUID) (models.Session, error) {
	var session models.Session
	if err := r.db.Where("id = ?", sessionID).First(&session).Error; err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (r *SessionRepository) UpdateDeviceToken(sessionID uuid.UUID, token string) error {
	result := r.db.Model(&models.Session{}).Where("id = ?", sessionID).Update("fcm_token", token)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
