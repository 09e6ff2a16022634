package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session owns one goal collection. Sessions are anonymous; the bearer token
// handed out at creation is the only credential.
type Session struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	FCMToken  string         `json:"-" gorm:"column:fcm_token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type SessionResponse struct {
	Token   string  `json:"token"`
	Session Session `json:"session"`
}

type DeviceTokenRequest struct {
	Token string `json:"token" validate:"required"`
}
