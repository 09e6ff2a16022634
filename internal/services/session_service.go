package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arnold/healthgoals-api/internal/models"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionExpired        = errors.New("session expired")
	ErrInvalidDeviceToken    = errors.New("invalid device token")
	ErrCreateSessionFailed   = errors.New("create session failed")
	ErrSaveDeviceTokenFailed = errors.New("save device token failed")
)

const maxDeviceTokenLength = 4096

type SessionRepository interface {
	Create(session *models.Session) error
	FindByID(sessionID uuid.UUID) (models.Session, error)
	UpdateDeviceToken(sessionID uuid.UUID, token string) error
}

type SessionService struct {
	repo SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewSessionService(repo SessionRepository, ttl time.Duration) *SessionService {
	return &SessionService{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

func (s *SessionService) Start() (models.Session, error) {
	session := models.Session{
		ID:        uuid.New(),
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.repo.Create(&session); err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", ErrCreateSessionFailed, err)
	}
	return session, nil
}

// Find returns the session if it exists and has not expired.
func (s *SessionService) Find(sessionID uuid.UUID) (models.Session, error) {
	session, err := s.repo.FindByID(sessionID)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	if !session.ExpiresAt.IsZero() && s.now().After(session.ExpiresAt) {
		return models.Session{}, ErrSessionExpired
	}
	return session, nil
}

// Active reports whether the session still exists and has not expired.
func (s *SessionService) Active(sessionID uuid.UUID) error {
	_, err := s.Find(sessionID)
	return err
}

func (s *SessionService) RegisterDeviceToken(sessionID uuid.UUID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" || len(token) > maxDeviceTokenLength {
		return ErrInvalidDeviceToken
	}
	if _, err := s.Find(sessionID); err != nil {
		return err
	}
	if err := s.repo.UpdateDeviceToken(sessionID, token); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveDeviceTokenFailed, err)
	}
	return nil
}

// DeviceToken returns the registered push token, or "" when none is set.
func (s *SessionService) DeviceToken(sessionID uuid.UUID) (string, error) {
	session, err := s.repo.FindByID(sessionID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	return session.FCMToken, nil
}
