package services

import (
	"context"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

type DeviceTokenLookup interface {
	DeviceToken(sessionID uuid.UUID) (string, error)
}

type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushService sends push notifications via Firebase Cloud Messaging.
type PushService struct {
	client messageSender
	tokens DeviceTokenLookup
}

// NewPushService initializes the Firebase client. It returns a disabled
// service when no service account is configured or Firebase fails to start.
func NewPushService(ctx context.Context, serviceAccountPath string, tokens DeviceTokenLookup) *PushService {
	if serviceAccountPath == "" {
		slog.Info("fcm: no service account configured, push notifications disabled")
		return &PushService{tokens: tokens}
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		slog.Warn("fcm: failed to initialize firebase app", "error", err)
		return &PushService{tokens: tokens}
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		slog.Warn("fcm: failed to get messaging client", "error", err)
		return &PushService{tokens: tokens}
	}

	slog.Info("fcm: push notifications enabled")
	return &PushService{client: client, tokens: tokens}
}

func (p *PushService) Enabled() bool {
	return p.client != nil
}

// Notify sends to the device registered for the session. No-op if push is
// disabled or the session has no device token.
func (p *PushService) Notify(ctx context.Context, sessionID uuid.UUID, title, body string, data map[string]string) {
	if p.client == nil || p.tokens == nil {
		return
	}

	token, err := p.tokens.DeviceToken(sessionID)
	if err != nil || token == "" {
		return
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}
	if data != nil {
		msg.Data = data
	}

	if _, err := p.client.Send(ctx, msg); err != nil {
		slog.Error("fcm: failed to send", "error", err, "session_id", sessionID)
	}
}
