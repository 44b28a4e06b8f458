package services

import (
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/messaging"

	"obmenBack/internal/models"
)

// NotifyTokenRepo is satisfied by repositories.NotifyTokenRepository.
type NotifyTokenRepo interface {
	SaveToken(ctx context.Context, userID int, token string) error
	GetTokensByUserID(ctx context.Context, userID int) ([]string, error)
	DeleteToken(ctx context.Context, userID int, token string) error
}

// PushService sends FCM notifications to a user's registered devices.
// Delivery is best effort: failures are logged and never bubble up into
// the operation that triggered the push.
type PushService struct {
	Client *messaging.Client
	Tokens NotifyTokenRepo
}

func (s *PushService) RegisterToken(ctx context.Context, userID int, token string) error {
	if userID == 0 {
		return models.ErrUnauthenticated
	}
	if token == "" {
		return fmt.Errorf("%w: token is required", models.ErrValidation)
	}
	return s.Tokens.SaveToken(ctx, userID, token)
}

func (s *PushService) RemoveToken(ctx context.Context, userID int, token string) error {
	if userID == 0 {
		return models.ErrUnauthenticated
	}
	return s.Tokens.DeleteToken(ctx, userID, token)
}

func (s *PushService) NotifyUser(ctx context.Context, userID int, title, body string) {
	if s == nil || s.Client == nil {
		return
	}

	tokens, err := s.Tokens.GetTokensByUserID(ctx, userID)
	if err != nil {
		log.Printf("failed to load notify tokens for user %d: %v", userID, err)
		return
	}

	// Отправка уведомления на все устройства пользователя
	for _, token := range tokens {
		message := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
			},
			APNS: &messaging.APNSConfig{
				Headers: map[string]string{
					"apns-priority": "10",
				},
			},
		}
		if _, err := s.Client.Send(ctx, message); err != nil {
			log.Printf("failed to send push to user %d: %v", userID, err)
			if messaging.IsRegistrationTokenNotRegistered(err) {
				if delErr := s.Tokens.DeleteToken(ctx, userID, token); delErr != nil {
					log.Printf("failed to drop stale token for user %d: %v", userID, delErr)
				}
			}
		}
	}
}
