package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"obmenBack/internal/models"
)

// SessionStore keeps refresh sessions in Redis. The key TTL doubles as the
// session expiry, so stale sessions disappear without a cleaner.
type SessionStore struct {
	RDB *redis.Client
	TTL time.Duration
}

func sessionKey(refreshToken string) string {
	return fmt.Sprintf("session:%s", refreshToken)
}

func (s *SessionStore) SaveSession(ctx context.Context, session models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, sessionKey(session.RefreshToken), data, s.TTL).Err()
}

func (s *SessionStore) GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error) {
	data, err := s.RDB.Get(ctx, sessionKey(refreshToken)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, models.ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, err
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, refreshToken string) error {
	return s.RDB.Del(ctx, sessionKey(refreshToken)).Err()
}
