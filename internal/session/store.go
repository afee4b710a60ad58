package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"threadcart/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	keyPrefix  = "session:"
	tokenBytes = 32
	sessionTTL = 30 * 24 * time.Hour
)

// Store manages bearer session tokens.
type Store interface {
	// Issue creates a new session token for the principal.
	Issue(ctx context.Context, sess model.Session) (string, error)

	// Get resolves a token to its principal. Returns nil for unknown or
	// expired tokens.
	Get(ctx context.Context, token string) (*model.Session, error)

	// Revoke invalidates a token.
	Revoke(ctx context.Context, token string) error
}

// redisStore implements Store on Redis so sessions survive restarts and are
// shared across instances.
type redisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewStore creates a Redis-backed session store.
func NewStore(client *redis.Client, logger zerolog.Logger) Store {
	return &redisStore{
		client: client,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

func (s *redisStore) Issue(ctx context.Context, sess model.Session) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+token, data, sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Debug().
		Str("user_id", sess.UserID.String()).
		Msg("session issued")
	return token, nil
}

func (s *redisStore) Get(ctx context.Context, token string) (*model.Session, error) {
	data, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *redisStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
