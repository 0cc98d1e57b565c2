// Package redis provides a Redis-backed storage.SessionStore, for deployments
// that run more than one server process against a shared session space.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/mmynk/speechtracker/internal/models"
	"github.com/mmynk/speechtracker/internal/storage"
)

var _ storage.SessionStore = (*SessionStore)(nil)

const (
	keyPrefix     = "speechtracker:session:"
	userKeyPrefix = "speechtracker:user-sessions:"
)

func userKey(userID int64) string {
	return userKeyPrefix + strconv.FormatInt(userID, 10)
}

// SessionStore keeps sessions as JSON values whose Redis TTL matches the
// session expiry. Each user also has a set of their session IDs so all of
// them can be dropped at once.
type SessionStore struct {
	rdb *redis.Client
}

// NewSessionStore connects to Redis and verifies the connection.
func NewSessionStore(ctx context.Context, addr, password string, db int) (*SessionStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &SessionStore{rdb: rdb}, nil
}

// Close closes the Redis client.
func (s *SessionStore) Close() error {
	return s.rdb.Close()
}

// CreateSession stores a session until its expiry.
func (s *SessionStore) CreateSession(ctx context.Context, session *models.Session) error {
	ttl := time.Until(time.Unix(session.ExpiresAt, 0))
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	index := userKey(session.UserID)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, keyPrefix+session.ID, data, ttl)
		pipe.SAdd(ctx, index, session.ID)
		// The index lives as long as the newest session.
		pipe.Expire(ctx, index, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// GetSession returns the session, or nil when it is missing or expired.
func (s *SessionStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session := &models.Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return session, nil
}

// DeleteUserSessions removes every session listed in the user's index,
// then the index itself.
func (s *SessionStore) DeleteUserSessions(ctx context.Context, userID int64) error {
	index := userKey(userID)
	ids, err := s.rdb.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("failed to list sessions for user %d: %w", userID, err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, keyPrefix+id)
	}
	keys = append(keys, index)
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete sessions for user %d: %w", userID, err)
	}
	return nil
}

// DeleteSession removes a session.
func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
