// Package session keeps refresh-token sessions in Redis. Records expire with
// the refresh-token lifetime, so revocation needs no sweeper; redemption uses
// GETDEL so a refresh token can be spent exactly once.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	UserAgent string    `json:"userAgent,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create stores the session under the refresh-token hash. The raw token never
// reaches Redis.
func (s *Store) Create(ctx context.Context, tokenHash string, session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(tokenHash), data, s.ttl).Err()
}

// Consume redeems and removes the session in one step. A missing or expired
// session yields ok=false, not an error.
func (s *Store) Consume(ctx context.Context, tokenHash string) (Session, bool, error) {
	value, err := s.client.GetDel(ctx, sessionKey(tokenHash)).Result()
	if err == redis.Nil {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	var session Session
	if err := json.Unmarshal([]byte(value), &session); err != nil {
		return Session{}, false, err
	}
	return session, true, nil
}

func sessionKey(tokenHash string) string {
	return "refresh_session:" + tokenHash
}
