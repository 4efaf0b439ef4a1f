package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisSessionPrefix = "curso:session:"

// RedisSessionStore keeps sessions in Redis so several app instances can share them.
type RedisSessionStore struct {
	client *redis.Client
}

var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisClient connects to addr and verifies the connection.
// PRE: addr is host:port
// POST: Returns a pinged client or an error
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// NewRedisSessionStore wraps a connected client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Create stores a new session with SessionTTL expiry and returns the token.
// PRE: session.AccountID is non-empty
// POST: Session is stored under a fresh token
func (rs *RedisSessionStore) Create(ctx context.Context, session Session) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return "", err
	}
	if err := rs.client.Set(ctx, redisSessionPrefix+token, payload, SessionTTL).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Get retrieves a session by token. Redis failures are logged and treated as no session.
// POST: Returns session if present and not expired
func (rs *RedisSessionStore) Get(ctx context.Context, token string) (Session, bool) {
	payload, err := rs.client.Get(ctx, redisSessionPrefix+token).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("session_store_error", "op", "get", "error", err.Error())
		}
		return Session{}, false
	}
	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		slog.Error("session_store_error", "op", "decode", "error", err.Error())
		return Session{}, false
	}
	if session.Expired(time.Now()) {
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
func (rs *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return rs.client.Del(ctx, redisSessionPrefix+token).Err()
}
