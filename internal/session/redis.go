package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aarogyalekha/hospital-portal/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis, for kiosk deployments where the
// portal process restarts but the operator's session must survive on
// shared infrastructure. Keys carry no TTL: the client tracks no expiry
// and relies on the server rejecting stale tokens.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func redisKey(role Role) string {
	return "portal:session:" + string(role)
}

// SetCredential writes role's credential, dropping the other role's first.
func (r *RedisStore) SetCredential(ctx context.Context, role Role, token string, user models.UserProfile) error {
	cred := Credential{Role: role, Token: token, User: user}
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, redisKey(role.Other()))
	pipe.Set(ctx, redisKey(role), data, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

// GetCredential returns role's credential, or ErrNoCredential.
func (r *RedisStore) GetCredential(ctx context.Context, role Role) (*Credential, error) {
	data, err := r.client.Get(ctx, redisKey(role)).Bytes()
	if err == redis.Nil {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to decode credential: %w", err)
	}
	return &cred, nil
}

// Clear removes role's credential. Deleting an absent key is a no-op.
func (r *RedisStore) Clear(ctx context.Context, role Role) error {
	if err := r.client.Del(ctx, redisKey(role)).Err(); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}

// Snapshot reads both slots.
func (r *RedisStore) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	admin, err := r.GetCredential(ctx, RoleAdmin)
	if err != nil && err != ErrNoCredential {
		return snap, err
	}
	snap.Admin = admin

	doctor, err := r.GetCredential(ctx, RoleDoctor)
	if err != nil && err != ErrNoCredential {
		return snap, err
	}
	snap.Doctor = doctor

	return snap, nil
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
