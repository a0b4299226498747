// Package session keeps the identity session alive across restarts and
// bridges identity-provider events into the application state.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saulo-duarte/swayami/internal/auth"
	"github.com/saulo-duarte/swayami/internal/config"
)

const (
	defaultKey = "swayami:session"
	defaultTTL = 30 * 24 * time.Hour
)

// RedisStore implements auth.SessionStore on Redis. Token fields are sealed
// with the configured cipher when one is given.
type RedisStore struct {
	client *redis.Client
	key    string
	cipher *config.Cipher
}

var _ auth.SessionStore = (*RedisStore)(nil)

func NewRedisStore(redisURL string, cipher *config.Cipher) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client, cipher), nil
}

func NewRedisStoreWithClient(client *redis.Client, cipher *config.Cipher) *RedisStore {
	return &RedisStore{
		client: client,
		key:    defaultKey,
		cipher: cipher,
	}
}

func (s *RedisStore) seal(fields ...*string) error {
	if s.cipher == nil {
		return nil
	}
	for _, f := range fields {
		if *f == "" {
			continue
		}
		sealed, err := s.cipher.Encrypt(*f)
		if err != nil {
			return err
		}
		*f = sealed
	}
	return nil
}

func (s *RedisStore) open(fields ...*string) error {
	if s.cipher == nil {
		return nil
	}
	for _, f := range fields {
		if *f == "" {
			continue
		}
		plain, err := s.cipher.Decrypt(*f)
		if err != nil {
			return err
		}
		*f = plain
	}
	return nil
}

func (s *RedisStore) Save(ctx context.Context, sess *auth.Session) error {
	cp := *sess
	if err := s.seal(&cp.AccessToken, &cp.RefreshToken, &cp.ProviderToken, &cp.ProviderRefreshToken); err != nil {
		return fmt.Errorf("encrypt session tokens: %w", err)
	}

	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, defaultTTL).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns (nil, nil) when no session is stored.
func (s *RedisStore) Load(ctx context.Context) (*auth.Session, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess auth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if err := s.open(&sess.AccessToken, &sess.RefreshToken, &sess.ProviderToken, &sess.ProviderRefreshToken); err != nil {
		return nil, fmt.Errorf("decrypt session tokens: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
