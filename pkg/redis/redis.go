package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/narayanji/distributor-app/config"
	"github.com/narayanji/distributor-app/pkg/logger"
)

var client *goredis.Client

// Initialize connects to Redis and verifies the connection.
func Initialize(cfg *config.RedisConfig) error {
	client = goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis connection established", map[string]interface{}{
		"addr": cfg.Addr(),
	})
	return nil
}

// GetClient returns the shared Redis client.
func GetClient() *goredis.Client {
	return client
}

// Close closes the Redis connection.
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

const otpKeyPrefix = "otp:"

// OTPStore persists one-time login codes in Redis with a TTL.
type OTPStore struct {
	client *goredis.Client
}

func NewOTPStore(client *goredis.Client) *OTPStore {
	return &OTPStore{client: client}
}

func (s *OTPStore) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKeyPrefix+phone, code, ttl).Err()
}

func (s *OTPStore) Get(ctx context.Context, phone string) (string, error) {
	code, err := s.client.Get(ctx, otpKeyPrefix+phone).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *OTPStore) Delete(ctx context.Context, phone string) error {
	return s.client.Del(ctx, otpKeyPrefix+phone).Err()
}
