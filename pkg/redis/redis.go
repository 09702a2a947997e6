package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/gmp-artesanias/gmp-backend/config"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "gmp:revoked:"

// TokenBlacklist stores revoked token ids until they would have expired anyway.
type TokenBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist connects to Redis and verifies the connection.
func NewTokenBlacklist(cfg *config.RedisConfig) (*TokenBlacklist, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established")
	return &TokenBlacklist{client: client}, nil
}

// Revoke marks tokenID as revoked for ttl. Non-positive ttls are ignored.
func (b *TokenBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistPrefix+tokenID, "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to blacklist token", err, map[string]interface{}{
			"token_id": tokenID,
		})
		return err
	}
	logger.Debug("Token blacklisted", map[string]interface{}{
		"token_id": tokenID,
		"ttl":      ttl.String(),
	})
	return nil
}

// IsRevoked reports whether tokenID was revoked.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	val, err := b.client.Get(ctx, blacklistPrefix+tokenID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, map[string]interface{}{
			"token_id": tokenID,
		})
		return false, err
	}
	return val == "revoked", nil
}

func (b *TokenBlacklist) Close() error {
	logger.Info("Closing Redis connection")
	return b.client.Close()
}
