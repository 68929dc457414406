package cache

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	hallsKeyPrefix = "halls:list"
	hallsListTTL   = 5 * time.Minute
)

type ValkeyClient struct {
	client       *redis.Client
	usersHashKey string
}

type Config struct {
	Addr         string
	Password     string
	UsersHashKey string
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.UsersHashKey == "" {
		cfg.UsersHashKey = "users:auth"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{
		client:       rdb,
		usersHashKey: cfg.UsersHashKey,
	}, nil
}

// GetUserAuth looks up "userID:role" by a base64(email:passwordHash) key.
func (v *ValkeyClient) GetUserAuth(ctx context.Context, email, passwordHash string) (int64, string, error) {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	value, err := v.client.HGet(ctx, v.usersHashKey, cacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, "", fmt.Errorf("user not found in cache")
		}
		return 0, "", fmt.Errorf("cache lookup error: %w", err)
	}

	id, role, found := strings.Cut(value, ":")
	if !found {
		return 0, "", fmt.Errorf("invalid auth entry in cache")
	}

	userID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid user ID in cache: %w", err)
	}

	return userID, role, nil
}

// SetUserAuth caches credentials after a successful database login.
func (v *ValkeyClient) SetUserAuth(ctx context.Context, email, passwordHash string, userID int64, role string) error {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	return v.client.HSet(ctx, v.usersHashKey, cacheKey, fmt.Sprintf("%d:%s", userID, role)).Err()
}

func hallsKey(city string) string {
	if city == "" {
		return hallsKeyPrefix + ":all"
	}
	return hallsKeyPrefix + ":" + strings.ToLower(city)
}

// GetHallsListRaw returns the cached hall listing JSON for a city filter,
// or redis.Nil-backed miss as ("", false, nil).
func (v *ValkeyClient) GetHallsListRaw(ctx context.Context, city string) (string, bool, error) {
	raw, err := v.client.Get(ctx, hallsKey(city)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache lookup error: %w", err)
	}
	return raw, true, nil
}

func (v *ValkeyClient) SetHallsListRaw(ctx context.Context, city, raw string) error {
	return v.client.Set(ctx, hallsKey(city), raw, hallsListTTL).Err()
}

// InvalidateHallsList drops every cached hall listing. Called when a hall is
// created or updated.
func (v *ValkeyClient) InvalidateHallsList(ctx context.Context) error {
	keys, err := v.client.Keys(ctx, hallsKeyPrefix+":*").Result()
	if err != nil {
		return fmt.Errorf("cache scan error: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return v.client.Del(ctx, keys...).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
