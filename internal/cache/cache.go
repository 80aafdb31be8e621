// Package cache stores rendered HTML keyed by request content.
//
// Supported backends:
//   - memory (in-process, github.com/patrickmn/go-cache)
//   - redis (shared between instances, github.com/redis/go-redis/v9)
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

const (
	KindNone   = "none"
	KindMemory = "memory"
	KindRedis  = "redis"
)

// Cache is a byte-oriented key/value store. A miss and a backend failure
// both report ok=false; rendering proceeds uncached either way.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Kind          string        `yaml:"kind"`
	TTL           time.Duration `yaml:"ttl"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	Prefix        string        `yaml:"prefix"`
}

// New returns the configured backend, or nil when caching is disabled.
func New(cfg Config) (Cache, error) {
	switch cfg.Kind {
	case "", KindNone:
		return nil, nil
	case KindMemory:
		return NewMemory(cfg.TTL), nil
	case KindRedis:
		r, err := NewRedis(cfg)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("cache: unknown kind %q", cfg.Kind)
	}
}

// Key derives a content address from a template name and the validated
// request. Equal requests always map to the same key.
func Key(template string, req any) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("cache: encode request: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(template))
	h.Write([]byte{0})
	h.Write(body)
	return "render:" + hex.EncodeToString(h.Sum(nil)), nil
}
