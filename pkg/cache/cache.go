// Package cache stores rendered artifacts and layout snapshots.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI.
//   - [RedisCache]: a shared Redis instance, for the render service.
//   - [MongoCache]: a MongoDB collection with a TTL index.
//   - [NullCache]: stores nothing; used with --no-cache.
//
// # Keys
//
// Keys are built by a [Keyer] from the hash of the chart source plus the
// options that affect the output, so charts that render identically share
// entries. [ScopedKeyer] prefixes keys for isolation between tenants.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry. A miss is not an error:
// Get returns ok=false.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data; a zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects a backend. The first non-empty of RedisURL, MongoURI and
// Dir wins; Disabled overrides all of them.
type Config struct {
	Dir           string
	RedisURL      string
	MongoURI      string
	MongoDatabase string
	Disabled      bool
}

// Open connects the backend described by cfg.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.Backend() {
	case "redis":
		c, err = NewRedisCache(ctx, cfg.RedisURL)
	case "mongo":
		c, err = NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case "file":
		c, err = NewFileCache(cfg.Dir)
	default:
		return NewNullCache(), nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Backend names the backend cfg selects, for logging.
func (cfg Config) Backend() string {
	switch {
	case cfg.Disabled:
		return "none"
	case cfg.RedisURL != "":
		return "redis"
	case cfg.MongoURI != "":
		return "mongo"
	case cfg.Dir != "":
		return "file"
	}
	return "none"
}
