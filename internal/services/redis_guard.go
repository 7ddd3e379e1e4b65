package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSendGuard shares the notification send guard across instances.
// Entries carry the same double-window TTL as the in-process guard so
// Redis bounds its own growth.
type RedisSendGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSendGuard connects to Redis and verifies the connection.
func NewRedisSendGuard(redisURL string, window time.Duration) (*RedisSendGuard, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisSendGuard{client: client, ttl: 2 * window}, nil
}

func (g *RedisSendGuard) guardKey(key string) string {
	return "leadflow:sendguard:" + key
}

// Lookup reads the last-send entry for an identity. Redis errors are
// treated as a miss: a lost guard entry can cause one extra email,
// never a dropped one.
func (g *RedisSendGuard) Lookup(key string) (GuardEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := g.client.Get(ctx, g.guardKey(key)).Bytes()
	if err == redis.Nil {
		return GuardEntry{}, false
	}
	if err != nil {
		log.Printf("⚠️ [DEDUPE] Redis guard lookup failed for %s: %v", key, err)
		return GuardEntry{}, false
	}

	var entry GuardEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Printf("⚠️ [DEDUPE] Corrupt Redis guard entry for %s: %v", key, err)
		return GuardEntry{}, false
	}
	return entry, true
}

// Store writes the last-send entry for an identity.
func (g *RedisSendGuard) Store(key string, entry GuardEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("⚠️ [DEDUPE] Failed to encode Redis guard entry for %s: %v", key, err)
		return
	}
	if err := g.client.Set(ctx, g.guardKey(key), data, g.ttl).Err(); err != nil {
		log.Printf("⚠️ [DEDUPE] Redis guard store failed for %s: %v", key, err)
	}
}

// Close releases the Redis connection.
func (g *RedisSendGuard) Close() error {
	return g.client.Close()
}
